package rules

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const tablesJSON = `{
  "solar_gold": {"primary": "#FFD700", "secondary": "#FF8C00"},
  "white_gold": {"primary": "#FFFFFF"},
  "accent_wheel": ["#E6E6FA", "#FF69B4", "#7FFFD4"]
}`

const tablesYAML = `
solar_gold:
  primary: "#FFD700"
  secondary: "#FF8C00"
white_gold:
  primary: "#FFFFFF"
  weight: 2
accent_wheel:
  - "#E6E6FA"
  - "#FF69B4"
  - "#7FFFD4"
`

func TestParse_JSON(t *testing.T) {
	tb, err := Parse([]byte(tablesJSON), ".json")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if diff := cmp.Diff([]string{"solar_gold", "white_gold"}, tb.PaletteNames()); diff != "" {
		t.Errorf("PaletteNames (-want +got):\n%s", diff)
	}
	if tb.AccentCount() != 3 {
		t.Errorf("AccentCount = %d, want 3", tb.AccentCount())
	}
	p, ok := tb.Palette("solar_gold")
	if !ok {
		t.Fatal("solar_gold missing")
	}
	if diff := cmp.Diff([]string{"primary", "secondary"}, p.Keys()); diff != "" {
		t.Errorf("palette keys (-want +got):\n%s", diff)
	}
}

func TestParse_YAMLMatchesJSONShape(t *testing.T) {
	tb, err := Parse([]byte(tablesYAML), ".yml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p, _ := tb.Palette("white_gold")
	if n, ok := p.Int("weight"); !ok || n != 2 {
		t.Errorf("yaml int should decode as integral number, got %v %v", n, ok)
	}
	if tb.Accent(1) != "#FF69B4" {
		t.Errorf("Accent(1) = %q", tb.Accent(1))
	}
}

func TestParse_DetectsFormat(t *testing.T) {
	for name, doc := range map[string]string{"json": tablesJSON, "yaml": tablesYAML} {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(doc), ""); err != nil {
				t.Errorf("Parse without hint: %v", err)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"no accent wheel", `{"white_gold": {}}`},
		{"empty accent wheel", `{"white_gold": {}, "accent_wheel": []}`},
		{"accent not strings", `{"white_gold": {}, "accent_wheel": [1]}`},
		{"no fallback", `{"solar_gold": {}, "accent_wheel": ["#fff"]}`},
		{"palette not object", `{"white_gold": "#fff", "accent_wheel": ["#fff"]}`},
		{"top level array", `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), ".json")
			if !errors.Is(err, ErrInvalidTables) {
				t.Errorf("want ErrInvalidTables, got %v", err)
			}
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	if _, err := Parse([]byte(`{"white_gold":`), ".json"); err == nil {
		t.Error("expected parse error for truncated json")
	}
	if _, err := Parse([]byte("a: [b"), ".yaml"); err == nil {
		t.Error("expected parse error for broken yaml")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("want os.ErrNotExist, got %v", err)
	}
}

func TestLoad_FromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "palettes.yaml")
	if err := os.WriteFile(path, []byte(tablesYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err != nil {
		t.Errorf("Load: %v", err)
	}
}

func TestPalette_ReturnsCopy(t *testing.T) {
	tb, _ := Parse([]byte(tablesJSON), ".json")
	p, _ := tb.Palette("solar_gold")
	p.Set("accent", "#000")
	again, _ := tb.Palette("solar_gold")
	if again.Has("accent") {
		t.Error("mutating a returned palette leaked into the tables")
	}
}

func TestStaticLookups(t *testing.T) {
	if got := SignElement("Scorpio"); got != "Water" {
		t.Errorf("SignElement(Scorpio) = %q", got)
	}
	if got := SignElement("Ophiuchus"); got != Ether {
		t.Errorf("unknown sign should map to Ether, got %q", got)
	}
	if got := PaletteKey("Pluto"); got != "plutonian_wine" {
		t.Errorf("PaletteKey(Pluto) = %q", got)
	}
	if got := PaletteKey("Vulcan"); got != FallbackPalette {
		t.Errorf("unknown planet should fall back, got %q", got)
	}
	if hz, pos := Frequency("Love"); hz != 528 || pos != 7 {
		t.Errorf("Frequency(Love) = %d, %d", hz, pos)
	}
	if hz, pos := Frequency("Quartz"); hz != DefaultHz || pos != -1 {
		t.Errorf("Frequency(Quartz) = %d, %d", hz, pos)
	}
	if got := Note(-1); got != "B" {
		t.Errorf("Note(-1) = %q, want B", got)
	}
	if len(NoteCycle()) != 12 {
		t.Error("note cycle must have 12 entries")
	}
	if !Risky().Has("Fire") || !Safe().Intersects([]string{"x", "Peace"}) || HighEnergy().Intersects(nil) {
		t.Error("tag group membership is wrong")
	}
}
