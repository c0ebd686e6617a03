package seed

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"codex/internal/node"
)

func record(t *testing.T, doc string) *node.Record {
	t.Helper()
	var r node.Record
	if err := r.UnmarshalJSON([]byte(doc)); err != nil {
		t.Fatalf("decode %s: %v", doc, err)
	}
	return &r
}

const validSeed = `{"node_id": 2, "name": "Tidal Mirror", "element": ["Fire", "Water"],
  "planet": "Moon / Neptune", "zodiac": "Cancer", "fusion_tags": ["Mirror"], "extra": {"k": 1}}`

func TestSchema_RequiredFields(t *testing.T) {
	req := DefaultSchema.RequiredFields()
	var names []string
	for _, f := range req {
		names = append(names, f.Name)
	}
	want := []string{FieldNodeID, FieldName, FieldElement, FieldPlanet, FieldZodiac, FieldTags}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("RequiredFields (-want +got):\n%s", diff)
	}
}

func TestCheck_AllPresent(t *testing.T) {
	res := DefaultSchema.Check(record(t, validSeed))
	if !res.OK() {
		t.Fatalf("Check = %+v, want OK", res)
	}
	if len(res.Present) != 6 {
		t.Errorf("Present = %v, want 6 fields", res.Present)
	}
}

func TestCheck_MissingAndInvalid(t *testing.T) {
	res := DefaultSchema.Check(record(t, `{"node_id": "7", "name": null, "element": 3,
	  "planet": "Sun", "fusion_tags": ["a", 1], "solfeggio_freq": ""}`))
	if diff := cmp.Diff([]string{FieldName, FieldZodiac}, res.Missing); diff != "" {
		t.Errorf("Missing (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{FieldNodeID, FieldElement, FieldTags, FieldSolfeggio}, res.Invalid); diff != "" {
		t.Errorf("Invalid (-want +got):\n%s", diff)
	}
	if res.OK() {
		t.Error("OK should be false")
	}
}

func TestExtract(t *testing.T) {
	s, err := Extract(0, record(t, validSeed))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := Seed{
		NodeID:   2,
		Name:     "Tidal Mirror",
		Elements: []string{"Fire", "Water"},
		Planet:   "Moon / Neptune",
		Zodiac:   "Cancer",
		Tags:     []string{"Mirror"},
	}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("Extract (-want +got):\n%s", diff)
	}
}

func TestExtract_CompositeElementAndOverride(t *testing.T) {
	tests := []struct {
		name     string
		freq     string
		override string
	}{
		{"integer", `528`, "528"},
		{"float literal", `528.0`, "528.0"},
		{"float literal normalized", `528.00`, "528.0"},
		{"exponent", `5.28e2`, "528.0"},
		{"string", `" 432 Hz "`, "432 Hz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Extract(0, record(t, `{"node_id": 3, "name": "n", "element": "Earth / Air",
			  "planet": "Venus", "zodiac": "Taurus", "fusion_tags": [], "solfeggio_freq": `+tt.freq+`}`))
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if diff := cmp.Diff([]string{"Earth", "Air"}, s.Elements); diff != "" {
				t.Errorf("Elements (-want +got):\n%s", diff)
			}
			if s.Solfeggio == nil || *s.Solfeggio != tt.override {
				t.Errorf("Solfeggio = %v, want %q", s.Solfeggio, tt.override)
			}
			if s.Tags == nil || len(s.Tags) != 0 {
				t.Errorf("Tags = %#v, want empty non-nil", s.Tags)
			}
		})
	}
}

func TestExtract_NullOverrideIsAbsent(t *testing.T) {
	s, err := Extract(0, record(t, `{"node_id": 1, "name": "n", "element": "Fire",
	  "planet": "Sun", "zodiac": "Aries", "fusion_tags": [], "solfeggio_freq": null}`))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if s.Solfeggio != nil {
		t.Errorf("null override should be absent, got %q", *s.Solfeggio)
	}
}

func TestExtract_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		nodeID  int
		missing []string
		invalid []string
	}{
		{
			name:    "missing zodiac",
			doc:     `{"node_id": 9, "name": "n", "element": "Fire", "planet": "Sun", "fusion_tags": []}`,
			nodeID:  9,
			missing: []string{FieldZodiac},
		},
		{
			name:    "zero node id",
			doc:     `{"node_id": 0, "name": "n", "element": "Fire", "planet": "Sun", "zodiac": "Leo", "fusion_tags": []}`,
			invalid: []string{FieldNodeID},
		},
		{
			name:    "negative node id",
			doc:     `{"node_id": -3, "name": "n", "element": "Fire", "planet": "Sun", "zodiac": "Leo", "fusion_tags": []}`,
			nodeID:  -3,
			invalid: []string{FieldNodeID},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(7, record(t, tt.doc))
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("want ErrMalformed, got %v", err)
			}
			var se *Error
			if !errors.As(err, &se) {
				t.Fatalf("want *Error, got %T", err)
			}
			if se.Index != 7 || se.NodeID != tt.nodeID {
				t.Errorf("Index, NodeID = %d, %d; want 7, %d", se.Index, se.NodeID, tt.nodeID)
			}
			if diff := cmp.Diff(tt.missing, se.Missing); diff != "" {
				t.Errorf("Missing (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.invalid, se.Invalid); diff != "" {
				t.Errorf("Invalid (-want +got):\n%s", diff)
			}
		})
	}
}

func TestError_Message(t *testing.T) {
	e := &Error{Index: 3, NodeID: 12, Missing: []string{"name", "zodiac"}}
	if got, want := e.Error(), "seed 3 (node_id 12): missing name, zodiac"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestExtract_BlankFieldsAreLegal(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want Seed
	}{
		{
			name: "blank text",
			doc:  `{"node_id": 4, "name": "", "element": " / ", "planet": "", "zodiac": "", "fusion_tags": ["", "Fire"]}`,
			want: Seed{NodeID: 4, Tags: []string{"", "Fire"}},
		},
		{
			name: "empty element list",
			doc:  `{"node_id": 5, "name": "n", "element": [], "planet": "Sun", "zodiac": "Leo", "fusion_tags": []}`,
			want: Seed{NodeID: 5, Name: "n", Elements: []string{}, Planet: "Sun", Zodiac: "Leo", Tags: []string{}},
		},
		{
			name: "blank list entry",
			doc:  `{"node_id": 6, "name": "n", "element": ["Fire", ""], "planet": "Sun", "zodiac": "Leo", "fusion_tags": []}`,
			want: Seed{NodeID: 6, Name: "n", Elements: []string{"Fire", ""}, Planet: "Sun", Zodiac: "Leo", Tags: []string{}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(0, record(t, tt.doc))
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Extract (-want +got):\n%s", diff)
			}
		})
	}
}
