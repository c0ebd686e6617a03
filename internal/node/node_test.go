package node

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleDoc = `{"b":1,"a":[true,null,"ü"],"c":{"z":"x\n\"q\"","y":1.5}}`

func mustDecodeRecord(t *testing.T, doc string) *Record {
	t.Helper()
	v, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	rec, ok := v.(*Record)
	if !ok {
		t.Fatalf("Decode returned %T, want *Record", v)
	}
	return rec
}

func TestDecode_KeepsKeyOrder(t *testing.T) {
	rec := mustDecodeRecord(t, sampleDoc)
	if diff := cmp.Diff([]string{"b", "a", "c"}, rec.Keys()); diff != "" {
		t.Errorf("top-level keys (-want +got):\n%s", diff)
	}
	c, _ := rec.Get("c")
	if diff := cmp.Diff([]string{"z", "y"}, c.(*Record).Keys()); diff != "" {
		t.Errorf("nested keys (-want +got):\n%s", diff)
	}
	b, _ := rec.Get("b")
	if _, ok := b.(json.Number); !ok {
		t.Errorf("numbers should decode as json.Number, got %T", b)
	}
}

func TestMarshal_Styles(t *testing.T) {
	rec := mustDecodeRecord(t, sampleDoc)
	tests := []struct {
		style Style
		want  string
	}{
		{Compact, sampleDoc},
		{Canonical, `{"a": [true, null, "ü"], "b": 1, "c": {"y": 1.5, "z": "x\n\"q\""}}`},
		{Pretty, "{\n  \"b\": 1,\n  \"a\": [\n    true,\n    null,\n    \"ü\"\n  ],\n  \"c\": {\n    \"z\": \"x\\n\\\"q\\\"\",\n    \"y\": 1.5\n  }\n}"},
	}
	for _, tt := range tests {
		t.Run(tt.style.String(), func(t *testing.T) {
			got, err := Marshal(rec, tt.style)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if diff := cmp.Diff(tt.want, string(got)); diff != "" {
				t.Errorf("output (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMarshal_PrettyAndCompactDecodeAlike(t *testing.T) {
	rec := mustDecodeRecord(t, sampleDoc)
	pretty, _ := Marshal(rec, Pretty)
	compact, _ := Marshal(rec, Compact)
	a, _ := Decode(pretty)
	b, _ := Decode(compact)
	ca, _ := Marshal(a, Canonical)
	cb, _ := Marshal(b, Canonical)
	if string(ca) != string(cb) {
		t.Errorf("pretty and compact decode differently:\n%s\n%s", ca, cb)
	}
}

func TestWriteString_EscapesOnlyControls(t *testing.T) {
	got, err := Marshal("\x01\x7f<&>é", Canonical)
	if err != nil {
		t.Fatal(err)
	}
	want := "\"\\u0001\x7f<&>é\""
	if string(got) != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatFloat(t *testing.T) {
	tests := map[float64]string{
		1.5:    "1.5",
		100:    "100.0",
		0:      "0.0",
		1e16:   "1e+16",
		1.5e-5: "1.5e-05",
		-2.25:  "-2.25",
	}
	for in, want := range tests {
		got, err := formatFloat(in)
		if err != nil || got != want {
			t.Errorf("formatFloat(%v) = %q, %v; want %q", in, got, err, want)
		}
	}
}

func TestLockHash_MatchesReferenceDigest(t *testing.T) {
	rec := mustDecodeRecord(t, sampleDoc)
	got, err := LockHash(rec)
	if err != nil {
		t.Fatal(err)
	}
	const want = "a9aa581a308cca6933f4fcaa3e0f483c421119eb44fec071990add9766fa915e"
	if got != want {
		t.Errorf("LockHash = %s, want %s", got, want)
	}
}

func TestLockHash_NormalizesNumberLiterals(t *testing.T) {
	rec := mustDecodeRecord(t, `{"ratio": 1.50, "big": 1e2, "tiny": 25E-6, "n": 7, "neg": -0}`)
	canon, err := Marshal(rec, Canonical)
	if err != nil {
		t.Fatal(err)
	}
	const wantCanon = `{"big": 100.0, "n": 7, "neg": 0, "ratio": 1.5, "tiny": 2.5e-05}`
	if diff := cmp.Diff(wantCanon, string(canon)); diff != "" {
		t.Errorf("canonical (-want +got):\n%s", diff)
	}
	got, err := LockHash(rec)
	if err != nil {
		t.Fatal(err)
	}
	// sha256 of wantCanon, as produced by json.loads then json.dumps(sort_keys=True).
	const want = "70f9aa2e7f66302355223979f02e48369f1e3fb1bb2eb93e37dc94edc68e3c46"
	if got != want {
		t.Errorf("LockHash = %s, want %s", got, want)
	}

	compact, err := Marshal(rec, Compact)
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"ratio":1.5,"big":100.0,"tiny":2.5e-05,"n":7,"neg":0}`; string(compact) != want {
		t.Errorf("compact = %s, want %s", compact, want)
	}
}

func TestSeal_ExcludesOwnField(t *testing.T) {
	rec := mustDecodeRecord(t, sampleDoc)
	if err := Seal(rec); err != nil {
		t.Fatal(err)
	}
	keys := rec.Keys()
	if keys[len(keys)-1] != HashField {
		t.Errorf("lock_hash should be last key, got %v", keys)
	}
	again, _ := LockHash(rec)
	stored, _ := rec.String(HashField)
	if again != stored {
		t.Errorf("recomputed %s != stored %s", again, stored)
	}
}

func TestRecord_SetReplacesInPlace(t *testing.T) {
	rec := New()
	rec.Set("a", 1)
	rec.Set("b", 2)
	rec.Set("a", 3)
	if diff := cmp.Diff([]string{"a", "b"}, rec.Keys()); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}
	v, _ := rec.Get("a")
	if v != 3 {
		t.Errorf("a = %v, want 3", v)
	}
}

func TestRecord_CloneIsDeep(t *testing.T) {
	rec := mustDecodeRecord(t, sampleDoc)
	clone := rec.Clone()
	c, _ := clone.Get("c")
	c.(*Record).Set("z", "changed")
	clone.Delete("b")

	orig, _ := rec.Get("c")
	if z, _ := orig.(*Record).String("z"); z == "changed" {
		t.Error("mutating clone changed the original nested record")
	}
	if !rec.Has("b") {
		t.Error("deleting from clone removed key from original")
	}
}

func TestDecodeRecords_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not array", `{"a":1}`},
		{"non-object element", `[{"a":1}, 2]`},
		{"trailing data", `[] []`},
		{"truncated", `[{"a":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeRecords([]byte(tt.doc)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestAsInt(t *testing.T) {
	if n, ok := AsInt(json.Number("42")); !ok || n != 42 {
		t.Errorf("AsInt(42) = %d, %v", n, ok)
	}
	if n, ok := AsInt(json.Number("7.0")); !ok || n != 7 {
		t.Errorf("AsInt(7.0) = %d, %v", n, ok)
	}
	if _, ok := AsInt(json.Number("7.5")); ok {
		t.Error("AsInt(7.5) should fail")
	}
	if _, ok := AsInt("7"); ok {
		t.Error("AsInt(string) should fail")
	}
}

func TestMarshal_UnsupportedType(t *testing.T) {
	_, err := Marshal(struct{}{}, Compact)
	if err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("expected unsupported type error, got %v", err)
	}
}

func TestRecord_UnmarshalJSON(t *testing.T) {
	var rec Record
	if err := json.Unmarshal([]byte(sampleDoc), &rec); err != nil {
		t.Fatal(err)
	}
	if rec.Len() != 3 {
		t.Errorf("Len = %d, want 3", rec.Len())
	}
	if err := json.Unmarshal([]byte(`[1]`), &rec); !errors.Is(err, errNotObject) {
		t.Errorf("expected errNotObject, got %v", err)
	}
}
