// Package seed checks hand-authored seed records and extracts the typed
// fields the expander derives from. The record itself is never modified;
// unknown fields ride along untouched.
package seed

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"codex/internal/derive"
	"codex/internal/node"
)

// ErrMalformed matches every seed that cannot be expanded.
var ErrMalformed = errors.New("seed: malformed record")

// Error describes one malformed seed. NodeID is zero when the record has no
// usable node_id.
type Error struct {
	Index   int
	NodeID  int
	Missing []string
	Invalid []string
	Cause   error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "seed %d", e.Index)
	if e.NodeID != 0 {
		fmt.Fprintf(&b, " (node_id %d)", e.NodeID)
	}
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, ": missing %s", strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		fmt.Fprintf(&b, ": invalid %s", strings.Join(e.Invalid, ", "))
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *Error) Is(target error) bool { return target == ErrMalformed }

func (e *Error) Unwrap() error { return e.Cause }

// Seed is the typed view of a seed record. Blank text and empty lists are
// legal; derivation falls back to its defaults for them.
type Seed struct {
	NodeID   int      `json:"node_id" validate:"gte=1"`
	Name     string   `json:"name"`
	Elements []string `json:"element"`
	Planet   string   `json:"planet"`
	Zodiac   string   `json:"zodiac"`
	Tags     []string `json:"fusion_tags"`

	// Solfeggio holds the literal text of an explicit frequency override.
	Solfeggio *string `json:"solfeggio_freq,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
}

// Extract checks rec against DefaultSchema and returns its typed view.
// index is the record's position in the input and only feeds the error.
func Extract(index int, rec *node.Record) (Seed, error) {
	id, _ := rec.NodeID()
	res := DefaultSchema.Check(rec)
	if !res.OK() {
		return Seed{}, &Error{Index: index, NodeID: id, Missing: res.Missing, Invalid: res.Invalid}
	}

	s := Seed{NodeID: id}
	s.Name, _ = rec.String(FieldName)
	s.Planet, _ = rec.String(FieldPlanet)
	s.Zodiac, _ = rec.String(FieldZodiac)
	s.Elements = Elements(mustGet(rec, FieldElement))
	tags, _ := node.StringList(mustGet(rec, FieldTags))
	s.Tags = append([]string{}, tags...)
	if v, ok := rec.Get(FieldSolfeggio); ok && v != nil {
		o := overrideText(v)
		s.Solfeggio = &o
	}

	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return Seed{}, &Error{Index: index, NodeID: id, Cause: err}
		}
		e := &Error{Index: index, NodeID: id}
		for _, fe := range verrs {
			name, _, _ := strings.Cut(fe.Field(), "[")
			if !slices.Contains(e.Invalid, name) {
				e.Invalid = append(e.Invalid, name)
			}
		}
		return Seed{}, e
	}
	return s, nil
}

// Elements normalizes the element field: a list is taken as is, a string is
// split on "/" with tokens trimmed and empties dropped.
func Elements(v any) []string {
	if s, ok := v.(string); ok {
		return derive.Split(s)
	}
	list, _ := node.StringList(v)
	return append([]string{}, list...)
}

func overrideText(v any) string {
	switch t := v.(type) {
	case json.Number:
		if text, err := node.FormatNumber(t); err == nil {
			return text
		}
		return t.String()
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case string:
		return strings.TrimSpace(t)
	default:
		return fmt.Sprint(t)
	}
}

func mustGet(rec *node.Record, key string) any {
	v, _ := rec.Get(key)
	return v
}
