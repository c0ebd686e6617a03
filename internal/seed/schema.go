package seed

import (
	"encoding/json"
	"strings"

	"codex/internal/node"
)

// FieldRequirement defines whether a seed field must be present.
type FieldRequirement string

const (
	Required FieldRequirement = "required"
	Optional FieldRequirement = "optional"
)

// FieldSpec describes one seed field: its name, requirement level and the
// JSON shapes it accepts.
type FieldSpec struct {
	Name        string
	Requirement FieldRequirement
	Description string
	Validate    func(value any) bool
}

// Schema is the expected shape of a seed record.
type Schema struct {
	Name   string
	Fields []FieldSpec
}

// RequiredFields returns only the fields marked as Required.
func (s Schema) RequiredFields() []FieldSpec {
	var out []FieldSpec
	for _, f := range s.Fields {
		if f.Requirement == Required {
			out = append(out, f)
		}
	}
	return out
}

// Result lists the problems Check found in one record.
type Result struct {
	Present []string
	Missing []string
	Invalid []string
}

// OK reports whether the record can be expanded.
func (r Result) OK() bool {
	return len(r.Missing) == 0 && len(r.Invalid) == 0
}

// Check evaluates rec against s. A required field holding null counts as
// missing. Optional fields are only type-checked when present and non-null.
func (s Schema) Check(rec *node.Record) Result {
	var res Result
	for _, spec := range s.Fields {
		v, has := rec.Get(spec.Name)
		if !has || v == nil {
			if spec.Requirement == Required {
				res.Missing = append(res.Missing, spec.Name)
			}
			continue
		}
		if spec.Validate != nil && !spec.Validate(v) {
			res.Invalid = append(res.Invalid, spec.Name)
			continue
		}
		res.Present = append(res.Present, spec.Name)
	}
	return res
}

// Field names of a seed record.
const (
	FieldNodeID    = "node_id"
	FieldName      = "name"
	FieldElement   = "element"
	FieldPlanet    = "planet"
	FieldZodiac    = "zodiac"
	FieldTags      = "fusion_tags"
	FieldSolfeggio = "solfeggio_freq"
)

// DefaultSchema is the seed record layout the expander consumes.
var DefaultSchema = Schema{
	Name: "codex-seed",
	Fields: []FieldSpec{
		{Name: FieldNodeID, Requirement: Required, Description: "position in the 144-node space", Validate: isInt},
		{Name: FieldName, Requirement: Required, Validate: isString},
		{Name: FieldElement, Requirement: Required, Description: "single, \"/\"-composite or list", Validate: isStringOrList},
		{Name: FieldPlanet, Requirement: Required, Validate: isString},
		{Name: FieldZodiac, Requirement: Required, Validate: isString},
		{Name: FieldTags, Requirement: Required, Validate: isStringList},
		{Name: FieldSolfeggio, Requirement: Optional, Description: "explicit frequency override", Validate: isFrequency},
	},
}

func isInt(v any) bool {
	_, ok := node.AsInt(v)
	return ok
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

func isStringList(v any) bool {
	_, ok := node.StringList(v)
	return ok
}

func isStringOrList(v any) bool {
	return isString(v) || isStringList(v)
}

func isFrequency(v any) bool {
	switch t := v.(type) {
	case json.Number, int, int64, float64:
		return true
	case string:
		return strings.TrimSpace(t) != ""
	default:
		return false
	}
}
