// Package slice selects subsets of a derived dataset by element or by the
// culture of a node's deities. Selected records are passed through
// untouched, so their lock hashes stay valid.
package slice

import (
	"slices"
	"strings"

	"codex/internal/node"
)

// Deity fields searched for a culture match.
var deityFields = []string{"gods", "goddesses"}

// Filter holds the selection criteria. Empty fields match everything.
type Filter struct {
	Element string
	Culture string
}

// Empty reports whether f selects every record.
func (f Filter) Empty() bool {
	return f.Element == "" && f.Culture == ""
}

// Match reports whether rec satisfies every set criterion.
//
// Element matches a substring of a string element field, or an exact entry
// of a list. Culture matches any gods/goddesses entry whose "culture" equals
// it.
func (f Filter) Match(rec *node.Record) bool {
	if f.Element != "" && !hasElement(rec, f.Element) {
		return false
	}
	if f.Culture != "" && !hasCulture(rec, f.Culture) {
		return false
	}
	return true
}

// Apply returns the records matching f, in input order.
func Apply(recs []*node.Record, f Filter) []*node.Record {
	out := make([]*node.Record, 0, len(recs))
	for _, r := range recs {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

func hasElement(rec *node.Record, element string) bool {
	v, _ := rec.Get("element")
	if s, ok := v.(string); ok {
		return strings.Contains(s, element)
	}
	list, ok := node.StringList(v)
	return ok && slices.Contains(list, element)
}

func hasCulture(rec *node.Record, culture string) bool {
	for _, field := range deityFields {
		v, _ := rec.Get(field)
		items, ok := v.([]any)
		if !ok {
			continue
		}
		for _, it := range items {
			d, ok := it.(*node.Record)
			if !ok {
				continue
			}
			if c, _ := d.String("culture"); c == culture {
				return true
			}
		}
	}
	return false
}
