package slice

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"codex/internal/node"
)

const dataset = `[
  {"node_id": 1, "element": "Fire", "lock_hash": "a"},
  {"node_id": 2, "element": ["Fire", "Water"], "gods": [{"name": "Poseidon", "culture": "Greek"}]},
  {"node_id": 3, "element": "Earth / Air", "goddesses": [{"name": "Isis", "culture": "Egyptian"}]},
  {"node_id": 4, "element": ["Firelight"], "gods": "not a list"},
  {"node_id": 5, "gods": [{"name": "Thoth", "culture": "Egyptian"}, "stray"]}
]`

func ids(recs []*node.Record) []int {
	var out []int
	for _, r := range recs {
		id, _ := r.NodeID()
		out = append(out, id)
	}
	return out
}

func TestApply(t *testing.T) {
	recs, err := node.DecodeRecords([]byte(dataset))
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name   string
		filter Filter
		want   []int
	}{
		{"empty filter keeps all", Filter{}, []int{1, 2, 3, 4, 5}},
		{"element substring or list entry", Filter{Element: "Fire"}, []int{1, 2}},
		{"element in composite string", Filter{Element: "Air"}, []int{3}},
		{"culture across gods and goddesses", Filter{Culture: "Egyptian"}, []int{3, 5}},
		{"both criteria", Filter{Element: "Water", Culture: "Greek"}, []int{2}},
		{"no match", Filter{Culture: "Norse"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ids(Apply(recs, tt.filter))); diff != "" {
				t.Errorf("Apply (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApply_PassesRecordsThrough(t *testing.T) {
	recs, err := node.DecodeRecords([]byte(dataset))
	if err != nil {
		t.Fatal(err)
	}
	out := Apply(recs, Filter{Element: "Fire"})
	if out[0] != recs[0] {
		t.Error("Apply should return the original records")
	}
	if h, _ := out[0].String(node.HashField); h != "a" {
		t.Errorf("lock_hash changed: %q", h)
	}
}

func TestFilter_Empty(t *testing.T) {
	if !(Filter{}).Empty() || (Filter{Culture: "Greek"}).Empty() {
		t.Error("Empty is wrong")
	}
}
