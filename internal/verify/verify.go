// Package verify re-checks the lock hashes of a derived dataset. It never
// modifies or repairs what it reads.
package verify

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"codex/internal/node"
)

// ErrIntegrity matches a Result with at least one mismatch.
var ErrIntegrity = errors.New("verify: lock hash mismatch")

// Mismatch is one record whose stored hash does not match its content.
// Stored is empty when the record carries no lock_hash.
type Mismatch struct {
	Index    int
	NodeID   int
	Stored   string
	Computed string
}

// Result is the outcome of checking a collection.
type Result struct {
	Checked    int
	Mismatches []Mismatch
}

// OK reports whether every record verified.
func (r *Result) OK() bool { return len(r.Mismatches) == 0 }

// IDs returns the node ids of mismatching records in input order.
func (r *Result) IDs() []int {
	ids := make([]int, 0, len(r.Mismatches))
	for _, m := range r.Mismatches {
		ids = append(ids, m.NodeID)
	}
	return ids
}

// Err returns nil for a clean result, otherwise an error wrapping
// ErrIntegrity that names the offending node ids.
func (r *Result) Err() error {
	if r.OK() {
		return nil
	}
	ids := make([]string, 0, len(r.Mismatches))
	for _, id := range r.IDs() {
		ids = append(ids, strconv.Itoa(id))
	}
	return fmt.Errorf("%w: %d of %d records, node ids %s", ErrIntegrity, len(r.Mismatches), r.Checked, strings.Join(ids, ", "))
}

// Record recomputes rec's hash. ok is false when the stored hash is
// missing, not a string, or differs.
func Record(rec *node.Record) (stored, computed string, ok bool, err error) {
	computed, err = node.LockHash(rec)
	if err != nil {
		return "", "", false, err
	}
	stored, isString := rec.String(node.HashField)
	return stored, computed, isString && stored == computed, nil
}

// Records checks every record of a collection.
func Records(recs []*node.Record) (*Result, error) {
	res := &Result{Checked: len(recs)}
	for i, rec := range recs {
		stored, computed, ok, err := Record(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if ok {
			continue
		}
		id, _ := rec.NodeID()
		res.Mismatches = append(res.Mismatches, Mismatch{Index: i, NodeID: id, Stored: stored, Computed: computed})
	}
	return res, nil
}

// File loads a derived dataset (pretty or compact) and checks it.
func File(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	recs, err := node.DecodeRecords(data)
	if err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	return Records(recs)
}
