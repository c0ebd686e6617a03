package main

import (
	"fmt"
	"strings"
	"time"

	"codex/internal/build"
	"codex/internal/format"
	"codex/internal/node"
	"codex/internal/verify"
)

const hashWidth = 16

func renderBuildReport(rep *build.Report, elapsed time.Duration) string {
	tb := format.NewTable(format.ASCII)
	tb.Title("Build")
	tb.Header("Field", "Value")
	tb.Row("Run ID", rep.RunID)
	tb.Row("Output", rep.Output)
	tb.Row("Seeds", rep.Seeds)
	tb.Row("Nodes", rep.Nodes)
	tb.Row("Skipped", format.JoinInts(skippedIndexes(rep.Skipped)))
	tb.Row("Duplicate ids", format.JoinInts(rep.Duplicates))
	tb.Row("Out-of-range ids", format.JoinInts(rep.OutOfRange))
	tb.Row("Elapsed", format.FmtDuration(elapsed))
	return tb.String() + "\n"
}

func skippedIndexes(s []build.Skipped) []int {
	out := make([]int, len(s))
	for i, sk := range s {
		out[i] = sk.Index
	}
	return out
}

func renderVerifyReport(res *verify.Result, mode format.Mode) string {
	if res.OK() {
		tb := format.NewTable(mode)
		tb.Header("Records", "Mismatches", "OK")
		tb.Row(res.Checked, 0, format.BoolMark(true))
		return tb.String() + "\n"
	}
	tb := format.NewTable(mode)
	tb.Header("Index", "Node", "Stored", "Computed")
	tb.Columns(
		format.ColumnConfig{Number: 1, Align: format.AlignRight},
		format.ColumnConfig{Number: 2, Align: format.AlignRight},
	)
	for _, m := range res.Mismatches {
		stored := m.Stored
		if stored == "" {
			stored = "(none)"
		}
		tb.Row(m.Index, m.NodeID, format.Truncate(stored, hashWidth), format.Truncate(m.Computed, hashWidth))
	}
	return fmt.Sprintf("%d of %d records failed verification\n", len(res.Mismatches), res.Checked) + tb.String() + "\n"
}

// renderNode prints rec as Field/Value rows. Nested objects are flattened
// into dotted keys.
func renderNode(rec *node.Record, locked bool, mode format.Mode) string {
	tb := format.NewTable(mode)
	id, _ := rec.NodeID()
	tb.Title(fmt.Sprintf("Node %d", id))
	tb.Header("Field", "Value")
	tb.Columns(format.ColumnConfig{Number: 2, MaxWidth: 72})
	flatten(tb, "", rec)
	tb.Footer("verified", format.BoolMark(locked))
	return tb.String() + "\n"
}

func flatten(tb format.TableBuilder, prefix string, rec *node.Record) {
	for _, k := range rec.Keys() {
		v, _ := rec.Get(k)
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := v.(*node.Record); ok {
			flatten(tb, key, sub)
			continue
		}
		tb.Row(key, displayValue(v))
	}
}

func displayValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = displayValue(e)
		}
		return strings.Join(parts, ", ")
	case *node.Record:
		b, err := node.Marshal(x, node.Compact)
		if err != nil {
			return "?"
		}
		return string(b)
	default:
		return fmt.Sprint(x)
	}
}
