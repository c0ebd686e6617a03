// Package build runs the offline dataset build: load rule tables and seeds,
// expand every seed, and publish the derived collection in one atomic
// replacement of the output file.
package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"codex/internal/expand"
	"codex/internal/logging"
	"codex/internal/node"
	"codex/internal/rules"
	"codex/internal/seed"
)

// ErrMalformedSeeds is returned under PolicyFail when any seed is malformed.
var ErrMalformedSeeds = errors.New("build: malformed seeds")

// Policy decides what happens to a malformed seed.
type Policy string

const (
	// PolicyFail aborts the run without writing anything.
	PolicyFail Policy = "fail"
	// PolicySkip drops the seed, logs a warning and reports it.
	PolicySkip Policy = "skip"
)

// ParsePolicy validates an --on-invalid value. Empty means PolicyFail.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyFail, PolicySkip:
		return p, nil
	case "":
		return PolicyFail, nil
	default:
		return "", fmt.Errorf("invalid policy %q: want %s or %s", s, PolicyFail, PolicySkip)
	}
}

// Options configures one build run.
type Options struct {
	SeedPath   string
	RulesPath  string
	OutputPath string
	Pretty     bool
	Policy     Policy
	Workers    int

	// Logger overrides the component logger. Run sets a run-scoped one.
	Logger *slog.Logger
}

// Skipped is one seed dropped under PolicySkip.
type Skipped struct {
	Index  int
	NodeID int
	Err    error
}

// Report summarizes a build.
type Report struct {
	RunID      string
	Output     string
	Seeds      int
	Nodes      int
	Skipped    []Skipped
	Duplicates []int
	OutOfRange []int
}

// Run executes a full build described by opts. Configuration and data errors
// are returned before anything is written; on success the output file is
// replaced as a whole.
func Run(ctx context.Context, opts Options) (*Report, error) {
	logger, runID := logging.ForRun("build")
	if opts.Logger != nil {
		logger = opts.Logger.With(slog.String("run_id", runID))
	}
	opts.Logger = logger

	if opts.OutputPath == "" {
		return nil, errors.New("build: output path is required")
	}
	tables, err := rules.Load(opts.RulesPath)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	seeds, err := LoadRecords(opts.SeedPath)
	if err != nil {
		return nil, fmt.Errorf("load seeds: %w", err)
	}
	logger.Info("build started",
		"seeds", len(seeds), "rules", opts.RulesPath, "policy", policyOrDefault(opts.Policy), "workers", workers(opts.Workers))

	records, rep, err := Build(ctx, tables, seeds, opts)
	if err != nil {
		return nil, err
	}
	rep.RunID = runID

	data, err := Encode(records, opts.Pretty)
	if err != nil {
		return nil, err
	}
	if err := WriteAtomic(opts.OutputPath, data); err != nil {
		return nil, err
	}
	rep.Output = opts.OutputPath
	logger.Info("dataset written", "path", opts.OutputPath, "nodes", rep.Nodes, "skipped", len(rep.Skipped), "pretty", opts.Pretty)
	return rep, nil
}

// LoadRecords reads a JSON array of objects, seeds or derived records.
func LoadRecords(path string) ([]*node.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	recs, err := node.DecodeRecords(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return recs, nil
}

// Build expands seeds in memory. Output order follows input order whatever
// the worker count.
func Build(ctx context.Context, tables *rules.Tables, seeds []*node.Record, opts Options) ([]*node.Record, *Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.New("build")
	}
	x := expand.New(tables)

	results := make([]*node.Record, len(seeds))
	malformed := make([]error, len(seeds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers(opts.Workers))
	for i, rec := range seeds {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := x.Record(i, rec)
			if errors.Is(err, seed.ErrMalformed) {
				malformed[i] = err
				return nil
			}
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("expand seeds: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("expand seeds: %w", err)
	}

	rep := &Report{Seeds: len(seeds)}
	var bad []error
	for i, err := range malformed {
		if err == nil {
			continue
		}
		bad = append(bad, err)
		var se *seed.Error
		id := 0
		if errors.As(err, &se) {
			id = se.NodeID
		}
		rep.Skipped = append(rep.Skipped, Skipped{Index: i, NodeID: id, Err: err})
	}
	if len(bad) > 0 {
		if policyOrDefault(opts.Policy) == PolicyFail {
			return nil, nil, fmt.Errorf("%w: %d of %d: %w", ErrMalformedSeeds, len(bad), len(seeds), errors.Join(bad...))
		}
		for _, s := range rep.Skipped {
			logger.Warn("skipping malformed seed", "index", s.Index, "node_id", s.NodeID, "error", s.Err)
		}
	}

	records := make([]*node.Record, 0, len(results))
	for _, r := range results {
		if r != nil {
			records = append(records, r)
		}
	}
	rep.Nodes = len(records)
	rep.Duplicates, rep.OutOfRange = checkIDs(records)
	if len(rep.Duplicates) > 0 {
		logger.Warn("duplicate node ids", "node_ids", rep.Duplicates)
	}
	if len(rep.OutOfRange) > 0 {
		logger.Warn("node ids outside the node space", "node_ids", rep.OutOfRange, "capacity", node.Capacity)
	}
	return records, rep, nil
}

// checkIDs reports duplicate ids and ids beyond node.Capacity, each once,
// in first-seen order. Neither is enforced.
func checkIDs(records []*node.Record) (dups, outOfRange []int) {
	seen := make(map[int]int, len(records))
	for _, r := range records {
		id, _ := r.NodeID()
		seen[id]++
		if seen[id] == 2 {
			dups = append(dups, id)
		}
		if seen[id] == 1 && id > node.Capacity {
			outOfRange = append(outOfRange, id)
		}
	}
	return dups, outOfRange
}

func workers(n int) int {
	return max(n, 1)
}

func policyOrDefault(p Policy) Policy {
	if p == "" {
		return PolicyFail
	}
	return p
}

// Encode serializes the collection as one JSON array. pretty selects the
// indented layout; both layouts decode to the same data.
func Encode(records []*node.Record, pretty bool) ([]byte, error) {
	items := make([]any, len(records))
	for i, r := range records {
		items[i] = r
	}
	style := node.Compact
	if pretty {
		style = node.Pretty
	}
	data, err := node.Marshal(items, style)
	if err != nil {
		return nil, fmt.Errorf("encode dataset: %w", err)
	}
	return data, nil
}
