package rules

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"codex/internal/node"
)

// AccentKey is the reserved key holding the ordered accent colours.
const AccentKey = "accent_wheel"

// ErrInvalidTables is returned when a rule table file parses but is not
// usable for expansion.
var ErrInvalidTables = errors.New("rules: invalid rule tables")

// Tables is the loaded palette data. It is never mutated after Parse, so a
// single value can be shared across expansion workers.
type Tables struct {
	palettes map[string]*node.Record
	names    []string
	accents  []string
}

// Load reads a rule table file (JSON or YAML).
// Format is detected by extension (.yaml/.yml, .json) or by content.
func Load(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule tables: %w", err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse builds Tables from bytes. ext is a format hint; empty = detect.
func Parse(data []byte, ext string) (*Tables, error) {
	ext = strings.ToLower(ext)
	if ext == ".yml" {
		ext = ".yaml"
	}
	if ext == "" {
		if strings.HasPrefix(strings.TrimSpace(string(data)), "{") {
			ext = ".json"
		} else {
			ext = ".yaml"
		}
	}

	var root any
	switch ext {
	case ".yaml":
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse rule tables yaml: %w", err)
		}
		v, err := fromYAML(&doc)
		if err != nil {
			return nil, fmt.Errorf("parse rule tables yaml: %w", err)
		}
		root = v
	default:
		v, err := node.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("parse rule tables json: %w", err)
		}
		root = v
	}
	return newTables(root)
}

func newTables(root any) (*Tables, error) {
	rec, ok := root.(*node.Record)
	if !ok {
		return nil, fmt.Errorf("%w: top level must be an object", ErrInvalidTables)
	}
	t := &Tables{palettes: make(map[string]*node.Record)}
	for _, k := range rec.Keys() {
		v, _ := rec.Get(k)
		if k == AccentKey {
			accents, ok := node.StringList(v)
			if !ok {
				return nil, fmt.Errorf("%w: %s must be a list of strings", ErrInvalidTables, AccentKey)
			}
			t.accents = append([]string(nil), accents...)
			continue
		}
		pal, ok := v.(*node.Record)
		if !ok {
			return nil, fmt.Errorf("%w: palette %q must be an object", ErrInvalidTables, k)
		}
		t.palettes[k] = pal.Clone()
		t.names = append(t.names, k)
	}
	if len(t.accents) == 0 {
		return nil, fmt.Errorf("%w: %s is missing or empty", ErrInvalidTables, AccentKey)
	}
	if _, ok := t.palettes[FallbackPalette]; !ok {
		return nil, fmt.Errorf("%w: fallback palette %q is missing", ErrInvalidTables, FallbackPalette)
	}
	return t, nil
}

// Palette returns a copy of the named palette.
func (t *Tables) Palette(name string) (*node.Record, bool) {
	p, ok := t.palettes[name]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// PaletteNames returns palette names in file order.
func (t *Tables) PaletteNames() []string {
	return append([]string(nil), t.names...)
}

// Accent returns the accent colour at i mod the wheel length.
func (t *Tables) Accent(i int) string {
	return t.accents[mod(i, len(t.accents))]
}

// AccentCount returns the wheel length.
func (t *Tables) AccentCount() int {
	return len(t.accents)
}

// fromYAML converts a yaml.v3 node tree into the same value shapes
// node.Decode produces, keeping mapping order.
func fromYAML(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromYAML(n.Content[0])
	case yaml.MappingNode:
		rec := node.New()
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := fromYAML(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			rec.Set(n.Content[i].Value, v)
		}
		return rec, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromYAML(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.AliasNode:
		return fromYAML(n.Alias)
	case yaml.ScalarNode:
		switch n.Tag {
		case "!!null":
			return nil, nil
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err != nil {
				return nil, err
			}
			return b, nil
		case "!!int":
			var i int64
			if err := n.Decode(&i); err != nil {
				return nil, err
			}
			return json.Number(strconv.FormatInt(i, 10)), nil
		case "!!float":
			var f float64
			if err := n.Decode(&f); err != nil {
				return nil, err
			}
			return f, nil
		default:
			return n.Value, nil
		}
	default:
		return nil, fmt.Errorf("line %d: unsupported yaml node kind %d", n.Line, n.Kind)
	}
}
