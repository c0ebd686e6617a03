// Package expand turns one seed record into its derived, hash-locked form.
package expand

import (
	"fmt"

	"codex/internal/derive"
	"codex/internal/node"
	"codex/internal/rules"
	"codex/internal/seed"
)

// Keys appended to every derived record, in output order.
const (
	KeyLocked    = "locked"
	KeySolfeggio = seed.FieldSolfeggio
	KeyMusic     = "music_profile"
	KeyColors    = "color_scheme"
	KeyHealing   = "healing_profile"
)

// Expander derives records against one set of rule tables. It holds no
// mutable state and is safe for concurrent use.
type Expander struct {
	tables *rules.Tables
}

// New returns an Expander bound to t.
func New(t *rules.Tables) *Expander {
	return &Expander{tables: t}
}

// Record checks rec and expands it. index is the record's input position,
// used only in errors.
func (x *Expander) Record(index int, rec *node.Record) (*node.Record, error) {
	s, err := seed.Extract(index, rec)
	if err != nil {
		return nil, err
	}
	return x.Expand(s, rec)
}

// Expand builds the derived record for s. Every field of rec is kept in its
// original position; a stale lock_hash is dropped before sealing. rec is
// not modified.
func (x *Expander) Expand(s seed.Seed, rec *node.Record) (*node.Record, error) {
	out := rec.Clone()
	out.Delete(node.HashField)

	out.Set(KeyLocked, true)
	out.Set(KeySolfeggio, derive.Solfeggio(s.Elements, s.Solfeggio))

	music := node.New()
	music.Set("root_note", derive.RootNote(s.NodeID))
	music.Set("scale", derive.Scale(s.Zodiac, s.NodeID))
	music.Set("bpm", derive.Tempo(s.NodeID, s.Tags, nil))
	music.Set("instruments", derive.Instruments(s.Tags))
	out.Set(KeyMusic, music)

	out.Set(KeyColors, derive.Palette(x.tables, s.Planet, s.Elements))

	healing := node.New()
	healing.Set("nd_safe", true)
	healing.Set("ptsd_safe", derive.PTSDSafety(s.Tags).Value())
	healing.Set("visual_rhythm", derive.VisualRhythm(s.Name, s.Tags))
	healing.Set("soundscape_type", derive.Soundscape(s.Tags))
	out.Set(KeyHealing, healing)

	if err := node.Seal(out); err != nil {
		return nil, fmt.Errorf("seal node %d: %w", s.NodeID, err)
	}
	return out, nil
}
