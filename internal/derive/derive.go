// Package derive computes the attributes of an expanded node from its seed
// fields. Every function is pure and total: unknown tokens fall back to the
// documented defaults instead of failing.
package derive

import (
	"strconv"
	"strings"

	"codex/internal/node"
	"codex/internal/rules"
)

const (
	MinTempo   = 60
	MaxTempo   = 180
	TempoBonus = 12

	// Separator splits composite element, planet and zodiac fields.
	Separator = "/"
)

// Split breaks a composite field on Separator, trimming tokens and dropping
// empty ones.
func Split(s string) []string {
	var out []string
	for _, tok := range strings.Split(s, Separator) {
		if tok = strings.TrimSpace(tok); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// RootNote returns the pitch class for a node: cycle index (nodeID-1) mod 12.
func RootNote(nodeID int) string {
	return rules.Note(nodeID - 1)
}

// Scale picks a scale from the element bucket of the first zodiac token.
func Scale(zodiac string, nodeID int) string {
	element := rules.Ether
	if tokens := Split(zodiac); len(tokens) > 0 {
		element = rules.SignElement(tokens[0])
	}
	scales := rules.Scales(element)
	return scales[mod(nodeID, len(scales))]
}

// BaseTempo is the tempo before tag bonuses.
func BaseTempo(nodeID int) int {
	return mod(nodeID, 12)*6 + 72
}

// Tempo returns the bpm for a node. base replaces BaseTempo when non-nil.
func Tempo(nodeID int, tags []string, base *int) int {
	bpm := BaseTempo(nodeID)
	if base != nil {
		bpm = *base
	}
	if rules.HighEnergy().Intersects(tags) {
		bpm += TempoBonus
	}
	return min(max(bpm, MinTempo), MaxTempo)
}

// DominantFrequency returns the highest solfeggio frequency among elements
// and the element that produced it. Ties go to the element listed first in
// the frequency table. No elements yields rules.DefaultHz.
func DominantFrequency(elements []string) (string, int) {
	best, bestHz, bestPos := "", rules.DefaultHz, -2
	for _, e := range elements {
		hz, pos := rules.Frequency(e)
		if bestPos == -2 || hz > bestHz || (hz == bestHz && earlier(pos, bestPos)) {
			best, bestHz, bestPos = e, hz, pos
		}
	}
	return best, bestHz
}

// earlier orders table positions with unknown (-1) entries last.
func earlier(a, b int) bool {
	if a < 0 {
		return false
	}
	return b < 0 || a < b
}

// Solfeggio renders the node frequency. An explicit override always wins and
// is kept verbatim; a bare number gets the " Hz" unit appended.
func Solfeggio(elements []string, override *string) string {
	if override != nil {
		o := strings.TrimSpace(*override)
		if strings.HasSuffix(strings.ToLower(o), "hz") {
			return o
		}
		return o + " Hz"
	}
	_, hz := DominantFrequency(elements)
	return FormatHz(hz)
}

// FormatHz renders "<hz> Hz".
func FormatHz(hz int) string {
	return strconv.Itoa(hz) + " Hz"
}

// Accent is the palette key injected for multi-element nodes.
const Accent = "accent"

// Palette selects the colour scheme by primary planet. Nodes with more than
// one element gain an accent colour from the wheel at (n*3) mod len.
// The returned record is a fresh copy.
func Palette(t *rules.Tables, planet string, elements []string) *node.Record {
	primary := strings.TrimSpace(strings.SplitN(planet, Separator, 2)[0])
	pal, ok := t.Palette(rules.PaletteKey(primary))
	if !ok {
		pal, _ = t.Palette(rules.FallbackPalette)
	}
	if len(elements) > 1 {
		pal.Set(Accent, t.Accent(len(elements)*3))
	}
	return pal
}

func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
