package derive

import (
	"slices"
	"strings"

	"codex/internal/rules"
)

// Safety is the PTSD marking of a node.
type Safety int

const (
	Safe Safety = iota
	WithCare
)

// Value is the JSON form: true, or the literal "with care".
func (s Safety) Value() any {
	if s == WithCare {
		return "with care"
	}
	return true
}

func (s Safety) String() string {
	if s == WithCare {
		return "with care"
	}
	return "safe"
}

// PTSDSafety marks nodes carrying risky tags "with care".
func PTSDSafety(tags []string) Safety {
	s := Safe
	if rules.Risky().Intersects(tags) {
		s = WithCare
	}
	// Safe tags reset a risky marking. Observed behaviour, awaiting product
	// confirmation before the precedence is changed.
	if rules.Safe().Intersects(tags) {
		s = Safe
	}
	return s
}

// rule pairs a predicate with the value chosen when it matches first.
type rule[T any] struct {
	match  func(name string, tags []string) bool
	result T
}

func firstMatch[T any](rs []rule[T], name string, tags []string, def T) T {
	for _, r := range rs {
		if r.match(name, tags) {
			return r.result
		}
	}
	return def
}

func anyTag(want ...string) func(string, []string) bool {
	return func(_ string, tags []string) bool {
		for _, t := range tags {
			if slices.Contains(want, t) {
				return true
			}
		}
		return false
	}
}

var visualRhythms = []rule[string]{
	{anyTag("Garden", "Bloom"), "garden bloom"},
	{func(name string, tags []string) bool {
		return strings.Contains(name, "Mirror") || slices.Contains(tags, "Mirror")
	}, "mirror shimmer"},
	{anyTag("Fire", "Flame", "Phoenix"), "flame pulse"},
	{anyTag("Temple", "Sanctuary", "Peace"), "nested unfolding"},
}

var soundscapes = []rule[string]{
	{anyTag("Garden"), "lush floral ambient"},
	{anyTag("Temple", "Sanctuary"), "aether temple resonance"},
	{anyTag("Mirror"), "glass resonance"},
	{anyTag("Fire", "Phoenix"), "kundalini resonance"},
}

var instrumentSets = []rule[[]string]{
	{anyTag("Temple", "Sanctuary"), []string{"Temple Drone", "Crystal Bell", "Chime Choir"}},
	{anyTag("Mirror"), []string{"Glass Harp", "Temple Bell", "Voice Pad"}},
	{anyTag("Garden"), []string{"Petal Harp", "Rain Drum", "Blossom Synth"}},
	{anyTag("Fire"), []string{"Solar Drum", "Flame Synth", "Temple Gong"}},
}

const (
	DefaultVisualRhythm = "spiral pulse"
	DefaultSoundscape   = "harmonic shimmer"
)

var defaultInstruments = []string{"Harp", "Bell", "Pad"}

// VisualRhythm picks the visual motif. A "Mirror" in the node name counts
// like the tag.
func VisualRhythm(name string, tags []string) string {
	return firstMatch(visualRhythms, name, tags, DefaultVisualRhythm)
}

// Soundscape picks the ambient sound type.
func Soundscape(tags []string) string {
	return firstMatch(soundscapes, "", tags, DefaultSoundscape)
}

// Instruments picks the instrument set. The result is a fresh slice.
func Instruments(tags []string) []string {
	return slices.Clone(firstMatch(instrumentSets, "", tags, defaultInstruments))
}
