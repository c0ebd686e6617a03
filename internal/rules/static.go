// Package rules holds the lookup data that parameterizes node expansion:
// fixed tables compiled into the binary and palette tables loaded from disk.
package rules

// DefaultHz is the solfeggio frequency for unrecognized elements.
const DefaultHz = 963

// FallbackPalette is used for unknown planets and absent palettes.
const FallbackPalette = "white_gold"

// Ether is the element bucket for unrecognized zodiac signs.
const Ether = "Ether"

var noteCycle = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Ordered so that ties resolve by table position.
var solfeggio = []struct {
	element string
	hz      int
}{
	{"Fire", 741},
	{"Water", 417},
	{"Air", 852},
	{"Earth", 396},
	{"Light", 963},
	{"Ether", 963},
	{"Spirit", 963},
	{"Love", 528},
}

var paletteKeys = map[string]string{
	"Sun":     "solar_gold",
	"Moon":    "lunar_blue",
	"Mercury": "quicksilver",
	"Venus":   "venus_rose",
	"Mars":    "martian_crimson",
	"Jupiter": "royal_blue",
	"Saturn":  "saturn_stone",
	"Uranus":  "uranian_aqua",
	"Neptune": "neptunian_violet",
	"Earth":   "gaia_green",
	"Pluto":   "plutonian_wine",
	"All":     "white_gold",
}

var signElements = map[string]string{
	"Aries": "Fire", "Leo": "Fire", "Sagittarius": "Fire",
	"Cancer": "Water", "Scorpio": "Water", "Pisces": "Water",
	"Gemini": "Air", "Libra": "Air", "Aquarius": "Air",
	"Taurus": "Earth", "Virgo": "Earth", "Capricorn": "Earth",
}

var elementScales = map[string][]string{
	"Fire":  {"Harmonic Minor", "Phrygian", "Melodic Minor"},
	"Water": {"Pentatonic Minor", "Aeolian", "Dorian"},
	"Air":   {"Lydian", "Dorian", "Ionian"},
	"Earth": {"Ionian", "Dorian", "Mixolydian"},
	"Light": {"Whole Tone", "Lydian", "Ionian"},
	"Ether": {"Whole Tone", "Lydian", "Ionian"},
}

// TagSet is a fixed group of fusion tags.
type TagSet map[string]struct{}

func newTagSet(tags ...string) TagSet {
	s := make(TagSet, len(tags))
	for _, t := range tags {
		s[t] = struct{}{}
	}
	return s
}

// Has reports whether tag belongs to the group.
func (s TagSet) Has(tag string) bool {
	_, ok := s[tag]
	return ok
}

// Intersects reports whether any of tags belongs to the group.
func (s TagSet) Intersects(tags []string) bool {
	for _, t := range tags {
		if s.Has(t) {
			return true
		}
	}
	return false
}

var (
	highEnergy = newTagSet("Solar", "Command")
	risky      = newTagSet("Rage", "Thunder", "Breaker", "Shadow", "Fire", "Kundalini", "Erotic")
	safe       = newTagSet("Sanctuary", "Temple", "Garden", "Prism", "Child", "Memory", "Peace")
)

// HighEnergy tags add the tempo bonus.
func HighEnergy() TagSet { return highEnergy }

// Risky tags mark a node "with care".
func Risky() TagSet { return risky }

// Safe tags clear the risky marking.
func Safe() TagSet { return safe }

// NoteCycle returns the twelve pitch classes starting at C.
func NoteCycle() []string {
	out := make([]string, len(noteCycle))
	copy(out, noteCycle[:])
	return out
}

// Note returns the pitch class at i mod 12.
func Note(i int) string {
	return noteCycle[mod(i, len(noteCycle))]
}

// Frequency returns the solfeggio frequency for element and its table
// position. Unknown elements get DefaultHz and position -1.
func Frequency(element string) (hz, pos int) {
	for i, s := range solfeggio {
		if s.element == element {
			return s.hz, i
		}
	}
	return DefaultHz, -1
}

// PaletteKey maps a planet to a palette name.
func PaletteKey(planet string) string {
	if k, ok := paletteKeys[planet]; ok {
		return k
	}
	return FallbackPalette
}

// SignElement maps a zodiac sign to its element, Ether when unknown.
func SignElement(sign string) string {
	if e, ok := signElements[sign]; ok {
		return e
	}
	return Ether
}

// Scales returns the candidate scales for an element bucket.
func Scales(element string) []string {
	s, ok := elementScales[element]
	if !ok {
		s = elementScales[Ether]
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// mod is a modulo that never returns a negative result.
func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
