package node

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Style selects an output layout.
type Style int

const (
	// Compact keeps insertion order with "," and ":" separators.
	Compact Style = iota
	// Pretty keeps insertion order, indents by two spaces.
	Pretty
	// Canonical sorts keys at every level and separates with ", " and ": ".
	// Its bytes match json.dumps(v, sort_keys=True, ensure_ascii=False).
	Canonical
)

func (s Style) String() string {
	switch s {
	case Compact:
		return "compact"
	case Pretty:
		return "pretty"
	case Canonical:
		return "canonical"
	default:
		return fmt.Sprintf("Style(%d)", int(s))
	}
}

// Marshal encodes v in the given style. Non-ASCII text is written as UTF-8,
// never escaped.
func Marshal(v any, style Style) ([]byte, error) {
	e := &encoder{style: style}
	if err := e.value(v, 0); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

type encoder struct {
	buf   bytes.Buffer
	style Style
}

func (e *encoder) value(v any, depth int) error {
	switch t := v.(type) {
	case nil:
		e.buf.WriteString("null")
	case bool:
		if t {
			e.buf.WriteString("true")
		} else {
			e.buf.WriteString("false")
		}
	case string:
		writeString(&e.buf, t)
	case json.Number:
		s, err := FormatNumber(t)
		if err != nil {
			return err
		}
		e.buf.WriteString(s)
	case int:
		e.buf.WriteString(strconv.Itoa(t))
	case int64:
		e.buf.WriteString(strconv.FormatInt(t, 10))
	case float64:
		s, err := formatFloat(t)
		if err != nil {
			return err
		}
		e.buf.WriteString(s)
	case *Record:
		return e.object(t, depth)
	case map[string]any:
		rec := New()
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			rec.Set(k, t[k])
		}
		return e.object(rec, depth)
	case []string:
		items := make([]any, len(t))
		for i, s := range t {
			items[i] = s
		}
		return e.array(items, depth)
	case []any:
		return e.array(t, depth)
	default:
		return fmt.Errorf("node: unsupported value type %T", v)
	}
	return nil
}

func (e *encoder) object(r *Record, depth int) error {
	keys := r.Keys()
	if len(keys) == 0 {
		e.buf.WriteString("{}")
		return nil
	}
	if e.style == Canonical {
		sort.Strings(keys)
	}
	e.buf.WriteByte('{')
	for i, k := range keys {
		e.separator(i, depth+1)
		writeString(&e.buf, k)
		if e.style == Compact {
			e.buf.WriteByte(':')
		} else {
			e.buf.WriteString(": ")
		}
		if err := e.value(r.vals[k], depth+1); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
	}
	e.closing(depth)
	e.buf.WriteByte('}')
	return nil
}

func (e *encoder) array(items []any, depth int) error {
	if len(items) == 0 {
		e.buf.WriteString("[]")
		return nil
	}
	e.buf.WriteByte('[')
	for i, item := range items {
		e.separator(i, depth+1)
		if err := e.value(item, depth+1); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
	}
	e.closing(depth)
	e.buf.WriteByte(']')
	return nil
}

// separator writes what goes before the i-th member of a container.
func (e *encoder) separator(i, depth int) {
	switch e.style {
	case Pretty:
		if i > 0 {
			e.buf.WriteByte(',')
		}
		e.buf.WriteByte('\n')
		e.buf.WriteString(strings.Repeat("  ", depth))
	case Canonical:
		if i > 0 {
			e.buf.WriteString(", ")
		}
	default:
		if i > 0 {
			e.buf.WriteByte(',')
		}
	}
}

func (e *encoder) closing(depth int) {
	if e.style == Pretty {
		e.buf.WriteByte('\n')
		e.buf.WriteString(strings.Repeat("  ", depth))
	}
}

const hexDigits = "0123456789abcdef"

// writeString escapes only quote, backslash and control characters.
// Invalid UTF-8 is replaced with U+FFFD.
func writeString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			switch c {
			case '"':
				buf.WriteString(`\"`)
			case '\\':
				buf.WriteString(`\\`)
			case '\n':
				buf.WriteString(`\n`)
			case '\r':
				buf.WriteString(`\r`)
			case '\t':
				buf.WriteString(`\t`)
			case '\b':
				buf.WriteString(`\b`)
			case '\f':
				buf.WriteString(`\f`)
			default:
				if c < 0x20 {
					buf.WriteString(`\u00`)
					buf.WriteByte(hexDigits[c>>4])
					buf.WriteByte(hexDigits[c&0xF])
				} else {
					buf.WriteByte(c)
				}
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			buf.WriteString("\ufffd")
		} else {
			buf.WriteString(s[i : i+size])
		}
		i += size
	}
	buf.WriteByte('"')
}

// FormatNumber normalizes a decoded number the way a parse and re-encode
// would: integer literals are kept digit for digit, anything with a fraction
// or exponent goes through formatFloat, so 1.50 becomes 1.5 and 1e2 100.0.
func FormatNumber(n json.Number) (string, error) {
	lit := n.String()
	if !json.Valid([]byte(lit)) {
		return "", fmt.Errorf("node: invalid number literal %q", lit)
	}
	if !strings.ContainsAny(lit, ".eE") {
		if lit == "-0" {
			return "0", nil
		}
		return lit, nil
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return "", fmt.Errorf("node: number literal %q: %w", lit, err)
	}
	return formatFloat(f)
}

// formatFloat renders f the way Python's float repr does: integral values
// keep a ".0" suffix, exponents appear outside [1e-4, 1e16).
func formatFloat(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("node: unsupported float value %v", f)
	}
	abs := math.Abs(f)
	if abs == 0 || (abs >= 1e-4 && abs < 1e16) {
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.ContainsAny(s, ".") {
			s += ".0"
		}
		return s, nil
	}
	return strconv.FormatFloat(f, 'g', -1, 64), nil
}
