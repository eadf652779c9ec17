// internal/password/pattern.go
//
// Pattern: a password template where each position is a literal symbol or
// the wildcard '?'. Parsed once per generate call and read-only afterwards.

package password

import "unicode/utf8"

// Pattern is a parsed password template.
type Pattern struct {
	fixed [Length]bool
	syms  [Length]uint8
}

// ParsePattern parses a template. Whitespace is ignored and '？' is read as '?'.
// Malformed templates fail with ErrInvalidPattern.
func ParsePattern(text string) (Pattern, error) {
	clean, err := NormalizePattern(text)
	if err != nil {
		return Pattern{}, err
	}
	var p Pattern
	i := 0
	for _, r := range clean {
		if r != Wildcard {
			p.fixed[i] = true
			p.syms[i] = symbolValues[r]
		}
		i++
	}
	return p, nil
}

// Wildcards counts the free positions.
func (p Pattern) Wildcards() int {
	n := 0
	for _, f := range p.fixed {
		if !f {
			n++
		}
	}
	return n
}

// At returns the literal symbol at position i, or false for a wildcard.
func (p Pattern) At(i int) (rune, bool) {
	if !p.fixed[i] {
		return Wildcard, false
	}
	return SymbolRune(p.syms[i]), true
}

// Match reports whether password text agrees with every literal position.
func (p Pattern) Match(text string) bool {
	clean, err := NormalizePassword(text)
	if err != nil {
		return false
	}
	i := 0
	for _, r := range clean {
		if p.fixed[i] && symbolValues[r] != p.syms[i] {
			return false
		}
		i++
	}
	return true
}

func (p Pattern) String() string {
	buf := make([]byte, 0, Length*utf8.UTFMax)
	for i := range p.fixed {
		r, _ := p.At(i)
		buf = utf8.AppendRune(buf, r)
	}
	return string(buf)
}

// span is the inclusive range of symbol values position i may take.
func (p Pattern) span(i int) (lo, hi int) {
	if p.fixed[i] {
		return int(p.syms[i]), int(p.syms[i])
	}
	return 0, symbolMask
}
