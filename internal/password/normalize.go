// internal/password/normalize.go
//
// Normalisation of user-typed text before it reaches the codec:
//   - passwords: whitespace dropped, combining voicing marks composed (NFC)
//   - patterns:  same, plus full-width '？' accepted as the wildcard
//   - hero names: voiced kana split into base + mark (NFD), full-width
//     digits/space folded, dash look-alikes mapped to '-', padded to 4.

package password

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// NameLength is the number of characters stored for the hero name.
const NameLength = 4

// Wildcard marks a free position in a pattern.
const Wildcard = '?'

// nameTable lists the characters a hero name may contain, in stored-value order.
var nameTable = [alphabetSize]rune{
	'0', '1', '2', '3', '4', '5', '6', '7', '8', '9',
	'あ', 'い', 'う', 'え', 'お',
	'か', 'き', 'く', 'け', 'こ',
	'さ', 'し', 'す', 'せ', 'そ',
	'た', 'ち', 'つ', 'て', 'と',
	'な', 'に', 'ぬ', 'ね', 'の',
	'は', 'ひ', 'ふ', 'へ', 'ほ',
	'ま', 'み', 'む', 'め', 'も',
	'や', 'ゆ', 'よ',
	'ら', 'り', 'る', 'れ', 'ろ',
	'わ', 'を', 'ん',
	'っ', 'ゃ', 'ゅ', 'ょ',
	'゛', '゜', '-', ' ',
}

var nameValues = invert(nameTable)

// nameFold maps runes that NFD and width folding leave alone.
var nameFold = map[rune]rune{
	'\u3099': '゛', // combining voiced mark
	'\u309A': '゜', // combining semi-voiced mark
	'\u2010': '-',
	'\u2011': '-',
	'\u2012': '-',
	'\u2013': '-',
	'\u2014': '-',
	'\u2015': '-',
	'\u2212': '-', // minus sign
	'\u30FC': '-', // prolonged sound mark
	'\uFF70': '-', // half-width prolonged sound mark
	'\u3000': ' ',
}

// foldWidth narrows full-width ASCII variants ('０', '？', ideographic space).
func foldWidth(r rune) rune {
	p := width.LookupRune(r)
	if p.Kind() != width.EastAsianFullwidth {
		return r
	}
	if n := p.Narrow(); n != 0 {
		return n
	}
	return r
}

// NormalizeName returns the stored form of a hero name.
// Names that need more than NameLength characters, or that use characters
// outside the name table, fail with ErrFieldOutOfRange.
func NormalizeName(name string) (string, error) {
	out := make([]rune, 0, NameLength)
	var bad []string
	for _, r := range norm.NFD.String(name) {
		r = foldWidth(r)
		if f, ok := nameFold[r]; ok {
			r = f
		}
		if _, ok := nameValues[r]; !ok {
			bad = append(bad, fmt.Sprintf("%q", r))
			continue
		}
		out = append(out, r)
	}
	if len(bad) > 0 {
		return "", fmt.Errorf("%w: name contains unsupported characters: %s", ErrFieldOutOfRange, strings.Join(bad, ", "))
	}
	if len(out) > NameLength {
		return "", fmt.Errorf("%w: name must fit in %d characters (voicing marks count as one): %q", ErrFieldOutOfRange, NameLength, name)
	}
	for len(out) < NameLength {
		out = append(out, ' ')
	}
	return string(out), nil
}

// NormalizePassword strips whitespace and checks length and alphabet.
func NormalizePassword(text string) (string, error) {
	rs := compact(text, false)
	if len(rs) != Length {
		return "", fmt.Errorf("%w: password must be %d symbols (whitespace ignored), got %d", ErrInvalidLength, Length, len(rs))
	}
	if bad := unknownRunes(rs, false); len(bad) > 0 {
		return "", fmt.Errorf("%w: %s", ErrUnknownSymbol, strings.Join(bad, ", "))
	}
	return string(rs), nil
}

// NormalizePattern is NormalizePassword for templates: '?' and '？' are wildcards.
func NormalizePattern(text string) (string, error) {
	rs := compact(text, true)
	if len(rs) != Length {
		return "", fmt.Errorf("%w: %w: pattern must be %d symbols (whitespace ignored), got %d", ErrInvalidPattern, ErrInvalidLength, Length, len(rs))
	}
	if bad := unknownRunes(rs, true); len(bad) > 0 {
		return "", fmt.Errorf("%w: %w: %s", ErrInvalidPattern, ErrUnknownSymbol, strings.Join(bad, ", "))
	}
	return string(rs), nil
}

func compact(text string, pattern bool) []rune {
	rs := make([]rune, 0, Length)
	for _, r := range norm.NFC.String(text) {
		if unicode.IsSpace(r) {
			continue
		}
		if pattern {
			r = foldWidth(r)
		}
		rs = append(rs, r)
	}
	return rs
}

func unknownRunes(rs []rune, pattern bool) []string {
	var bad []string
	for _, r := range rs {
		if IsSymbol(r) || (pattern && r == Wildcard) {
			continue
		}
		bad = append(bad, fmt.Sprintf("%q", r))
	}
	return bad
}
