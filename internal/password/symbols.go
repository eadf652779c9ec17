// internal/password/symbols.go
//
// Symbol table: the 64 hiragana usable in a password and their six-bit values.
// The table is built once at package init and never written afterwards.

package password

import "fmt"

const (
	// Length is the number of symbols in a password.
	Length = 20
	// SymbolBits is the bit width W of one symbol.
	SymbolBits = 6

	alphabetSize = 1 << SymbolBits
	symbolMask   = alphabetSize - 1
)

// alphabet lists the symbols in value order.
var alphabet = [alphabetSize]rune{
	'あ', 'い', 'う', 'え', 'お',
	'か', 'き', 'く', 'け', 'こ',
	'さ', 'し', 'す', 'せ', 'そ',
	'た', 'ち', 'つ', 'て', 'と',
	'な', 'に', 'ぬ', 'ね', 'の',
	'は', 'ひ', 'ふ', 'へ', 'ほ',
	'ま', 'み', 'む', 'め', 'も',
	'や', 'ゆ', 'よ',
	'ら', 'り', 'る', 'れ', 'ろ',
	'わ',
	'が', 'ぎ', 'ぐ', 'げ', 'ご',
	'ざ', 'じ', 'ず', 'ぜ', 'ぞ',
	'だ', 'ぢ', 'づ', 'で', 'ど',
	'ば', 'び', 'ぶ', 'べ', 'ぼ',
}

var symbolValues = invert(alphabet)

func invert(table [alphabetSize]rune) map[rune]uint8 {
	m := make(map[rune]uint8, len(table))
	for i, r := range table {
		m[r] = uint8(i)
	}
	return m
}

// SymbolValue maps a password rune to its six-bit value.
func SymbolValue(r rune) (uint8, error) {
	v, ok := symbolValues[r]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSymbol, r)
	}
	return v, nil
}

// SymbolRune maps a six-bit value back to its rune. Upper bits are ignored.
func SymbolRune(v uint8) rune { return alphabet[v&symbolMask] }

// IsSymbol reports whether r belongs to the password alphabet.
func IsSymbol(r rune) bool {
	_, ok := symbolValues[r]
	return ok
}

// groupOf returns the six-bit group carried by symbol cur following prev.
// Passwords are cumulative: each symbol adds its group plus 4 to the previous one.
func groupOf(prev, cur uint8) uint8 { return (cur - prev - 4) & symbolMask }

// symbolOf is the inverse of groupOf.
func symbolOf(prev, group uint8) uint8 { return (prev + group + 4) & symbolMask }
