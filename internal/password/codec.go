// internal/password/codec.go
//
// Password codec: text <-> State.
//
// decode: normalise text -> symbol values -> six-bit groups -> bitstream
//         -> verify checksum -> field values -> State
// encode: State -> field values -> bitstream (+checksum) -> groups -> text

package password

// Decode parses a password. Whitespace inside text is ignored.
// It returns a State only when every step succeeds.
func Decode(text string) (State, error) {
	b, err := Parse(text)
	if err != nil {
		return State{}, err
	}
	return decodeStream(b)
}

// Parse converts password text into its bitstream without checking anything
// beyond length and alphabet.
func Parse(text string) (Bitstream, error) {
	clean, err := NormalizePassword(text)
	if err != nil {
		return Bitstream{}, err
	}
	var syms [Length]uint8
	i := 0
	for _, r := range clean {
		syms[i] = symbolValues[r]
		i++
	}
	return Pack(groupsFromSymbols(syms)), nil
}

func decodeStream(b Bitstream) (State, error) {
	if err := b.Verify(); err != nil {
		return State{}, err
	}
	return FromValues(ReadValues(b))
}

// Encode produces the password for s. The name is normalised first, so
// Decode(Encode(s)) returns s with its name in stored form.
func Encode(s State) (string, error) {
	v, err := s.Values()
	if err != nil {
		return "", err
	}
	b, err := v.Stream()
	if err != nil {
		return "", err
	}
	return Format(b), nil
}

// Format renders a bitstream as password text. The checksum is not recomputed.
func Format(b Bitstream) string {
	return formatSymbols(symbolsFromGroups(b.Unpack()))
}

func formatSymbols(syms [Length]uint8) string {
	rs := make([]rune, Length)
	for i, v := range syms {
		rs[i] = SymbolRune(v)
	}
	return string(rs)
}

func groupsFromSymbols(syms [Length]uint8) [Length]uint8 {
	var groups [Length]uint8
	var prev uint8
	for i, cur := range syms {
		groups[i] = groupOf(prev, cur)
		prev = cur
	}
	return groups
}

func symbolsFromGroups(groups [Length]uint8) [Length]uint8 {
	var syms [Length]uint8
	var prev uint8
	for i, g := range groups {
		prev = symbolOf(prev, g)
		syms[i] = prev
	}
	return syms
}
