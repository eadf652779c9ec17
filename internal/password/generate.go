// internal/password/generate.go
//
// Pattern generator.
//
// The checksum is linear over GF(2): with every other group zero, group i set
// to v shifts "crc8(bytes 1..14) XOR stored checksum" by a fixed byte
// contrib[i][v], and a bitstream is valid iff the XOR of contrib[i][g_i] over
// all groups is 0. That turns validity into one equation with 256 residues.
//
// counts[i] holds, for every (previous symbol, carry, residue), the number of
// ways to fill positions i..Length-1 so that their contributions XOR to the
// residue and every range-limited field stays in range. The previous symbol is
// part of the state because symbols are cumulative; carry keeps the bits of
// the previous group that belong to a limited field ending in group i (item
// nibbles straddle two groups). Literal positions simply have one choice.
//
// Layers are filled backwards; enumeration walks forwards and only follows
// transitions whose suffix count is non-zero, so it never backtracks out of a
// dead end. Counts saturate at MaxUint64 (a fully wild pattern has ~5.9e32
// completions); saturation never turns a positive count into zero.

package password

import (
	"fmt"
	"math"
	"math/bits"
	"sync"

	"github.com/rs/zerolog/log"
)

const residues = 1 << 8

type layout struct {
	contrib [Length][alphabetSize]uint8

	// closing[i] lists the limited fields whose last bit is in group i.
	closing [Length + 1][]FieldID
	// carryIndex[i][g] is the dense carry index of group g feeding position i;
	// carryValue[i] maps it back to the masked bits.
	carryIndex [Length + 1][alphabetSize]uint8
	carryValue [Length + 1][]uint8
}

var sharedLayout = sync.OnceValue(newLayout)

func newLayout() *layout {
	l := &layout{}
	for i := 0; i < Length; i++ {
		for v := 0; v < alphabetSize; v++ {
			var groups [Length]uint8
			groups[i] = uint8(v)
			b := Pack(groups)
			l.contrib[i][v] = checksumOf(&b) ^ uint8(b.Read(FieldChecksum))
		}
	}

	var carryMask [Length + 1]uint8
	for id, f := range fields {
		if !f.Limited() {
			continue
		}
		first := int(f.Offset / SymbolBits)
		last := int((f.Offset + f.Width - 1) / SymbolBits)
		if last-first > 1 {
			panic(fmt.Sprintf("password: limited field %s spans more than two groups", f.Name))
		}
		l.closing[last] = append(l.closing[last], FieldID(id))
		for k := f.Offset; k < f.Offset+f.Width; k++ {
			if int(k/SymbolBits) == last-1 {
				carryMask[last] |= 1 << (k % SymbolBits)
			}
		}
	}

	for i, mask := range carryMask {
		seen := make(map[uint8]uint8)
		for v := 0; v < alphabetSize; v++ {
			m := uint8(v) & mask
			idx, ok := seen[m]
			if !ok {
				idx = uint8(len(l.carryValue[i]))
				seen[m] = idx
				l.carryValue[i] = append(l.carryValue[i], m)
			}
			l.carryIndex[i][v] = idx
		}
	}
	return l
}

// fits reports whether group g at position i, after carry bits of group i-1,
// keeps every limited field ending in group i within range.
func (l *layout) fits(i int, carry, g uint8) bool {
	window := uint(carry) | uint(g)<<SymbolBits
	base := SymbolBits * (i - 1)
	for _, id := range l.closing[i] {
		f := fields[id]
		v := uint16(window>>uint(int(f.Offset)-base)) & (1<<f.Width - 1)
		if v > f.Max {
			return false
		}
	}
	return true
}

type table struct {
	l       *layout
	pattern Pattern
	counts  [Length + 1][]uint64
}

func (t *table) index(i int, prev, carry uint8) int {
	return (int(prev)*len(t.l.carryValue[i]) + int(carry)) * residues
}

func (t *table) row(i int, prev, carry uint8) []uint64 {
	at := t.index(i, prev, carry)
	return t.counts[i][at : at+residues]
}

func newTable(p Pattern) *table {
	l := sharedLayout()
	t := &table{l: l, pattern: p}

	t.counts[Length] = make([]uint64, alphabetSize*residues)
	for prev := 0; prev < alphabetSize; prev++ {
		t.row(Length, uint8(prev), 0)[0] = 1
	}

	for i := Length - 1; i >= 0; i-- {
		t.counts[i] = make([]uint64, alphabetSize*len(l.carryValue[i])*residues)
		prevs := alphabetSize
		if i == 0 {
			prevs = 1 // the symbol before the first one is always 0
		}
		lo, hi := p.span(i)
		for prev := 0; prev < prevs; prev++ {
			for c, carry := range l.carryValue[i] {
				dst := t.row(i, uint8(prev), uint8(c))
				for cur := lo; cur <= hi; cur++ {
					g := groupOf(uint8(prev), uint8(cur))
					if !l.fits(i, carry, g) {
						continue
					}
					src := t.row(i+1, uint8(cur), l.carryIndex[i+1][g])
					x := l.contrib[i][g]
					for r := range dst {
						dst[r] = addSat(dst[r], src[uint8(r)^x])
					}
				}
			}
		}
	}
	return t
}

// total is the number of checksum-valid completions (saturating).
func (t *table) total() uint64 { return t.row(0, 0, 0)[0] }

type frame struct {
	prev    uint8
	carry   uint8
	residue uint8
	next    int
}

// walk visits completions in alphabet order until fn returns false.
func (t *table) walk(fn func(syms [Length]uint8) bool) {
	if t.total() == 0 {
		return
	}
	l := t.l
	var syms [Length]uint8
	stack := make([]frame, 1, Length+1)
	for len(stack) > 0 {
		i := len(stack) - 1
		if i == Length {
			if !fn(syms) {
				return
			}
			stack = stack[:i]
			continue
		}
		f := &stack[i]
		lo, hi := t.pattern.span(i)
		if f.next < lo {
			f.next = lo
		}
		pushed := false
		for ; f.next <= hi; f.next++ {
			cur := uint8(f.next)
			g := groupOf(f.prev, cur)
			if !l.fits(i, l.carryValue[i][f.carry], g) {
				continue
			}
			carry := l.carryIndex[i+1][g]
			residue := f.residue ^ l.contrib[i][g]
			if t.row(i+1, cur, carry)[residue] == 0 {
				continue
			}
			syms[i] = cur
			f.next++
			stack = append(stack, frame{prev: cur, carry: carry, residue: residue})
			pushed = true
			break
		}
		if !pushed {
			stack = stack[:i]
		}
	}
}

// Walk calls fn with each password matching p that decodes successfully,
// in alphabet order, until fn returns false or the completions run out.
func (p Pattern) Walk(fn func(password string) bool) {
	p.walk(newTable(p), fn)
}

func (p Pattern) walk(t *table, fn func(password string) bool) {
	t.walk(func(syms [Length]uint8) bool {
		text := formatSymbols(syms)
		if _, err := Decode(text); err != nil {
			log.Error().Err(err).Str("password", text).Str("pattern", p.String()).
				Msg("generator produced a password the decoder rejects")
			return true
		}
		return fn(text)
	})
}

// Count returns how many passwords match p and decode successfully.
// The result saturates at math.MaxUint64.
func (p Pattern) Count() uint64 { return newTable(p).total() }

// Generate returns up to limit distinct passwords matching p, in alphabet order.
func (p Pattern) Generate(limit int) []string {
	out, _ := p.Search(limit)
	return out
}

// Search is Generate and Count sharing one table build.
func (p Pattern) Search(limit int) (passwords []string, total uint64) {
	t := newTable(p)
	if limit <= 0 {
		return nil, t.total()
	}
	p.walk(t, func(pw string) bool {
		passwords = append(passwords, pw)
		return len(passwords) < limit
	})
	return passwords, t.total()
}

// Generate parses pattern and returns up to limit matching passwords that decode.
// limit <= 0 and malformed patterns fail with ErrInvalidPattern.
func Generate(pattern string, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidPattern, limit)
	}
	p, err := ParsePattern(pattern)
	if err != nil {
		return nil, err
	}
	return p.Generate(limit), nil
}

// Count parses pattern and returns its number of valid completions.
func Count(pattern string) (uint64, error) {
	p, err := ParsePattern(pattern)
	if err != nil {
		return 0, err
	}
	return p.Count(), nil
}

func addSat(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return math.MaxUint64
	}
	return sum
}
