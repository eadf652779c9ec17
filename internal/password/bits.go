// internal/password/bits.go
//
// Bit codec: packs the twenty six-bit groups of a password into a 15-byte
// bitstream and exposes the fixed field layout inside it.
//
// Bit order: group i occupies stream bits [6i, 6i+6); stream bit k is bit k%8
// of byte k/8 (least-significant first).

package password

import (
	"fmt"
	"math"
)

// StreamBytes is the size of a packed password.
const StreamBytes = Length * SymbolBits / 8

// Bitstream is the packed binary form of a password.
type Bitstream [StreamBytes]byte

// FieldID names one region of the bitstream.
type FieldID int

const (
	FieldChecksum FieldID = iota
	FieldXPLow
	FieldName2
	FieldNecklace
	FieldSalt1
	FieldItem2
	FieldItem3
	FieldGoldLow
	FieldSalt0
	FieldGolem
	FieldName0
	FieldItem6
	FieldItem7
	FieldName3
	FieldDragon
	FieldSalt2
	FieldShield
	FieldArmor
	FieldWeapon
	FieldGoldHigh
	FieldHerbs
	FieldKeys
	FieldItem4
	FieldItem5
	FieldXPHigh
	FieldRing
	FieldName1
	FieldScale
	FieldItem0
	FieldItem1

	NumFields
)

// Field describes where a value lives in the bitstream and the largest value
// the game recognises for it.
type Field struct {
	Name   string
	Offset uint
	Width  uint
	Max    uint16
}

const (
	maxItem  = 14
	maxCount = 6
)

var fields = [NumFields]Field{
	FieldChecksum: {"checksum", 0, 8, 0xFF},
	FieldXPLow:    {"xp.lo", 8, 8, 0xFF},
	FieldName2:    {"name.2", 16, 6, 0x3F},
	FieldNecklace: {"necklace", 22, 1, 1},
	FieldSalt1:    {"salt.1", 23, 1, 1},
	FieldItem2:    {"item.2", 24, 4, maxItem},
	FieldItem3:    {"item.3", 28, 4, maxItem},
	FieldGoldLow:  {"gold.lo", 32, 8, 0xFF},
	FieldSalt0:    {"salt.0", 40, 1, 1},
	FieldGolem:    {"golem", 41, 1, 1},
	FieldName0:    {"name.0", 42, 6, 0x3F},
	FieldItem6:    {"item.6", 48, 4, maxItem},
	FieldItem7:    {"item.7", 52, 4, maxItem},
	FieldName3:    {"name.3", 56, 6, 0x3F},
	FieldDragon:   {"dragon", 62, 1, 1},
	FieldSalt2:    {"salt.2", 63, 1, 1},
	FieldShield:   {"shield", 64, 2, 3},
	FieldArmor:    {"armor", 66, 3, 7},
	FieldWeapon:   {"weapon", 69, 3, 7},
	FieldGoldHigh: {"gold.hi", 72, 8, 0xFF},
	FieldHerbs:    {"herbs", 80, 4, maxCount},
	FieldKeys:     {"keys", 84, 4, maxCount},
	FieldItem4:    {"item.4", 88, 4, maxItem},
	FieldItem5:    {"item.5", 92, 4, maxItem},
	FieldXPHigh:   {"xp.hi", 96, 8, 0xFF},
	FieldRing:     {"ring", 104, 1, 1},
	FieldName1:    {"name.1", 105, 6, 0x3F},
	FieldScale:    {"scale", 111, 1, 1},
	FieldItem0:    {"item.0", 112, 4, maxItem},
	FieldItem1:    {"item.1", 116, 4, maxItem},
}

var fieldsByName = func() map[string]FieldID {
	m := make(map[string]FieldID, NumFields)
	for id, f := range fields {
		m[f.Name] = FieldID(id)
	}
	return m
}()

// itemFields lists the inventory slots in slot order.
var itemFields = [ItemSlots]FieldID{
	FieldItem0, FieldItem1, FieldItem2, FieldItem3,
	FieldItem4, FieldItem5, FieldItem6, FieldItem7,
}

// nameFields lists the name characters in display order.
var nameFields = [NameLength]FieldID{FieldName0, FieldName1, FieldName2, FieldName3}

// Def returns the layout entry of f.
func (f FieldID) Def() Field { return fields[f] }

func (f FieldID) String() string {
	if f < 0 || f >= NumFields {
		return fmt.Sprintf("field(%d)", int(f))
	}
	return fields[f].Name
}

// Limited reports whether the game rejects some values that fit the field's width.
func (f Field) Limited() bool { return uint32(f.Max) < (uint32(1)<<f.Width)-1 }

// LookupField finds a field by its layout name (e.g. "herbs", "item.3").
func LookupField(name string) (FieldID, bool) {
	id, ok := fieldsByName[name]
	return id, ok
}

// Pack concatenates six-bit groups into a bitstream.
func Pack(groups [Length]uint8) Bitstream {
	var b Bitstream
	for i, g := range groups {
		b.put(uint(i)*SymbolBits, SymbolBits, uint16(g&symbolMask))
	}
	return b
}

// Unpack splits a bitstream back into its six-bit groups.
func (b Bitstream) Unpack() [Length]uint8 {
	var groups [Length]uint8
	for i := range groups {
		groups[i] = uint8(b.get(uint(i)*SymbolBits, SymbolBits))
	}
	return groups
}

// Read returns the raw value of field f.
func (b Bitstream) Read(f FieldID) uint16 {
	def := fields[f]
	return b.get(def.Offset, def.Width)
}

// Write stores v into field f. Values wider than the field fail with ErrFieldOverflow.
func (b *Bitstream) Write(f FieldID, v uint16) error {
	def := fields[f]
	if uint32(v) >= uint32(1)<<def.Width {
		return fmt.Errorf("%w: %s=%d does not fit %d bits", ErrFieldOverflow, def.Name, v, def.Width)
	}
	b.put(def.Offset, def.Width, v)
	return nil
}

func (b Bitstream) get(off, width uint) uint16 {
	var v uint16
	for k := uint(0); k < width; k++ {
		bit := off + k
		if b[bit/8]>>(bit%8)&1 != 0 {
			v |= 1 << k
		}
	}
	return v
}

func (b *Bitstream) put(off, width uint, v uint16) {
	for k := uint(0); k < width; k++ {
		bit := off + k
		if v>>k&1 != 0 {
			b[bit/8] |= 1 << (bit % 8)
		} else {
			b[bit/8] &^= 1 << (bit % 8)
		}
	}
}

// splitWord/joinWord handle 16-bit values stored as two byte fields.
func splitWord(v uint16) (lo, hi uint16) { return v & math.MaxUint8, v >> 8 }

func joinWord(lo, hi uint16) uint16 { return lo | hi<<8 }
