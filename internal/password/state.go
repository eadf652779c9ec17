// internal/password/state.go
//
// State model: the game progress a password carries, its conversion to and
// from raw field values, and validation against the ranges the game accepts.

package password

import (
	"fmt"
)

// ItemSlots is the number of inventory slots.
const ItemSlots = 8

// State is the decoded form of a password (everything except the checksum).
//
// Equipment and item values are IDs into the game's tables (see internal/catalog);
// 0 always means "none".
type State struct {
	// Name is the hero name in stored form: 4 characters, voiced kana split
	// into base + '゛'/'゜', padded with spaces. Encode normalises it.
	Name   string `json:"name"`
	XP     uint16 `json:"xp"`
	Gold   uint16 `json:"gold"`
	Weapon uint8  `json:"weapon"` // 0..7
	Armor  uint8  `json:"armor"`  // 0..7
	Shield uint8  `json:"shield"` // 0..3
	Herbs  uint8  `json:"herbs"`  // 0..6
	Keys   uint8  `json:"keys"`   // 0..6

	Items [ItemSlots]uint8 `json:"items"` // 0..14 each

	EquippedDragonScale  bool `json:"equippedDragonScale"`
	EquippedFightersRing bool `json:"equippedFightersRing"`
	GotDeathNecklace     bool `json:"gotDeathNecklace"`
	DefeatedGolem        bool `json:"defeatedGolem"`
	DefeatedDragon       bool `json:"defeatedDragon"`

	// Salt selects one of 8 passwords for the same progress (0..7).
	Salt uint8 `json:"salt"`
}

// Values holds one raw value per field, indexed by FieldID.
type Values [NumFields]uint16

// Normalize returns s with its name in stored form.
func (s State) Normalize() (State, error) {
	name, err := NormalizeName(s.Name)
	if err != nil {
		return State{}, err
	}
	s.Name = name
	return s, nil
}

// Validate checks every field against the range the game recognises.
// The name may be in typed (non-normalised) form.
func (s State) Validate() error {
	if _, err := NormalizeName(s.Name); err != nil {
		return err
	}
	checks := []struct {
		field FieldID
		v     uint8
	}{
		{FieldWeapon, s.Weapon},
		{FieldArmor, s.Armor},
		{FieldShield, s.Shield},
		{FieldHerbs, s.Herbs},
		{FieldKeys, s.Keys},
	}
	for _, c := range checks {
		if limit := fields[c.field].Max; uint16(c.v) > limit {
			return outOfRange(fields[c.field].Name, uint16(c.v), limit)
		}
	}
	for i, it := range s.Items {
		if it > maxItem {
			return outOfRange(fmt.Sprintf("items[%d]", i), uint16(it), maxItem)
		}
	}
	if s.Salt > 7 {
		return outOfRange("salt", uint16(s.Salt), 7)
	}
	return nil
}

// Values converts s to raw field values. s must be valid; the name is normalised.
// The checksum entry is left at zero.
func (s State) Values() (Values, error) {
	if err := s.Validate(); err != nil {
		return Values{}, err
	}
	s, err := s.Normalize()
	if err != nil {
		return Values{}, err
	}

	var v Values
	v[FieldXPLow], v[FieldXPHigh] = splitWord(s.XP)
	v[FieldGoldLow], v[FieldGoldHigh] = splitWord(s.Gold)
	v[FieldWeapon] = uint16(s.Weapon)
	v[FieldArmor] = uint16(s.Armor)
	v[FieldShield] = uint16(s.Shield)
	v[FieldHerbs] = uint16(s.Herbs)
	v[FieldKeys] = uint16(s.Keys)
	for i, f := range itemFields {
		v[f] = uint16(s.Items[i])
	}
	i := 0
	for _, r := range s.Name {
		v[nameFields[i]] = uint16(nameValues[r])
		i++
	}
	v[FieldScale] = flag(s.EquippedDragonScale)
	v[FieldRing] = flag(s.EquippedFightersRing)
	v[FieldNecklace] = flag(s.GotDeathNecklace)
	v[FieldGolem] = flag(s.DefeatedGolem)
	v[FieldDragon] = flag(s.DefeatedDragon)
	v[FieldSalt0] = uint16(s.Salt) & 1
	v[FieldSalt1] = uint16(s.Salt) >> 1 & 1
	v[FieldSalt2] = uint16(s.Salt) >> 2 & 1
	return v, nil
}

// FromValues builds a State from raw field values, rejecting values beyond a
// field's recognised range with ErrFieldOutOfRange. The checksum entry is ignored.
func FromValues(v Values) (State, error) {
	for id, f := range fields {
		if FieldID(id) == FieldChecksum {
			continue
		}
		if v[id] > f.Max {
			return State{}, outOfRange(f.Name, v[id], f.Max)
		}
	}

	name := make([]rune, NameLength)
	for i, f := range nameFields {
		name[i] = nameTable[v[f]]
	}
	s := State{
		Name:                 string(name),
		XP:                   joinWord(v[FieldXPLow], v[FieldXPHigh]),
		Gold:                 joinWord(v[FieldGoldLow], v[FieldGoldHigh]),
		Weapon:               uint8(v[FieldWeapon]),
		Armor:                uint8(v[FieldArmor]),
		Shield:               uint8(v[FieldShield]),
		Herbs:                uint8(v[FieldHerbs]),
		Keys:                 uint8(v[FieldKeys]),
		EquippedDragonScale:  v[FieldScale] != 0,
		EquippedFightersRing: v[FieldRing] != 0,
		GotDeathNecklace:     v[FieldNecklace] != 0,
		DefeatedGolem:        v[FieldGolem] != 0,
		DefeatedDragon:       v[FieldDragon] != 0,
		Salt:                 uint8(v[FieldSalt0] | v[FieldSalt1]<<1 | v[FieldSalt2]<<2),
	}
	for i, f := range itemFields {
		s.Items[i] = uint8(v[f])
	}
	return s, nil
}

// Stream writes all values into a fresh bitstream and seals its checksum.
func (v Values) Stream() (Bitstream, error) {
	var b Bitstream
	for id := range v {
		if FieldID(id) == FieldChecksum {
			continue
		}
		if err := b.Write(FieldID(id), v[id]); err != nil {
			return Bitstream{}, err
		}
	}
	b.Seal()
	return b, nil
}

// ReadValues reads every field of b.
func ReadValues(b Bitstream) Values {
	var v Values
	for id := range v {
		v[id] = b.Read(FieldID(id))
	}
	return v
}

// Checksum returns the checksum byte a password for s carries.
func (s State) Checksum() (uint8, error) {
	v, err := s.Values()
	if err != nil {
		return 0, err
	}
	b, err := v.Stream()
	if err != nil {
		return 0, err
	}
	return uint8(b.Read(FieldChecksum)), nil
}

func flag(b bool) uint16 {
	if b {
		return 1
	}
	return 0
}
