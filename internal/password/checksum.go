// internal/password/checksum.go
//
// The checksum byte is the low byte of a CRC-16 (polynomial 0x1021, initial
// value 0, MSB first) over stream bytes 1..14. howeyc/crc16's CCITT-FALSE
// table with Checksum() starts from 0, which is exactly that variant.

package password

import "github.com/howeyc/crc16"

// checksumOf computes the checksum of b, ignoring b's checksum field.
func checksumOf(b *Bitstream) uint8 {
	return uint8(crc16.Checksum(b[1:], crc16.CCITTFalseTable))
}

// Seal writes the checksum of b into its checksum field.
func (b *Bitstream) Seal() {
	b[0] = checksumOf(b)
}

// Verify reports a *ChecksumError if the stored checksum is wrong.
func (b *Bitstream) Verify() error {
	stored := uint8(b.Read(FieldChecksum))
	if computed := checksumOf(b); computed != stored {
		return &ChecksumError{Stored: stored, Computed: computed}
	}
	return nil
}
