// internal/password/errors.go
//
// Error kinds reported by the password codec and generator.
// Every failure is returned as a value; callers match kinds with errors.Is.

package password

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownSymbol: a rune outside the password alphabet (or the name table).
	ErrUnknownSymbol = errors.New("unknown symbol")
	// ErrInvalidLength: text or pattern is not exactly Length symbols long.
	ErrInvalidLength = errors.New("invalid length")
	// ErrChecksumMismatch: the stored checksum disagrees with the recomputed one.
	ErrChecksumMismatch = errors.New("checksum mismatch")
	// ErrFieldOutOfRange: a field holds a value the game does not recognise.
	ErrFieldOutOfRange = errors.New("field out of range")
	// ErrFieldOverflow: a value does not fit in its field's bit width.
	ErrFieldOverflow = errors.New("field overflow")
	// ErrInvalidPattern: malformed pattern or non-positive limit.
	ErrInvalidPattern = errors.New("invalid pattern")
)

// ChecksumError carries both checksum bytes of a rejected password.
type ChecksumError struct {
	Stored   uint8
	Computed uint8
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum mismatch: stored=%#02x computed=%#02x", e.Stored, e.Computed)
}

// Unwrap lets errors.Is(err, ErrChecksumMismatch) match.
func (e *ChecksumError) Unwrap() error { return ErrChecksumMismatch }

func outOfRange(field string, v, limit uint16) error {
	return fmt.Errorf("%w: %s=%d (max %d)", ErrFieldOutOfRange, field, v, limit)
}
