package pk3

import "fmt"

// Error represents a general pk3 error
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("pk3 error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("pk3 error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// SizeError is returned for data that is neither a box nor a party record.
type SizeError struct {
	Size int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("pk3 error: expected %d or %d bytes, got %d", BoxSize, PartySize, e.Size)
}

// ChecksumError is returned when a record's checksum matches neither its
// decrypted nor its encrypted reading.
type ChecksumError struct {
	Stored   uint16
	Computed uint16
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("pk3 error: checksum mismatch: stored %#04x, computed %#04x", e.Stored, e.Computed)
}
