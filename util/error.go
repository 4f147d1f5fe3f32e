package migrateutil

import "fmt"

// An error returned when a MAC address, IPv4 address or hex-encoded blob
// has an unexpected format.
type FormatError struct {
	// Kind of the malformed value, e.g. "MAC address".
	Kind string
	// The offending value.
	Value string
	// Human readable description of the problem.
	Reason string
}

// Creates new instance of the FormatError.
func NewFormatError(kind, value, reason string) error {
	return &FormatError{
		Kind:   kind,
		Value:  value,
		Reason: reason,
	}
}

// Returns error string.
func (e FormatError) Error() string {
	return fmt.Sprintf("invalid %s '%s': %s", e.Kind, e.Value, e.Reason)
}
