package dhcpdconfig

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

// A syntax error found in the configuration text.
type ParseError struct {
	Filename string
	Line     int
	Column   int
	Message  string
}

// Creates new ParseError pointing at the specified position.
func newParseError(pos lexer.Position, format string, args ...any) error {
	return &ParseError{
		Filename: pos.Filename,
		Line:     pos.Line,
		Column:   pos.Column,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Returns error string.
func (e ParseError) Error() string {
	if e.Filename == "" {
		return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.Filename, e.Line, e.Column, e.Message)
}

// An error returned when a required statement is absent in the host
// block or it is specified more than once.
type MissingFieldError struct {
	Hostname string
	Field    string
	// Set when the field is specified multiple times.
	Ambiguous bool
}

// Returns error string.
func (e MissingFieldError) Error() string {
	if e.Ambiguous {
		return fmt.Sprintf("host %s: %s specified more than once", e.Hostname, e.Field)
	}
	return fmt.Sprintf("host %s: missing %s", e.Hostname, e.Field)
}
