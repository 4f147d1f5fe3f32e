package keaconfig

import (
	"fmt"
)

// An error returned on attempt to encode or decode a DHCP option that
// is not supported by the migration.
type UnsupportedOptionError struct {
	// Option name, if known.
	Name string
	// Option code, if known.
	Code uint16
	// Option space.
	Space string
	// Optional explanation.
	Reason string
}

// Create new instance of the UnsupportedOptionError for the option
// specified by name.
func NewUnsupportedOptionNameError(name string) error {
	return &UnsupportedOptionError{
		Name:  name,
		Space: DHCPv4OptionSpace,
	}
}

// Create new instance of the UnsupportedOptionError for the option
// specified by code and space.
func NewUnsupportedOptionCodeError(code uint16, space string) error {
	return &UnsupportedOptionError{
		Code:  code,
		Space: space,
	}
}

// Returns error string.
func (e UnsupportedOptionError) Error() string {
	var option string
	if e.Name != "" {
		option = fmt.Sprintf("option %s", e.Name)
	} else {
		option = fmt.Sprintf("option code %d in space %s", e.Code, e.Space)
	}
	if e.Reason != "" {
		return fmt.Sprintf("unsupported %s: %s", option, e.Reason)
	}
	return fmt.Sprintf("unsupported %s", option)
}
