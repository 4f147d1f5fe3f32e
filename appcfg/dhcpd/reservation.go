package dhcpdconfig

import (
	"fmt"
	"sort"
)

// A static host reservation extracted from the ISC DHCP server
// configuration. It binds a MAC address to an IPv4 address and carries
// the DHCP options specified within the host block.
type Reservation struct {
	Hostname string
	// Canonical lower-case MAC address.
	MAC string
	// IPv4 address in the dotted-decimal notation.
	IPv4 string
	// Option name to the raw option value text.
	Options map[string]string
}

// Returns the option names sorted alphabetically.
func (r Reservation) OptionNames() []string {
	names := make([]string, 0, len(r.Options))
	for name := range r.Options {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Returns a label identifying the reservation in the logs and errors.
func (r Reservation) Label() string {
	return fmt.Sprintf("%s (%s)", r.Hostname, r.MAC)
}
