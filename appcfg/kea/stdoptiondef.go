package keaconfig

// Top level DHCP option spaces.
const (
	DHCPv4OptionSpace = "dhcp4"
	DHCPv6OptionSpace = "dhcp6"
)

// DHCP option type enum, as defined in Kea.
type DHCPOptionType = string

// DHCP option type of the IPv4 address lists, the only values migrated.
const IPv4AddressOption DHCPOptionType = "ipv4-address"

// Standard DHCPv4 option codes.
const (
	RoutersOptionCode           uint16 = 3
	DomainNameServersOptionCode uint16 = 6
)

// DHCP option definition in the format used by Kea.
type dhcpOptionDefinition struct {
	Array      bool           `json:"array,omitempty"`
	Code       uint16         `json:"code"`
	Name       string         `json:"name"`
	Space      string         `json:"space"`
	OptionType DHCPOptionType `json:"type"`
}

// DHCP option definition interface.
type DHCPOptionDefinition interface {
	GetArray() bool
	GetCode() uint16
	GetName() string
	GetSpace() string
	GetType() DHCPOptionType
}

// Checks if the option is an array (has an array of option fields).
func (def dhcpOptionDefinition) GetArray() bool {
	return def.Array
}

// Returns option code.
func (def dhcpOptionDefinition) GetCode() uint16 {
	return def.Code
}

// Returns option name.
func (def dhcpOptionDefinition) GetName() string {
	return def.Name
}

// Returns option space.
func (def dhcpOptionDefinition) GetSpace() string {
	return def.Space
}

// Returns option type.
func (def dhcpOptionDefinition) GetType() DHCPOptionType {
	return def.OptionType
}

// Returns the definitions of the standard DHCPv4 options that can be
// migrated from the ISC DHCP configuration.
func getStdDHCPv4OptionDefs() []dhcpOptionDefinition {
	return []dhcpOptionDefinition{
		{
			Array:      true,
			Code:       RoutersOptionCode,
			Name:       "routers",
			Space:      DHCPv4OptionSpace,
			OptionType: IPv4AddressOption,
		},
		{
			Array:      true,
			Code:       DomainNameServersOptionCode,
			Name:       "domain-name-servers",
			Space:      DHCPv4OptionSpace,
			OptionType: IPv4AddressOption,
		},
	}
}

// Implements lookup mechanism for standard DHCP option definitions.
type dhcpStdOptionDefinitionLookup struct {
	byName map[string]dhcpOptionDefinition
	byCode map[uint16]dhcpOptionDefinition
}

// Interface to a lookup mechanism for finding DHCP standard options.
type DHCPStdOptionDefinitionLookup interface {
	// Finds DHCP option definition by name and space.
	FindByName(name string, space string) DHCPOptionDefinition
	// Finds DHCP option definition by code and space.
	FindByCodeSpace(code uint16, space string) DHCPOptionDefinition
	// Returns the names of all known options.
	Names() []string
}

// Creates standard DHCP option definition lookup instance. It indexes
// the static list of the supported DHCPv4 options.
func NewStdDHCPOptionDefinitionLookup() DHCPStdOptionDefinitionLookup {
	lookup := &dhcpStdOptionDefinitionLookup{
		byName: make(map[string]dhcpOptionDefinition),
		byCode: make(map[uint16]dhcpOptionDefinition),
	}
	for _, def := range getStdDHCPv4OptionDefs() {
		lookup.byName[def.Name] = def
		lookup.byCode[def.Code] = def
	}
	return lookup
}

// Finds a DHCP option definition by name and space. Only the DHCPv4
// space is indexed.
func (lookup dhcpStdOptionDefinitionLookup) FindByName(name string, space string) DHCPOptionDefinition {
	if space != DHCPv4OptionSpace {
		return nil
	}
	if def, ok := lookup.byName[name]; ok {
		return def
	}
	return nil
}

// Finds a DHCP option definition by option code and space.
func (lookup dhcpStdOptionDefinitionLookup) FindByCodeSpace(code uint16, space string) DHCPOptionDefinition {
	if space != DHCPv4OptionSpace {
		return nil
	}
	if def, ok := lookup.byCode[code]; ok {
		return def
	}
	return nil
}

// Returns the names of the known options in the order of their codes.
func (lookup dhcpStdOptionDefinitionLookup) Names() []string {
	var names []string
	for _, def := range getStdDHCPv4OptionDefs() {
		names = append(names, def.Name)
	}
	return names
}
