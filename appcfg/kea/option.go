package keaconfig

import (
	"encoding/hex"
	"strings"

	migrateutil "github.com/josh73/migrate-host-reservations-to-kea-mysql/util"
	errors "github.com/pkg/errors"
)

// Kea option scopes as defined in the dhcp_option_scope table.
const (
	OptionScopeGlobal        = "global"
	OptionScopeSubnet        = "subnet"
	OptionScopeClientClass   = "client-class"
	OptionScopeHost          = "host"
	OptionScopeSharedNetwork = "shared-network"
)

// Default scope of the migrated host options.
const DefaultOptionScope = OptionScopeSubnet

var optionScopeIDs = map[string]int{
	OptionScopeGlobal:        0,
	OptionScopeSubnet:        1,
	OptionScopeClientClass:   2,
	OptionScopeHost:          3,
	OptionScopeSharedNetwork: 4,
}

// Returns the Kea scope identifier for the scope name. The second
// returned value is false if the scope is unknown.
func GetOptionScopeID(scope string) (int, bool) {
	id, ok := optionScopeIDs[scope]
	return id, ok
}

// Returns the Kea scope name for the scope identifier.
func GetOptionScopeName(id int) (string, bool) {
	for name, scopeID := range optionScopeIDs {
		if scopeID == id {
			return name, true
		}
	}
	return "", false
}

// Represents a DHCP option in the form stored in the Kea host database
// (dhcp4_options table).
type Option struct {
	Code  uint16
	Name  string
	Value []byte
	Space string
	Scope string
}

// Returns the option value as a string of upper-case hexadecimal digits.
func (o Option) HexValue() string {
	return migrateutil.BytesToHex(o.Value)
}

var stdLookup = NewStdDHCPOptionDefinitionLookup()

// Encodes a textual option value taken from the ISC DHCP configuration
// (e.g., "10.0.0.1, 10.0.0.2") into the binary form stored by Kea. Only
// the options known to the standard lookup are accepted. The returned
// option has the default scope.
func EncodeOption(name, rawValue string) (*Option, error) {
	def := stdLookup.FindByName(name, DHCPv4OptionSpace)
	if def == nil {
		return nil, NewUnsupportedOptionNameError(name)
	}
	if def.GetType() != IPv4AddressOption {
		return nil, &UnsupportedOptionError{
			Name:   name,
			Space:  DHCPv4OptionSpace,
			Reason: "only IPv4 address options are supported",
		}
	}
	var addresses []string
	for _, item := range strings.Split(rawValue, ",") {
		addr := strings.TrimSpace(item)
		if addr == "" {
			return nil, migrateutil.NewFormatError(migrateutil.IPv4AddressKind, rawValue, "empty address in the list")
		}
		addresses = append(addresses, addr)
	}
	if !def.GetArray() && len(addresses) > 1 {
		return nil, migrateutil.NewFormatError(migrateutil.IPv4AddressKind, rawValue, "option takes a single address")
	}
	hexValue, err := migrateutil.IPListToHex(addresses)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to encode option %s", name)
	}
	value, err := hex.DecodeString(hexValue)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode option %s", name)
	}
	return &Option{
		Code:  def.GetCode(),
		Name:  def.GetName(),
		Value: value,
		Space: DHCPv4OptionSpace,
		Scope: DefaultOptionScope,
	}, nil
}

// Decodes an option stored in the Kea host database into its name and
// the list of dotted-quad addresses. The scope is not interpreted.
func DecodeOption(code uint16, blob []byte, space, scope string) (string, []string, error) {
	def := stdLookup.FindByCodeSpace(code, space)
	if def == nil {
		return "", nil, NewUnsupportedOptionCodeError(code, space)
	}
	addresses, err := migrateutil.HexToIPList(hex.EncodeToString(blob))
	if err != nil {
		return "", nil, errors.WithMessagef(err, "failed to decode option %s in %s scope", def.GetName(), scope)
	}
	return def.GetName(), addresses, nil
}
