package dbmodel

import (
	"context"
	"fmt"

	dhcpdconfig "github.com/josh73/migrate-host-reservations-to-kea-mysql/appcfg/dhcpd"
	keaconfig "github.com/josh73/migrate-host-reservations-to-kea-mysql/appcfg/kea"
	migrateutil "github.com/josh73/migrate-host-reservations-to-kea-mysql/util"
)

// Identifier type of the hosts reserved by the MAC address. It is
// resolved by the store to the value from the host_identifier_type table.
const HostIdentifierTypeHWAddress = "hw-address"

// Default subnet identifier assigned to the migrated hosts.
const DefaultSubnetID uint32 = 1024

// Operations reported in the StoreError.
const (
	OpFindHosts   = "find hosts"
	OpDeleteHost  = "delete host"
	OpUpsertHost  = "upsert host"
	OpAttachOpt   = "attach option"
	OpListHosts   = "list hosts"
	OpListOptions = "list host options"
	OpClose       = "close"
)

// A host reservation in the Kea hosts table.
type Host struct {
	ID                 int64
	DHCPIdentifier     []byte
	DHCPIdentifierType string
	DHCP4SubnetID      uint32
	IPv4Address        uint32
	Hostname           string

	// Options inserted together with the host by UpsertHost. The listing
	// functions leave it empty.
	Options []*keaconfig.Option
}

// A host joined with one of its DHCPv4 options.
type HostOption struct {
	Host
	Code    uint16
	Value   []byte
	Space   string
	ScopeID int
}

// Creates the host from the reservation extracted from the dhcpd
// configuration.
func NewHostFromReservation(reservation dhcpdconfig.Reservation, subnetID uint32) (*Host, error) {
	identifier, err := migrateutil.MACToBytes(reservation.MAC)
	if err != nil {
		return nil, err
	}
	address, err := migrateutil.IPToInteger(reservation.IPv4)
	if err != nil {
		return nil, err
	}
	return &Host{
		DHCPIdentifier:     identifier,
		DHCPIdentifierType: HostIdentifierTypeHWAddress,
		DHCP4SubnetID:      subnetID,
		IPv4Address:        address,
		Hostname:           reservation.Hostname,
	}, nil
}

// Returns the MAC address of the host. If the identifier is not a MAC
// address its hexadecimal form is returned.
func (h Host) MAC() string {
	mac, err := migrateutil.BytesToMAC(h.DHCPIdentifier)
	if err != nil {
		return migrateutil.BytesToHex(h.DHCPIdentifier)
	}
	return mac
}

// Returns the reserved IPv4 address in the dotted-decimal notation.
func (h Host) IPv4() string {
	return migrateutil.IntegerToIP(h.IPv4Address)
}

// Interface to the Kea host database holding the migrated reservations.
type ReservationStore interface {
	// Returns the identifiers of the hosts reserved for the MAC address.
	FindHostIDsByMAC(ctx context.Context, mac string) ([]int64, error)
	// Deletes the host and its options. Deleting a nonexistent host is
	// not an error.
	DeleteHost(ctx context.Context, hostID int64) error
	// Atomically replaces the hosts having the same identifier with the
	// new host and its options. It returns the new host identifier.
	UpsertHost(ctx context.Context, host *Host) (int64, error)
	// Adds the option to the host.
	AttachOption(ctx context.Context, hostID int64, option *keaconfig.Option) error
	// Returns all hosts.
	ListHosts(ctx context.Context) ([]Host, error)
	// Returns all hosts joined with their DHCPv4 options.
	ListHostsWithOptions(ctx context.Context) ([]HostOption, error)
	// Releases the store resources.
	Close() error
}

// An error returned by the store operations.
type StoreError struct {
	Op  string
	Err error
}

// Creates new instance of the StoreError.
func NewStoreError(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

// Returns error string.
func (e StoreError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

// Returns the underlying error.
func (e StoreError) Unwrap() error {
	return e.Err
}
