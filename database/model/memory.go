package dbmodel

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"

	keaconfig "github.com/josh73/migrate-host-reservations-to-kea-mysql/appcfg/kea"
	migrateutil "github.com/josh73/migrate-host-reservations-to-kea-mysql/util"
)

// Errors returned by the in-memory store wrapped in the StoreError.
var (
	ErrHostNotFound = errors.New("host does not exist")
	ErrStoreClosed  = errors.New("store is closed")
)

// Contents of the Kea host_identifier_type table.
var hostIdentifierTypes = map[string]int{
	HostIdentifierTypeHWAddress: 0,
	"duid":                      1,
	"circuit-id":                2,
	"client-id":                 3,
	"flex-id":                   4,
}

type memoryOption struct {
	code    uint16
	value   []byte
	space   string
	scopeID int
}

// Reservation store keeping the hosts in memory. It follows the Kea
// schema constraints (identifier types, option scopes and the host
// foreign key) and is used for testing and dry runs.
type MemoryStore struct {
	mutex   sync.Mutex
	nextID  int64
	hosts   map[int64]Host
	options map[int64][]memoryOption
	closed  bool
}

var _ ReservationStore = (*MemoryStore)(nil)

// Creates new empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID:  1,
		hosts:   make(map[int64]Host),
		options: make(map[int64][]memoryOption),
	}
}

// Returns the identifiers of the hosts reserved for the MAC address.
func (s *MemoryStore) FindHostIDsByMAC(ctx context.Context, mac string) ([]int64, error) {
	identifier, err := migrateutil.MACToBytes(mac)
	if err != nil {
		return nil, err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.closed {
		return nil, NewStoreError(OpFindHosts, ErrStoreClosed)
	}
	return s.findHostIDs(identifier), nil
}

func (s *MemoryStore) findHostIDs(identifier []byte) []int64 {
	ids := []int64{}
	for id, host := range s.hosts {
		if bytes.Equal(host.DHCPIdentifier, identifier) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Deletes the host and its options.
func (s *MemoryStore) DeleteHost(ctx context.Context, hostID int64) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.closed {
		return NewStoreError(OpDeleteHost, ErrStoreClosed)
	}
	delete(s.hosts, hostID)
	delete(s.options, hostID)
	return nil
}

// Replaces the hosts with the same identifier with the new host and its
// options. Nothing is changed if any of the options is rejected.
func (s *MemoryStore) UpsertHost(ctx context.Context, host *Host) (int64, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.closed {
		return 0, NewStoreError(OpUpsertHost, ErrStoreClosed)
	}
	if _, ok := hostIdentifierTypes[host.DHCPIdentifierType]; !ok {
		return 0, NewStoreError(OpUpsertHost, errors.Errorf("unknown host identifier type %s", host.DHCPIdentifierType))
	}
	var options []memoryOption
	for _, option := range host.Options {
		stored, err := newMemoryOption(option)
		if err != nil {
			return 0, NewStoreError(OpUpsertHost, err)
		}
		options = append(options, stored)
	}
	for _, id := range s.findHostIDs(host.DHCPIdentifier) {
		delete(s.hosts, id)
		delete(s.options, id)
	}
	stored := *host
	stored.ID = s.nextID
	stored.DHCPIdentifier = append([]byte{}, host.DHCPIdentifier...)
	stored.Options = nil
	s.hosts[stored.ID] = stored
	if len(options) > 0 {
		s.options[stored.ID] = options
	}
	s.nextID++
	host.ID = stored.ID
	return stored.ID, nil
}

// Converts the option to the stored form. The scope must be known.
func newMemoryOption(option *keaconfig.Option) (memoryOption, error) {
	scopeID, ok := keaconfig.GetOptionScopeID(option.Scope)
	if !ok {
		return memoryOption{}, errors.Errorf("unknown option scope %s", option.Scope)
	}
	return memoryOption{
		code:    option.Code,
		value:   append([]byte{}, option.Value...),
		space:   option.Space,
		scopeID: scopeID,
	}, nil
}

// Adds the option to the host.
func (s *MemoryStore) AttachOption(ctx context.Context, hostID int64, option *keaconfig.Option) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.closed {
		return NewStoreError(OpAttachOpt, ErrStoreClosed)
	}
	if _, ok := s.hosts[hostID]; !ok {
		return NewStoreError(OpAttachOpt, errors.Wrapf(ErrHostNotFound, "host %d", hostID))
	}
	stored, err := newMemoryOption(option)
	if err != nil {
		return NewStoreError(OpAttachOpt, err)
	}
	s.options[hostID] = append(s.options[hostID], stored)
	return nil
}

// Returns the host identifiers in the ascending order.
func (s *MemoryStore) sortedHostIDs() []int64 {
	ids := make([]int64, 0, len(s.hosts))
	for id := range s.hosts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Returns all hosts ordered by identifier.
func (s *MemoryStore) ListHosts(ctx context.Context) ([]Host, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.closed {
		return nil, NewStoreError(OpListHosts, ErrStoreClosed)
	}
	hosts := []Host{}
	for _, id := range s.sortedHostIDs() {
		hosts = append(hosts, s.hosts[id])
	}
	return hosts, nil
}

// Returns all hosts joined with their options.
func (s *MemoryStore) ListHostsWithOptions(ctx context.Context) ([]HostOption, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.closed {
		return nil, NewStoreError(OpListOptions, ErrStoreClosed)
	}
	hostOptions := []HostOption{}
	for _, id := range s.sortedHostIDs() {
		for _, option := range s.options[id] {
			hostOptions = append(hostOptions, HostOption{
				Host:    s.hosts[id],
				Code:    option.code,
				Value:   option.value,
				Space:   option.space,
				ScopeID: option.scopeID,
			})
		}
	}
	return hostOptions, nil
}

// Marks the store closed.
func (s *MemoryStore) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.closed = true
	return nil
}
