package dbmodel

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	keaconfig "github.com/josh73/migrate-host-reservations-to-kea-mysql/appcfg/kea"
)

// Creates a host for the tests.
func newTestHost(mac []byte, hostname string) *Host {
	return &Host{
		DHCPIdentifier:     mac,
		DHCPIdentifierType: HostIdentifierTypeHWAddress,
		DHCP4SubnetID:      DefaultSubnetID,
		IPv4Address:        167772210,
		Hostname:           hostname,
	}
}

// Creates an option for the tests.
func newTestOption(t *testing.T, name, value string) *keaconfig.Option {
	option, err := keaconfig.EncodeOption(name, value)
	require.NoError(t, err)
	return option
}

// Test inserting the host and attaching the options.
func TestMemoryStoreUpsertAndList(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	defer store.Close()

	host := newTestHost([]byte{0, 0x1a, 0x2b, 0x3c, 0x4d, 0x5e}, "printer1")
	id, err := store.UpsertHost(ctx, host)
	require.NoError(t, err)
	require.EqualValues(t, 1, id)
	require.EqualValues(t, 1, host.ID)

	require.NoError(t, store.AttachOption(ctx, id, newTestOption(t, "routers", "10.0.0.1")))
	require.NoError(t, store.AttachOption(ctx, id, newTestOption(t, "domain-name-servers", "10.0.0.2,10.0.0.3")))

	hosts, err := store.ListHosts(ctx)
	require.NoError(t, err)
	require.Len(t, hosts, 1)
	require.Equal(t, *host, hosts[0])

	hostOptions, err := store.ListHostsWithOptions(ctx)
	require.NoError(t, err)
	require.Len(t, hostOptions, 2)
	require.EqualValues(t, 3, hostOptions[0].Code)
	require.Equal(t, []byte{10, 0, 0, 1}, hostOptions[0].Value)
	require.Equal(t, "dhcp4", hostOptions[0].Space)
	require.Equal(t, 1, hostOptions[0].ScopeID)
	require.EqualValues(t, 6, hostOptions[1].Code)
	require.Equal(t, "printer1", hostOptions[1].Hostname)

	ids, err := store.FindHostIDsByMAC(ctx, "00:1a:2b:3c:4d:5e")
	require.NoError(t, err)
	require.Equal(t, []int64{1}, ids)
}

// Test that upserting the host with the same MAC replaces the host and
// removes all its options.
func TestMemoryStoreUpsertReplaces(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	mac := []byte{0, 0x1a, 0x2b, 0x3c, 0x4d, 0x5e}

	id, err := store.UpsertHost(ctx, newTestHost(mac, "printer1"))
	require.NoError(t, err)
	require.NoError(t, store.AttachOption(ctx, id, newTestOption(t, "routers", "10.0.0.1")))
	require.NoError(t, store.AttachOption(ctx, id, newTestOption(t, "domain-name-servers", "10.0.0.2")))

	newID, err := store.UpsertHost(ctx, newTestHost(mac, "printer1-renamed"))
	require.NoError(t, err)
	require.NotEqual(t, id, newID)

	hosts, err := store.ListHosts(ctx)
	require.NoError(t, err)
	require.Len(t, hosts, 1)
	require.Equal(t, "printer1-renamed", hosts[0].Hostname)

	hostOptions, err := store.ListHostsWithOptions(ctx)
	require.NoError(t, err)
	require.Empty(t, hostOptions)

	ids, err := store.FindHostIDsByMAC(ctx, "00-1a-2b-3c-4d-5e")
	require.NoError(t, err)
	require.Equal(t, []int64{newID}, ids)
}

// Test that upserting the same host twice leaves a single host.
func TestMemoryStoreUpsertIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	mac := []byte{0, 0x1a, 0x2b, 0x3c, 0x4d, 0x5e}

	for i := 0; i < 3; i++ {
		id, err := store.UpsertHost(ctx, newTestHost(mac, "printer1"))
		require.NoError(t, err)
		require.NoError(t, store.AttachOption(ctx, id, newTestOption(t, "routers", "10.0.0.1")))
	}

	hosts, err := store.ListHosts(ctx)
	require.NoError(t, err)
	require.Len(t, hosts, 1)

	hostOptions, err := store.ListHostsWithOptions(ctx)
	require.NoError(t, err)
	require.Len(t, hostOptions, 1)
}

// Test that deleting the host removes its options and that deleting a
// nonexistent host is not an error.
func TestMemoryStoreDeleteHost(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	id, err := store.UpsertHost(ctx, newTestHost([]byte{1, 2, 3, 4, 5, 6}, "a"))
	require.NoError(t, err)
	require.NoError(t, store.AttachOption(ctx, id, newTestOption(t, "routers", "10.0.0.1")))

	require.NoError(t, store.DeleteHost(ctx, id))
	require.NoError(t, store.DeleteHost(ctx, id))
	require.NoError(t, store.DeleteHost(ctx, 12345))

	hosts, err := store.ListHosts(ctx)
	require.NoError(t, err)
	require.Empty(t, hosts)
	hostOptions, err := store.ListHostsWithOptions(ctx)
	require.NoError(t, err)
	require.Empty(t, hostOptions)
}

// Test that attaching an option to a nonexistent host fails.
func TestMemoryStoreAttachOptionNoHost(t *testing.T) {
	store := NewMemoryStore()
	err := store.AttachOption(context.Background(), 42, newTestOption(t, "routers", "10.0.0.1"))

	var storeErr *StoreError
	require.True(t, errors.As(err, &storeErr))
	require.Equal(t, OpAttachOpt, storeErr.Op)
	require.ErrorIs(t, err, ErrHostNotFound)
}

// Test that the unknown scope and identifier type are rejected.
func TestMemoryStoreUnknownEnums(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	host := newTestHost([]byte{1, 2, 3, 4, 5, 6}, "a")
	host.DHCPIdentifierType = "serial-number"
	_, err := store.UpsertHost(ctx, host)
	require.ErrorContains(t, err, "unknown host identifier type serial-number")

	host.DHCPIdentifierType = HostIdentifierTypeHWAddress
	id, err := store.UpsertHost(ctx, host)
	require.NoError(t, err)

	option := newTestOption(t, "routers", "10.0.0.1")
	option.Scope = "pool"
	err = store.AttachOption(ctx, id, option)
	require.ErrorContains(t, err, "unknown option scope pool")
}

// Test that the closed store rejects all operations.
func TestMemoryStoreClosed(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Close())

	_, err := store.UpsertHost(ctx, newTestHost([]byte{1, 2, 3, 4, 5, 6}, "a"))
	require.ErrorIs(t, err, ErrStoreClosed)
	_, err = store.ListHosts(ctx)
	require.ErrorIs(t, err, ErrStoreClosed)
	_, err = store.ListHostsWithOptions(ctx)
	require.ErrorIs(t, err, ErrStoreClosed)
	_, err = store.FindHostIDsByMAC(ctx, "01:02:03:04:05:06")
	require.ErrorIs(t, err, ErrStoreClosed)
	require.ErrorIs(t, store.DeleteHost(ctx, 1), ErrStoreClosed)
}

// Test that the host options are inserted together with the host.
func TestMemoryStoreUpsertHostWithOptions(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	host := newTestHost(testMAC, "printer1")
	host.Options = []*keaconfig.Option{
		newTestOption(t, "domain-name-servers", "10.0.0.2,10.0.0.3"),
		newTestOption(t, "routers", "10.0.0.1"),
	}
	id, err := store.UpsertHost(ctx, host)
	require.NoError(t, err)

	hosts, err := store.ListHosts(ctx)
	require.NoError(t, err)
	require.Len(t, hosts, 1)
	require.Nil(t, hosts[0].Options)

	hostOptions, err := store.ListHostsWithOptions(ctx)
	require.NoError(t, err)
	require.Len(t, hostOptions, 2)
	require.Equal(t, id, hostOptions[0].ID)
	require.EqualValues(t, 6, hostOptions[0].Code)
	require.EqualValues(t, 3, hostOptions[1].Code)
	require.Equal(t, []byte{10, 0, 0, 1}, hostOptions[1].Value)
}

// Test that the host with a rejected option does not replace the
// existing host.
func TestMemoryStoreUpsertHostRejectedOption(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	prior := newTestHost(testMAC, "printer1")
	prior.Options = []*keaconfig.Option{newTestOption(t, "routers", "10.0.0.1")}
	id, err := store.UpsertHost(ctx, prior)
	require.NoError(t, err)

	option := newTestOption(t, "routers", "10.0.0.254")
	option.Scope = "pool"
	host := newTestHost(testMAC, "printer2")
	host.Options = []*keaconfig.Option{newTestOption(t, "domain-name-servers", "10.0.0.2"), option}
	_, err = store.UpsertHost(ctx, host)

	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	require.Equal(t, OpUpsertHost, storeErr.Op)
	require.ErrorContains(t, err, "unknown option scope pool")

	hostOptions, err := store.ListHostsWithOptions(ctx)
	require.NoError(t, err)
	require.Len(t, hostOptions, 1)
	require.Equal(t, id, hostOptions[0].ID)
	require.Equal(t, "printer1", hostOptions[0].Hostname)
	require.Equal(t, []byte{10, 0, 0, 1}, hostOptions[0].Value)
}
