package dbmodel

import (
	"context"

	"github.com/go-pg/pg/v10"
	"github.com/pkg/errors"

	keaconfig "github.com/josh73/migrate-host-reservations-to-kea-mysql/appcfg/kea"
	migrateutil "github.com/josh73/migrate-host-reservations-to-kea-mysql/util"
)

// Statements run against the Kea PostgreSQL schema. The parameters are
// formatted by go-pg.
const (
	pgSelectHostIDs = `SELECT host_id FROM hosts WHERE dhcp_identifier = ?`

	pgDeleteDHCP4Options = `DELETE FROM dhcp4_options WHERE host_id = ?`
	pgDeleteDHCP6Options = `DELETE FROM dhcp6_options WHERE host_id = ?`
	pgDeleteHostQuery    = `DELETE FROM hosts WHERE host_id = ?`

	pgInsertHost = `INSERT INTO hosts (dhcp_identifier, dhcp_identifier_type, dhcp4_subnet_id, ipv4_address, hostname)
		VALUES (?, (SELECT type FROM host_identifier_type WHERE name = ?), ?, ?, ?)
		RETURNING host_id`

	pgInsertOption = `INSERT INTO dhcp4_options (code, value, space, host_id, scope_id)
		VALUES (?, ?, ?, ?, (SELECT scope_id FROM dhcp_option_scope WHERE scope_name = ?))`

	pgSelectHosts = `SELECT h.host_id, h.dhcp_identifier, t.name AS identifier_type, h.dhcp4_subnet_id, h.ipv4_address, h.hostname
		FROM hosts h LEFT JOIN host_identifier_type t ON h.dhcp_identifier_type = t.type
		ORDER BY h.host_id`

	pgSelectHostsWithOptions = `SELECT h.host_id, h.dhcp_identifier, t.name AS identifier_type, h.dhcp4_subnet_id, h.ipv4_address, h.hostname,
		o.code, o.value, o.space, o.scope_id
		FROM hosts h
		INNER JOIN dhcp4_options o ON h.host_id = o.host_id
		LEFT JOIN host_identifier_type t ON h.dhcp_identifier_type = t.type
		ORDER BY h.host_id, o.option_id`
)

type pgHostIDRow struct {
	HostID int64 `pg:"host_id"`
}

// Host row selected from the PostgreSQL database.
type pgHostRow struct {
	HostID         int64  `pg:"host_id"`
	DHCPIdentifier []byte `pg:"dhcp_identifier"`
	IdentifierType string `pg:"identifier_type"`
	DHCP4SubnetID  int64  `pg:"dhcp4_subnet_id"`
	IPv4Address    int64  `pg:"ipv4_address"`
	Hostname       string `pg:"hostname"`
}

func (r pgHostRow) toHost() Host {
	return Host{
		ID:                 r.HostID,
		DHCPIdentifier:     r.DHCPIdentifier,
		DHCPIdentifierType: r.IdentifierType,
		DHCP4SubnetID:      uint32(r.DHCP4SubnetID),
		IPv4Address:        uint32(r.IPv4Address),
		Hostname:           r.Hostname,
	}
}

// Host option row selected from the PostgreSQL database.
type pgHostOptionRow struct {
	pgHostRow
	Code    int    `pg:"code"`
	Value   []byte `pg:"value"`
	Space   string `pg:"space"`
	ScopeID int    `pg:"scope_id"`
}

// Reservation store backed by the Kea PostgreSQL host database.
type PgStore struct {
	db *pg.DB
}

var _ ReservationStore = (*PgStore)(nil)

// Creates the store using an open database connection. The store takes
// the ownership of the connection.
func NewPgStore(db *pg.DB) *PgStore {
	return &PgStore{db: db}
}

func pgFindHostIDs(ctx context.Context, dbi pg.DBI, identifier []byte) ([]int64, error) {
	var rows []pgHostIDRow
	if _, err := dbi.QueryContext(ctx, &rows, pgSelectHostIDs, identifier); err != nil {
		return nil, errors.Wrap(err, "problem selecting hosts by identifier")
	}
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.HostID)
	}
	return ids, nil
}

func pgDeleteHost(ctx context.Context, dbi pg.DBI, hostID int64) error {
	for _, query := range []string{pgDeleteDHCP4Options, pgDeleteDHCP6Options, pgDeleteHostQuery} {
		if _, err := dbi.ExecContext(ctx, query, hostID); err != nil {
			return errors.Wrapf(err, "problem deleting host %d", hostID)
		}
	}
	return nil
}

// Returns the identifiers of the hosts reserved for the MAC address.
func (s *PgStore) FindHostIDsByMAC(ctx context.Context, mac string) ([]int64, error) {
	identifier, err := migrateutil.MACToBytes(mac)
	if err != nil {
		return nil, err
	}
	ids, err := pgFindHostIDs(ctx, s.db, identifier)
	if err != nil {
		return nil, NewStoreError(OpFindHosts, err)
	}
	return ids, nil
}

// Deletes the host and its options in a transaction.
func (s *PgStore) DeleteHost(ctx context.Context, hostID int64) error {
	err := s.db.RunInTransaction(ctx, func(tx *pg.Tx) error {
		return pgDeleteHost(ctx, tx, hostID)
	})
	if err != nil {
		return NewStoreError(OpDeleteHost, err)
	}
	return nil
}

// Deletes the hosts with the same identifier and inserts the new host
// with its options. It must run in a transaction.
func pgUpsertHost(ctx context.Context, dbi pg.DBI, host *Host) (int64, error) {
	ids, err := pgFindHostIDs(ctx, dbi, host.DHCPIdentifier)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		if err = pgDeleteHost(ctx, dbi, id); err != nil {
			return 0, err
		}
	}
	var row pgHostIDRow
	_, err = dbi.QueryOneContext(ctx, &row, pgInsertHost,
		host.DHCPIdentifier, host.DHCPIdentifierType, host.DHCP4SubnetID, host.IPv4Address, host.Hostname)
	if err != nil {
		return 0, errors.Wrapf(err, "problem inserting host %s", host.Hostname)
	}
	for _, option := range host.Options {
		if err = pgInsertHostOption(ctx, dbi, row.HostID, option); err != nil {
			return 0, err
		}
	}
	return row.HostID, nil
}

func pgInsertHostOption(ctx context.Context, dbi pg.DBI, hostID int64, option *keaconfig.Option) error {
	_, err := dbi.ExecContext(ctx, pgInsertOption, option.Code, option.Value, option.Space, hostID, option.Scope)
	return errors.Wrapf(err, "problem inserting option %d of host %d", option.Code, hostID)
}

func pgListHosts(ctx context.Context, dbi pg.DBI) ([]Host, error) {
	var rows []pgHostRow
	if _, err := dbi.QueryContext(ctx, &rows, pgSelectHosts); err != nil {
		return nil, errors.Wrap(err, "problem selecting hosts")
	}
	hosts := make([]Host, 0, len(rows))
	for _, row := range rows {
		hosts = append(hosts, row.toHost())
	}
	return hosts, nil
}

func pgListHostsWithOptions(ctx context.Context, dbi pg.DBI) ([]HostOption, error) {
	var rows []pgHostOptionRow
	if _, err := dbi.QueryContext(ctx, &rows, pgSelectHostsWithOptions); err != nil {
		return nil, errors.Wrap(err, "problem selecting host options")
	}
	hostOptions := make([]HostOption, 0, len(rows))
	for _, row := range rows {
		hostOptions = append(hostOptions, HostOption{
			Host:    row.toHost(),
			Code:    uint16(row.Code),
			Value:   row.Value,
			Space:   row.Space,
			ScopeID: row.ScopeID,
		})
	}
	return hostOptions, nil
}

// Deletes the hosts with the same identifier and inserts the new host
// with its options in a single transaction.
func (s *PgStore) UpsertHost(ctx context.Context, host *Host) (int64, error) {
	var hostID int64
	err := s.db.RunInTransaction(ctx, func(tx *pg.Tx) (err error) {
		hostID, err = pgUpsertHost(ctx, tx, host)
		return err
	})
	if err != nil {
		return 0, NewStoreError(OpUpsertHost, err)
	}
	host.ID = hostID
	return hostID, nil
}

// Inserts the option of the host.
func (s *PgStore) AttachOption(ctx context.Context, hostID int64, option *keaconfig.Option) error {
	if err := pgInsertHostOption(ctx, s.db, hostID, option); err != nil {
		return NewStoreError(OpAttachOpt, err)
	}
	return nil
}

// Returns all hosts ordered by identifier.
func (s *PgStore) ListHosts(ctx context.Context) ([]Host, error) {
	hosts, err := pgListHosts(ctx, s.db)
	if err != nil {
		return nil, NewStoreError(OpListHosts, err)
	}
	return hosts, nil
}

// Returns all hosts joined with their DHCPv4 options.
func (s *PgStore) ListHostsWithOptions(ctx context.Context) ([]HostOption, error) {
	hostOptions, err := pgListHostsWithOptions(ctx, s.db)
	if err != nil {
		return nil, NewStoreError(OpListOptions, err)
	}
	return hostOptions, nil
}

// Closes the database connection.
func (s *PgStore) Close() error {
	if err := s.db.Close(); err != nil {
		return NewStoreError(OpClose, err)
	}
	return nil
}
