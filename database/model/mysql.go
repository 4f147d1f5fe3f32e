package dbmodel

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	keaconfig "github.com/josh73/migrate-host-reservations-to-kea-mysql/appcfg/kea"
	dbops "github.com/josh73/migrate-host-reservations-to-kea-mysql/database"
	migrateutil "github.com/josh73/migrate-host-reservations-to-kea-mysql/util"
)

// Statements run against the Kea MySQL schema. The identifier type and
// the option scope are resolved by name.
const (
	mysqlSelectHostIDs = `SELECT host_id FROM hosts WHERE dhcp_identifier = ?`

	mysqlDeleteDHCP4Options = `DELETE FROM dhcp4_options WHERE host_id = ?`
	mysqlDeleteDHCP6Options = `DELETE FROM dhcp6_options WHERE host_id = ?`
	mysqlDeleteHost         = `DELETE FROM hosts WHERE host_id = ?`

	mysqlInsertHost = `INSERT INTO hosts (dhcp_identifier, dhcp_identifier_type, dhcp4_subnet_id, ipv4_address, hostname)
		VALUES (?, (SELECT type FROM host_identifier_type WHERE name = ?), ?, ?, ?)`

	mysqlInsertOption = `INSERT INTO dhcp4_options (code, value, space, host_id, scope_id)
		VALUES (?, ?, ?, ?, (SELECT scope_id FROM dhcp_option_scope WHERE scope_name = ?))`

	mysqlSelectHosts = `SELECT h.host_id, h.dhcp_identifier, t.name, h.dhcp4_subnet_id, h.ipv4_address, h.hostname
		FROM hosts h LEFT JOIN host_identifier_type t ON h.dhcp_identifier_type = t.type
		ORDER BY h.host_id`

	mysqlSelectHostsWithOptions = `SELECT h.host_id, h.dhcp_identifier, t.name, h.dhcp4_subnet_id, h.ipv4_address, h.hostname,
		o.code, o.value, o.space, o.scope_id
		FROM hosts h
		INNER JOIN dhcp4_options o ON h.host_id = o.host_id
		LEFT JOIN host_identifier_type t ON h.dhcp_identifier_type = t.type
		ORDER BY h.host_id, o.option_id`
)

// Common interface of the sql.DB and sql.Tx.
type sqlExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Reservation store backed by the Kea MySQL host database.
type MySQLStore struct {
	db    *sql.DB
	trace bool
}

var _ ReservationStore = (*MySQLStore)(nil)

// Creates the store using an open database handle. The store takes
// the ownership of the handle. If trace is set, the statements are
// printed to stderr.
func NewMySQLStore(db *sql.DB, trace bool) *MySQLStore {
	return &MySQLStore{
		db:    db,
		trace: trace,
	}
}

func (s *MySQLStore) exec(ctx context.Context, executor sqlExecutor, query string, args ...any) (sql.Result, error) {
	if s.trace {
		dbops.TraceQuery(query, args...)
	}
	return executor.ExecContext(ctx, query, args...)
}

func (s *MySQLStore) query(ctx context.Context, executor sqlExecutor, query string, args ...any) (*sql.Rows, error) {
	if s.trace {
		dbops.TraceQuery(query, args...)
	}
	return executor.QueryContext(ctx, query, args...)
}

// Returns the identifiers of the hosts reserved for the MAC address.
func (s *MySQLStore) FindHostIDsByMAC(ctx context.Context, mac string) ([]int64, error) {
	identifier, err := migrateutil.MACToBytes(mac)
	if err != nil {
		return nil, err
	}
	ids, err := s.findHostIDs(ctx, s.db, identifier)
	if err != nil {
		return nil, NewStoreError(OpFindHosts, err)
	}
	return ids, nil
}

func (s *MySQLStore) findHostIDs(ctx context.Context, executor sqlExecutor, identifier []byte) ([]int64, error) {
	rows, err := s.query(ctx, executor, mysqlSelectHostIDs, identifier)
	if err != nil {
		return nil, errors.Wrap(err, "problem selecting hosts by identifier")
	}
	defer rows.Close()
	ids := []int64{}
	for rows.Next() {
		var id int64
		if err = rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "problem scanning host identifier")
		}
		ids = append(ids, id)
	}
	return ids, errors.Wrap(rows.Err(), "problem selecting hosts by identifier")
}

// Deletes the options of the host and the host.
func (s *MySQLStore) deleteHost(ctx context.Context, executor sqlExecutor, hostID int64) error {
	for _, query := range []string{mysqlDeleteDHCP4Options, mysqlDeleteDHCP6Options, mysqlDeleteHost} {
		if _, err := s.exec(ctx, executor, query, hostID); err != nil {
			return errors.Wrapf(err, "problem deleting host %d", hostID)
		}
	}
	return nil
}

// Runs the function in a transaction. The transaction is committed if
// the function returns no error and rolled back otherwise.
func (s *MySQLStore) inTransaction(ctx context.Context, f func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "problem starting database transaction")
	}
	if err = f(tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			log.WithError(rollbackErr).Warn("Failed to roll back the transaction")
		}
		return err
	}
	return errors.Wrap(tx.Commit(), "problem committing the transaction")
}

// Deletes the host and its options in a transaction.
func (s *MySQLStore) DeleteHost(ctx context.Context, hostID int64) error {
	err := s.inTransaction(ctx, func(tx *sql.Tx) error {
		return s.deleteHost(ctx, tx, hostID)
	})
	if err != nil {
		return NewStoreError(OpDeleteHost, err)
	}
	return nil
}

// Deletes the hosts with the same identifier and inserts the new host
// with its options in a single transaction. The new host identifier is
// set in the host.
func (s *MySQLStore) UpsertHost(ctx context.Context, host *Host) (int64, error) {
	var hostID int64
	err := s.inTransaction(ctx, func(tx *sql.Tx) error {
		ids, err := s.findHostIDs(ctx, tx, host.DHCPIdentifier)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if err = s.deleteHost(ctx, tx, id); err != nil {
				return err
			}
		}
		result, err := s.exec(ctx, tx, mysqlInsertHost,
			host.DHCPIdentifier, host.DHCPIdentifierType, host.DHCP4SubnetID, host.IPv4Address, host.Hostname)
		if err != nil {
			return errors.Wrapf(err, "problem inserting host %s", host.Hostname)
		}
		hostID, err = result.LastInsertId()
		if err != nil {
			return errors.Wrapf(err, "problem getting identifier of host %s", host.Hostname)
		}
		for _, option := range host.Options {
			if err = s.insertOption(ctx, tx, hostID, option); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, NewStoreError(OpUpsertHost, err)
	}
	host.ID = hostID
	return hostID, nil
}

func (s *MySQLStore) insertOption(ctx context.Context, executor sqlExecutor, hostID int64, option *keaconfig.Option) error {
	_, err := s.exec(ctx, executor, mysqlInsertOption, option.Code, option.Value, option.Space, hostID, option.Scope)
	return errors.Wrapf(err, "problem inserting option %d of host %d", option.Code, hostID)
}

// Inserts the option of the host. The foreign key constraint rejects
// the option of a nonexistent host.
func (s *MySQLStore) AttachOption(ctx context.Context, hostID int64, option *keaconfig.Option) error {
	if err := s.insertOption(ctx, s.db, hostID, option); err != nil {
		return NewStoreError(OpAttachOpt, err)
	}
	return nil
}

// Scanned columns of the host that may be NULL.
type mysqlHostColumns struct {
	identifierType sql.NullString
	subnetID       sql.NullInt64
	address        sql.NullInt64
	hostname       sql.NullString
}

func (c *mysqlHostColumns) destinations(host *Host) []any {
	return []any{&host.ID, &host.DHCPIdentifier, &c.identifierType, &c.subnetID, &c.address, &c.hostname}
}

func (c *mysqlHostColumns) apply(host *Host) {
	host.DHCPIdentifierType = c.identifierType.String
	host.DHCP4SubnetID = uint32(c.subnetID.Int64)
	host.IPv4Address = uint32(c.address.Int64)
	host.Hostname = c.hostname.String
}

// Returns all hosts ordered by identifier.
func (s *MySQLStore) ListHosts(ctx context.Context) ([]Host, error) {
	rows, err := s.query(ctx, s.db, mysqlSelectHosts)
	if err != nil {
		return nil, NewStoreError(OpListHosts, err)
	}
	defer rows.Close()
	hosts := []Host{}
	for rows.Next() {
		var (
			host    Host
			columns mysqlHostColumns
		)
		if err = rows.Scan(columns.destinations(&host)...); err != nil {
			return nil, NewStoreError(OpListHosts, err)
		}
		columns.apply(&host)
		hosts = append(hosts, host)
	}
	if err = rows.Err(); err != nil {
		return nil, NewStoreError(OpListHosts, err)
	}
	return hosts, nil
}

// Returns all hosts joined with their DHCPv4 options.
func (s *MySQLStore) ListHostsWithOptions(ctx context.Context) ([]HostOption, error) {
	rows, err := s.query(ctx, s.db, mysqlSelectHostsWithOptions)
	if err != nil {
		return nil, NewStoreError(OpListOptions, err)
	}
	defer rows.Close()
	hostOptions := []HostOption{}
	for rows.Next() {
		var (
			hostOption HostOption
			columns    mysqlHostColumns
			space      sql.NullString
		)
		destinations := append(columns.destinations(&hostOption.Host),
			&hostOption.Code, &hostOption.Value, &space, &hostOption.ScopeID)
		if err = rows.Scan(destinations...); err != nil {
			return nil, NewStoreError(OpListOptions, err)
		}
		columns.apply(&hostOption.Host)
		hostOption.Space = space.String
		hostOptions = append(hostOptions, hostOption)
	}
	if err = rows.Err(); err != nil {
		return nil, NewStoreError(OpListOptions, err)
	}
	return hostOptions, nil
}

// Closes the database handle.
func (s *MySQLStore) Close() error {
	if err := s.db.Close(); err != nil {
		return NewStoreError(OpClose, err)
	}
	return nil
}
