package migrator

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	dhcpdconfig "github.com/josh73/migrate-host-reservations-to-kea-mysql/appcfg/dhcpd"
	keaconfig "github.com/josh73/migrate-host-reservations-to-kea-mysql/appcfg/kea"
	dbmodel "github.com/josh73/migrate-host-reservations-to-kea-mysql/database/model"
)

// Default number of reservations migrated in a single chunk.
const DefaultChunkSize int64 = 100

// Parameters of the reservation migration.
type Settings struct {
	// Subnet the hosts are reserved in.
	SubnetID uint32
	// Kea scope of the host options.
	OptionScope string
	ChunkSize   int64
}

// Returns the default settings.
func NewSettings() Settings {
	return Settings{
		SubnetID:    dbmodel.DefaultSubnetID,
		OptionScope: keaconfig.DefaultOptionScope,
		ChunkSize:   DefaultChunkSize,
	}
}

// Checks if the settings are applicable.
func (s Settings) Validate() error {
	if _, ok := keaconfig.GetOptionScopeID(s.OptionScope); !ok {
		return errors.Errorf("unknown option scope: %s", s.OptionScope)
	}
	if s.ChunkSize <= 0 {
		return errors.Errorf("chunk size must be positive, got %d", s.ChunkSize)
	}
	return nil
}

type reservationMigrator struct {
	store        dbmodel.ReservationStore
	reservations []dhcpdconfig.Reservation
	items        []dhcpdconfig.Reservation
	offset       int64
	settings     Settings
	metrics      *Metrics
}

var _ Migrator = &reservationMigrator{}

// Creates a migrator upserting the reservations into the store. The
// metrics may be nil.
func NewReservationMigrator(store dbmodel.ReservationStore, reservations []dhcpdconfig.Reservation, settings Settings, metrics *Metrics) Migrator {
	if settings.ChunkSize <= 0 {
		settings.ChunkSize = DefaultChunkSize
	}
	return &reservationMigrator{
		store:        store,
		reservations: reservations,
		settings:     settings,
		metrics:      metrics,
	}
}

// Returns the number of reservations to migrate.
func (m *reservationMigrator) CountTotal() (int64, error) {
	return int64(len(m.reservations)), nil
}

// Selects the chunk of the reservations to migrate.
func (m *reservationMigrator) LoadItems(offset int64) (int64, error) {
	total := int64(len(m.reservations))
	if offset < 0 || offset > total {
		return 0, errors.Errorf("offset %d out of range [0, %d]", offset, total)
	}
	end := min(offset+m.settings.ChunkSize, total)
	m.items = m.reservations[offset:end]
	m.offset = offset
	return int64(len(m.items)), nil
}

// Migrates the loaded reservations in order. It stops at the first
// failure and returns it as a single-element slice.
func (m *reservationMigrator) Migrate(ctx context.Context) []MigrationError {
	for i, reservation := range m.items {
		if err := m.migrateReservation(ctx, reservation); err != nil {
			m.metrics.reservationProcessed(ResultFailed)
			log.WithError(err).WithField("host", reservation.Label()).Error("Failed to migrate reservation")
			return []MigrationError{{
				ID:    m.offset + int64(i) + 1,
				Label: reservation.Label(),
				Err:   err,
			}}
		}
		m.metrics.reservationProcessed(ResultMigrated)
	}
	return nil
}

// Upserts the host together with its options. The options are encoded
// before touching the store so an unsupported option leaves the prior
// host untouched.
func (m *reservationMigrator) migrateReservation(ctx context.Context, reservation dhcpdconfig.Reservation) error {
	var options []*keaconfig.Option
	for _, name := range reservation.OptionNames() {
		option, err := keaconfig.EncodeOption(name, reservation.Options[name])
		if err != nil {
			return err
		}
		option.Scope = m.settings.OptionScope
		options = append(options, option)
	}

	host, err := dbmodel.NewHostFromReservation(reservation, m.settings.SubnetID)
	if err != nil {
		return err
	}
	host.Options = options

	hostID, err := m.store.UpsertHost(ctx, host)
	if err != nil {
		return err
	}
	for _, option := range options {
		m.metrics.optionAttached(option.Name)
	}

	log.WithFields(log.Fields{
		"host":    reservation.Label(),
		"id":      hostID,
		"ipv4":    reservation.IPv4,
		"options": len(options),
	}).Info("Migrated reservation")
	return nil
}
