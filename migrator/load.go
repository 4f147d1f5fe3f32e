package migrator

import (
	"context"

	log "github.com/sirupsen/logrus"

	dbmodel "github.com/josh73/migrate-host-reservations-to-kea-mysql/database/model"
	"github.com/josh73/migrate-host-reservations-to-kea-mysql/exchange"
)

// Reads the whole exchange file and upserts the reservations into the
// store. A malformed file is rejected before any store operation.
func Load(ctx context.Context, store dbmodel.ReservationStore, csvPath string, settings Settings, metrics *Metrics) (*MigrationStatus, error) {
	if err := settings.Validate(); err != nil {
		return &MigrationStatus{}, err
	}

	reservations, err := exchange.ReadFile(csvPath)
	if err != nil {
		return &MigrationStatus{}, err
	}

	status, err := RunMigration(ctx, NewReservationMigrator(store, reservations, settings, metrics))

	fields := log.Fields{
		"file":     csvPath,
		"migrated": status.Migrated,
		"total":    status.Total,
		"elapsed":  status.Elapsed,
	}
	if err != nil {
		log.WithFields(fields).Warn("Migration stopped")
		return status, err
	}
	log.WithFields(fields).Info("Migration completed")
	return status, nil
}
