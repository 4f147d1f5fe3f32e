package migrator

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Summary of the finished or interrupted migration.
type MigrationStatus struct {
	// Total number of items to migrate.
	Total int64
	// Number of the successfully migrated items.
	Migrated int64
	Elapsed  time.Duration
}

// Runs the migration chunk by chunk. The migration stops at the first
// failed item; the items migrated before remain in the store. The
// failure is returned as *MigrationError. The returned status is never
// nil.
func RunMigration(ctx context.Context, migrator Migrator) (*MigrationStatus, error) {
	startedAt := time.Now()
	status := &MigrationStatus{}
	defer func() {
		status.Elapsed = time.Since(startedAt)
	}()

	total, err := migrator.CountTotal()
	if err != nil {
		return status, errors.WithMessage(err, "failed to count items to migrate")
	}
	status.Total = total

	for {
		if err := ctx.Err(); err != nil {
			return status, errors.Wrap(err, "migration interrupted")
		}

		loadedCount, err := migrator.LoadItems(status.Migrated)
		if err != nil {
			return status, errors.WithMessage(err, "failed to load items to migrate")
		}

		if loadedCount == 0 {
			// No more items to migrate.
			break
		}

		errs := migrator.Migrate(ctx)
		if len(errs) > 0 {
			failure := errs[0]
			// The items preceding the failed one have been migrated.
			if failure.ID > status.Migrated {
				status.Migrated = failure.ID - 1
			}
			return status, &failure
		}

		status.Migrated += loadedCount
		log.WithFields(log.Fields{
			"migrated": status.Migrated,
			"total":    status.Total,
		}).Debug("Migrated chunk of items")
	}

	return status, nil
}
