package dbops

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-pg/pg/v10"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var (
	// Opens the database/sql handle. Replaced in the unit tests.
	sqlOpen = sql.Open
	// Number of the connection attempts.
	connectionRetries = 10
	// Interval between the connection attempts.
	connectionRetryInterval = 2 * time.Second
)

// Checks if the database is available. The check is repeated a few times
// to tolerate a database that is still starting up.
func waitForConnection(ctx context.Context, ping func(context.Context) error) error {
	var err error
	for tries := 0; tries < connectionRetries; tries++ {
		if err = ping(ctx); err == nil {
			return nil
		}
		log.WithError(err).WithField("attempt", tries+1).Debug("Database is not available yet")
		if tries+1 == connectionRetries {
			break
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "interrupted while connecting to the database")
		case <-time.After(connectionRetryInterval):
		}
	}
	return errors.Wrapf(err, "unable to connect to the database using provided credentials")
}

// Connects to the Kea MySQL host database.
func NewMySQLConn(ctx context.Context, settings *DatabaseSettings) (*sql.DB, error) {
	db, err := sqlOpen("mysql", settings.MySQLConfig().FormatDSN())
	if err != nil {
		return nil, errors.Wrapf(err, "invalid MySQL database settings: %s", settings)
	}
	if err = waitForConnection(ctx, db.PingContext); err != nil {
		db.Close()
		return nil, err
	}
	log.WithField("database", settings.String()).Info("Connected to the Kea host database")
	return db, nil
}

// Connects to the Kea PostgreSQL host database.
func NewPgConn(ctx context.Context, settings *DatabaseSettings) (*pg.DB, error) {
	db := pg.Connect(settings.PgOptions())
	err := waitForConnection(ctx, func(ctx context.Context) error {
		var n int
		_, err := db.QueryOneContext(ctx, pg.Scan(&n), "SELECT 1")
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	if settings.TraceSQL {
		db.AddQueryHook(DBLogger{})
	}
	log.WithField("database", settings.String()).Info("Connected to the Kea host database")
	return db, nil
}
