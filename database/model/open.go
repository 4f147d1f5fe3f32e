package dbmodel

import (
	"context"

	"github.com/pkg/errors"

	dbops "github.com/josh73/migrate-host-reservations-to-kea-mysql/database"
)

// Connects to the Kea host database and returns the store matching the
// database backend.
func OpenStore(ctx context.Context, settings *dbops.DatabaseSettings) (ReservationStore, error) {
	switch settings.Backend {
	case dbops.MySQLBackend:
		db, err := dbops.NewMySQLConn(ctx, settings)
		if err != nil {
			return nil, err
		}
		return NewMySQLStore(db, settings.TraceSQL), nil
	case dbops.PostgreSQLBackend:
		db, err := dbops.NewPgConn(ctx, settings)
		if err != nil {
			return nil, err
		}
		return NewPgStore(db), nil
	default:
		return nil, errors.Errorf("unsupported database backend: %s", settings.Backend)
	}
}
