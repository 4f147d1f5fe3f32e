// Package migrator drives the migration of the host reservations from
// the ISC DHCP server configuration to the Kea host database.
package migrator

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	dhcpdconfig "github.com/josh73/migrate-host-reservations-to-kea-mysql/appcfg/dhcpd"
	keaconfig "github.com/josh73/migrate-host-reservations-to-kea-mysql/appcfg/kea"
	dbmodel "github.com/josh73/migrate-host-reservations-to-kea-mysql/database/model"
	migrateutil "github.com/josh73/migrate-host-reservations-to-kea-mysql/util"
)

// Migrates the items in chunks. The items are loaded by the LoadItems
// call and migrated by the following Migrate call.
type Migrator interface {
	// Returns the total number of items to migrate.
	CountTotal() (int64, error)
	// Loads a chunk of items starting at the offset. Returns the number
	// of loaded items; zero means there is nothing left.
	LoadItems(offset int64) (int64, error)
	// Migrates the loaded items.
	Migrate(ctx context.Context) []MigrationError
}

// Kinds of the migration errors.
const (
	ErrorKindFormat            = "format error"
	ErrorKindMissingField      = "missing field"
	ErrorKindUnsupportedOption = "unsupported option"
	ErrorKindStore             = "store error"
	ErrorKindParse             = "parse error"
	ErrorKindOther             = "error"
)

// Returns the kind of the error used in the reports. The more specific
// kinds are checked first, e.g., a malformed option value is a format
// error although it is wrapped by the option encoder.
func ErrorKind(err error) string {
	var (
		unsupportedErr *keaconfig.UnsupportedOptionError
		missingErr     *dhcpdconfig.MissingFieldError
		formatErr      *migrateutil.FormatError
		parseErr       *dhcpdconfig.ParseError
		storeErr       *dbmodel.StoreError
	)
	switch {
	case errors.As(err, &unsupportedErr):
		return ErrorKindUnsupportedOption
	case errors.As(err, &missingErr):
		return ErrorKindMissingField
	case errors.As(err, &formatErr):
		return ErrorKindFormat
	case errors.As(err, &parseErr):
		return ErrorKindParse
	case errors.As(err, &storeErr):
		return ErrorKindStore
	default:
		return ErrorKindOther
	}
}

// A failure of migrating a single item.
type MigrationError struct {
	// Ordinal number of the item (1-based).
	ID int64
	// Human readable item identification, e.g., "printer1 (00:1a:...)".
	Label string
	Err   error
}

// Returns error string in the form: label: kind: message.
func (e MigrationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Label, ErrorKind(e.Err), e.Err)
}

// Returns the underlying error.
func (e MigrationError) Unwrap() error {
	return e.Err
}
