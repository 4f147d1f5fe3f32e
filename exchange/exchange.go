// Package exchange implements the intermediate CSV file holding the
// reservations extracted from the dhcpd configuration. Each row has the
// following layout:
//
//	hostname,mac,ipv4[,option-name,option-value]*
//
// The options are written sorted by name. Fields containing commas are
// quoted.
package exchange

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	errors "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	dhcpdconfig "github.com/josh73/migrate-host-reservations-to-kea-mysql/appcfg/dhcpd"
	migrateutil "github.com/josh73/migrate-host-reservations-to-kea-mysql/util"
)

// Number of the leading fields in each row.
const fixedFieldCount = 3

// Kind of the value reported in the FormatError for malformed rows.
const RowKind = "exchange row"

// An error returned when a row of the exchange file is malformed. It
// wraps the FormatError describing the problem.
type RowError struct {
	Line int
	Err  error
}

// Returns error string.
func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Err)
}

// Returns the underlying error.
func (e RowError) Unwrap() error {
	return e.Err
}

// Writes the reservations as CSV rows.
type Writer struct {
	csv *csv.Writer
}

// Creates new writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// Converts the reservation to the list of fields.
func Fields(reservation dhcpdconfig.Reservation) []string {
	fields := []string{reservation.Hostname, reservation.MAC, reservation.IPv4}
	for _, name := range reservation.OptionNames() {
		fields = append(fields, name, reservation.Options[name])
	}
	return fields
}

// Writes a single reservation.
func (w *Writer) Write(reservation dhcpdconfig.Reservation) error {
	if err := w.csv.Write(Fields(reservation)); err != nil {
		return errors.Wrapf(err, "failed to write reservation %s", reservation.Label())
	}
	return nil
}

// Flushes the buffered rows and returns the first write error if any.
func (w *Writer) Flush() error {
	w.csv.Flush()
	return errors.Wrap(w.csv.Error(), "failed to flush exchange file")
}

// Writes all reservations to the file. The file is truncated if it
// exists.
func WriteFile(path string, reservations []dhcpdconfig.Reservation) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create exchange file: %s", path)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = errors.Wrapf(closeErr, "failed to close exchange file: %s", path)
		}
	}()
	writer := NewWriter(file)
	for _, reservation := range reservations {
		if err = writer.Write(reservation); err != nil {
			return err
		}
	}
	if err = writer.Flush(); err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"file":         path,
		"reservations": len(reservations),
	}).Info("Wrote exchange file")
	return nil
}

// Reads the reservations from the CSV rows.
type Reader struct {
	csv *csv.Reader
}

// Creates new reader. The rows may have a variable number of fields.
func NewReader(r io.Reader) *Reader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return &Reader{csv: reader}
}

// Reads the next reservation. It returns io.EOF when there are no more
// rows.
func (r *Reader) Read() (*dhcpdconfig.Reservation, error) {
	fields, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return nil, &RowError{
				Line: parseErr.StartLine,
				Err:  migrateutil.NewFormatError(RowKind, "", parseErr.Err.Error()),
			}
		}
		return nil, errors.Wrap(err, "failed to read exchange file")
	}
	line, _ := r.csv.FieldPos(0)
	return parseFields(line, fields)
}

// Creates the reservation from the row fields.
func parseFields(line int, fields []string) (*dhcpdconfig.Reservation, error) {
	if len(fields) < fixedFieldCount {
		return nil, &RowError{
			Line: line,
			Err: migrateutil.NewFormatError(RowKind, strings.Join(fields, ","),
				fmt.Sprintf("expected at least %d fields, got %d", fixedFieldCount, len(fields))),
		}
	}
	// Trailing empty columns, e.g., exported from a spreadsheet.
	for len(fields) > fixedFieldCount && fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}
	if (len(fields)-fixedFieldCount)%2 != 0 {
		return nil, &RowError{
			Line: line,
			Err:  migrateutil.NewFormatError(RowKind, strings.Join(fields, ","), "option name without a value"),
		}
	}
	mac, err := migrateutil.NormalizeMAC(fields[1])
	if err != nil {
		return nil, &RowError{Line: line, Err: err}
	}
	ip, err := migrateutil.IPToInteger(fields[2])
	if err != nil {
		return nil, &RowError{Line: line, Err: err}
	}
	reservation := &dhcpdconfig.Reservation{
		Hostname: fields[0],
		MAC:      mac,
		IPv4:     migrateutil.IntegerToIP(ip),
		Options:  make(map[string]string),
	}
	for i := fixedFieldCount; i < len(fields); i += 2 {
		name, value := fields[i], fields[i+1]
		if name == "" {
			if value != "" {
				return nil, &RowError{
					Line: line,
					Err:  migrateutil.NewFormatError(RowKind, strings.Join(fields, ","), "option value without a name"),
				}
			}
			continue
		}
		reservation.Options[name] = value
	}
	return reservation, nil
}

// Reads all reservations from the file.
func ReadFile(path string) ([]dhcpdconfig.Reservation, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open exchange file: %s", path)
	}
	defer file.Close()

	reservations := []dhcpdconfig.Reservation{}
	reader := NewReader(file)
	for {
		reservation, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.WithMessagef(err, "failed to parse exchange file %s", path)
		}
		reservations = append(reservations, *reservation)
	}
	return reservations, nil
}
