package migrator

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	dhcpdconfig "github.com/josh73/migrate-host-reservations-to-kea-mysql/appcfg/dhcpd"
	"github.com/josh73/migrate-host-reservations-to-kea-mysql/exchange"
)

// Extracts the host reservations from the dhcpd configuration file and
// writes them to the exchange file. Nothing is written if the
// configuration cannot be parsed.
func Extract(configPath, csvPath string) ([]dhcpdconfig.Reservation, error) {
	reservations, err := dhcpdconfig.NewParser().ParseFile(configPath)
	if err != nil {
		return nil, err
	}
	if err := exchange.WriteFile(csvPath, reservations); err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"config":       configPath,
		"reservations": len(reservations),
	}).Info("Extracted host reservations")
	return reservations, nil
}

// Prints the extracted reservations one per line, with the fields in
// the exchange file order.
func PrintReservations(w io.Writer, reservations []dhcpdconfig.Reservation) error {
	for _, reservation := range reservations {
		if _, err := fmt.Fprintln(w, strings.Join(exchange.Fields(reservation), "\t")); err != nil {
			return errors.Wrap(err, "failed to print reservations")
		}
	}
	return nil
}
