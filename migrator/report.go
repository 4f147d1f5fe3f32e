package migrator

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	keaconfig "github.com/josh73/migrate-host-reservations-to-kea-mysql/appcfg/kea"
	dbmodel "github.com/josh73/migrate-host-reservations-to-kea-mysql/database/model"
	migrateutil "github.com/josh73/migrate-host-reservations-to-kea-mysql/util"
)

// Formats the option value for the report. The options known to the
// standard lookup are shown as the address lists; the others as hex.
func formatOptionValue(hostOption dbmodel.HostOption, scope string) (string, string) {
	name, addresses, err := keaconfig.DecodeOption(hostOption.Code, hostOption.Value, hostOption.Space, scope)
	if err != nil {
		var unsupportedErr *keaconfig.UnsupportedOptionError
		if !errors.As(err, &unsupportedErr) {
			log.WithError(err).WithField("host", hostOption.ID).Warn("Failed to decode option value")
		}
		return strconv.Itoa(int(hostOption.Code)), "0x" + migrateutil.BytesToHex(hostOption.Value)
	}
	return name, strings.Join(addresses, ",")
}

// Prints the hosts table and the hosts joined with their options.
func Report(ctx context.Context, store dbmodel.ReservationStore, w io.Writer) error {
	hosts, err := store.ListHosts(ctx)
	if err != nil {
		return err
	}
	hostOptions, err := store.ListHostsWithOptions(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "Hosts Table")
	fmt.Fprintln(tw, "HOST ID\tMAC\tSUBNET ID\tIPV4\tHOSTNAME")
	for _, host := range hosts {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n",
			host.ID, host.MAC(), host.DHCP4SubnetID, host.IPv4(), host.Hostname)
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "Options Table")
	fmt.Fprintln(tw, "HOST ID\tMAC\tIPV4\tCODE\tSPACE\tSCOPE\tHOSTNAME\tOPTION\tVALUE")
	for _, hostOption := range hostOptions {
		scope, ok := keaconfig.GetOptionScopeName(hostOption.ScopeID)
		if !ok {
			scope = strconv.Itoa(hostOption.ScopeID)
		}
		name, value := formatOptionValue(hostOption, scope)
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			hostOption.ID, hostOption.MAC(), hostOption.IPv4(), hostOption.Code,
			hostOption.Space, scope, hostOption.Hostname, name, value)
	}

	if err := tw.Flush(); err != nil {
		return errors.Wrap(err, "failed to print report")
	}
	return nil
}
