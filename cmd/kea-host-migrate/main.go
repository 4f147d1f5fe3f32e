package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"reflect"
	"strconv"
	"syscall"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	keamigrate "github.com/josh73/migrate-host-reservations-to-kea-mysql"
	dbops "github.com/josh73/migrate-host-reservations-to-kea-mysql/database"
	dbmodel "github.com/josh73/migrate-host-reservations-to-kea-mysql/database/model"
	"github.com/josh73/migrate-host-reservations-to-kea-mysql/migrator"
	migrateutil "github.com/josh73/migrate-host-reservations-to-kea-mysql/util"
)

// Connects to the host database. Replaced in the unit tests.
var openStore = dbmodel.OpenStore

// An error of the command printed as: label: kind: message.
type commandError struct {
	label string
	err   error
}

// Creates new command error.
func newCommandError(label string, err error) error {
	return &commandError{label: label, err: err}
}

// Returns error string.
func (e commandError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.label, migrator.ErrorKind(e.err), e.err)
}

// Returns the underlying error.
func (e commandError) Unwrap() error {
	return e.err
}

// Checks the number of the positional arguments.
func checkArgs(c *cli.Context, expected int) error {
	if c.NArg() != expected {
		return newCommandError(c.Command.Name, errors.Errorf(
			"expected %d argument(s), got %d; usage: %s", expected, c.NArg(), c.Command.UsageText,
		))
	}
	return nil
}

// Checks if the input file exists.
func checkInputFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return newCommandError(path, errors.New("can't find file"))
	}
	if info.IsDir() {
		return newCommandError(path, errors.New("is a directory"))
	}
	return nil
}

// Reads the database settings from the layers: the defaults, the YAML
// configuration file, the environment variables and the CLI flags.
func getDatabaseSettings(c *cli.Context) (*dbops.DatabaseSettings, error) {
	flags := dbops.NewDatabaseCLIFlags()
	if path := c.String("db-config"); path != "" {
		if err := flags.ReadFromConfigFile(path); err != nil {
			return nil, err
		}
	}
	if err := flags.ReadFromEnvironment(); err != nil {
		return nil, err
	}
	if err := flags.ReadFromCLI(c); err != nil {
		return nil, err
	}
	settings, err := flags.ConvertToDatabaseSettings()
	if err != nil {
		return nil, err
	}
	if err = dbops.PromptPassword(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// Opens the host database according to the settings from the command.
// The store must be closed by the caller.
func getStore(c *cli.Context) (dbmodel.ReservationStore, error) {
	settings, err := getDatabaseSettings(c)
	if err != nil {
		return nil, newCommandError("database", err)
	}
	log.WithField("database", settings.String()).Info("Connecting to the host database")
	store, err := openStore(c.Context, settings)
	if err != nil {
		return nil, newCommandError("database", err)
	}
	return store, nil
}

// Reads the migration settings from the command flags.
func getMigrationSettings(c *cli.Context) (migrator.Settings, error) {
	settings := migrator.NewSettings()
	subnetID := c.Uint64("subnet-id")
	if subnetID > math.MaxUint32 {
		return settings, errors.Errorf("subnet identifier %d is out of range", subnetID)
	}
	settings.SubnetID = uint32(subnetID)
	settings.OptionScope = c.String("option-scope")
	settings.ChunkSize = c.Int64("chunk-size")
	return settings, settings.Validate()
}

// Execute extract command. It parses the dhcpd configuration, writes the
// exchange file and prints the extracted rows.
func runExtract(c *cli.Context) error {
	if err := checkArgs(c, 2); err != nil {
		return err
	}
	configPath, csvPath := c.Args().Get(0), c.Args().Get(1)
	if err := checkInputFile(configPath); err != nil {
		return err
	}
	reservations, err := migrator.Extract(configPath, csvPath)
	if err != nil {
		return newCommandError(configPath, err)
	}
	return migrator.PrintReservations(c.App.Writer, reservations)
}

// Execute load command. It upserts the reservations from the exchange
// file into the host database and prints the report.
func runLoad(c *cli.Context) (err error) {
	if err = checkArgs(c, 1); err != nil {
		return err
	}
	csvPath := c.Args().Get(0)
	if err = checkInputFile(csvPath); err != nil {
		return err
	}
	settings, err := getMigrationSettings(c)
	if err != nil {
		return newCommandError(c.Command.Name, err)
	}

	store, err := getStore(c)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil && err == nil {
			err = newCommandError("database", closeErr)
		}
	}()

	metrics := migrator.NewMetrics()
	_, err = migrator.Load(c.Context, store, csvPath, settings, metrics)
	if textfile := c.String("metrics-textfile"); textfile != "" {
		if metricsErr := metrics.WriteToTextfile(textfile); metricsErr != nil {
			log.WithError(metricsErr).Warn("Failed to export the migration metrics")
		}
	}
	if err != nil {
		var migrationErr *migrator.MigrationError
		if errors.As(err, &migrationErr) {
			return migrationErr
		}
		return newCommandError(csvPath, err)
	}

	if err = migrator.Report(c.Context, store, c.App.Writer); err != nil {
		return newCommandError("database", err)
	}
	return nil
}

// Execute report command. It prints the hosts and their options.
func runReport(c *cli.Context) (err error) {
	if err = checkArgs(c, 0); err != nil {
		return err
	}
	store, err := getStore(c)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil && err == nil {
			err = newCommandError("database", closeErr)
		}
	}()
	if err = migrator.Report(c.Context, store, c.App.Writer); err != nil {
		return newCommandError("database", err)
	}
	return nil
}

// Parse the general flag definitions into the objects compatible with the CLI library.
func parseFlagDefinitions(flagDefinitions []*dbops.CLIFlagDefinition) ([]cli.Flag, error) {
	var flags []cli.Flag
	for _, definition := range flagDefinitions {
		var flag cli.Flag

		var aliases []string
		if definition.Short != "" {
			aliases = append(aliases, definition.Short)
		}

		var envVars []string
		if definition.EnvironmentVariable != "" {
			envVars = append(envVars, definition.EnvironmentVariable)
		}

		switch definition.Kind {
		case reflect.Int:
			valueInt, err := strconv.ParseInt(definition.Default, 10, 0)
			if err != nil {
				return nil, errors.Wrapf(
					err, "invalid default value ('%s') for parameter ('%s')",
					definition.Default, definition.Long,
				)
			}

			flag = &cli.Int64Flag{
				Name:    definition.Long,
				Aliases: aliases,
				Usage:   definition.Description,
				EnvVars: envVars,
				Value:   valueInt,
			}
		case reflect.Bool:
			valueBool, err := strconv.ParseBool(definition.Default)
			if err != nil {
				return nil, errors.Wrapf(
					err, "invalid default value ('%s') for parameter ('%s')",
					definition.Default, definition.Long,
				)
			}

			flag = &cli.BoolFlag{
				Name:    definition.Long,
				Aliases: aliases,
				Usage:   definition.Description,
				EnvVars: envVars,
				Value:   valueBool,
			}
		default:
			flag = &cli.StringFlag{
				Name:    definition.Long,
				Aliases: aliases,
				Usage:   definition.Description,
				EnvVars: envVars,
				Value:   definition.Default,
			}
		}

		flags = append(flags, flag)
	}

	return flags, nil
}

// Prepare urfave cli app with all flags and commands defined.
func setupApp() *cli.App {
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Fprintln(c.App.Writer, c.App.Version)
	}

	dbFlags, err := parseFlagDefinitions((*dbops.DatabaseCLIFlags)(nil).ConvertToCLIFlagDefinitions())
	if err != nil {
		log.WithError(err).Fatal("Invalid database CLI flag definitions")
	}
	dbFlags = append(dbFlags, &cli.PathFlag{
		Name:    "db-config",
		Usage:   "YAML file with the 'db' section holding the database connection settings; the environment variables and flags take precedence",
		EnvVars: []string{"KEA_MIGRATE_DATABASE_CONFIG"},
	})

	var loadFlags []cli.Flag
	loadFlags = append(loadFlags, dbFlags...)
	loadFlags = append(loadFlags,
		&cli.Uint64Flag{
			Name:    "subnet-id",
			Usage:   "The Kea subnet identifier the hosts are reserved in",
			Value:   uint64(dbmodel.DefaultSubnetID),
			EnvVars: []string{"KEA_MIGRATE_SUBNET_ID"},
		},
		&cli.StringFlag{
			Name:    "option-scope",
			Usage:   "The Kea scope of the host options: global, subnet, client-class, host or shared-network",
			Value:   migrator.NewSettings().OptionScope,
			EnvVars: []string{"KEA_MIGRATE_OPTION_SCOPE"},
		},
		&cli.Int64Flag{
			Name:    "chunk-size",
			Usage:   "The number of reservations loaded at once",
			Value:   migrator.DefaultChunkSize,
			EnvVars: []string{"KEA_MIGRATE_CHUNK_SIZE"},
		},
		&cli.PathFlag{
			Name:    "metrics-textfile",
			Usage:   "Write the migration counters in the Prometheus text format to this file",
			EnvVars: []string{"KEA_MIGRATE_METRICS_TEXTFILE"},
		})

	app := &cli.App{
		Name:  "kea-host-migrate",
		Usage: "A tool for migrating the ISC DHCP host reservations to the Kea host database",
		Description: `The tool works in two steps:

   - extract - reads the host blocks from the dhcpd configuration and
     writes them to the CSV exchange file;

   - load - upserts the reservations from the exchange file into the Kea
     host database (MySQL or PostgreSQL) and prints the resulting hosts.

The logging level is specified using the KEA_MIGRATE_LOG_LEVEL environment
variable only. Allowed values are: DEBUG, INFO, WARN, ERROR.`,
		Version:  keamigrate.Version,
		HelpName: "kea-host-migrate",
		Flags: []cli.Flag{
			&cli.PathFlag{
				Name:  "env-file",
				Usage: "Read the environment variables from the environment file",
			},
		},
		Before: func(c *cli.Context) error {
			if !c.IsSet("env-file") {
				return nil
			}
			err := migrateutil.LoadEnvironmentFileToSetter(
				c.Path("env-file"),
				migrateutil.NewProcessEnvironmentVariableSetter(),
			)
			if err != nil {
				return errors.WithMessagef(err, "the '%s' environment file is invalid", c.Path("env-file"))
			}
			// Reconfigures logging using new environment variables.
			migrateutil.SetupLogging()
			return nil
		},
		// The errors are printed by the caller.
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			{
				Name:      "extract",
				Usage:     "Extract the host reservations from the dhcpd configuration to the CSV file",
				UsageText: "kea-host-migrate extract <config-file> <csv-file>",
				Action:    runExtract,
			},
			{
				Name:      "load",
				Usage:     "Load the host reservations from the CSV file into the Kea host database",
				UsageText: "kea-host-migrate load [options] <csv-file>",
				Flags:     loadFlags,
				Action:    runLoad,
			},
			{
				Name:      "report",
				Usage:     "Print the hosts and their options stored in the Kea host database",
				UsageText: "kea-host-migrate report [options]",
				Flags:     dbFlags,
				Action:    runReport,
			},
		},
	}

	return app
}

// Runs the application and returns the process exit code.
func run(ctx context.Context, app *cli.App, args []string) int {
	if err := app.RunContext(ctx, args); err != nil {
		fmt.Fprintln(app.ErrWriter, err)
		return 1
	}
	return 0
}

func main() {
	// Setup logging
	migrateutil.SetupLogging()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, setupApp(), os.Args)
	stop()
	os.Exit(code)
}
