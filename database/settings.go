package dbops

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/go-pg/pg/v10"
	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

// Kea host database backend.
type DatabaseBackend string

// Supported Kea host database backends.
const (
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
)

// Default ports of the database backends.
const (
	DefaultMySQLPort      = 3306
	DefaultPostgreSQLPort = 5432
)

// Parses the backend name. The "postgres" and "pgsql" aliases are
// accepted as used in the Kea configuration.
func ParseDatabaseBackend(name string) (DatabaseBackend, error) {
	switch name {
	case "", string(MySQLBackend):
		return MySQLBackend, nil
	case string(PostgreSQLBackend), "postgres", "pgsql":
		return PostgreSQLBackend, nil
	default:
		return "", errors.Errorf("unsupported database backend: %s", name)
	}
}

// Database connection settings.
type DatabaseSettings struct {
	Backend      DatabaseBackend
	DBName       string
	User         string
	Password     string
	Host         string
	Port         int
	TraceSQL     bool
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Returns the port, or the default port of the backend if the port was
// not specified.
func (s *DatabaseSettings) GetPort() int {
	if s.Port != 0 {
		return s.Port
	}
	if s.Backend == PostgreSQLBackend {
		return DefaultPostgreSQLPort
	}
	return DefaultMySQLPort
}

// Returns the database address in the host:port form.
func (s *DatabaseSettings) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.GetPort()))
}

// Returns the description of the database suitable for logging. The
// password is never included.
func (s *DatabaseSettings) String() string {
	return fmt.Sprintf("%s://%s@%s/%s", s.Backend, s.User, s.Address(), s.DBName)
}

// Converts the settings to the MySQL driver configuration.
func (s *DatabaseSettings) MySQLConfig() *mysql.Config {
	config := mysql.NewConfig()
	config.User = s.User
	config.Passwd = s.Password
	config.Net = "tcp"
	config.Addr = s.Address()
	config.DBName = s.DBName
	config.ReadTimeout = s.ReadTimeout
	config.WriteTimeout = s.WriteTimeout
	config.ParseTime = true
	return config
}

// Converts the settings to the go-pg options.
func (s *DatabaseSettings) PgOptions() *pg.Options {
	return &pg.Options{
		Addr:         s.Address(),
		User:         s.User,
		Password:     s.Password,
		Database:     s.DBName,
		ReadTimeout:  s.ReadTimeout,
		WriteTimeout: s.WriteTimeout,
	}
}

// Prompts the user for the database password if it was not specified
// and the standard input is a terminal.
func PromptPassword(settings *DatabaseSettings) error {
	if settings.Password != "" {
		return nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil
	}
	fmt.Fprintf(os.Stderr, "database password for %s: ", settings.User)
	pass, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return errors.Wrap(err, "failed to read the database password")
	}
	settings.Password = string(pass)
	return nil
}
