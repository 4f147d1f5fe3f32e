// The package provides a set of utilities to read the Kea host database
// settings from the struct tags defaults, the YAML configuration file,
// the environment variables and the CLI flags, and to connect to the
// database using these settings.
package dbops

import (
	"os"
	"reflect"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// Iterates over the struct fields. Nested structures are flattened
// (breadth-first) and the callback is called for the leaf members only.
// If the object is a nil pointer, the value passed to the callback is
// invalid.
func iterateOverFields(obj any, f func(field reflect.StructField, valueField reflect.Value)) {
	type fieldValuePair struct {
		field reflect.StructField
		value reflect.Value
	}

	v := reflect.ValueOf(obj).Elem()
	vType := reflect.TypeOf(obj).Elem()

	var fieldQueue []fieldValuePair
	for i := 0; i < vType.NumField(); i++ {
		var valueField reflect.Value
		if v.IsValid() {
			valueField = v.Field(i)
		}
		fieldQueue = append(fieldQueue, fieldValuePair{
			field: vType.Field(i),
			value: valueField,
		})
	}

	for len(fieldQueue) != 0 {
		pair := fieldQueue[0]
		fieldQueue = fieldQueue[1:]

		fieldType := pair.field.Type
		if fieldType.Kind() == reflect.Struct {
			for i := 0; i < fieldType.NumField(); i++ {
				var valueField reflect.Value
				if v.IsValid() {
					valueField = pair.value.Field(i)
				}
				fieldQueue = append(fieldQueue, fieldValuePair{
					field: fieldType.Field(i),
					value: valueField,
				})
			}
			continue
		}
		f(pair.field, pair.value)
	}
}

// Sets the members using the keys from the member tags and the external
// value lookup. The values that cannot be parsed are reported as errors.
func setFieldsBasedOnTags(obj any, tagName string, valueLookup func(string) (string, bool)) error {
	var firstErr error
	iterateOverFields(obj, func(field reflect.StructField, valueField reflect.Value) {
		if firstErr != nil {
			return
		}
		key, ok := field.Tag.Lookup(tagName)
		if !ok {
			return
		}
		value, ok := valueLookup(key)
		if !ok {
			return
		}
		switch field.Type.Kind() {
		case reflect.Int64:
			if field.Type.AssignableTo(reflect.TypeOf(time.Duration(0))) {
				duration, err := time.ParseDuration(value)
				if err != nil {
					firstErr = errors.Wrapf(err, "invalid duration '%s' for %s", value, key)
					return
				}
				valueField.SetInt(int64(duration))
			}
		case reflect.String:
			valueField.SetString(value)
		case reflect.Int:
			valueInt, err := strconv.ParseInt(value, 10, 0)
			if err != nil {
				firstErr = errors.Wrapf(err, "invalid number '%s' for %s", value, key)
				return
			}
			valueField.SetInt(valueInt)
		case reflect.Bool:
			valueBool, err := strconv.ParseBool(value)
			if err != nil {
				firstErr = errors.Wrapf(err, "invalid boolean '%s' for %s", value, key)
				return
			}
			valueField.SetBool(valueBool)
		default:
			// Skip an unsupported field.
		}
	})
	return firstErr
}

// Sets the member values to the defaults specified in the 'default'
// struct tags.
func setDefaults(obj any) error {
	return setFieldsBasedOnTags(obj, "default", func(value string) (string, bool) {
		return value, true
	})
}

// Reads the member values from the environment variables. The related
// environment variable name is read from the 'env' struct tag.
func readFromEnvironment(obj any) error {
	return setFieldsBasedOnTags(obj, "env", os.LookupEnv)
}

// The lookup object to read the CLI values from the external source.
type CLILookup interface {
	IsSet(key string) bool
	String(key string) string
}

// Reads the member values from the CLI flags using the external CLI
// lookup. Only the explicitly set flags are read, so the values from the
// lower layers (defaults, configuration file) are not overridden by the
// flag defaults. The flag names are read from the 'long' struct tag.
func readFromCLI(obj any, lookup CLILookup) error {
	return setFieldsBasedOnTags(obj, "long", func(key string) (string, bool) {
		if lookup.IsSet(key) {
			return lookup.String(key), true
		}
		return "", false
	})
}

// The definition of the CLI flag read from the struct tags.
type CLIFlagDefinition struct {
	Short               string
	Long                string
	Description         string
	EnvironmentVariable string
	Default             string
	Kind                reflect.Kind
}

// Reads the CLI flags metadata from the struct tags. It must be safe for
// nil pointers.
func convertToCLIFlagDefinitions(obj any) []*CLIFlagDefinition {
	var flags []*CLIFlagDefinition
	iterateOverFields(obj, func(field reflect.StructField, _ reflect.Value) {
		long, ok := field.Tag.Lookup("long")
		if !ok {
			return
		}
		flags = append(flags, &CLIFlagDefinition{
			Short:               field.Tag.Get("short"),
			Long:                long,
			Description:         field.Tag.Get("description"),
			EnvironmentVariable: field.Tag.Get("env"),
			Default:             field.Tag.Get("default"),
			Kind:                field.Type.Kind(),
		})
	})
	return flags
}

// General definition of the CLI flags used to connect to the Kea host
// database.
type DatabaseCLIFlags struct {
	Backend      string        `short:"b" long:"db-backend" description:"The Kea host database backend: mysql or postgresql" env:"KEA_MIGRATE_DATABASE_BACKEND" default:"mysql"`
	DBName       string        `short:"d" long:"db-name" description:"The name of the database to connect to" env:"KEA_MIGRATE_DATABASE_NAME" default:"kea"`
	User         string        `short:"u" long:"db-user" description:"The user name to be used for database connections" env:"KEA_MIGRATE_DATABASE_USER" default:"kea"`
	Password     string        `long:"db-password" description:"The database password; it is recommended to provide this value using an environment variable or leave it empty to type it in the safe prompt" env:"KEA_MIGRATE_DATABASE_PASSWORD"`
	Host         string        `long:"db-host" description:"The host name or IP address where the database is available" env:"KEA_MIGRATE_DATABASE_HOST" default:"localhost"`
	Port         int           `short:"p" long:"db-port" description:"The port on which the database is available; 0 selects the backend default" env:"KEA_MIGRATE_DATABASE_PORT" default:"0"`
	TraceSQL     bool          `long:"db-trace-queries" description:"Log the SQL queries" env:"KEA_MIGRATE_DATABASE_TRACE" default:"false"`
	ReadTimeout  time.Duration `long:"db-read-timeout" description:"Timeout for socket reads, zero disables the timeout; requires unit, e.g.: 42s" env:"KEA_MIGRATE_DATABASE_READ_TIMEOUT" default:"0s"`
	WriteTimeout time.Duration `long:"db-write-timeout" description:"Timeout for socket writes, zero disables the timeout; requires unit, e.g.: 42s" env:"KEA_MIGRATE_DATABASE_WRITE_TIMEOUT" default:"0s"`
}

// Creates the flags initialized with the default values.
func NewDatabaseCLIFlags() *DatabaseCLIFlags {
	flags := &DatabaseCLIFlags{}
	// The defaults are static so they always parse.
	_ = setDefaults(flags)
	return flags
}

// Converts the CLI flag values to the database settings object.
func (s *DatabaseCLIFlags) ConvertToDatabaseSettings() (*DatabaseSettings, error) {
	backend, err := ParseDatabaseBackend(s.Backend)
	if err != nil {
		return nil, err
	}
	if s.Port < 0 || s.Port > 65535 {
		return nil, errors.Errorf("invalid database port: %d", s.Port)
	}
	return &DatabaseSettings{
		Backend:      backend,
		DBName:       s.DBName,
		User:         s.User,
		Password:     s.Password,
		Host:         s.Host,
		Port:         s.Port,
		TraceSQL:     s.TraceSQL,
		ReadTimeout:  s.ReadTimeout,
		WriteTimeout: s.WriteTimeout,
	}, nil
}

// Returns the CLI flag definitions as objects. This function is dedicated to
// avoiding parsing the struct tags outside the module.
func (s *DatabaseCLIFlags) ConvertToCLIFlagDefinitions() []*CLIFlagDefinition {
	return convertToCLIFlagDefinitions(s)
}

// Reads the member values from the environment variables.
func (s *DatabaseCLIFlags) ReadFromEnvironment() error {
	return readFromEnvironment(s)
}

// Reads the member values from the CLI flags using the external CLI lookup.
func (s *DatabaseCLIFlags) ReadFromCLI(lookup CLILookup) error {
	return readFromCLI(s, lookup)
}
