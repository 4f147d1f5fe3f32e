package dbops

import (
	"os"
	"strconv"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// The database section of the YAML configuration file, e.g.:
//
//	db:
//	  host: localhost
//	  port: 3306
//	  user: kea
//	  password: secret
//	  database: kea
//
// The keys match the MySQL connector arguments. The "name" key is an
// alias of "database".
type databaseConfigSection struct {
	Backend  string `yaml:"backend"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	Name     string `yaml:"name"`
}

type databaseConfigFile struct {
	DB *databaseConfigSection `yaml:"db"`
}

// Reads the database settings from the YAML configuration file. Only the
// values present in the file override the current values.
func (s *DatabaseCLIFlags) ReadFromConfigFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read database config file: %s", path)
	}
	var file databaseConfigFile
	if err = yaml.Unmarshal(content, &file); err != nil {
		return errors.Wrapf(err, "failed to parse database config file: %s", path)
	}
	if file.DB == nil {
		return errors.Errorf("missing db section in database config file: %s", path)
	}
	section := file.DB
	if section.Database != "" && section.Name != "" && section.Database != section.Name {
		return errors.Errorf("conflicting database and name in database config file: %s", path)
	}
	if section.Port != "" {
		port, err := strconv.ParseInt(section.Port, 10, 0)
		if err != nil {
			return errors.Wrapf(err, "invalid port in database config file: %s", path)
		}
		s.Port = int(port)
	}
	overrides := []struct {
		value  string
		target *string
	}{
		{section.Backend, &s.Backend},
		{section.Host, &s.Host},
		{section.User, &s.User},
		{section.Password, &s.Password},
		{section.Database, &s.DBName},
		{section.Name, &s.DBName},
	}
	for _, override := range overrides {
		if override.value != "" {
			*override.target = override.value
		}
	}
	log.WithField("file", path).Debug("Read database config file")
	return nil
}
