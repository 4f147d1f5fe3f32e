package migrateutil

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Defines an interfaces that accepts the environment variables.
type EnvironmentVariableSetter interface {
	Set(key, value string) error
}

// Sets the environment variables of the current process.
type processEnvironmentVariableSetter struct{}

// Creates a setter that modifies the environment of the current process.
func NewProcessEnvironmentVariableSetter() EnvironmentVariableSetter {
	return processEnvironmentVariableSetter{}
}

// Sets the process environment variable.
func (processEnvironmentVariableSetter) Set(key, value string) error {
	return errors.WithStack(os.Setenv(key, value))
}

// Loads all entries from the environment file into the setter objects.
func LoadEnvironmentFileToSetter(path string, setters ...EnvironmentVariableSetter) error {
	data, err := LoadEnvironmentFile(path)
	if err != nil {
		return err
	}

	for key, value := range data {
		for _, setter := range setters {
			err = setter.Set(key, value)
			if err != nil {
				err = errors.WithMessagef(err, "cannot set value for key: '%s'", key)
				return err
			}
		}
	}

	return nil
}

// Loads all entries from the environment file.
func LoadEnvironmentFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open the '%s' environment file", path)
	}
	defer file.Close()
	return loadEnvironmentEntries(file)
}

// Loads all entries from a given reader. The later entries override the
// earlier ones.
func loadEnvironmentEntries(reader io.Reader) (map[string]string, error) {
	data := make(map[string]string)
	scanner := bufio.NewScanner(reader)

	lineIdx := 0
	for scanner.Scan() {
		lineIdx++
		key, value, err := loadEnvironmentLine(scanner.Text())
		if err != nil {
			return nil, errors.WithMessagef(err, "invalid line %d of environment file", lineIdx)
		}
		if key == "" {
			// Comment or blank line.
			continue
		}
		data[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "cannot read the environment file")
	}

	return data, nil
}

// Parses a line of the environment file. The optional "export" prefix
// and the quotes surrounding the value are removed, so the files sourced
// by the shell scripts can be used as-is.
func loadEnvironmentLine(line string) (string, string, error) {
	line = strings.TrimSpace(line)

	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", nil
	}
	line = strings.TrimPrefix(line, "export ")

	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return "", "", errors.Errorf("line must contain the key and value separated by the '=' sign")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", errors.Errorf("key cannot be empty")
	}

	value = strings.TrimSpace(value)
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '"' || first == '\'') && first == last {
			value = value[1 : len(value)-1]
		}
	}

	return key, value, nil
}
