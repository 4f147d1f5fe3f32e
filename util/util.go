package migrateutil

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"runtime"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Environment variable holding the logging level.
const LogLevelEnvironmentVariable = "KEA_MIGRATE_LOG_LEVEL"

// Configures the global logger. The logs are written to stderr so the
// standard output remains reserved for the extracted rows and reports.
// The logging level is read from the KEA_MIGRATE_LOG_LEVEL environment
// variable; INFO is used when the variable is unset or invalid.
func SetupLogging() {
	level := log.InfoLevel
	if value, ok := os.LookupEnv(LogLevelEnvironmentVariable); ok {
		parsed, err := log.ParseLevel(strings.TrimSpace(value))
		if err == nil {
			level = parsed
		}
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)
	log.SetReportCaller(level >= log.DebugLevel)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		CallerPrettyfier: func(f *runtime.Frame) (string, string) {
			// Grab filename and line of current frame and add it to log entry
			_, filename := path.Split(f.File)
			return "", fmt.Sprintf("%20v:%-5d", filename, f.Line)
		},
	})
}

// Convert bytes to hex string.
func BytesToHex(bytesArray []byte) string {
	var buf bytes.Buffer
	for _, f := range bytesArray {
		fmt.Fprintf(&buf, "%02X", f)
	}
	return buf.String()
}
