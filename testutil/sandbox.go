package testutil

import (
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// Sandbox is a temporary directory holding the files created by a test,
// e.g., configuration and exchange files. Each sandbox has its own
// directory and the whole directory is removed on Close.
type Sandbox struct {
	BasePath string
}

// Creates a new sandbox in the system temporary directory.
func NewSandbox() *Sandbox {
	dir, err := os.MkdirTemp("", "kea_migrate_ut_*")
	if err != nil {
		log.Fatal(err)
	}
	return &Sandbox{
		BasePath: dir,
	}
}

// Removes the sandbox with its contents.
func (sb *Sandbox) Close() {
	os.RemoveAll(sb.BasePath)
}

// Returns the path to the file in the sandbox. The parent directories
// are created but the file is not.
func (sb *Sandbox) Join(name string) (string, error) {
	filePath := filepath.Join(sb.BasePath, name)
	if err := os.MkdirAll(filepath.Dir(filePath), 0o700); err != nil {
		return "", err
	}
	return filePath, nil
}

// Creates a file with the specified content and returns its path.
func (sb *Sandbox) Write(name string, content string) (string, error) {
	filePath, err := sb.Join(name)
	if err != nil {
		return "", err
	}
	if err = os.WriteFile(filePath, []byte(content), 0o600); err != nil {
		return "", err
	}
	return filePath, nil
}

// Reads the file from the sandbox.
func (sb *Sandbox) Read(name string) (string, error) {
	content, err := os.ReadFile(filepath.Join(sb.BasePath, name))
	if err != nil {
		return "", err
	}
	return string(content), nil
}
