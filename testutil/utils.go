package testutil

import (
	"io"
	"os"
	"strings"

	errors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Captures the stdout and stderr content produced by a given function.
// The log output is captured along with stderr because the logger
// writes there.
func CaptureOutput(f func()) (stdout []byte, stderr []byte, err error) {
	rescueStdout := os.Stdout
	rescueStderr := os.Stderr
	rOut, wOut, err := os.Pipe()
	if err != nil {
		return nil, nil, errors.Wrap(err, "cannot create stdout pipe")
	}
	rErr, wErr, err := os.Pipe()
	if err != nil {
		return nil, nil, errors.Wrap(err, "cannot create stderr pipe")
	}
	os.Stdout = wOut
	os.Stderr = wErr
	rescueLogOutput := logrus.StandardLogger().Out
	logrus.StandardLogger().SetOutput(wErr)
	defer func() {
		os.Stdout = rescueStdout
		os.Stderr = rescueStderr
		logrus.StandardLogger().SetOutput(rescueLogOutput)
	}()

	// Drain the pipes concurrently so large outputs do not block.
	type result struct {
		data []byte
		err  error
	}
	outCh := make(chan result)
	errCh := make(chan result)
	drain := func(r io.Reader, ch chan<- result) {
		data, err := io.ReadAll(r)
		ch <- result{data, err}
	}
	go drain(rOut, outCh)
	go drain(rErr, errCh)

	f()

	wOut.Close()
	wErr.Close()

	out := <-outCh
	if out.err != nil {
		return nil, nil, errors.Wrap(out.err, "cannot read stdout")
	}
	errOut := <-errCh
	if errOut.err != nil {
		return nil, nil, errors.Wrap(errOut.err, "cannot read stderr")
	}
	return out.data, errOut.data, nil
}

// Remembers the current environment and returns a function restoring it.
func CreateEnvironmentRestorePoint() func() {
	original := os.Environ()
	return func() {
		os.Clearenv()
		for _, pair := range original {
			if key, value, ok := strings.Cut(pair, "="); ok {
				os.Setenv(key, value)
			}
		}
	}
}

// Remembers the current os.Args and returns a function restoring them.
func CreateOsArgsRestorePoint() func() {
	original := os.Args
	return func() {
		os.Args = original
	}
}
