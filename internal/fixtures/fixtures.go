// Package fixtures holds setup shared by tests in several packages
package fixtures

import (
	"os"

	"github.com/bitmark-inc/logger"
)

const LogCategory = "testing"

var logDirectory string

// SetupTestLogger starts logging into a temporary directory; only critical
// messages are written
func SetupTestLogger() {
	dir, err := os.MkdirTemp("", "cooin-log-")
	if err != nil {
		panic(err)
	}
	logDirectory = dir

	logging := logger.Configuration{
		Directory: dir,
		File:      LogCategory + ".log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	// start logging
	_ = logger.Initialise(logging)
}

// TeardownTestLogger stops logging and removes the log files
func TeardownTestLogger() {
	logger.Finalise()
	if logDirectory != "" {
		_ = os.RemoveAll(logDirectory)
	}
}
