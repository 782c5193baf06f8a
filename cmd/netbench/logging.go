package main

import (
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/apex/log/handlers/multi"
	"github.com/apex/log/handlers/text"
)

// logFileName is the name of the log file inside the results dir.
const logFileName = "netbench.log"

// newLogger creates a logger writing to the standard error and to the log
// file inside dir. The caller must call the returned function to close
// the log file when done.
func newLogger(dir, level string) (*log.Logger, func() error, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}
	filep, err := os.OpenFile(filepath.Join(dir, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	logger := &log.Logger{
		Handler: multi.New(cli.New(os.Stderr), text.New(filep)),
		Level:   lvl,
	}
	return logger, filep.Close, nil
}
