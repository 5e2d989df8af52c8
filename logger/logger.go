package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. It is usable with default settings before
// Init is called, which keeps test binaries from having to bootstrap it.
var Log = logrus.New()

// Init configures the logger for production use: JSON output to stdout so
// log collectors can parse entries without extra tooling.
func Init() {
	Log.SetOutput(os.Stdout)
	Log.SetFormatter(&logrus.JSONFormatter{})
	Log.SetLevel(logrus.InfoLevel)
}
