package logger

import (
	"os"
	"time"

	log "github.com/sirupsen/logrus"
)

const FormatJSON = "json"

// Setup configures the global logrus instance. Logs are written to stderr;
// stdout is reserved for the credential payload.
func Setup(format string, debug bool) {
	log.SetOutput(os.Stderr)

	if format == FormatJSON {
		log.SetFormatter(&log.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})
	} else {
		log.SetFormatter(&log.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}

	log.SetLevel(log.InfoLevel)
	if debug {
		log.SetLevel(log.DebugLevel)
	}
}
