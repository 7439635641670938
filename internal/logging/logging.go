// internal/logging/logging.go
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/MTTPoll/Lambda-Heatpump-Test/internal/config"
)

const timestampFormat = "2006-01-02 15:04:05"

// New builds the process logger. An unknown level falls back to info;
// any format other than json is text.
func New(cfg config.LogConfig) *logrus.Logger {
	return newWithOutput(cfg, os.Stderr)
}

func newWithOutput(cfg config.LogConfig, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: timestampFormat,
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: timestampFormat,
		})
	}

	return log
}
