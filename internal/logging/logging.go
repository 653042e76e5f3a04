// Package logging configures the process-wide logrus logger and the
// component loggers derived from it.
package logging

import (
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	gormlogger "gorm.io/gorm/logger"
)

var std = logrus.New()

// Setup configures the shared logger. Unknown levels fall back to info.
func Setup(level, format string, out io.Writer) *logrus.Logger {
	if out == nil {
		out = os.Stdout
	}
	std.SetOutput(out)

	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	std.SetLevel(lvl)

	if strings.EqualFold(format, "json") {
		std.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		std.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	}
	return std
}

// Logger returns the shared logger.
func Logger() *logrus.Logger {
	return std
}

// Component returns a logger tagged with a component name.
func Component(name string) *logrus.Entry {
	return std.WithField("component", name)
}

func HTTP() *logrus.Entry      { return Component("http") }
func DB() *logrus.Entry        { return Component("db") }
func Scheduler() *logrus.Entry { return Component("scheduler") }
func CLI() *logrus.Entry       { return Component("cli") }

// GormLogger routes gorm's SQL logging through logrus.
func GormLogger() gormlogger.Interface {
	level := gormlogger.Warn
	if std.IsLevelEnabled(logrus.DebugLevel) {
		level = gormlogger.Info
	}
	return gormlogger.New(
		log.New(DB().WriterLevel(logrus.InfoLevel), "", 0),
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
