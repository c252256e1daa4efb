package logger

import (
	"github.com/sirupsen/logrus"
)

var (
	// Log is the logger
	Log *logrus.Logger
)

func init() {
	Log = logrus.New()
	Log.Formatter = &logrus.TextFormatter{}
	// Log.SetReportCaller(true)
}

// SetLevel sets the log level, falling back to info
func SetLevel(level string) {
	l, err := logrus.ParseLevel(level)
	if err != nil {
		Log.SetLevel(logrus.InfoLevel)
		return
	}

	Log.SetLevel(l)
}

// SetFormat switches between the text and json formatters
func SetFormat(format string) {
	switch format {
	case "json":
		Log.Formatter = &logrus.JSONFormatter{}
	default:
		Log.Formatter = &logrus.TextFormatter{}
	}
}

// ForService returns an entry carrying the delivery service id
func ForService(id string) *logrus.Entry {
	return Log.WithField("deliveryService", id)
}
