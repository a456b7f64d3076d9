package events

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Logger renders events as log entries. Error events are logged at error
// level, everything else at info level.
type Logger struct {
	log *logrus.Logger
}

// NewLogger returns a sink writing to log.
func NewLogger(log *logrus.Logger) *Logger {
	return &Logger{log: log}
}

// NewTextLogger returns a sink writing text or JSON lines to w.
func NewTextLogger(w io.Writer, json bool) *Logger {
	log := logrus.New()
	log.SetOutput(w)
	if json {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}
	return NewLogger(log)
}

func (l *Logger) Emit(e Event) {
	entry := l.log.WithFields(logrus.Fields(e.Fields)).WithField("component", e.Component)
	if e.Name == Error {
		entry.Error(e.Name)
		return
	}
	entry.Info(e.Name)
}
