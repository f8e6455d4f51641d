package config

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/sirupsen/logrus"
)

// NamedLogger creates a named package logger writing to stderr.
func NamedLogger(name string) *logrus.Logger {
	return &logrus.Logger{
		Out: os.Stderr,
		Formatter: &CustomTextFormatter{
			TextFormatter: logrus.TextFormatter{
				FullTimestamp: true,
			},
			Name: name,
		},
		Hooks: make(logrus.LevelHooks),
		Level: logrus.InfoLevel,
	}
}

// CustomTextFormatter prefixes every message with the logger name and,
// when the entry carries it, the calling file and line.
type CustomTextFormatter struct {
	logrus.TextFormatter
	Name string
}

// Format renders a single log entry
func (f *CustomTextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	prefix := fmt.Sprintf("[%s]", f.Name)
	if entry.HasCaller() {
		prefix = fmt.Sprintf("[%s %s:%03d]", f.Name, path.Base(entry.Caller.File), entry.Caller.Line)
	}
	e := entry.Dup()
	e.Level = entry.Level
	e.Message = prefix + " " + entry.Message
	return f.TextFormatter.Format(e)
}

// AvailableLevels lists the accepted --log-level values.
var AvailableLevels = []string{"panic", "fatal", "error", "warn", "info", "debug"}

// ParseLevel validates a --log-level value.
func ParseLevel(s string) (logrus.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, l := range AvailableLevels {
		if l == s {
			return logrus.ParseLevel(s)
		}
	}
	return logrus.InfoLevel, fmt.Errorf("invalid log level %q, expected one of: %s", s, strings.Join(AvailableLevels, ", "))
}
