package g2mfeed

import (
	"github.com/sirupsen/logrus"
)

// Reporter receives human-readable progress lines during a resolution. It
// never fails and returns nothing.
type Reporter interface {
	Report(msg string)
}

// ReporterFunc adapts a plain function to the Reporter interface.
type ReporterFunc func(msg string)

func (f ReporterFunc) Report(msg string) {
	f(msg)
}

type logReporter struct {
	logger *logrus.Logger
}

var _ Reporter = (*logReporter)(nil)

// NewLogReporter returns a Reporter backed by the standard logrus logger.
func NewLogReporter() Reporter {
	return &logReporter{logger: logrus.StandardLogger()}
}

// NewLogReporterWith returns a Reporter backed by the given logger.
func NewLogReporterWith(logger *logrus.Logger) Reporter {
	return &logReporter{logger: logger}
}

func (l *logReporter) Report(msg string) {
	l.logger.Info(msg)
}

// NopReporter discards all progress lines.
func NopReporter() Reporter {
	return ReporterFunc(func(string) {})
}
