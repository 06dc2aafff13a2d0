package cli

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// envLogLevel overrides the starting log level (debug, info, warn, error).
const envLogLevel = "CITEGRAPH_LOG"

// newLogger returns a timestamped logger on w. A valid CITEGRAPH_LOG value
// takes precedence over level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	if v := os.Getenv(envLogLevel); v != "" {
		if l, err := log.ParseLevel(v); err == nil {
			level = l
		}
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Level:           level,
	})
}

// progress times one command step.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time as a structured field.
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}
