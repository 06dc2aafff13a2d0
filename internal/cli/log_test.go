package cli

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestNewLoggerLevel(t *testing.T) {
	t.Setenv(envLogLevel, "")

	var buf bytes.Buffer
	l := newLogger(&buf, log.InfoLevel)
	l.Debug("hidden")
	assert.Empty(t, buf.String())

	l.Info("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewLoggerEnvOverride(t *testing.T) {
	t.Setenv(envLogLevel, "debug")

	var buf bytes.Buffer
	l := newLogger(&buf, log.InfoLevel)
	l.Debug("crawl level", "depth", 2)
	assert.Contains(t, buf.String(), "crawl level")
	assert.Contains(t, buf.String(), "depth=2")
}

func TestNewLoggerBadEnvIgnored(t *testing.T) {
	t.Setenv(envLogLevel, "loud")

	l := newLogger(&bytes.Buffer{}, log.WarnLevel)
	assert.Equal(t, log.WarnLevel, l.GetLevel())
}

func TestProgressDone(t *testing.T) {
	t.Setenv(envLogLevel, "")

	var buf bytes.Buffer
	p := newProgress(newLogger(&buf, log.InfoLevel))
	p.done("Crawled 12 papers", "edges", 30)

	out := buf.String()
	assert.Contains(t, out, "Crawled 12 papers")
	assert.Contains(t, out, "edges=30")
	assert.Contains(t, out, "elapsed=")
}
