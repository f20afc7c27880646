package cli

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		level   log.Level
		debug   bool
		warning bool
	}{
		{log.DebugLevel, true, true},
		{log.InfoLevel, false, true},
		{log.ErrorLevel, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			l := newLogger(&buf, tt.level)
			l.Debug("dbg")
			l.Warn("wrn")

			out := buf.String()
			if strings.Contains(out, "dbg") != tt.debug {
				t.Errorf("debug shown = %v, want %v", !tt.debug, tt.debug)
			}
			if strings.Contains(out, "wrn") != tt.warning {
				t.Errorf("warning shown = %v, want %v", !tt.warning, tt.warning)
			}
		})
	}
}

func TestNewLoggerTimestamp(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel).Info("hello")
	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} `).MatchString(buf.String()) {
		t.Errorf("unexpected timestamp format: %q", buf.String())
	}
}

func TestTimed(t *testing.T) {
	var buf bytes.Buffer
	done := timed(newLogger(&buf, log.InfoLevel), "layout")
	done("strategy", "layered")

	out := buf.String()
	for _, want := range []string{"layout", "took=", "strategy=layered"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %q", want, out)
		}
	}
}

func TestLoggerContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("bare context should fall back to log.Default()")
	}
	l := log.New(&bytes.Buffer{})
	if got := loggerFromContext(withLogger(context.Background(), l)); got != l {
		t.Error("attached logger not returned")
	}
}
