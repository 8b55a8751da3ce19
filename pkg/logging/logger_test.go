package logging

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestLoggerVerbosity(t *testing.T) {
	tests := []struct {
		verbosity Verbosity
		want      []string
		skip      []string
	}{
		{LowVerbosity, []string{"ERROR"}, []string{"DEBUG", "INFO", "WARN"}},
		{MediumVerbosity, []string{"WARN", "ERROR"}, []string{"DEBUG", "INFO"}},
		{HighVerbosity, []string{"DEBUG", "INFO", "WARN", "ERROR"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.verbosity.String(), func(t *testing.T) {
			var buf bytes.Buffer
			l := New(&buf, tt.verbosity)
			l.Debugf("d %d", 1)
			l.Infof("i %d", 2)
			l.Warnf("w %d", 3)
			_ = l.ReturnErrorf("e %d", 4)

			out := buf.String()
			for _, level := range tt.want {
				if !strings.Contains(out, level) {
					t.Errorf("output missing %s:\n%s", level, out)
				}
			}
			for _, level := range tt.skip {
				if strings.Contains(out, level) {
					t.Errorf("output should not contain %s:\n%s", level, out)
				}
			}
		})
	}
}

func TestReturnErrorfWraps(t *testing.T) {
	cause := errors.New("boom")
	l := New(io.Discard, LowVerbosity)
	err := l.ReturnErrorf("failed to commit: %w", cause)
	if !errors.Is(err, cause) {
		t.Errorf("ReturnErrorf() = %v, does not wrap cause", err)
	}
	if err.Error() != "failed to commit: boom" {
		t.Errorf("ReturnErrorf() message = %q", err.Error())
	}
}

func TestCallerName(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, HighVerbosity)
	l.Infof("hello")
	if !strings.Contains(buf.String(), "logging.TestCallerName") {
		t.Errorf("output does not name the caller: %q", buf.String())
	}
}
