package utils

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", DEBUG, false},
		{" INFO ", INFO, false},
		{"", INFO, false},
		{"warning", WARN, false},
		{"error", ERROR, false},
		{"verbose", INFO, true},
	}

	for _, tt := range tests {
		got, err := ParseLogLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLogLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestLoggerLevelsAndFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerTo(&buf, WARN)

	log.Info("hidden")
	log.WithFields(map[string]interface{}{"mailbox": "m1", "event": "message_sent"}).Warn("sent %d", 5)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("INFO must be filtered at WARN level")
	}
	if !strings.Contains(out, "[WARN] sent 5 [event=message_sent, mailbox=m1]") {
		t.Errorf("unexpected output %q", out)
	}

	log.SetLevel(DEBUG)
	log.Debug("visible")
	if !strings.Contains(buf.String(), "[DEBUG] visible") {
		t.Error("expected DEBUG output after SetLevel")
	}
	if log.Level() != DEBUG {
		t.Errorf("expected DEBUG level, got %s", log.Level())
	}
}
