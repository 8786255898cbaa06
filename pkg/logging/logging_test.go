package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestExtraWriterGetsCopy(t *testing.T) {
	var buf bytes.Buffer
	l := New("robot", "debug", &buf, nil)
	l.Named("idle").Debug("Entered state", "state", "Idle")
	out := buf.String()
	if !strings.Contains(out, "robot.idle") || !strings.Contains(out, "state=Idle") {
		t.Fatalf("Unexpected log line: %q", out)
	}
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := New("robot", "bogus", &buf)
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("Debug should be filtered at the default level, got %q", buf.String())
	}
	l.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatal("Warn should be logged")
	}
}
