package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestConfigure(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()

	Configure(log, &buf, false)
	log.Debug("hidden")
	log.Info("shown")
	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("info level output = %q", out)
	}

	buf.Reset()
	Configure(log, &buf, true)
	log.WithField("sender", 3).Debug("event")
	if out := buf.String(); !strings.Contains(out, "event") || !strings.Contains(out, "sender=3") {
		t.Errorf("debug level output = %q", out)
	}
}

func TestSetupFile(t *testing.T) {
	std := logrus.StandardLogger()
	out, level, formatter := std.Out, std.Level, std.Formatter
	defer func() {
		std.SetOutput(out)
		std.SetLevel(level)
		std.SetFormatter(formatter)
	}()

	path := filepath.Join(t.TempDir(), "oscify.log")
	if err := os.WriteFile(path, []byte("old contents\n"), 0644); err != nil {
		t.Fatal(err)
	}

	closeLog, err := Setup(path, true)
	if err != nil {
		t.Fatal(err)
	}
	logrus.Debug("hello")
	if err := closeLog(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if s := string(data); strings.Contains(s, "old contents") || !strings.Contains(s, "hello") {
		t.Errorf("log file = %q", s)
	}
}

func TestSetupError(t *testing.T) {
	if _, err := Setup(filepath.Join(t.TempDir(), "missing", "x.log"), false); err == nil {
		t.Error("Setup() succeeded in a missing directory")
	}
}
