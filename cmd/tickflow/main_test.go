package main

import (
	"bytes"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestValidateCommand(t *testing.T) {
	out, _, err := execute(t, "validate", "testdata/show.yaml")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"2 cues", "duration 2s", "open", "every_hz=4 until=2"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestRenderCommand(t *testing.T) {
	out, logs, err := execute(t, "render", "testdata/show.yaml", "--step", "0.25", "--log-format", "json")
	if err != nil {
		t.Fatal(err)
	}
	// open once, strobe at 1, 1.25, 1.5, 1.75, 2
	if !strings.Contains(out, "fired=6") || !strings.Contains(out, "expired=1") {
		t.Errorf("unexpected summary %q", out)
	}
	if !strings.Contains(logs, `"text":"curtain up"`) {
		t.Errorf("cue log missing message: %q", logs)
	}
}

func TestRenderCommandMissingScore(t *testing.T) {
	if _, _, err := execute(t, "render", "testdata/nope.yaml"); err == nil {
		t.Error("expected error for missing score")
	}
}

func TestRejectsBadLogLevel(t *testing.T) {
	if _, _, err := execute(t, "validate", "testdata/show.yaml", "--log-level", "shouty"); err == nil {
		t.Error("expected error for bad log level")
	}
}
