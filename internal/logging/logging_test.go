package logging

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/vnykmshr/tickflow/internal/testutil"
)

func TestSetupWithWriterJSON(t *testing.T) {
	w := testutil.NewMockWriter()
	logger, err := SetupWithWriter("debug", "json", w)
	testutil.AssertNoError(t, err)

	logger.Debug().Str("event", "intro").Float64("now", 1.5).Msg("event fired")

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(w.String()), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, w.String())
	}
	testutil.AssertEqual(t, entry["event"], interface{}("intro"))
	testutil.AssertEqual(t, entry["message"], interface{}("event fired"))
}

func TestSetupWithWriterLevelFilters(t *testing.T) {
	w := testutil.NewMockWriter()
	logger, err := SetupWithWriter("warn", "json", w)
	testutil.AssertNoError(t, err)

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	if strings.Contains(w.String(), "hidden") || !strings.Contains(w.String(), "shown") {
		t.Errorf("unexpected output %q", w.String())
	}
}

func TestSetupWithWriterConsole(t *testing.T) {
	w := testutil.NewMockWriter()
	logger, err := SetupWithWriter("info", "console", w)
	testutil.AssertNoError(t, err)

	logger.Info().Str("score", "demo").Msg("rendering")
	if !strings.Contains(w.String(), "rendering") {
		t.Errorf("console output missing message: %q", w.String())
	}
}

func TestSetupRejectsUnknownValues(t *testing.T) {
	if _, err := SetupWithWriter("loud", "json", testutil.NewMockWriter()); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := SetupWithWriter("info", "xml", testutil.NewMockWriter()); err == nil {
		t.Error("expected error for unknown format")
	}
}
