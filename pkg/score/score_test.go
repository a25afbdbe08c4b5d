package score

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vnykmshr/tickflow/internal/testutil"
	"github.com/vnykmshr/tickflow/pkg/clock"
	tferrors "github.com/vnykmshr/tickflow/pkg/common/errors"
	"github.com/vnykmshr/tickflow/pkg/scheduling/scheduler"
)

func recordCues(rec *testutil.Recorder) FireFunc {
	return func(cue Cue, now float64) error {
		rec.Record(cue.Name, now)
		return nil
	}
}

func TestLoad(t *testing.T) {
	sc, err := Load(filepath.Join("testdata", "premiere.yaml"))
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, sc.Name, "premiere")
	testutil.AssertEqual(t, len(sc.Cues), 3)
	testutil.AssertEqual(t, sc.Cues[0].Message, "dim the house")
	testutil.AssertEqual(t, sc.Cues[1].EveryHz, 2.0)
	testutil.AssertEqual(t, sc.Duration(), 40.0)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
	var opErr *tferrors.OperationError
	if !errors.As(err, &opErr) || opErr.Operation != "Load" {
		t.Errorf("expected Load OperationError, got %v", err)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		substr string
	}{
		{"empty", "  \n", "cannot be empty"},
		{"no cues", "name: x\n", "cues"},
		{"unknown field", "name: x\ncues:\n  - name: a\n    when: 3\n", "when"},
		{"missing name", "cues:\n  - at: 1\n", "cues[0].name"},
		{"duplicate name", "cues:\n  - name: a\n  - name: a\n", "duplicates cues[0]"},
		{"repeat without rate", "cues:\n  - name: a\n    kind: repeat\n", "cues[0].every_hz"},
		{"negative until", "cues:\n  - name: a\n    kind: repeat\n    every_hz: 1\n    until: -2\n", "cues[0].until"},
		{"bad cron", "cues:\n  - name: a\n    kind: cron\n    cron: sometimes\n", "cues[0].cron"},
		{"unknown kind", "cues:\n  - name: a\n    kind: twice\n", "unknown kind"},
		{"once with rate", "cues:\n  - name: a\n    every_hz: 3\n", "once cues take only at"},
		{"bad time scale", "time_scale: -1\ncues:\n  - name: a\n", "time_scale"},
		{"bad yaml", "cues: [", "score.Parse failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.substr) {
				t.Errorf("error %q does not mention %q", err, tt.substr)
			}
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	sc := &Score{Cues: []Cue{
		{Name: "a", Kind: KindRepeat},
		{Kind: KindCron},
	}}
	err := sc.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"cues[0].every_hz", "cues[1].name", "cues[1].cron"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
	if !errors.Is(err, tferrors.ErrInvalidConfiguration) {
		t.Error("expected ErrInvalidConfiguration")
	}
}

func TestApply(t *testing.T) {
	sc, err := Load(filepath.Join("testdata", "premiere.yaml"))
	testutil.AssertNoError(t, err)

	clk := clock.NewManualClock(0)
	s := scheduler.New(clk)
	testutil.AssertNoError(t, s.Start())
	rec := testutil.NewRecorder()

	specs, err := sc.Apply(s, recordCues(rec))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(specs), 3)

	testutil.AssertNoError(t, clk.RunUntil(60, 0.5))

	testutil.AssertFloats(t, rec.Times("house-lights"), []float64{2})
	testutil.AssertFloats(t, rec.Times("pulse"), []float64{4, 4.5, 5})
	testutil.AssertFloats(t, rec.Times("chime"), []float64{15, 30})
}

func TestApplyTimeScale(t *testing.T) {
	sc, err := Parse([]byte("time_scale: 2\ncues:\n  - name: a\n    at: 1.5\n"))
	testutil.AssertNoError(t, err)

	s := scheduler.New(clock.NewManualClock(0))
	rec := testutil.NewRecorder()
	specs, err := sc.Apply(s, recordCues(rec))
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, s.TimeScale(), 2.0)
	testutil.AssertEqual(t, specs[0].DueAt(), 3.0)
}

func TestCueErrorsReachScheduler(t *testing.T) {
	var reported []error
	s := scheduler.NewWithConfig(scheduler.Config{
		Clock:   clock.NewManualClock(0),
		OnError: func(_ *scheduler.Spec, err error) { reported = append(reported, err) },
	})
	sc := &Score{Cues: []Cue{{Name: "flaky", At: 1}}}

	_, err := sc.Apply(s, func(Cue, float64) error { return errors.New("lamp offline") })
	testutil.AssertNoError(t, err)
	s.Tick(1)

	testutil.AssertEqual(t, len(reported), 1)
}

func TestMarshalRoundTrip(t *testing.T) {
	sc := &Score{Name: "tiny", Cues: []Cue{{Name: "a", At: 1, Message: "go"}}}
	data, err := sc.Marshal()
	testutil.AssertNoError(t, err)

	back, err := Parse(data)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, back.Cues[0].Message, "go")
}

func TestCueUntil(t *testing.T) {
	sc, err := Parse([]byte(`cues:
  - name: blip
    kind: repeat
    every_hz: 1
    until: 0
  - name: drone
    kind: repeat
    every_hz: 1
`))
	testutil.AssertNoError(t, err)

	end, ok := sc.Cues[0].End()
	testutil.AssertEqual(t, ok, true)
	testutil.AssertEqual(t, end, 0.0)
	_, ok = sc.Cues[1].End()
	testutil.AssertEqual(t, ok, false)

	clk := clock.NewManualClock(0)
	s := scheduler.New(clk)
	testutil.AssertNoError(t, s.Start())
	rec := testutil.NewRecorder()
	_, err = sc.Apply(s, recordCues(rec))
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, clk.Step(3, 1))

	testutil.AssertFloats(t, rec.Times("blip"), []float64{0})
	testutil.AssertFloats(t, rec.Times("drone"), []float64{0, 1, 2, 3})
	testutil.AssertEqual(t, s.Pending(), 1)
}
