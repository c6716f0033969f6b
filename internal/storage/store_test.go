package storage

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/trackctl/internal/config"
	"github.com/san-kum/trackctl/internal/sim"
)

func testResult() *sim.Result {
	return &sim.Result{
		Samples: []sim.Sample{
			{T: 0.1, X: 0.1, Y: 0.0, V: 1.5, Steer: 0.01, Accel: 1.6, Index: 1, DistToGoal: 49.8, Converged: true},
			{T: 0.2, X: 0.25, Y: 0.001, V: 2.0, Steer: -0.02, Accel: 1.5, LateralError: -0.05, HeadingError: 0.002, Index: 2, DistToGoal: 49.7, Converged: false},
		},
		Metrics:  map[string]float64{"cross_track_rms": 0.035},
		Steps:    2,
		Stop:     sim.StopTime,
		Warnings: 1,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg := config.GetPreset("offset")
	runID, err := st.Save("offset", cfg, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "offset_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Path != "straight" {
		t.Errorf("expected path 'straight', got '%s'", meta.Path)
	}
	if meta.Stop != "time" {
		t.Errorf("expected stop 'time', got '%s'", meta.Stop)
	}
	if meta.Warnings != 1 || meta.Steps != 2 {
		t.Errorf("expected 2 steps and 1 warning, got %d and %d", meta.Steps, meta.Warnings)
	}
	if meta.Duration != 0.2 {
		t.Errorf("expected duration 0.2, got %f", meta.Duration)
	}
	if meta.Metrics["cross_track_rms"] != 0.035 {
		t.Errorf("expected cross_track_rms 0.035, got %f", meta.Metrics["cross_track_rms"])
	}
	if meta.Config == nil || meta.Config.Scenario.Offset.Lateral != 1.0 {
		t.Errorf("config not persisted: %+v", meta.Config)
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		t.Fatalf("load samples failed: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}

	want := testResult().Samples[1]
	got := samples[1]
	if math.Abs(got.X-want.X) > 1e-6 || math.Abs(got.LateralError-want.LateralError) > 1e-6 {
		t.Errorf("sample mismatch: got %+v want %+v", got, want)
	}
	if got.Index != 2 || got.Converged {
		t.Errorf("expected index 2 and not converged, got %d %v", got.Index, got.Converged)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	for _, name := range []string{"a", "b"} {
		if _, err := st.Save(name, config.DefaultConfig(), testResult()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}
	if err := os.MkdirAll(filepath.Join(st.baseDir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Timestamp.After(runs[1].Timestamp) {
		t.Error("runs not sorted by timestamp")
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestLoadSamplesMalformed(t *testing.T) {
	st := New(t.TempDir())
	runDir := filepath.Join(st.baseDir, "broken")
	if err := os.MkdirAll(runDir, 0755); err != nil {
		t.Fatal(err)
	}
	data := strings.Join(sampleHeader, ",") + "\n0.1,x,0,0,0,0,0,0,0,0,0,true\n"
	if err := os.WriteFile(filepath.Join(runDir, samplesFile), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := st.LoadSamples("broken"); err == nil {
		t.Error("expected parse error, got nil")
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	meta := &RunMetadata{ID: "demo_1", Name: "demo"}
	if err := ExportJSON(&buf, meta, testResult().Samples); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var decoded ExportData
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if decoded.Run.ID != "demo_1" {
		t.Errorf("expected id demo_1, got %s", decoded.Run.ID)
	}
	if len(decoded.Samples) != 2 || decoded.Samples[1].Steer != -0.02 {
		t.Errorf("unexpected samples: %+v", decoded.Samples)
	}
}

func TestExportCSVHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportCSV(&buf, nil); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != strings.Join(sampleHeader, ",") {
		t.Errorf("unexpected header %q", got)
	}
}
