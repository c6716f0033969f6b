package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/trackctl/internal/config"
	"github.com/san-kum/trackctl/internal/sim"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
)

var sampleHeader = []string{
	"t", "x", "y", "yaw", "v", "steer", "accel",
	"lateral_error", "heading_error", "index", "dist_to_goal", "converged",
}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Path      string             `json:"path"`
	Timestamp time.Time          `json:"timestamp"`
	Stop      string             `json:"stop"`
	Steps     int                `json:"steps"`
	Warnings  int                `json:"warnings"`
	Duration  float64            `json:"duration"`
	Metrics   map[string]float64 `json:"metrics"`
	Config    *config.Config     `json:"config"`
}

// Save writes the run under a fresh id and returns it.
func (s *Store) Save(name string, cfg *config.Config, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%s", name, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Name:      name,
		Path:      cfg.Scenario.Path,
		Timestamp: time.Now(),
		Stop:      result.Stop.String(),
		Steps:     result.Steps,
		Warnings:  result.Warnings,
		Duration:  result.Final().T,
		Metrics:   result.Metrics,
		Config:    cfg,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, samplesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := ExportCSV(csvFile, result.Samples); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadSamples(runID string) ([]sim.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(sampleHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []sim.Sample{}, nil
	}

	samples := make([]sim.Sample, 0, len(records)-1)
	for i, record := range records[1:] {
		smp, err := parseSample(record)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", samplesFile, i+2, err)
		}
		samples = append(samples, smp)
	}

	return samples, nil
}

func ExportCSV(w io.Writer, samples []sim.Sample) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(sampleHeader); err != nil {
		return err
	}

	for _, smp := range samples {
		row := []string{
			formatFloat(smp.T),
			formatFloat(smp.X),
			formatFloat(smp.Y),
			formatFloat(smp.Yaw),
			formatFloat(smp.V),
			formatFloat(smp.Steer),
			formatFloat(smp.Accel),
			formatFloat(smp.LateralError),
			formatFloat(smp.HeadingError),
			strconv.Itoa(smp.Index),
			formatFloat(smp.DistToGoal),
			strconv.FormatBool(smp.Converged),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

type ExportData struct {
	Run     *RunMetadata `json:"run"`
	Samples []sim.Sample `json:"samples"`
}

func ExportJSON(w io.Writer, meta *RunMetadata, samples []sim.Sample) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Run: meta, Samples: samples})
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func parseSample(record []string) (sim.Sample, error) {
	var smp sim.Sample
	floats := []*float64{
		&smp.T, &smp.X, &smp.Y, &smp.Yaw, &smp.V, &smp.Steer, &smp.Accel,
		&smp.LateralError, &smp.HeadingError,
	}
	for i, dst := range floats {
		v, err := strconv.ParseFloat(record[i], 64)
		if err != nil {
			return smp, fmt.Errorf("column %s: %w", sampleHeader[i], err)
		}
		*dst = v
	}

	idx, err := strconv.Atoi(record[9])
	if err != nil {
		return smp, fmt.Errorf("column index: %w", err)
	}
	smp.Index = idx

	if smp.DistToGoal, err = strconv.ParseFloat(record[10], 64); err != nil {
		return smp, fmt.Errorf("column dist_to_goal: %w", err)
	}
	if smp.Converged, err = strconv.ParseBool(record[11]); err != nil {
		return smp, fmt.Errorf("column converged: %w", err)
	}
	return smp, nil
}
