// Package store persists completed runs under a data directory, one
// subdirectory per run holding metadata.json and results.csv. It backs the
// list/plot/export commands; the core never touches it.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/limnetics/limnosim/internal/sim"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata summarizes one stored run.
type RunMetadata struct {
	ID          string    `json:"id"`
	Scenario    string    `json:"scenario"`
	Timestamp   time.Time `json:"timestamp"`
	Method      string    `json:"method"`
	Dt          float64   `json:"dt"`
	Days        float64   `json:"days"`
	Ticks       int       `json:"ticks"`
	FinalVolume float64   `json:"final_volume"`
	Variables   []string  `json:"variables"`
}

// ResultRow is one long-format line of results.csv: a single variable's
// value at a single tick.
type ResultRow struct {
	Time     string  `csv:"time"`
	Variable string  `csv:"variable"`
	Value    float64 `csv:"value"`
}

const timeLayout = time.RFC3339

// Save writes a completed run. The ID, timestamp and tick-count fields of
// meta are filled in here; snapshots are flattened to long-format rows in
// tick order, variables in collection order within each tick.
func (s *Store) Save(meta RunMetadata, snapshots []sim.Snapshot) (string, error) {
	runID := fmt.Sprintf("%s_%d", sanitize(meta.Scenario), time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Ticks = len(snapshots)

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		metaFile.Close()
		return "", err
	}
	if err := metaFile.Close(); err != nil {
		return "", err
	}

	rows := make([]*ResultRow, 0, len(snapshots)*len(meta.Variables))
	for _, snap := range snapshots {
		for _, name := range meta.Variables {
			value, ok := snap.Values[name]
			if !ok {
				continue
			}
			rows = append(rows, &ResultRow{
				Time:     snap.Time.Format(timeLayout),
				Variable: name,
				Value:    value,
			})
		}
	}

	resultsFile, err := os.Create(filepath.Join(runDir, "results.csv"))
	if err != nil {
		return "", err
	}
	defer resultsFile.Close()
	if err := gocsv.MarshalFile(&rows, resultsFile); err != nil {
		return "", fmt.Errorf("writing results.csv: %w", err)
	}
	return runID, nil
}

// List returns the stored run summaries, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var runs []RunMetadata
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.LoadMetadata(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) LoadMetadata(runID string) (RunMetadata, error) {
	var meta RunMetadata
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return meta, err
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return meta, fmt.Errorf("parsing metadata for %s: %w", runID, err)
	}
	return meta, nil
}

// LoadResults reads a run's long-format rows back in file order.
func (s *Store) LoadResults(runID string) ([]ResultRow, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "results.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var rows []*ResultRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("parsing results for %s: %w", runID, err)
	}
	out := make([]ResultRow, len(rows))
	for i, r := range rows {
		out[i] = *r
	}
	return out, nil
}

// Trajectory extracts one variable's values in tick order.
func Trajectory(rows []ResultRow, variable string) []float64 {
	var values []float64
	for _, r := range rows {
		if r.Variable == variable {
			values = append(values, r.Value)
		}
	}
	return values
}

func sanitize(name string) string {
	if name == "" {
		return "run"
	}
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
