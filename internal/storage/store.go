package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/gesturenav/internal/scenario"
)

// Store keeps simulate runs under baseDir, one directory per run with a
// metadata.json, the per-step frames and the sampled dwell progress.
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
	ID          string                `json:"id"`
	Scenario    string                `json:"scenario"`
	Variant     string                `json:"variant"`
	Timestamp   time.Time             `json:"timestamp"`
	Seed        int64                 `json:"seed"`
	Steps       int                   `json:"steps"`
	SampleMs    int                   `json:"sample_ms"`
	Navigations []scenario.Navigation `json:"navigations"`
	History     []string              `json:"history"`
}

var frameHeader = []string{"at_ms", "kind", "handle_x", "handle_y", "control_x", "control_y", "nearest", "distance", "phase", "progress"}

func (s *Store) Save(sc *scenario.Scenario, res *scenario.Result) (string, error) {
	name := sc.Name
	if name == "" {
		name = "run"
	}
	runID := fmt.Sprintf("%s_%d", name, time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Scenario:    sc.Name,
		Variant:     res.Final.Variant,
		Timestamp:   time.Now(),
		Seed:        sc.Seed,
		Steps:       len(sc.Steps),
		SampleMs:    res.SampleMs,
		Navigations: res.Navigations,
		History:     res.History,
	}
	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}

	frames := [][]string{frameHeader}
	for _, f := range res.Frames {
		sn := f.Snapshot
		frames = append(frames, []string{
			strconv.Itoa(f.AtMs),
			f.Kind,
			ftoa(sn.Handle.X), ftoa(sn.Handle.Y),
			ftoa(sn.Control.X), ftoa(sn.Control.Y),
			sn.Nearest,
			ftoa(sn.NearestDistance),
			sn.Phase.String(),
			ftoa(sn.DwellProgress),
		})
	}
	if err := writeCSV(filepath.Join(runDir, "frames.csv"), frames); err != nil {
		return "", err
	}

	progress := [][]string{{"at_ms", "progress"}}
	for i, p := range res.Progress {
		progress = append(progress, []string{strconv.Itoa(i * res.SampleMs), ftoa(p)})
	}
	if err := writeCSV(filepath.Join(runDir, "progress.csv"), progress); err != nil {
		return "", err
	}
	return runID, nil
}

func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', 3, 64) }

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Close()
}

// List returns saved runs, oldest first.
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
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadProgress reads back the sampled dwell progress of a run.
func (s *Store) LoadProgress(runID string) (times []int, progress []float64, err error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "progress.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	for _, rec := range records[min(1, len(records)):] {
		if len(rec) < 2 {
			continue
		}
		t, err := strconv.Atoi(rec[0])
		if err != nil {
			continue
		}
		p, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			continue
		}
		times = append(times, t)
		progress = append(progress, p)
	}
	return times, progress, nil
}
