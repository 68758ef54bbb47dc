package storage

import (
	"github.com/san-kum/gesturenav/internal/scenario"
)

type ExportData struct {
	Scenario    string                `json:"scenario"`
	Variant     string                `json:"variant"`
	Seed        int64                 `json:"seed"`
	SampleMs    int                   `json:"sample_ms"`
	Frames      []scenario.Frame      `json:"frames"`
	Navigations []scenario.Navigation `json:"navigations"`
	Progress    []float64             `json:"progress"`
	History     []string              `json:"history"`
}

// ExportJSON writes the full result of a scenario run, snapshots
// included, to a single JSON file.
func ExportJSON(path string, sc *scenario.Scenario, res *scenario.Result) error {
	return writeJSON(path, ExportData{
		Scenario:    sc.Name,
		Variant:     res.Final.Variant,
		Seed:        sc.Seed,
		SampleMs:    res.SampleMs,
		Frames:      res.Frames,
		Navigations: res.Navigations,
		Progress:    res.Progress,
		History:     res.History,
	})
}
