// Package render is the output boundary. The pipeline hands a finished
// Dataset (bar percentages plus label text) to a Renderer; chart layout
// and styling belong to Renderer implementations, not to the pipeline.
package render

import (
	"fmt"
	"os"
	"path/filepath"

	"gareport/internal/domain"
	"gareport/internal/histogram"
	"gareport/internal/tabular"
)

// Dataset is everything a renderer needs for one report artifact.
type Dataset struct {
	Key                domain.ArtifactKey
	Title              string
	AttributeTitle     string // graduate attribute, rendered as its own heading
	HeaderLabels       string
	HeaderDescriptions string
	BinRanges          string
	PercentLabels      [][]string // per series, aligned with Data.Series
	ShowLegend         bool       // chart renderers only; the exporter's headers are data
	Data               histogram.Result
}

// Renderer writes one dataset to the given path.
type Renderer interface {
	Render(ds Dataset, path string) error
}

// DatasetExporter is the default Renderer: it exports the binned
// percentage table through the tabular store, one column per series, so
// any charting tool can pick it up.
type DatasetExporter struct {
	tab tabular.Store
}

func NewDatasetExporter(tab tabular.Store) *DatasetExporter {
	return &DatasetExporter{tab: tab}
}

func (e *DatasetExporter) Render(ds Dataset, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir %s: %w", dir, err)
		}
	}

	t := &tabular.Table{}
	categories := make([]tabular.Cell, len(ds.Data.Labels))
	for i, label := range ds.Data.Labels {
		categories[i] = tabular.Cell{Value: label}
	}
	t.AppendColumn("Category", categories)

	for _, s := range ds.Data.Series {
		cells := make([]tabular.Cell, len(s.Percents))
		for i, p := range s.Percents {
			cells[i] = tabular.Cell{Value: fmt.Sprintf("%.1f", p)}
		}
		t.AppendColumn(s.Name, cells)
	}

	if ds.BinRanges != "" {
		notes := make([]tabular.Cell, len(ds.Data.Labels)+1)
		for i := range notes {
			notes[i] = tabular.Cell{Missing: true}
		}
		notes[len(notes)-1] = tabular.Cell{Value: ds.BinRanges}
		t.AppendColumn("Notes", notes)
	}

	if err := e.tab.WriteTable(path, t); err != nil {
		return fmt.Errorf("export dataset %s: %w", ds.Key, err)
	}
	return nil
}
