// Package export writes analysis reports as spreadsheets.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"timeline_stats/internal/timeline"
)

// Sheet names, in workbook order
const (
	SheetEvents       = "Events"
	SheetContribution = "Contribution"
	SheetValues       = "Values"
	SheetContinuous   = "Continuous"
	SheetHistogram    = "Histogram"
)

// WriteWorkbook saves the report's tables as an XLSX workbook at path
func WriteWorkbook(report *timeline.Report, path string) error {
	f, err := Build(report)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// Build lays out the report as one sheet per table. The caller closes the file.
func Build(report *timeline.Report) (*excelize.File, error) {
	f := excelize.NewFile()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	w := &sheetWriter{f: f, headerStyle: header}
	w.rename("Sheet1", SheetEvents)
	w.events(report.Session.Events)
	w.contributions(report.Insights.Contributions)
	w.values(report.Insights.Values)
	w.continuous(report.Continuous.Rows())
	w.histogram(report.NormalizedRows())

	if w.err != nil {
		_ = f.Close()
		return nil, w.err
	}
	return f, nil
}

// sheetWriter keeps the first error so table writers can be chained
type sheetWriter struct {
	f           *excelize.File
	headerStyle int
	err         error
}

func (w *sheetWriter) rename(from, to string) {
	if w.err != nil {
		return
	}
	w.err = w.f.SetSheetName(from, to)
}

func (w *sheetWriter) sheet(name string, header []any, rows [][]any) {
	if w.err != nil {
		return
	}

	if idx, _ := w.f.GetSheetIndex(name); idx < 0 {
		if _, err := w.f.NewSheet(name); err != nil {
			w.err = err
			return
		}
	}

	if err := w.f.SetSheetRow(name, "A1", &header); err != nil {
		w.err = err
		return
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetCellStyle(name, "A1", last, w.headerStyle); err != nil {
		w.err = err
		return
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			w.err = err
			return
		}
		if err := w.f.SetSheetRow(name, cell, &row); err != nil {
			w.err = fmt.Errorf("sheet %s row %d: %w", name, i+2, err)
			return
		}
	}
}

func (w *sheetWriter) events(events []timeline.Event) {
	rows := make([][]any, len(events))
	for i, e := range events {
		rows[i] = []any{e.Position, string(e.Name), e.Timestamp.Format(time.RFC3339Nano), e.Clock(), e.Value}
	}
	w.sheet(SheetEvents, []any{"Position", "Name", "Timestamp", "Clock", "Value"}, rows)
}

func (w *sheetWriter) contributions(cs []timeline.Contribution) {
	rows := make([][]any, len(cs))
	for i, c := range cs {
		rows[i] = []any{string(c.Type), c.Count, c.Percentage}
	}
	w.sheet(SheetContribution, []any{"Type", "Count", "Percentage"}, rows)
}

func (w *sheetWriter) values(vs []timeline.ValueBreakdown) {
	rows := make([][]any, len(vs))
	for i, v := range vs {
		rows[i] = []any{v.Value, v.Total, v.Periodic, v.Seek, v.Play, v.Pause}
	}
	w.sheet(SheetValues, []any{"Value", "Total", "Periodic", "Seek", "Play", "Pause"}, rows)
}

func (w *sheetWriter) continuous(cs []timeline.ContinuousRow) {
	rows := make([][]any, len(cs))
	for i, c := range cs {
		rows[i] = []any{c.Timestamp.Format(time.RFC3339Nano), c.Clock, c.Value}
	}
	w.sheet(SheetContinuous, []any{"Timestamp", "Clock", "Value"}, rows)
}

func (w *sheetWriter) histogram(hs []timeline.NormalizedRow) {
	rows := make([][]any, len(hs))
	for i, h := range hs {
		rows[i] = []any{h.Second, h.Frequency, h.NormalizedFrequency}
	}
	w.sheet(SheetHistogram, []any{"Second", "Frequency", "Normalized Frequency"}, rows)
}
