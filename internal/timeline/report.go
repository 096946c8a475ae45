package timeline

import (
	"sort"
	"time"

	"github.com/goccy/go-json"
)

// Options configures a pipeline run
type Options struct {
	Load LoadOptions

	// Target range for the normalized histogram
	NormalizeMin float64
	NormalizeMax float64
}

// DefaultOptions normalizes into [0, 1]
func DefaultOptions() Options {
	return Options{NormalizeMin: 0, NormalizeMax: 1}
}

// ContinuousSeries holds the retained members of continuous viewing runs,
// as parallel timestamp/value series
type ContinuousSeries struct {
	Timestamps []time.Time `json:"timestamps"`
	Values     []int       `json:"values"`
}

// ContinuousRow is one {timestamp, clock, value} table row
type ContinuousRow struct {
	Timestamp time.Time `json:"timestamp"`
	Clock     string    `json:"clock"`
	Value     int       `json:"value"`
}

// Rows returns the series as a table
func (c ContinuousSeries) Rows() []ContinuousRow {
	rows := make([]ContinuousRow, len(c.Values))
	for i, v := range c.Values {
		rows[i] = ContinuousRow{
			Timestamp: c.Timestamps[i],
			Clock:     c.Timestamps[i].Format(ClockLayout),
			Value:     v,
		}
	}
	return rows
}

// NormalizedRow is one {second, frequency, normalizedFrequency} table row
type NormalizedRow struct {
	Second              int     `json:"second"`
	Frequency           int     `json:"frequency"`
	NormalizedFrequency float64 `json:"normalizedFrequency"`
}

// Warning is a non-fatal condition noticed during a run
type Warning struct {
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
}

// Report is the full output of one pipeline run
type Report struct {
	Session    *Session
	Insights   Insights
	Periodic   []Event    // Periodic events sorted by timestamp
	Runs       []Sequence // Kept runs over Periodic values
	Continuous ContinuousSeries
	Histogram  Histogram
	Normalized NormalizedSeries
	Warnings   []Warning
}

// AnalyzeFile loads an event log from disk and analyzes it
func AnalyzeFile(path string, opts Options) (*Report, error) {
	s, err := LoadFile(path, opts.Load)
	if err != nil {
		return nil, err
	}
	return Analyze(s, opts)
}

// AnalyzeDocument loads an in-memory event log and analyzes it
func AnalyzeDocument(data []byte, opts Options) (*Report, error) {
	s, err := Load(data, opts.Load)
	if err != nil {
		return nil, err
	}
	return Analyze(s, opts)
}

// Analyze runs extraction, binning, normalization and aggregation over a session
func Analyze(s *Session, opts Options) (*Report, error) {
	periodic := s.Periodic()
	values := make([]int, len(periodic))
	for i, e := range periodic {
		values[i] = e.Value
	}

	runs := Runs(values)
	flatValues, flatIndices := Extract(values)

	continuous := ContinuousSeries{
		Timestamps: make([]time.Time, len(flatIndices)),
		Values:     flatValues,
	}
	for i, idx := range flatIndices {
		continuous.Timestamps[i] = periodic[idx].Timestamp
	}

	hist, err := Bin(flatValues, s.VideoDuration)
	if err != nil {
		return nil, err
	}

	normalized := Normalize(hist.Floats(), opts.NormalizeMin, opts.NormalizeMax)

	r := &Report{
		Session:    s,
		Insights:   Summarize(s),
		Periodic:   periodic,
		Runs:       runs,
		Continuous: continuous,
		Histogram:  hist,
		Normalized: normalized,
	}
	if normalized.Degenerate {
		r.Warnings = append(r.Warnings, Warning{
			Kind:   KindDegenerateNormalization.String(),
			Detail: "histogram has zero range; normalized frequencies set to the range minimum",
		})
	}
	return r, nil
}

// NormalizedRows joins the histogram with its normalized frequencies
func (r *Report) NormalizedRows() []NormalizedRow {
	rows := make([]NormalizedRow, len(r.Histogram))
	for i, c := range r.Histogram {
		rows[i] = NormalizedRow{
			Second:              i,
			Frequency:           c,
			NormalizedFrequency: r.Normalized.Values[i],
		}
	}
	return rows
}

// MarshalJSON renders the report as its output tables
func (r *Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Session    *Session         `json:"session"`
		Insights   Insights         `json:"insights"`
		Continuous ContinuousSeries `json:"continuous"`
		Runs       []Sequence       `json:"runs"`
		Histogram  []HistogramRow   `json:"histogram"`
		Normalized []NormalizedRow  `json:"normalized"`
		Degenerate bool             `json:"degenerate"`
		Warnings   []Warning        `json:"warnings,omitempty"`
	}{
		Session:    r.Session,
		Insights:   r.Insights,
		Continuous: r.Continuous,
		Runs:       r.Runs,
		Histogram:  r.Histogram.Rows(),
		Normalized: r.NormalizedRows(),
		Degenerate: r.Normalized.Degenerate,
		Warnings:   r.Warnings,
	})
}

// sortByTimestamp orders events by time, keeping source order for ties
func sortByTimestamp(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})
}
