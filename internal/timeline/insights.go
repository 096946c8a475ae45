package timeline

import (
	"fmt"
	"sort"
)

// Contribution is one event type's share of the log
type Contribution struct {
	Type       EventName `json:"type"`
	Count      int       `json:"count"`
	Ratio      float64   `json:"ratio"`      // Count / total
	Percentage string    `json:"percentage"` // Ratio as "12.34%"
}

// ValueBreakdown counts events at one playback position by category.
// Names outside the four known categories count toward Total only.
type ValueBreakdown struct {
	Value    int `json:"value"`
	Total    int `json:"total"`
	Periodic int `json:"periodic"`
	Seek     int `json:"seek"`
	Play     int `json:"play"`
	Pause    int `json:"pause"`
}

// Insights are descriptive statistics over a whole session
type Insights struct {
	TotalEvents   int              `json:"totalEvents"`
	Contributions []Contribution   `json:"contributions"` // Count desc, then type
	Values        []ValueBreakdown `json:"values"`        // Total desc, then value
}

// Summarize computes event-type contributions and the per-value breakdown
func Summarize(s *Session) Insights {
	counts := make(map[EventName]int)
	byValue := make(map[int]*ValueBreakdown)

	for i := range s.Events {
		e := &s.Events[i]
		counts[e.Name]++

		row, ok := byValue[e.Value]
		if !ok {
			row = &ValueBreakdown{Value: e.Value}
			byValue[e.Value] = row
		}
		row.Total++
		switch e.Name {
		case EventPeriodic:
			row.Periodic++
		case EventSeek:
			row.Seek++
		case EventPlay:
			row.Play++
		case EventPause:
			row.Pause++
		}
	}

	total := len(s.Events)
	contributions := make([]Contribution, 0, len(counts))
	for name, count := range counts {
		ratio := float64(count) / float64(total)
		contributions = append(contributions, Contribution{
			Type:       name,
			Count:      count,
			Ratio:      ratio,
			Percentage: FormatPercentage(ratio),
		})
	}
	sort.Slice(contributions, func(i, j int) bool {
		if contributions[i].Count != contributions[j].Count {
			return contributions[i].Count > contributions[j].Count
		}
		return contributions[i].Type < contributions[j].Type
	})

	values := make([]ValueBreakdown, 0, len(byValue))
	for _, row := range byValue {
		values = append(values, *row)
	}
	sort.Slice(values, func(i, j int) bool {
		if values[i].Total != values[j].Total {
			return values[i].Total > values[j].Total
		}
		return values[i].Value < values[j].Value
	})

	return Insights{
		TotalEvents:   total,
		Contributions: contributions,
		Values:        values,
	}
}

// TopValues returns the n most frequent values; n <= 0 returns all of them
func (in Insights) TopValues(n int) []ValueBreakdown {
	if n <= 0 || n >= len(in.Values) {
		return in.Values
	}
	return in.Values[:n]
}

// FormatPercentage renders a ratio with two decimals, e.g. 0.125 -> "12.50%"
func FormatPercentage(ratio float64) string {
	return fmt.Sprintf("%.2f%%", ratio*100)
}
