package timeline

import "time"

// EventName identifies the kind of playback event
type EventName string

// Known event names. Documents may carry other names; they are loaded as-is.
const (
	EventPlay     EventName = "play"
	EventPause    EventName = "pause"
	EventSeek     EventName = "seek"
	EventPeriodic EventName = "periodic"
)

// ClockLayout is the 12-hour wall clock format used for display columns
const ClockLayout = "03:04:05 PM"

// Event is a single playback event from the log
type Event struct {
	Name      EventName `json:"name"`
	Timestamp time.Time `json:"timestamp"`
	Value     int       `json:"value"`    // Rounded playback position in seconds
	Position  int       `json:"position"` // Index in the source document
}

// Clock returns the event time as a 12-hour clock string
func (e Event) Clock() string {
	return e.Timestamp.Format(ClockLayout)
}

// Session is one loaded event log
type Session struct {
	VideoDuration int     `json:"videoDuration"` // Seconds, always > 0
	Events        []Event `json:"events"`        // Source order
}

// Periodic returns the periodic events sorted by timestamp.
// Events with equal timestamps keep their source order.
func (s *Session) Periodic() []Event {
	periodic := make([]Event, 0, len(s.Events))
	for _, e := range s.Events {
		if e.Name == EventPeriodic {
			periodic = append(periodic, e)
		}
	}
	sortByTimestamp(periodic)
	return periodic
}

// Sequence is a maximal run of consecutive playback positions
type Sequence struct {
	Indices []int `json:"indices"` // Positions in the extractor input
	Values  []int `json:"values"`
}

// Len returns the number of members in the run
func (s Sequence) Len() int { return len(s.Values) }

// Start returns the first playback second of the run
func (s Sequence) Start() int { return s.Values[0] }

// End returns the last playback second of the run
func (s Sequence) End() int { return s.Values[len(s.Values)-1] }
