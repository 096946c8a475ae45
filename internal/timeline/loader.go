package timeline

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

// document is the on-disk shape of an event log
type document struct {
	VideoDuration *int       `json:"videoDuration" validate:"required"`
	Events        []rawEvent `json:"events" validate:"required,dive"`
}

// rawEvent is a single event before coercion
type rawEvent struct {
	Name      string          `json:"name" validate:"required"`
	Timestamp json.RawMessage `json:"timestamp" validate:"required"`
	Value     *float64        `json:"value" validate:"required"`
}

// LoadOptions tunes how raw events are coerced
type LoadOptions struct {
	// TimestampLayouts are tried before the built-in layouts
	TimestampLayouts []string
}

// builtinLayouts are tried in order for string timestamps.
// Fractional seconds are accepted by every layout that has a seconds field.
var builtinLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// maxExactValue bounds event values to integers a float64 represents exactly
const maxExactValue = 1 << 53

var (
	docValidator     *validator.Validate
	docValidatorOnce sync.Once
)

// getValidator returns the shared validator, reporting fields by their JSON names
func getValidator() *validator.Validate {
	docValidatorOnce.Do(func() {
		docValidator = validator.New(validator.WithRequiredStructEnabled())
		docValidator.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return docValidator
}

// LoadFile reads and loads an event log from disk
func LoadFile(path string, opts LoadOptions) (*Session, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path chosen by the user
	if err != nil {
		return nil, fmt.Errorf("read event log: %w", err)
	}
	return Load(data, opts)
}

// Load parses an event log document into a Session.
// Events keep their source order. Values are rounded half to even.
// Any unparseable timestamp rejects the whole document.
func Load(data []byte, opts LoadOptions) (*Session, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &Error{Kind: KindMalformedInput, Index: -1, Detail: "invalid JSON document", Err: err}
	}

	if err := validateDocument(&doc); err != nil {
		return nil, err
	}

	if err := checkDuration(*doc.VideoDuration); err != nil {
		return nil, err
	}

	layouts := make([]string, 0, len(opts.TimestampLayouts)+len(builtinLayouts))
	layouts = append(layouts, opts.TimestampLayouts...)
	layouts = append(layouts, builtinLayouts...)

	events := make([]Event, 0, len(doc.Events))
	for i, raw := range doc.Events {
		e, err := coerceEvent(i, raw, layouts)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	return &Session{
		VideoDuration: *doc.VideoDuration,
		Events:        events,
	}, nil
}

// validateDocument checks required fields and reports the first failure
func validateDocument(doc *document) error {
	err := getValidator().Struct(doc)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &Error{Kind: KindMalformedInput, Index: -1, Detail: "validation failed", Err: err}
	}

	first := verrs[0]
	field := fieldPath(first.Namespace())
	return &Error{
		Kind:   KindMalformedInput,
		Field:  field,
		Index:  eventIndex(field),
		Detail: fmt.Sprintf("%s field is %s", first.Field(), first.Tag()),
	}
}

// fieldPath strips the root struct name from a validator namespace
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

// eventIndex extracts N from "events[N]..." or returns -1
func eventIndex(field string) int {
	rest, ok := strings.CutPrefix(field, "events[")
	if !ok {
		return -1
	}
	num, _, ok := strings.Cut(rest, "]")
	if !ok {
		return -1
	}
	n, err := strconv.Atoi(num)
	if err != nil {
		return -1
	}
	return n
}

// coerceEvent converts a validated raw event into an Event
func coerceEvent(i int, raw rawEvent, layouts []string) (Event, error) {
	trimmed := bytes.TrimSpace(raw.Timestamp)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Event{}, malformed(i, fmt.Sprintf("events[%d].timestamp", i), "timestamp field is required")
	}

	ts, err := parseTimestamp(trimmed, layouts)
	if err != nil {
		return Event{}, &Error{
			Kind:   KindUnparseableTimestamp,
			Field:  fmt.Sprintf("events[%d].timestamp", i),
			Index:  i,
			Detail: fmt.Sprintf("cannot parse %s", trimmed),
			Err:    err,
		}
	}

	if math.Abs(*raw.Value) > maxExactValue {
		return Event{}, malformed(i, fmt.Sprintf("events[%d].value", i), "value %g out of range", *raw.Value)
	}

	return Event{
		Name:      EventName(raw.Name),
		Timestamp: ts,
		Value:     RoundValue(*raw.Value),
		Position:  i,
	}, nil
}

// RoundValue rounds a playback position to the nearest second, ties to even
func RoundValue(v float64) int {
	return int(math.RoundToEven(v))
}

// parseTimestamp accepts a JSON string or number
func parseTimestamp(raw json.RawMessage, layouts []string) (time.Time, error) {
	if raw[0] != '"' {
		return parseEpoch(string(raw))
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty timestamp")
	}

	if t, err := parseEpoch(s); err == nil {
		return t, nil
	}

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("no layout matches %q", s)
}

// parseEpoch reads a numeric epoch. The unit is chosen by magnitude:
// seconds below 1e11, milliseconds below 1e14, microseconds below 1e17,
// nanoseconds otherwise.
func parseEpoch(s string) (time.Time, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return time.Time{}, fmt.Errorf("invalid epoch %q", s)
	}

	whole, frac := math.Modf(f)
	abs := math.Abs(f)
	switch {
	case abs < 1e11:
		return time.Unix(int64(whole), int64(frac*1e9)).UTC(), nil
	case abs < 1e14:
		return time.UnixMilli(int64(whole)).Add(time.Duration(frac * 1e6)).UTC(), nil
	case abs < 1e17:
		return time.UnixMicro(int64(whole)).Add(time.Duration(frac * 1e3)).UTC(), nil
	case abs < 9.2e18:
		return time.Unix(0, int64(whole)).UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("epoch %q out of range", s)
	}
}
