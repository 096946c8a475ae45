package timeline

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies failures reported by the pipeline
type ErrorKind int

const (
	KindMalformedInput ErrorKind = iota + 1
	KindUnparseableTimestamp
	KindDegenerateNormalization
	KindOutOfRangeDuration
)

// String returns the kind name used in logs and API responses
func (k ErrorKind) String() string {
	switch k {
	case KindMalformedInput:
		return "malformed_input"
	case KindUnparseableTimestamp:
		return "unparseable_timestamp"
	case KindDegenerateNormalization:
		return "degenerate_normalization"
	case KindOutOfRangeDuration:
		return "out_of_range_duration"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is. Any *Error of the same kind matches.
var (
	ErrMalformedInput          = &Error{Kind: KindMalformedInput, Index: -1}
	ErrUnparseableTimestamp    = &Error{Kind: KindUnparseableTimestamp, Index: -1}
	ErrDegenerateNormalization = &Error{Kind: KindDegenerateNormalization, Index: -1}
	ErrOutOfRangeDuration      = &Error{Kind: KindOutOfRangeDuration, Index: -1}
)

// Error is a structured pipeline error: a kind plus the context it occurred in
type Error struct {
	Kind   ErrorKind
	Field  string // Document field, e.g. "events[3].timestamp"
	Index  int    // Event index, -1 when not event-specific
	Detail string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Field != "" {
		b.WriteString(" at ")
		b.WriteString(e.Field)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or 0
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func malformed(index int, field, format string, args ...any) *Error {
	return &Error{Kind: KindMalformedInput, Field: field, Index: index, Detail: fmt.Sprintf(format, args...)}
}

// MaxVideoDuration bounds videoDuration to one week of seconds
const MaxVideoDuration = 7 * 24 * 60 * 60

// checkDuration rejects durations outside (0, MaxVideoDuration]
func checkDuration(duration int) error {
	if duration <= 0 || duration > MaxVideoDuration {
		return durationOutOfRange(duration)
	}
	return nil
}

func durationOutOfRange(duration int) *Error {
	return &Error{
		Kind:   KindOutOfRangeDuration,
		Field:  "videoDuration",
		Index:  -1,
		Detail: fmt.Sprintf("must be in (0, %d], got %d", MaxVideoDuration, duration),
	}
}
