package timeline

import (
	"errors"
	"slices"
	"testing"
)

func TestBin(t *testing.T) {
	tests := []struct {
		name     string
		values   []int
		duration int
		want     Histogram
	}{
		{"empty", nil, 4, Histogram{0, 0, 0, 0}},
		{"one per second", []int{0, 1, 2}, 3, Histogram{1, 1, 1}},
		{"repeats", []int{2, 2, 2, 0}, 3, Histogram{1, 0, 3}},
		{"drops at duration", []int{0, 5}, 5, Histogram{1, 0, 0, 0, 0}},
		{"drops negative", []int{-1, 1}, 2, Histogram{0, 1}},
		{"drops beyond", []int{100, 200}, 3, Histogram{0, 0, 0}},
		{"scenario", []int{0, 1, 3, 4}, 5, Histogram{1, 1, 0, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Bin(tt.values, tt.duration)
			if err != nil {
				t.Fatalf("Bin() error = %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Bin(%v, %d) = %v, want %v", tt.values, tt.duration, got, tt.want)
			}
		})
	}
}

func TestBinRejectsDurationOutOfRange(t *testing.T) {
	for _, d := range []int{0, -1, -30, MaxVideoDuration + 1, 1 << 62} {
		h, err := Bin([]int{1, 2}, d)
		if !errors.Is(err, ErrOutOfRangeDuration) {
			t.Errorf("Bin(_, %d) error = %v, want out of range duration", d, err)
		}
		if h != nil {
			t.Errorf("Bin(_, %d) = %v, want nil", d, h)
		}
	}
}

func TestBinMaxDuration(t *testing.T) {
	h, err := Bin([]int{0, MaxVideoDuration - 1}, MaxVideoDuration)
	if err != nil {
		t.Fatalf("Bin() error = %v", err)
	}
	if len(h) != MaxVideoDuration || h.Total() != 2 {
		t.Errorf("len = %d, total = %d; want %d, 2", len(h), h.Total(), MaxVideoDuration)
	}
}

func TestBinTotalBound(t *testing.T) {
	tests := []struct {
		values   []int
		duration int
		inRange  bool
	}{
		{[]int{0, 1, 2, 3}, 4, true},
		{[]int{0, 1, 2, 3}, 3, false},
		{[]int{-1, 0}, 10, false},
		{[]int{}, 1, true},
		{[]int{9, 9, 9}, 10, true},
	}

	for _, tt := range tests {
		h, err := Bin(tt.values, tt.duration)
		if err != nil {
			t.Fatalf("Bin() error = %v", err)
		}
		total := h.Total()
		if total > len(tt.values) {
			t.Errorf("Bin(%v, %d) total %d exceeds %d values", tt.values, tt.duration, total, len(tt.values))
		}
		if (total == len(tt.values)) != tt.inRange {
			t.Errorf("Bin(%v, %d) total = %d, in range = %v", tt.values, tt.duration, total, tt.inRange)
		}
	}
}

func TestBinIgnoresOrder(t *testing.T) {
	a, _ := Bin([]int{3, 1, 2, 1, 0}, 4)
	b, _ := Bin([]int{0, 1, 1, 2, 3}, 4)
	if !slices.Equal(a, b) {
		t.Errorf("Bin depends on order: %v vs %v", a, b)
	}
}

func TestHistogramSecondsAndRows(t *testing.T) {
	h := Histogram{2, 0, 5}

	if got := h.Seconds(); !slices.Equal(got, []int{0, 1, 2}) {
		t.Errorf("Seconds() = %v, want [0 1 2]", got)
	}

	rows := h.Rows()
	if len(rows) != 3 {
		t.Fatalf("Rows() len = %d, want 3", len(rows))
	}
	if rows[2] != (HistogramRow{Second: 2, Frequency: 5}) {
		t.Errorf("Rows()[2] = %+v, want {2 5}", rows[2])
	}

	if got := h.Floats(); !slices.Equal(got, []float64{2, 0, 5}) {
		t.Errorf("Floats() = %v, want [2 0 5]", got)
	}
}
