package timeline

// Histogram counts playback positions per second of video.
// Index s holds the number of values equal to s.
type Histogram []int

// HistogramRow is one {second, frequency} table row
type HistogramRow struct {
	Second    int `json:"second"`
	Frequency int `json:"frequency"`
}

// Bin counts values into a histogram of length duration.
// Values outside [0, duration) are ignored.
// duration must be in (0, MaxVideoDuration].
func Bin(values []int, duration int) (Histogram, error) {
	if err := checkDuration(duration); err != nil {
		return nil, err
	}

	h := make(Histogram, duration)
	for _, v := range values {
		if v >= 0 && v < duration {
			h[v]++
		}
	}
	return h, nil
}

// Seconds returns the x-axis 0..len(h)-1
func (h Histogram) Seconds() []int {
	seconds := make([]int, len(h))
	for i := range seconds {
		seconds[i] = i
	}
	return seconds
}

// Total returns the number of binned values
func (h Histogram) Total() int {
	total := 0
	for _, c := range h {
		total += c
	}
	return total
}

// Floats returns the frequencies as a float series for normalization
func (h Histogram) Floats() []float64 {
	out := make([]float64, len(h))
	for i, c := range h {
		out[i] = float64(c)
	}
	return out
}

// Rows returns the histogram as a table
func (h Histogram) Rows() []HistogramRow {
	rows := make([]HistogramRow, len(h))
	for i, c := range h {
		rows[i] = HistogramRow{Second: i, Frequency: c}
	}
	return rows
}
