package timeline

// NormalizedSeries is a series rescaled into [Min, Max]
type NormalizedSeries struct {
	Values []float64 `json:"values"`
	Min    float64   `json:"min"`
	Max    float64   `json:"max"`

	// Degenerate is set when the source had zero range.
	// Every value is then Min.
	Degenerate bool `json:"degenerate"`
}

// Normalize applies a min-max transform mapping the smallest element of series
// to minVal and the largest to maxVal. A zero-range series maps entirely to
// minVal and is flagged Degenerate.
func Normalize(series []float64, minVal, maxVal float64) NormalizedSeries {
	out := NormalizedSeries{
		Values: make([]float64, len(series)),
		Min:    minVal,
		Max:    maxVal,
	}
	if len(series) == 0 {
		return out
	}

	srcMin, srcMax := series[0], series[0]
	for _, x := range series[1:] {
		srcMin = min(srcMin, x)
		srcMax = max(srcMax, x)
	}

	if srcMax == srcMin {
		for i := range out.Values {
			out.Values[i] = minVal
		}
		out.Degenerate = true
		return out
	}

	span := srcMax - srcMin
	for i, x := range series {
		out.Values[i] = (x-srcMin)/span*(maxVal-minVal) + minVal
	}
	return out
}
