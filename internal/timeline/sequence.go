package timeline

// Runs partitions values into maximal runs where each value is the previous
// plus one. A run starts at the first element and wherever that chain breaks.
// Runs of length 1 are dropped; the rest are returned in discovery order.
func Runs(values []int) []Sequence {
	var runs []Sequence
	var current Sequence

	flush := func() {
		if current.Len() > 1 {
			runs = append(runs, current)
		}
		current = Sequence{}
	}

	for i, v := range values {
		if current.Len() > 0 && v != current.End()+1 {
			flush()
		}
		current.Indices = append(current.Indices, i)
		current.Values = append(current.Values, v)
	}
	flush()

	return runs
}

// Extract returns the members of every kept run, flattened in order,
// alongside their indices in values. Isolated values never appear.
func Extract(values []int) (flatValues, flatIndices []int) {
	flatValues = []int{}
	flatIndices = []int{}
	for _, run := range Runs(values) {
		flatValues = append(flatValues, run.Values...)
		flatIndices = append(flatIndices, run.Indices...)
	}
	return flatValues, flatIndices
}
