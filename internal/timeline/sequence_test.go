package timeline

import (
	"slices"
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name        string
		input       []int
		wantValues  []int
		wantIndices []int
	}{
		{"empty", []int{}, []int{}, []int{}},
		{"nil", nil, []int{}, []int{}},
		{"singleton dropped", []int{5}, []int{}, []int{}},
		{"single run", []int{1, 2, 3}, []int{1, 2, 3}, []int{0, 1, 2}},
		{"trailing singleton dropped", []int{1, 2, 5, 6, 7, 9}, []int{1, 2, 5, 6, 7}, []int{0, 1, 2, 3, 4}},
		{"leading and trailing singletons", []int{1, 3, 4, 5, 7}, []int{3, 4, 5}, []int{1, 2, 3}},
		{"run at very end", []int{5, 7, 8}, []int{7, 8}, []int{1, 2}},
		{"no runs", []int{3, 2, 1}, []int{}, []int{}},
		{"repeated value starts new run", []int{1, 1, 2}, []int{1, 2}, []int{1, 2}},
		{"replay keeps both runs", []int{0, 1, 0, 1}, []int{0, 1, 0, 1}, []int{0, 1, 2, 3}},
		{"negative values", []int{-2, -1, 0}, []int{-2, -1, 0}, []int{0, 1, 2}},
		{"gap of two breaks run", []int{1, 3}, []int{}, []int{}},
		{"isolated values between runs", []int{10, 11, 40, 20, 21, 22, 90}, []int{10, 11, 20, 21, 22}, []int{0, 1, 3, 4, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, indices := Extract(tt.input)
			if !slices.Equal(values, tt.wantValues) {
				t.Errorf("Extract(%v) values = %v, want %v", tt.input, values, tt.wantValues)
			}
			if !slices.Equal(indices, tt.wantIndices) {
				t.Errorf("Extract(%v) indices = %v, want %v", tt.input, indices, tt.wantIndices)
			}
			if values == nil || indices == nil {
				t.Errorf("Extract(%v) returned nil slices, want empty", tt.input)
			}
		})
	}
}

func TestExtractIdempotent(t *testing.T) {
	inputs := [][]int{
		{1, 2, 3},
		{4, 5, 6, 7, 8},
		{1, 2, 3, 9},
		{0, 1},
	}

	for _, input := range inputs {
		first, _ := Extract(input)
		second, indices := Extract(first)
		if !slices.Equal(first, second) {
			t.Errorf("Extract(Extract(%v)) = %v, want %v", input, second, first)
		}
		for i, idx := range indices {
			if idx != i {
				t.Errorf("Extract(%v) indices = %v, want 0..%d", first, indices, len(first)-1)
				break
			}
		}
	}
}

func TestExtractIndicesPointAtValues(t *testing.T) {
	input := []int{7, 1, 2, 3, 3, 4, 5, 8, 12, 13}
	values, indices := Extract(input)

	if len(values) != len(indices) {
		t.Fatalf("len(values) = %d, len(indices) = %d", len(values), len(indices))
	}
	for i, idx := range indices {
		if input[idx] != values[i] {
			t.Errorf("input[%d] = %d, want %d", idx, input[idx], values[i])
		}
	}
}

func TestRuns(t *testing.T) {
	runs := Runs([]int{1, 2, 5, 6, 7, 9, 3, 4})

	if len(runs) != 3 {
		t.Fatalf("Runs() returned %d runs, want 3", len(runs))
	}

	want := []struct {
		start, end, length int
	}{
		{1, 2, 2},
		{5, 7, 3},
		{3, 4, 2},
	}
	for i, w := range want {
		r := runs[i]
		if r.Start() != w.start || r.End() != w.end || r.Len() != w.length {
			t.Errorf("run %d = [%d..%d] len %d, want [%d..%d] len %d",
				i, r.Start(), r.End(), r.Len(), w.start, w.end, w.length)
		}
	}

	if !slices.Equal(runs[2].Indices, []int{6, 7}) {
		t.Errorf("run 2 indices = %v, want [6 7]", runs[2].Indices)
	}
}

func TestRunsEmpty(t *testing.T) {
	if runs := Runs(nil); len(runs) != 0 {
		t.Errorf("Runs(nil) = %v, want none", runs)
	}
	if runs := Runs([]int{4, 9, 2}); len(runs) != 0 {
		t.Errorf("Runs([4 9 2]) = %v, want none", runs)
	}
}
