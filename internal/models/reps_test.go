package models

import (
	"slices"
	"testing"
)

// TestParseTargetReps covers the CSV forms accepted by day editors and the
// example program document.
func TestParseTargetReps(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		sets int
		want []int
	}{
		{"single value repeats", "8", 3, []int{8, 8, 8}},
		{"exact", "8,8,6", 3, []int{8, 8, 6}},
		{"short list repeats last", "10,8", 4, []int{10, 8, 8, 8}},
		{"long list truncates", "12,10,8,6", 2, []int{12, 10}},
		{"empty gives zeros", "", 3, []int{0, 0, 0}},
		{"garbage dropped", "x, 5 ,y", 2, []int{5, 5}},
		{"spaces", " 8 , 6 ", 2, []int{8, 6}},
		{"trailing text", "8 reps", 1, []int{8}},
		{"zero sets", "8", 0, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseTargetReps(tt.csv, tt.sets); !slices.Equal(got, tt.want) {
				t.Errorf("ParseTargetReps(%q, %d) = %v, want %v", tt.csv, tt.sets, got, tt.want)
			}
		})
	}
}

// TestNormalizeName verifies names match case-insensitively after trimming.
func TestNormalizeName(t *testing.T) {
	if got := NormalizeName("  Bench Press "); got != "bench press" {
		t.Errorf("NormalizeName = %q", got)
	}
}

// TestFormatTargetReps verifies the slash-joined display form.
func TestFormatTargetReps(t *testing.T) {
	if got := FormatTargetReps([]int{8, 8, 6}); got != "8/8/6" {
		t.Errorf("FormatTargetReps = %q, want 8/8/6", got)
	}
}
