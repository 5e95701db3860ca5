package models

import (
	"strconv"
	"strings"
)

// NormalizeName is the matching key for exercise names: trimmed and lower-cased.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ParseTargetReps turns "8,8,6" into exactly sets targets. Non-numeric parts
// are dropped; missing slots repeat the last number; no numbers at all yields zeros.
// "8" with 3 sets -> [8 8 8]; "10,8" with 3 sets -> [10 8 8].
func ParseTargetReps(csv string, sets int) []int {
	if sets < 0 {
		sets = 0
	}
	var numbers []int
	for _, part := range strings.Split(csv, ",") {
		if n, ok := leadingInt(strings.TrimSpace(part)); ok {
			numbers = append(numbers, n)
		}
	}
	target := make([]int, sets)
	if len(numbers) == 0 {
		return target
	}
	for i := range target {
		if i < len(numbers) {
			target[i] = numbers[i]
		} else {
			target[i] = numbers[len(numbers)-1]
		}
	}
	return target
}

// leadingInt parses an optional sign followed by digits at the start of s,
// ignoring anything after them ("8 reps" -> 8).
func leadingInt(s string) (int, bool) {
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// FormatTargetReps renders targets the way day editors show them: "8/8/6".
func FormatTargetReps(reps []int) string {
	parts := make([]string, len(reps))
	for i, r := range reps {
		parts[i] = strconv.Itoa(r)
	}
	return strings.Join(parts, "/")
}
