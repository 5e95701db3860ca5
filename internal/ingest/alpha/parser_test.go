package alpha

import (
	"strings"
	"testing"
	"time"
)

// exportCSV holds two sessions: warmups in the exercise header, a notes line,
// bodyweight-plus loads with a dropset modifier, and an exercise recorded
// without equipment.
const exportCSV = `
"Upper · Day 1 · Week 2 · Upper-Lower";"2026-03-03 18:10 h";"0:58 hr"
"1. Bench Press · Barbell · 8 reps";"WU1 · 40 kg · 10 reps<br>WU2 · 60 kg · 5 reps"
#;KG;REPS;RIR
1;82,5;8;2
2;82,5;7;1
Paused first rep, elbows tucked
"2. Pull-ups · Bodyweight · 6 reps · 1 dropset";"WU1 · +0 kg · 5 reps"
#;KG;REPS;RIR
1;+10;6;0,5
2;+0;9;0

"Full Body";"2026-03-01 7:45 h";"0:40 hr"
"1. Goblet Squat · 12 reps"
#;KG;REPS;RIR
1;24;12;2
2;24;12;1
3;24;11;0
`

func parseExport(t *testing.T) []Session {
	t.Helper()
	sessions, err := Parse(strings.NewReader(exportCSV))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(sessions))
	}
	return sessions
}

// TestParseExport checks session headers and the exercise layout GymLog
// relies on: warmups ahead of working sets, notes ignored.
func TestParseExport(t *testing.T) {
	sessions := parseExport(t)

	upper := sessions[0]
	if upper.Name != "Upper · Day 1 · Week 2 · Upper-Lower" || upper.Duration != "0:58 hr" {
		t.Errorf("session = %q / %q", upper.Name, upper.Duration)
	}
	if want := time.Date(2026, 3, 3, 18, 10, 0, 0, time.UTC); !upper.Date.Equal(want) {
		t.Errorf("date = %v, want %v", upper.Date, want)
	}
	if len(upper.Exercises) != 2 {
		t.Fatalf("exercises = %d, want 2", len(upper.Exercises))
	}

	bench := upper.Exercises[0]
	if bench.Number != 1 || bench.Name != "Bench Press" || bench.Equipment != "Barbell" || bench.TargetReps != 8 {
		t.Errorf("bench = %+v", bench)
	}
	var warmups, working []Set
	for _, s := range bench.Sets {
		if s.IsWarmup {
			if len(working) > 0 {
				t.Fatal("warmup listed after a working set")
			}
			warmups = append(warmups, s)
			continue
		}
		working = append(working, s)
	}
	if len(warmups) != 2 || len(working) != 2 {
		t.Fatalf("warmups=%d working=%d, want 2 and 2", len(warmups), len(working))
	}
	if working[1].WeightKg != 82.5 || working[1].Reps != 7 || working[1].RIR != 1 {
		t.Errorf("second working set = %+v", working[1])
	}

	goblet := sessions[1].Exercises[0]
	if goblet.Name != "Goblet Squat" || goblet.Equipment != "" || len(goblet.Sets) != 3 {
		t.Errorf("goblet squat = %+v", goblet)
	}
}

// TestParseBodyweightPlus verifies "+N" loads and the dropset modifier do not
// leak into the name or equipment.
func TestParseBodyweightPlus(t *testing.T) {
	pullups := parseExport(t)[0].Exercises[1]
	if pullups.Name != "Pull-ups" || pullups.Equipment != "Bodyweight" || pullups.TargetReps != 6 {
		t.Fatalf("pull-ups = %+v", pullups)
	}
	if len(pullups.Sets) != 3 {
		t.Fatalf("sets = %d, want 3", len(pullups.Sets))
	}
	wu, loaded, bare := pullups.Sets[0], pullups.Sets[1], pullups.Sets[2]
	if !wu.IsWarmup || !wu.IsBodyweightPlus || wu.WeightKg != 0 {
		t.Errorf("warmup = %+v", wu)
	}
	if loaded.IsWarmup || !loaded.IsBodyweightPlus || loaded.WeightKg != 10 || loaded.RIR != 0.5 {
		t.Errorf("loaded set = %+v", loaded)
	}
	if !bare.IsBodyweightPlus || bare.WeightKg != 0 || bare.Reps != 9 {
		t.Errorf("bodyweight set = %+v", bare)
	}
}

// TestParseWeight covers decimal commas and the bodyweight-plus prefix.
func TestParseWeight(t *testing.T) {
	tests := []struct {
		in     string
		weight float64
		bw     bool
	}{
		{"102,5", 102.5, false},
		{" 60 ", 60, false},
		{"+35", 35, true},
		{"+0", 0, true},
		{"+2,5", 2.5, true},
		{"", 0, false},
	}
	for _, tt := range tests {
		weight, bw := parseWeight(tt.in)
		if weight != tt.weight || bw != tt.bw {
			t.Errorf("parseWeight(%q) = %v, %v; want %v, %v", tt.in, weight, bw, tt.weight, tt.bw)
		}
	}
}

// TestParseWarmupsSkipsUnknown keeps well-formed warmups and drops the rest.
func TestParseWarmupsSkipsUnknown(t *testing.T) {
	sets := parseWarmups("WU1 · 20 kg · 12 reps<br>stretch<br>WU2 · +5 kg · 3 reps")
	if len(sets) != 2 {
		t.Fatalf("warmups = %d, want 2", len(sets))
	}
	if sets[1].Number != 2 || !sets[1].IsBodyweightPlus || sets[1].WeightKg != 5 || sets[1].Reps != 3 {
		t.Errorf("second warmup = %+v", sets[1])
	}
}

// TestEmptyInput verifies that empty input returns no sessions without error.
func TestEmptyInput(t *testing.T) {
	sessions, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("sessions = %d, want 0", len(sessions))
	}
}

// TestSessionDate verifies single-digit and two-digit start hours.
func TestSessionDate(t *testing.T) {
	if want := time.Date(2026, 3, 1, 7, 45, 0, 0, time.UTC); !parseExport(t)[1].Date.Equal(want) {
		t.Errorf("date = %v, want %v", parseExport(t)[1].Date, want)
	}
	if _, err := parseSessionDate("2026-02-19 16:54"); err != nil {
		t.Errorf("24h time: %v", err)
	}
	if _, err := parseSessionDate("19.02.2026"); err == nil {
		t.Error("expected error for unknown date format")
	}
}

// TestParseOrphanLines rejects exercises and sets that have no parent.
func TestParseOrphanLines(t *testing.T) {
	tests := map[string]string{
		"set without exercise":     "\"Push\";\"2026-02-17 5:04 h\";\"1:12 hr\"\n1;100;6;0\n",
		"exercise without session": "\"1. Dips · Bodyweight · 10 reps\"\n",
	}
	for name, csv := range tests {
		if _, err := Parse(strings.NewReader(csv)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
