package example

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/claude/gymlog/internal/models"
)

const sampleMarkdown = `# Notes

### Ignored — Before
- Curl — 3x10

## Example Program

### Day 1 — Push
- Bench Press — 3x8,8,6
- Overhead Press – 2 x 10
- Dips - 3x12
- no prescription here
- Broken —
- Zero Sets — 0x5
Some prose line.

### Legs
- Squat — 5x5
- Lunge — 3x

## Next Section
### Day 9 — Never
- Deadlift — 1x5
`

// TestParse verifies days, item splitting on each dash style and skipping of
// lines that do not carry a prescription.
func TestParse(t *testing.T) {
	p := Parse(sampleMarkdown)
	if p.Name != "Example Program" {
		t.Errorf("name = %q", p.Name)
	}
	if len(p.Days) != 2 {
		t.Fatalf("days = %d, want 2: %+v", len(p.Days), p.Days)
	}

	push := p.Days[0]
	if push.Name != "Push" {
		t.Errorf("day 1 name = %q, want Push", push.Name)
	}
	want := []Item{
		{Exercise: "Bench Press", Sets: 3, RepsCSV: "8,8,6"},
		{Exercise: "Overhead Press", Sets: 2, RepsCSV: "10"},
		{Exercise: "Dips", Sets: 3, RepsCSV: "12"},
	}
	if !slices.Equal(push.Items, want) {
		t.Errorf("day 1 items = %+v\nwant %+v", push.Items, want)
	}

	legs := p.Days[1]
	if legs.Name != "Legs" || len(legs.Items) != 1 || legs.Items[0].Exercise != "Squat" {
		t.Errorf("day 2 = %+v", legs)
	}
}

// TestParseBundledDocument verifies the embedded program.md yields a usable program.
func TestParseBundledDocument(t *testing.T) {
	p := Parse(Document)
	if len(p.Days) == 0 {
		t.Fatal("bundled document has no days")
	}
	for _, d := range p.Days {
		if d.Name == "" || len(d.Items) == 0 {
			t.Errorf("day %+v is empty", d)
		}
	}
}

// TestParseNoSection verifies a document without the example section gives no days.
func TestParseNoSection(t *testing.T) {
	if p := Parse("# Title\n### Day — A\n- Squat — 3x5\n"); len(p.Days) != 0 {
		t.Errorf("days = %+v", p.Days)
	}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// TestApply verifies exercise reuse by name, creation of missing exercises,
// target parsing and the default program switch.
func TestApply(t *testing.T) {
	st := models.NewState()
	st.Exercises = []models.Exercise{{ID: "bench", Name: "bench press"}}
	st.Programs = []models.Program{{ID: "mine", Name: "Mine"}}
	st.UI.DefaultProgramID = "mine"

	got, err := Apply(st, Parse(sampleMarkdown), sequentialIDs())
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(st.Programs) != 2 || st.Programs[1].ID != got.ID {
		t.Fatalf("program not appended: %+v", st.Programs)
	}
	if st.UI.DefaultProgramID != got.ID {
		t.Errorf("default = %q, want %q", st.UI.DefaultProgramID, got.ID)
	}
	if got.NextDayIndex != 0 || len(got.Days) != 2 {
		t.Errorf("program = %+v", got)
	}

	bench := got.Days[0].Items[0]
	if bench.ExerciseID != "bench" {
		t.Errorf("bench press not reused: %q", bench.ExerciseID)
	}
	if !slices.Equal(bench.TargetReps, []int{8, 8, 6}) {
		t.Errorf("targets = %v", bench.TargetReps)
	}
	if dips := got.Days[0].Items[2]; !slices.Equal(dips.TargetReps, []int{12, 12, 12}) {
		t.Errorf("dips targets = %v", dips.TargetReps)
	}
	// bench reused; overhead press, dips, squat created
	if len(st.Exercises) != 4 {
		t.Errorf("exercises = %+v", st.Exercises)
	}
}

// TestApplyNoDays verifies an empty parse is rejected without touching state.
func TestApplyNoDays(t *testing.T) {
	st := models.NewState()
	if _, err := Apply(st, Program{Name: ProgramName}, sequentialIDs()); !errors.Is(err, ErrNoDays) {
		t.Fatalf("err = %v, want ErrNoDays", err)
	}
	if len(st.Programs) != 0 || st.UI.DefaultProgramID != "" {
		t.Error("state modified")
	}
}

// TestShouldAutoImport covers the fresh-install check.
func TestShouldAutoImport(t *testing.T) {
	st := models.NewState()
	if !ShouldAutoImport(st) {
		t.Error("fresh state should auto-import")
	}
	st.UI.ExampleProgramImported = true
	if ShouldAutoImport(st) {
		t.Error("already imported once")
	}
	st.UI.ExampleProgramImported = false
	st.Programs = []models.Program{{ID: "p"}}
	if ShouldAutoImport(st) {
		t.Error("state with programs should not auto-import")
	}
}
