package models

// TimestampLayout formats UTC times the way performedAt is stored:
// millisecond precision with a literal Z, so strings sort chronologically.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Exercise is a reusable entry in the exercise library.
type Exercise struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DayItem prescribes one exercise within a day. TargetReps always has Sets entries.
type DayItem struct {
	ID         string `json:"id"`
	ExerciseID string `json:"exerciseId"`
	Sets       int    `json:"sets"`
	TargetReps []int  `json:"targetReps"`
}

// Day is a named, ordered list of exercises within a program.
type Day struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Items []DayItem `json:"items"`
}

// Program is an ordered rotation of days. NextDayIndex points at the day
// that comes next and is only meaningful while Days is non-empty.
type Program struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	NextDayIndex int    `json:"nextDayIndex"`
	Days         []Day  `json:"days"`
}

// SetResult is one performed set as recorded in history.
// Reps and Weight are nil when the set was not recorded.
type SetResult struct {
	Target int      `json:"target"`
	Reps   *int     `json:"reps"`
	Weight *float64 `json:"weight"`
}

// HistoryExercise is the snapshotted performance of one exercise.
// The name is copied at completion time, not referenced by id.
type HistoryExercise struct {
	Name string      `json:"name"`
	Sets []SetResult `json:"sets"`
}

// HistoryEntry is an immutable record of one completed session.
// PerformedAt is an ISO-8601 UTC timestamp, so entries sort lexicographically.
type HistoryEntry struct {
	ID          string            `json:"id"`
	ProgramID   string            `json:"programId"`
	DayID       string            `json:"dayId"`
	ProgramName string            `json:"programName"`
	DayName     string            `json:"dayName"`
	PerformedAt string            `json:"performedAt"`
	Exercises   []HistoryExercise `json:"exercises"`
}

// UIState holds the small amount of UI preference state that is persisted.
type UIState struct {
	DefaultProgramID       string `json:"defaultProgramId"`
	ExampleProgramImported bool   `json:"exampleProgramImported,omitempty"`
}

// File is a bundled document kept in the blob store (e.g. program.md).
type File struct {
	Path      string `json:"path"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt,omitempty"`
}
