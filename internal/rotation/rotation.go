// Package rotation tracks which day of a program comes next. Each completed
// session advances the pointer round-robin; deleting days keeps it pointing
// at a valid index.
package rotation

import "github.com/claude/gymlog/internal/models"

// ResolveDefaultDay returns the day the program's rotation pointer selects and
// its index, or nil and -1 when the program has no days. A stale pointer is
// clamped into range.
func ResolveDefaultDay(p *models.Program) (*models.Day, int) {
	if p == nil || len(p.Days) == 0 {
		return nil, -1
	}
	idx := max(0, min(p.NextDayIndex, len(p.Days)-1))
	return &p.Days[idx], idx
}

// Advance moves the pointer past the completed day. A negative index resets it
// to the first day. No-op for a program without days.
func Advance(p *models.Program, completedDayIndex int) {
	if p == nil || len(p.Days) == 0 {
		return
	}
	if completedDayIndex < 0 {
		p.NextDayIndex = 0
		return
	}
	p.NextDayIndex = (completedDayIndex + 1) % len(p.Days)
}

// CompletedIndex picks the index to advance from: the session's recorded
// index when known, otherwise the current position of its day.
func CompletedIndex(p *models.Program, dayIndex int, dayID string) int {
	if dayIndex >= 0 {
		return dayIndex
	}
	if p == nil {
		return -1
	}
	_, idx := p.FindDay(dayID)
	return idx
}

// DeleteDay removes the day at index and keeps the pointer consistent.
// A pointer past the end of the shortened list resets to 0 before the
// decrement for an earlier deletion is applied. Returns false when index is
// out of range.
func DeleteDay(p *models.Program, index int) bool {
	if p == nil || index < 0 || index >= len(p.Days) {
		return false
	}
	p.Days = append(p.Days[:index], p.Days[index+1:]...)
	if p.NextDayIndex >= len(p.Days) {
		p.NextDayIndex = 0
	}
	if index <= p.NextDayIndex && p.NextDayIndex > 0 {
		p.NextDayIndex--
	}
	return true
}
