// Package example loads the bundled example program: a markdown document
// whose "## Example Program" section lists days and their exercises.
package example

import (
	"bufio"
	_ "embed"
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// Path is where the bundled document lives in the file store.
const Path = "program.md"

// ProgramName is the name given to the imported program.
const ProgramName = "Example Program"

//go:embed program.md
var Document string

var (
	ErrNoDays     = errors.New("no example days found in program.md")
	ErrNoDocument = errors.New("could not load program.md")
)

var (
	// sectionRe matches: ## Example Program
	sectionRe = regexp.MustCompile(`(?i)^example program`)

	// prescriptionRe matches: 3x8,8,6 or 3 x 10
	prescriptionRe = regexp.MustCompile(`(?i)(\d+)\s*x\s*([0-9,\s]+)`)

	digitsRe = regexp.MustCompile(`\d+`)
)

// Program is a parsed example program, not yet linked to the exercise library.
type Program struct {
	Name string
	Days []Day
}

// Day is one "### " section.
type Day struct {
	Name  string
	Items []Item
}

// Item is one "- Name — 3x8,8,6" bullet. RepsCSV holds the reps numbers
// joined by commas, empty when none were given.
type Item struct {
	Exercise string
	Sets     int
	RepsCSV  string
}

// Parse reads the example section of markdown. Headings and bullets outside
// that section, and bullets without a sets-by-reps prescription, are ignored.
func Parse(markdown string) Program {
	scanner := bufio.NewScanner(strings.NewReader(markdown))
	program := Program{Name: ProgramName}
	inExample := false
	var current *Day

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if heading, ok := strings.CutPrefix(line, "## "); ok {
			if sectionRe.MatchString(strings.TrimSpace(heading)) {
				inExample = true
				continue
			}
			if inExample {
				break
			}
		}
		if !inExample {
			continue
		}

		if heading, ok := strings.CutPrefix(line, "### "); ok {
			program.Days = append(program.Days, Day{Name: dayName(strings.TrimSpace(heading))})
			current = &program.Days[len(program.Days)-1]
			continue
		}

		if current == nil {
			continue
		}
		bullet, ok := strings.CutPrefix(line, "- ")
		if !ok {
			continue
		}
		if item, ok := parseItem(strings.TrimSpace(bullet)); ok {
			current.Items = append(current.Items, item)
		}
	}
	return program
}

// dayName takes "Day 1 — Upper" to "Upper". Headings without a dash are kept whole.
func dayName(heading string) string {
	for _, dash := range []string{"—", "–"} {
		if i := strings.LastIndex(heading, dash); i >= 0 {
			if name := strings.TrimSpace(heading[i+len(dash):]); name != "" {
				return name
			}
			return heading
		}
	}
	return heading
}

// parseItem splits "Bench Press — 3x8,8,6" on an em dash, en dash or " - ".
func parseItem(bullet string) (Item, bool) {
	var parts []string
	for _, sep := range []string{"—", "–", " - "} {
		if strings.Contains(bullet, sep) {
			parts = strings.Split(bullet, sep)
			break
		}
	}
	if len(parts) < 2 {
		return Item{}, false
	}

	name := strings.TrimSpace(parts[0])
	m := prescriptionRe.FindStringSubmatch(strings.Join(parts[1:], "-"))
	if name == "" || m == nil {
		return Item{}, false
	}
	sets, err := strconv.Atoi(m[1])
	if err != nil || sets < 1 {
		return Item{}, false
	}
	return Item{
		Exercise: name,
		Sets:     sets,
		RepsCSV:  strings.Join(digitsRe.FindAllString(m[2], -1), ","),
	}, true
}
