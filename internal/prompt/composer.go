package prompt

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/1234-ad/auto-feedback-generator/internal/rubric"
)

// Input is everything Compose needs to render a generation prompt. The
// rubric text is pre-rendered so composition stays a pure substitution.
type Input struct {
	StudentName     string
	AssignmentTitle string
	Subject         string
	FeedbackType    string
	RubricText      string
}

// Template selects the base template for the style and appends the subject
// modifier after a blank line. Unknown styles fall back to constructive and
// unknown subjects to General; selection never fails. Inputs are validated
// upstream, so the fallback is a safety net, not an error path.
func Template(style, subject string) string {
	base, ok := styleTemplates[style]
	if !ok {
		base = styleTemplates[StyleConstructive]
	}
	modifier, ok := subjectModifiers[subject]
	if !ok {
		modifier = subjectModifiers[SubjectGeneral]
	}
	return base + "\n\n" + modifier
}

// Compose renders the selected template with the evaluation data. The four
// placeholder values are embedded exactly as given.
func Compose(in Input) string {
	replacer := strings.NewReplacer(
		"{student_name}", in.StudentName,
		"{assignment_title}", in.AssignmentTitle,
		"{subject}", in.Subject,
		"{rubric_data}", in.RubricText,
	)
	return replacer.Replace(Template(in.FeedbackType, in.Subject))
}

// FormatRubric renders the criteria block, one line per criterion in request
// order. Structured criteria show score, maximum, and percentage; bare
// numeric criteria show the raw value.
func FormatRubric(r rubric.Rubric) string {
	lines := make([]string, 0, len(r.Entries))
	for _, entry := range r.Entries {
		name := titleCase(entry.Name)
		c := entry.Criterion
		if c.Bare {
			lines = append(lines, fmt.Sprintf("- %s: %s", name, formatScore(c.Score)))
			continue
		}

		var percentage float64
		if c.MaxScore != 0 {
			percentage = c.Score / c.MaxScore * 100
		}
		lines = append(lines, fmt.Sprintf("- %s: %s/%s (%.0f%%)",
			name, formatScore(c.Score), formatScore(c.MaxScore), percentage))
	}
	return strings.Join(lines, "\n")
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// titleCase mirrors the display convention for criterion names: underscores
// become spaces and every word is capitalized.
func titleCase(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	prevLetter := false
	for _, r := range strings.ReplaceAll(name, "_", " ") {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}
