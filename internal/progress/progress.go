// Package progress derives per-step completion status for the step indicator.
package progress

import (
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-forge/internal/types"
)

// Status of one indicator step
type Status string

// Status values
const (
	Empty    Status = "empty"
	Partial  Status = "partial"
	Complete Status = "complete"
)

// Indicator indices. Indicator i corresponds to wizard step i+1.
const (
	Personal = iota
	Context
	Summary
	Experience
	Education
	Projects
	Skills
	// Count is the number of indicator entries
	Count
)

// Labels for each indicator index
var Labels = [Count]string{"Personal", "Context", "Summary", "Experience", "Education", "Projects", "Skills"}

// StepProgress is one row of the overview
type StepProgress struct {
	Index  int    `json:"index"`
	Label  string `json:"label"`
	Status Status `json:"status"`
}

// StatusOf returns the completion status of indicator index for doc.
// Unknown indices are Empty.
func StatusOf(index int, doc *types.ResumeDocument) Status {
	if doc == nil {
		return Empty
	}
	switch index {
	case Personal:
		return personal(doc.PersonalInfo)
	case Context:
		return text(doc.TargetJobDescription, 10)
	case Summary:
		return text(doc.Summary, 20)
	case Experience:
		return list(len(doc.Experience), func(i int) bool {
			e := doc.Experience[i]
			return filled(e.Company) && filled(e.Role)
		})
	case Education:
		return list(len(doc.Education), func(i int) bool {
			e := doc.Education[i]
			return filled(e.Institution) && filled(e.Degree)
		})
	case Projects:
		return list(len(doc.Projects), func(i int) bool {
			return filled(doc.Projects[i].Name)
		})
	case Skills:
		if len(doc.AllSkills()) > 0 {
			return Complete
		}
		return Empty
	}
	return Empty
}

// Overview returns the status of every indicator in order.
func Overview(doc *types.ResumeDocument) []StepProgress {
	out := make([]StepProgress, Count)
	for i := 0; i < Count; i++ {
		out[i] = StepProgress{Index: i, Label: Labels[i], Status: StatusOf(i, doc)}
	}
	return out
}

// WizardStep maps an indicator index to its wizard step.
func WizardStep(index int) int {
	return index + 1
}

func personal(p types.PersonalInfo) Status {
	n := 0
	for _, v := range []string{p.FullName, p.Email, p.Phone, p.JobTitle} {
		if filled(v) {
			n++
		}
	}
	switch n {
	case 0:
		return Empty
	case 4:
		return Complete
	}
	return Partial
}

// text is complete once the trimmed value is longer than threshold characters
func text(s string, threshold int) Status {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return Empty
	case utf8.RuneCountInString(s) > threshold:
		return Complete
	}
	return Partial
}

// list applies the shared rule for entity lists: empty when there are none, complete
// when at least one entry is valid, partial otherwise.
func list(n int, valid func(i int) bool) Status {
	if n == 0 {
		return Empty
	}
	for i := 0; i < n; i++ {
		if valid(i) {
			return Complete
		}
	}
	return Partial
}

func filled(s string) bool {
	return strings.TrimSpace(s) != ""
}
