// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-forge/internal/progress"
	"github.com/jonathan/resume-forge/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to n runes, marking the cut with "..."
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintDocument outputs a summary of the resume: who, what and how it is styled.
func (p *Printer) PrintDocument(doc *types.ResumeDocument) {
	if doc == nil {
		return
	}

	var sb strings.Builder
	name := doc.PersonalInfo.FullName
	if name == "" {
		name = "(unnamed)"
	}
	sb.WriteString(fmt.Sprintf("Name:       %s\n", name))
	if doc.PersonalInfo.JobTitle != "" {
		sb.WriteString(fmt.Sprintf("Title:      %s\n", doc.PersonalInfo.JobTitle))
	}
	if doc.Purpose != "" {
		sb.WriteString(fmt.Sprintf("Purpose:    %s\n", doc.Purpose.Label()))
	}
	sb.WriteString(fmt.Sprintf("Template:   %s (%s on %s)\n", doc.TemplateID, doc.ThemeColor, doc.BackgroundColor))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Experience: %d  Education: %d  Projects: %d\n",
		len(doc.Experience), len(doc.Education), len(doc.Projects)))

	tags := 0
	for _, c := range doc.Skills {
		tags += len(c.Skills)
	}
	sb.WriteString(fmt.Sprintf("Skills:     %d in %d categories", tags, len(doc.Skills)))

	p.printBox("RESUME", sb.String())
}

// PrintProgress outputs the completion status of each wizard section.
func (p *Printer) PrintProgress(steps []progress.StepProgress) {
	if len(steps) == 0 {
		return
	}

	var sb strings.Builder
	for i, s := range steps {
		mark := "○"
		switch s.Status {
		case progress.Complete:
			mark = "●"
		case progress.Partial:
			mark = "◐"
		}
		sb.WriteString(fmt.Sprintf("%s %-12s %s", mark, s.Label, s.Status))
		if i < len(steps)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("PROGRESS", sb.String())
}

// PrintScore outputs the AI assessment with its feedback.
func (p *Printer) PrintScore(score types.Score) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ATS:         %3d%%\n", score.ATS))
	sb.WriteString(fmt.Sprintf("Readability: %3d%%\n", score.Readability))
	sb.WriteString(fmt.Sprintf("Depth:       %3d%%", score.Depth))

	if len(score.Feedback) > 0 {
		sb.WriteString("\n\nFeedback:\n")
		count := min(len(score.Feedback), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s", score.Feedback[i]))
			if i < count-1 {
				sb.WriteString("\n")
			}
		}
		if len(score.Feedback) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("\n  ... and %d more", len(score.Feedback)-maxItemsToShow))
		}
	}

	p.printBox("AI SCORE", sb.String())
}

// PrintAnalysis outputs what an analysis changed before it is merged.
func (p *Printer) PrintAnalysis(result *types.AnalysisResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	if result.Summary != "" {
		sb.WriteString("Summary:\n")
		sb.WriteString(fmt.Sprintf("  %s\n\n", result.Summary))
	}
	sb.WriteString(fmt.Sprintf("Rewritten experience entries: %d\n", len(result.ImprovedExperience)))
	sb.WriteString(fmt.Sprintf("Rewritten project entries:    %d\n", len(result.ImprovedProjects)))

	if len(result.OptimizedSkills) > 0 {
		sb.WriteString("\nSkill categories:\n")
		count := min(len(result.OptimizedSkills), maxItemsToShow)
		for i := 0; i < count; i++ {
			c := result.OptimizedSkills[i]
			sb.WriteString(fmt.Sprintf("  • %s: %s\n", c.Name, strings.Join(c.Skills, ", ")))
		}
		if len(result.OptimizedSkills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.OptimizedSkills)-maxItemsToShow))
		}
	}

	p.printBox("AI OPTIMIZATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSuggestions outputs the skill suggestion pool.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintSuggestions(pool []string) {
	if len(pool) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "NO NEW SKILL SUGGESTIONS")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d suggestions:\n\n", len(pool)))
	for i, tag := range pool {
		sb.WriteString(fmt.Sprintf("+ %s", tag))
		if i < len(pool)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("SUGGESTED SKILLS", sb.String())
}
