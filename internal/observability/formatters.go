// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-rebuilder/internal/types"
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

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintExtractedText outputs a preview of the extracted resume text.
func (p *Printer) PrintExtractedText(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Characters: %d\n\n", len(text)))

	lines := strings.Split(text, "\n")
	count := min(len(lines), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(lines[i])
		sb.WriteString("\n")
	}
	if len(lines) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more lines\n", len(lines)-maxItemsToShow))
	}

	p.printBox("EXTRACTED TEXT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResumeProfile outputs a human-readable summary of the structured profile.
func (p *Printer) PrintResumeProfile(profile *types.ResumeProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Name:    %s\n", profile.Name))
	sb.WriteString(fmt.Sprintf("Email:   %s\n", profile.Email))
	sb.WriteString(fmt.Sprintf("Contact: %s\n", profile.ContactNumber))
	sb.WriteString("\n")

	if len(profile.Skills) > 0 {
		sb.WriteString("Skills:\n")
		count := min(len(profile.Skills), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", profile.Skills[i]))
		}
		if len(profile.Skills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(profile.Skills)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(profile.Education) > 0 {
		sb.WriteString("Education:\n")
		for _, edu := range profile.Education {
			sb.WriteString(fmt.Sprintf("  • %s, %s", edu.Degree, edu.Institution))
			if edu.Year != "" {
				sb.WriteString(fmt.Sprintf(" (%s)", edu.Year))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if len(profile.WorkExperience) > 0 {
		sb.WriteString("Work Experience:\n")
		count := min(len(profile.WorkExperience), 3)
		for i := 0; i < count; i++ {
			exp := profile.WorkExperience[i]
			sb.WriteString(fmt.Sprintf("  • %s at %s", exp.JobTitle, exp.CompanyName))
			if exp.Duration != "" {
				sb.WriteString(fmt.Sprintf(" (%s)", exp.Duration))
			}
			sb.WriteString("\n")
		}
		if len(profile.WorkExperience) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(profile.WorkExperience)-3))
		}
	}

	p.printBox("STRUCTURED RESUME PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDocumentSummary outputs the size of the generated document.
func (p *Printer) PrintDocumentSummary(outputPath string, size int) {
	content := fmt.Sprintf("Output: %s\nSize:   %d bytes", outputPath, size)
	p.printBox("GENERATED DOCUMENT", content)
}
