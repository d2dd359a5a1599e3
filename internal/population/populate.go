// Package population fills a DOCX template with structured resume data:
// scalar placeholder substitution, bullet-list expansion, and duplication of
// repeating table-row blocks for education and work-experience entries.
package population

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-rebuilder/internal/docx"
	"github.com/jonathan/resume-rebuilder/internal/types"
)

// Generate opens a template from its source bytes, populates it with the
// profile, and returns the serialized result. Each call works on a fresh
// document handle; the template bytes are never mutated.
func Generate(templateBytes []byte, profile *types.ResumeProfile) ([]byte, error) {
	doc, err := docx.Open(templateBytes)
	if err != nil {
		return nil, &TemplateError{Message: "failed to open template", Cause: err}
	}

	if err := Populate(doc, profile); err != nil {
		return nil, err
	}

	out, err := doc.Save()
	if err != nil {
		return nil, &TemplateError{Message: "failed to serialize output document", Cause: err}
	}
	return out, nil
}

// Populate mutates the document in place. Stages run in order, each scanning
// the whole document fresh so later stages see the rows and paragraphs
// earlier stages added or removed:
//
//  1. scalar substitution in every table-cell paragraph
//  2. education row-block expansion
//  3. skills/languages bullet expansion
//  4. work-experience row-block expansion (with nested bullet expansion)
func Populate(doc *docx.Document, profile *types.ResumeProfile) error {
	if doc == nil {
		return fmt.Errorf("document is nil")
	}
	if profile == nil {
		return fmt.Errorf("profile is nil")
	}
	profile.Normalize()

	substituteScalars(doc, profile)

	expandRowBlock(doc, educationTokens, len(profile.Education), func(row docx.Row, i int) {
		entry := profile.Education[i]
		fillRow(row, map[string]string{
			TokenDegree:      entry.Degree,
			TokenInstitution: entry.Institution,
			TokenEduYear:     entry.Year,
			TokenCGPA:        entry.CGPA,
		}, nil)
	})

	expandLists(doc, profile)

	expandRowBlock(doc, workTokens, len(profile.WorkExperience), func(row docx.Row, i int) {
		entry := profile.WorkExperience[i]
		fillRow(row, map[string]string{
			TokenCompanyName: entry.CompanyName,
			TokenDuration:    entry.Duration,
			TokenJobTitle:    entry.JobTitle,
		}, map[string][]string{
			TokenJobDescription: entry.JobDescription,
			TokenAchievements:   entry.Achievements,
		})
	})

	return nil
}

// substituteScalars replaces every known scalar token across all table-cell
// paragraphs. Tokens not present anywhere are silently skipped.
func substituteScalars(doc *docx.Document, profile *types.ResumeProfile) {
	forEachCellParagraph(doc, func(_ docx.Cell, p docx.Paragraph) {
		text := p.Text()
		for _, b := range scalarBindings {
			if strings.Contains(text, b.token) {
				replaceInParagraph(p, b.token, b.value(profile))
			}
		}
	})
}

// expandLists runs bullet expansion for the skills and languages tokens.
func expandLists(doc *docx.Document, profile *types.ResumeProfile) {
	lists := []struct {
		token string
		items []string
	}{
		{TokenSkills, profile.Skills},
		{TokenLanguages, profile.Languages},
	}
	forEachCellParagraph(doc, func(cell docx.Cell, p docx.Paragraph) {
		text := p.Text()
		for _, l := range lists {
			if strings.Contains(text, l.token) {
				expandBullets(cell, p, l.token, l.items)
			}
		}
	})
}

// expandRowBlock implements the generic repeating-block algorithm: in the
// first table whose rows contain any tag of the category, clone every
// template row once per entry (appending clones to the table end), fill each
// clone, and only then delete the original template rows. Deleting first
// would destroy the clone source, so the two phases never interleave.
//
// Only the first matching table is processed; a document is assumed to hold
// one block per category. Zero entries leaves the table without the block.
func expandRowBlock(doc *docx.Document, tags []string, count int, fill func(row docx.Row, i int)) {
	for _, table := range doc.Tables() {
		var templateRows []docx.Row
		for _, row := range table.Rows() {
			if containsAny(row.Text(), tags) {
				templateRows = append(templateRows, row)
			}
		}
		if len(templateRows) == 0 {
			continue
		}

		for i := 0; i < count; i++ {
			for _, templateRow := range templateRows {
				clone := templateRow.Clone()
				table.AppendRow(clone)
				fill(clone, i)
			}
		}

		for _, templateRow := range templateRows {
			table.RemoveRow(templateRow)
		}
		return
	}
}

// fillRow substitutes a category's scalar tokens in every paragraph of the
// row and runs bullet expansion for its list tokens.
func fillRow(row docx.Row, scalars map[string]string, lists map[string][]string) {
	for _, cell := range row.Cells() {
		for _, p := range cell.Paragraphs() {
			text := p.Text()
			for token, value := range scalars {
				if strings.Contains(text, token) {
					replaceInParagraph(p, token, value)
				}
			}
			for token, items := range lists {
				if strings.Contains(text, token) {
					expandBullets(cell, p, token, items)
				}
			}
		}
	}
}

// forEachCellParagraph visits every paragraph of every table cell. Paragraph
// lists are snapshotted per cell so callbacks may insert or remove
// paragraphs while iterating.
func forEachCellParagraph(doc *docx.Document, visit func(cell docx.Cell, p docx.Paragraph)) {
	for _, table := range doc.Tables() {
		for _, row := range table.Rows() {
			for _, cell := range row.Cells() {
				for _, p := range cell.Paragraphs() {
					visit(cell, p)
				}
			}
		}
	}
}

// replaceInParagraph substitutes the token inside whichever runs contain it.
// It reports whether any substitution happened.
func replaceInParagraph(p docx.Paragraph, token, value string) bool {
	replaced := false
	for _, r := range p.Runs() {
		if r.ReplaceText(token, value) {
			replaced = true
		}
	}
	return replaced
}

func containsAny(s string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(s, token) {
			return true
		}
	}
	return false
}
