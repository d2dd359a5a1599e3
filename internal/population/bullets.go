package population

import (
	"github.com/jonathan/resume-rebuilder/internal/docx"
)

// bulletPrefix is prepended to every generated list paragraph.
const bulletPrefix = "• "

// achievementsHeader is the literal heading inserted before an expanded
// achievements list.
const achievementsHeader = "Achievements:"

// expandBullets replaces a placeholder paragraph with one paragraph per list
// item, each prefixed with a bullet glyph and formatted like the placeholder
// run. An empty list blanks the token in place and keeps the paragraph.
//
// The achievements token additionally gets a bold header paragraph before the
// items and one empty spacer paragraph after them.
func expandBullets(cell docx.Cell, p docx.Paragraph, token string, items []string) {
	if len(items) == 0 {
		replaceInParagraph(p, token, "")
		return
	}

	// The run holding the token is the formatting template for every
	// generated run. Without it the paragraph is left untouched.
	var templateRun docx.Run
	found := false
	for _, r := range p.Runs() {
		if containsAny(r.Text(), []string{token}) {
			templateRun = r
			found = true
			break
		}
	}
	if !found {
		return
	}

	var generated []docx.Paragraph

	if token == TokenAchievements {
		header := docx.NewParagraph()
		docx.CopyParagraphFormatting(p, header)
		run := docx.NewRun(achievementsHeader)
		docx.CopyRunFormatting(templateRun, run)
		run.SetBold()
		header.AppendRun(run)
		generated = append(generated, header)
	}

	for _, item := range items {
		bullet := docx.NewParagraph()
		docx.CopyParagraphFormatting(p, bullet)
		run := docx.NewRun(bulletPrefix + item)
		docx.CopyRunFormatting(templateRun, run)
		bullet.AppendRun(run)
		generated = append(generated, bullet)
	}

	if token == TokenAchievements {
		generated = append(generated, docx.NewParagraph())
	}

	// Insert the generated paragraphs at the placeholder's position, then
	// drop the placeholder itself.
	idx := cell.IndexOf(p)
	if idx < 0 {
		for _, gp := range generated {
			cell.AppendParagraph(gp)
		}
		cell.RemoveParagraph(p)
		return
	}
	for i, gp := range generated {
		cell.InsertParagraphAt(idx+i, gp)
	}
	cell.RemoveParagraph(p)
}
