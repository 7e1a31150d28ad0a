package document

import "strings"

// RenderText renders the document IR as plain text. Headings appear
// upper-cased over a dashed rule, subheadings keep their case with a
// trailing colon, bullets use the "•" marker.
func RenderText(doc Document) string {
	var b strings.Builder

	title := strings.ToUpper(doc.Title)
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")

	for i, block := range doc.Blocks {
		switch block.Kind {
		case KindHeading:
			if i > 0 {
				b.WriteString("\n")
			}
			heading := strings.ToUpper(block.Text)
			b.WriteString(heading + "\n")
			b.WriteString(strings.Repeat("-", len(heading)) + "\n")
		case KindSubheading:
			b.WriteString("\n" + block.Text + ":\n")
		case KindBullet:
			b.WriteString("• " + block.Text + "\n")
		case KindParagraph:
			b.WriteString(block.Text + "\n")
		}
	}

	return b.String()
}
