package document

import "strings"

// RenderMarkdown renders the document IR as markdown
func RenderMarkdown(doc Document) string {
	var b strings.Builder

	b.WriteString("# " + doc.Title + "\n")

	for _, block := range doc.Blocks {
		switch block.Kind {
		case KindHeading:
			b.WriteString("\n## " + block.Text + "\n")
		case KindSubheading:
			b.WriteString("\n**" + block.Text + ":**\n")
		case KindBullet:
			b.WriteString("- " + block.Text + "\n")
		case KindParagraph:
			b.WriteString("\n" + block.Text + "\n")
		}
	}

	return b.String()
}
