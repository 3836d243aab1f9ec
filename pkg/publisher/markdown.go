package publisher

import (
	"fmt"
	"strings"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

// buildMarkdown は物語を Markdown に変換します。links[0] が表紙、links[i+1] が i 番目の章の画像です。
func buildMarkdown(doc *domain.StoryDocument, links []string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", doc.Title))
	sb.WriteString(imageBlock(domain.CoverSlot(), links[0]))

	for i, part := range doc.Parts {
		slot := domain.ChapterSlot(i)
		sb.WriteString(fmt.Sprintf("## %s\n\n", slot.Descriptor()))
		sb.WriteString(imageBlock(slot, links[i+1]))
		sb.WriteString(strings.TrimSpace(part.Text))
		sb.WriteString("\n\n")
	}
	return sb.String()
}

func imageBlock(slot domain.ImageSlot, link string) string {
	switch {
	case link == "":
		return fmt.Sprintf("> Ilustração pendente: %s\n\n", slot.Descriptor())
	case domain.IsPlaceholder(link):
		return fmt.Sprintf("![%s](%s)\n\n> Não foi possível gerar a ilustração: %s\n\n", slot.Descriptor(), link, slot.Descriptor())
	default:
		return fmt.Sprintf("![%s](%s)\n\n", slot.Descriptor(), link)
	}
}
