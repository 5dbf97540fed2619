package export

import (
	"fmt"
	"strings"

	"bookforge-api/internal/domain/entity"
)

// renderText 渲染纯文本手稿：标题页、可选目录、逐章正文
func renderText(book *entity.Book, chapters []*entity.Chapter, opts *Options) ([]byte, error) {
	var b strings.Builder

	b.WriteString(book.Title)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", len(book.Title)))
	b.WriteString("\n\n")

	if opts.IncludeMetadata {
		if book.Genre != "" {
			fmt.Fprintf(&b, "Category: %s\n", book.Genre)
		}
		if book.TargetAudience != "" {
			fmt.Fprintf(&b, "Audience: %s\n", book.TargetAudience)
		}
		fmt.Fprintf(&b, "Word count: %d\n", book.CurrentWordCount)
		b.WriteString("\n")
	}

	if opts.IncludeTOC {
		b.WriteString("Table of Contents\n\n")
		for _, c := range chapters {
			fmt.Fprintf(&b, "  Chapter %d: %s\n", c.Number, c.Title)
		}
		b.WriteString("\n")
	}

	for i, c := range chapters {
		if i > 0 {
			b.WriteString("\n\n")
		}
		heading := fmt.Sprintf("Chapter %d: %s", c.Number, c.Title)
		b.WriteString(heading)
		b.WriteString("\n")
		b.WriteString(strings.Repeat("-", len(heading)))
		b.WriteString("\n\n")
		b.WriteString(strings.TrimSpace(c.Content))
		b.WriteString("\n")
	}

	return []byte(b.String()), nil
}

// chapterParagraphs 将章节正文按空行切分为段落
func chapterParagraphs(content string) []string {
	var paragraphs []string
	for _, block := range strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n") {
		block = strings.TrimSpace(block)
		if block != "" {
			paragraphs = append(paragraphs, block)
		}
	}
	return paragraphs
}
