package export

import (
	"bytes"
	"fmt"

	"github.com/fumiama/go-docx"

	"bookforge-api/internal/domain/entity"
	apperrors "bookforge-api/pkg/errors"
)

// renderDocx 渲染 Word 手稿
func renderDocx(book *entity.Book, chapters []*entity.Chapter, opts *Options) ([]byte, error) {
	doc := docx.New().WithDefaultTheme()

	// 标题页
	title := doc.AddParagraph()
	title.AddText(book.Title).Size("48").Bold()
	title.Justification("center")

	if opts.IncludeMetadata {
		meta := doc.AddParagraph()
		meta.Justification("center")
		if book.Genre != "" {
			meta.AddText(book.Genre).Size("24")
		}
		if book.TargetAudience != "" {
			doc.AddParagraph().Justification("center").
				AddText("For " + book.TargetAudience).Size("24")
		}
		doc.AddParagraph().Justification("center").
			AddText(fmt.Sprintf("%d words", book.CurrentWordCount)).Size("20")
	}
	doc.AddParagraph().AddPageBreaks()

	if opts.IncludeTOC {
		toc := doc.AddParagraph()
		toc.AddText("Table of Contents").Size("32").Bold()
		for _, c := range chapters {
			doc.AddParagraph().AddText(fmt.Sprintf("Chapter %d: %s", c.Number, c.Title))
		}
		doc.AddParagraph().AddPageBreaks()
	}

	for i, c := range chapters {
		if i > 0 {
			doc.AddParagraph().AddPageBreaks()
		}
		heading := doc.AddParagraph()
		heading.AddText(fmt.Sprintf("Chapter %d: %s", c.Number, c.Title)).Size("32").Bold()

		for _, para := range chapterParagraphs(c.Content) {
			doc.AddParagraph().AddText(para)
		}
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, apperrors.ErrExportFailed.WithError(err)
	}
	return buf.Bytes(), nil
}
