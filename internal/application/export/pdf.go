package export

import (
	"fmt"
	"html"
	"strings"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"

	"bookforge-api/internal/domain/entity"
	apperrors "bookforge-api/pkg/errors"
)

// renderPDF 将书籍渲染为 HTML 后交给 wkhtmltopdf 分页
func renderPDF(book *entity.Book, chapters []*entity.Chapter, opts *Options, binaryPath string) ([]byte, error) {
	if binaryPath != "" {
		wkhtmltopdf.SetPath(binaryPath)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeRendererError, "pdf renderer unavailable")
	}

	applyPageSize(pdfg, opts.PageSize)
	applyMargins(pdfg)

	page := wkhtmltopdf.NewPageReader(strings.NewReader(buildHTML(book, chapters, opts)))
	page.FooterCenter.Set("[page]")
	page.FooterFontSize.Set(9)
	page.DisableExternalLinks.Set(true)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeRendererError, "pdf rendering failed")
	}
	return pdfg.Bytes(), nil
}

// applyMargins 设置 1 英寸页边距
func applyMargins(pdfg *wkhtmltopdf.PDFGenerator) {
	pdfg.MarginTopUnit.Set("25.4mm")
	pdfg.MarginBottomUnit.Set("25.4mm")
	pdfg.MarginLeftUnit.Set("25.4mm")
	pdfg.MarginRightUnit.Set("25.4mm")
}

// applyPageSize 设置页面尺寸，kindle 使用半 letter 裁切尺寸
func applyPageSize(pdfg *wkhtmltopdf.PDFGenerator, size string) {
	switch strings.ToLower(size) {
	case "a4":
		pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)
	case "kindle":
		pdfg.PageWidth.Set(140)
		pdfg.PageHeight.Set(216)
	default:
		pdfg.PageSize.Set(wkhtmltopdf.PageSizeLetter)
	}
}

// buildHTML 构建打印样式的手稿 HTML，正文全部做实体转义
func buildHTML(book *entity.Book, chapters []*entity.Chapter, opts *Options) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(book.Title))
	b.WriteString("<style>\n")
	if opts.KDPFormatting {
		b.WriteString(`body { font-family: Georgia, serif; font-size: 12pt; line-height: 1.5; }
h1.book-title { text-align: center; font-size: 28pt; margin-top: 35%; }
p.meta { text-align: center; font-size: 11pt; color: #444; }
h2.chapter { page-break-before: always; text-align: center; font-size: 18pt; margin-top: 20%; margin-bottom: 2em; }
p.body { text-indent: 1.5em; margin: 0 0 0.2em 0; text-align: justify; }
div.toc { page-break-before: always; }
`)
	} else {
		b.WriteString(`body { font-family: "Times New Roman", serif; font-size: 12pt; line-height: 1.6; }
h1.book-title { text-align: center; font-size: 24pt; margin-top: 30%; }
p.meta { text-align: center; font-size: 11pt; color: #444; }
h2.chapter { page-break-before: always; font-size: 16pt; margin-bottom: 1.5em; }
p.body { margin: 0 0 1em 0; }
div.toc { page-break-before: always; }
`)
	}
	b.WriteString("</style>\n</head>\n<body>\n")

	fmt.Fprintf(&b, "<h1 class=\"book-title\">%s</h1>\n", html.EscapeString(book.Title))
	if opts.IncludeMetadata {
		if book.Genre != "" {
			fmt.Fprintf(&b, "<p class=\"meta\">%s</p>\n", html.EscapeString(book.Genre))
		}
		if book.TargetAudience != "" {
			fmt.Fprintf(&b, "<p class=\"meta\">For %s</p>\n", html.EscapeString(book.TargetAudience))
		}
		fmt.Fprintf(&b, "<p class=\"meta\">%d words</p>\n", book.CurrentWordCount)
	}

	if opts.IncludeTOC {
		b.WriteString("<div class=\"toc\">\n<h2>Table of Contents</h2>\n<ol>\n")
		for _, c := range chapters {
			fmt.Fprintf(&b, "<li>%s</li>\n", html.EscapeString(c.Title))
		}
		b.WriteString("</ol>\n</div>\n")
	}

	for _, c := range chapters {
		fmt.Fprintf(&b, "<h2 class=\"chapter\">Chapter %d: %s</h2>\n",
			c.Number, html.EscapeString(c.Title))
		for _, para := range chapterParagraphs(c.Content) {
			fmt.Fprintf(&b, "<p class=\"body\">%s</p>\n", html.EscapeString(para))
		}
	}

	b.WriteString("</body>\n</html>\n")
	return b.String()
}
