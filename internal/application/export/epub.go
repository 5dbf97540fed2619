package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/google/uuid"

	"bookforge-api/internal/domain/entity"
	apperrors "bookforge-api/pkg/errors"
)

const containerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>
`

// renderEpub 构建 EPUB 容器。
// mimetype 必须是首个条目且不压缩，其后是 container.xml、OPF 清单和各章 XHTML。
func renderEpub(book *entity.Book, chapters []*entity.Chapter, opts *Options, author string) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	mimeWriter, err := w.CreateHeader(&zip.FileHeader{
		Name:   "mimetype",
		Method: zip.Store,
	})
	if err != nil {
		return nil, apperrors.ErrExportFailed.WithError(err)
	}
	if _, err := mimeWriter.Write([]byte("application/epub+zip")); err != nil {
		return nil, apperrors.ErrExportFailed.WithError(err)
	}

	files := []struct {
		name    string
		content string
	}{
		{"META-INF/container.xml", containerXML},
		{"OEBPS/content.opf", buildOPF(book, chapters, author, opts.IncludeTOC)},
		{"OEBPS/toc.ncx", buildNCX(book, chapters)},
	}
	if opts.IncludeTOC {
		files = append(files, struct {
			name    string
			content string
		}{"OEBPS/toc.xhtml", buildTocXHTML(book, chapters)})
	}
	for _, c := range chapters {
		files = append(files, struct {
			name    string
			content string
		}{fmt.Sprintf("OEBPS/chapter%d.xhtml", c.Number), buildChapterXHTML(c)})
	}

	for _, f := range files {
		fw, err := w.Create(f.name)
		if err != nil {
			return nil, apperrors.ErrExportFailed.WithError(err)
		}
		if _, err := fw.Write([]byte(f.content)); err != nil {
			return nil, apperrors.ErrExportFailed.WithError(err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, apperrors.ErrExportFailed.WithError(err)
	}
	return buf.Bytes(), nil
}

// buildOPF 构建 OPF 包清单，spine 按目录页、章节顺序排列
func buildOPF(book *entity.Book, chapters []*entity.Chapter, author string, includeTOC bool) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" unique-identifier="book-id" version="2.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:opf="http://www.idpf.org/2007/opf">
`)
	fmt.Fprintf(&b, "    <dc:title>%s</dc:title>\n", html.EscapeString(book.Title))
	if author == "" {
		author = "Unknown"
	}
	fmt.Fprintf(&b, "    <dc:creator>%s</dc:creator>\n", html.EscapeString(author))
	b.WriteString("    <dc:language>en</dc:language>\n")
	fmt.Fprintf(&b, "    <dc:identifier id=\"book-id\">urn:uuid:%s</dc:identifier>\n", bookUUID(book))
	subject := book.Genre
	if subject == "" {
		subject = "Non-fiction"
	}
	fmt.Fprintf(&b, "    <dc:subject>%s</dc:subject>\n", html.EscapeString(subject))
	if book.Description != "" {
		fmt.Fprintf(&b, "    <dc:description>%s</dc:description>\n", html.EscapeString(book.Description))
	}
	b.WriteString("  </metadata>\n  <manifest>\n")
	b.WriteString("    <item id=\"ncx\" href=\"toc.ncx\" media-type=\"application/x-dtbncx+xml\"/>\n")
	if includeTOC {
		b.WriteString("    <item id=\"toc\" href=\"toc.xhtml\" media-type=\"application/xhtml+xml\"/>\n")
	}
	for _, c := range chapters {
		fmt.Fprintf(&b, "    <item id=\"chapter%d\" href=\"chapter%d.xhtml\" media-type=\"application/xhtml+xml\"/>\n",
			c.Number, c.Number)
	}
	b.WriteString("  </manifest>\n  <spine toc=\"ncx\">\n")
	if includeTOC {
		b.WriteString("    <itemref idref=\"toc\"/>\n")
	}
	for _, c := range chapters {
		fmt.Fprintf(&b, "    <itemref idref=\"chapter%d\"/>\n", c.Number)
	}
	b.WriteString("  </spine>\n</package>\n")
	return b.String()
}

// buildNCX 构建 NCX 导航
func buildNCX(book *entity.Book, chapters []*entity.Chapter) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
  <head>
`)
	fmt.Fprintf(&b, "    <meta name=\"dtb:uid\" content=\"urn:uuid:%s\"/>\n", bookUUID(book))
	b.WriteString("  </head>\n")
	fmt.Fprintf(&b, "  <docTitle><text>%s</text></docTitle>\n", html.EscapeString(book.Title))
	b.WriteString("  <navMap>\n")
	for i, c := range chapters {
		fmt.Fprintf(&b, `    <navPoint id="nav%d" playOrder="%d">
      <navLabel><text>Chapter %d: %s</text></navLabel>
      <content src="chapter%d.xhtml"/>
    </navPoint>
`, i+1, i+1, c.Number, html.EscapeString(c.Title), c.Number)
	}
	b.WriteString("  </navMap>\n</ncx>\n")
	return b.String()
}

// buildTocXHTML 构建可见目录页
func buildTocXHTML(book *entity.Book, chapters []*entity.Chapter) string {
	var b strings.Builder
	b.WriteString(xhtmlHead("Table of Contents"))
	b.WriteString("<h1>Table of Contents</h1>\n<ol>\n")
	for _, c := range chapters {
		fmt.Fprintf(&b, "<li><a href=\"chapter%d.xhtml\">Chapter %d: %s</a></li>\n",
			c.Number, c.Number, html.EscapeString(c.Title))
	}
	b.WriteString("</ol>\n</body>\n</html>\n")
	return b.String()
}

// buildChapterXHTML 构建单章 XHTML
func buildChapterXHTML(c *entity.Chapter) string {
	var b strings.Builder
	b.WriteString(xhtmlHead(fmt.Sprintf("Chapter %d: %s", c.Number, c.Title)))
	fmt.Fprintf(&b, "<h1>Chapter %d: %s</h1>\n", c.Number, html.EscapeString(c.Title))
	for _, para := range chapterParagraphs(c.Content) {
		fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(para))
	}
	b.WriteString("</body>\n</html>\n")
	return b.String()
}

func xhtmlHead(title string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.1//EN" "http://www.w3.org/TR/xhtml11/DTD/xhtml11.dtd">
<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>%s</title></head>
<body>
`, html.EscapeString(title))
}

// bookUUID 复用书籍 ID 作为出版物标识，非 UUID 形式时生成一个
func bookUUID(book *entity.Book) string {
	if _, err := uuid.Parse(book.ID); err == nil {
		return book.ID
	}
	return uuid.NewString()
}
