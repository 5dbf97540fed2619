// Package export 将完成的书籍渲染为可下载的手稿文件
package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"bookforge-api/internal/config"
	"bookforge-api/internal/domain/entity"
	"bookforge-api/internal/domain/repository"
	apperrors "bookforge-api/pkg/errors"
	"bookforge-api/pkg/logger"
	"bookforge-api/pkg/metrics"
)

var tracer = otel.Tracer("export")

// Format 导出格式
type Format string

const (
	FormatTxt  Format = "txt"
	FormatDocx Format = "docx"
	FormatPDF  Format = "pdf"
	FormatEpub Format = "epub"
)

// ParseFormat 解析导出格式，未知值返回 UnsupportedFormat 错误
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatTxt:
		return FormatTxt, nil
	case FormatDocx:
		return FormatDocx, nil
	case FormatPDF:
		return FormatPDF, nil
	case FormatEpub:
		return FormatEpub, nil
	default:
		return "", apperrors.ErrUnsupportedFormat.WithDetail(fmt.Sprintf("format %q is not supported", s))
	}
}

// Options 导出选项
type Options struct {
	Format          Format
	PageSize        string
	IncludeTOC      bool
	IncludeMetadata bool
	KDPFormatting   bool
}

// Artifact 导出产物
type Artifact struct {
	Bytes    []byte
	Filename string
	MIME     string
}

// Exporter 手稿导出服务
type Exporter struct {
	books    repository.BookRepository
	chapters repository.ChapterRepository
	settings repository.SettingsRepository
	users    repository.UserRepository
	cfg      *config.ExportConfig
}

// NewExporter 创建导出服务
func NewExporter(
	books repository.BookRepository,
	chapters repository.ChapterRepository,
	settings repository.SettingsRepository,
	users repository.UserRepository,
	cfg *config.Config,
) *Exporter {
	return &Exporter{
		books:    books,
		chapters: chapters,
		settings: settings,
		users:    users,
		cfg:      &cfg.Export,
	}
}

// OptionOverrides 请求级别的导出参数，nil 字段回退到用户偏好
type OptionOverrides struct {
	Format          *string
	PageSize        *string
	IncludeTOC      *bool
	IncludeMetadata *bool
	KDPFormatting   *bool
}

// ResolveOptions 合并请求参数和用户导出偏好
func (e *Exporter) ResolveOptions(ctx context.Context, ownerID string, ov *OptionOverrides) (*Options, error) {
	prefs := &entity.ExportPreferences{}
	if settings, err := e.settings.GetByOwner(ctx, ownerID); err == nil && settings != nil && settings.Export != nil {
		prefs = settings.Export
	}

	resolved := &Options{
		PageSize:        prefs.PageSize,
		IncludeTOC:      prefs.IncludeTOC,
		IncludeMetadata: prefs.IncludeMetadata,
		KDPFormatting:   prefs.KDPFormatting,
	}

	format := prefs.Format
	if ov != nil {
		if ov.Format != nil {
			format = *ov.Format
		}
		if ov.PageSize != nil {
			resolved.PageSize = *ov.PageSize
		}
		if ov.IncludeTOC != nil {
			resolved.IncludeTOC = *ov.IncludeTOC
		}
		if ov.IncludeMetadata != nil {
			resolved.IncludeMetadata = *ov.IncludeMetadata
		}
		if ov.KDPFormatting != nil {
			resolved.KDPFormatting = *ov.KDPFormatting
		}
	}
	if format == "" {
		format = string(FormatTxt)
	}
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	resolved.Format = f

	if resolved.PageSize == "" {
		resolved.PageSize = e.cfg.DefaultPageSize
	}
	return resolved, nil
}

// Export 校验书籍状态并渲染手稿。
// 只有完成状态的书籍可以导出，且至少要有一章正文。
func (e *Exporter) Export(ctx context.Context, ownerID, bookID string, opts *Options) (*Artifact, error) {
	ctx, span := tracer.Start(ctx, "export.Exporter.Export")
	span.SetAttributes(attribute.String("export.format", string(opts.Format)))
	defer span.End()

	book, err := e.books.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book == nil || book.OwnerID != ownerID {
		return nil, apperrors.ErrBookNotFound
	}
	if !book.IsCompleted() {
		return nil, apperrors.ErrInvalidState.WithDetail("only completed books can be exported")
	}

	chapters, err := e.chapters.ListByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if len(chapters) == 0 {
		return nil, apperrors.ErrChapterNotFound.WithDetail("book has no chapters to export")
	}

	start := time.Now()
	var data []byte
	var ext, mime string

	switch opts.Format {
	case FormatTxt:
		data, err = renderText(book, chapters, opts)
		ext, mime = "txt", "text/plain; charset=utf-8"
	case FormatDocx:
		data, err = renderDocx(book, chapters, opts)
		ext, mime = "docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatPDF:
		data, err = renderPDF(book, chapters, opts, e.cfg.WkhtmltopdfPath)
		ext, mime = "pdf", "application/pdf"
	case FormatEpub:
		data, err = renderEpub(book, chapters, opts, e.resolveAuthor(ctx, ownerID))
		ext, mime = "epub", "application/epub+zip"
	default:
		return nil, apperrors.ErrUnsupportedFormat.WithDetail(fmt.Sprintf("format %q is not supported", opts.Format))
	}
	if err != nil {
		metrics.ExportTotal.WithLabelValues(string(opts.Format), "error").Inc()
		logger.Error(ctx, "export failed", err, "book_id", bookID, "format", opts.Format)
		return nil, err
	}

	metrics.ExportTotal.WithLabelValues(string(opts.Format), "success").Inc()
	metrics.ExportDuration.WithLabelValues(string(opts.Format)).Observe(time.Since(start).Seconds())
	metrics.ExportArtifactSize.WithLabelValues(string(opts.Format)).Observe(float64(len(data)))

	return &Artifact{
		Bytes:    data,
		Filename: buildFilename(book.Title, ext),
		MIME:     mime,
	}, nil
}

// resolveAuthor 以书籍所有者作为出版物作者，查询失败时留空
func (e *Exporter) resolveAuthor(ctx context.Context, ownerID string) string {
	owner, err := e.users.GetByID(ctx, ownerID)
	if err != nil || owner == nil {
		return ""
	}
	if owner.Name != "" {
		return owner.Name
	}
	return owner.Email
}

// buildFilename 将标题转换为安全文件名：小写、非字母数字逐字符替换为下划线、限长
func buildFilename(title, ext string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	name := b.String()
	if name == "" {
		name = "manuscript"
	}
	if len(name) > 100 {
		name = name[:100]
	}
	return name + "." + ext
}
