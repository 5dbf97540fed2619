package export

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"bookforge-api/internal/config"
	"bookforge-api/internal/domain/entity"
	"bookforge-api/internal/infrastructure/persistence/postgres"
	apperrors "bookforge-api/pkg/errors"
)

// newTestExporter 基于内存 SQLite 构建导出服务
func newTestExporter(t *testing.T) (*Exporter, *postgres.Client) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.Settings{},
		&entity.Book{},
		&entity.Chapter{},
	))

	client := postgres.NewClientWithDB(db)
	cfg := &config.Config{}
	cfg.Export.DefaultPageSize = "letter"
	exporter := NewExporter(
		postgres.NewBookRepository(client),
		postgres.NewChapterRepository(client),
		postgres.NewSettingsRepository(client),
		postgres.NewUserRepository(client),
		cfg,
	)
	return exporter, client
}

// seedCompletedBook 写入一本完成的书和两章正文
func seedCompletedBook(t *testing.T, client *postgres.Client, ownerID string) *entity.Book {
	t.Helper()
	ctx := context.Background()

	book := entity.NewBook(ownerID, "My Great Book!", 10)
	book.Genre = "business"
	book.TargetAudience = "founders"
	book.ApplyWordCount(12)
	books := postgres.NewBookRepository(client)
	require.NoError(t, books.Create(ctx, book))

	chapters := postgres.NewChapterRepository(client)
	for i, content := range []string{
		"First chapter body with several words.",
		"Second chapter body.\n\nWith a second paragraph.",
	} {
		c := entity.NewChapter(book.ID, "", i+1, fmt.Sprintf("Part %d", i+1))
		c.SetContent(content)
		require.NoError(t, chapters.Create(ctx, c))
	}
	return book
}

func TestExporter_Export_Text(t *testing.T) {
	ctx := context.Background()
	exporter, client := newTestExporter(t)
	book := seedCompletedBook(t, client, "owner")

	artifact, err := exporter.Export(ctx, "owner", book.ID, &Options{
		Format:          FormatTxt,
		IncludeTOC:      true,
		IncludeMetadata: true,
	})
	require.NoError(t, err)

	text := string(artifact.Bytes)
	assert.Contains(t, text, "My Great Book!")
	assert.Contains(t, text, "Table of Contents")
	assert.Contains(t, text, "Chapter 2: Part 2")
	assert.Contains(t, text, "Category: business")
	assert.Contains(t, text, "First chapter body")
	assert.Equal(t, "my_great_book_.txt", artifact.Filename)
	assert.Equal(t, "text/plain; charset=utf-8", artifact.MIME)

	// 章节标题下是一条等长的下划线
	heading := "Chapter 1: Part 1"
	assert.Contains(t, text, heading+"\n"+strings.Repeat("-", len(heading))+"\n")
}

func TestExporter_Export_TextWithoutExtras(t *testing.T) {
	ctx := context.Background()
	exporter, client := newTestExporter(t)
	book := seedCompletedBook(t, client, "owner")

	artifact, err := exporter.Export(ctx, "owner", book.ID, &Options{Format: FormatTxt})
	require.NoError(t, err)

	text := string(artifact.Bytes)
	assert.NotContains(t, text, "Table of Contents")
	assert.NotContains(t, text, "Category:")
}

func TestExporter_Export_Epub(t *testing.T) {
	ctx := context.Background()
	exporter, client := newTestExporter(t)

	owner := &entity.User{ID: "owner", Email: "jane@example.com", Name: "Jane Doe"}
	require.NoError(t, postgres.NewUserRepository(client).Create(ctx, owner))
	book := seedCompletedBook(t, client, "owner")

	artifact, err := exporter.Export(ctx, "owner", book.ID, &Options{
		Format:     FormatEpub,
		IncludeTOC: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "application/epub+zip", artifact.MIME)

	r, err := zip.NewReader(bytes.NewReader(artifact.Bytes), int64(len(artifact.Bytes)))
	require.NoError(t, err)
	require.NotEmpty(t, r.File)

	// EPUB 规范：mimetype 必须是首个条目且不压缩
	first := r.File[0]
	assert.Equal(t, "mimetype", first.Name)
	assert.Equal(t, zip.Store, first.Method)
	rc, err := first.Open()
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "application/epub+zip", string(data))

	names := make(map[string]bool, len(r.File))
	var opf string
	for _, f := range r.File {
		names[f.Name] = true
		if f.Name == "OEBPS/content.opf" {
			rc, err := f.Open()
			require.NoError(t, err)
			data, err := io.ReadAll(rc)
			require.NoError(t, err)
			require.NoError(t, rc.Close())
			opf = string(data)
		}
	}
	assert.True(t, names["META-INF/container.xml"])
	assert.True(t, names["OEBPS/content.opf"])
	assert.True(t, names["OEBPS/toc.ncx"])
	assert.True(t, names["OEBPS/toc.xhtml"])
	assert.True(t, names["OEBPS/chapter1.xhtml"])
	assert.True(t, names["OEBPS/chapter2.xhtml"])

	// OPF 元数据带上作者和主题，目录页在清单和 spine 中都有登记
	assert.Contains(t, opf, "<dc:title>My Great Book!</dc:title>")
	assert.Contains(t, opf, "<dc:creator>Jane Doe</dc:creator>")
	assert.Contains(t, opf, "<dc:subject>business</dc:subject>")
	assert.Contains(t, opf, "<dc:language>en</dc:language>")
	assert.Contains(t, opf, `<item id="toc" href="toc.xhtml" media-type="application/xhtml+xml"/>`)
	assert.Contains(t, opf, `<itemref idref="toc"/>`)
}

func TestExporter_Export_Docx(t *testing.T) {
	ctx := context.Background()
	exporter, client := newTestExporter(t)
	book := seedCompletedBook(t, client, "owner")

	artifact, err := exporter.Export(ctx, "owner", book.ID, &Options{Format: FormatDocx})
	require.NoError(t, err)
	assert.NotEmpty(t, artifact.Bytes)
	assert.Equal(t, "my_great_book_.docx", artifact.Filename)

	// docx 本质是 zip 包
	_, err = zip.NewReader(bytes.NewReader(artifact.Bytes), int64(len(artifact.Bytes)))
	assert.NoError(t, err)
}

func TestExporter_Export_StateChecks(t *testing.T) {
	ctx := context.Background()
	exporter, client := newTestExporter(t)

	t.Run("未完成的书不能导出", func(t *testing.T) {
		book := entity.NewBook("owner", "Draft", 50000)
		require.NoError(t, postgres.NewBookRepository(client).Create(ctx, book))

		_, err := exporter.Export(ctx, "owner", book.ID, &Options{Format: FormatTxt})
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	})

	t.Run("完成但没有章节", func(t *testing.T) {
		book := entity.NewBook("owner", "Empty", 10)
		book.ApplyWordCount(10)
		require.NoError(t, postgres.NewBookRepository(client).Create(ctx, book))

		_, err := exporter.Export(ctx, "owner", book.ID, &Options{Format: FormatTxt})
		assert.ErrorIs(t, err, apperrors.ErrChapterNotFound)
	})

	t.Run("他人的书不可见", func(t *testing.T) {
		book := seedCompletedBook(t, client, "alice")
		_, err := exporter.Export(ctx, "bob", book.ID, &Options{Format: FormatTxt})
		assert.ErrorIs(t, err, apperrors.ErrBookNotFound)
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"txt", FormatTxt, false},
		{" DOCX ", FormatDocx, false},
		{"pdf", FormatPDF, false},
		{"epub", FormatEpub, false},
		{"mobi", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveOptions(t *testing.T) {
	ctx := context.Background()
	exporter, client := newTestExporter(t)

	settings := entity.DefaultSettings("owner")
	settings.Export = &entity.ExportPreferences{
		Format:          "epub",
		PageSize:        "a4",
		IncludeTOC:      true,
		IncludeMetadata: false,
	}
	require.NoError(t, postgres.NewSettingsRepository(client).Create(ctx, settings))

	t.Run("偏好兜底", func(t *testing.T) {
		opts, err := exporter.ResolveOptions(ctx, "owner", nil)
		require.NoError(t, err)
		assert.Equal(t, FormatEpub, opts.Format)
		assert.Equal(t, "a4", opts.PageSize)
		assert.True(t, opts.IncludeTOC)
		assert.False(t, opts.IncludeMetadata)
	})

	t.Run("请求参数逐项覆盖", func(t *testing.T) {
		format := "pdf"
		toc := false
		opts, err := exporter.ResolveOptions(ctx, "owner", &OptionOverrides{
			Format:     &format,
			IncludeTOC: &toc,
		})
		require.NoError(t, err)
		assert.Equal(t, FormatPDF, opts.Format)
		assert.Equal(t, "a4", opts.PageSize)
		assert.False(t, opts.IncludeTOC)
	})

	t.Run("无偏好时使用默认值", func(t *testing.T) {
		opts, err := exporter.ResolveOptions(ctx, "nobody", nil)
		require.NoError(t, err)
		assert.Equal(t, FormatTxt, opts.Format)
		assert.Equal(t, "letter", opts.PageSize)
	})

	t.Run("非法格式", func(t *testing.T) {
		format := "mobi"
		_, err := exporter.ResolveOptions(ctx, "owner", &OptionOverrides{Format: &format})
		assert.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)
	})
}

func TestBuildFilename(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"trailing symbol", "My Great Book!", "my_great_book_.txt"},
		{"every space becomes an underscore", "My  Book!!", "my__book__.txt"},
		{"mixed case and symbols", "UPPER-case & symbols", "upper_case___symbols.txt"},
		{"only symbols", "!!!", "___.txt"},
		{"empty title falls back", "", "manuscript.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildFilename(tt.title, "txt"))
		})
	}
}
