package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookforge-api/internal/application/export"
	"bookforge-api/internal/interfaces/http/dto"
)

// ExportHandler 手稿导出接口
type ExportHandler struct {
	exporter *export.Exporter
}

// NewExportHandler 创建导出处理器
func NewExportHandler(exporter *export.Exporter) *ExportHandler {
	return &ExportHandler{exporter: exporter}
}

// Export 导出手稿并作为附件下载
// GET /api/v1/books/:bid/export?format=txt&toc=true&metadata=true&page_size=letter&kdp=false
func (h *ExportHandler) Export(c *gin.Context) {
	ownerID := currentUserID(c)

	opts, err := h.exporter.ResolveOptions(c.Request.Context(), ownerID, &export.OptionOverrides{
		Format:          dto.QueryString(c, "format"),
		PageSize:        dto.QueryString(c, "page_size"),
		IncludeTOC:      dto.QueryBool(c, "toc"),
		IncludeMetadata: dto.QueryBool(c, "metadata"),
		KDPFormatting:   dto.QueryBool(c, "kdp"),
	})
	if err != nil {
		handleError(c, err)
		return
	}

	artifact, err := h.exporter.Export(c.Request.Context(), ownerID, dto.BindBookID(c), opts)
	if err != nil {
		handleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	c.Data(http.StatusOK, artifact.MIME, artifact.Bytes)
}
