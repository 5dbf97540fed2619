package handler

import (
	"github.com/gin-gonic/gin"

	"bookforge-api/internal/application/settings"
	"bookforge-api/internal/domain/entity"
	"bookforge-api/internal/interfaces/http/dto"
)

// SettingsHandler 用户设置接口
type SettingsHandler struct {
	service *settings.Service
}

// NewSettingsHandler 创建设置处理器
func NewSettingsHandler(service *settings.Service) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// Get 获取设置，缺失时返回默认值
// GET /api/v1/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	s, err := h.service.Get(c.Request.Context(), currentUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}

	dto.Success(c, dto.NewSettingsResponse(s))
}

// Update 合并更新设置
// PUT /api/v1/settings
func (h *SettingsHandler) Update(c *gin.Context) {
	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	in := &settings.UpdateInput{
		APIKey:                 req.APIKey,
		Model:                  req.Model,
		DefaultGenre:           req.DefaultGenre,
		DefaultTargetWordCount: req.DefaultTargetWordCount,
		Autosave:               req.Autosave,
	}
	if req.Export != nil {
		in.Export = &entity.ExportPreferences{
			Format:          req.Export.Format,
			PageSize:        req.Export.PageSize,
			IncludeTOC:      req.Export.IncludeTOC,
			IncludeMetadata: req.Export.IncludeMetadata,
			KDPFormatting:   req.Export.KDPFormatting,
		}
	}

	s, err := h.service.Update(c.Request.Context(), currentUserID(c), in)
	if err != nil {
		handleError(c, err)
		return
	}

	dto.Success(c, dto.NewSettingsResponse(s))
}
