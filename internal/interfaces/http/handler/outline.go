package handler

import (
	"github.com/gin-gonic/gin"

	"bookforge-api/internal/application/lifecycle"
	"bookforge-api/internal/interfaces/http/dto"
)

// OutlineHandler 大纲接口
type OutlineHandler struct {
	engine *lifecycle.Engine
}

// NewOutlineHandler 创建大纲处理器
func NewOutlineHandler(engine *lifecycle.Engine) *OutlineHandler {
	return &OutlineHandler{engine: engine}
}

// Generate 生成大纲
// POST /api/v1/books/:bid/outline/generate
func (h *OutlineHandler) Generate(c *gin.Context) {
	var req dto.GenerateOutlineRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	outline, err := h.engine.GenerateOutline(c.Request.Context(), currentUserID(c), dto.BindBookID(c), req.ChapterCount)
	if err != nil {
		handleError(c, err)
		return
	}

	dto.Created(c, dto.NewOutlineResponse(outline))
}

// Save 手工保存大纲
// POST /api/v1/books/:bid/outline
func (h *OutlineHandler) Save(c *gin.Context) {
	var req dto.SaveOutlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	outline, err := h.engine.SaveManualOutline(c.Request.Context(), currentUserID(c), dto.BindBookID(c), req.Title, req.Plans())
	if err != nil {
		handleError(c, err)
		return
	}

	dto.Created(c, dto.NewOutlineResponse(outline))
}

// Get 获取大纲
// GET /api/v1/books/:bid/outline
func (h *OutlineHandler) Get(c *gin.Context) {
	outline, err := h.engine.GetOutline(c.Request.Context(), currentUserID(c), dto.BindBookID(c))
	if err != nil {
		handleError(c, err)
		return
	}

	dto.Success(c, dto.NewOutlineResponse(outline))
}

// Update 编辑大纲
// PUT /api/v1/books/:bid/outline
func (h *OutlineHandler) Update(c *gin.Context) {
	var req dto.SaveOutlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	outline, err := h.engine.UpdateOutline(c.Request.Context(), currentUserID(c), dto.BindBookID(c), req.Title, req.Plans())
	if err != nil {
		handleError(c, err)
		return
	}

	dto.Success(c, dto.NewOutlineResponse(outline))
}

// Approve 批准大纲
// POST /api/v1/books/:bid/outline/approve
func (h *OutlineHandler) Approve(c *gin.Context) {
	outline, err := h.engine.ApproveOutline(c.Request.Context(), currentUserID(c), dto.BindBookID(c))
	if err != nil {
		handleError(c, err)
		return
	}

	dto.Success(c, dto.NewOutlineResponse(outline))
}
