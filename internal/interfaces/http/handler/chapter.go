package handler

import (
	"github.com/gin-gonic/gin"

	"bookforge-api/internal/application/lifecycle"
	"bookforge-api/internal/interfaces/http/dto"
)

// ChapterHandler 章节接口
type ChapterHandler struct {
	engine *lifecycle.Engine
}

// NewChapterHandler 创建章节处理器
func NewChapterHandler(engine *lifecycle.Engine) *ChapterHandler {
	return &ChapterHandler{engine: engine}
}

// Generate 依据大纲规划生成一章
// POST /api/v1/books/:bid/chapters/generate
func (h *ChapterHandler) Generate(c *gin.Context) {
	var req dto.GenerateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	chapter, err := h.engine.GenerateChapter(c.Request.Context(), currentUserID(c), dto.BindBookID(c), req.PlanID)
	if err != nil {
		handleError(c, err)
		return
	}

	dto.Created(c, dto.NewChapterResponse(chapter, true))
}

// Create 手工创建一章
// POST /api/v1/books/:bid/chapters
func (h *ChapterHandler) Create(c *gin.Context) {
	var req dto.CreateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	chapter, err := h.engine.CreateChapter(c.Request.Context(), currentUserID(c), dto.BindBookID(c), req.Number, req.Title, req.Content)
	if err != nil {
		handleError(c, err)
		return
	}

	dto.Created(c, dto.NewChapterResponse(chapter, true))
}

// List 章节列表（不含正文）
// GET /api/v1/books/:bid/chapters
func (h *ChapterHandler) List(c *gin.Context) {
	chapters, err := h.engine.ListChapters(c.Request.Context(), currentUserID(c), dto.BindBookID(c))
	if err != nil {
		handleError(c, err)
		return
	}

	dto.Success(c, dto.NewChapterListResponse(chapters))
}

// Get 章节详情
// GET /api/v1/chapters/:cid
func (h *ChapterHandler) Get(c *gin.Context) {
	chapter, err := h.engine.GetChapter(c.Request.Context(), currentUserID(c), dto.BindChapterID(c))
	if err != nil {
		handleError(c, err)
		return
	}

	dto.Success(c, dto.NewChapterResponse(chapter, true))
}

// Update 更新章节正文
// PUT /api/v1/chapters/:cid
func (h *ChapterHandler) Update(c *gin.Context) {
	var req dto.UpdateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	chapter, err := h.engine.UpdateChapterContent(c.Request.Context(), currentUserID(c), dto.BindChapterID(c), req.Content, req.Title)
	if err != nil {
		handleError(c, err)
		return
	}

	dto.Success(c, dto.NewChapterResponse(chapter, true))
}

// Delete 删除章节
// DELETE /api/v1/chapters/:cid
func (h *ChapterHandler) Delete(c *gin.Context) {
	if err := h.engine.DeleteChapter(c.Request.Context(), currentUserID(c), dto.BindChapterID(c)); err != nil {
		handleError(c, err)
		return
	}

	dto.NoContent(c)
}
