package handler

import (
	"github.com/gin-gonic/gin"

	"bookforge-api/internal/application/generation"
	"bookforge-api/internal/application/lifecycle"
	"bookforge-api/internal/interfaces/http/dto"
)

// IdeaHandler 创意接口
type IdeaHandler struct {
	engine *lifecycle.Engine
}

// NewIdeaHandler 创建创意处理器
func NewIdeaHandler(engine *lifecycle.Engine) *IdeaHandler {
	return &IdeaHandler{engine: engine}
}

// Generate 生成一批候选创意
// POST /api/v1/ideas/generate
func (h *IdeaHandler) Generate(c *gin.Context) {
	var req dto.GenerateIdeasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	ideas, err := h.engine.GenerateIdeas(c.Request.Context(), currentUserID(c), &generation.IdeaBrief{
		Topic:          req.Topic,
		Genre:          req.Genre,
		TargetAudience: req.TargetAudience,
		Count:          req.Count,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	dto.Created(c, dto.NewIdeaListResponse(ideas))
}

// List 创意列表
// GET /api/v1/ideas
func (h *IdeaHandler) List(c *gin.Context) {
	ideas, err := h.engine.ListIdeas(c.Request.Context(), currentUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}

	dto.Success(c, dto.NewIdeaListResponse(ideas))
}

// Select 采纳创意并创建书籍
// POST /api/v1/ideas/:iid/select
func (h *IdeaHandler) Select(c *gin.Context) {
	var req dto.SelectIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	book, err := h.engine.SelectIdea(c.Request.Context(), currentUserID(c), dto.BindIdeaID(c), req.TargetWordCount)
	if err != nil {
		handleError(c, err)
		return
	}

	dto.Created(c, dto.NewBookResponse(book))
}

// Delete 删除创意
// DELETE /api/v1/ideas/:iid
func (h *IdeaHandler) Delete(c *gin.Context) {
	if err := h.engine.DeleteIdea(c.Request.Context(), currentUserID(c), dto.BindIdeaID(c)); err != nil {
		handleError(c, err)
		return
	}

	dto.NoContent(c)
}
