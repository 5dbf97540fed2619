package handler

import (
	"github.com/gin-gonic/gin"

	"bookforge-api/internal/application/lifecycle"
	"bookforge-api/internal/interfaces/http/dto"
)

// BookHandler 书籍接口
type BookHandler struct {
	engine *lifecycle.Engine
}

// NewBookHandler 创建书籍处理器
func NewBookHandler(engine *lifecycle.Engine) *BookHandler {
	return &BookHandler{engine: engine}
}

// Create 创建书籍
// POST /api/v1/books
func (h *BookHandler) Create(c *gin.Context) {
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	book, err := h.engine.CreateBook(c.Request.Context(), currentUserID(c), &lifecycle.CreateBookInput{
		Title:           req.Title,
		Genre:           req.Genre,
		Description:     req.Description,
		TargetAudience:  req.TargetAudience,
		KeyPoints:       req.KeyPoints,
		TargetWordCount: req.TargetWordCount,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	dto.Created(c, dto.NewBookResponse(book))
}

// List 书籍列表
// GET /api/v1/books
func (h *BookHandler) List(c *gin.Context) {
	books, err := h.engine.ListBooks(c.Request.Context(), currentUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}

	dto.Success(c, dto.NewBookListResponse(books))
}

// Get 书籍详情
// GET /api/v1/books/:bid
func (h *BookHandler) Get(c *gin.Context) {
	book, err := h.engine.GetBook(c.Request.Context(), currentUserID(c), dto.BindBookID(c))
	if err != nil {
		handleError(c, err)
		return
	}

	dto.Success(c, dto.NewBookResponse(book))
}

// Update 更新书籍
// PUT /api/v1/books/:bid
func (h *BookHandler) Update(c *gin.Context) {
	var req dto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	book, err := h.engine.UpdateBook(c.Request.Context(), currentUserID(c), dto.BindBookID(c), &lifecycle.UpdateBookInput{
		Title:           req.Title,
		Genre:           req.Genre,
		Description:     req.Description,
		TargetAudience:  req.TargetAudience,
		KeyPoints:       req.KeyPoints,
		TargetWordCount: req.TargetWordCount,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	dto.Success(c, dto.NewBookResponse(book))
}

// Delete 删除书籍及其大纲和章节
// DELETE /api/v1/books/:bid
func (h *BookHandler) Delete(c *gin.Context) {
	if err := h.engine.DeleteBook(c.Request.Context(), currentUserID(c), dto.BindBookID(c)); err != nil {
		handleError(c, err)
		return
	}

	dto.NoContent(c)
}
