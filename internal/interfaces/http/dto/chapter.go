package dto

import "bookforge-api/internal/domain/entity"

// GenerateChapterRequest 生成章节请求
type GenerateChapterRequest struct {
	PlanID string `json:"plan_id" binding:"required"`
}

// CreateChapterRequest 手工创建章节请求
type CreateChapterRequest struct {
	Number  int    `json:"number" binding:"required,gte=1"`
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
}

// UpdateChapterRequest 更新章节请求
type UpdateChapterRequest struct {
	Title   *string `json:"title"`
	Content string  `json:"content"`
}

// ChapterResponse 章节信息
type ChapterResponse struct {
	ID        string `json:"id"`
	BookID    string `json:"book_id"`
	PlanID    string `json:"plan_id,omitempty"`
	Number    int    `json:"number"`
	Title     string `json:"title"`
	Content   string `json:"content,omitempty"`
	WordCount int    `json:"word_count"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ChapterListResponse 章节列表，列表项不含正文
type ChapterListResponse struct {
	Chapters []*ChapterResponse `json:"chapters"`
	Total    int                `json:"total"`
}

// NewChapterResponse 转换章节实体
func NewChapterResponse(c *entity.Chapter, includeContent bool) *ChapterResponse {
	resp := &ChapterResponse{
		ID:        c.ID,
		BookID:    c.BookID,
		PlanID:    c.PlanID,
		Number:    c.Number,
		Title:     c.Title,
		WordCount: c.WordCount,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt.Format(timeLayout),
		UpdatedAt: c.UpdatedAt.Format(timeLayout),
	}
	if includeContent {
		resp.Content = c.Content
	}
	return resp
}

// NewChapterListResponse 转换章节列表
func NewChapterListResponse(chapters []*entity.Chapter) *ChapterListResponse {
	out := make([]*ChapterResponse, 0, len(chapters))
	for _, c := range chapters {
		out = append(out, NewChapterResponse(c, false))
	}
	return &ChapterListResponse{Chapters: out, Total: len(out)}
}
