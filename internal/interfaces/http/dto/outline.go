package dto

import "bookforge-api/internal/domain/entity"

// GenerateOutlineRequest 生成大纲请求
type GenerateOutlineRequest struct {
	ChapterCount int `json:"chapter_count"`
}

// OutlinePlanRequest 单章规划输入
type OutlinePlanRequest struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title" binding:"required"`
	Description        string   `json:"description"`
	KeyPoints          []string `json:"key_points"`
	EstimatedWordCount int      `json:"estimated_word_count"`
}

// SaveOutlineRequest 手工保存或编辑大纲请求
type SaveOutlineRequest struct {
	Title    string               `json:"title"`
	Chapters []OutlinePlanRequest `json:"chapters" binding:"required,min=1,dive"`
}

// Plans 转换为领域规划条目
func (r *SaveOutlineRequest) Plans() []entity.OutlineChapterPlan {
	plans := make([]entity.OutlineChapterPlan, 0, len(r.Chapters))
	for _, c := range r.Chapters {
		plans = append(plans, entity.OutlineChapterPlan{
			ID:                 c.ID,
			Title:              c.Title,
			Description:        c.Description,
			KeyPoints:          c.KeyPoints,
			EstimatedWordCount: c.EstimatedWordCount,
		})
	}
	return plans
}

// OutlinePlanResponse 单章规划信息
type OutlinePlanResponse struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description,omitempty"`
	KeyPoints          []string `json:"key_points,omitempty"`
	EstimatedWordCount int      `json:"estimated_word_count"`
}

// OutlineResponse 大纲信息
type OutlineResponse struct {
	ID                  string                 `json:"id"`
	BookID              string                 `json:"book_id"`
	Title               string                 `json:"title,omitempty"`
	Chapters            []*OutlinePlanResponse `json:"chapters"`
	IsApproved          bool                   `json:"is_approved"`
	ApprovedAt          string                 `json:"approved_at,omitempty"`
	TotalChapters       int                    `json:"total_chapters"`
	TotalEstimatedWords int                    `json:"total_estimated_words"`
	CreatedAt           string                 `json:"created_at"`
	UpdatedAt           string                 `json:"updated_at"`
}

// NewOutlineResponse 转换大纲实体
func NewOutlineResponse(o *entity.Outline) *OutlineResponse {
	chapters := make([]*OutlinePlanResponse, 0, len(o.Chapters))
	for i := range o.Chapters {
		p := o.Chapters[i]
		chapters = append(chapters, &OutlinePlanResponse{
			ID:                 p.ID,
			Title:              p.Title,
			Description:        p.Description,
			KeyPoints:          p.KeyPoints,
			EstimatedWordCount: p.EstimatedWordCount,
		})
	}

	resp := &OutlineResponse{
		ID:                  o.ID,
		BookID:              o.BookID,
		Title:               o.Title,
		Chapters:            chapters,
		IsApproved:          o.IsApproved,
		TotalChapters:       o.TotalChapters,
		TotalEstimatedWords: o.TotalEstimatedWords,
		CreatedAt:           o.CreatedAt.Format(timeLayout),
		UpdatedAt:           o.UpdatedAt.Format(timeLayout),
	}
	if o.ApprovedAt != nil {
		resp.ApprovedAt = o.ApprovedAt.Format(timeLayout)
	}
	return resp
}
