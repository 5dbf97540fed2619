package dto

import "bookforge-api/internal/domain/entity"

// CreateBookRequest 创建书籍请求
type CreateBookRequest struct {
	Title           string   `json:"title" binding:"required"`
	Genre           string   `json:"genre"`
	Description     string   `json:"description"`
	TargetAudience  string   `json:"target_audience"`
	KeyPoints       []string `json:"key_points"`
	TargetWordCount int      `json:"target_word_count" binding:"required,gt=0"`
}

// UpdateBookRequest 更新书籍请求，缺失字段保持原值
type UpdateBookRequest struct {
	Title           *string   `json:"title"`
	Genre           *string   `json:"genre"`
	Description     *string   `json:"description"`
	TargetAudience  *string   `json:"target_audience"`
	KeyPoints       *[]string `json:"key_points"`
	TargetWordCount *int      `json:"target_word_count"`
}

// BookResponse 书籍信息
type BookResponse struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Genre            string   `json:"genre,omitempty"`
	Description      string   `json:"description,omitempty"`
	TargetAudience   string   `json:"target_audience,omitempty"`
	KeyPoints        []string `json:"key_points,omitempty"`
	TargetWordCount  int      `json:"target_word_count"`
	CurrentWordCount int      `json:"current_word_count"`
	Progress         int      `json:"progress"`
	Status           string   `json:"status"`
	CreatedAt        string   `json:"created_at"`
	UpdatedAt        string   `json:"updated_at"`
}

// BookListResponse 书籍列表
type BookListResponse struct {
	Books []*BookResponse `json:"books"`
	Total int             `json:"total"`
}

// NewBookResponse 转换书籍实体
func NewBookResponse(b *entity.Book) *BookResponse {
	return &BookResponse{
		ID:               b.ID,
		Title:            b.Title,
		Genre:            b.Genre,
		Description:      b.Description,
		TargetAudience:   b.TargetAudience,
		KeyPoints:        b.KeyPoints,
		TargetWordCount:  b.TargetWordCount,
		CurrentWordCount: b.CurrentWordCount,
		Progress:         b.Progress,
		Status:           string(b.Status),
		CreatedAt:        b.CreatedAt.Format(timeLayout),
		UpdatedAt:        b.UpdatedAt.Format(timeLayout),
	}
}

// NewBookListResponse 转换书籍列表
func NewBookListResponse(books []*entity.Book) *BookListResponse {
	out := make([]*BookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, NewBookResponse(b))
	}
	return &BookListResponse{Books: out, Total: len(out)}
}
