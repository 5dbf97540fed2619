package dto

import (
	"time"

	"bookforge-api/internal/domain/entity"
)

// timeLayout 响应中的时间格式
const timeLayout = time.RFC3339

// GenerateIdeasRequest 生成创意请求
type GenerateIdeasRequest struct {
	Topic          string `json:"topic"`
	Genre          string `json:"genre"`
	TargetAudience string `json:"target_audience"`
	Count          int    `json:"count"`
}

// SelectIdeaRequest 采纳创意请求
type SelectIdeaRequest struct {
	TargetWordCount int `json:"target_word_count"`
}

// IdeaResponse 创意信息
type IdeaResponse struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	Genre          string   `json:"genre,omitempty"`
	TargetAudience string   `json:"target_audience,omitempty"`
	KeyPoints      []string `json:"key_points,omitempty"`
	Selected       bool     `json:"selected"`
	CreatedAt      string   `json:"created_at"`
}

// IdeaListResponse 创意列表
type IdeaListResponse struct {
	Ideas []*IdeaResponse `json:"ideas"`
	Total int             `json:"total"`
}

// NewIdeaResponse 转换创意实体
func NewIdeaResponse(i *entity.Idea) *IdeaResponse {
	return &IdeaResponse{
		ID:             i.ID,
		Title:          i.Title,
		Description:    i.Description,
		Genre:          i.Genre,
		TargetAudience: i.TargetAudience,
		KeyPoints:      i.KeyPoints,
		Selected:       i.Selected,
		CreatedAt:      i.CreatedAt.Format(timeLayout),
	}
}

// NewIdeaListResponse 转换创意列表
func NewIdeaListResponse(ideas []*entity.Idea) *IdeaListResponse {
	out := make([]*IdeaResponse, 0, len(ideas))
	for _, i := range ideas {
		out = append(out, NewIdeaResponse(i))
	}
	return &IdeaListResponse{Ideas: out, Total: len(out)}
}
