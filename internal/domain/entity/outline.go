// Package entity 定义领域实体
package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OutlineChapterPlan 大纲中的单章规划
type OutlineChapterPlan struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description,omitempty"`
	KeyPoints          []string `json:"key_points,omitempty"`
	EstimatedWordCount int      `json:"estimated_word_count"`
}

// Outline 大纲实体（每本书至多一条）
type Outline struct {
	ID                  string               `json:"id" gorm:"type:uuid;primaryKey"`
	BookID              string               `json:"book_id" gorm:"type:uuid;uniqueIndex;not null"`
	Title               string               `json:"title" gorm:"type:varchar(255)"`
	Chapters            []OutlineChapterPlan `json:"chapters" gorm:"type:jsonb;serializer:json"`
	IsApproved          bool                 `json:"is_approved" gorm:"default:false"`
	ApprovedAt          *time.Time           `json:"approved_at,omitempty"`
	TotalChapters       int                  `json:"total_chapters" gorm:"default:0"`
	TotalEstimatedWords int                  `json:"total_estimated_words" gorm:"default:0"`
	CreatedAt           time.Time            `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt           time.Time            `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Outline) TableName() string {
	return "outlines"
}

// BeforeCreate 填充主键和规划条目 ID
func (o *Outline) BeforeCreate(_ *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	o.EnsurePlanIDs()
	return nil
}

// EnsurePlanIDs 为缺少 ID 的规划条目补全标识
func (o *Outline) EnsurePlanIDs() {
	for i := range o.Chapters {
		if o.Chapters[i].ID == "" {
			o.Chapters[i].ID = uuid.NewString()
		}
	}
}

// NewOutline 创建新大纲
func NewOutline(bookID, title string, chapters []OutlineChapterPlan) *Outline {
	now := time.Now()
	o := &Outline{
		BookID:    bookID,
		Title:     title,
		Chapters:  chapters,
		CreatedAt: now,
		UpdatedAt: now,
	}
	o.RecalcTotals()
	return o
}

// RecalcTotals 重算派生统计字段
// totalChapters == len(chapters)，totalEstimatedWords == sum(estimated)
func (o *Outline) RecalcTotals() {
	o.TotalChapters = len(o.Chapters)
	total := 0
	for i := range o.Chapters {
		total += o.Chapters[i].EstimatedWordCount
	}
	o.TotalEstimatedWords = total
}

// Approve 标记大纲已批准
// 重复批准仅刷新时间戳，批准标记单调不可回退
func (o *Outline) Approve(at time.Time) {
	o.IsApproved = true
	o.ApprovedAt = &at
	o.UpdatedAt = at
}

// FindChapterPlan 按规划条目 ID 查找单章规划
func (o *Outline) FindChapterPlan(planID string) (OutlineChapterPlan, bool) {
	for i := range o.Chapters {
		if o.Chapters[i].ID == planID {
			return o.Chapters[i], true
		}
	}
	return OutlineChapterPlan{}, false
}
