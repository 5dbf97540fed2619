// Package entity 定义领域实体
package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookStatus 书籍生命周期状态
type BookStatus string

const (
	BookStatusIdea      BookStatus = "idea"
	BookStatusOutline   BookStatus = "outline"
	BookStatusApproved  BookStatus = "approved"
	BookStatusWriting   BookStatus = "writing"
	BookStatusCompleted BookStatus = "completed"
)

// Book 书籍实体
type Book struct {
	ID               string     `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerID          string     `json:"owner_id" gorm:"type:uuid;index;not null"`
	Title            string     `json:"title" gorm:"type:varchar(255);not null"`
	Genre            string     `json:"genre,omitempty" gorm:"type:varchar(100)"`
	Description      string     `json:"description,omitempty" gorm:"type:text"`
	TargetAudience   string     `json:"target_audience,omitempty" gorm:"type:varchar(255)"`
	KeyPoints        []string   `json:"key_points,omitempty" gorm:"type:jsonb;serializer:json"`
	TargetWordCount  int        `json:"target_word_count" gorm:"not null"`
	CurrentWordCount int        `json:"current_word_count" gorm:"default:0"`
	Progress         int        `json:"progress" gorm:"default:0"`
	Status           BookStatus `json:"status" gorm:"type:varchar(50);default:'idea'"`
	CreatedAt        time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Book) TableName() string {
	return "books"
}

// BeforeCreate 填充主键
func (b *Book) BeforeCreate(_ *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// NewBook 创建新书籍
func NewBook(ownerID, title string, targetWordCount int) *Book {
	now := time.Now()
	return &Book{
		OwnerID:          ownerID,
		Title:            title,
		TargetWordCount:  targetWordCount,
		CurrentWordCount: 0,
		Progress:         0,
		Status:           BookStatusIdea,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// ApplyWordCount 根据章节总字数重算聚合字段
// progress = clamp(round(total/target*100), 0, 100)，满进度时状态置为 completed
func (b *Book) ApplyWordCount(totalWords int) {
	b.CurrentWordCount = totalWords
	b.Progress = computeProgress(totalWords, b.TargetWordCount)
	if b.Progress >= 100 {
		b.Status = BookStatusCompleted
	} else {
		b.Status = BookStatusWriting
	}
	b.UpdatedAt = time.Now()
}

// IsCompleted 检查书籍是否已完成
func (b *Book) IsCompleted() bool {
	return b.Status == BookStatusCompleted
}

// computeProgress 按目标字数换算进度百分比并截断到 [0,100]
func computeProgress(total, target int) int {
	if target <= 0 {
		return 0
	}
	p := int(float64(total)/float64(target)*100 + 0.5)
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
