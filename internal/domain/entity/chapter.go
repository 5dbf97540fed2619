// Package entity 定义领域实体
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChapterStatus 章节状态
type ChapterStatus string

const (
	ChapterStatusPending   ChapterStatus = "pending"
	ChapterStatusWriting   ChapterStatus = "writing"
	ChapterStatusCompleted ChapterStatus = "completed"
)

// Chapter 章节实体
type Chapter struct {
	ID        string        `json:"id" gorm:"type:uuid;primaryKey"`
	BookID    string        `json:"book_id" gorm:"type:uuid;index:idx_chapters_book_number,unique;not null"`
	OutlineID string        `json:"outline_id,omitempty" gorm:"type:uuid;index"`
	PlanID    string        `json:"plan_id,omitempty" gorm:"type:uuid"`
	Number    int           `json:"number" gorm:"index:idx_chapters_book_number,unique;not null"`
	Title     string        `json:"title" gorm:"type:varchar(255)"`
	Content   string        `json:"content,omitempty" gorm:"type:text"`
	WordCount int           `json:"word_count" gorm:"default:0"`
	Status    ChapterStatus `json:"status" gorm:"type:varchar(50);default:'pending'"`
	CreatedAt time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Chapter) TableName() string {
	return "chapters"
}

// BeforeCreate 填充主键
func (c *Chapter) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// NewChapter 创建新章节
func NewChapter(bookID, outlineID string, number int, title string) *Chapter {
	now := time.Now()
	return &Chapter{
		BookID:    bookID,
		OutlineID: outlineID,
		Number:    number,
		Title:     title,
		WordCount: 0,
		Status:    ChapterStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetContent 设置章节内容并重算字数
func (c *Chapter) SetContent(content string) {
	c.Content = content
	c.WordCount = CountWords(content)
	if c.WordCount > 0 {
		c.Status = ChapterStatusCompleted
	} else {
		c.Status = ChapterStatusWriting
	}
	c.UpdatedAt = time.Now()
}

// CountWords 按空白分词统计非空 token 数
func CountWords(content string) int {
	return len(strings.Fields(content))
}
