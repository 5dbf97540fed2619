// Package entity 定义领域实体
package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Idea 候选选题实体（被采纳前独立于 Book）
type Idea struct {
	ID             string    `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerID        string    `json:"owner_id" gorm:"type:uuid;index;not null"`
	Title          string    `json:"title" gorm:"type:varchar(255);not null"`
	Description    string    `json:"description,omitempty" gorm:"type:text"`
	Genre          string    `json:"genre,omitempty" gorm:"type:varchar(100)"`
	TargetAudience string    `json:"target_audience,omitempty" gorm:"type:varchar(255)"`
	KeyPoints      []string  `json:"key_points,omitempty" gorm:"type:jsonb;serializer:json"`
	Selected       bool      `json:"selected" gorm:"default:false"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Idea) TableName() string {
	return "ideas"
}

// BeforeCreate 填充主键
func (i *Idea) BeforeCreate(_ *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
