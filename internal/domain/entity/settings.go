// Package entity 定义领域实体
package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExportPreferences 导出偏好
type ExportPreferences struct {
	Format          string `json:"format,omitempty"`
	PageSize        string `json:"page_size,omitempty"`
	IncludeTOC      bool   `json:"include_toc"`
	IncludeMetadata bool   `json:"include_metadata"`
	KDPFormatting   bool   `json:"kdp_formatting"`
}

// Settings 用户设置（每用户一条，首次访问时按默认值创建）
type Settings struct {
	ID                     string             `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerID                string             `json:"owner_id" gorm:"type:uuid;uniqueIndex;not null"`
	APIKey                 string             `json:"api_key,omitempty" gorm:"type:varchar(255)"`
	Model                  string             `json:"model,omitempty" gorm:"type:varchar(100)"`
	DefaultGenre           string             `json:"default_genre,omitempty" gorm:"type:varchar(100)"`
	DefaultTargetWordCount int                `json:"default_target_word_count" gorm:"default:50000"`
	Autosave               bool               `json:"autosave" gorm:"default:true"`
	Export                 *ExportPreferences `json:"export,omitempty" gorm:"type:jsonb;serializer:json"`
	CreatedAt              time.Time          `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt              time.Time          `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Settings) TableName() string {
	return "settings"
}

// BeforeCreate 填充主键
func (s *Settings) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// DefaultSettings 返回默认设置
func DefaultSettings(ownerID string) *Settings {
	now := time.Now()
	return &Settings{
		OwnerID:                ownerID,
		Model:                  "gpt-4o",
		DefaultGenre:           "business",
		DefaultTargetWordCount: 50000,
		Autosave:               true,
		Export: &ExportPreferences{
			Format:          "txt",
			PageSize:        "letter",
			IncludeTOC:      true,
			IncludeMetadata: true,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
