package dto

import (
	"strings"

	"bookforge-api/internal/domain/entity"
)

// ExportPreferencesRequest 导出偏好输入
type ExportPreferencesRequest struct {
	Format          string `json:"format"`
	PageSize        string `json:"page_size"`
	IncludeTOC      bool   `json:"include_toc"`
	IncludeMetadata bool   `json:"include_metadata"`
	KDPFormatting   bool   `json:"kdp_formatting"`
}

// UpdateSettingsRequest 设置合并更新请求，缺失字段保持原值
type UpdateSettingsRequest struct {
	APIKey                 *string                   `json:"api_key"`
	Model                  *string                   `json:"model"`
	DefaultGenre           *string                   `json:"default_genre"`
	DefaultTargetWordCount *int                      `json:"default_target_word_count"`
	Autosave               *bool                     `json:"autosave"`
	Export                 *ExportPreferencesRequest `json:"export"`
}

// SettingsResponse 用户设置，API Key 做掩码处理
type SettingsResponse struct {
	APIKeyMasked           string                    `json:"api_key,omitempty"`
	Model                  string                    `json:"model,omitempty"`
	DefaultGenre           string                    `json:"default_genre,omitempty"`
	DefaultTargetWordCount int                       `json:"default_target_word_count"`
	Autosave               bool                      `json:"autosave"`
	Export                 *ExportPreferencesRequest `json:"export,omitempty"`
	UpdatedAt              string                    `json:"updated_at"`
}

// NewSettingsResponse 转换设置实体
func NewSettingsResponse(s *entity.Settings) *SettingsResponse {
	resp := &SettingsResponse{
		APIKeyMasked:           maskAPIKey(s.APIKey),
		Model:                  s.Model,
		DefaultGenre:           s.DefaultGenre,
		DefaultTargetWordCount: s.DefaultTargetWordCount,
		Autosave:               s.Autosave,
		UpdatedAt:              s.UpdatedAt.Format(timeLayout),
	}
	if s.Export != nil {
		resp.Export = &ExportPreferencesRequest{
			Format:          s.Export.Format,
			PageSize:        s.Export.PageSize,
			IncludeTOC:      s.Export.IncludeTOC,
			IncludeMetadata: s.Export.IncludeMetadata,
			KDPFormatting:   s.Export.KDPFormatting,
		}
	}
	return resp
}

// maskAPIKey 只保留密钥末四位
func maskAPIKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", 8) + key[len(key)-4:]
}
