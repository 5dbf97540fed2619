// Package settings 实现用户设置读取与合并更新
package settings

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"

	"bookforge-api/internal/domain/entity"
	"bookforge-api/internal/domain/repository"
	apperrors "bookforge-api/pkg/errors"
)

var tracer = otel.Tracer("settings")

// Service 用户设置服务
type Service struct {
	repo repository.SettingsRepository
}

// NewService 创建设置服务
func NewService(repo repository.SettingsRepository) *Service {
	return &Service{repo: repo}
}

// UpdateInput 设置合并更新的输入，nil 字段保持原值
type UpdateInput struct {
	APIKey                 *string
	Model                  *string
	DefaultGenre           *string
	DefaultTargetWordCount *int
	Autosave               *bool
	Export                 *entity.ExportPreferences
}

// Get 获取用户设置，缺失时按默认值创建
func (s *Service) Get(ctx context.Context, ownerID string) (*entity.Settings, error) {
	ctx, span := tracer.Start(ctx, "settings.Service.Get")
	defer span.End()

	settings, err := s.repo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if settings != nil {
		return settings, nil
	}

	settings = entity.DefaultSettings(ownerID)
	if err := s.repo.Create(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// Update 合并更新用户设置，只覆盖提交的字段
func (s *Service) Update(ctx context.Context, ownerID string, in *UpdateInput) (*entity.Settings, error) {
	ctx, span := tracer.Start(ctx, "settings.Service.Update")
	defer span.End()

	settings, err := s.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if in.APIKey != nil {
		settings.APIKey = *in.APIKey
	}
	if in.Model != nil {
		settings.Model = *in.Model
	}
	if in.DefaultGenre != nil {
		settings.DefaultGenre = *in.DefaultGenre
	}
	if in.DefaultTargetWordCount != nil {
		if *in.DefaultTargetWordCount <= 0 {
			return nil, apperrors.ErrValidationFailed.WithDetail("default_target_word_count must be positive")
		}
		settings.DefaultTargetWordCount = *in.DefaultTargetWordCount
	}
	if in.Autosave != nil {
		settings.Autosave = *in.Autosave
	}
	if in.Export != nil {
		settings.Export = in.Export
	}
	settings.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
