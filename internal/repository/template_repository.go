package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard/internal/model"
)

type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

func (r *TemplateRepository) Create(ctx context.Context, template *model.Template) error {
	return r.db.WithContext(ctx).Create(template).Error
}

func (r *TemplateRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Template, error) {
	var template model.Template
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&template).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &template, nil
}

func (r *TemplateRepository) GetByCreator(ctx context.Context, userID uuid.UUID) ([]model.Template, error) {
	var templates []model.Template
	err := r.db.WithContext(ctx).
		Where("created_by = ?", userID).
		Order("created_at DESC").
		Find(&templates).Error
	return templates, err
}

// GetPublic returns public templates, most used first, optionally filtered
// by category.
func (r *TemplateRepository) GetPublic(ctx context.Context, category string) ([]model.Template, error) {
	var templates []model.Template
	q := r.db.WithContext(ctx).Where("is_public = ?", true)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	err := q.Order("usage_count DESC").Find(&templates).Error
	return templates, err
}

func (r *TemplateRepository) Update(ctx context.Context, template *model.Template) error {
	return r.db.WithContext(ctx).Save(template).Error
}

func (r *TemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Template{}, "id = ?", id).Error
}
