package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard/internal/model"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(ctx context.Context, activity *model.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *ActivityRepository) list(cond *gorm.DB, offset, limit int) ([]model.Activity, int64, error) {
	var total int64
	if err := cond.Session(&gorm.Session{}).Model(&model.Activity{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var activities []model.Activity
	err := cond.Session(&gorm.Session{}).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&activities).Error
	return activities, total, err
}

func (r *ActivityRepository) ListByBoard(ctx context.Context, boardID uuid.UUID, offset, limit int) ([]model.Activity, int64, error) {
	cond := r.db.WithContext(ctx).Where("board_id = ?", boardID)
	return r.list(cond, offset, limit)
}

func (r *ActivityRepository) ListByCard(ctx context.Context, cardID uuid.UUID, offset, limit int) ([]model.Activity, int64, error) {
	cond := r.db.WithContext(ctx).Where("target_id = ? AND target_type = ?", cardID, model.TargetCard)
	return r.list(cond, offset, limit)
}

func (r *ActivityRepository) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]model.Activity, int64, error) {
	cond := r.db.WithContext(ctx).Where("user_id = ?", userID)
	return r.list(cond, offset, limit)
}
