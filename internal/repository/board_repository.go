package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard/internal/model"
)

type BoardRepository struct {
	db *gorm.DB
}

func NewBoardRepository(db *gorm.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

func (r *BoardRepository) Create(ctx context.Context, board *model.Board) error {
	return r.db.WithContext(ctx).Create(board).Error
}

func (r *BoardRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Board, error) {
	var board model.Board
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&board).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &board, nil
}

// GetOwned returns the user's own boards: archived ones ordered by archive
// time, live ones by creation time, newest first.
func (r *BoardRepository) GetOwned(ctx context.Context, ownerID uuid.UUID, archived bool) ([]model.Board, error) {
	var boards []model.Board
	q := r.db.WithContext(ctx).Where("owner_id = ? AND is_archived = ?", ownerID, archived)
	if archived {
		q = q.Order("archived_at DESC")
	} else {
		q = q.Order("created_at DESC")
	}
	err := q.Find(&boards).Error
	return boards, err
}

// GetSharedWith returns live boards whose member set contains the user.
func (r *BoardRepository) GetSharedWith(ctx context.Context, userID uuid.UUID) ([]model.Board, error) {
	var boards []model.Board
	membership := fmt.Sprintf(`[{"user_id": %q}]`, userID.String())
	err := r.db.WithContext(ctx).
		Where("members @> ?::jsonb AND is_archived = ?", membership, false).
		Order("created_at DESC").
		Find(&boards).Error
	return boards, err
}

func (r *BoardRepository) Update(ctx context.Context, board *model.Board) error {
	return r.db.WithContext(ctx).Save(board).Error
}

// Delete removes the board and cascades over its lists, cards and activity
// records in a single transaction.
func (r *BoardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("board_id = ?", id).Delete(&model.List{}).Error; err != nil {
			return err
		}
		if err := tx.Where("board_id = ?", id).Delete(&model.Card{}).Error; err != nil {
			return err
		}
		if err := tx.Where("board_id = ?", id).Delete(&model.Activity{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Board{}).Error
	})
}
