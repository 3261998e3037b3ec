package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard/internal/model"
	"taskboard/internal/ordering"
)

type CardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) *CardRepository {
	return &CardRepository{db: db}
}

func (r *CardRepository) Create(ctx context.Context, card *model.Card) error {
	return r.db.WithContext(ctx).Create(card).Error
}

func (r *CardRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Card, error) {
	var card model.Card
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&card).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &card, nil
}

// GetByList returns the list's live cards in position order. Equal
// positions break ties by creation time, then id.
func (r *CardRepository) GetByList(ctx context.Context, listID uuid.UUID) ([]model.Card, error) {
	var cards []model.Card
	err := r.db.WithContext(ctx).
		Where("list_id = ? AND is_archived = ?", listID, false).
		Order("position, created_at, id").
		Find(&cards).Error
	return cards, err
}

// GetByBoard returns every card on the board, archived included. Used for
// board-wide label propagation.
func (r *CardRepository) GetByBoard(ctx context.Context, boardID uuid.UUID) ([]model.Card, error) {
	var cards []model.Card
	err := r.db.WithContext(ctx).Where("board_id = ?", boardID).Find(&cards).Error
	return cards, err
}

func (r *CardRepository) GetArchivedByBoard(ctx context.Context, boardID uuid.UUID) ([]model.Card, error) {
	var cards []model.Card
	err := r.db.WithContext(ctx).
		Where("board_id = ? AND is_archived = ?", boardID, true).
		Order("archived_at DESC").
		Find(&cards).Error
	return cards, err
}

func (r *CardRepository) Update(ctx context.Context, card *model.Card) error {
	return r.db.WithContext(ctx).Save(card).Error
}

func (r *CardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Card{}, "id = ?", id).Error
}

func (r *CardRepository) UpdatePositions(ctx context.Context, assignments []ordering.Assignment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, a := range assignments {
			if err := tx.Model(&model.Card{}).Where("id = ?", a.ID).
				Update("position", a.Position).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
