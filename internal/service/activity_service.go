package service

import (
	"context"

	"github.com/google/uuid"

	"taskboard/internal/access"
	"taskboard/internal/apperr"
	"taskboard/internal/model"
)

const (
	defaultBoardActivityLimit = 20
	defaultCardActivityLimit  = 10
	maxActivityLimit          = 100
)

// ActivityService reads the activity trail. Records are only ever written
// through the Recorder; nothing here mutates.
type ActivityService struct {
	activities ActivityStore
	boards     BoardStore
	cards      CardStore
}

func NewActivityService(activities ActivityStore, boards BoardStore, cards CardStore) *ActivityService {
	return &ActivityService{activities: activities, boards: boards, cards: cards}
}

// ActivityPage is one page of activity records, newest first.
type ActivityPage struct {
	Items []model.Activity
	Page  int
	Limit int
	Total int64
	Pages int
}

func (s *ActivityService) ListByBoard(ctx context.Context, principal, boardID uuid.UUID, page, limit int) (*ActivityPage, error) {
	if _, err := authorizeBoard(ctx, s.boards, boardID, principal, access.Read); err != nil {
		return nil, err
	}
	page, limit = clampPaging(page, limit, defaultBoardActivityLimit)
	items, total, err := s.activities.ListByBoard(ctx, boardID, (page-1)*limit, limit)
	if err != nil {
		return nil, apperr.Internal("failed to load activity", err)
	}
	return newPage(items, page, limit, total), nil
}

func (s *ActivityService) ListByCard(ctx context.Context, principal, cardID uuid.UUID, page, limit int) (*ActivityPage, error) {
	card, err := loadCard(ctx, s.cards, cardID)
	if err != nil {
		return nil, err
	}
	if _, err := authorizeBoard(ctx, s.boards, card.BoardID, principal, access.Read); err != nil {
		return nil, err
	}
	page, limit = clampPaging(page, limit, defaultCardActivityLimit)
	items, total, err := s.activities.ListByCard(ctx, card.ID, (page-1)*limit, limit)
	if err != nil {
		return nil, apperr.Internal("failed to load activity", err)
	}
	return newPage(items, page, limit, total), nil
}

// ListByUser returns the principal's own trail across all boards.
func (s *ActivityService) ListByUser(ctx context.Context, principal uuid.UUID, page, limit int) (*ActivityPage, error) {
	page, limit = clampPaging(page, limit, defaultBoardActivityLimit)
	items, total, err := s.activities.ListByUser(ctx, principal, (page-1)*limit, limit)
	if err != nil {
		return nil, apperr.Internal("failed to load activity", err)
	}
	return newPage(items, page, limit, total), nil
}

func clampPaging(page, limit, defaultLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}
	return page, limit
}

func newPage(items []model.Activity, page, limit int, total int64) *ActivityPage {
	pages := int((total + int64(limit) - 1) / int64(limit))
	return &ActivityPage{Items: items, Page: page, Limit: limit, Total: total, Pages: pages}
}
