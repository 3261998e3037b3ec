// Package service implements the use-case layer: every mutation loads its
// target and owning board, authorizes the principal, applies the change
// through the stores, recomputes positions against a freshly read sibling
// set when needed, and finally records an activity entry.
package service

import (
	"context"

	"github.com/google/uuid"

	"taskboard/internal/access"
	"taskboard/internal/apperr"
	"taskboard/internal/model"
)

func loadBoard(ctx context.Context, boards BoardStore, id uuid.UUID) (*model.Board, error) {
	board, err := boards.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("failed to load board", err)
	}
	if board == nil {
		return nil, apperr.NotFound("board not found")
	}
	return board, nil
}

func loadList(ctx context.Context, lists ListStore, id uuid.UUID) (*model.List, error) {
	list, err := lists.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("failed to load list", err)
	}
	if list == nil {
		return nil, apperr.NotFound("list not found")
	}
	return list, nil
}

func loadCard(ctx context.Context, cards CardStore, id uuid.UUID) (*model.Card, error) {
	card, err := cards.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("failed to load card", err)
	}
	if card == nil {
		return nil, apperr.NotFound("card not found")
	}
	return card, nil
}

// authorizeBoard loads the board and checks the capability. Authorization
// always precedes any mutation.
func authorizeBoard(ctx context.Context, boards BoardStore, boardID, principal uuid.UUID, capability access.Capability) (*model.Board, error) {
	board, err := loadBoard(ctx, boards, boardID)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(board, principal, capability); err != nil {
		return nil, err
	}
	return board, nil
}

func listPositions(lists []model.List) []float64 {
	positions := make([]float64, len(lists))
	for i, l := range lists {
		positions[i] = l.Position
	}
	return positions
}

func cardPositions(cards []model.Card) []float64 {
	positions := make([]float64, len(cards))
	for i, c := range cards {
		positions[i] = c.Position
	}
	return positions
}

// truncate shortens s to at most n runes; activity titles for comments
// keep only a prefix of the text.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
