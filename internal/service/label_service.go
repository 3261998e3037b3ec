package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"taskboard/internal/access"
	"taskboard/internal/apperr"
	"taskboard/internal/model"
)

// LabelService manages the board's label definitions. Renames and deletes
// propagate to every card on the board, archived cards included, so card
// label arrays never reference a name the board no longer defines.
type LabelService struct {
	boards   BoardStore
	cards    CardStore
	recorder *Recorder
	logger   zerolog.Logger
}

func NewLabelService(boards BoardStore, cards CardStore, recorder *Recorder, logger zerolog.Logger) *LabelService {
	return &LabelService{boards: boards, cards: cards, recorder: recorder, logger: logger}
}

type UpdateLabelParams struct {
	Name  *string
	Color *string
}

func (s *LabelService) Create(ctx context.Context, principal, boardID uuid.UUID, name, color string) (*model.Label, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	if color == "" {
		return nil, apperr.Validation("color is required")
	}
	board, err := authorizeBoard(ctx, s.boards, boardID, principal, access.Manage)
	if err != nil {
		return nil, err
	}
	for _, l := range board.Labels {
		if strings.EqualFold(l.Name, name) {
			return nil, apperr.Conflict("a label with this name already exists")
		}
	}
	label := model.Label{ID: uuid.New(), Name: name, Color: color}
	board.Labels = append(board.Labels, label)
	if err := s.boards.Update(ctx, board); err != nil {
		return nil, apperr.Internal("failed to create label", err)
	}
	s.recorder.Record(ctx, board.ID, principal, model.ActionLabelCreated, model.TargetLabel, label.ID, label.Name, map[string]any{"color": color})
	return &label, nil
}

func (s *LabelService) Update(ctx context.Context, principal, boardID, labelID uuid.UUID, p UpdateLabelParams) (*model.Label, error) {
	board, err := authorizeBoard(ctx, s.boards, boardID, principal, access.Manage)
	if err != nil {
		return nil, err
	}
	idx := board.LabelIndex(labelID)
	if idx < 0 {
		return nil, apperr.NotFound("label not found")
	}
	oldName := board.Labels[idx].Name
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, apperr.Validation("name cannot be empty")
		}
		for i, l := range board.Labels {
			if i != idx && strings.EqualFold(l.Name, name) {
				return nil, apperr.Conflict("a label with this name already exists")
			}
		}
		board.Labels[idx].Name = name
	}
	if p.Color != nil {
		board.Labels[idx].Color = *p.Color
	}
	if err := s.boards.Update(ctx, board); err != nil {
		return nil, apperr.Internal("failed to update label", err)
	}
	newName := board.Labels[idx].Name
	if newName != oldName {
		if err := s.renameOnCards(ctx, board.ID, oldName, newName); err != nil {
			return nil, err
		}
	}
	label := board.Labels[idx]
	s.recorder.Record(ctx, board.ID, principal, model.ActionLabelUpdated, model.TargetLabel, label.ID, label.Name, nil)
	return &label, nil
}

func (s *LabelService) Delete(ctx context.Context, principal, boardID, labelID uuid.UUID) error {
	board, err := authorizeBoard(ctx, s.boards, boardID, principal, access.Manage)
	if err != nil {
		return err
	}
	idx := board.LabelIndex(labelID)
	if idx < 0 {
		return apperr.NotFound("label not found")
	}
	removed := board.Labels[idx]
	board.Labels = append(board.Labels[:idx], board.Labels[idx+1:]...)
	if err := s.boards.Update(ctx, board); err != nil {
		return apperr.Internal("failed to delete label", err)
	}
	if err := s.removeFromCards(ctx, board.ID, removed.Name); err != nil {
		return err
	}
	s.recorder.Record(ctx, board.ID, principal, model.ActionLabelDeleted, model.TargetLabel, removed.ID, removed.Name, nil)
	return nil
}

func (s *LabelService) List(ctx context.Context, principal, boardID uuid.UUID) ([]model.Label, error) {
	board, err := authorizeBoard(ctx, s.boards, boardID, principal, access.Read)
	if err != nil {
		return nil, err
	}
	return board.Labels, nil
}

func (s *LabelService) renameOnCards(ctx context.Context, boardID uuid.UUID, oldName, newName string) error {
	cards, err := s.cards.GetByBoard(ctx, boardID)
	if err != nil {
		return apperr.Internal("failed to load cards", err)
	}
	for i := range cards {
		card := &cards[i]
		if !card.HasLabel(oldName) {
			continue
		}
		for j, l := range card.Labels {
			if l == oldName {
				card.Labels[j] = newName
			}
		}
		if err := s.cards.Update(ctx, card); err != nil {
			return apperr.Internal("failed to propagate label rename", err)
		}
	}
	return nil
}

func (s *LabelService) removeFromCards(ctx context.Context, boardID uuid.UUID, name string) error {
	cards, err := s.cards.GetByBoard(ctx, boardID)
	if err != nil {
		return apperr.Internal("failed to load cards", err)
	}
	for i := range cards {
		card := &cards[i]
		if !card.HasLabel(name) {
			continue
		}
		labels := card.Labels[:0]
		for _, l := range card.Labels {
			if l != name {
				labels = append(labels, l)
			}
		}
		card.Labels = labels
		if err := s.cards.Update(ctx, card); err != nil {
			return apperr.Internal("failed to propagate label removal", err)
		}
	}
	return nil
}
