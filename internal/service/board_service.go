package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"taskboard/internal/access"
	"taskboard/internal/apperr"
	"taskboard/internal/model"
)

type BoardService struct {
	boards   BoardStore
	recorder *Recorder
	logger   zerolog.Logger
}

func NewBoardService(boards BoardStore, recorder *Recorder, logger zerolog.Logger) *BoardService {
	return &BoardService{boards: boards, recorder: recorder, logger: logger}
}

type CreateBoardParams struct {
	Title       string
	Description string
	Background  string
}

type UpdateBoardParams struct {
	Title       *string
	Description *string
	Background  *string
}

// BoardSummary pairs a board with whether the principal sees it through a
// membership rather than ownership.
type BoardSummary struct {
	Board    model.Board
	IsShared bool
}

func (s *BoardService) Create(ctx context.Context, principal uuid.UUID, p CreateBoardParams) (*model.Board, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return nil, apperr.Validation("title is required")
	}
	background := p.Background
	if background == "" {
		background = model.DefaultBackground
	}
	board := &model.Board{
		ID:          uuid.New(),
		Title:       title,
		Description: strings.TrimSpace(p.Description),
		Background:  background,
		OwnerID:     principal,
	}
	if err := s.boards.Create(ctx, board); err != nil {
		return nil, apperr.Internal("failed to create board", err)
	}
	s.recorder.Record(ctx, board.ID, principal, model.ActionBoardCreated, model.TargetBoard, board.ID, board.Title, nil)
	return board, nil
}

// ListMine returns the principal's own live boards followed by live boards
// shared with them through a membership.
func (s *BoardService) ListMine(ctx context.Context, principal uuid.UUID) ([]BoardSummary, error) {
	owned, err := s.boards.GetOwned(ctx, principal, false)
	if err != nil {
		return nil, apperr.Internal("failed to list boards", err)
	}
	shared, err := s.boards.GetSharedWith(ctx, principal)
	if err != nil {
		return nil, apperr.Internal("failed to list shared boards", err)
	}
	summaries := make([]BoardSummary, 0, len(owned)+len(shared))
	for _, b := range owned {
		summaries = append(summaries, BoardSummary{Board: b})
	}
	for _, b := range shared {
		summaries = append(summaries, BoardSummary{Board: b, IsShared: true})
	}
	return summaries, nil
}

func (s *BoardService) Get(ctx context.Context, principal, boardID uuid.UUID) (*model.Board, error) {
	return authorizeBoard(ctx, s.boards, boardID, principal, access.Read)
}

func (s *BoardService) Update(ctx context.Context, principal, boardID uuid.UUID, p UpdateBoardParams) (*model.Board, error) {
	board, err := authorizeBoard(ctx, s.boards, boardID, principal, access.Write)
	if err != nil {
		return nil, err
	}
	var changed []string
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return nil, apperr.Validation("title cannot be empty")
		}
		if title != board.Title {
			board.Title = title
			changed = append(changed, "title")
		}
	}
	if p.Description != nil && *p.Description != board.Description {
		board.Description = *p.Description
		changed = append(changed, "description")
	}
	if p.Background != nil && *p.Background != board.Background {
		board.Background = *p.Background
		changed = append(changed, "background")
	}
	if len(changed) == 0 {
		return board, nil
	}
	if err := s.boards.Update(ctx, board); err != nil {
		return nil, apperr.Internal("failed to update board", err)
	}
	s.recorder.Record(ctx, board.ID, principal, model.ActionBoardUpdated, model.TargetBoard, board.ID, board.Title, map[string]any{"changed": changed})
	return board, nil
}

func (s *BoardService) Archive(ctx context.Context, principal, boardID uuid.UUID) (*model.Board, error) {
	board, err := authorizeBoard(ctx, s.boards, boardID, principal, access.Manage)
	if err != nil {
		return nil, err
	}
	if board.IsArchived {
		return nil, apperr.Conflict("board is already archived")
	}
	now := time.Now()
	board.IsArchived = true
	board.ArchivedAt = &now
	if err := s.boards.Update(ctx, board); err != nil {
		return nil, apperr.Internal("failed to archive board", err)
	}
	s.recorder.Record(ctx, board.ID, principal, model.ActionBoardArchived, model.TargetBoard, board.ID, board.Title, nil)
	return board, nil
}

func (s *BoardService) Restore(ctx context.Context, principal, boardID uuid.UUID) (*model.Board, error) {
	board, err := authorizeBoard(ctx, s.boards, boardID, principal, access.Manage)
	if err != nil {
		return nil, err
	}
	if !board.IsArchived {
		return nil, apperr.Conflict("board is not archived")
	}
	board.IsArchived = false
	board.ArchivedAt = nil
	if err := s.boards.Update(ctx, board); err != nil {
		return nil, apperr.Internal("failed to restore board", err)
	}
	s.recorder.Record(ctx, board.ID, principal, model.ActionBoardRestored, model.TargetBoard, board.ID, board.Title, nil)
	return board, nil
}

// ListArchived returns the principal's own archived boards, most recently
// archived first.
func (s *BoardService) ListArchived(ctx context.Context, principal uuid.UUID) ([]model.Board, error) {
	boards, err := s.boards.GetOwned(ctx, principal, true)
	if err != nil {
		return nil, apperr.Internal("failed to list archived boards", err)
	}
	return boards, nil
}

// Delete removes the board together with its lists, cards and activity trail
// in a single transaction. Only the owner may do this; admins can archive but
// not delete.
func (s *BoardService) Delete(ctx context.Context, principal, boardID uuid.UUID) error {
	board, err := loadBoard(ctx, s.boards, boardID)
	if err != nil {
		return err
	}
	if board.OwnerID != principal {
		return apperr.Permission("only the owner can delete this board")
	}
	if err := s.boards.Delete(ctx, board.ID); err != nil {
		return apperr.Internal("failed to delete board", err)
	}
	s.logger.Info().
		Str("board_id", board.ID.String()).
		Str("user_id", principal.String()).
		Msg("board deleted")
	return nil
}
