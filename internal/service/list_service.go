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
	"taskboard/internal/ordering"
)

type ListService struct {
	lists    ListStore
	boards   BoardStore
	recorder *Recorder
	logger   zerolog.Logger
}

func NewListService(lists ListStore, boards BoardStore, recorder *Recorder, logger zerolog.Logger) *ListService {
	return &ListService{lists: lists, boards: boards, recorder: recorder, logger: logger}
}

func (s *ListService) Create(ctx context.Context, principal, boardID uuid.UUID, title string) (*model.List, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperr.Validation("title is required")
	}
	board, err := authorizeBoard(ctx, s.boards, boardID, principal, access.Write)
	if err != nil {
		return nil, err
	}
	siblings, err := s.lists.GetByBoard(ctx, board.ID)
	if err != nil {
		return nil, apperr.Internal("failed to load lists", err)
	}
	list := &model.List{
		ID:       uuid.New(),
		BoardID:  board.ID,
		Title:    title,
		Position: ordering.Append(listPositions(siblings)),
	}
	if err := s.lists.Create(ctx, list); err != nil {
		return nil, apperr.Internal("failed to create list", err)
	}
	s.recorder.Record(ctx, board.ID, principal, model.ActionListCreated, model.TargetList, list.ID, list.Title, nil)
	return list, nil
}

func (s *ListService) ListByBoard(ctx context.Context, principal, boardID uuid.UUID) ([]model.List, error) {
	if _, err := authorizeBoard(ctx, s.boards, boardID, principal, access.Read); err != nil {
		return nil, err
	}
	lists, err := s.lists.GetByBoard(ctx, boardID)
	if err != nil {
		return nil, apperr.Internal("failed to load lists", err)
	}
	return lists, nil
}

func (s *ListService) ListArchived(ctx context.Context, principal, boardID uuid.UUID) ([]model.List, error) {
	if _, err := authorizeBoard(ctx, s.boards, boardID, principal, access.Read); err != nil {
		return nil, err
	}
	lists, err := s.lists.GetArchivedByBoard(ctx, boardID)
	if err != nil {
		return nil, apperr.Internal("failed to load archived lists", err)
	}
	return lists, nil
}

// BulkReorder replaces the ordering of every live list on the board.
// orderedIDs must be exactly the board's live lists, each appearing once;
// positions are rewritten to 0..n-1 atomically.
func (s *ListService) BulkReorder(ctx context.Context, principal, boardID uuid.UUID, orderedIDs []uuid.UUID) ([]model.List, error) {
	board, err := authorizeBoard(ctx, s.boards, boardID, principal, access.Write)
	if err != nil {
		return nil, err
	}
	siblings, err := s.lists.GetByBoard(ctx, board.ID)
	if err != nil {
		return nil, apperr.Internal("failed to load lists", err)
	}
	if len(orderedIDs) != len(siblings) {
		return nil, apperr.Validation("reorder must include every list on the board")
	}
	known := make(map[uuid.UUID]bool, len(siblings))
	for _, l := range siblings {
		known[l.ID] = true
	}
	seen := make(map[uuid.UUID]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if !known[id] {
			return nil, apperr.Validation("list does not belong to this board")
		}
		if seen[id] {
			return nil, apperr.Validation("duplicate list in reorder")
		}
		seen[id] = true
	}
	if err := s.lists.UpdatePositions(ctx, ordering.Compacted(orderedIDs)); err != nil {
		return nil, apperr.Internal("failed to reorder lists", err)
	}
	s.recorder.Record(ctx, board.ID, principal, model.ActionListReordered, model.TargetBoard, board.ID, board.Title, nil)
	lists, err := s.lists.GetByBoard(ctx, board.ID)
	if err != nil {
		return nil, apperr.Internal("failed to load lists", err)
	}
	return lists, nil
}

func (s *ListService) Update(ctx context.Context, principal, listID uuid.UUID, title string) (*model.List, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperr.Validation("title is required")
	}
	list, err := loadList(ctx, s.lists, listID)
	if err != nil {
		return nil, err
	}
	board, err := authorizeBoard(ctx, s.boards, list.BoardID, principal, access.Write)
	if err != nil {
		return nil, err
	}
	list.Title = title
	if err := s.lists.Update(ctx, list); err != nil {
		return nil, apperr.Internal("failed to update list", err)
	}
	s.recorder.Record(ctx, board.ID, principal, model.ActionListUpdated, model.TargetList, list.ID, list.Title, nil)
	return list, nil
}

func (s *ListService) Archive(ctx context.Context, principal, listID uuid.UUID) (*model.List, error) {
	list, err := loadList(ctx, s.lists, listID)
	if err != nil {
		return nil, err
	}
	board, err := authorizeBoard(ctx, s.boards, list.BoardID, principal, access.Write)
	if err != nil {
		return nil, err
	}
	if list.IsArchived {
		return nil, apperr.Conflict("list is already archived")
	}
	now := time.Now()
	list.IsArchived = true
	list.ArchivedAt = &now
	if err := s.lists.Update(ctx, list); err != nil {
		return nil, apperr.Internal("failed to archive list", err)
	}
	s.recorder.Record(ctx, board.ID, principal, model.ActionListArchived, model.TargetList, list.ID, list.Title, nil)
	return list, nil
}

func (s *ListService) Restore(ctx context.Context, principal, listID uuid.UUID) (*model.List, error) {
	list, err := loadList(ctx, s.lists, listID)
	if err != nil {
		return nil, err
	}
	board, err := authorizeBoard(ctx, s.boards, list.BoardID, principal, access.Write)
	if err != nil {
		return nil, err
	}
	if !list.IsArchived {
		return nil, apperr.Conflict("list is not archived")
	}
	list.IsArchived = false
	list.ArchivedAt = nil
	if err := s.lists.Update(ctx, list); err != nil {
		return nil, apperr.Internal("failed to restore list", err)
	}
	s.recorder.Record(ctx, board.ID, principal, model.ActionListRestored, model.TargetList, list.ID, list.Title, nil)
	return list, nil
}

// Delete removes the list and every card on it.
func (s *ListService) Delete(ctx context.Context, principal, listID uuid.UUID) error {
	list, err := loadList(ctx, s.lists, listID)
	if err != nil {
		return err
	}
	board, err := authorizeBoard(ctx, s.boards, list.BoardID, principal, access.Write)
	if err != nil {
		return err
	}
	if err := s.lists.Delete(ctx, list.ID); err != nil {
		return apperr.Internal("failed to delete list", err)
	}
	s.recorder.Record(ctx, board.ID, principal, model.ActionListDeleted, model.TargetList, list.ID, list.Title, nil)
	return nil
}
