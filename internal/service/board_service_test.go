package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/apperr"
	"taskboard/internal/model"
	"taskboard/internal/service"
)

func TestBoardCreate(t *testing.T) {
	e := newEnv()
	owner := uuid.New()

	board, err := e.boardService.Create(context.Background(), owner, service.CreateBoardParams{Title: "  Roadmap  "})
	require.NoError(t, err)

	assert.Equal(t, "Roadmap", board.Title)
	assert.Equal(t, model.DefaultBackground, board.Background)
	assert.Equal(t, owner, board.OwnerID)
	assert.Equal(t, []string{model.ActionBoardCreated}, e.activities.actions(board.ID))
}

func TestBoardCreate_EmptyTitle(t *testing.T) {
	e := newEnv()

	_, err := e.boardService.Create(context.Background(), uuid.New(), service.CreateBoardParams{Title: "   "})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestBoardGet_StrangerDenied(t *testing.T) {
	e := newEnv()
	board := e.seedBoard(uuid.New())

	_, err := e.boardService.Get(context.Background(), uuid.New(), board.ID)
	assert.Equal(t, apperr.KindPermission, apperr.KindOf(err))
}

func TestBoardGet_UnknownBoard(t *testing.T) {
	e := newEnv()

	_, err := e.boardService.Get(context.Background(), uuid.New(), uuid.New())
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestBoardListMine_TagsSharedBoards(t *testing.T) {
	e := newEnv()
	me := uuid.New()
	own := e.seedBoard(me)
	shared := e.seedBoard(uuid.New(), model.BoardMember{UserID: me, Role: model.RoleViewer})

	summaries, err := e.boardService.ListMine(context.Background(), me)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	byID := make(map[uuid.UUID]bool)
	for _, s := range summaries {
		byID[s.Board.ID] = s.IsShared
	}
	assert.False(t, byID[own.ID])
	assert.True(t, byID[shared.ID])
}

func TestBoardArchiveRestoreRoundTrip(t *testing.T) {
	e := newEnv()
	owner := uuid.New()
	board := e.seedBoard(owner)

	archived, err := e.boardService.Archive(context.Background(), owner, board.ID)
	require.NoError(t, err)
	assert.True(t, archived.IsArchived)
	assert.NotNil(t, archived.ArchivedAt)

	// archiving twice is a state conflict
	_, err = e.boardService.Archive(context.Background(), owner, board.ID)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	restored, err := e.boardService.Restore(context.Background(), owner, board.ID)
	require.NoError(t, err)
	assert.False(t, restored.IsArchived)
	assert.Nil(t, restored.ArchivedAt)

	_, err = e.boardService.Restore(context.Background(), owner, board.ID)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	assert.Equal(t,
		[]string{model.ActionBoardArchived, model.ActionBoardRestored},
		e.activities.actions(board.ID))
}

func TestBoardArchive_RequiresManage(t *testing.T) {
	e := newEnv()
	member := uuid.New()
	admin := uuid.New()
	board := e.seedBoard(uuid.New(),
		model.BoardMember{UserID: member, Role: model.RoleMember},
		model.BoardMember{UserID: admin, Role: model.RoleAdmin},
	)

	_, err := e.boardService.Archive(context.Background(), member, board.ID)
	assert.Equal(t, apperr.KindPermission, apperr.KindOf(err))

	_, err = e.boardService.Archive(context.Background(), admin, board.ID)
	assert.NoError(t, err)
}

func TestBoardDelete_OwnerOnly(t *testing.T) {
	e := newEnv()
	owner := uuid.New()
	admin := uuid.New()
	board := e.seedBoard(owner, model.BoardMember{UserID: admin, Role: model.RoleAdmin})

	// even admins cannot delete
	err := e.boardService.Delete(context.Background(), admin, board.ID)
	assert.Equal(t, apperr.KindPermission, apperr.KindOf(err))

	err = e.boardService.Delete(context.Background(), owner, board.ID)
	require.NoError(t, err)
	assert.Contains(t, e.boards.deleted, board.ID)

	_, err = e.boardService.Get(context.Background(), owner, board.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestBoardUpdate_RecordsChangedFields(t *testing.T) {
	e := newEnv()
	owner := uuid.New()
	board := e.seedBoard(owner)

	title := "Renamed"
	updated, err := e.boardService.Update(context.Background(), owner, board.ID, service.UpdateBoardParams{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, []string{model.ActionBoardUpdated}, e.activities.actions(board.ID))

	// a no-op update must not add noise to the trail
	_, err = e.boardService.Update(context.Background(), owner, board.ID, service.UpdateBoardParams{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, []string{model.ActionBoardUpdated}, e.activities.actions(board.ID))
}
