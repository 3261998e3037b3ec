package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/apperr"
	"taskboard/internal/model"
	"taskboard/internal/service"
)

func TestCardCreate(t *testing.T) {
	e := newEnv()
	owner := uuid.New()
	board := e.seedBoard(owner)
	list := e.seedList(board.ID, "Todo", 0)
	e.seedCard(board.ID, list.ID, "Existing", 0)

	card, err := e.cardService.Create(context.Background(), owner, list.ID, service.CreateCardParams{Title: "New card"})
	require.NoError(t, err)

	assert.Equal(t, board.ID, card.BoardID)
	assert.Equal(t, list.ID, card.ListID)
	assert.Equal(t, 1.0, card.Position)
	assert.Equal(t, owner, card.CreatedBy)
	assert.Equal(t, []string{model.ActionCardCreated}, e.activities.actions(board.ID))
}

func TestCardCreate_WithDueDateRecordsBoth(t *testing.T) {
	e := newEnv()
	owner := uuid.New()
	board := e.seedBoard(owner)
	list := e.seedList(board.ID, "Todo", 0)

	due := time.Now().Add(48 * time.Hour)
	_, err := e.cardService.Create(context.Background(), owner, list.ID, service.CreateCardParams{Title: "Ship it", DueDate: &due})
	require.NoError(t, err)

	assert.Equal(t,
		[]string{model.ActionCardCreated, model.ActionDueDateSet},
		e.activities.actions(board.ID))
}

func TestCardMove_ToHeadOfAnotherList(t *testing.T) {
	e := newEnv()
	owner := uuid.New()
	board := e.seedBoard(owner)
	todo := e.seedList(board.ID, "Todo", 0)
	doing := e.seedList(board.ID, "Doing", 1)
	e.seedCard(board.ID, doing.ID, "First", 0)
	e.seedCard(board.ID, doing.ID, "Second", 1)
	card := e.seedCard(board.ID, todo.ID, "Moving", 0)

	moved, err := e.cardService.Move(context.Background(), owner, card.ID, doing.ID, 0)
	require.NoError(t, err)

	assert.Equal(t, doing.ID, moved.ListID)
	// head insertion goes below the current minimum
	assert.Equal(t, -1.0, moved.Position)
	assert.Equal(t,
		[]string{model.ActionCardMoved},
		e.activities.actions(board.ID))
}

func TestCardMove_CompactsWhenPrecisionExhausted(t *testing.T) {
	e := newEnv()
	owner := uuid.New()
	board := e.seedBoard(owner)
	list := e.seedList(board.ID, "Todo", 0)
	a := e.seedCard(board.ID, list.ID, "A", 0)
	b := e.seedCard(board.ID, list.ID, "B", 1e-7)
	card := e.seedCard(board.ID, list.ID, "C", 5)

	moved, err := e.cardService.Move(context.Background(), owner, card.ID, list.ID, 1)
	require.NoError(t, err)

	// siblings were renumbered 0..n-1, then the midpoint computed
	assert.Equal(t, 0.5, moved.Position)
	assert.Equal(t, 0.0, e.cards.cards[a.ID].Position)
	assert.Equal(t, 1.0, e.cards.cards[b.ID].Position)
}

func TestCardMove_AcrossBoardsRejected(t *testing.T) {
	e := newEnv()
	owner := uuid.New()
	board := e.seedBoard(owner)
	other := e.seedBoard(owner)
	list := e.seedList(board.ID, "Todo", 0)
	foreign := e.seedList(other.ID, "Elsewhere", 0)
	card := e.seedCard(board.ID, list.ID, "Stuck", 0)

	_, err := e.cardService.Move(context.Background(), owner, card.ID, foreign.ID, 0)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCardArchiveRestoreRoundTrip(t *testing.T) {
	e := newEnv()
	owner := uuid.New()
	board := e.seedBoard(owner)
	list := e.seedList(board.ID, "Todo", 0)
	card := e.seedCard(board.ID, list.ID, "Task", 0)

	archived, err := e.cardService.Archive(context.Background(), owner, card.ID)
	require.NoError(t, err)
	assert.True(t, archived.IsArchived)

	_, err = e.cardService.Archive(context.Background(), owner, card.ID)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	restored, err := e.cardService.Restore(context.Background(), owner, card.ID)
	require.NoError(t, err)
	assert.False(t, restored.IsArchived)

	assert.Equal(t,
		[]string{model.ActionCardArchived, model.ActionCardRestored},
		e.activities.actions(board.ID))
}

func TestCardUpdate_DueDateTransitions(t *testing.T) {
	e := newEnv()
	owner := uuid.New()
	board := e.seedBoard(owner)
	list := e.seedList(board.ID, "Todo", 0)
	card := e.seedCard(board.ID, list.ID, "Task", 0)

	due := time.Now().Add(24 * time.Hour)
	updated, err := e.cardService.Update(context.Background(), owner, card.ID, service.UpdateCardParams{DueDate: &due})
	require.NoError(t, err)
	require.NotNil(t, updated.DueDate)

	updated, err = e.cardService.Update(context.Background(), owner, card.ID, service.UpdateCardParams{ClearDueDate: true})
	require.NoError(t, err)
	assert.Nil(t, updated.DueDate)

	assert.Equal(t,
		[]string{model.ActionDueDateSet, model.ActionDueDateRemoved},
		e.activities.actions(board.ID))
}

func TestCardComments(t *testing.T) {
	e := newEnv()
	owner := uuid.New()
	author := uuid.New()
	board := e.seedBoard(owner, model.BoardMember{UserID: author, Role: model.RoleMember})
	list := e.seedList(board.ID, "Todo", 0)
	card := e.seedCard(board.ID, list.ID, "Task", 0)

	withComment, err := e.cardService.AddComment(context.Background(), author, card.ID, "looks good")
	require.NoError(t, err)
	require.Len(t, withComment.Comments, 1)
	commentID := withComment.Comments[0].ID

	// only the author may edit
	_, err = e.cardService.EditComment(context.Background(), owner, card.ID, commentID, "hijacked")
	assert.Equal(t, apperr.KindPermission, apperr.KindOf(err))

	edited, err := e.cardService.EditComment(context.Background(), author, card.ID, commentID, "looks great")
	require.NoError(t, err)
	assert.Equal(t, "looks great", edited.Comments[0].Text)
	assert.NotNil(t, edited.Comments[0].EditedAt)

	// the owner can delete someone else's comment via manage
	deleted, err := e.cardService.DeleteComment(context.Background(), owner, card.ID, commentID)
	require.NoError(t, err)
	assert.Empty(t, deleted.Comments)

	assert.Equal(t,
		[]string{model.ActionCommentAdded, model.ActionCommentEdited, model.ActionCommentDeleted},
		e.activities.actions(board.ID))
}

func TestCardDeleteComment_MemberCannotRemoveOthers(t *testing.T) {
	e := newEnv()
	owner := uuid.New()
	member := uuid.New()
	board := e.seedBoard(owner, model.BoardMember{UserID: member, Role: model.RoleMember})
	list := e.seedList(board.ID, "Todo", 0)
	card := e.seedCard(board.ID, list.ID, "Task", 0)

	withComment, err := e.cardService.AddComment(context.Background(), owner, card.ID, "mine")
	require.NoError(t, err)

	_, err = e.cardService.DeleteComment(context.Background(), member, card.ID, withComment.Comments[0].ID)
	assert.Equal(t, apperr.KindPermission, apperr.KindOf(err))
}

func TestCardChecklistCompletionTransitions(t *testing.T) {
	e := newEnv()
	owner := uuid.New()
	board := e.seedBoard(owner)
	list := e.seedList(board.ID, "Todo", 0)
	card := e.seedCard(board.ID, list.ID, "Task", 0)

	withItem, err := e.cardService.AddChecklistItem(context.Background(), owner, card.ID, "write tests")
	require.NoError(t, err)
	itemID := withItem.Checklist[0].ID

	done := true
	completed, err := e.cardService.UpdateChecklistItem(context.Background(), owner, card.ID, itemID, service.UpdateChecklistItemParams{IsCompleted: &done})
	require.NoError(t, err)
	assert.True(t, completed.Checklist[0].IsCompleted)
	assert.NotNil(t, completed.Checklist[0].CompletedAt)
	require.NotNil(t, completed.Checklist[0].CompletedBy)
	assert.Equal(t, owner, *completed.Checklist[0].CompletedBy)

	undone := false
	uncompleted, err := e.cardService.UpdateChecklistItem(context.Background(), owner, card.ID, itemID, service.UpdateChecklistItemParams{IsCompleted: &undone})
	require.NoError(t, err)
	assert.False(t, uncompleted.Checklist[0].IsCompleted)
	assert.Nil(t, uncompleted.Checklist[0].CompletedAt)
	assert.Nil(t, uncompleted.Checklist[0].CompletedBy)

	assert.Equal(t,
		[]string{
			model.ActionChecklistItemAdded,
			model.ActionChecklistItemCompleted,
			model.ActionChecklistItemUncompleted,
		},
		e.activities.actions(board.ID))
}

func TestCardChecklistReorder(t *testing.T) {
	e := newEnv()
	owner := uuid.New()
	board := e.seedBoard(owner)
	list := e.seedList(board.ID, "Todo", 0)
	card := e.seedCard(board.ID, list.ID, "Task", 0)

	c, err := e.cardService.AddChecklistItem(context.Background(), owner, card.ID, "one")
	require.NoError(t, err)
	c, err = e.cardService.AddChecklistItem(context.Background(), owner, card.ID, "two")
	require.NoError(t, err)
	first, second := c.Checklist[0].ID, c.Checklist[1].ID

	reordered, err := e.cardService.ReorderChecklist(context.Background(), owner, card.ID, []uuid.UUID{second, first})
	require.NoError(t, err)
	assert.Equal(t, "two", reordered.Checklist[0].Text)
	assert.Equal(t, "one", reordered.Checklist[1].Text)
}

func TestCardLabels(t *testing.T) {
	e := newEnv()
	owner := uuid.New()
	board := e.seedBoard(owner)
	list := e.seedList(board.ID, "Todo", 0)
	card := e.seedCard(board.ID, list.ID, "Task", 0)

	labeled, err := e.cardService.AddLabel(context.Background(), owner, card.ID, "bug")
	require.NoError(t, err)
	assert.Equal(t, []string{"bug"}, labeled.Labels)

	_, err = e.cardService.AddLabel(context.Background(), owner, card.ID, "bug")
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	unlabeled, err := e.cardService.RemoveLabel(context.Background(), owner, card.ID, "bug")
	require.NoError(t, err)
	assert.Empty(t, unlabeled.Labels)
}

func TestCardAttachments(t *testing.T) {
	e := newEnv()
	owner := uuid.New()
	board := e.seedBoard(owner)
	list := e.seedList(board.ID, "Todo", 0)
	card := e.seedCard(board.ID, list.ID, "Task", 0)

	withFile, err := e.cardService.AddAttachment(context.Background(), owner, card.ID, service.AddAttachmentParams{
		Filename:    "spec.pdf",
		ContentType: "application/pdf",
		Size:        4,
		Data:        []byte("%PDF"),
	})
	require.NoError(t, err)
	require.Len(t, withFile.Attachments, 1)
	assert.Equal(t, "http://files.local/uploads/spec.pdf", withFile.Attachments[0].URL)
	assert.Equal(t, []string{"spec.pdf"}, e.content.saved)

	withLink, err := e.cardService.AddAttachmentURL(context.Background(), owner, card.ID, "https://example.com/design.png", "")
	require.NoError(t, err)
	require.Len(t, withLink.Attachments, 2)
	assert.Equal(t, "link", withLink.Attachments[1].Type)
	assert.Equal(t, "design.png", withLink.Attachments[1].Filename)

	removed, err := e.cardService.RemoveAttachment(context.Background(), owner, card.ID, withFile.Attachments[0].ID)
	require.NoError(t, err)
	require.Len(t, removed.Attachments, 1)

	assert.Equal(t,
		[]string{model.ActionAttachmentAdded, model.ActionAttachmentAdded, model.ActionAttachmentDeleted},
		e.activities.actions(board.ID))
}

func TestCardAttachment_EmptyUploadRejected(t *testing.T) {
	e := newEnv()
	owner := uuid.New()
	board := e.seedBoard(owner)
	list := e.seedList(board.ID, "Todo", 0)
	card := e.seedCard(board.ID, list.ID, "Task", 0)

	_, err := e.cardService.AddAttachment(context.Background(), owner, card.ID, service.AddAttachmentParams{Filename: "empty.txt"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCardMutations_ViewerDenied(t *testing.T) {
	e := newEnv()
	viewer := uuid.New()
	board := e.seedBoard(uuid.New(), model.BoardMember{UserID: viewer, Role: model.RoleViewer})
	list := e.seedList(board.ID, "Todo", 0)
	card := e.seedCard(board.ID, list.ID, "Task", 0)

	_, err := e.cardService.Create(context.Background(), viewer, list.ID, service.CreateCardParams{Title: "nope"})
	assert.Equal(t, apperr.KindPermission, apperr.KindOf(err))

	_, err = e.cardService.AddComment(context.Background(), viewer, card.ID, "nope")
	assert.Equal(t, apperr.KindPermission, apperr.KindOf(err))

	_, err = e.cardService.Move(context.Background(), viewer, card.ID, list.ID, 0)
	assert.Equal(t, apperr.KindPermission, apperr.KindOf(err))

	// reading stays allowed
	_, err = e.cardService.Get(context.Background(), viewer, card.ID)
	assert.NoError(t, err)
}
