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

func seedBoardWithContent(e *env, owner uuid.UUID) *model.Board {
	board := e.seedBoard(owner)
	todo := e.seedList(board.ID, "Todo", 0)
	doing := e.seedList(board.ID, "Doing", 1)

	for i, title := range []string{"One", "Two", "Three"} {
		card := e.seedCard(board.ID, todo.ID, title, float64(i))
		card.Labels = []string{"core"}
		e.cards.cards[card.ID] = *card
	}
	for i, title := range []string{"Four", "Five"} {
		card := e.seedCard(board.ID, doing.ID, title, float64(i))
		now := time.Now()
		by := owner
		card.Checklist = []model.ChecklistItem{
			{ID: uuid.New(), Text: "step", IsCompleted: true, CompletedAt: &now, CompletedBy: &by},
		}
		e.cards.cards[card.ID] = *card
	}
	return board
}

func TestSaveBoardAsTemplate(t *testing.T) {
	e := newEnv()
	owner := uuid.New()
	board := seedBoardWithContent(e, owner)

	template, err := e.templateService.SaveBoardAsTemplate(context.Background(), owner, board.ID, service.SaveTemplateParams{
		Name:     "Sprint",
		Category: model.CategoryEngineering,
	})
	require.NoError(t, err)

	require.Len(t, template.Lists, 2)
	assert.Equal(t, "Todo", template.Lists[0].Title)
	assert.Len(t, template.Lists[0].Cards, 3)
	assert.Equal(t, "Doing", template.Lists[1].Title)
	assert.Len(t, template.Lists[1].Cards, 2)

	// completion state never survives the snapshot
	for _, list := range template.Lists {
		for _, card := range list.Cards {
			for _, item := range card.Checklist {
				assert.False(t, item.IsCompleted)
			}
		}
	}
}

func TestSaveBoardAsTemplate_OwnerOnly(t *testing.T) {
	e := newEnv()
	admin := uuid.New()
	board := e.seedBoard(uuid.New(), model.BoardMember{UserID: admin, Role: model.RoleAdmin})

	_, err := e.templateService.SaveBoardAsTemplate(context.Background(), admin, board.ID, service.SaveTemplateParams{Name: "Sprint"})
	assert.Equal(t, apperr.KindPermission, apperr.KindOf(err))
}

func TestInstantiateTemplate(t *testing.T) {
	e := newEnv()
	owner := uuid.New()
	source := seedBoardWithContent(e, owner)

	template, err := e.templateService.SaveBoardAsTemplate(context.Background(), owner, source.ID, service.SaveTemplateParams{
		Name:     "Sprint",
		IsPublic: true,
	})
	require.NoError(t, err)

	someoneElse := uuid.New()
	board, err := e.templateService.Instantiate(context.Background(), someoneElse, template.ID, "Q4 Sprint")
	require.NoError(t, err)

	assert.Equal(t, "Q4 Sprint", board.Title)
	assert.Equal(t, someoneElse, board.OwnerID)

	lists, err := e.lists.GetByBoard(context.Background(), board.ID)
	require.NoError(t, err)
	require.Len(t, lists, 2)

	cards, err := e.cards.GetByBoard(context.Background(), board.ID)
	require.NoError(t, err)
	assert.Len(t, cards, 5)
	for _, card := range cards {
		assert.Equal(t, someoneElse, card.CreatedBy)
		for _, item := range card.Checklist {
			assert.False(t, item.IsCompleted)
			assert.Nil(t, item.CompletedAt)
		}
	}

	assert.Equal(t, 1, e.templates.templates[template.ID].UsageCount)
	assert.Equal(t, []string{model.ActionBoardCreated}, e.activities.actions(board.ID))
}

func TestInstantiate_PrivateTemplateStaysPrivate(t *testing.T) {
	e := newEnv()
	creator := uuid.New()
	source := seedBoardWithContent(e, creator)

	template, err := e.templateService.SaveBoardAsTemplate(context.Background(), creator, source.ID, service.SaveTemplateParams{Name: "Secret"})
	require.NoError(t, err)

	_, err = e.templateService.Instantiate(context.Background(), uuid.New(), template.ID, "Copy")
	assert.Equal(t, apperr.KindPermission, apperr.KindOf(err))

	// the creator can still use it
	_, err = e.templateService.Instantiate(context.Background(), creator, template.ID, "Copy")
	assert.NoError(t, err)
}

func TestTemplateListPublic_FiltersByCategory(t *testing.T) {
	e := newEnv()
	owner := uuid.New()
	source := seedBoardWithContent(e, owner)

	_, err := e.templateService.SaveBoardAsTemplate(context.Background(), owner, source.ID, service.SaveTemplateParams{
		Name:     "Eng",
		IsPublic: true,
		Category: model.CategoryEngineering,
	})
	require.NoError(t, err)
	_, err = e.templateService.SaveBoardAsTemplate(context.Background(), owner, source.ID, service.SaveTemplateParams{
		Name:     "Sales",
		IsPublic: true,
		Category: model.CategorySales,
	})
	require.NoError(t, err)

	all, err := e.templateService.ListPublic(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	eng, err := e.templateService.ListPublic(context.Background(), model.CategoryEngineering)
	require.NoError(t, err)
	require.Len(t, eng, 1)
	assert.Equal(t, "Eng", eng[0].Name)

	_, err = e.templateService.ListPublic(context.Background(), "bogus")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestTemplateUpdateDelete_CreatorOnly(t *testing.T) {
	e := newEnv()
	creator := uuid.New()
	source := seedBoardWithContent(e, creator)

	template, err := e.templateService.SaveBoardAsTemplate(context.Background(), creator, source.ID, service.SaveTemplateParams{Name: "Mine"})
	require.NoError(t, err)

	name := "Stolen"
	_, err = e.templateService.Update(context.Background(), uuid.New(), template.ID, service.UpdateTemplateParams{Name: &name})
	assert.Equal(t, apperr.KindPermission, apperr.KindOf(err))

	err = e.templateService.Delete(context.Background(), uuid.New(), template.ID)
	assert.Equal(t, apperr.KindPermission, apperr.KindOf(err))

	require.NoError(t, e.templateService.Delete(context.Background(), creator, template.ID))
	_, err = e.templateService.Get(context.Background(), creator, template.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
