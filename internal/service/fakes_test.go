package service_test

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"taskboard/internal/model"
	"taskboard/internal/ordering"
	"taskboard/internal/service"
)

// In-memory store fakes. Lookups return copies so that, like with a real
// database, mutations only become visible through Update.

type fakeBoardStore struct {
	boards  map[uuid.UUID]model.Board
	deleted []uuid.UUID
}

func newFakeBoardStore() *fakeBoardStore {
	return &fakeBoardStore{boards: make(map[uuid.UUID]model.Board)}
}

func (f *fakeBoardStore) Create(_ context.Context, board *model.Board) error {
	f.boards[board.ID] = *board
	return nil
}

func (f *fakeBoardStore) GetByID(_ context.Context, id uuid.UUID) (*model.Board, error) {
	board, ok := f.boards[id]
	if !ok {
		return nil, nil
	}
	return &board, nil
}

func (f *fakeBoardStore) GetOwned(_ context.Context, ownerID uuid.UUID, archived bool) ([]model.Board, error) {
	var out []model.Board
	for _, b := range f.boards {
		if b.OwnerID == ownerID && b.IsArchived == archived {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBoardStore) GetSharedWith(_ context.Context, userID uuid.UUID) ([]model.Board, error) {
	var out []model.Board
	for _, b := range f.boards {
		if b.IsArchived {
			continue
		}
		if b.MemberIndex(userID) >= 0 {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBoardStore) Update(_ context.Context, board *model.Board) error {
	f.boards[board.ID] = *board
	return nil
}

func (f *fakeBoardStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.boards, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeListStore struct {
	lists map[uuid.UUID]model.List
}

func newFakeListStore() *fakeListStore {
	return &fakeListStore{lists: make(map[uuid.UUID]model.List)}
}

func (f *fakeListStore) Create(_ context.Context, list *model.List) error {
	f.lists[list.ID] = *list
	return nil
}

func (f *fakeListStore) GetByID(_ context.Context, id uuid.UUID) (*model.List, error) {
	list, ok := f.lists[id]
	if !ok {
		return nil, nil
	}
	return &list, nil
}

func (f *fakeListStore) GetByBoard(_ context.Context, boardID uuid.UUID) ([]model.List, error) {
	var out []model.List
	for _, l := range f.lists {
		if l.BoardID == boardID && !l.IsArchived {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (f *fakeListStore) GetArchivedByBoard(_ context.Context, boardID uuid.UUID) ([]model.List, error) {
	var out []model.List
	for _, l := range f.lists {
		if l.BoardID == boardID && l.IsArchived {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeListStore) Update(_ context.Context, list *model.List) error {
	f.lists[list.ID] = *list
	return nil
}

func (f *fakeListStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.lists, id)
	return nil
}

func (f *fakeListStore) UpdatePositions(_ context.Context, assignments []ordering.Assignment) error {
	for _, a := range assignments {
		list := f.lists[a.ID]
		list.Position = a.Position
		f.lists[a.ID] = list
	}
	return nil
}

type fakeCardStore struct {
	cards map[uuid.UUID]model.Card
}

func newFakeCardStore() *fakeCardStore {
	return &fakeCardStore{cards: make(map[uuid.UUID]model.Card)}
}

func (f *fakeCardStore) Create(_ context.Context, card *model.Card) error {
	f.cards[card.ID] = *card
	return nil
}

func (f *fakeCardStore) GetByID(_ context.Context, id uuid.UUID) (*model.Card, error) {
	card, ok := f.cards[id]
	if !ok {
		return nil, nil
	}
	return &card, nil
}

func (f *fakeCardStore) GetByList(_ context.Context, listID uuid.UUID) ([]model.Card, error) {
	var out []model.Card
	for _, c := range f.cards {
		if c.ListID == listID && !c.IsArchived {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (f *fakeCardStore) GetByBoard(_ context.Context, boardID uuid.UUID) ([]model.Card, error) {
	var out []model.Card
	for _, c := range f.cards {
		if c.BoardID == boardID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCardStore) GetArchivedByBoard(_ context.Context, boardID uuid.UUID) ([]model.Card, error) {
	var out []model.Card
	for _, c := range f.cards {
		if c.BoardID == boardID && c.IsArchived {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCardStore) Update(_ context.Context, card *model.Card) error {
	f.cards[card.ID] = *card
	return nil
}

func (f *fakeCardStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.cards, id)
	return nil
}

func (f *fakeCardStore) UpdatePositions(_ context.Context, assignments []ordering.Assignment) error {
	for _, a := range assignments {
		card := f.cards[a.ID]
		card.Position = a.Position
		f.cards[a.ID] = card
	}
	return nil
}

type fakeTemplateStore struct {
	templates map[uuid.UUID]model.Template
}

func newFakeTemplateStore() *fakeTemplateStore {
	return &fakeTemplateStore{templates: make(map[uuid.UUID]model.Template)}
}

func (f *fakeTemplateStore) Create(_ context.Context, template *model.Template) error {
	f.templates[template.ID] = *template
	return nil
}

func (f *fakeTemplateStore) GetByID(_ context.Context, id uuid.UUID) (*model.Template, error) {
	template, ok := f.templates[id]
	if !ok {
		return nil, nil
	}
	return &template, nil
}

func (f *fakeTemplateStore) GetByCreator(_ context.Context, userID uuid.UUID) ([]model.Template, error) {
	var out []model.Template
	for _, t := range f.templates {
		if t.CreatedBy == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTemplateStore) GetPublic(_ context.Context, category string) ([]model.Template, error) {
	var out []model.Template
	for _, t := range f.templates {
		if !t.IsPublic {
			continue
		}
		if category != "" && t.Category != category {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UsageCount > out[j].UsageCount })
	return out, nil
}

func (f *fakeTemplateStore) Update(_ context.Context, template *model.Template) error {
	f.templates[template.ID] = *template
	return nil
}

func (f *fakeTemplateStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.templates, id)
	return nil
}

type fakeActivityStore struct {
	activities []model.Activity
}

func newFakeActivityStore() *fakeActivityStore {
	return &fakeActivityStore{}
}

func (f *fakeActivityStore) Create(_ context.Context, activity *model.Activity) error {
	if activity.ID == uuid.Nil {
		activity.ID = uuid.New()
	}
	f.activities = append(f.activities, *activity)
	return nil
}

func (f *fakeActivityStore) page(matches []model.Activity, offset, limit int) ([]model.Activity, int64, error) {
	// newest first: reverse insertion order
	reversed := make([]model.Activity, 0, len(matches))
	for i := len(matches) - 1; i >= 0; i-- {
		reversed = append(reversed, matches[i])
	}
	total := int64(len(reversed))
	if offset >= len(reversed) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(reversed) {
		end = len(reversed)
	}
	return reversed[offset:end], total, nil
}

func (f *fakeActivityStore) ListByBoard(_ context.Context, boardID uuid.UUID, offset, limit int) ([]model.Activity, int64, error) {
	var matches []model.Activity
	for _, a := range f.activities {
		if a.BoardID == boardID {
			matches = append(matches, a)
		}
	}
	return f.page(matches, offset, limit)
}

func (f *fakeActivityStore) ListByCard(_ context.Context, cardID uuid.UUID, offset, limit int) ([]model.Activity, int64, error) {
	var matches []model.Activity
	for _, a := range f.activities {
		if a.TargetID == cardID && a.TargetType == model.TargetCard {
			matches = append(matches, a)
		}
	}
	return f.page(matches, offset, limit)
}

func (f *fakeActivityStore) ListByUser(_ context.Context, userID uuid.UUID, offset, limit int) ([]model.Activity, int64, error) {
	var matches []model.Activity
	for _, a := range f.activities {
		if a.UserID == userID {
			matches = append(matches, a)
		}
	}
	return f.page(matches, offset, limit)
}

// actions returns the recorded action names for a board, oldest first.
func (f *fakeActivityStore) actions(boardID uuid.UUID) []string {
	var out []string
	for _, a := range f.activities {
		if a.BoardID == boardID {
			out = append(out, a.Action)
		}
	}
	return out
}

type fakeUserStore struct {
	users map[uuid.UUID]model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]model.User)}
}

func (f *fakeUserStore) add(user model.User) {
	f.users[user.ID] = user
}

func (f *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == strings.ToLower(email) {
			user := u
			return &user, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == strings.ToLower(username) {
			user := u
			return &user, nil
		}
	}
	return nil, nil
}

type fakeContentStore struct {
	saved []string
}

func (f *fakeContentStore) Save(_ context.Context, filename, contentType string, data []byte) (string, error) {
	f.saved = append(f.saved, filename)
	return "http://files.local/uploads/" + filename, nil
}

// env bundles the fakes with ready-made services.
type env struct {
	boards     *fakeBoardStore
	lists      *fakeListStore
	cards      *fakeCardStore
	templates  *fakeTemplateStore
	activities *fakeActivityStore
	users      *fakeUserStore
	content    *fakeContentStore

	boardService    *service.BoardService
	listService     *service.ListService
	cardService     *service.CardService
	memberService   *service.MemberService
	labelService    *service.LabelService
	templateService *service.TemplateService
	activityService *service.ActivityService
}

func newEnv() *env {
	e := &env{
		boards:     newFakeBoardStore(),
		lists:      newFakeListStore(),
		cards:      newFakeCardStore(),
		templates:  newFakeTemplateStore(),
		activities: newFakeActivityStore(),
		users:      newFakeUserStore(),
		content:    &fakeContentStore{},
	}
	logger := zerolog.Nop()
	recorder := service.NewRecorder(e.activities, logger)
	e.boardService = service.NewBoardService(e.boards, recorder, logger)
	e.listService = service.NewListService(e.lists, e.boards, recorder, logger)
	e.cardService = service.NewCardService(e.cards, e.lists, e.boards, e.content, recorder, logger)
	e.memberService = service.NewMemberService(e.boards, e.users, recorder, logger)
	e.labelService = service.NewLabelService(e.boards, e.cards, recorder, logger)
	e.templateService = service.NewTemplateService(e.templates, e.boards, e.lists, e.cards, recorder, logger)
	e.activityService = service.NewActivityService(e.activities, e.boards, e.cards)
	return e
}

func (e *env) seedBoard(ownerID uuid.UUID, members ...model.BoardMember) *model.Board {
	board := model.Board{
		ID:      uuid.New(),
		Title:   "Project",
		OwnerID: ownerID,
		Members: members,
	}
	e.boards.boards[board.ID] = board
	return &board
}

func (e *env) seedList(boardID uuid.UUID, title string, position float64) *model.List {
	list := model.List{ID: uuid.New(), BoardID: boardID, Title: title, Position: position}
	e.lists.lists[list.ID] = list
	return &list
}

func (e *env) seedCard(boardID, listID uuid.UUID, title string, position float64) *model.Card {
	card := model.Card{
		ID:       uuid.New(),
		ListID:   listID,
		BoardID:  boardID,
		Title:    title,
		Position: position,
	}
	e.cards.cards[card.ID] = card
	return &card
}

func (e *env) seedUser(email, username, name string) *model.User {
	user := model.User{ID: uuid.New(), Email: email, Username: username, Name: name}
	e.users.add(user)
	return &user
}
