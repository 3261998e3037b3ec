package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"taskboard/internal/apperr"
	"taskboard/internal/model"
)

// TemplateService snapshots boards into reusable templates and instantiates
// templates into fresh boards.
type TemplateService struct {
	templates TemplateStore
	boards    BoardStore
	lists     ListStore
	cards     CardStore
	recorder  *Recorder
	logger    zerolog.Logger
}

func NewTemplateService(templates TemplateStore, boards BoardStore, lists ListStore, cards CardStore, recorder *Recorder, logger zerolog.Logger) *TemplateService {
	return &TemplateService{templates: templates, boards: boards, lists: lists, cards: cards, recorder: recorder, logger: logger}
}

type SaveTemplateParams struct {
	Name        string
	Description string
	IsPublic    bool
	Category    string
}

type UpdateTemplateParams struct {
	Name        *string
	Description *string
	IsPublic    *bool
	Category    *string
}

// SaveBoardAsTemplate snapshots the board's live lists and cards. Checklist
// items are stored incomplete and comments, attachments, members and due
// dates are not carried over.
func (s *TemplateService) SaveBoardAsTemplate(ctx context.Context, principal, boardID uuid.UUID, p SaveTemplateParams) (*model.Template, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	category := p.Category
	if category == "" {
		category = model.CategoryOther
	}
	if !model.ValidCategory(category) {
		return nil, apperr.Validation("invalid category")
	}
	board, err := loadBoard(ctx, s.boards, boardID)
	if err != nil {
		return nil, err
	}
	if board.OwnerID != principal {
		return nil, apperr.Permission("only the owner can save this board as a template")
	}
	lists, err := s.lists.GetByBoard(ctx, board.ID)
	if err != nil {
		return nil, apperr.Internal("failed to load lists", err)
	}
	snapshot := make([]model.TemplateList, 0, len(lists))
	for _, list := range lists {
		cards, err := s.cards.GetByList(ctx, list.ID)
		if err != nil {
			return nil, apperr.Internal("failed to load cards", err)
		}
		tl := model.TemplateList{
			Title:    list.Title,
			Position: list.Position,
			Cards:    make([]model.TemplateCard, 0, len(cards)),
		}
		for _, card := range cards {
			tc := model.TemplateCard{
				Title:       card.Title,
				Description: card.Description,
				Position:    card.Position,
				Labels:      card.Labels,
			}
			for _, item := range card.Checklist {
				tc.Checklist = append(tc.Checklist, model.TemplateChecklistItem{Text: item.Text})
			}
			tl.Cards = append(tl.Cards, tc)
		}
		snapshot = append(snapshot, tl)
	}
	template := &model.Template{
		ID:          uuid.New(),
		Name:        name,
		Description: p.Description,
		Background:  board.Background,
		CreatedBy:   principal,
		IsPublic:    p.IsPublic,
		Category:    category,
		Lists:       snapshot,
		Labels:      board.Labels,
	}
	if err := s.templates.Create(ctx, template); err != nil {
		return nil, apperr.Internal("failed to create template", err)
	}
	return template, nil
}

// Instantiate creates a new board from the template. Every list and card is
// cloned with fresh ids, checklist items start incomplete, and the template's
// usage count is bumped.
func (s *TemplateService) Instantiate(ctx context.Context, principal, templateID uuid.UUID, title string) (*model.Board, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperr.Validation("title is required")
	}
	template, err := s.loadTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if !template.IsPublic && template.CreatedBy != principal {
		return nil, apperr.Permission("this template is private")
	}
	board := &model.Board{
		ID:         uuid.New(),
		Title:      title,
		Background: template.Background,
		OwnerID:    principal,
		Labels:     template.Labels,
	}
	if err := s.boards.Create(ctx, board); err != nil {
		return nil, apperr.Internal("failed to create board", err)
	}
	for _, tl := range template.Lists {
		list := &model.List{
			ID:       uuid.New(),
			BoardID:  board.ID,
			Title:    tl.Title,
			Position: tl.Position,
		}
		if err := s.lists.Create(ctx, list); err != nil {
			return nil, apperr.Internal("failed to create list", err)
		}
		for _, tc := range tl.Cards {
			card := &model.Card{
				ID:          uuid.New(),
				ListID:      list.ID,
				BoardID:     board.ID,
				Title:       tc.Title,
				Description: tc.Description,
				Position:    tc.Position,
				Labels:      tc.Labels,
				CreatedBy:   principal,
			}
			for _, item := range tc.Checklist {
				card.Checklist = append(card.Checklist, model.ChecklistItem{ID: uuid.New(), Text: item.Text})
			}
			if err := s.cards.Create(ctx, card); err != nil {
				return nil, apperr.Internal("failed to create card", err)
			}
		}
	}
	template.UsageCount++
	if err := s.templates.Update(ctx, template); err != nil {
		// the board is already built; a stale usage counter is not worth
		// failing the whole instantiation over
		s.logger.Warn().
			Err(err).
			Str("template_id", template.ID.String()).
			Msg("failed to bump template usage count")
	}
	s.recorder.Record(ctx, board.ID, principal, model.ActionBoardCreated, model.TargetBoard, board.ID, board.Title, map[string]any{"from_template": template.Name})
	return board, nil
}

func (s *TemplateService) Get(ctx context.Context, principal, templateID uuid.UUID) (*model.Template, error) {
	template, err := s.loadTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if !template.IsPublic && template.CreatedBy != principal {
		return nil, apperr.Permission("this template is private")
	}
	return template, nil
}

func (s *TemplateService) ListMine(ctx context.Context, principal uuid.UUID) ([]model.Template, error) {
	templates, err := s.templates.GetByCreator(ctx, principal)
	if err != nil {
		return nil, apperr.Internal("failed to list templates", err)
	}
	return templates, nil
}

// ListPublic returns public templates, most used first, optionally filtered
// by category.
func (s *TemplateService) ListPublic(ctx context.Context, category string) ([]model.Template, error) {
	if category != "" && !model.ValidCategory(category) {
		return nil, apperr.Validation("invalid category")
	}
	templates, err := s.templates.GetPublic(ctx, category)
	if err != nil {
		return nil, apperr.Internal("failed to list templates", err)
	}
	return templates, nil
}

func (s *TemplateService) Update(ctx context.Context, principal, templateID uuid.UUID, p UpdateTemplateParams) (*model.Template, error) {
	template, err := s.loadTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if template.CreatedBy != principal {
		return nil, apperr.Permission("only the creator can update this template")
	}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, apperr.Validation("name cannot be empty")
		}
		template.Name = name
	}
	if p.Description != nil {
		template.Description = *p.Description
	}
	if p.IsPublic != nil {
		template.IsPublic = *p.IsPublic
	}
	if p.Category != nil {
		if !model.ValidCategory(*p.Category) {
			return nil, apperr.Validation("invalid category")
		}
		template.Category = *p.Category
	}
	if err := s.templates.Update(ctx, template); err != nil {
		return nil, apperr.Internal("failed to update template", err)
	}
	return template, nil
}

func (s *TemplateService) Delete(ctx context.Context, principal, templateID uuid.UUID) error {
	template, err := s.loadTemplate(ctx, templateID)
	if err != nil {
		return err
	}
	if template.CreatedBy != principal {
		return apperr.Permission("only the creator can delete this template")
	}
	if err := s.templates.Delete(ctx, template.ID); err != nil {
		return apperr.Internal("failed to delete template", err)
	}
	return nil
}

func (s *TemplateService) loadTemplate(ctx context.Context, id uuid.UUID) (*model.Template, error) {
	template, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("failed to load template", err)
	}
	if template == nil {
		return nil, apperr.NotFound("template not found")
	}
	return template, nil
}
