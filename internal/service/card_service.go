package service

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"taskboard/internal/access"
	"taskboard/internal/apperr"
	"taskboard/internal/model"
	"taskboard/internal/ordering"
)

// commentTitleLimit caps the comment text prefix stored as an activity title.
const commentTitleLimit = 50

type CardService struct {
	cards    CardStore
	lists    ListStore
	boards   BoardStore
	content  ContentStore
	recorder *Recorder
	logger   zerolog.Logger
}

func NewCardService(cards CardStore, lists ListStore, boards BoardStore, content ContentStore, recorder *Recorder, logger zerolog.Logger) *CardService {
	return &CardService{cards: cards, lists: lists, boards: boards, content: content, recorder: recorder, logger: logger}
}

type CreateCardParams struct {
	Title       string
	Description string
	DueDate     *time.Time
	Labels      []string
	Members     []uuid.UUID
}

// UpdateCardParams carries the optional card fields. ClearDueDate wins over
// DueDate when both are set.
type UpdateCardParams struct {
	Title        *string
	Description  *string
	DueDate      *time.Time
	ClearDueDate bool
}

type UpdateChecklistItemParams struct {
	Text        *string
	IsCompleted *bool
}

type AddAttachmentParams struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

func (s *CardService) Create(ctx context.Context, principal, listID uuid.UUID, p CreateCardParams) (*model.Card, error) {
	title := strings.TrimSpace(p.Title)
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
	siblings, err := s.cards.GetByList(ctx, list.ID)
	if err != nil {
		return nil, apperr.Internal("failed to load cards", err)
	}
	card := &model.Card{
		ID:          uuid.New(),
		ListID:      list.ID,
		BoardID:     board.ID,
		Title:       title,
		Description: p.Description,
		Position:    ordering.Append(cardPositions(siblings)),
		DueDate:     p.DueDate,
		Labels:      p.Labels,
		Members:     p.Members,
		CreatedBy:   principal,
	}
	if err := s.cards.Create(ctx, card); err != nil {
		return nil, apperr.Internal("failed to create card", err)
	}
	s.recorder.Record(ctx, board.ID, principal, model.ActionCardCreated, model.TargetCard, card.ID, card.Title, map[string]any{"list": list.Title})
	if card.DueDate != nil {
		s.recorder.Record(ctx, board.ID, principal, model.ActionDueDateSet, model.TargetCard, card.ID, card.Title, map[string]any{"due_date": card.DueDate})
	}
	return card, nil
}

func (s *CardService) Get(ctx context.Context, principal, cardID uuid.UUID) (*model.Card, error) {
	card, err := loadCard(ctx, s.cards, cardID)
	if err != nil {
		return nil, err
	}
	if _, err := authorizeBoard(ctx, s.boards, card.BoardID, principal, access.Read); err != nil {
		return nil, err
	}
	return card, nil
}

func (s *CardService) ListByList(ctx context.Context, principal, listID uuid.UUID) ([]model.Card, error) {
	list, err := loadList(ctx, s.lists, listID)
	if err != nil {
		return nil, err
	}
	if _, err := authorizeBoard(ctx, s.boards, list.BoardID, principal, access.Read); err != nil {
		return nil, err
	}
	cards, err := s.cards.GetByList(ctx, list.ID)
	if err != nil {
		return nil, apperr.Internal("failed to load cards", err)
	}
	return cards, nil
}

func (s *CardService) ListArchivedByBoard(ctx context.Context, principal, boardID uuid.UUID) ([]model.Card, error) {
	if _, err := authorizeBoard(ctx, s.boards, boardID, principal, access.Read); err != nil {
		return nil, err
	}
	cards, err := s.cards.GetArchivedByBoard(ctx, boardID)
	if err != nil {
		return nil, apperr.Internal("failed to load archived cards", err)
	}
	return cards, nil
}

func (s *CardService) Update(ctx context.Context, principal, cardID uuid.UUID, p UpdateCardParams) (*model.Card, error) {
	card, err := loadCard(ctx, s.cards, cardID)
	if err != nil {
		return nil, err
	}
	board, err := authorizeBoard(ctx, s.boards, card.BoardID, principal, access.Write)
	if err != nil {
		return nil, err
	}
	var changed []string
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return nil, apperr.Validation("title cannot be empty")
		}
		if title != card.Title {
			card.Title = title
			changed = append(changed, "title")
		}
	}
	if p.Description != nil && *p.Description != card.Description {
		card.Description = *p.Description
		changed = append(changed, "description")
	}
	var dueAction string
	switch {
	case p.ClearDueDate:
		if card.DueDate != nil {
			card.DueDate = nil
			dueAction = model.ActionDueDateRemoved
		}
	case p.DueDate != nil:
		if card.DueDate == nil || !card.DueDate.Equal(*p.DueDate) {
			card.DueDate = p.DueDate
			dueAction = model.ActionDueDateSet
		}
	}
	if len(changed) == 0 && dueAction == "" {
		return card, nil
	}
	if err := s.cards.Update(ctx, card); err != nil {
		return nil, apperr.Internal("failed to update card", err)
	}
	if len(changed) > 0 {
		s.recorder.Record(ctx, board.ID, principal, model.ActionCardUpdated, model.TargetCard, card.ID, card.Title, map[string]any{"changed": changed})
	}
	if dueAction != "" {
		var details map[string]any
		if dueAction == model.ActionDueDateSet {
			details = map[string]any{"due_date": card.DueDate}
		}
		s.recorder.Record(ctx, board.ID, principal, dueAction, model.TargetCard, card.ID, card.Title, details)
	}
	return card, nil
}

// Move places the card at index within the target list on the same board.
// The insertion position is computed against a freshly read sibling set; if
// neighbouring positions are too close for a midpoint, the target scope is
// compacted to 0..n-1 first and the insertion recomputed.
func (s *CardService) Move(ctx context.Context, principal, cardID, targetListID uuid.UUID, index int) (*model.Card, error) {
	card, err := loadCard(ctx, s.cards, cardID)
	if err != nil {
		return nil, err
	}
	board, err := authorizeBoard(ctx, s.boards, card.BoardID, principal, access.Write)
	if err != nil {
		return nil, err
	}
	target, err := loadList(ctx, s.lists, targetListID)
	if err != nil {
		return nil, err
	}
	if target.BoardID != card.BoardID {
		return nil, apperr.Validation("cannot move card to a list on another board")
	}
	siblings, err := s.cards.GetByList(ctx, target.ID)
	if err != nil {
		return nil, apperr.Internal("failed to load cards", err)
	}
	others := make([]model.Card, 0, len(siblings))
	for _, c := range siblings {
		if c.ID != card.ID {
			others = append(others, c)
		}
	}
	if index < 0 {
		index = 0
	}
	if index > len(others) {
		index = len(others)
	}
	position, ok := ordering.InsertAt(cardPositions(others), index)
	if !ok {
		ids := make([]uuid.UUID, len(others))
		for i, c := range others {
			ids[i] = c.ID
		}
		if err := s.cards.UpdatePositions(ctx, ordering.Compacted(ids)); err != nil {
			return nil, apperr.Internal("failed to rebalance cards", err)
		}
		compacted := make([]float64, len(others))
		for i := range others {
			compacted[i] = float64(i)
		}
		position, _ = ordering.InsertAt(compacted, index)
	}
	var fromTitle string
	if from, err := s.lists.GetByID(ctx, card.ListID); err == nil && from != nil {
		fromTitle = from.Title
	}
	card.ListID = target.ID
	card.Position = position
	if err := s.cards.Update(ctx, card); err != nil {
		return nil, apperr.Internal("failed to move card", err)
	}
	s.recorder.Record(ctx, board.ID, principal, model.ActionCardMoved, model.TargetCard, card.ID, card.Title, map[string]any{
		"from_list": fromTitle,
		"to_list":   target.Title,
	})
	return card, nil
}

func (s *CardService) Archive(ctx context.Context, principal, cardID uuid.UUID) (*model.Card, error) {
	card, err := loadCard(ctx, s.cards, cardID)
	if err != nil {
		return nil, err
	}
	board, err := authorizeBoard(ctx, s.boards, card.BoardID, principal, access.Write)
	if err != nil {
		return nil, err
	}
	if card.IsArchived {
		return nil, apperr.Conflict("card is already archived")
	}
	now := time.Now()
	card.IsArchived = true
	card.ArchivedAt = &now
	if err := s.cards.Update(ctx, card); err != nil {
		return nil, apperr.Internal("failed to archive card", err)
	}
	s.recorder.Record(ctx, board.ID, principal, model.ActionCardArchived, model.TargetCard, card.ID, card.Title, nil)
	return card, nil
}

func (s *CardService) Restore(ctx context.Context, principal, cardID uuid.UUID) (*model.Card, error) {
	card, err := loadCard(ctx, s.cards, cardID)
	if err != nil {
		return nil, err
	}
	board, err := authorizeBoard(ctx, s.boards, card.BoardID, principal, access.Write)
	if err != nil {
		return nil, err
	}
	if !card.IsArchived {
		return nil, apperr.Conflict("card is not archived")
	}
	card.IsArchived = false
	card.ArchivedAt = nil
	if err := s.cards.Update(ctx, card); err != nil {
		return nil, apperr.Internal("failed to restore card", err)
	}
	s.recorder.Record(ctx, board.ID, principal, model.ActionCardRestored, model.TargetCard, card.ID, card.Title, nil)
	return card, nil
}

func (s *CardService) Delete(ctx context.Context, principal, cardID uuid.UUID) error {
	card, err := loadCard(ctx, s.cards, cardID)
	if err != nil {
		return err
	}
	board, err := authorizeBoard(ctx, s.boards, card.BoardID, principal, access.Write)
	if err != nil {
		return err
	}
	if err := s.cards.Delete(ctx, card.ID); err != nil {
		return apperr.Internal("failed to delete card", err)
	}
	s.recorder.Record(ctx, board.ID, principal, model.ActionCardDeleted, model.TargetCard, card.ID, card.Title, nil)
	return nil
}

func (s *CardService) AddComment(ctx context.Context, principal, cardID uuid.UUID, text string) (*model.Card, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.Validation("comment text is required")
	}
	card, err := loadCard(ctx, s.cards, cardID)
	if err != nil {
		return nil, err
	}
	board, err := authorizeBoard(ctx, s.boards, card.BoardID, principal, access.Write)
	if err != nil {
		return nil, err
	}
	comment := model.Comment{
		ID:     uuid.New(),
		UserID: principal,
		Text:   text,
		Date:   time.Now(),
	}
	card.Comments = append(card.Comments, comment)
	if err := s.cards.Update(ctx, card); err != nil {
		return nil, apperr.Internal("failed to add comment", err)
	}
	s.recorder.Record(ctx, board.ID, principal, model.ActionCommentAdded, model.TargetComment, comment.ID, truncate(text, commentTitleLimit), map[string]any{"card": card.Title})
	return card, nil
}

// EditComment is restricted to the comment's author regardless of role.
func (s *CardService) EditComment(ctx context.Context, principal, cardID, commentID uuid.UUID, text string) (*model.Card, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.Validation("comment text is required")
	}
	card, err := loadCard(ctx, s.cards, cardID)
	if err != nil {
		return nil, err
	}
	board, err := authorizeBoard(ctx, s.boards, card.BoardID, principal, access.Write)
	if err != nil {
		return nil, err
	}
	idx := card.CommentIndex(commentID)
	if idx < 0 {
		return nil, apperr.NotFound("comment not found")
	}
	if card.Comments[idx].UserID != principal {
		return nil, apperr.Permission("you can only edit your own comments")
	}
	now := time.Now()
	card.Comments[idx].Text = text
	card.Comments[idx].EditedAt = &now
	if err := s.cards.Update(ctx, card); err != nil {
		return nil, apperr.Internal("failed to edit comment", err)
	}
	s.recorder.Record(ctx, board.ID, principal, model.ActionCommentEdited, model.TargetComment, commentID, truncate(text, commentTitleLimit), map[string]any{"card": card.Title})
	return card, nil
}

// DeleteComment allows the author to remove their own comment; removing
// someone else's requires the manage capability.
func (s *CardService) DeleteComment(ctx context.Context, principal, cardID, commentID uuid.UUID) (*model.Card, error) {
	card, err := loadCard(ctx, s.cards, cardID)
	if err != nil {
		return nil, err
	}
	board, err := loadBoard(ctx, s.boards, card.BoardID)
	if err != nil {
		return nil, err
	}
	idx := card.CommentIndex(commentID)
	if idx < 0 {
		return nil, apperr.NotFound("comment not found")
	}
	capability := access.Manage
	if card.Comments[idx].UserID == principal {
		capability = access.Write
	}
	if err := access.Authorize(board, principal, capability); err != nil {
		return nil, err
	}
	removed := card.Comments[idx]
	card.Comments = append(card.Comments[:idx], card.Comments[idx+1:]...)
	if err := s.cards.Update(ctx, card); err != nil {
		return nil, apperr.Internal("failed to delete comment", err)
	}
	s.recorder.Record(ctx, board.ID, principal, model.ActionCommentDeleted, model.TargetComment, removed.ID, truncate(removed.Text, commentTitleLimit), map[string]any{"card": card.Title})
	return card, nil
}

func (s *CardService) AddChecklistItem(ctx context.Context, principal, cardID uuid.UUID, text string) (*model.Card, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.Validation("item text is required")
	}
	card, err := loadCard(ctx, s.cards, cardID)
	if err != nil {
		return nil, err
	}
	board, err := authorizeBoard(ctx, s.boards, card.BoardID, principal, access.Write)
	if err != nil {
		return nil, err
	}
	item := model.ChecklistItem{ID: uuid.New(), Text: text}
	card.Checklist = append(card.Checklist, item)
	if err := s.cards.Update(ctx, card); err != nil {
		return nil, apperr.Internal("failed to add checklist item", err)
	}
	s.recorder.Record(ctx, board.ID, principal, model.ActionChecklistItemAdded, model.TargetChecklist, item.ID, text, map[string]any{"card": card.Title})
	return card, nil
}

func (s *CardService) UpdateChecklistItem(ctx context.Context, principal, cardID, itemID uuid.UUID, p UpdateChecklistItemParams) (*model.Card, error) {
	card, err := loadCard(ctx, s.cards, cardID)
	if err != nil {
		return nil, err
	}
	board, err := authorizeBoard(ctx, s.boards, card.BoardID, principal, access.Write)
	if err != nil {
		return nil, err
	}
	idx := card.ChecklistIndex(itemID)
	if idx < 0 {
		return nil, apperr.NotFound("checklist item not found")
	}
	item := &card.Checklist[idx]
	if p.Text != nil {
		text := strings.TrimSpace(*p.Text)
		if text == "" {
			return nil, apperr.Validation("item text cannot be empty")
		}
		item.Text = text
	}
	var action string
	if p.IsCompleted != nil && *p.IsCompleted != item.IsCompleted {
		if *p.IsCompleted {
			now := time.Now()
			by := principal
			item.IsCompleted = true
			item.CompletedAt = &now
			item.CompletedBy = &by
			action = model.ActionChecklistItemCompleted
		} else {
			item.IsCompleted = false
			item.CompletedAt = nil
			item.CompletedBy = nil
			action = model.ActionChecklistItemUncompleted
		}
	}
	if err := s.cards.Update(ctx, card); err != nil {
		return nil, apperr.Internal("failed to update checklist item", err)
	}
	if action != "" {
		s.recorder.Record(ctx, board.ID, principal, action, model.TargetChecklist, itemID, item.Text, map[string]any{"card": card.Title})
	}
	return card, nil
}

func (s *CardService) DeleteChecklistItem(ctx context.Context, principal, cardID, itemID uuid.UUID) (*model.Card, error) {
	card, err := loadCard(ctx, s.cards, cardID)
	if err != nil {
		return nil, err
	}
	board, err := authorizeBoard(ctx, s.boards, card.BoardID, principal, access.Write)
	if err != nil {
		return nil, err
	}
	idx := card.ChecklistIndex(itemID)
	if idx < 0 {
		return nil, apperr.NotFound("checklist item not found")
	}
	removed := card.Checklist[idx]
	card.Checklist = append(card.Checklist[:idx], card.Checklist[idx+1:]...)
	if err := s.cards.Update(ctx, card); err != nil {
		return nil, apperr.Internal("failed to delete checklist item", err)
	}
	s.recorder.Record(ctx, board.ID, principal, model.ActionChecklistItemDeleted, model.TargetChecklist, removed.ID, removed.Text, map[string]any{"card": card.Title})
	return card, nil
}

// ReorderChecklist rebuilds the checklist in the given order. Unknown ids are
// ignored; items missing from itemIDs are dropped from the list.
func (s *CardService) ReorderChecklist(ctx context.Context, principal, cardID uuid.UUID, itemIDs []uuid.UUID) (*model.Card, error) {
	card, err := loadCard(ctx, s.cards, cardID)
	if err != nil {
		return nil, err
	}
	if _, err := authorizeBoard(ctx, s.boards, card.BoardID, principal, access.Write); err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]model.ChecklistItem, len(card.Checklist))
	for _, item := range card.Checklist {
		byID[item.ID] = item
	}
	reordered := make([]model.ChecklistItem, 0, len(itemIDs))
	for _, id := range itemIDs {
		if item, found := byID[id]; found {
			reordered = append(reordered, item)
			delete(byID, id)
		}
	}
	card.Checklist = reordered
	if err := s.cards.Update(ctx, card); err != nil {
		return nil, apperr.Internal("failed to reorder checklist", err)
	}
	return card, nil
}

func (s *CardService) AddLabel(ctx context.Context, principal, cardID uuid.UUID, label string) (*model.Card, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, apperr.Validation("label is required")
	}
	card, err := loadCard(ctx, s.cards, cardID)
	if err != nil {
		return nil, err
	}
	board, err := authorizeBoard(ctx, s.boards, card.BoardID, principal, access.Write)
	if err != nil {
		return nil, err
	}
	if card.HasLabel(label) {
		return nil, apperr.Conflict("label already added to this card")
	}
	card.Labels = append(card.Labels, label)
	if err := s.cards.Update(ctx, card); err != nil {
		return nil, apperr.Internal("failed to add label", err)
	}
	s.recorder.Record(ctx, board.ID, principal, model.ActionCardUpdated, model.TargetCard, card.ID, card.Title, map[string]any{"action": "label_added", "label": label})
	return card, nil
}

func (s *CardService) RemoveLabel(ctx context.Context, principal, cardID uuid.UUID, label string) (*model.Card, error) {
	card, err := loadCard(ctx, s.cards, cardID)
	if err != nil {
		return nil, err
	}
	board, err := authorizeBoard(ctx, s.boards, card.BoardID, principal, access.Write)
	if err != nil {
		return nil, err
	}
	if !card.HasLabel(label) {
		return card, nil
	}
	labels := card.Labels[:0]
	for _, l := range card.Labels {
		if l != label {
			labels = append(labels, l)
		}
	}
	card.Labels = labels
	if err := s.cards.Update(ctx, card); err != nil {
		return nil, apperr.Internal("failed to remove label", err)
	}
	s.recorder.Record(ctx, board.ID, principal, model.ActionCardUpdated, model.TargetCard, card.ID, card.Title, map[string]any{"action": "label_removed", "label": label})
	return card, nil
}

// AddAttachment stores the uploaded bytes through the content store and
// appends the attachment entry.
func (s *CardService) AddAttachment(ctx context.Context, principal, cardID uuid.UUID, p AddAttachmentParams) (*model.Card, error) {
	if len(p.Data) == 0 {
		return nil, apperr.Validation("no file uploaded")
	}
	card, err := loadCard(ctx, s.cards, cardID)
	if err != nil {
		return nil, err
	}
	board, err := authorizeBoard(ctx, s.boards, card.BoardID, principal, access.Write)
	if err != nil {
		return nil, err
	}
	url, err := s.content.Save(ctx, p.Filename, p.ContentType, p.Data)
	if err != nil {
		return nil, apperr.Internal("failed to store attachment", err)
	}
	attachment := model.Attachment{
		ID:         uuid.New(),
		Filename:   p.Filename,
		URL:        url,
		Type:       p.ContentType,
		Size:       p.Size,
		UploadedBy: principal,
		UploadedAt: time.Now(),
	}
	card.Attachments = append(card.Attachments, attachment)
	if err := s.cards.Update(ctx, card); err != nil {
		return nil, apperr.Internal("failed to add attachment", err)
	}
	s.recorder.Record(ctx, board.ID, principal, model.ActionAttachmentAdded, model.TargetAttachment, attachment.ID, attachment.Filename, map[string]any{"card": card.Title})
	return card, nil
}

// AddAttachmentURL attaches an external link without storing any bytes.
func (s *CardService) AddAttachmentURL(ctx context.Context, principal, cardID uuid.UUID, url, filename string) (*model.Card, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, apperr.Validation("url is required")
	}
	card, err := loadCard(ctx, s.cards, cardID)
	if err != nil {
		return nil, err
	}
	board, err := authorizeBoard(ctx, s.boards, card.BoardID, principal, access.Write)
	if err != nil {
		return nil, err
	}
	if filename == "" {
		filename = path.Base(url)
		if filename == "." || filename == "/" {
			filename = "Link"
		}
	}
	attachment := model.Attachment{
		ID:         uuid.New(),
		Filename:   filename,
		URL:        url,
		Type:       "link",
		UploadedBy: principal,
		UploadedAt: time.Now(),
	}
	card.Attachments = append(card.Attachments, attachment)
	if err := s.cards.Update(ctx, card); err != nil {
		return nil, apperr.Internal("failed to add attachment", err)
	}
	s.recorder.Record(ctx, board.ID, principal, model.ActionAttachmentAdded, model.TargetAttachment, attachment.ID, attachment.Filename, map[string]any{"card": card.Title})
	return card, nil
}

func (s *CardService) RemoveAttachment(ctx context.Context, principal, cardID, attachmentID uuid.UUID) (*model.Card, error) {
	card, err := loadCard(ctx, s.cards, cardID)
	if err != nil {
		return nil, err
	}
	board, err := authorizeBoard(ctx, s.boards, card.BoardID, principal, access.Write)
	if err != nil {
		return nil, err
	}
	idx := card.AttachmentIndex(attachmentID)
	if idx < 0 {
		return nil, apperr.NotFound("attachment not found")
	}
	removed := card.Attachments[idx]
	card.Attachments = append(card.Attachments[:idx], card.Attachments[idx+1:]...)
	if err := s.cards.Update(ctx, card); err != nil {
		return nil, apperr.Internal("failed to remove attachment", err)
	}
	s.recorder.Record(ctx, board.ID, principal, model.ActionAttachmentDeleted, model.TargetAttachment, removed.ID, removed.Filename, map[string]any{"card": card.Title})
	return card, nil
}
