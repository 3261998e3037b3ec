package model

import (
	"time"

	"github.com/google/uuid"
)

// Activity actions. The set is closed; records are immutable once created.
const (
	ActionBoardCreated  = "board_created"
	ActionBoardUpdated  = "board_updated"
	ActionBoardArchived = "board_archived"
	ActionBoardRestored = "board_restored"
	ActionBoardDeleted  = "board_deleted"

	ActionListCreated   = "list_created"
	ActionListUpdated   = "list_updated"
	ActionListArchived  = "list_archived"
	ActionListRestored  = "list_restored"
	ActionListDeleted   = "list_deleted"
	ActionListReordered = "list_reordered"

	ActionCardCreated  = "card_created"
	ActionCardUpdated  = "card_updated"
	ActionCardMoved    = "card_moved"
	ActionCardArchived = "card_archived"
	ActionCardRestored = "card_restored"
	ActionCardDeleted  = "card_deleted"

	ActionCommentAdded   = "comment_added"
	ActionCommentEdited  = "comment_edited"
	ActionCommentDeleted = "comment_deleted"

	ActionMemberAdded   = "member_added"
	ActionMemberRemoved = "member_removed"

	ActionLabelCreated = "label_created"
	ActionLabelUpdated = "label_updated"
	ActionLabelDeleted = "label_deleted"

	ActionChecklistItemAdded       = "checklist_item_added"
	ActionChecklistItemCompleted   = "checklist_item_completed"
	ActionChecklistItemUncompleted = "checklist_item_uncompleted"
	ActionChecklistItemDeleted     = "checklist_item_deleted"

	ActionAttachmentAdded   = "attachment_added"
	ActionAttachmentDeleted = "attachment_deleted"

	ActionDueDateSet     = "due_date_set"
	ActionDueDateRemoved = "due_date_removed"
)

// Activity target types
const (
	TargetBoard      = "board"
	TargetList       = "list"
	TargetCard       = "card"
	TargetComment    = "comment"
	TargetLabel      = "label"
	TargetMember     = "member"
	TargetChecklist  = "checklist"
	TargetAttachment = "attachment"
)

type Activity struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BoardID     uuid.UUID `gorm:"type:uuid;not null;index:idx_activities_board_created,priority:1"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Action      string    `gorm:"not null"`
	TargetType  string
	TargetID    uuid.UUID      `gorm:"type:uuid;index"`
	TargetTitle string
	Details     map[string]any `gorm:"serializer:json;type:jsonb"`
	CreatedAt   time.Time      `gorm:"index:idx_activities_board_created,priority:2,sort:desc"`
}
