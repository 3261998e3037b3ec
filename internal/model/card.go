package model

import (
	"time"

	"github.com/google/uuid"
)

// Comment is an ordered value entry in the card aggregate.
type Comment struct {
	ID       uuid.UUID  `json:"id"`
	UserID   uuid.UUID  `json:"user_id"`
	Text     string     `json:"text"`
	Date     time.Time  `json:"date"`
	EditedAt *time.Time `json:"edited_at,omitempty"`
}

type ChecklistItem struct {
	ID          uuid.UUID  `json:"id"`
	Text        string     `json:"text"`
	IsCompleted bool       `json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CompletedBy *uuid.UUID `json:"completed_by,omitempty"`
}

type Attachment struct {
	ID         uuid.UUID `json:"id"`
	Filename   string    `json:"filename"`
	URL        string    `json:"url"`
	Type       string    `json:"type"`
	Size       int64     `json:"size,omitempty"`
	UploadedBy uuid.UUID `json:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Card owns its comments, checklist and attachments as ordered value
// collections; they are mutated through whole-aggregate saves.
// BoardID is denormalized and must always equal the owning list's board.
type Card struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ListID      uuid.UUID `gorm:"type:uuid;not null;index"`
	BoardID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"not null"`
	Description string
	Position    float64 `gorm:"not null"`
	DueDate     *time.Time
	Labels      []string        `gorm:"serializer:json;type:jsonb"`
	Members     []uuid.UUID     `gorm:"serializer:json;type:jsonb"`
	Comments    []Comment       `gorm:"serializer:json;type:jsonb"`
	Checklist   []ChecklistItem `gorm:"serializer:json;type:jsonb"`
	Attachments []Attachment    `gorm:"serializer:json;type:jsonb"`
	CreatedBy   uuid.UUID       `gorm:"type:uuid;not null"`
	IsArchived  bool            `gorm:"not null;default:false"`
	ArchivedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasLabel reports whether the card carries the label name.
func (c *Card) HasLabel(label string) bool {
	for _, l := range c.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// CommentIndex returns the index of commentID in Comments, or -1.
func (c *Card) CommentIndex(commentID uuid.UUID) int {
	for i, cm := range c.Comments {
		if cm.ID == commentID {
			return i
		}
	}
	return -1
}

// ChecklistIndex returns the index of itemID in Checklist, or -1.
func (c *Card) ChecklistIndex(itemID uuid.UUID) int {
	for i, item := range c.Checklist {
		if item.ID == itemID {
			return i
		}
	}
	return -1
}

// AttachmentIndex returns the index of attachmentID in Attachments, or -1.
func (c *Card) AttachmentIndex(attachmentID uuid.UUID) int {
	for i, a := range c.Attachments {
		if a.ID == attachmentID {
			return i
		}
	}
	return -1
}
