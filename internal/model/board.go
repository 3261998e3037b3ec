package model

import (
	"time"

	"github.com/google/uuid"
)

// DefaultBackground is the board background used when none is given.
const DefaultBackground = "#0079BF"

// Board member roles
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
	RoleViewer = "viewer"
)

// ValidRole reports whether role is one of the three member roles.
// The board owner is never stored as a member and outranks all of them.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleMember || role == RoleViewer
}

// BoardMember is a membership entry embedded in the board aggregate.
type BoardMember struct {
	UserID  uuid.UUID `json:"user_id"`
	Role    string    `json:"role"`
	AddedAt time.Time `json:"added_at"`
}

// Label is a board-scoped label definition. Cards reference labels by name.
type Label struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
}

type Board struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Title       string    `gorm:"not null"`
	Description string
	Background  string        `gorm:"default:'#0079BF'"`
	OwnerID     uuid.UUID     `gorm:"type:uuid;not null;index"`
	Members     []BoardMember `gorm:"serializer:json;type:jsonb"`
	Labels      []Label       `gorm:"serializer:json;type:jsonb"`
	IsArchived  bool          `gorm:"not null;default:false"`
	ArchivedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MemberIndex returns the index of userID in Members, or -1.
func (b *Board) MemberIndex(userID uuid.UUID) int {
	for i, m := range b.Members {
		if m.UserID == userID {
			return i
		}
	}
	return -1
}

// LabelIndex returns the index of labelID in Labels, or -1.
func (b *Board) LabelIndex(labelID uuid.UUID) int {
	for i, l := range b.Labels {
		if l.ID == labelID {
			return i
		}
	}
	return -1
}
