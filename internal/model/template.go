package model

import (
	"time"

	"github.com/google/uuid"
)

// Template categories
const (
	CategoryPersonal    = "personal"
	CategoryWork        = "work"
	CategoryProject     = "project"
	CategoryMarketing   = "marketing"
	CategorySales       = "sales"
	CategoryEngineering = "engineering"
	CategoryOther       = "other"
)

func ValidCategory(category string) bool {
	switch category {
	case CategoryPersonal, CategoryWork, CategoryProject,
		CategoryMarketing, CategorySales, CategoryEngineering, CategoryOther:
		return true
	}
	return false
}

// TemplateChecklistItem is always stored incomplete; a template is a
// reusable skeleton, not a record of past work.
type TemplateChecklistItem struct {
	Text        string `json:"text"`
	IsCompleted bool   `json:"is_completed"`
}

type TemplateCard struct {
	Title       string                  `json:"title"`
	Description string                  `json:"description,omitempty"`
	Position    float64                 `json:"position"`
	Labels      []string                `json:"labels,omitempty"`
	Checklist   []TemplateChecklistItem `json:"checklist,omitempty"`
}

type TemplateList struct {
	Title    string         `json:"title"`
	Position float64        `json:"position"`
	Cards    []TemplateCard `json:"cards"`
}

// Template is an immutable snapshot of a board's list/card hierarchy.
type Template struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name        string    `gorm:"not null"`
	Description string
	Background  string         `gorm:"default:'#0079BF'"`
	CreatedBy   uuid.UUID      `gorm:"type:uuid;not null;index"`
	IsPublic    bool           `gorm:"not null;default:false"`
	Category    string         `gorm:"default:'other'"`
	Lists       []TemplateList `gorm:"serializer:json;type:jsonb"`
	Labels      []Label        `gorm:"serializer:json;type:jsonb"`
	UsageCount  int            `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
