package model

import (
	"time"

	"github.com/google/uuid"
)

type List struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BoardID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Title      string    `gorm:"not null"`
	Position   float64   `gorm:"not null"`
	IsArchived bool      `gorm:"not null;default:false"`
	ArchivedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
