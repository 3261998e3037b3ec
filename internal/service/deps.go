package service

import (
	"context"

	"github.com/google/uuid"

	"taskboard/internal/model"
	"taskboard/internal/ordering"
)

// Store interfaces consumed by the use-case services. The gorm repositories
// in internal/repository satisfy them; tests substitute in-memory fakes.
// GetByID-style lookups return (nil, nil) when the id does not resolve.

type BoardStore interface {
	Create(ctx context.Context, board *model.Board) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Board, error)
	GetOwned(ctx context.Context, ownerID uuid.UUID, archived bool) ([]model.Board, error)
	GetSharedWith(ctx context.Context, userID uuid.UUID) ([]model.Board, error)
	Update(ctx context.Context, board *model.Board) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ListStore interface {
	Create(ctx context.Context, list *model.List) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.List, error)
	GetByBoard(ctx context.Context, boardID uuid.UUID) ([]model.List, error)
	GetArchivedByBoard(ctx context.Context, boardID uuid.UUID) ([]model.List, error)
	Update(ctx context.Context, list *model.List) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdatePositions(ctx context.Context, assignments []ordering.Assignment) error
}

type CardStore interface {
	Create(ctx context.Context, card *model.Card) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Card, error)
	GetByList(ctx context.Context, listID uuid.UUID) ([]model.Card, error)
	GetByBoard(ctx context.Context, boardID uuid.UUID) ([]model.Card, error)
	GetArchivedByBoard(ctx context.Context, boardID uuid.UUID) ([]model.Card, error)
	Update(ctx context.Context, card *model.Card) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdatePositions(ctx context.Context, assignments []ordering.Assignment) error
}

type TemplateStore interface {
	Create(ctx context.Context, template *model.Template) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Template, error)
	GetByCreator(ctx context.Context, userID uuid.UUID) ([]model.Template, error)
	GetPublic(ctx context.Context, category string) ([]model.Template, error)
	Update(ctx context.Context, template *model.Template) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ActivityStore interface {
	Create(ctx context.Context, activity *model.Activity) error
	ListByBoard(ctx context.Context, boardID uuid.UUID, offset, limit int) ([]model.Activity, int64, error)
	ListByCard(ctx context.Context, cardID uuid.UUID, offset, limit int) ([]model.Activity, int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]model.Activity, int64, error)
}

type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

// ContentStore persists attachment bytes somewhere addressable and returns
// the public URL. Binary storage itself is an external collaborator.
type ContentStore interface {
	Save(ctx context.Context, filename, contentType string, data []byte) (url string, err error)
}
