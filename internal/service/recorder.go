package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"taskboard/internal/model"
)

// Recorder appends immutable activity records. It is invoked only after the
// triggering mutation has durably succeeded; a failed write is logged and
// never fails the use case that triggered it.
type Recorder struct {
	activities ActivityStore
	logger     zerolog.Logger
}

func NewRecorder(activities ActivityStore, logger zerolog.Logger) *Recorder {
	return &Recorder{activities: activities, logger: logger}
}

func (r *Recorder) Record(ctx context.Context, boardID, userID uuid.UUID, action, targetType string, targetID uuid.UUID, targetTitle string, details map[string]any) {
	activity := &model.Activity{
		BoardID:     boardID,
		UserID:      userID,
		Action:      action,
		TargetType:  targetType,
		TargetID:    targetID,
		TargetTitle: targetTitle,
		Details:     details,
	}
	if err := r.activities.Create(ctx, activity); err != nil {
		r.logger.Error().
			Err(err).
			Str("board_id", boardID.String()).
			Str("action", action).
			Msg("failed to record activity")
	}
}
