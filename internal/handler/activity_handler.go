package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"taskboard/internal/model"
	"taskboard/internal/service"
)

type ActivityHandler struct {
	activities *service.ActivityService
}

func NewActivityHandler(activities *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activities: activities}
}

type ActivityResponse struct {
	ID          string         `json:"id"`
	BoardID     string         `json:"board_id"`
	UserID      string         `json:"user_id"`
	Action      string         `json:"action"`
	TargetType  string         `json:"target_type"`
	TargetID    string         `json:"target_id"`
	TargetTitle string         `json:"target_title"`
	Details     map[string]any `json:"details,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

type ActivityPageResponse struct {
	Items []ActivityResponse `json:"items"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
	Total int64              `json:"total"`
	Pages int                `json:"pages"`
}

func activityPageResponse(page *service.ActivityPage) ActivityPageResponse {
	items := make([]ActivityResponse, len(page.Items))
	for i, a := range page.Items {
		items[i] = activityResponse(&a)
	}
	return ActivityPageResponse{
		Items: items,
		Page:  page.Page,
		Limit: page.Limit,
		Total: page.Total,
		Pages: page.Pages,
	}
}

func activityResponse(a *model.Activity) ActivityResponse {
	return ActivityResponse{
		ID:          a.ID.String(),
		BoardID:     a.BoardID.String(),
		UserID:      a.UserID.String(),
		Action:      a.Action,
		TargetType:  a.TargetType,
		TargetID:    a.TargetID.String(),
		TargetTitle: a.TargetTitle,
		Details:     a.Details,
		CreatedAt:   a.CreatedAt,
	}
}

func paging(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.Query("limit"))
	return page, limit
}

// GetByBoard godoc
// @Summary Board activity trail, newest first
// @Tags activity
// @Produce json
// @Security BearerAuth
// @Param id path string true "board id"
// @Param page query int false "page number"
// @Param limit query int false "page size"
// @Success 200 {object} ActivityPageResponse
// @Router /boards/{id}/activity [get]
func (h *ActivityHandler) GetByBoard(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id")
	if !ok {
		return
	}
	page, limit := paging(c)
	result, err := h.activities.ListByBoard(c.Request.Context(), userID, boardID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, activityPageResponse(result))
}

func (h *ActivityHandler) GetByCard(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	cardID, ok := pathID(c, "id")
	if !ok {
		return
	}
	page, limit := paging(c)
	result, err := h.activities.ListByCard(c.Request.Context(), userID, cardID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, activityPageResponse(result))
}

// GetMine returns the caller's own trail across boards.
func (h *ActivityHandler) GetMine(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	page, limit := paging(c)
	result, err := h.activities.ListByUser(c.Request.Context(), userID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, activityPageResponse(result))
}
