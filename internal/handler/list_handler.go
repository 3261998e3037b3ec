package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskboard/internal/model"
	"taskboard/internal/service"
)

type ListHandler struct {
	lists *service.ListService
}

func NewListHandler(lists *service.ListService) *ListHandler {
	return &ListHandler{lists: lists}
}

type ListRequest struct {
	Title string `json:"title" binding:"required"`
}

type ReorderListsRequest struct {
	ListIDs []string `json:"list_ids" binding:"required,min=1,dive,uuid"`
}

type ListResponse struct {
	ID         string     `json:"id"`
	BoardID    string     `json:"board_id"`
	Title      string     `json:"title"`
	Position   float64    `json:"position"`
	IsArchived bool       `json:"is_archived"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func listResponse(l *model.List) ListResponse {
	return ListResponse{
		ID:         l.ID.String(),
		BoardID:    l.BoardID.String(),
		Title:      l.Title,
		Position:   l.Position,
		IsArchived: l.IsArchived,
		ArchivedAt: l.ArchivedAt,
		CreatedAt:  l.CreatedAt,
	}
}

func listResponses(lists []model.List) []ListResponse {
	response := make([]ListResponse, len(lists))
	for i := range lists {
		response[i] = listResponse(&lists[i])
	}
	return response
}

// Create godoc
// @Summary Create a list on a board
// @Tags lists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "board id"
// @Param request body ListRequest true "list"
// @Success 201 {object} ListResponse
// @Router /boards/{id}/lists [post]
func (h *ListHandler) Create(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req ListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request", "statusCode": http.StatusBadRequest})
		return
	}
	list, err := h.lists.Create(c.Request.Context(), userID, boardID, req.Title)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, listResponse(list))
}

func (h *ListHandler) GetByBoard(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id")
	if !ok {
		return
	}
	lists, err := h.lists.ListByBoard(c.Request.Context(), userID, boardID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, listResponses(lists))
}

func (h *ListHandler) GetArchived(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id")
	if !ok {
		return
	}
	lists, err := h.lists.ListArchived(c.Request.Context(), userID, boardID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, listResponses(lists))
}

// Reorder rewrites the order of every live list on the board.
func (h *ListHandler) Reorder(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req ReorderListsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request", "statusCode": http.StatusBadRequest})
		return
	}
	ids := make([]uuid.UUID, len(req.ListIDs))
	for i, raw := range req.ListIDs {
		ids[i] = uuid.MustParse(raw)
	}
	lists, err := h.lists.BulkReorder(c.Request.Context(), userID, boardID, ids)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, listResponses(lists))
}

func (h *ListHandler) Update(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	listID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req ListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request", "statusCode": http.StatusBadRequest})
		return
	}
	list, err := h.lists.Update(c.Request.Context(), userID, listID, req.Title)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, listResponse(list))
}

func (h *ListHandler) Archive(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	listID, ok := pathID(c, "id")
	if !ok {
		return
	}
	list, err := h.lists.Archive(c.Request.Context(), userID, listID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, listResponse(list))
}

func (h *ListHandler) Restore(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	listID, ok := pathID(c, "id")
	if !ok {
		return
	}
	list, err := h.lists.Restore(c.Request.Context(), userID, listID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, listResponse(list))
}

func (h *ListHandler) Delete(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	listID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.lists.Delete(c.Request.Context(), userID, listID); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "List deleted")
}
