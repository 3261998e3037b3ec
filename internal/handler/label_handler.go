package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/model"
	"taskboard/internal/service"
)

type LabelHandler struct {
	labels *service.LabelService
}

func NewLabelHandler(labels *service.LabelService) *LabelHandler {
	return &LabelHandler{labels: labels}
}

type CreateLabelRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color" binding:"required"`
}

type UpdateLabelRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

type LabelResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

func labelResponse(l *model.Label) LabelResponse {
	return LabelResponse{ID: l.ID.String(), Name: l.Name, Color: l.Color}
}

// Create godoc
// @Summary Create a board label
// @Tags labels
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "board id"
// @Param request body CreateLabelRequest true "label"
// @Success 201 {object} LabelResponse
// @Router /boards/{id}/labels [post]
func (h *LabelHandler) Create(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req CreateLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request", "statusCode": http.StatusBadRequest})
		return
	}
	label, err := h.labels.Create(c.Request.Context(), userID, boardID, req.Name, req.Color)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, labelResponse(label))
}

func (h *LabelHandler) List(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id")
	if !ok {
		return
	}
	labels, err := h.labels.List(c.Request.Context(), userID, boardID)
	if err != nil {
		respondError(c, err)
		return
	}
	response := make([]LabelResponse, len(labels))
	for i := range labels {
		response[i] = labelResponse(&labels[i])
	}
	respond(c, http.StatusOK, response)
}

func (h *LabelHandler) Update(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id")
	if !ok {
		return
	}
	labelID, ok := pathID(c, "labelId")
	if !ok {
		return
	}
	var req UpdateLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request", "statusCode": http.StatusBadRequest})
		return
	}
	label, err := h.labels.Update(c.Request.Context(), userID, boardID, labelID, service.UpdateLabelParams{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, labelResponse(label))
}

func (h *LabelHandler) Delete(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id")
	if !ok {
		return
	}
	labelID, ok := pathID(c, "labelId")
	if !ok {
		return
	}
	if err := h.labels.Delete(c.Request.Context(), userID, boardID, labelID); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Label deleted")
}
