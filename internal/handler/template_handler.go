package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskboard/internal/model"
	"taskboard/internal/service"
)

type TemplateHandler struct {
	templates *service.TemplateService
}

func NewTemplateHandler(templates *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

type SaveTemplateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
	Category    string `json:"category" binding:"omitempty,oneof=personal work project marketing sales engineering other"`
}

type UpdateTemplateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"is_public"`
	Category    *string `json:"category" binding:"omitempty,oneof=personal work project marketing sales engineering other"`
}

type InstantiateRequest struct {
	Title string `json:"title" binding:"required"`
}

type TemplateResponse struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Background  string               `json:"background"`
	CreatedBy   string               `json:"created_by"`
	IsPublic    bool                 `json:"is_public"`
	Category    string               `json:"category"`
	Lists       []model.TemplateList `json:"lists"`
	Labels      []model.Label        `json:"labels"`
	UsageCount  int                  `json:"usage_count"`
	CreatedAt   time.Time            `json:"created_at"`
}

func templateResponse(t *model.Template) TemplateResponse {
	return TemplateResponse{
		ID:          t.ID.String(),
		Name:        t.Name,
		Description: t.Description,
		Background:  t.Background,
		CreatedBy:   t.CreatedBy.String(),
		IsPublic:    t.IsPublic,
		Category:    t.Category,
		Lists:       t.Lists,
		Labels:      t.Labels,
		UsageCount:  t.UsageCount,
		CreatedAt:   t.CreatedAt,
	}
}

func templateResponses(templates []model.Template) []TemplateResponse {
	response := make([]TemplateResponse, len(templates))
	for i := range templates {
		response[i] = templateResponse(&templates[i])
	}
	return response
}

// SaveBoard godoc
// @Summary Save a board as a reusable template
// @Tags templates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "board id"
// @Param request body SaveTemplateRequest true "template"
// @Success 201 {object} TemplateResponse
// @Router /boards/{id}/template [post]
func (h *TemplateHandler) SaveBoard(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req SaveTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request", "statusCode": http.StatusBadRequest})
		return
	}
	template, err := h.templates.SaveBoardAsTemplate(c.Request.Context(), userID, boardID, service.SaveTemplateParams{
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
		Category:    req.Category,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, templateResponse(template))
}

// Instantiate creates a new board from the template.
func (h *TemplateHandler) Instantiate(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	templateID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req InstantiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request", "statusCode": http.StatusBadRequest})
		return
	}
	board, err := h.templates.Instantiate(c.Request.Context(), userID, templateID, req.Title)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, boardResponse(board))
}

func (h *TemplateHandler) GetMine(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	templates, err := h.templates.ListMine(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, templateResponses(templates))
}

func (h *TemplateHandler) GetPublic(c *gin.Context) {
	if _, ok := principal(c); !ok {
		return
	}
	templates, err := h.templates.ListPublic(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, templateResponses(templates))
}

func (h *TemplateHandler) GetByID(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	templateID, ok := pathID(c, "id")
	if !ok {
		return
	}
	template, err := h.templates.Get(c.Request.Context(), userID, templateID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, templateResponse(template))
}

func (h *TemplateHandler) Update(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	templateID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request", "statusCode": http.StatusBadRequest})
		return
	}
	template, err := h.templates.Update(c.Request.Context(), userID, templateID, service.UpdateTemplateParams{
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
		Category:    req.Category,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, templateResponse(template))
}

func (h *TemplateHandler) Delete(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	templateID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.templates.Delete(c.Request.Context(), userID, templateID); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Template deleted")
}
