package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskboard/internal/model"
	"taskboard/internal/service"
)

// maxAttachmentSize caps multipart uploads at 10 MiB.
const maxAttachmentSize = 10 << 20

type CardHandler struct {
	cards *service.CardService
}

func NewCardHandler(cards *service.CardService) *CardHandler {
	return &CardHandler{cards: cards}
}

type CreateCardRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Labels      []string   `json:"labels"`
	Members     []string   `json:"members" binding:"omitempty,dive,uuid"`
}

type UpdateCardRequest struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	DueDate      *time.Time `json:"due_date"`
	ClearDueDate bool       `json:"clear_due_date"`
}

type MoveCardRequest struct {
	ListID   string `json:"list_id" binding:"required,uuid"`
	Position int    `json:"position" binding:"min=0"`
}

type CommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type ChecklistItemRequest struct {
	Text string `json:"text" binding:"required"`
}

type UpdateChecklistItemRequest struct {
	Text        *string `json:"text"`
	IsCompleted *bool   `json:"is_completed"`
}

type ReorderChecklistRequest struct {
	ItemIDs []string `json:"item_ids" binding:"required,dive,uuid"`
}

type CardLabelRequest struct {
	Label string `json:"label" binding:"required"`
}

type AttachmentURLRequest struct {
	URL      string `json:"url" binding:"required,url"`
	Filename string `json:"filename"`
}

type CardResponse struct {
	ID          string                `json:"id"`
	ListID      string                `json:"list_id"`
	BoardID     string                `json:"board_id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Position    float64               `json:"position"`
	DueDate     *time.Time            `json:"due_date,omitempty"`
	Labels      []string              `json:"labels"`
	Members     []uuid.UUID           `json:"members"`
	Comments    []model.Comment       `json:"comments"`
	Checklist   []model.ChecklistItem `json:"checklist"`
	Attachments []model.Attachment    `json:"attachments"`
	CreatedBy   string                `json:"created_by"`
	IsArchived  bool                  `json:"is_archived"`
	ArchivedAt  *time.Time            `json:"archived_at,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

func cardResponse(card *model.Card) CardResponse {
	return CardResponse{
		ID:          card.ID.String(),
		ListID:      card.ListID.String(),
		BoardID:     card.BoardID.String(),
		Title:       card.Title,
		Description: card.Description,
		Position:    card.Position,
		DueDate:     card.DueDate,
		Labels:      card.Labels,
		Members:     card.Members,
		Comments:    card.Comments,
		Checklist:   card.Checklist,
		Attachments: card.Attachments,
		CreatedBy:   card.CreatedBy.String(),
		IsArchived:  card.IsArchived,
		ArchivedAt:  card.ArchivedAt,
		CreatedAt:   card.CreatedAt,
		UpdatedAt:   card.UpdatedAt,
	}
}

func cardResponses(cards []model.Card) []CardResponse {
	response := make([]CardResponse, len(cards))
	for i := range cards {
		response[i] = cardResponse(&cards[i])
	}
	return response
}

// Create godoc
// @Summary Create a card on a list
// @Tags cards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "list id"
// @Param request body CreateCardRequest true "card"
// @Success 201 {object} CardResponse
// @Router /lists/{id}/cards [post]
func (h *CardHandler) Create(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	listID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request", "statusCode": http.StatusBadRequest})
		return
	}
	members := make([]uuid.UUID, len(req.Members))
	for i, raw := range req.Members {
		members[i] = uuid.MustParse(raw)
	}
	card, err := h.cards.Create(c.Request.Context(), userID, listID, service.CreateCardParams{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Labels:      req.Labels,
		Members:     members,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, cardResponse(card))
}

func (h *CardHandler) GetByID(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	cardID, ok := pathID(c, "id")
	if !ok {
		return
	}
	card, err := h.cards.Get(c.Request.Context(), userID, cardID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, cardResponse(card))
}

func (h *CardHandler) GetByList(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	listID, ok := pathID(c, "id")
	if !ok {
		return
	}
	cards, err := h.cards.ListByList(c.Request.Context(), userID, listID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, cardResponses(cards))
}

func (h *CardHandler) GetArchivedByBoard(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id")
	if !ok {
		return
	}
	cards, err := h.cards.ListArchivedByBoard(c.Request.Context(), userID, boardID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, cardResponses(cards))
}

func (h *CardHandler) Update(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	cardID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request", "statusCode": http.StatusBadRequest})
		return
	}
	card, err := h.cards.Update(c.Request.Context(), userID, cardID, service.UpdateCardParams{
		Title:        req.Title,
		Description:  req.Description,
		DueDate:      req.DueDate,
		ClearDueDate: req.ClearDueDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, cardResponse(card))
}

// Move godoc
// @Summary Move a card to a position within a list
// @Tags cards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "card id"
// @Param request body MoveCardRequest true "target"
// @Success 200 {object} CardResponse
// @Router /cards/{id}/move [post]
func (h *CardHandler) Move(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	cardID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req MoveCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request", "statusCode": http.StatusBadRequest})
		return
	}
	card, err := h.cards.Move(c.Request.Context(), userID, cardID, uuid.MustParse(req.ListID), req.Position)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, cardResponse(card))
}

func (h *CardHandler) Archive(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	cardID, ok := pathID(c, "id")
	if !ok {
		return
	}
	card, err := h.cards.Archive(c.Request.Context(), userID, cardID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, cardResponse(card))
}

func (h *CardHandler) Restore(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	cardID, ok := pathID(c, "id")
	if !ok {
		return
	}
	card, err := h.cards.Restore(c.Request.Context(), userID, cardID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, cardResponse(card))
}

func (h *CardHandler) Delete(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	cardID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.cards.Delete(c.Request.Context(), userID, cardID); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Card deleted")
}

func (h *CardHandler) AddComment(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	cardID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request", "statusCode": http.StatusBadRequest})
		return
	}
	card, err := h.cards.AddComment(c.Request.Context(), userID, cardID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, cardResponse(card))
}

func (h *CardHandler) EditComment(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	cardID, ok := pathID(c, "id")
	if !ok {
		return
	}
	commentID, ok := pathID(c, "commentId")
	if !ok {
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request", "statusCode": http.StatusBadRequest})
		return
	}
	card, err := h.cards.EditComment(c.Request.Context(), userID, cardID, commentID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, cardResponse(card))
}

func (h *CardHandler) DeleteComment(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	cardID, ok := pathID(c, "id")
	if !ok {
		return
	}
	commentID, ok := pathID(c, "commentId")
	if !ok {
		return
	}
	card, err := h.cards.DeleteComment(c.Request.Context(), userID, cardID, commentID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, cardResponse(card))
}

func (h *CardHandler) AddChecklistItem(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	cardID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req ChecklistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request", "statusCode": http.StatusBadRequest})
		return
	}
	card, err := h.cards.AddChecklistItem(c.Request.Context(), userID, cardID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, cardResponse(card))
}

func (h *CardHandler) UpdateChecklistItem(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	cardID, ok := pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}
	var req UpdateChecklistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request", "statusCode": http.StatusBadRequest})
		return
	}
	card, err := h.cards.UpdateChecklistItem(c.Request.Context(), userID, cardID, itemID, service.UpdateChecklistItemParams{
		Text:        req.Text,
		IsCompleted: req.IsCompleted,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, cardResponse(card))
}

func (h *CardHandler) DeleteChecklistItem(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	cardID, ok := pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}
	card, err := h.cards.DeleteChecklistItem(c.Request.Context(), userID, cardID, itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, cardResponse(card))
}

func (h *CardHandler) ReorderChecklist(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	cardID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req ReorderChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request", "statusCode": http.StatusBadRequest})
		return
	}
	ids := make([]uuid.UUID, len(req.ItemIDs))
	for i, raw := range req.ItemIDs {
		ids[i] = uuid.MustParse(raw)
	}
	card, err := h.cards.ReorderChecklist(c.Request.Context(), userID, cardID, ids)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, cardResponse(card))
}

func (h *CardHandler) AddLabel(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	cardID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req CardLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request", "statusCode": http.StatusBadRequest})
		return
	}
	card, err := h.cards.AddLabel(c.Request.Context(), userID, cardID, req.Label)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, cardResponse(card))
}

func (h *CardHandler) RemoveLabel(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	cardID, ok := pathID(c, "id")
	if !ok {
		return
	}
	label := c.Param("label")
	card, err := h.cards.RemoveLabel(c.Request.Context(), userID, cardID, label)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, cardResponse(card))
}

// AddAttachment accepts either a multipart file upload or a JSON body with an
// external URL.
func (h *CardHandler) AddAttachment(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	cardID, ok := pathID(c, "id")
	if !ok {
		return
	}

	contentType := c.ContentType()
	if contentType == "application/json" {
		var req AttachmentURLRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request", "statusCode": http.StatusBadRequest})
			return
		}
		card, err := h.cards.AddAttachmentURL(c.Request.Context(), userID, cardID, req.URL, req.Filename)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusCreated, cardResponse(card))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No file uploaded", "statusCode": http.StatusBadRequest})
		return
	}
	if fileHeader.Size > maxAttachmentSize {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "File too large", "statusCode": http.StatusBadRequest})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to read file", "statusCode": http.StatusInternalServerError})
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxAttachmentSize))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to read file", "statusCode": http.StatusInternalServerError})
		return
	}

	card, err := h.cards.AddAttachment(c.Request.Context(), userID, cardID, service.AddAttachmentParams{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Data:        data,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, cardResponse(card))
}

func (h *CardHandler) RemoveAttachment(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	cardID, ok := pathID(c, "id")
	if !ok {
		return
	}
	attachmentID, ok := pathID(c, "attachmentId")
	if !ok {
		return
	}
	card, err := h.cards.RemoveAttachment(c.Request.Context(), userID, cardID, attachmentID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, cardResponse(card))
}
