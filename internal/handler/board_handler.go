package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskboard/internal/model"
	"taskboard/internal/service"
)

type BoardHandler struct {
	boards *service.BoardService
}

func NewBoardHandler(boards *service.BoardService) *BoardHandler {
	return &BoardHandler{boards: boards}
}

type CreateBoardRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Background  string `json:"background"`
}

type UpdateBoardRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Background  *string `json:"background"`
}

type BoardResponse struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Background  string              `json:"background"`
	OwnerID     string              `json:"owner_id"`
	Members     []model.BoardMember `json:"members"`
	Labels      []model.Label       `json:"labels"`
	IsArchived  bool                `json:"is_archived"`
	ArchivedAt  *time.Time          `json:"archived_at,omitempty"`
	IsShared    bool                `json:"is_shared,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

func boardResponse(b *model.Board) BoardResponse {
	return BoardResponse{
		ID:          b.ID.String(),
		Title:       b.Title,
		Description: b.Description,
		Background:  b.Background,
		OwnerID:     b.OwnerID.String(),
		Members:     b.Members,
		Labels:      b.Labels,
		IsArchived:  b.IsArchived,
		ArchivedAt:  b.ArchivedAt,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// Create godoc
// @Summary Create a board
// @Tags boards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBoardRequest true "board"
// @Success 201 {object} BoardResponse
// @Router /boards [post]
func (h *BoardHandler) Create(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request", "statusCode": http.StatusBadRequest})
		return
	}
	board, err := h.boards.Create(c.Request.Context(), userID, service.CreateBoardParams{
		Title:       req.Title,
		Description: req.Description,
		Background:  req.Background,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, boardResponse(board))
}

// GetAll returns the principal's boards, own and shared.
func (h *BoardHandler) GetAll(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	summaries, err := h.boards.ListMine(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	response := make([]BoardResponse, len(summaries))
	for i, s := range summaries {
		response[i] = boardResponse(&s.Board)
		response[i].IsShared = s.IsShared
	}
	respond(c, http.StatusOK, response)
}

func (h *BoardHandler) GetArchived(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	boards, err := h.boards.ListArchived(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	response := make([]BoardResponse, len(boards))
	for i := range boards {
		response[i] = boardResponse(&boards[i])
	}
	respond(c, http.StatusOK, response)
}

func (h *BoardHandler) GetByID(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id")
	if !ok {
		return
	}
	board, err := h.boards.Get(c.Request.Context(), userID, boardID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, boardResponse(board))
}

func (h *BoardHandler) Update(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request", "statusCode": http.StatusBadRequest})
		return
	}
	board, err := h.boards.Update(c.Request.Context(), userID, boardID, service.UpdateBoardParams{
		Title:       req.Title,
		Description: req.Description,
		Background:  req.Background,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, boardResponse(board))
}

func (h *BoardHandler) Archive(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id")
	if !ok {
		return
	}
	board, err := h.boards.Archive(c.Request.Context(), userID, boardID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, boardResponse(board))
}

func (h *BoardHandler) Restore(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id")
	if !ok {
		return
	}
	board, err := h.boards.Restore(c.Request.Context(), userID, boardID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, boardResponse(board))
}

// Delete removes the board and everything under it.
func (h *BoardHandler) Delete(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.boards.Delete(c.Request.Context(), userID, boardID); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Board deleted")
}
