package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskboard/internal/service"
)

// SharingHandler exposes board membership management.
type SharingHandler struct {
	members *service.MemberService
}

func NewSharingHandler(members *service.MemberService) *SharingHandler {
	return &SharingHandler{members: members}
}

type InviteRequest struct {
	Email    string `json:"email" binding:"omitempty,email"`
	Username string `json:"username"`
	Role     string `json:"role" binding:"omitempty,oneof=admin member viewer"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin member viewer"`
}

type MemberResponse struct {
	User    UserResponse `json:"user"`
	Role    string       `json:"role"`
	AddedAt time.Time    `json:"added_at"`
}

type BoardMembersResponse struct {
	Owner   *UserResponse    `json:"owner"`
	Members []MemberResponse `json:"members"`
}

// Invite godoc
// @Summary Invite a user to a board
// @Tags sharing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "board id"
// @Param request body InviteRequest true "invitee"
// @Success 201 {object} MemberResponse
// @Router /boards/{id}/members [post]
func (h *SharingHandler) Invite(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request", "statusCode": http.StatusBadRequest})
		return
	}
	member, err := h.members.Invite(c.Request.Context(), userID, boardID, service.InviteParams{
		Email:    req.Email,
		Username: req.Username,
		Role:     req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{
		"user_id":  member.UserID.String(),
		"role":     member.Role,
		"added_at": member.AddedAt,
	})
}

func (h *SharingHandler) List(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.members.List(c.Request.Context(), userID, boardID)
	if err != nil {
		respondError(c, err)
		return
	}
	response := BoardMembersResponse{Members: make([]MemberResponse, len(result.Members))}
	if result.Owner != nil {
		owner := userResponse(result.Owner)
		response.Owner = &owner
	}
	for i, m := range result.Members {
		response.Members[i] = MemberResponse{
			User:    userResponse(&m.User),
			Role:    m.Role,
			AddedAt: m.AddedAt,
		}
	}
	respond(c, http.StatusOK, response)
}

func (h *SharingHandler) UpdateRole(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id")
	if !ok {
		return
	}
	memberID, ok := pathID(c, "memberId")
	if !ok {
		return
	}
	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request", "statusCode": http.StatusBadRequest})
		return
	}
	member, err := h.members.UpdateRole(c.Request.Context(), userID, boardID, memberID, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{
		"user_id":  member.UserID.String(),
		"role":     member.Role,
		"added_at": member.AddedAt,
	})
}

func (h *SharingHandler) Remove(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id")
	if !ok {
		return
	}
	memberID, ok := pathID(c, "memberId")
	if !ok {
		return
	}
	if err := h.members.Remove(c.Request.Context(), userID, boardID, memberID); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Member removed")
}

// Leave removes the caller's own membership.
func (h *SharingHandler) Leave(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.members.Leave(c.Request.Context(), userID, boardID); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Left the board")
}

// SharedWithMe lists boards shared with the caller.
func (h *SharingHandler) SharedWithMe(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	boards, err := h.members.SharedWithMe(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	response := make([]BoardResponse, len(boards))
	for i := range boards {
		response[i] = boardResponse(&boards[i])
		response[i].IsShared = true
	}
	respond(c, http.StatusOK, response)
}
