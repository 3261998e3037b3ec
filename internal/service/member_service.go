package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"taskboard/internal/access"
	"taskboard/internal/apperr"
	"taskboard/internal/model"
)

// MemberService manages board memberships. Every mutation here is owner-only;
// admins manage content, not people.
type MemberService struct {
	boards   BoardStore
	users    UserStore
	recorder *Recorder
	logger   zerolog.Logger
}

func NewMemberService(boards BoardStore, users UserStore, recorder *Recorder, logger zerolog.Logger) *MemberService {
	return &MemberService{boards: boards, users: users, recorder: recorder, logger: logger}
}

// InviteParams identifies the invitee by email or username; email wins when
// both are present. An empty role defaults to member.
type InviteParams struct {
	Email    string
	Username string
	Role     string
}

// MemberInfo is a membership entry with the user record resolved.
type MemberInfo struct {
	User    model.User
	Role    string
	AddedAt time.Time
}

// BoardMembers is the full people view of a board.
type BoardMembers struct {
	Owner   *model.User
	Members []MemberInfo
}

func (s *MemberService) Invite(ctx context.Context, principal, boardID uuid.UUID, p InviteParams) (*model.BoardMember, error) {
	role := p.Role
	if role == "" {
		role = model.RoleMember
	}
	if !model.ValidRole(role) {
		return nil, apperr.Validation("invalid role")
	}
	if p.Email == "" && p.Username == "" {
		return nil, apperr.Validation("email or username is required")
	}
	board, err := loadBoard(ctx, s.boards, boardID)
	if err != nil {
		return nil, err
	}
	if board.OwnerID != principal {
		return nil, apperr.Permission("only the owner can invite members")
	}
	var user *model.User
	if p.Email != "" {
		user, err = s.users.FindByEmail(ctx, p.Email)
	} else {
		user, err = s.users.FindByUsername(ctx, p.Username)
	}
	if err != nil {
		return nil, apperr.Internal("failed to look up user", err)
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}
	if user.ID == board.OwnerID {
		return nil, apperr.Validation("cannot add the owner as a member")
	}
	if board.MemberIndex(user.ID) >= 0 {
		return nil, apperr.Conflict("user is already a member of this board")
	}
	member := model.BoardMember{UserID: user.ID, Role: role, AddedAt: time.Now()}
	board.Members = append(board.Members, member)
	if err := s.boards.Update(ctx, board); err != nil {
		return nil, apperr.Internal("failed to add member", err)
	}
	// Two concurrent invites can both pass the pre-check; re-read and keep
	// only the first entry if the membership was written twice.
	fresh, err := s.boards.GetByID(ctx, board.ID)
	if err == nil && fresh != nil {
		var count int
		deduped := fresh.Members[:0]
		for _, m := range fresh.Members {
			if m.UserID == user.ID {
				count++
				if count > 1 {
					continue
				}
			}
			deduped = append(deduped, m)
		}
		if count > 1 {
			fresh.Members = deduped
			if err := s.boards.Update(ctx, fresh); err != nil {
				s.logger.Error().
					Err(err).
					Str("board_id", board.ID.String()).
					Msg("failed to deduplicate membership")
			}
			return nil, apperr.Conflict("user is already a member of this board")
		}
	}
	s.recorder.Record(ctx, board.ID, principal, model.ActionMemberAdded, model.TargetMember, user.ID, user.Name, map[string]any{"role": role})
	return &member, nil
}

func (s *MemberService) Remove(ctx context.Context, principal, boardID, memberID uuid.UUID) error {
	board, err := loadBoard(ctx, s.boards, boardID)
	if err != nil {
		return err
	}
	if board.OwnerID != principal {
		return apperr.Permission("only the owner can remove members")
	}
	idx := board.MemberIndex(memberID)
	if idx < 0 {
		return apperr.NotFound("member not found on this board")
	}
	board.Members = append(board.Members[:idx], board.Members[idx+1:]...)
	if err := s.boards.Update(ctx, board); err != nil {
		return apperr.Internal("failed to remove member", err)
	}
	name := "unknown"
	if user, err := s.users.GetByID(ctx, memberID); err == nil && user != nil {
		name = user.Name
	}
	s.recorder.Record(ctx, board.ID, principal, model.ActionMemberRemoved, model.TargetMember, memberID, name, nil)
	return nil
}

func (s *MemberService) UpdateRole(ctx context.Context, principal, boardID, memberID uuid.UUID, role string) (*model.BoardMember, error) {
	if !model.ValidRole(role) {
		return nil, apperr.Validation("invalid role")
	}
	board, err := loadBoard(ctx, s.boards, boardID)
	if err != nil {
		return nil, err
	}
	if board.OwnerID != principal {
		return nil, apperr.Permission("only the owner can change member roles")
	}
	idx := board.MemberIndex(memberID)
	if idx < 0 {
		return nil, apperr.NotFound("member not found on this board")
	}
	board.Members[idx].Role = role
	if err := s.boards.Update(ctx, board); err != nil {
		return nil, apperr.Internal("failed to update member role", err)
	}
	member := board.Members[idx]
	return &member, nil
}

// List returns the owner and members with their user records resolved.
// Memberships pointing at deleted users are skipped.
func (s *MemberService) List(ctx context.Context, principal, boardID uuid.UUID) (*BoardMembers, error) {
	board, err := authorizeBoard(ctx, s.boards, boardID, principal, access.Read)
	if err != nil {
		return nil, err
	}
	result := &BoardMembers{Members: make([]MemberInfo, 0, len(board.Members))}
	owner, err := s.users.GetByID(ctx, board.OwnerID)
	if err != nil {
		return nil, apperr.Internal("failed to resolve owner", err)
	}
	result.Owner = owner
	for _, m := range board.Members {
		user, err := s.users.GetByID(ctx, m.UserID)
		if err != nil {
			return nil, apperr.Internal("failed to resolve member", err)
		}
		if user == nil {
			continue
		}
		result.Members = append(result.Members, MemberInfo{User: *user, Role: m.Role, AddedAt: m.AddedAt})
	}
	return result, nil
}

// Leave removes the principal's own membership. The owner cannot leave; they
// must delete or transfer the board instead.
func (s *MemberService) Leave(ctx context.Context, principal, boardID uuid.UUID) error {
	board, err := loadBoard(ctx, s.boards, boardID)
	if err != nil {
		return err
	}
	if board.OwnerID == principal {
		return apperr.Validation("owner cannot leave the board")
	}
	idx := board.MemberIndex(principal)
	if idx < 0 {
		return apperr.Validation("you are not a member of this board")
	}
	board.Members = append(board.Members[:idx], board.Members[idx+1:]...)
	if err := s.boards.Update(ctx, board); err != nil {
		return apperr.Internal("failed to leave board", err)
	}
	name := "unknown"
	if user, err := s.users.GetByID(ctx, principal); err == nil && user != nil {
		name = user.Name
	}
	s.recorder.Record(ctx, board.ID, principal, model.ActionMemberRemoved, model.TargetMember, principal, name, map[string]any{"action": "left"})
	return nil
}

// SharedWithMe lists live boards where the principal is a member.
func (s *MemberService) SharedWithMe(ctx context.Context, principal uuid.UUID) ([]model.Board, error) {
	boards, err := s.boards.GetSharedWith(ctx, principal)
	if err != nil {
		return nil, apperr.Internal("failed to list shared boards", err)
	}
	return boards, nil
}
