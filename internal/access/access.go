// Package access resolves whether a principal holds a capability against a
// board. All mutating use cases authorize here before touching the store.
package access

import (
	"github.com/google/uuid"

	"taskboard/internal/apperr"
	"taskboard/internal/model"
)

type Capability string

const (
	Read   Capability = "read"
	Write  Capability = "write"
	Manage Capability = "manage"
)

// grants is the capability table indexed by (role, capability).
var grants = map[string]map[Capability]bool{
	model.RoleAdmin: {
		Read:   true,
		Write:  true,
		Manage: true,
	},
	model.RoleMember: {
		Read:  true,
		Write: true,
	},
	model.RoleViewer: {
		Read: true,
	},
}

// Authorize checks capability for principal on board. The owner holds every
// capability unconditionally. A principal that is neither owner nor member
// is denied with the same permission error as an under-privileged member,
// regardless of the capability asked for.
func Authorize(board *model.Board, principal uuid.UUID, capability Capability) error {
	if board.OwnerID == principal {
		return nil
	}
	for _, m := range board.Members {
		if m.UserID == principal {
			if grants[m.Role][capability] {
				return nil
			}
			return apperr.Permission("you don't have permission to perform this action")
		}
	}
	return apperr.Permission("you don't have access to this board")
}

// RoleOf returns the principal's role on the board. The owner reports
// ok=true with an empty role since ownership is not a stored membership.
func RoleOf(board *model.Board, principal uuid.UUID) (role string, ok bool) {
	if board.OwnerID == principal {
		return "", true
	}
	for _, m := range board.Members {
		if m.UserID == principal {
			return m.Role, true
		}
	}
	return "", false
}
