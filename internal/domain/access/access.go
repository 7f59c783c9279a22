// Package access implements the authorization rules of the system as a pure
// decision function over (role, ownership fact, action). It holds no state
// and performs no I/O; callers supply the ownership facts of the target.
package access

import (
	"ratehub/internal/domain/entity"

	"github.com/google/uuid"
)

// Action identifies an operation subject to authorization.
type Action string

const (
	ActionUserList   Action = "user.list"
	ActionUserRead   Action = "user.read"
	ActionUserUpdate Action = "user.update"
	ActionUserDelete Action = "user.delete"

	ActionStoreCreate Action = "store.create"
	ActionStoreUpdate Action = "store.update"
	ActionStoreDelete Action = "store.delete"

	ActionRatingUpdate Action = "rating.update"
	ActionRatingDelete Action = "rating.delete"
)

// DenyReason classifies why an action was denied.
type DenyReason string

const (
	// ReasonInsufficientRole means the actor's role does not permit the action.
	ReasonInsufficientRole DenyReason = "insufficient_role"
	// ReasonNotOwner means the action is reserved for the target's owner or author.
	ReasonNotOwner DenyReason = "not_owner"
)

// Target carries the ownership facts needed to decide an action.
// Only the fields relevant to the action are consulted.
type Target struct {
	UserID       uuid.UUID  // Subject user for user.* actions.
	StoreOwnerID uuid.UUID  // Owning user for store mutations.
	RaterID      *uuid.UUID // Authoring user for rating mutations, nil once anonymized.
}

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  DenyReason // Set only when Allowed is false.
}

// Denied reports whether the decision denies the action.
func (d Decision) Denied() bool {
	return !d.Allowed
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason DenyReason) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Authorize evaluates the access rules in order:
//
//  1. An admin is allowed every action.
//  2. Store mutation is allowed only for the store's owner.
//  3. Store creation is allowed only for owners (the created store's owner
//     is forced to the actor by the store registry, never taken from input).
//  4. Rating mutation is allowed only for the rating's author.
//  5. Reading or mutating another user, and listing users, is admin only;
//     deleting any user, including oneself, is admin only.
//
// Anything not matched by an allow rule is denied.
func Authorize(actor *entity.User, action Action, target Target) Decision {
	if actor == nil {
		return deny(ReasonInsufficientRole)
	}
	if actor.Role == entity.RoleAdmin {
		return allow()
	}

	switch action {
	case ActionStoreCreate:
		if actor.Role == entity.RoleOwner {
			return allow()
		}

		return deny(ReasonInsufficientRole)

	case ActionStoreUpdate, ActionStoreDelete:
		if actor.ID == target.StoreOwnerID {
			return allow()
		}

		return deny(ReasonNotOwner)

	case ActionRatingUpdate, ActionRatingDelete:
		if target.RaterID != nil && actor.ID == *target.RaterID {
			return allow()
		}

		return deny(ReasonNotOwner)

	case ActionUserRead, ActionUserUpdate:
		if actor.ID == target.UserID {
			return allow()
		}

		return deny(ReasonInsufficientRole)

	case ActionUserList, ActionUserDelete:
		return deny(ReasonInsufficientRole)

	default:
		return deny(ReasonInsufficientRole)
	}
}
