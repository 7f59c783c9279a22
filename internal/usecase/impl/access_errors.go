package impl

import (
	"ratehub/internal/domain/access"
	domainerrors "ratehub/internal/domain/errors"
)

// denyError translates an authorization denial into the matching application error.
func denyError(decision access.Decision) error {
	if decision.Reason == access.ReasonNotOwner {
		return domainerrors.ErrNotOwner
	}

	return domainerrors.ErrInsufficientRole
}
