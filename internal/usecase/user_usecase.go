// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"ratehub/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new user.
// Role may be user or owner; administrator accounts are only created by an
// existing administrator through UpdateUser.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Address  *string
	Role     entity.Role
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// UpdateUserInput is a patch of user fields. Nil fields are left unchanged.
// Email and Role may only be patched by an administrator.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Address  *string
	Role     *entity.Role
}

// --- Output DTOs ---

// AuthOutput returns the authenticated user together with a fresh access token.
type AuthOutput struct {
	User  *entity.User
	Token string
}

// UserUsecase defines the identity operations: registration, credential
// verification and administrator-scoped user management.
type UserUsecase interface {
	// Register creates a new user with a freshly hashed credential and
	// returns it with an access token. Fails with ErrDuplicateEmail when the
	// email is already registered.
	Register(ctx context.Context, input *RegisterInput) (*AuthOutput, error)

	// Login verifies the credential and issues an access token. Unknown
	// email and wrong password fail with the identical ErrInvalidCredentials.
	Login(ctx context.Context, input *LoginInput) (*AuthOutput, error)

	// GetUser retrieves a user. Reading another user requires the admin role.
	GetUser(ctx context.Context, id uuid.UUID, actor *entity.User) (*entity.User, error)

	// ListUsers retrieves every user. Admin only.
	ListUsers(ctx context.Context, actor *entity.User) ([]*entity.User, error)

	// UpdateUser applies a patch. A user may patch their own name, address
	// and password; an admin may patch any field of any user.
	UpdateUser(ctx context.Context, id uuid.UUID, input *UpdateUserInput, actor *entity.User) (*entity.User, error)

	// DeleteUser removes a user. Admin only. The user's stores are deleted
	// with their ratings; ratings the user authored elsewhere are retained
	// with the rater reference cleared.
	DeleteUser(ctx context.Context, id uuid.UUID, actor *entity.User) error
}
