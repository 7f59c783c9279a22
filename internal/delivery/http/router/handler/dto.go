package handler

import (
	"time"

	"ratehub/internal/domain/entity"
	"ratehub/internal/usecase"

	"github.com/google/uuid"
)

// --- Request DTOs ---

// RegisterRequest is the payload for POST /auth/register.
// Role defaults to "user"; administrator accounts cannot be self-registered.
type RegisterRequest struct {
	Name     string  `json:"name" validate:"required,min=2,max=100"`
	Email    string  `json:"email" validate:"required,email,max=255"`
	Password string  `json:"password" validate:"required"`
	Address  *string `json:"address" validate:"omitempty,max=400"`
	Role     string  `json:"role" validate:"omitempty,oneof=user owner"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest is the patch payload for PUT /users/:id.
// Absent fields are left unchanged.
type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=100"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Password *string `json:"password"`
	Address  *string `json:"address" validate:"omitempty,max=400"`
	Role     *string `json:"role" validate:"omitempty,oneof=user owner admin"`
}

// CreateStoreRequest is the payload for POST /stores. The owner is always
// the authenticated actor; there is no owner field to supply.
type CreateStoreRequest struct {
	Name    string  `json:"name" validate:"required,min=2,max=100"`
	Email   *string `json:"email" validate:"omitempty,email,max=255"`
	Address *string `json:"address" validate:"omitempty,max=400"`
}

// UpdateStoreRequest is the patch payload for PUT /stores/:id.
type UpdateStoreRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=2,max=100"`
	Email   *string `json:"email" validate:"omitempty,email,max=255"`
	Address *string `json:"address" validate:"omitempty,max=400"`
}

// CreateRatingRequest is the payload for POST /ratings.
type CreateRatingRequest struct {
	StoreID uuid.UUID `json:"storeId" validate:"required"`
	Value   int       `json:"value" validate:"required,min=1,max=5"`
	Comment *string   `json:"comment" validate:"omitempty,max=1000"`
}

// UpdateRatingRequest is the patch payload for PUT /ratings/:id.
type UpdateRatingRequest struct {
	Value   *int    `json:"value" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,max=1000"`
}

// --- Response DTOs ---

// UserResponse is the outward representation of a user. It deliberately has
// no field for the password hash.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Address   *string   `json:"address,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AuthResponse carries a fresh access token together with the user it
// belongs to. Returned by register and login.
type AuthResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// StoreResponse is the outward representation of a store, including its
// derived average rating (null while the store has no ratings).
type StoreResponse struct {
	ID            uuid.UUID     `json:"id"`
	Name          string        `json:"name"`
	Email         *string       `json:"email,omitempty"`
	Address       *string       `json:"address,omitempty"`
	AverageRating *float64      `json:"averageRating"`
	OwnerID       uuid.UUID     `json:"ownerId"`
	Owner         *UserResponse `json:"owner,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// RatingResponse is the outward representation of a rating. RaterID and
// Rater are null once the authoring user has been deleted.
type RatingResponse struct {
	ID        uuid.UUID      `json:"id"`
	RaterID   *uuid.UUID     `json:"raterId"`
	StoreID   uuid.UUID      `json:"storeId"`
	Value     int            `json:"value"`
	Comment   *string        `json:"comment,omitempty"`
	Rater     *UserResponse  `json:"rater,omitempty"`
	Store     *StoreResponse `json:"store,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// --- Mappers ---

func toUserResponse(user *entity.User) *UserResponse {
	if user == nil {
		return nil
	}

	return &UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Address:   user.Address,
		Role:      user.Role.String(),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func toUserResponses(users []*entity.User) []*UserResponse {
	responses := make([]*UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, toUserResponse(user))
	}

	return responses
}

func toAuthResponse(output *usecase.AuthOutput) *AuthResponse {
	return &AuthResponse{
		Token: output.Token,
		User:  toUserResponse(output.User),
	}
}

func toStoreResponse(store *entity.Store) *StoreResponse {
	if store == nil {
		return nil
	}

	return &StoreResponse{
		ID:            store.ID,
		Name:          store.Name,
		Email:         store.Email,
		Address:       store.Address,
		AverageRating: store.AverageRating,
		OwnerID:       store.OwnerID,
		Owner:         toUserResponse(store.Owner),
		CreatedAt:     store.CreatedAt,
		UpdatedAt:     store.UpdatedAt,
	}
}

func toStoreResponses(stores []*entity.Store) []*StoreResponse {
	responses := make([]*StoreResponse, 0, len(stores))
	for _, store := range stores {
		responses = append(responses, toStoreResponse(store))
	}

	return responses
}

func toRatingResponse(rating *entity.Rating) *RatingResponse {
	if rating == nil {
		return nil
	}

	return &RatingResponse{
		ID:        rating.ID,
		RaterID:   rating.RaterID,
		StoreID:   rating.StoreID,
		Value:     rating.Value,
		Comment:   rating.Comment,
		Rater:     toUserResponse(rating.Rater),
		Store:     toStoreResponse(rating.Store),
		CreatedAt: rating.CreatedAt,
		UpdatedAt: rating.UpdatedAt,
	}
}

func toRatingResponses(ratings []*entity.Rating) []*RatingResponse {
	responses := make([]*RatingResponse, 0, len(ratings))
	for _, rating := range ratings {
		responses = append(responses, toRatingResponse(rating))
	}

	return responses
}
