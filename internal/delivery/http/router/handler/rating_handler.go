package handler

import (
	"log/slog"
	"net/http"

	"ratehub/internal/delivery/http/middleware"
	"ratehub/internal/delivery/http/response"
	"ratehub/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// RatingHandler holds dependencies for rating ledger handlers.
type RatingHandler struct {
	uc     usecase.RatingUsecase
	logger *slog.Logger
}

// NewRatingHandler is the constructor for RatingHandler, injected by Fx.
func NewRatingHandler(uc usecase.RatingUsecase, logger *slog.Logger) *RatingHandler {
	return &RatingHandler{
		uc:     uc,
		logger: logger,
	}
}

// Create records the authenticated actor's rating for a store.
func (h *RatingHandler) Create(c echo.Context) error {
	var req CreateRatingRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid rating input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	rating, err := h.uc.CreateRating(c.Request().Context(), &usecase.CreateRatingInput{
		StoreID: req.StoreID,
		Value:   req.Value,
		Comment: req.Comment,
	}, middleware.Actor(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toRatingResponse(rating), "Rating created successfully")
}

// Get returns a single rating with its rater and store references.
func (h *RatingHandler) Get(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	rating, err := h.uc.GetRating(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toRatingResponse(rating), "Rating retrieved successfully")
}

// List returns every rating, newest first.
func (h *RatingHandler) List(c echo.Context) error {
	ratings, err := h.uc.ListRatings(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toRatingResponses(ratings), "Ratings retrieved successfully")
}

// ListByStore returns a store's ratings, newest first.
func (h *RatingHandler) ListByStore(c echo.Context) error {
	storeID, err := parseUUIDParam(c, "storeId")
	if err != nil {
		return err
	}

	ratings, err := h.uc.ListRatingsByStore(c.Request().Context(), storeID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toRatingResponses(ratings), "Ratings retrieved successfully")
}

// Update applies a partial update to a rating and refreshes the store's average.
func (h *RatingHandler) Update(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req UpdateRatingRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid rating update input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	rating, err := h.uc.UpdateRating(c.Request().Context(), id, &usecase.UpdateRatingInput{
		Value:   req.Value,
		Comment: req.Comment,
	}, middleware.Actor(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toRatingResponse(rating), "Rating updated successfully")
}

// Delete removes a rating and refreshes the store's average.
func (h *RatingHandler) Delete(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.DeleteRating(c.Request().Context(), id, middleware.Actor(c)); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Rating deleted successfully")
}
