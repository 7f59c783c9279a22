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

// StoreHandler holds dependencies for store registry handlers.
type StoreHandler struct {
	uc     usecase.StoreUsecase
	logger *slog.Logger
}

// NewStoreHandler is the constructor for StoreHandler, injected by Fx.
func NewStoreHandler(uc usecase.StoreUsecase, logger *slog.Logger) *StoreHandler {
	return &StoreHandler{
		uc:     uc,
		logger: logger,
	}
}

// Create registers a new store owned by the authenticated actor.
func (h *StoreHandler) Create(c echo.Context) error {
	var req CreateStoreRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid store input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	store, err := h.uc.CreateStore(c.Request().Context(), &usecase.CreateStoreInput{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
	}, middleware.Actor(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toStoreResponse(store), "Store created successfully")
}

// Get returns a single store with its owner and derived average rating.
func (h *StoreHandler) Get(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	store, err := h.uc.GetStore(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toStoreResponse(store), "Store retrieved successfully")
}

// List returns stores. A store-owner actor sees only their own stores;
// everyone else, including anonymous callers, sees all of them.
func (h *StoreHandler) List(c echo.Context) error {
	stores, err := h.uc.ListStores(c.Request().Context(), middleware.Actor(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toStoreResponses(stores), "Stores retrieved successfully")
}

// Update applies a partial update to a store.
func (h *StoreHandler) Update(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req UpdateStoreRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid store update input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	store, err := h.uc.UpdateStore(c.Request().Context(), id, &usecase.UpdateStoreInput{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
	}, middleware.Actor(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toStoreResponse(store), "Store updated successfully")
}

// Delete removes a store together with all of its ratings.
func (h *StoreHandler) Delete(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.DeleteStore(c.Request().Context(), id, middleware.Actor(c)); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Store deleted successfully")
}
