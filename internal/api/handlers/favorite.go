package handlers

import (
	"net/http"

	"github.com/devanshgoyal/shopkart/internal/models"
	service "github.com/devanshgoyal/shopkart/internal/services"
	"github.com/devanshgoyal/shopkart/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

// FavoriteHandler serves both guests and logged-in users; the identity is
// resolved per request from the (optional) auth claims.
type FavoriteHandler struct {
	favoritesService *service.FavoritesService
	validator        *validator.Validate
}

func NewFavoriteHandler(favoritesService *service.FavoritesService) *FavoriteHandler {
	return &FavoriteHandler{
		favoritesService: favoritesService,
		validator:        validator.New(),
	}
}

func (h *FavoriteHandler) ListFavorites() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := h.favoritesService.List(r.Context(), identityFrom(r))
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, list)
	}
}

func (h *FavoriteHandler) ToggleFavorite() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.ToggleFavoriteRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}

		if !validateStruct(w, h.validator, req) {
			return
		}

		result, err := h.favoritesService.Toggle(r.Context(), identityFrom(r), req.ProductID)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, result)
	}
}
