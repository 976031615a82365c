package handlers

import (
	"net/http"

	"github.com/devanshgoyal/shopkart/internal/models"
	service "github.com/devanshgoyal/shopkart/internal/services"
	"github.com/devanshgoyal/shopkart/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type PrefsHandler struct {
	prefsService *service.PrefsService
	validator    *validator.Validate
}

func NewPrefsHandler(prefsService *service.PrefsService) *PrefsHandler {
	return &PrefsHandler{
		prefsService: prefsService,
		validator:    validator.New(),
	}
}

func (h *PrefsHandler) GetTheme() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		theme, err := h.prefsService.Theme(r.Context())
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.ThemePreference{Theme: theme})
	}
}

func (h *PrefsHandler) SetTheme() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.ThemePreference
		if !decodeJSONBody(w, r, &req) {
			return
		}

		if !validateStruct(w, h.validator, req) {
			return
		}

		if err := h.prefsService.SetTheme(r.Context(), req.Theme); err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, req)
	}
}
