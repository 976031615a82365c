package handlers

import (
	"net/http"

	"github.com/devanshgoyal/shopkart/internal/models"
	service "github.com/devanshgoyal/shopkart/internal/services"
	"github.com/devanshgoyal/shopkart/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type SupportHandler struct {
	supportService *service.SupportService
	userService    *service.UserService
	validator      *validator.Validate
}

func NewSupportHandler(supportService *service.SupportService, userService *service.UserService) *SupportHandler {
	return &SupportHandler{
		supportService: supportService,
		userService:    userService,
		validator:      validator.New(),
	}
}

func (h *SupportHandler) SubmitTicket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		var req models.TicketRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}

		if !validateStruct(w, h.validator, req) {
			return
		}

		user, err := h.userService.GetUserByID(r.Context(), claims.UserID)
		if err != nil {
			response.Error(w, err)
			return
		}

		result, err := h.supportService.Submit(r.Context(), user, &req)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, result)
	}
}
