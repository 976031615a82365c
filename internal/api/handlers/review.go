package handlers

import (
	"log/slog"
	"net/http"

	"github.com/devanshgoyal/shopkart/internal/api/middleware"
	"github.com/devanshgoyal/shopkart/internal/errors"
	"github.com/devanshgoyal/shopkart/internal/models"
	service "github.com/devanshgoyal/shopkart/internal/services"
	"github.com/devanshgoyal/shopkart/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type ReviewHandler struct {
	reviewService *service.ReviewService
	userService   *service.UserService
	validator     *validator.Validate
}

func NewReviewHandler(reviewService *service.ReviewService, userService *service.UserService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		userService:   userService,
		validator:     validator.New(),
	}
}

func (h *ReviewHandler) CreateReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		var req models.CreateReviewRequest
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

		review, err := h.reviewService.Create(r.Context(), user, &req)
		if err != nil {
			logger.Warn("Review rejected", slog.String("productId", req.ProductID), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusCreated, review)
	}
}

func (h *ReviewHandler) ListProductReviews() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		if id == "" {
			response.Error(w, errors.BadRequestError("Product ID is required"))
			return
		}

		reviews, err := h.reviewService.ByProduct(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, reviews)
	}
}

func (h *ReviewHandler) ListMyReviews() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		reviews, err := h.reviewService.ByUser(r.Context(), claims.UserID)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, reviews)
	}
}

// DeleteReview is allowed for the review's author and for admins.
func (h *ReviewHandler) DeleteReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		id := r.PathValue("id")

		if id == "" {
			response.Error(w, errors.BadRequestError("Review ID is required"))
			return
		}

		review, err := h.reviewService.ByID(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}

		if review.UserID != claims.UserID && claims.Role != models.RoleAdmin {
			response.Error(w, errors.ForbiddenError("Not your review"))
			return
		}

		if err := h.reviewService.Delete(r.Context(), id); err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, map[string]bool{"deleted": true})
	}
}
