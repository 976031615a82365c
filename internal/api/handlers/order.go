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

type OrderHandler struct {
	orderService *service.OrderService
	userService  *service.UserService
	validator    *validator.Validate
}

func NewOrderHandler(orderService *service.OrderService, userService *service.UserService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		userService:  userService,
		validator:    validator.New(),
	}
}

func (h *OrderHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		var req models.CheckoutRequest
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

		order, err := h.orderService.Checkout(r.Context(), user, &req)
		if err != nil {
			logger.Warn("Checkout failed", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Order placed", slog.String("orderId", order.ID), slog.Float64("total", order.Total))
		response.Success(w, http.StatusCreated, order)
	}
}

func (h *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		id := r.PathValue("id")

		if id == "" {
			response.Error(w, errors.BadRequestError("Order ID is required"))
			return
		}

		order, err := h.orderService.ByID(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}

		if order.UserID != claims.UserID && claims.Role == models.RoleBuyer {
			response.Error(w, errors.ForbiddenError("Not your order"))
			return
		}

		response.Success(w, http.StatusOK, order)
	}
}

func (h *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		orders, err := h.orderService.ByUser(r.Context(), claims.UserID)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, orders)
	}
}

// ListStoreOrders shows the seller every order containing at least one of
// their products.
func (h *OrderHandler) ListStoreOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		if claims.StoreID == "" {
			response.Error(w, errors.ForbiddenError("Only sellers have a store"))
			return
		}

		orders, err := h.orderService.ByStore(r.Context(), claims.StoreID)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, orders)
	}
}

func (h *OrderHandler) StoreRevenue() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		if claims.StoreID == "" {
			response.Error(w, errors.ForbiddenError("Only sellers have a store"))
			return
		}

		revenue, err := h.orderService.RevenueForStore(r.Context(), claims.StoreID)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, revenue)
	}
}

func (h *OrderHandler) UpdateOrderStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		if claims.Role != models.RoleSeller && claims.Role != models.RoleAdmin {
			response.Error(w, errors.ForbiddenError("Only sellers and admins can update order status"))
			return
		}

		id := r.PathValue("id")

		if id == "" {
			response.Error(w, errors.BadRequestError("Order ID is required"))
			return
		}

		var req models.UpdateOrderStatusRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}

		if !validateStruct(w, h.validator, req) {
			return
		}

		order, err := h.orderService.UpdateStatus(r.Context(), id, req.Status)
		if err != nil {
			logger.Warn("Status update rejected", slog.String("orderId", id), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Order status updated", slog.String("orderId", id), slog.String("status", string(req.Status)))
		response.Success(w, http.StatusOK, order)
	}
}

func (h *OrderHandler) DeleteOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		if claims.Role != models.RoleAdmin {
			response.Error(w, errors.ForbiddenError("Only admins can delete orders"))
			return
		}

		id := r.PathValue("id")

		if id == "" {
			response.Error(w, errors.BadRequestError("Order ID is required"))
			return
		}

		if err := h.orderService.Delete(r.Context(), id); err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, map[string]bool{"deleted": true})
	}
}
