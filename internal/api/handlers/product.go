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

type ProductHandler struct {
	catalogService *service.CatalogService
	validator      *validator.Validate
}

func NewProductHandler(catalogService *service.CatalogService) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
		validator:      validator.New(),
	}
}

func (h *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := h.catalogService.All(r.Context())
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, products)
	}
}

func (h *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		if id == "" {
			response.Error(w, errors.BadRequestError("Product ID is required"))
			return
		}

		product, err := h.catalogService.ByID(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

// ListStoreProducts returns the calling seller's own submissions.
func (h *ProductHandler) ListStoreProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		if claims.StoreID == "" {
			response.Error(w, errors.ForbiddenError("Only sellers have a store"))
			return
		}

		products, err := h.catalogService.ByStore(r.Context(), claims.StoreID)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, products)
	}
}

func (h *ProductHandler) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		if claims.Role != models.RoleSeller {
			response.Error(w, errors.ForbiddenError("Only sellers can create products"))
			return
		}

		var req models.CreateProductRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}

		if !validateStruct(w, h.validator, req) {
			return
		}

		product := models.Product{
			Name:          req.Name,
			Title:         req.Name,
			Price:         req.Price,
			OriginalPrice: req.OriginalPrice,
			Discount:      req.Discount,
			Category:      req.Category,
			Description:   req.Description,
			Image:         req.Image,
			Images:        req.Images,
			Quantity:      req.Quantity,
			InStock:       req.Quantity > 0,
			StoreID:       claims.StoreID,
		}

		if err := h.catalogService.Save(r.Context(), &product); err != nil {
			logger.Error("Failed to save product", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Product created", slog.String("productId", product.ID), slog.String("storeId", claims.StoreID))
		response.Success(w, http.StatusCreated, product)
	}
}

// DeleteProduct removes a seller listing: sellers may delete their own,
// admins any. Reviews and historical orders are left untouched.
func (h *ProductHandler) DeleteProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		id := r.PathValue("id")

		if id == "" {
			response.Error(w, errors.BadRequestError("Product ID is required"))
			return
		}

		if claims.Role != models.RoleAdmin {
			owned, err := h.catalogService.ByStore(r.Context(), claims.StoreID)
			if err != nil {
				response.Error(w, err)
				return
			}

			mine := false

			for _, p := range owned {
				if p.ID == id {
					mine = true

					break
				}
			}

			if !mine {
				response.Error(w, errors.ForbiddenError("Not your product"))
				return
			}
		}

		if err := h.catalogService.Delete(r.Context(), id); err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, map[string]bool{"deleted": true})
	}
}
