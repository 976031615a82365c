package handlers

import (
	"net/http"

	"github.com/devanshgoyal/shopkart/internal/api/middleware"
	"github.com/devanshgoyal/shopkart/internal/errors"
	"github.com/devanshgoyal/shopkart/internal/models"
	"github.com/devanshgoyal/shopkart/internal/utils"
	"github.com/devanshgoyal/shopkart/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := utils.DecodeJSONBody(r, dest); err != nil {
		response.Error(w, errors.BadRequestError("Invalid request body").WithError(err))
		return false
	}

	return true
}

func validateStruct(w http.ResponseWriter, validate *validator.Validate, data any) bool {
	if err := validate.Struct(data); err != nil {
		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			response.ValidationError(w, validationErrs)
			return false
		}

		response.Error(w, errors.ValidationError("Invalid request"))
		return false
	}

	return true
}

// requireClaims writes an unauthorized response when the request carries no
// authenticated claims.
func requireClaims(w http.ResponseWriter, r *http.Request) (*models.Claims, bool) {
	claims := middleware.ClaimsFromContext(r.Context())

	if claims == nil {
		response.Error(w, errors.UnauthorizedError("Authentication required"))
		return nil, false
	}

	return claims, true
}

// identityFrom resolves the favorites identity: the authenticated user id,
// or guest for anonymous requests.
func identityFrom(r *http.Request) models.Identity {
	if claims := middleware.ClaimsFromContext(r.Context()); claims != nil {
		return models.IdentityFor(claims.UserID)
	}

	return models.GuestIdentity
}
