package models

// Identity is the logical owner of user-scoped data: a registered user id,
// or "guest" for a browser that has not logged in. Favorites are keyed by
// identity, never by session.
type Identity string

const GuestIdentity Identity = "guest"

// IdentityFor maps a user id (possibly empty) to its identity.
func IdentityFor(userID string) Identity {
	if userID == "" {
		return GuestIdentity
	}

	return Identity(userID)
}

type ToggleFavoriteRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

type ToggleFavoriteResponse struct {
	List  []string `json:"list"`
	Added bool     `json:"added"`
}
