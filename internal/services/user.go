package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/devanshgoyal/shopkart/internal/config"
	"github.com/devanshgoyal/shopkart/internal/errors"
	"github.com/devanshgoyal/shopkart/internal/events"
	"github.com/devanshgoyal/shopkart/internal/kv"
	"github.com/devanshgoyal/shopkart/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// UserService is the identity store: the user ledger, the single active
// session record, and the login/register/logout lifecycle around them.
//
// Credentials are matched as exact plaintext (email, password) pairs. That is
// the specified contract of this demo system, a known weakness and not a
// design feature.
type UserService struct {
	store   kv.Store
	hub     *events.Hub
	cart    *CartService
	limiter kv.LoginRateLimiter
	jwtKey  []byte
	cfg     *config.Auth
}

func NewUserService(store kv.Store, hub *events.Hub, cart *CartService, limiter kv.LoginRateLimiter, jwtKey []byte, cfg *config.Auth) *UserService {
	return &UserService{
		store:   store,
		hub:     hub,
		cart:    cart,
		limiter: limiter,
		jwtKey:  jwtKey,
		cfg:     cfg,
	}
}

// Bootstrap seeds a default administrator on first run, if no admin exists.
func (s *UserService) Bootstrap(ctx context.Context) error {
	users, err := readList[models.User](ctx, s.store, usersKey)
	if err != nil {
		return err
	}

	for _, u := range users {
		if u.Role == models.RoleAdmin {
			return nil
		}
	}

	admin := models.User{
		ID:       "admin_001",
		Email:    s.cfg.AdminEmail,
		Password: s.cfg.AdminPassword,
		Name:     s.cfg.AdminName,
		Role:     models.RoleAdmin,
	}

	users = append(users, admin)

	if err := writeList(ctx, s.store, usersKey, users); err != nil {
		return err
	}

	slog.Info("bootstrapped default admin account", slog.String("email", admin.Email))

	return nil
}

func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	var remainingTries int

	if s.limiter != nil {
		allowed, remaining, retryAfter, err := s.limiter.CheckLoginRateLimit(ctx, req.Email)
		if err != nil {
			return nil, errors.ThirdPartyError("Rate limit check failed").WithError(err)
		}

		if !allowed {
			return &models.LoginResponse{
				Success:    false,
				Message:    "Too many login attempts. Please try again later.",
				RetryAfter: retryAfter,
			}, nil
		}

		remainingTries = remaining
	}

	users, err := readList[models.User](ctx, s.store, usersKey)
	if err != nil {
		return nil, err
	}

	var found *models.User

	for i := range users {
		if users[i].Email == req.Email && users[i].Password == req.Password {
			found = &users[i]

			break
		}
	}

	if found == nil {
		return &models.LoginResponse{
			Success:        false,
			Message:        "Invalid email or password",
			RemainingTries: remainingTries,
		}, nil
	}

	session := found.WithoutPassword()

	if err := kv.WriteValue(ctx, s.store, sessionKey, &session); err != nil {
		return nil, errors.StorageError("Failed to store session").WithError(err)
	}

	token, expiresIn, err := s.mintToken(&session)
	if err != nil {
		return nil, err
	}

	s.hub.EmitIdentity(session.ID)

	return &models.LoginResponse{
		Success:   true,
		Token:     token,
		ExpiresIn: expiresIn,
		User:      &session,
	}, nil
}

func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.LoginResponse, error) {
	users, err := readList[models.User](ctx, s.store, usersKey)
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		if u.Email == req.Email {
			return nil, errors.DuplicateEntryError("Email already registered")
		}
	}

	user := models.User{
		ID:       uuid.NewString(),
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
	}

	if req.Role == models.RoleSeller {
		user.StoreID = "store_" + uuid.NewString()
		user.StoreName = req.StoreName
	}

	users = append(users, user)

	if err := writeList(ctx, s.store, usersKey, users); err != nil {
		return nil, err
	}

	// Registration logs the new user in.
	session := user.WithoutPassword()

	if err := kv.WriteValue(ctx, s.store, sessionKey, &session); err != nil {
		return nil, errors.StorageError("Failed to store session").WithError(err)
	}

	token, expiresIn, err := s.mintToken(&session)
	if err != nil {
		return nil, err
	}

	s.hub.EmitIdentity(session.ID)

	return &models.LoginResponse{
		Success:   true,
		Token:     token,
		ExpiresIn: expiresIn,
		User:      &session,
	}, nil
}

// Logout clears the session and the active cart. Purging the user's orders
// from the shared ledger is a destructive demo policy and only happens when
// explicitly enabled in config.
func (s *UserService) Logout(ctx context.Context) error {
	session, err := s.CurrentUser(ctx)
	if err != nil {
		return err
	}

	if session != nil && s.cfg.PurgeOrdersOnLogout {
		orders, err := readList[models.Order](ctx, s.store, ordersKey)
		if err != nil {
			return err
		}

		kept := make([]models.Order, 0, len(orders))

		for _, o := range orders {
			if o.UserID != session.ID {
				kept = append(kept, o)
			}
		}

		if err := writeList(ctx, s.store, ordersKey, kept); err != nil {
			return err
		}
	}

	if err := s.store.Delete(ctx, sessionKey); err != nil {
		return errors.StorageError("Failed to clear session").WithError(err)
	}

	if err := s.cart.Clear(ctx); err != nil {
		return err
	}

	s.hub.Emit(events.TopicOrders)
	s.hub.Emit(events.TopicFavorites)
	s.hub.EmitIdentity("")

	return nil
}

// CurrentUser returns the active session record, or nil when logged out.
func (s *UserService) CurrentUser(ctx context.Context) (*models.User, error) {
	session, err := kv.ReadValue[models.User](ctx, s.store, sessionKey)
	if err != nil {
		if kv.IsUnmarshalError(err) {
			slog.Warn("corrupted session record, treating as logged out", slog.Any("error", err))

			return nil, nil
		}

		return nil, errors.StorageError("Failed to read session").WithError(err)
	}

	return session, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	users, err := readList[models.User](ctx, s.store, usersKey)
	if err != nil {
		return nil, err
	}

	for i := range users {
		if users[i].ID == id {
			user := users[i].WithoutPassword()

			return &user, nil
		}
	}

	return nil, errors.NotFoundError("User not found")
}

func (s *UserService) mintToken(user *models.User) (string, int, error) {
	claims := &models.Claims{
		UserID:  user.ID,
		Email:   user.Email,
		Role:    user.Role,
		StoreID: user.StoreID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(s.jwtKey)
	if err != nil {
		return "", 0, errors.InternalError("Failed to generate authentication token").WithError(err)
	}

	return tokenString, int(time.Until(claims.ExpiresAt.Time).Seconds()), nil
}
