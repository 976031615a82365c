package service

import (
	"context"
	"log/slog"
	"slices"

	"github.com/devanshgoyal/shopkart/internal/events"
	"github.com/devanshgoyal/shopkart/internal/kv"
	"github.com/devanshgoyal/shopkart/internal/models"
)

// FavoritesService keeps one set of liked product ids per identity under
// "favorites:<id>". Identity is an explicit argument on every call; there is
// no hidden current-user state in this store. A guest set is unioned into the
// user's own set on login and then cleared, so the migration runs at most
// once per login.
type FavoritesService struct {
	store kv.Store
	hub   *events.Hub
}

func NewFavoritesService(store kv.Store, hub *events.Hub) *FavoritesService {
	s := &FavoritesService{store: store, hub: hub}

	// Login announcements drive the guest migration.
	hub.SubscribeIdentity(func(userID string) {
		if userID == "" {
			return
		}

		if err := s.MigrateGuest(context.Background(), userID); err != nil {
			slog.Error("guest favorites migration failed", slog.String("userId", userID), slog.Any("error", err))
		}
	})

	return s
}

func (s *FavoritesService) List(ctx context.Context, id models.Identity) ([]string, error) {
	return readList[string](ctx, s.store, favoritesKey(id))
}

func (s *FavoritesService) IsFavorite(ctx context.Context, id models.Identity, productID string) (bool, error) {
	list, err := s.List(ctx, id)
	if err != nil {
		return false, err
	}

	return slices.Contains(list, productID), nil
}

// Toggle flips membership of productID in the identity's set. A newly liked
// product is prepended, so the list reads most-recently-favorited first.
// Calling Toggle twice restores the original membership.
func (s *FavoritesService) Toggle(ctx context.Context, id models.Identity, productID string) (*models.ToggleFavoriteResponse, error) {
	list, err := s.List(ctx, id)
	if err != nil {
		return nil, err
	}

	added := false

	if i := slices.Index(list, productID); i >= 0 {
		list = slices.Delete(list, i, i+1)
	} else {
		list = append([]string{productID}, list...)
		added = true
	}

	if err := writeList(ctx, s.store, favoritesKey(id), list); err != nil {
		return nil, err
	}

	s.hub.Emit(events.TopicFavorites)

	return &models.ToggleFavoriteResponse{List: list, Added: added}, nil
}

// MigrateGuest unions the guest set into userID's set and empties the guest
// set. Idempotent: once the guest set is empty, repeat calls do nothing.
func (s *FavoritesService) MigrateGuest(ctx context.Context, userID string) error {
	guest, err := s.List(ctx, models.GuestIdentity)
	if err != nil {
		return err
	}

	if len(guest) == 0 {
		return nil
	}

	own, err := s.List(ctx, models.IdentityFor(userID))
	if err != nil {
		return err
	}

	merged := own

	for _, id := range guest {
		if !slices.Contains(merged, id) {
			merged = append(merged, id)
		}
	}

	if err := writeList(ctx, s.store, favoritesKey(models.IdentityFor(userID)), merged); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, favoritesKey(models.GuestIdentity)); err != nil {
		return err
	}

	s.hub.Emit(events.TopicFavorites)

	return nil
}

// Watch observes the identity's record for writes from elsewhere (another
// process on a shared backend) and returns the unsubscribe handle. Two
// sessions logged in as the same user converge through this.
func (s *FavoritesService) Watch(id models.Identity, fn func()) func() {
	return s.store.Watch(favoritesKey(id), fn)
}
