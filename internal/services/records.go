// Package service implements the storefront data layer: identity, catalog,
// cart, favorites, orders, reviews, support, and preferences, all persisted
// as JSON records in a shared key-value space and announced through the
// change hub.
package service

import (
	"context"
	"log/slog"

	"github.com/devanshgoyal/shopkart/internal/errors"
	"github.com/devanshgoyal/shopkart/internal/kv"
	"github.com/devanshgoyal/shopkart/internal/models"
)

// Persisted record keys. Every store exclusively owns its record; anything
// cross-store is resolved by id lookup at read time.
const (
	usersKey          = "users"
	sessionKey        = "user"
	sellerProductsKey = "seller_products"
	ordersKey         = "orders"
	reviewsKey        = "reviews"
	cartKey           = "cart"
	themeKey          = "theme"
	lastTicketKey     = "lastTicketAt"
)

func favoritesKey(id models.Identity) string {
	return "favorites:" + string(id)
}

// readList loads a list record, treating a corrupted record as empty. The
// decode failure is typed at the kv boundary but recovered here: a malformed
// record degrades to defaulted data, it never reaches a caller. Backend
// failures do propagate.
func readList[T any](ctx context.Context, store kv.Store, key string) ([]T, error) {
	list, err := kv.ReadList[T](ctx, store, key)
	if err != nil {
		if kv.IsUnmarshalError(err) {
			slog.Warn("corrupted record, substituting empty list", slog.String("key", key), slog.Any("error", err))

			return []T{}, nil
		}

		return nil, errors.StorageError("Failed to read record").WithError(err)
	}

	return list, nil
}

func writeList[T any](ctx context.Context, store kv.Store, key string, list []T) error {
	if err := kv.WriteList(ctx, store, key, list); err != nil {
		return errors.StorageError("Failed to write record").WithError(err)
	}

	return nil
}
