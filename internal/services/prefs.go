package service

import (
	"context"

	"github.com/devanshgoyal/shopkart/internal/errors"
	"github.com/devanshgoyal/shopkart/internal/kv"
)

const defaultTheme = "light"

// PrefsService stores the theme preference as a bare string record.
type PrefsService struct {
	store kv.Store
}

func NewPrefsService(store kv.Store) *PrefsService {
	return &PrefsService{store: store}
}

func (s *PrefsService) Theme(ctx context.Context) (string, error) {
	theme, ok, err := s.store.Get(ctx, themeKey)
	if err != nil {
		return "", errors.StorageError("Failed to read theme").WithError(err)
	}

	if !ok || (theme != "light" && theme != "dark") {
		return defaultTheme, nil
	}

	return theme, nil
}

func (s *PrefsService) SetTheme(ctx context.Context, theme string) error {
	if theme != "light" && theme != "dark" {
		return errors.ValidationError("Theme must be light or dark")
	}

	if err := s.store.Set(ctx, themeKey, theme); err != nil {
		return errors.StorageError("Failed to store theme").WithError(err)
	}

	return nil
}
