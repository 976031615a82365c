package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// UnmarshalError reports that a persisted record could not be decoded into
// its expected shape. It is an explicit, typed failure at the storage
// boundary; callers decide whether to surface it or substitute a zero value.
type UnmarshalError struct {
	Key string
	Err error
}

func (e *UnmarshalError) Error() string {
	return fmt.Sprintf("decoding record %q: %v", e.Key, e.Err)
}

func (e *UnmarshalError) Unwrap() error {
	return e.Err
}

func IsUnmarshalError(err error) bool {
	var ue *UnmarshalError

	return errors.As(err, &ue)
}

// ReadList decodes the JSON array stored under key. A missing or empty
// record decodes to an empty slice; a malformed one yields *UnmarshalError.
func ReadList[T any](ctx context.Context, s Store, key string) ([]T, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("reading record %q: %w", key, err)
	}

	if !ok || raw == "" {
		return []T{}, nil
	}

	var list []T
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, &UnmarshalError{Key: key, Err: err}
	}

	if list == nil {
		list = []T{}
	}

	return list, nil
}

// WriteList serializes list and overwrites the record under key. The write
// is all-or-nothing from the caller's perspective but not atomic with
// respect to concurrent writers.
func WriteList[T any](ctx context.Context, s Store, key string, list []T) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encoding record %q: %w", key, err)
	}

	return s.Set(ctx, key, string(data))
}

// ReadValue decodes a single-object record. Returns (nil, nil) when absent.
func ReadValue[T any](ctx context.Context, s Store, key string) (*T, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("reading record %q: %w", key, err)
	}

	if !ok || raw == "" {
		return nil, nil
	}

	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return nil, &UnmarshalError{Key: key, Err: err}
	}

	return &value, nil
}

func WriteValue[T any](ctx context.Context, s Store, key string, value *T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding record %q: %w", key, err)
	}

	return s.Set(ctx, key, string(data))
}
