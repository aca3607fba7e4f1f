package domain

import (
	"context"
	"errors"
)

// Repository loads and saves the preference document.
type Repository interface {
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, state State) error
}

var (
	// ErrNotFound is returned by Load when nothing has been saved yet.
	ErrNotFound = errors.New("state_not_found")
	ErrCorrupt  = errors.New("state_corrupt")
)
