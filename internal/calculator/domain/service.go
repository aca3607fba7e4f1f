package domain

import (
	"context"
	"errors"
	"fmt"

	unitdomain "github.com/smallbiznis/lightmeasure/internal/unit/domain"
)

// Service is the calculation engine. It is not safe for concurrent use;
// callers drive it from a single goroutine.
type Service interface {
	PriceFromWeight(ctx context.Context, weightText string, weightUnit unitdomain.Code) (*PriceResult, error)
	WeightFromPrice(ctx context.Context, priceText string, resultUnit unitdomain.Code) (*WeightResult, error)
	Bulk(ctx context.Context, lines []string, mode BulkMode, unit unitdomain.Code) ([]BulkResult, error)
	ExportBulk(ctx context.Context, results []BulkResult, destination string) error
	ClearHistory(ctx context.Context) error

	SetRate(ctx context.Context, text string) error
	SetBaseUnit(ctx context.Context, unit unitdomain.Code) error
	SetPreferredUnit(ctx context.Context, unit unitdomain.Code) error

	Rate() Rate
	PreferredUnit() unitdomain.Code
	BaseUnit() unitdomain.Code
	History() []string
}

// Exporter writes bulk results to a destination.
type Exporter interface {
	Export(ctx context.Context, results []BulkResult, destination string) error
}

var (
	ErrInvalidUnit    = unitdomain.ErrInvalidUnit
	ErrMissingRate    = errors.New("missing_rate")
	ErrInvalidNumber  = errors.New("invalid_number")
	ErrInvalidMode    = errors.New("invalid_bulk_mode")
	ErrEmptyInput     = errors.New("empty_input")
	ErrEmptyResultSet = errors.New("empty_result_set")
	ErrIO             = errors.New("io_error")
	ErrPersistence    = errors.New("persistence_error")
)

// NumberError reports the offending text of a rejected numeric input.
type NumberError struct {
	Input  string
	Reason string
}

func (e *NumberError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: %q", ErrInvalidNumber, e.Input)
	}
	return fmt.Sprintf("%s: %q: %s", ErrInvalidNumber, e.Input, e.Reason)
}

func (e *NumberError) Unwrap() error {
	return ErrInvalidNumber
}
