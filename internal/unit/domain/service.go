package domain

import "errors"

// Converter converts quantities between mass units through grams.
type Converter interface {
	ToGrams(value float64, unit Code) (float64, error)
	FromGrams(grams float64, unit Code) (float64, error)
	Convert(value float64, from, to Code) (float64, error)
}

var (
	ErrInvalidUnit = errors.New("invalid_unit")
)
