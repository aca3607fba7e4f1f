package service

import (
	"fmt"

	unitdomain "github.com/smallbiznis/lightmeasure/internal/unit/domain"
)

// Service is stateless and safe for concurrent use.
type Service struct{}

func New() unitdomain.Converter {
	return &Service{}
}

func (s *Service) ToGrams(value float64, unit unitdomain.Code) (float64, error) {
	factor, err := factorOf(unit)
	if err != nil {
		return 0, err
	}
	return value * factor, nil
}

func (s *Service) FromGrams(grams float64, unit unitdomain.Code) (float64, error) {
	factor, err := factorOf(unit)
	if err != nil {
		return 0, err
	}
	return grams / factor, nil
}

// Convert returns value unchanged when from == to so identity never drifts.
func (s *Service) Convert(value float64, from, to unitdomain.Code) (float64, error) {
	if _, err := factorOf(from); err != nil {
		return 0, err
	}
	if from == to {
		return value, nil
	}
	grams, err := s.ToGrams(value, from)
	if err != nil {
		return 0, err
	}
	return s.FromGrams(grams, to)
}

func factorOf(unit unitdomain.Code) (float64, error) {
	info, ok := unitdomain.Lookup(unit)
	if !ok {
		return 0, fmt.Errorf("%w: %q", unitdomain.ErrInvalidUnit, string(unit))
	}
	return info.FactorToGrams, nil
}
