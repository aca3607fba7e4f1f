package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/smallbiznis/lightmeasure/internal/calculator/domain"
	"github.com/smallbiznis/lightmeasure/internal/calculator/format"
	"github.com/smallbiznis/lightmeasure/internal/config"
	"github.com/smallbiznis/lightmeasure/internal/observability/metrics"
	preferencedomain "github.com/smallbiznis/lightmeasure/internal/preference/domain"
	unitdomain "github.com/smallbiznis/lightmeasure/internal/unit/domain"
	"github.com/smallbiznis/lightmeasure/pkg/log/ctxlogger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log       *zap.Logger
	Repo      preferencedomain.Repository
	Converter unitdomain.Converter
	Exporter  domain.Exporter
	Settings  *config.SettingsHolder
	Metrics   *metrics.Metrics `optional:"true"`
}

// Service owns the preference state for the lifetime of the process.
// There is no locking: one caller at a time.
type Service struct {
	log       *zap.Logger
	repo      preferencedomain.Repository
	converter unitdomain.Converter
	exporter  domain.Exporter
	settings  *config.SettingsHolder
	metrics   *metrics.Metrics

	state preferencedomain.State
}

// New loads the persisted state. Loading never fails: anything unreadable
// falls back to defaults.
func New(p Params) domain.Service {
	settings := p.Settings
	if settings == nil {
		settings = config.NewStaticSettings(config.DefaultSettings())
	}
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}

	s := &Service{
		log:       log.Named("calculator.service"),
		repo:      p.Repo,
		converter: p.Converter,
		exporter:  p.Exporter,
		settings:  settings,
		metrics:   p.Metrics,
	}
	s.load(context.Background())
	return s
}

func (s *Service) load(ctx context.Context) {
	state, err := s.repo.Load(ctx)
	switch {
	case err == nil:
		s.state = state.Normalize()
	case errors.Is(err, preferencedomain.ErrNotFound):
		s.log.Debug("no saved state, starting with defaults")
		s.state = preferencedomain.DefaultState()
	default:
		s.log.Warn("state load failed, starting with defaults", zap.Error(err))
		s.state = preferencedomain.DefaultState()
	}

	if text := s.state.DefaultPrice; text != "" {
		if _, err := parseAmount(text); err != nil {
			s.log.Warn("saved rate is not a valid number", zap.String("rate", text))
		}
	}
	s.metrics.SetHistorySize(len(s.state.History))
}

func (s *Service) PriceFromWeight(ctx context.Context, weightText string, weightUnit unitdomain.Code) (*domain.PriceResult, error) {
	res, err := s.priceFromWeight(ctx, weightText, weightUnit)
	s.metrics.RecordOperation(metrics.OperationPriceFromWeight, outcomeOf(err))
	return res, err
}

func (s *Service) priceFromWeight(ctx context.Context, weightText string, weightUnit unitdomain.Code) (*domain.PriceResult, error) {
	rate, err := s.currentRate()
	if err != nil {
		return nil, err
	}

	weight, err := parseAmount(weightText)
	if err != nil {
		return nil, err
	}

	weightInBase, err := s.converter.Convert(weight, weightUnit, s.state.BaseUnit)
	if err != nil {
		return nil, err
	}

	symbol := s.settings.Get().CurrencySymbol
	price := weightInBase * rate
	text := format.PriceResult(symbol, price)

	s.state.PreferredUnit = weightUnit
	s.appendHistory(format.PriceHistory(weight, weightUnit, text))

	result := &domain.PriceResult{Price: price, Text: text}
	return result, s.persist(ctx)
}

func (s *Service) WeightFromPrice(ctx context.Context, priceText string, resultUnit unitdomain.Code) (*domain.WeightResult, error) {
	res, err := s.weightFromPrice(ctx, priceText, resultUnit)
	s.metrics.RecordOperation(metrics.OperationWeightFromPrice, outcomeOf(err))
	return res, err
}

func (s *Service) weightFromPrice(ctx context.Context, priceText string, resultUnit unitdomain.Code) (*domain.WeightResult, error) {
	rate, err := s.divisorRate()
	if err != nil {
		return nil, err
	}

	price, err := parseAmount(priceText)
	if err != nil {
		return nil, err
	}

	weight, err := s.converter.Convert(price/rate, s.state.BaseUnit, resultUnit)
	if err != nil {
		return nil, err
	}

	symbol := s.settings.Get().CurrencySymbol
	text := format.WeightResult(weight, resultUnit)

	s.state.PreferredUnit = resultUnit
	s.appendHistory(format.WeightHistory(symbol, price, text))

	result := &domain.WeightResult{Weight: weight, Unit: resultUnit, Text: text}
	return result, s.persist(ctx)
}

// Bulk is all-or-nothing: the first invalid line aborts the run and nothing
// is recorded.
func (s *Service) Bulk(ctx context.Context, lines []string, mode domain.BulkMode, unit unitdomain.Code) ([]domain.BulkResult, error) {
	results, err := s.bulk(ctx, lines, mode, unit)
	s.metrics.RecordOperation(metrics.OperationBulk, outcomeOf(err))
	if results != nil {
		s.metrics.RecordBulkItems(string(mode), len(results))
	}
	return results, err
}

func (s *Service) bulk(ctx context.Context, lines []string, mode domain.BulkMode, unit unitdomain.Code) ([]domain.BulkResult, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidMode, string(mode))
	}
	if !unit.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidUnit, string(unit))
	}

	var (
		rate float64
		err  error
	)
	if mode == domain.PriceToWeight {
		rate, err = s.divisorRate()
	} else {
		rate, err = s.currentRate()
	}
	if err != nil {
		return nil, err
	}

	values := nonBlank(lines)
	if len(values) == 0 {
		return nil, domain.ErrEmptyInput
	}

	symbol := s.settings.Get().CurrencySymbol
	base := s.state.BaseUnit
	results := make([]domain.BulkResult, 0, len(values))

	for _, line := range values {
		value, err := parseAmount(line)
		if err != nil {
			return nil, err
		}

		switch mode {
		case domain.WeightToPrice:
			weightInBase, err := s.converter.Convert(value, unit, base)
			if err != nil {
				return nil, err
			}
			results = append(results, domain.BulkResult{
				Input:  format.BulkWeightInput(value, unit),
				Result: format.Money(symbol, weightInBase*rate),
			})
		case domain.PriceToWeight:
			weight, err := s.converter.Convert(value/rate, base, unit)
			if err != nil {
				return nil, err
			}
			results = append(results, domain.BulkResult{
				Input:  format.BulkPriceInput(symbol, value),
				Result: format.Weight(weight, unit),
			})
		}
	}

	s.state.PreferredUnit = unit
	s.appendHistory(format.BulkHistory(len(results)))

	return results, s.persist(ctx)
}

// ExportBulk never touches the destination when results is empty.
func (s *Service) ExportBulk(ctx context.Context, results []domain.BulkResult, destination string) error {
	err := s.exportBulk(ctx, results, destination)
	s.metrics.RecordOperation(metrics.OperationExport, outcomeOf(err))
	return err
}

func (s *Service) exportBulk(ctx context.Context, results []domain.BulkResult, destination string) error {
	if len(results) == 0 {
		return domain.ErrEmptyResultSet
	}
	if err := s.exporter.Export(ctx, results, destination); err != nil {
		if errors.Is(err, domain.ErrIO) || errors.Is(err, domain.ErrEmptyResultSet) {
			return err
		}
		return fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	ctxlogger.WithContext(ctx, s.log).Info("bulk results exported",
		zap.String("destination", destination),
		zap.Int("rows", len(results)),
	)
	return nil
}

// ClearHistory empties memory before saving; a failed save leaves memory
// cleared and reports ErrPersistence.
func (s *Service) ClearHistory(ctx context.Context) error {
	s.state.History = []string{}
	err := s.persist(ctx)
	s.metrics.RecordOperation(metrics.OperationClearHistory, outcomeOf(err))
	return err
}

func (s *Service) SetRate(ctx context.Context, text string) error {
	err := s.setRate(ctx, text)
	s.metrics.RecordOperation(metrics.OperationPreferences, outcomeOf(err))
	return err
}

func (s *Service) setRate(ctx context.Context, text string) error {
	if strings.TrimSpace(text) != "" {
		if _, err := parseAmount(text); err != nil {
			return err
		}
	} else {
		text = ""
	}
	s.state.DefaultPrice = text
	return s.persist(ctx)
}

func (s *Service) SetBaseUnit(ctx context.Context, unit unitdomain.Code) error {
	err := s.setUnit(ctx, unit, &s.state.BaseUnit)
	s.metrics.RecordOperation(metrics.OperationPreferences, outcomeOf(err))
	return err
}

func (s *Service) SetPreferredUnit(ctx context.Context, unit unitdomain.Code) error {
	err := s.setUnit(ctx, unit, &s.state.PreferredUnit)
	s.metrics.RecordOperation(metrics.OperationPreferences, outcomeOf(err))
	return err
}

func (s *Service) setUnit(ctx context.Context, unit unitdomain.Code, field *unitdomain.Code) error {
	if !unit.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidUnit, string(unit))
	}
	*field = unit
	return s.persist(ctx)
}

// Rate returns the configured rate. Value is 0 when Text does not parse.
func (s *Service) Rate() domain.Rate {
	rate := domain.Rate{Text: s.state.DefaultPrice}
	if v, err := parseAmount(rate.Text); err == nil {
		rate.Value = v
	}
	return rate
}

func (s *Service) PreferredUnit() unitdomain.Code { return s.state.PreferredUnit }

func (s *Service) BaseUnit() unitdomain.Code { return s.state.BaseUnit }

// History returns a copy, oldest first.
func (s *Service) History() []string {
	return append([]string{}, s.state.History...)
}

func (s *Service) currentRate() (float64, error) {
	text := s.state.DefaultPrice
	if text == "" {
		return 0, domain.ErrMissingRate
	}
	rate, err := parseAmount(text)
	if err != nil {
		var numErr *domain.NumberError
		if errors.As(err, &numErr) {
			numErr.Reason = "configured rate: " + numErr.Reason
		}
		return 0, err
	}
	return rate, nil
}

// divisorRate is currentRate with a zero guard for price → weight.
func (s *Service) divisorRate() (float64, error) {
	rate, err := s.currentRate()
	if err != nil {
		return 0, err
	}
	if rate == 0 {
		return 0, &domain.NumberError{Input: s.state.DefaultPrice, Reason: "configured rate is zero"}
	}
	return rate, nil
}

func (s *Service) appendHistory(entry string) {
	s.state.History = append(s.state.History, entry)
	if limit := s.settings.Get().HistoryLimit; limit > 0 && len(s.state.History) > limit {
		s.state.History = append([]string{}, s.state.History[len(s.state.History)-limit:]...)
	}
}

func (s *Service) persist(ctx context.Context) error {
	err := s.repo.Save(ctx, s.state.Clone())
	s.metrics.RecordStateSave(err)
	s.metrics.SetHistorySize(len(s.state.History))
	if err != nil {
		ctxlogger.WithContext(ctx, s.log).Warn("state save failed", zap.Error(err))
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return nil
}

// parseAmount accepts finite, non-negative decimals. Negative and
// non-numeric input are rejected the same way. Hex floats are not decimals.
func parseAmount(raw string) (float64, error) {
	value := strings.TrimSpace(raw)
	if strings.ContainsAny(value, "xXpP_") {
		return 0, &domain.NumberError{Input: raw, Reason: "not a number"}
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, &domain.NumberError{Input: raw, Reason: "not a number"}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &domain.NumberError{Input: raw, Reason: "not finite"}
	}
	if v < 0 {
		return 0, &domain.NumberError{Input: raw, Reason: "negative"}
	}
	return v, nil
}

func nonBlank(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		for _, part := range strings.Split(line, "\n") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, domain.ErrPersistence):
		return metrics.OutcomePersistenceError
	case errors.Is(err, domain.ErrMissingRate):
		return metrics.OutcomeMissingRate
	case errors.Is(err, domain.ErrInvalidNumber):
		return metrics.OutcomeInvalidNumber
	case errors.Is(err, domain.ErrInvalidUnit), errors.Is(err, domain.ErrInvalidMode):
		return metrics.OutcomeInvalidUnit
	case errors.Is(err, domain.ErrEmptyInput):
		return metrics.OutcomeEmptyInput
	case errors.Is(err, domain.ErrEmptyResultSet):
		return metrics.OutcomeEmptyResultSet
	case errors.Is(err, domain.ErrIO):
		return metrics.OutcomeIOError
	default:
		return metrics.OutcomeUnknown
	}
}
