package metrics

import (
	"context"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics registry.
type Config struct {
	ServiceName string
	Environment string
	// Textfile, when set, receives a node_exporter textfile dump on shutdown.
	Textfile string
}

const (
	OperationPriceFromWeight = "price_from_weight"
	OperationWeightFromPrice = "weight_from_price"
	OperationBulk            = "bulk"
	OperationExport          = "export"
	OperationClearHistory    = "clear_history"
	OperationPreferences     = "preferences"
)

const (
	OutcomeOK               = "ok"
	OutcomeMissingRate      = "missing_rate"
	OutcomeInvalidNumber    = "invalid_number"
	OutcomeInvalidUnit      = "invalid_unit"
	OutcomeEmptyInput       = "empty_input"
	OutcomeEmptyResultSet   = "empty_result_set"
	OutcomeIOError          = "io_error"
	OutcomePersistenceError = "persistence_error"
	OutcomeUnknown          = "unknown"
)

// Metrics exposes calculator instruments.
type Metrics struct {
	calculations *prometheus.CounterVec
	bulkItems    *prometheus.CounterVec
	stateSaves   *prometheus.CounterVec
	historySize  prometheus.Gauge
}

// NewRegistry returns an isolated registry so tests and the CLI never share globals.
func NewRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

// New registers the calculator instruments on registerer.
func New(cfg Config, registerer prometheus.Registerer) (*Metrics, error) {
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "lightmeasure"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	m := &Metrics{
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "lightmeasure_operations_total",
			Help:        "Engine operations by name and outcome.",
			ConstLabels: constLabels,
		}, []string{"operation", "outcome"}),
		bulkItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "lightmeasure_bulk_items_total",
			Help:        "Lines processed by successful bulk runs.",
			ConstLabels: constLabels,
		}, []string{"mode"}),
		stateSaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "lightmeasure_state_saves_total",
			Help:        "Preference state saves by outcome.",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		historySize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "lightmeasure_history_entries",
			Help:        "History entries currently held in memory.",
			ConstLabels: constLabels,
		}),
	}

	for _, c := range []prometheus.Collector{m.calculations, m.bulkItems, m.stateSaves, m.historySize} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RecordOperation counts one engine call.
func (m *Metrics) RecordOperation(operation, outcome string) {
	if m == nil {
		return
	}
	m.calculations.WithLabelValues(operation, normalizeOutcome(outcome)).Inc()
}

func (m *Metrics) RecordBulkItems(mode string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.bulkItems.WithLabelValues(strings.TrimSpace(mode)).Add(float64(n))
}

func (m *Metrics) RecordStateSave(err error) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomePersistenceError
	}
	m.stateSaves.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SetHistorySize(n int) {
	if m == nil {
		return
	}
	m.historySize.Set(float64(n))
}

var knownOutcomes = map[string]struct{}{
	OutcomeOK:               {},
	OutcomeMissingRate:      {},
	OutcomeInvalidNumber:    {},
	OutcomeInvalidUnit:      {},
	OutcomeEmptyInput:       {},
	OutcomeEmptyResultSet:   {},
	OutcomeIOError:          {},
	OutcomePersistenceError: {},
}

// normalizeOutcome keeps label cardinality bounded.
func normalizeOutcome(outcome string) string {
	outcome = strings.ToLower(strings.TrimSpace(outcome))
	if _, ok := knownOutcomes[outcome]; ok {
		return outcome
	}
	return OutcomeUnknown
}

// RegisterTextfileDump writes the registry to cfg.Textfile when the app stops.
func RegisterTextfileDump(lc fx.Lifecycle, cfg Config, registry *prometheus.Registry, log *zap.Logger) {
	path := strings.TrimSpace(cfg.Textfile)
	if path == "" || lc == nil {
		return
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			if err := prometheus.WriteToTextfile(path, registry); err != nil {
				if log != nil {
					log.Warn("metrics textfile write failed", zap.String("path", path), zap.Error(err))
				}
			}
			return nil
		},
	})
}
