package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordOperationNormalizesOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(Config{ServiceName: "lm", Environment: "test"}, reg)
	require.NoError(t, err)

	m.RecordOperation(OperationBulk, OutcomeOK)
	m.RecordOperation(OperationBulk, " OK ")
	m.RecordOperation(OperationBulk, "customer-42")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.calculations.WithLabelValues(OperationBulk, OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.calculations.WithLabelValues(OperationBulk, OutcomeUnknown)))
}

func TestStateSavesAndHistoryGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(Config{}, reg)
	require.NoError(t, err)

	m.RecordStateSave(nil)
	m.RecordStateSave(errors.New("disk full"))
	m.RecordStateSave(nil)
	m.SetHistorySize(7)
	m.RecordBulkItems("weight_to_price", 3)
	m.RecordBulkItems("weight_to_price", 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.stateSaves.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.stateSaves.WithLabelValues(OutcomePersistenceError)))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.historySize))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.bulkItems.WithLabelValues("weight_to_price")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordOperation(OperationExport, OutcomeOK)
	m.RecordStateSave(nil)
	m.SetHistorySize(1)
	m.RecordBulkItems("price_to_weight", 1)
}

func TestDoubleRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(Config{}, reg)
	require.NoError(t, err)
	_, err = New(Config{}, reg)
	assert.Error(t, err)
}

func TestTextfileDump(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(Config{}, reg)
	require.NoError(t, err)
	m.RecordOperation(OperationPriceFromWeight, OutcomeOK)

	path := filepath.Join(t.TempDir(), "lightmeasure.prom")
	require.NoError(t, prometheus.WriteToTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `lightmeasure_operations_total{env="unknown",operation="price_from_weight",outcome="ok",service="lightmeasure"} 1`))
}
