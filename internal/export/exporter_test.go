package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smallbiznis/lightmeasure/internal/calculator/domain"
	"github.com/smallbiznis/lightmeasure/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var sampleRows = []domain.BulkResult{
	{Input: "1.0kg", Result: "₹10.00"},
	{Input: "2.5kg", Result: "₹25.00"},
}

func newTestExporter() *Exporter {
	return New(Params{
		Log:   zap.NewNop(),
		Clock: clock.NewFakeClock(time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)),
	})
}

func TestEncodeCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeCSV(&buf, sampleRows))
	assert.Equal(t, "input,result\r\n1.0kg,₹10.00\r\n2.5kg,₹25.00\r\n", buf.String())
}

func TestEncodeCSV_Quoting(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeCSV(&buf, []domain.BulkResult{{Input: "1,000.0g", Result: "₹1.00"}}))
	assert.Equal(t, "input,result\r\n\"1,000.0g\",₹1.00\r\n", buf.String())
}

func TestExport_CSVOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bulk.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale content that is longer than the export"), 0o644))

	require.NoError(t, newTestExporter().Export(context.Background(), sampleRows[:1], path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "input,result\r\n1.0kg,₹10.00\r\n", string(data))
}

func TestExport_PDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bulk.PDF")
	require.NoError(t, newTestExporter().Export(context.Background(), sampleRows, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestExport_Errors(t *testing.T) {
	ctx := context.Background()
	e := newTestExporter()

	missingDir := filepath.Join(t.TempDir(), "missing", "bulk.csv")
	assert.ErrorIs(t, e.Export(ctx, sampleRows, missingDir), domain.ErrIO)

	empty := filepath.Join(t.TempDir(), "empty.csv")
	assert.ErrorIs(t, e.Export(ctx, nil, empty), domain.ErrEmptyResultSet)
	_, err := os.Stat(empty)
	assert.True(t, os.IsNotExist(err))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, FormatPDF, Format("report.pdf"))
	assert.Equal(t, FormatPDF, Format("REPORT.Pdf"))
	assert.Equal(t, FormatCSV, Format("report.csv"))
	assert.Equal(t, FormatCSV, Format("report"))
}
