// Package export writes bulk calculation results to disk.
package export

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/smallbiznis/lightmeasure/internal/calculator/domain"
	"github.com/smallbiznis/lightmeasure/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	Clock clock.Clock `optional:"true"`
}

// Exporter picks the file format from the destination extension: ".pdf"
// renders a report, anything else is CSV.
type Exporter struct {
	log   *zap.Logger
	clock clock.Clock
}

func New(p Params) *Exporter {
	clk := p.Clock
	if clk == nil {
		clk = clock.New()
	}
	return &Exporter{
		log:   p.Log.Named("export"),
		clock: clk,
	}
}

// NewExporter exposes the Exporter to the calculator.
func NewExporter(e *Exporter) domain.Exporter {
	return e
}

func (e *Exporter) Export(ctx context.Context, results []domain.BulkResult, destination string) error {
	if len(results) == 0 {
		return domain.ErrEmptyResultSet
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var err error
	switch Format(destination) {
	case FormatPDF:
		err = WritePDF(destination, results, e.clock.Now())
	default:
		err = WriteCSV(destination, results)
	}
	if err != nil {
		e.log.Warn("export failed", zap.String("destination", destination), zap.Error(err))
		return fmt.Errorf("%w: %w", domain.ErrIO, err)
	}

	e.log.Debug("export written",
		zap.String("destination", destination),
		zap.String("format", Format(destination)),
		zap.Int("rows", len(results)),
	)
	return nil
}

const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

func Format(destination string) string {
	if strings.EqualFold(filepath.Ext(destination), ".pdf") {
		return FormatPDF
	}
	return FormatCSV
}
