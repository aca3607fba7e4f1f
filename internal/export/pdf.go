package export

import (
	"fmt"
	"os"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/smallbiznis/lightmeasure/internal/calculator/domain"
)

// RenderPDF lays out results as a two column table.
func RenderPDF(results []domain.BulkResult, generatedAt time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(20,
		text.NewCol(8, "Bulk calculation", props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		col.New(4).Add(
			text.New(generatedAt.UTC().Format(time.RFC3339), props.Text{Size: 8, Align: align.Right}),
			text.New(fmt.Sprintf("%d items", len(results)), props.Text{Size: 8, Align: align.Right, Top: 4}),
		),
	)

	m.AddRow(10,
		text.NewCol(6, "Input", props.Text{Style: fontstyle.Bold, Size: 10}),
		text.NewCol(6, "Result", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
	)

	for _, r := range results {
		m.AddRow(8,
			text.NewCol(6, r.Input, props.Text{Size: 9}),
			text.NewCol(6, r.Result, props.Text{Size: 9, Align: align.Right}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}

func WritePDF(path string, results []domain.BulkResult, generatedAt time.Time) error {
	data, err := RenderPDF(results, generatedAt)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
