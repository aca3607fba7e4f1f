package export

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/smallbiznis/lightmeasure/internal/calculator/domain"
)

var csvHeader = []string{"input", "result"}

// WriteCSV creates or truncates path and writes the header row followed by
// one row per result. Rows end in CRLF.
func WriteCSV(path string, results []domain.BulkResult) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return EncodeCSV(f, results)
}

func EncodeCSV(w io.Writer, results []domain.BulkResult) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range results {
		if err := cw.Write([]string{r.Input, r.Result}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
