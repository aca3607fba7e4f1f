package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	unitdomain "github.com/smallbiznis/lightmeasure/internal/unit/domain"
)

// Number renders a parsed input the way history and bulk rows echo it:
// shortest round-trip digits, ".0" on integral values, exponent form
// outside [1e-4, 1e16).
// Exported files and stored history depend on this output, so it must not
// change.
func Number(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}

	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}

	out := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(out, ".") {
		out += ".0"
	}
	return out
}

// Money renders an amount with two decimals behind the currency symbol.
func Money(symbol string, amount float64) string {
	return symbol + fmt.Sprintf("%.2f", amount)
}

// Weight renders a weight with two decimals followed by the unit code.
func Weight(weight float64, unit unitdomain.Code) string {
	return fmt.Sprintf("%.2f", weight) + string(unit)
}

func PriceResult(symbol string, price float64) string {
	return "Total Price: " + Money(symbol, price)
}

func WeightResult(weight float64, unit unitdomain.Code) string {
	return fmt.Sprintf("Weight: %.2f %s", weight, unit)
}

func PriceHistory(weight float64, unit unitdomain.Code, resultText string) string {
	return "Weight: " + Number(weight) + string(unit) + " → " + resultText
}

func WeightHistory(symbol string, price float64, resultText string) string {
	return "Price: " + symbol + Number(price) + " → " + resultText
}

func BulkHistory(count int) string {
	return fmt.Sprintf("Bulk calculation: %d items processed", count)
}

// BulkWeightInput and BulkPriceInput echo a bulk line in its input column.
func BulkWeightInput(weight float64, unit unitdomain.Code) string {
	return Number(weight) + string(unit)
}

func BulkPriceInput(symbol string, price float64) string {
	return symbol + Number(price)
}
