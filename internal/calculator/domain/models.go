// Package domain defines the weight/price calculation contract.
package domain

import (
	unitdomain "github.com/smallbiznis/lightmeasure/internal/unit/domain"
)

type BulkMode string

var (
	WeightToPrice BulkMode = "weight_to_price"
	PriceToWeight BulkMode = "price_to_weight"
)

func (m BulkMode) Valid() bool {
	return m == WeightToPrice || m == PriceToWeight
}

// Rate is the price of one base unit, kept as entered.
type Rate struct {
	Text  string
	Value float64
}

// Configured reports whether a rate has been entered.
func (r Rate) Configured() bool {
	return r.Text != ""
}

type PriceResult struct {
	Price float64
	Text  string
}

type WeightResult struct {
	Weight float64
	Unit   unitdomain.Code
	Text   string
}

// BulkResult is one processed line of a bulk run.
type BulkResult struct {
	Input  string
	Result string
}
