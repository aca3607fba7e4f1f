// Package domain describes the closed set of mass units and their gram factors.
package domain

import "strings"

type Code string

var (
	Gram     Code = "g"
	Kilogram Code = "kg"
	Pound    Code = "lb"
	Ounce    Code = "oz"
)

// Info is an immutable unit table row.
type Info struct {
	Code          Code
	DisplayName   string
	FactorToGrams float64
}

var table = []Info{
	{Code: Gram, DisplayName: "Gram (g)", FactorToGrams: 1},
	{Code: Kilogram, DisplayName: "Kilogram (kg)", FactorToGrams: 1000},
	{Code: Pound, DisplayName: "Pound (lb)", FactorToGrams: 453.592},
	{Code: Ounce, DisplayName: "Ounce (oz)", FactorToGrams: 28.3495},
}

// Units returns the unit table in display order.
func Units() []Info {
	out := make([]Info, len(table))
	copy(out, table)
	return out
}

// Lookup returns the table row for code, or ok=false if unknown.
func Lookup(code Code) (Info, bool) {
	for _, info := range table {
		if info.Code == code {
			return info, true
		}
	}
	return Info{}, false
}

// Valid reports whether code is one of the known units.
func (c Code) Valid() bool {
	_, ok := Lookup(c)
	return ok
}

func (c Code) String() string { return string(c) }

// Parse accepts a unit code ("kg", " KG ") or a display name ("Kilogram (kg)").
func Parse(raw string) (Code, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", ErrInvalidUnit
	}
	code := Code(strings.ToLower(value))
	if code.Valid() {
		return code, nil
	}
	for _, info := range table {
		if strings.EqualFold(info.DisplayName, value) {
			return info.Code, nil
		}
	}
	return "", ErrInvalidUnit
}
