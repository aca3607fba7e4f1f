// Package domain contains the persisted user preferences and calculation history.
package domain

import (
	"strings"

	unitdomain "github.com/smallbiznis/lightmeasure/internal/unit/domain"
)

var (
	DefaultPreferredUnit = unitdomain.Gram
	DefaultBaseUnit      = unitdomain.Kilogram
)

// State is the whole persisted document. Every save rewrites all of it.
type State struct {
	History       []string        `json:"history" msgpack:"history"`
	DefaultPrice  string          `json:"default_price" msgpack:"default_price"`
	PreferredUnit unitdomain.Code `json:"preferred_unit" msgpack:"preferred_unit"`
	BaseUnit      unitdomain.Code `json:"base_unit" msgpack:"base_unit"`
}

func DefaultState() State {
	return State{
		History:       []string{},
		DefaultPrice:  "",
		PreferredUnit: DefaultPreferredUnit,
		BaseUnit:      DefaultBaseUnit,
	}
}

// Normalize replaces missing or unknown fields with defaults and strips the
// trailing newline older history files carry on every entry.
func (s State) Normalize() State {
	out := State{
		History:       make([]string, 0, len(s.History)),
		DefaultPrice:  s.DefaultPrice,
		PreferredUnit: s.PreferredUnit,
		BaseUnit:      s.BaseUnit,
	}
	for _, entry := range s.History {
		out.History = append(out.History, strings.TrimRight(entry, "\r\n"))
	}
	if code, err := unitdomain.Parse(string(s.PreferredUnit)); err == nil {
		out.PreferredUnit = code
	} else {
		out.PreferredUnit = DefaultPreferredUnit
	}
	if code, err := unitdomain.Parse(string(s.BaseUnit)); err == nil {
		out.BaseUnit = code
	} else {
		out.BaseUnit = DefaultBaseUnit
	}
	return out
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := s
	out.History = append([]string(nil), s.History...)
	if out.History == nil {
		out.History = []string{}
	}
	return out
}
