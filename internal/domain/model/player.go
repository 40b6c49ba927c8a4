// Package model contains domain models passed between layers.
package model

import (
	"math"
	"strings"
)

// Epsilon floors standard deviations and normalizers so division never faults.
const Epsilon = 1e-9

// PlayerRecord is a candidate loaded from the external pool. Records are
// immutable for the lifetime of a pool.
type PlayerRecord struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Team       string             `json:"team,omitempty"`
	Positions  []string           `json:"positions"`
	Categories map[string]float64 `json:"categories"` // absent key = missing value
}

// Value returns the player's value for a category. Missing and non-finite
// values report ok=false.
func (p PlayerRecord) Value(category string) (float64, bool) {
	v, ok := p.Categories[category]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// HasAnyPosition reports whether the player holds at least one of positions.
func (p PlayerRecord) HasAnyPosition(positions []string) bool {
	for _, have := range p.Positions {
		for _, want := range positions {
			if have == want {
				return true
			}
		}
	}
	return false
}

// RosterEntry is a name-only record for a player the user already owns.
type RosterEntry struct {
	Name      string   `json:"name"`
	Positions []string `json:"positions,omitempty"`
	Team      string   `json:"team,omitempty"`
}

// ZVector maps category -> standardized score for one player.
type ZVector map[string]float64

// WeightVector maps category -> positive multiplier.
type WeightVector map[string]float64

// LowerIsBetter reports whether a category has inverted desirability.
func LowerIsBetter(category string) bool {
	switch strings.ToLower(category) {
	case "to", "tov", "turnovers":
		return true
	}
	return false
}
