// Package stats computes per-category population statistics over a candidate
// pool and standardizes player values against them.
package stats

import (
	"math"

	"github.com/okian/bricklayers/internal/domain/model"
)

// CategoryStats holds the population mean and standard deviation of one
// category. StdDev is never below model.Epsilon.
type CategoryStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// Table maps category -> statistics.
type Table map[string]CategoryStats

// ComputeCategoryStats computes population statistics for each category over
// the players that have a finite value for it. A category nobody has yields
// mean 0 and the epsilon standard deviation.
func ComputeCategoryStats(pool *model.Pool, categories []string) Table {
	out := make(Table, len(categories))
	for _, cat := range categories {
		var sum float64
		var n int
		for _, p := range pool.Players() {
			if v, ok := p.Value(cat); ok {
				sum += v
				n++
			}
		}
		if n == 0 {
			out[cat] = CategoryStats{Mean: 0, StdDev: model.Epsilon}
			continue
		}
		mean := sum / float64(n)

		var sq float64
		for _, p := range pool.Players() {
			if v, ok := p.Value(cat); ok {
				sq += (v - mean) * (v - mean)
			}
		}
		out[cat] = CategoryStats{
			Mean:   mean,
			StdDev: math.Max(math.Sqrt(sq/float64(n)), model.Epsilon),
		}
	}
	return out
}

// ZScore standardizes a player's values. Missing values score 0 so players
// are not penalized for absent data. A category missing from the table is
// scored against mean 0, std 1. A score that overflows to NaN or infinity
// reads as 0.
func ZScore(p model.PlayerRecord, table Table, categories []string) model.ZVector {
	z := make(model.ZVector, len(categories))
	for _, cat := range categories {
		v, ok := p.Value(cat)
		if !ok {
			z[cat] = 0
			continue
		}
		st, found := table[cat]
		if !found {
			st = CategoryStats{Mean: 0, StdDev: 1}
		}
		score := (v - st.Mean) / math.Max(st.StdDev, model.Epsilon)
		if math.IsNaN(score) || math.IsInf(score, 0) {
			score = 0
		}
		z[cat] = score
	}
	return z
}
