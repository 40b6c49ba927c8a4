// Package needs turns a team's aggregate category strength into per-category
// weight multipliers that favor the team's weak categories.
package needs

import (
	"math"

	"github.com/okian/bricklayers/internal/domain/model"
	"github.com/okian/bricklayers/internal/domain/stats"
)

const (
	neutralWeight = 1.0
	weightSpread  = 0.5 // weights land in [1-spread, 1+spread]
)

// TeamNeedsVector sums the players' z-scores per category. Lower-is-better
// categories are sign-inverted so a positive total always means strength.
func TeamNeedsVector(players []model.PlayerRecord, table stats.Table, categories []string) map[string]float64 {
	agg := make(map[string]float64, len(categories))
	for _, cat := range categories {
		agg[cat] = 0
	}
	for _, p := range players {
		z := stats.ZScore(p, table, categories)
		for _, cat := range categories {
			if model.LowerIsBetter(cat) {
				agg[cat] -= z[cat]
			} else {
				agg[cat] += z[cat]
			}
		}
	}
	return agg
}

// WeightsFromNeeds scales each category's need by the largest absolute
// aggregate and maps it to 1 + 0.5*need. Weak categories are boosted up to
// 1.5, strong ones damped down to 0.5; an all-zero vector is neutral.
func WeightsFromNeeds(aggregate map[string]float64) model.WeightVector {
	maxAbs := model.Epsilon
	for _, v := range aggregate {
		maxAbs = math.Max(maxAbs, math.Abs(v))
	}

	w := make(model.WeightVector, len(aggregate))
	for cat, v := range aggregate {
		need := -v / maxAbs
		w[cat] = clamp(neutralWeight+weightSpread*need, neutralWeight-weightSpread, neutralWeight+weightSpread)
	}
	return w
}

// clamp absorbs float rounding at the range edges.
func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
