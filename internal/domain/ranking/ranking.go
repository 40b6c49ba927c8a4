// Package ranking scores candidates against category weights and produces the
// best-available list.
package ranking

import (
	"sort"

	"github.com/okian/bricklayers/internal/domain/model"
	"github.com/okian/bricklayers/internal/domain/roster"
	"github.com/okian/bricklayers/internal/domain/stats"
)

// Filters narrows the output of BestAvailable. The zero value filters nothing.
type Filters struct {
	// Positions is an allow-list; a player passes if any of its positions is listed.
	Positions []string
	// Exclude holds player ids or normalized names that must not be returned.
	Exclude map[string]struct{}
	// Limit caps the result length; 0 means no cap.
	Limit int
}

// Ranked is one row of the best-available list.
type Ranked struct {
	ID     string             `json:"id"`
	Player model.PlayerRecord `json:"player"`
	Z      model.ZVector      `json:"z"`
	Value  float64            `json:"value"`
}

// DraftValue is the weighted sum of z-scores. Lower-is-better categories
// contribute with inverted sign; a category without a weight counts once.
func DraftValue(z model.ZVector, weights model.WeightVector) float64 {
	cats := make([]string, 0, len(z))
	for cat := range z {
		cats = append(cats, cat)
	}
	sort.Strings(cats) // fixed summation order keeps float results reproducible

	var sum float64
	for _, cat := range cats {
		w, ok := weights[cat]
		if !ok {
			w = 1
		}
		if model.LowerIsBetter(cat) {
			sum -= w * z[cat]
		} else {
			sum += w * z[cat]
		}
	}
	return sum
}

// BestAvailable ranks the pool by draft value, highest first. Category
// statistics are always computed over the whole pool so baselines stay stable
// as players are drafted; filters only remove rows from the output. Equal
// values keep pool order.
func BestAvailable(pool *model.Pool, categories []string, weights model.WeightVector, f Filters) []Ranked {
	table := stats.ComputeCategoryStats(pool, categories)

	list := make([]Ranked, 0, pool.Len())
	for _, p := range pool.Players() {
		if f.excluded(p) {
			continue
		}
		if len(f.Positions) > 0 && !p.HasAnyPosition(f.Positions) {
			continue
		}
		z := stats.ZScore(p, table, categories)
		list = append(list, Ranked{
			ID:     p.ID,
			Player: p,
			Z:      z,
			Value:  DraftValue(z, weights),
		})
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Value > list[j].Value
	})

	if f.Limit > 0 && len(list) > f.Limit {
		list = list[:f.Limit]
	}
	return list
}

func (f Filters) excluded(p model.PlayerRecord) bool {
	if len(f.Exclude) == 0 {
		return false
	}
	if _, ok := f.Exclude[p.ID]; ok {
		return true
	}
	_, ok := f.Exclude[roster.NormalizeName(p.Name)]
	return ok
}
