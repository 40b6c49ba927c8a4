// Package roster maps externally scraped, name-only roster entries onto pool
// records.
package roster

import (
	"strings"

	"github.com/okian/bricklayers/internal/domain/model"
)

// Resolution is the outcome of resolving a roster against a pool.
type Resolution struct {
	Matched   []model.PlayerRecord `json:"matched"`
	Unmatched []string             `json:"unmatched"`
}

// NormalizeName lower-cases s, removes every '.', collapses whitespace runs to
// a single space and trims the ends. Matching is exact on this form.
func NormalizeName(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, ".", "")
	return strings.Join(strings.Fields(s), " ")
}

// ResolveRoster matches roster entries to pool players by normalized name.
// When several pool entries share a normalized name the first in pool order
// wins. Unmatched names are reported as given, never treated as an error.
func ResolveRoster(entries []model.RosterEntry, pool *model.Pool) Resolution {
	byName := make(map[string]model.PlayerRecord, pool.Len())
	for _, p := range pool.Players() {
		key := NormalizeName(p.Name)
		if _, taken := byName[key]; !taken {
			byName[key] = p
		}
	}

	res := Resolution{
		Matched:   make([]model.PlayerRecord, 0, len(entries)),
		Unmatched: []string{},
	}
	for _, e := range entries {
		if p, ok := byName[NormalizeName(e.Name)]; ok {
			res.Matched = append(res.Matched, p)
			continue
		}
		res.Unmatched = append(res.Unmatched, e.Name)
	}
	return res
}
