package ranking

import (
	"sort"

	"github.com/okian/bricklayers/internal/domain/model"
)

// Default league shape used for replacement levels.
const (
	defaultTeamsCount   = 12
	defaultSortCategory = "pts"
)

// LeagueSettings describes how many teams start how many players per position.
type LeagueSettings struct {
	TeamsCount     int
	StartersPerPos map[string]int
	SortCategory   string
}

// Option applies a configuration option to LeagueSettings.
type Option func(*LeagueSettings)

// WithTeamsCount sets the number of teams in the league.
func WithTeamsCount(n int) Option {
	return func(s *LeagueSettings) {
		if n > 0 {
			s.TeamsCount = n
		}
	}
}

// WithStartersPerPos replaces the starter slots per position.
func WithStartersPerPos(starters map[string]int) Option {
	return func(s *LeagueSettings) {
		if len(starters) == 0 {
			return
		}
		s.StartersPerPos = make(map[string]int, len(starters))
		for pos, n := range starters {
			s.StartersPerPos[pos] = n
		}
	}
}

// WithSortCategory sets the category replacement players are ordered by.
func WithSortCategory(cat string) Option {
	return func(s *LeagueSettings) {
		if cat != "" {
			s.SortCategory = cat
		}
	}
}

// NewLeagueSettings returns a standard 12-team basketball league shape with
// options applied.
func NewLeagueSettings(opts ...Option) LeagueSettings {
	s := LeagueSettings{
		TeamsCount: defaultTeamsCount,
		StartersPerPos: map[string]int{
			"PG": 1, "SG": 1, "SF": 1, "PF": 1, "C": 1,
			"G": 0, "F": 0, "UTIL": 2,
		},
		SortCategory: defaultSortCategory,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// ReplacementLevels returns, per configured position, the player who would be
// the last starter league-wide at that position. Positions nobody holds map
// to nil. Zero-starter positions still count one slot per team.
func ReplacementLevels(pool *model.Pool, s LeagueSettings) map[string]*model.PlayerRecord {
	byPos := make(map[string][]model.PlayerRecord, len(s.StartersPerPos))
	for pos := range s.StartersPerPos {
		byPos[pos] = nil
	}
	for _, p := range pool.Players() {
		for _, pos := range p.Positions {
			if _, ok := byPos[pos]; ok {
				byPos[pos] = append(byPos[pos], p)
			}
		}
	}

	teams := s.TeamsCount
	if teams <= 0 {
		teams = defaultTeamsCount
	}
	sortCat := s.SortCategory
	if sortCat == "" {
		sortCat = defaultSortCategory
	}

	out := make(map[string]*model.PlayerRecord, len(byPos))
	for pos, players := range byPos {
		if len(players) == 0 {
			out[pos] = nil
			continue
		}
		sort.SliceStable(players, func(i, j int) bool {
			vi, _ := players[i].Value(sortCat)
			vj, _ := players[j].Value(sortCat)
			return vi > vj
		})
		n := teams * max(1, s.StartersPerPos[pos])
		idx := min(len(players), n) - 1
		p := players[idx]
		out[pos] = &p
	}
	return out
}
