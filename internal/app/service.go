// Package service holds the live candidate pool and draft state and answers
// the recommendation queries served by the HTTP API and the MCP tools.
package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/okian/bricklayers/internal/adapters/repository"
	"github.com/okian/bricklayers/internal/domain/draft"
	"github.com/okian/bricklayers/internal/domain/model"
	"github.com/okian/bricklayers/internal/domain/needs"
	"github.com/okian/bricklayers/internal/domain/ranking"
	"github.com/okian/bricklayers/internal/domain/roster"
	"github.com/okian/bricklayers/internal/domain/stats"
	"github.com/okian/bricklayers/pkg/logger"
	"github.com/okian/bricklayers/pkg/metrics"
)

// Needs modes.
const (
	ModeLive   = "live"
	ModeRoster = "roster"
)

const (
	defaultRankLimit = 50
	maxRankLimit     = 500
)

// DefaultCategories is the standard nine-category basketball league.
var DefaultCategories = []string{"pts", "reb", "ast", "stl", "blk", "3pm", "fg_pct", "ft_pct", "to"}

// Query selects what BestAvailable returns.
type Query struct {
	// Positions restricts the output to players holding any listed position.
	Positions []string
	// Limit caps the output; values <= 0 use the configured default.
	Limit int
	// Live derives team needs from the league's own picks instead of the saved roster.
	Live bool
}

// Recommendation is a ranked best-available list with the weights behind it.
type Recommendation struct {
	League    string             `json:"league"`
	Mode      string             `json:"mode"`
	Weights   model.WeightVector `json:"weights"`
	Unmatched []string           `json:"unmatched"`
	Players   []ranking.Ranked   `json:"players"`
}

// NeedsReport describes a team's category strengths and the weights derived from them.
type NeedsReport struct {
	League    string             `json:"league"`
	Mode      string             `json:"mode"`
	Team      []string           `json:"team"`
	Aggregate map[string]float64 `json:"aggregate"`
	Weights   model.WeightVector `json:"weights"`
	Unmatched []string           `json:"unmatched"`
}

// Service implements the API dependencies for the draft assistant.
type Service struct {
	mu sync.RWMutex

	// Core components
	pool   *model.Pool
	table  stats.Table
	store  repository.Store
	drafts *draft.Manager

	// Configuration
	categories   []string
	settings     ranking.LeagueSettings
	defaultLimit int
	maxLimit     int

	// State
	rosters map[string][]model.RosterEntry
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCategories sets the scoring categories.
func WithCategories(categories []string) Option {
	return func(s *Service) {
		if len(categories) > 0 {
			s.categories = append([]string(nil), categories...)
		}
	}
}

// WithStore sets the draft-state store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLeagueSettings sets the league shape used for replacement levels.
func WithLeagueSettings(settings ranking.LeagueSettings) Option {
	return func(s *Service) {
		s.settings = settings
	}
}

// WithRankLimits sets the default and maximum best-available lengths.
func WithRankLimits(defaultLimit, maxLimit int) Option {
	return func(s *Service) {
		if maxLimit > 0 {
			s.maxLimit = maxLimit
		}
		if defaultLimit > 0 {
			s.defaultLimit = defaultLimit
		}
		if s.defaultLimit > s.maxLimit {
			s.defaultLimit = s.maxLimit
		}
	}
}

// WithPool sets the initial candidate pool.
func WithPool(p *model.Pool) Option {
	return func(s *Service) {
		s.pool = p
	}
}

// New constructs a new Service with default configuration. Without a store
// option draft state lives in memory.
func New(opts ...Option) *Service {
	s := &Service{
		categories:   append([]string(nil), DefaultCategories...),
		settings:     ranking.NewLeagueSettings(),
		defaultLimit: defaultRankLimit,
		maxLimit:     maxRankLimit,
		rosters:      make(map[string][]model.RosterEntry),
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	if s.pool == nil {
		s.pool = model.NewPool(nil)
	}
	s.drafts = draft.NewManager(s.store)
	s.table = stats.ComputeCategoryStats(s.pool, s.categories)
	return s
}

// Start marks the service ready and publishes the initial gauges.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	metrics.UpdatePoolSize(s.pool.Len())
	metrics.UpdateLeaguesTracked(s.store.Count(ctx))

	s.started = true
	s.logger.Info(ctx, "draft service started",
		logger.Int("players", s.pool.Len()),
		logger.Strings("categories", s.categories),
	)
	return nil
}

// Stop releases the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if err := s.store.Close(); err != nil {
		s.logger.Warn(context.Background(), "closing draft store", logger.Error(err))
	}
	s.started = false
	s.logger.Info(context.Background(), "draft service stopped")
}

// ReplacePool swaps the candidate pool wholesale. Rankings issued after the
// call see the new pool and its statistics.
func (s *Service) ReplacePool(ctx context.Context, p *model.Pool) {
	if p == nil {
		p = model.NewPool(nil)
	}
	table := stats.ComputeCategoryStats(p, s.categories)

	s.mu.Lock()
	s.pool = p
	s.table = table
	s.mu.Unlock()

	metrics.UpdatePoolSize(p.Len())
	s.log().Info(ctx, "candidate pool replaced", logger.Int("players", p.Len()))
}

// Pool returns the current candidate pool.
func (s *Service) Pool() *model.Pool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pool
}

// SetRoster saves the externally scraped roster for a league and returns the
// names that did not match any pool player.
func (s *Service) SetRoster(ctx context.Context, leagueID string, entries []model.RosterEntry) ([]string, error) {
	if err := validLeague(leagueID); err != nil {
		return nil, err
	}
	saved := append([]model.RosterEntry(nil), entries...)

	s.mu.Lock()
	s.rosters[leagueID] = saved
	p := s.pool
	s.mu.Unlock()

	res := s.resolve(ctx, leagueID, saved, p)
	return res.Unmatched, nil
}

// Roster returns the saved roster of a league, empty when none was saved.
func (s *Service) Roster(leagueID string) ([]model.RosterEntry, error) {
	if err := validLeague(leagueID); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.RosterEntry{}, s.rosters[leagueID]...), nil
}

// BestAvailable ranks undrafted players for a league, weighting categories by
// what the league's team lacks.
func (s *Service) BestAvailable(ctx context.Context, leagueID string, q Query) (Recommendation, error) {
	start := time.Now()

	team, err := s.team(ctx, leagueID, q.Live)
	if err != nil {
		return Recommendation{}, err
	}

	weights := needs.WeightsFromNeeds(needs.TeamNeedsVector(team.players, team.table, s.categories))

	// Owned roster players are excluded by the id they resolved to, so a
	// namesake later in the pool stays available.
	exclude := make(map[string]struct{}, len(team.state.Drafted)+len(team.players))
	for id := range team.state.Drafted {
		exclude[id] = struct{}{}
	}
	if team.mode == ModeRoster {
		for _, p := range team.players {
			exclude[p.ID] = struct{}{}
		}
	}

	list := ranking.BestAvailable(team.pool, s.categories, weights, ranking.Filters{
		Positions: q.Positions,
		Exclude:   exclude,
		Limit:     s.limit(q.Limit),
	})

	metrics.RecordRankRequest(team.mode)
	metrics.RecordRankLatency(float64(time.Since(start).Microseconds()) / 1000)

	return Recommendation{
		League:    leagueID,
		Mode:      team.mode,
		Weights:   weights,
		Unmatched: team.unmatched,
		Players:   list,
	}, nil
}

// Needs reports the league team's category aggregate and resulting weights.
func (s *Service) Needs(ctx context.Context, leagueID string, live bool) (NeedsReport, error) {
	team, err := s.team(ctx, leagueID, live)
	if err != nil {
		return NeedsReport{}, err
	}
	aggregate := needs.TeamNeedsVector(team.players, team.table, s.categories)

	ids := make([]string, 0, len(team.players))
	for _, p := range team.players {
		ids = append(ids, p.ID)
	}
	return NeedsReport{
		League:    leagueID,
		Mode:      team.mode,
		Team:      ids,
		Aggregate: aggregate,
		Weights:   needs.WeightsFromNeeds(aggregate),
		Unmatched: team.unmatched,
	}, nil
}

// ReplacementLevels returns the replacement player per starter position.
func (s *Service) ReplacementLevels() map[string]*model.PlayerRecord {
	s.mu.RLock()
	p, settings := s.pool, s.settings
	s.mu.RUnlock()
	return ranking.ReplacementLevels(p, settings)
}

// GetState returns the league's draft state.
func (s *Service) GetState(ctx context.Context, leagueID string) (draft.Snapshot, error) {
	st, err := s.drafts.GetState(ctx, leagueID)
	if err != nil {
		return draft.Snapshot{}, err
	}
	return st.Snapshot(), nil
}

// AddPick records a drafted player, optionally as one of the user's picks.
func (s *Service) AddPick(ctx context.Context, leagueID, playerID string, mine bool) (draft.Snapshot, error) {
	st, err := s.drafts.AddPick(ctx, leagueID, playerID, mine)
	if err != nil {
		return draft.Snapshot{}, err
	}
	if _, ok := s.Pool().Get(playerID); !ok {
		s.log().Debug(ctx, "pick is not in the current pool",
			logger.String("league", leagueID),
			logger.String("player", playerID),
		)
	}
	s.picked(ctx, "add")
	return st.Snapshot(), nil
}

// RemovePick undoes a pick.
func (s *Service) RemovePick(ctx context.Context, leagueID, playerID string) (draft.Snapshot, error) {
	st, err := s.drafts.RemovePick(ctx, leagueID, playerID)
	if err != nil {
		return draft.Snapshot{}, err
	}
	s.picked(ctx, "remove")
	return st.Snapshot(), nil
}

// Reset clears the league's draft state.
func (s *Service) Reset(ctx context.Context, leagueID string) (draft.Snapshot, error) {
	st, err := s.drafts.Reset(ctx, leagueID)
	if err != nil {
		return draft.Snapshot{}, err
	}
	s.picked(ctx, "reset")
	return st.Snapshot(), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	leagues := s.store.Count(ctx)

	out := map[string]interface{}{
		"started":      s.started,
		"players":      s.pool.Len(),
		"categories":   s.categories,
		"rosters":      len(s.rosters),
		"leagues":      leagues,
		"defaultLimit": s.defaultLimit,
		"maxLimit":     s.maxLimit,
		"teamsCount":   s.settings.TeamsCount,
	}

	// Update metrics
	metrics.UpdatePoolSize(s.pool.Len())
	metrics.UpdateLeaguesTracked(leagues)

	return out
}

// teamView is everything a needs computation reads, captured once per call.
type teamView struct {
	mode      string
	pool      *model.Pool
	table     stats.Table
	state     draft.State
	players   []model.PlayerRecord
	unmatched []string
}

func (s *Service) team(ctx context.Context, leagueID string, live bool) (teamView, error) {
	st, err := s.drafts.GetState(ctx, leagueID)
	if err != nil {
		return teamView{}, err
	}

	s.mu.RLock()
	v := teamView{pool: s.pool, table: s.table, state: st, unmatched: []string{}}
	entries := s.rosters[leagueID]
	s.mu.RUnlock()

	if live {
		v.mode = ModeLive
		for _, id := range st.MyPicks.Sorted() {
			if p, ok := v.pool.Get(id); ok {
				v.players = append(v.players, p)
			}
		}
		return v, nil
	}

	v.mode = ModeRoster
	res := s.resolve(ctx, leagueID, entries, v.pool)
	v.players = res.Matched
	v.unmatched = res.Unmatched
	return v, nil
}

func (s *Service) resolve(ctx context.Context, leagueID string, entries []model.RosterEntry, p *model.Pool) roster.Resolution {
	res := roster.ResolveRoster(entries, p)
	metrics.RecordRosterResolution(len(res.Matched), len(res.Unmatched))
	if len(res.Unmatched) > 0 {
		s.log().Warn(ctx, "roster names not found in pool",
			logger.String("league", leagueID),
			logger.Strings("names", res.Unmatched),
		)
	}
	return res
}

func (s *Service) picked(ctx context.Context, op string) {
	metrics.RecordPickOperation(op)
	metrics.UpdateLeaguesTracked(s.store.Count(ctx))
}

func (s *Service) limit(n int) int {
	if n <= 0 {
		return s.defaultLimit
	}
	if n > s.maxLimit {
		return s.maxLimit
	}
	return n
}

func (s *Service) log() logger.Logger {
	s.mu.RLock()
	l := s.logger
	s.mu.RUnlock()
	if l == nil {
		return logger.Get()
	}
	return l
}

func validLeague(leagueID string) error {
	if strings.TrimSpace(leagueID) == "" {
		return draft.ErrInvalidLeague
	}
	return nil
}
