package draft

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Sentinel kinds for draft errors.
var (
	ErrInvalidLeague = errors.New("league id must not be empty")
	ErrInvalidPlayer = errors.New("player id must not be empty")
	ErrStore         = errors.New("draft store failed")
)

// Store persists one State per league. Get reports found=false for leagues
// that were never written. Set replaces the whole value for a league.
type Store interface {
	Get(ctx context.Context, leagueID string) (State, bool, error)
	Set(ctx context.Context, leagueID string, st State) error
}

// Manager applies draft transitions as load-mutate-store sequences. Calls on
// one Manager are serialized, so replays and double submits are harmless.
type Manager struct {
	mu    sync.Mutex
	store Store
}

// NewManager creates a Manager on top of store.
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// GetState returns the league's state; an unknown league is empty.
func (m *Manager) GetState(ctx context.Context, leagueID string) (State, error) {
	if err := validLeague(leagueID); err != nil {
		return State{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(ctx, leagueID)
}

// Reset clears both sets for the league.
func (m *Manager) Reset(ctx context.Context, leagueID string) (State, error) {
	if err := validLeague(leagueID); err != nil {
		return State{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	st := Empty()
	if err := m.save(ctx, leagueID, st); err != nil {
		return State{}, err
	}
	return st, nil
}

// AddPick marks playerID drafted and, when mine, also as the user's pick.
// Repeating the call changes nothing.
func (m *Manager) AddPick(ctx context.Context, leagueID, playerID string, mine bool) (State, error) {
	return m.mutate(ctx, leagueID, playerID, func(st *State) { st.add(playerID, mine) })
}

// RemovePick removes playerID from both sets. Absent ids are ignored.
func (m *Manager) RemovePick(ctx context.Context, leagueID, playerID string) (State, error) {
	return m.mutate(ctx, leagueID, playerID, func(st *State) { st.remove(playerID) })
}

func (m *Manager) mutate(ctx context.Context, leagueID, playerID string, fn func(*State)) (State, error) {
	if err := validLeague(leagueID); err != nil {
		return State{}, err
	}
	if strings.TrimSpace(playerID) == "" {
		return State{}, ErrInvalidPlayer
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	st, err := m.load(ctx, leagueID)
	if err != nil {
		return State{}, err
	}
	fn(&st)
	if err := m.save(ctx, leagueID, st); err != nil {
		return State{}, err
	}
	return st, nil
}

func (m *Manager) load(ctx context.Context, leagueID string) (State, error) {
	st, found, err := m.store.Get(ctx, leagueID)
	if err != nil {
		return State{}, fmt.Errorf("%w: get %s: %w", ErrStore, leagueID, err)
	}
	if !found {
		return Empty(), nil
	}
	if st.Drafted == nil {
		st.Drafted = Set{}
	}
	if st.MyPicks == nil {
		st.MyPicks = Set{}
	}
	return st.Clone(), nil
}

func (m *Manager) save(ctx context.Context, leagueID string, st State) error {
	if err := m.store.Set(ctx, leagueID, st.Clone()); err != nil {
		return fmt.Errorf("%w: set %s: %w", ErrStore, leagueID, err)
	}
	return nil
}

func validLeague(leagueID string) error {
	if strings.TrimSpace(leagueID) == "" {
		return ErrInvalidLeague
	}
	return nil
}
