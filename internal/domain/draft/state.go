// Package draft tracks which players a league has drafted and which of those
// belong to the user.
package draft

import "sort"

// Set is a set of player ids.
type Set map[string]struct{}

// NewSet builds a set from ids.
func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the members in ascending order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s Set) clone() Set {
	out := make(Set, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// State is one league's draft state. MyPicks is always a subset of Drafted.
type State struct {
	Drafted Set
	MyPicks Set
}

// Empty returns a state with no picks.
func Empty() State {
	return State{Drafted: Set{}, MyPicks: Set{}}
}

// Clone returns a deep copy.
func (s State) Clone() State {
	return State{Drafted: s.Drafted.clone(), MyPicks: s.MyPicks.clone()}
}

// Snapshot is the list form of State used at storage and API boundaries.
type Snapshot struct {
	Drafted []string `json:"drafted"`
	MyPicks []string `json:"myPicks"`
}

// Snapshot returns the state with sorted id lists.
func (s State) Snapshot() Snapshot {
	return Snapshot{Drafted: s.Drafted.Sorted(), MyPicks: s.MyPicks.Sorted()}
}

// FromSnapshot rebuilds a State. Picks missing from Drafted are added to it so
// the subset invariant holds even for hand-edited stored values.
func FromSnapshot(snap Snapshot) State {
	st := State{Drafted: NewSet(snap.Drafted...), MyPicks: NewSet(snap.MyPicks...)}
	for id := range st.MyPicks {
		st.Drafted[id] = struct{}{}
	}
	return st
}

func (s *State) add(playerID string, mine bool) {
	s.Drafted[playerID] = struct{}{}
	if mine {
		s.MyPicks[playerID] = struct{}{}
	}
}

func (s *State) remove(playerID string) {
	delete(s.Drafted, playerID)
	delete(s.MyPicks, playerID)
}
