package draft_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/bricklayers/internal/domain/draft"
	. "github.com/smartystreets/goconvey/convey"
)

// mapStore is a minimal Store with optional failure injection.
type mapStore struct {
	data    map[string]draft.State
	failGet error
	failSet error
	sets    int
}

func newMapStore() *mapStore { return &mapStore{data: map[string]draft.State{}} }

func (s *mapStore) Get(_ context.Context, leagueID string) (draft.State, bool, error) {
	if s.failGet != nil {
		return draft.State{}, false, s.failGet
	}
	st, ok := s.data[leagueID]
	return st, ok, nil
}

func (s *mapStore) Set(_ context.Context, leagueID string, st draft.State) error {
	if s.failSet != nil {
		return s.failSet
	}
	s.sets++
	s.data[leagueID] = st
	return nil
}

func isSubset(st draft.State) bool {
	for id := range st.MyPicks {
		if !st.Drafted.Has(id) {
			return false
		}
	}
	return true
}

func TestManager(t *testing.T) {
	Convey("Given a draft manager over an empty store", t, func() {
		ctx := context.Background()
		store := newMapStore()
		m := draft.NewManager(store)

		Convey("When reading a league never touched", func() {
			st, err := m.GetState(ctx, "league1")
			So(err, ShouldBeNil)
			So(st.Snapshot(), ShouldResemble, draft.Snapshot{Drafted: []string{}, MyPicks: []string{}})
			So(store.sets, ShouldEqual, 0)
		})

		Convey("When adding my pick and then removing it", func() {
			_, err := m.AddPick(ctx, "league1", "p1", true)
			So(err, ShouldBeNil)

			st, err := m.GetState(ctx, "league1")
			So(err, ShouldBeNil)
			So(st.Snapshot(), ShouldResemble, draft.Snapshot{Drafted: []string{"p1"}, MyPicks: []string{"p1"}})

			st, err = m.RemovePick(ctx, "league1", "p1")
			So(err, ShouldBeNil)
			So(st.Snapshot(), ShouldResemble, draft.Snapshot{Drafted: []string{}, MyPicks: []string{}})
		})

		Convey("When the same pick is added twice", func() {
			once, _ := m.AddPick(ctx, "league1", "p2", false)
			twice, err := m.AddPick(ctx, "league1", "p2", false)

			Convey("Then the state is the same as after one call", func() {
				So(err, ShouldBeNil)
				So(twice.Snapshot(), ShouldResemble, once.Snapshot())
				So(twice.Snapshot().Drafted, ShouldResemble, []string{"p2"})
				So(twice.Snapshot().MyPicks, ShouldBeEmpty)
			})
		})

		Convey("When a pick is removed then re-added as mine", func() {
			single := draft.NewManager(newMapStore())
			want, _ := single.AddPick(ctx, "l", "p3", true)

			_, _ = m.AddPick(ctx, "l", "p3", false)
			_, _ = m.RemovePick(ctx, "l", "p3")
			got, err := m.AddPick(ctx, "l", "p3", true)

			Convey("Then it matches a single add", func() {
				So(err, ShouldBeNil)
				So(got.Snapshot(), ShouldResemble, want.Snapshot())
			})
		})

		Convey("When removing a pick that is not there", func() {
			st, err := m.RemovePick(ctx, "league1", "ghost")
			So(err, ShouldBeNil)
			So(st.Drafted, ShouldBeEmpty)
		})

		Convey("When resetting", func() {
			_, _ = m.AddPick(ctx, "league1", "a", true)
			_, _ = m.AddPick(ctx, "league1", "b", false)
			first, err := m.Reset(ctx, "league1")
			So(err, ShouldBeNil)
			second, err := m.Reset(ctx, "league1")
			So(err, ShouldBeNil)

			Convey("Then both sets are empty and reset is idempotent", func() {
				So(first.Snapshot(), ShouldResemble, second.Snapshot())
				So(first.Drafted, ShouldBeEmpty)
				So(first.MyPicks, ShouldBeEmpty)
			})
		})

		Convey("When leagues are mutated independently", func() {
			_, _ = m.AddPick(ctx, "one", "x", true)
			other, err := m.GetState(ctx, "two")
			So(err, ShouldBeNil)
			So(other.Drafted, ShouldBeEmpty)
		})

		Convey("When applying a mixed sequence of transitions", func() {
			ops := []struct {
				add    bool
				player string
				mine   bool
			}{
				{true, "a", true}, {true, "b", false}, {true, "a", false},
				{false, "a", false}, {true, "c", true}, {true, "c", true},
				{false, "b", false}, {true, "a", true},
			}
			for _, op := range ops {
				var st draft.State
				var err error
				if op.add {
					st, err = m.AddPick(ctx, "seq", op.player, op.mine)
				} else {
					st, err = m.RemovePick(ctx, "seq", op.player)
				}
				So(err, ShouldBeNil)
				So(isSubset(st), ShouldBeTrue)
			}
			st, _ := m.GetState(ctx, "seq")
			So(st.Snapshot(), ShouldResemble, draft.Snapshot{Drafted: []string{"a", "c"}, MyPicks: []string{"a", "c"}})
		})

		Convey("When the caller mutates a returned state", func() {
			st, _ := m.AddPick(ctx, "alias", "a", true)
			delete(st.Drafted, "a")
			again, _ := m.GetState(ctx, "alias")
			So(again.Drafted.Has("a"), ShouldBeTrue)
		})
	})
}

func TestManagerErrors(t *testing.T) {
	Convey("Given a manager", t, func() {
		ctx := context.Background()
		store := newMapStore()
		m := draft.NewManager(store)

		Convey("When ids are blank", func() {
			_, err := m.AddPick(ctx, " ", "p", true)
			So(errors.Is(err, draft.ErrInvalidLeague), ShouldBeTrue)
			_, err = m.RemovePick(ctx, "l", "")
			So(errors.Is(err, draft.ErrInvalidPlayer), ShouldBeTrue)
		})

		Convey("When the store fails", func() {
			boom := errors.New("boom")
			store.failSet = boom
			_, err := m.AddPick(ctx, "l", "p", true)
			So(errors.Is(err, draft.ErrStore), ShouldBeTrue)
			So(errors.Is(err, boom), ShouldBeTrue)

			store.failSet = nil
			store.failGet = boom
			_, err = m.GetState(ctx, "l")
			So(errors.Is(err, draft.ErrStore), ShouldBeTrue)
		})
	})
}

func TestSnapshot(t *testing.T) {
	Convey("FromSnapshot restores the subset invariant", t, func() {
		st := draft.FromSnapshot(draft.Snapshot{Drafted: []string{"b"}, MyPicks: []string{"a"}})
		So(st.Drafted.Sorted(), ShouldResemble, []string{"a", "b"})
		So(st.MyPicks.Sorted(), ShouldResemble, []string{"a"})
	})
}
