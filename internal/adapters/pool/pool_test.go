package pool_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/bricklayers/internal/adapters/pool"
	"github.com/okian/bricklayers/internal/domain/model"
	"github.com/okian/bricklayers/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const yamlPool = `
players:
  "300":
    name: Zed Last
    team: BOS
    pos: [C]
    cats: {pts: 12, reb: 11.5, to: 1}
  "100":
    name: Amy First
    positions: [PG, SG]
    categories:
      pts: 25
      ast: "eight"
      stl: null
      blk: .nan
      fg_pct: 0.48
  "200":
    name: Mid Player
`

func TestDecode(t *testing.T) {
	Convey("Given a YAML pool document", t, func() {
		p, err := pool.Decode(strings.NewReader(yamlPool))
		So(err, ShouldBeNil)

		Convey("Then document order becomes pool order", func() {
			So(p.Len(), ShouldEqual, 3)
			players := p.Players()
			So(players[0].ID, ShouldEqual, "300")
			So(players[1].ID, ShouldEqual, "100")
			So(players[2].ID, ShouldEqual, "200")
		})

		Convey("And fields and aliases are decoded", func() {
			zed, _ := p.Get("300")
			So(zed.Team, ShouldEqual, "BOS")
			So(zed.Positions, ShouldResemble, []string{"C"})
			So(zed.Categories, ShouldResemble, map[string]float64{"pts": 12, "reb": 11.5, "to": 1})

			amy, _ := p.Get("100")
			So(amy.Positions, ShouldResemble, []string{"PG", "SG"})
		})

		Convey("And malformed values read as missing", func() {
			amy, _ := p.Get("100")
			So(amy.Categories, ShouldResemble, map[string]float64{"pts": 25, "fg_pct": 0.48})

			mid, _ := p.Get("200")
			So(mid.Positions, ShouldBeEmpty)
			So(mid.Categories, ShouldBeEmpty)
		})
	})

	Convey("Given a JSON pool document", t, func() {
		p, err := pool.Decode(strings.NewReader(`{"players": {"b": {"name": "B", "cats": {"pts": 20}}, "a": {"name": "A", "cats": {"pts": 30}}}}`))
		So(err, ShouldBeNil)
		So(p.Players()[0].ID, ShouldEqual, "b")
		a, _ := p.Get("a")
		So(a.Categories["pts"], ShouldEqual, 30)
	})

	Convey("Given a document with mixed-case positions and category keys", t, func() {
		p, err := pool.Decode(strings.NewReader(`players: {a: {name: A, pos: [" pg", sf], cats: {PTS: 10, " Reb ": 4}}}`))
		So(err, ShouldBeNil)

		a, _ := p.Get("a")
		So(a.Positions, ShouldResemble, []string{"PG", "SF"})
		So(a.Categories, ShouldResemble, map[string]float64{"pts": 10, "reb": 4})
	})

	Convey("Given invalid documents", t, func() {
		_, err := pool.Decode(strings.NewReader(""))
		So(errors.Is(err, pool.ErrNoPlayers), ShouldBeTrue)

		_, err = pool.Decode(strings.NewReader("meta: {}"))
		So(errors.Is(err, pool.ErrNoPlayers), ShouldBeTrue)

		_, err = pool.Decode(strings.NewReader("players: [1, 2]"))
		So(errors.Is(err, pool.ErrInvalidShape), ShouldBeTrue)

		_, err = pool.Decode(strings.NewReader("players: {a: {name: [x}"))
		So(errors.Is(err, pool.ErrDecode), ShouldBeTrue)
	})
}

func TestLoadFileAndWatch(t *testing.T) {
	Convey("Given a pool file on disk", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "pool.yaml")
		So(os.WriteFile(path, []byte(`players: {a: {name: A, cats: {pts: 1}}}`), 0o600), ShouldBeNil)

		Convey("When loading it", func() {
			p, err := pool.LoadFile(path)
			So(err, ShouldBeNil)
			So(p.Len(), ShouldEqual, 1)
		})

		Convey("When loading a missing file", func() {
			_, err := pool.LoadFile(filepath.Join(dir, "missing.yaml"))
			So(err, ShouldNotBeNil)
		})

		Convey("When the file is rewritten while watched", func() {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			var logs bytes.Buffer
			log := logger.New(&logs, slog.LevelDebug)
			changes := make(chan *model.Pool, 4)
			done := make(chan error, 1)
			go func() {
				done <- pool.Watch(ctx, path, log, func(p *model.Pool) { changes <- p })
			}()

			// Give the watcher time to register before writing.
			time.Sleep(100 * time.Millisecond)
			So(os.WriteFile(path, []byte(`players: {a: {name: A}, b: {name: B}}`), 0o600), ShouldBeNil)

			var got *model.Pool
			select {
			case got = <-changes:
			case <-time.After(3 * time.Second):
			}

			Convey("Then the new pool is delivered", func() {
				So(got, ShouldNotBeNil)
				So(got.Len(), ShouldEqual, 2)
			})

			cancel()
			select {
			case err := <-done:
				So(err, ShouldBeNil)
			case <-time.After(3 * time.Second):
				So("watch did not stop", ShouldBeEmpty)
			}
		})

		Convey("When the file is replaced by rename and later written in place", func() {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			log := logger.New(&bytes.Buffer{}, slog.LevelDebug)
			changes := make(chan *model.Pool, 16)
			done := make(chan error, 1)
			go func() {
				done <- pool.Watch(ctx, path, log, func(p *model.Pool) { changes <- p })
			}()

			waitFor := func(n int) *model.Pool {
				deadline := time.After(3 * time.Second)
				for {
					select {
					case p := <-changes:
						if p.Len() == n {
							return p
						}
					case <-deadline:
						return nil
					}
				}
			}

			time.Sleep(100 * time.Millisecond)
			tmp := path + ".tmp"
			So(os.WriteFile(tmp, []byte(`players: {a: {name: A}, b: {name: B}}`), 0o600), ShouldBeNil)
			So(os.Rename(tmp, path), ShouldBeNil)
			afterRename := waitFor(2)

			So(os.WriteFile(path, []byte(`players: {a: {name: A}, b: {name: B}, c: {name: C}}`), 0o600), ShouldBeNil)
			afterWrite := waitFor(3)

			Convey("Then both replacements are delivered", func() {
				So(afterRename, ShouldNotBeNil)
				So(afterWrite, ShouldNotBeNil)
				_, ok := afterWrite.Get("c")
				So(ok, ShouldBeTrue)
			})

			cancel()
			select {
			case err := <-done:
				So(err, ShouldBeNil)
			case <-time.After(3 * time.Second):
				So("watch did not stop", ShouldBeEmpty)
			}
		})
	})
}
