package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		ctx := context.Background()

		Convey("When initialized with defaults", func() {
			So(Init(), ShouldBeNil)
			So(Get(), ShouldNotBeNil)
			So(Sync(), ShouldBeNil)
		})

		Convey("When initialized with the json format", func() {
			var buf bytes.Buffer
			So(Init(WithFormat("JSON"), WithWriter(&buf)), ShouldBeNil)
			Get().Info(ctx, "pick added", String("league", "l1"), Bool("mine", true))

			var line map[string]any
			So(json.Unmarshal(buf.Bytes(), &line), ShouldBeNil)
			So(line["msg"], ShouldEqual, "pick added")
			So(line["league"], ShouldEqual, "l1")
			So(line["mine"], ShouldEqual, true)
			So(line["source"], ShouldContainSubstring, "logger_test.go")
		})

		Convey("When a named logger writes", func() {
			var buf bytes.Buffer
			So(Init(WithWriter(&buf)), ShouldBeNil)
			Named("ranking").Warn(ctx, "unmatched roster", Strings("names", []string{"L. James"}))
			So(buf.String(), ShouldContainSubstring, "ranking.names")
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given a text logger", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf)), ShouldBeNil)
		ctx := context.Background()

		Convey("Debug is hidden at info and shown at debug", func() {
			Get().Debug(ctx, "hidden")
			So(buf.String(), ShouldBeEmpty)

			So(SetLevelString(" Debug "), ShouldBeNil)
			Get().Debug(ctx, "shown")
			So(buf.String(), ShouldContainSubstring, "shown")
		})

		Convey("Known levels parse and unknown ones fail", func() {
			for _, lvl := range []string{"", "info", "warn", "warning", "error"} {
				So(SetLevelString(lvl), ShouldBeNil)
			}
			So(SetLevelString("loud"), ShouldNotBeNil)
		})
	})
}

func TestNew(t *testing.T) {
	Convey("A standalone logger honours its level", t, func() {
		var buf bytes.Buffer
		l := New(&buf, slog.LevelWarn)
		l.Info(context.Background(), "quiet")
		l.Error(context.Background(), "loud", Int("code", 7))
		So(strings.Contains(buf.String(), "quiet"), ShouldBeFalse)
		So(buf.String(), ShouldContainSubstring, "code=7")
	})

	Convey("Typed fields render as their values", t, func() {
		var buf bytes.Buffer
		New(&buf, slog.LevelDebug).Info(context.Background(), "flags", Bool("mcp", true), Strings("cats", []string{"pts"}))
		So(buf.String(), ShouldContainSubstring, "mcp=true")
		So(buf.String(), ShouldContainSubstring, "cats=[pts]")
	})
}
