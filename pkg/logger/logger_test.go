package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given a logger writing JSON to a buffer", t, func() {
		var buf bytes.Buffer
		So(InitWriter(&buf, true), ShouldBeNil)
		ctx := context.Background()

		Convey("Info lines carry fields and the caller", func() {
			Get().Info(ctx, "hello", String("k", "v"), Int("n", 3))
			out := buf.String()
			So(out, ShouldContainSubstring, `"msg":"hello"`)
			So(out, ShouldContainSubstring, `"k":"v"`)
			So(out, ShouldContainSubstring, `"n":3`)
			So(out, ShouldContainSubstring, "logger_test.go")
		})

		Convey("Debug is filtered at the default level", func() {
			Get().Debug(ctx, "hidden")
			So(buf.String(), ShouldBeEmpty)

			So(SetLevelString("debug"), ShouldBeNil)
			Get().Debug(ctx, "shown")
			So(buf.String(), ShouldContainSubstring, "shown")
		})

		Convey("Named and With add attributes", func() {
			Named("site").With(String("session", "abc")).Warn(ctx, "careful", Error(errors.New("boom")))
			out := buf.String()
			So(out, ShouldContainSubstring, `"logger":"site"`)
			So(out, ShouldContainSubstring, `"session":"abc"`)
			So(out, ShouldContainSubstring, `"error":"boom"`)
		})

		Convey("A nil context is tolerated", func() {
			So(func() { Get().Error(nil, "no ctx") }, ShouldNotPanic) //nolint:staticcheck
		})
	})

	Convey("Unknown levels are rejected", t, func() {
		So(SetLevelString("loud"), ShouldNotBeNil)
		So(SetLevelString("WARNING"), ShouldBeNil)
		So(SetLevelString(""), ShouldBeNil)
	})

	Convey("A nil writer is rejected", t, func() {
		So(InitWriter(nil, false), ShouldNotBeNil)
	})

	Convey("Nop discards", t, func() {
		So(func() { Nop().Error(context.Background(), "x") }, ShouldNotPanic)
	})
}
