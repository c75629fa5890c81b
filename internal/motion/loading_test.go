package motion_test

import (
	"testing"
	"time"

	"github.com/vgandi/cyber-portfolio/internal/motion"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoading(t *testing.T) {
	Convey("Given a loading sequencer with eight messages", t, func() {
		clock := motion.NewManualClock(epoch)
		completions := 0
		l := motion.NewLoading(clock, 8, func() { completions++ })

		Convey("Nothing moves before Start", func() {
			clock.Advance(10 * time.Second)
			So(l.State().Progress, ShouldEqual, 0)
			So(completions, ShouldEqual, 0)
		})

		Convey("Progress grows by 2 every 80ms and reaches 100 after 50 ticks", func() {
			l.Start()
			clock.Advance(80 * time.Millisecond)
			So(l.State().Progress, ShouldEqual, 2)

			clock.Advance(49*80*time.Millisecond - time.Millisecond)
			So(l.State().Progress, ShouldEqual, 98)

			clock.Advance(time.Millisecond)
			So(l.State().Progress, ShouldEqual, 100)
			So(completions, ShouldEqual, 0)

			Convey("Completion fires exactly once 500ms later", func() {
				clock.Advance(499 * time.Millisecond)
				So(completions, ShouldEqual, 0)
				So(l.Completed(), ShouldBeFalse)

				clock.Advance(time.Millisecond)
				So(completions, ShouldEqual, 1)
				So(l.Completed(), ShouldBeTrue)

				clock.Advance(time.Minute)
				So(completions, ShouldEqual, 1)
				So(l.State().Progress, ShouldEqual, 100)
			})
		})

		Convey("Messages rotate every second and wrap", func() {
			l.Start()
			clock.Advance(time.Second)
			So(l.State().MessageIndex, ShouldEqual, 1)
			clock.Advance(7 * time.Second)
			So(l.State().MessageIndex, ShouldEqual, 0)
		})

		Convey("The rotator keeps running after completion until Stop", func() {
			l.Start()
			clock.Advance(4500 * time.Millisecond)
			So(completions, ShouldEqual, 1)
			before := l.State().MessageIndex

			clock.Advance(time.Second)
			So(l.State().MessageIndex, ShouldEqual, (before+1)%8)
			So(clock.Pending(), ShouldEqual, 1)

			l.Stop()
			clock.Advance(5 * time.Second)
			So(l.State().MessageIndex, ShouldEqual, (before+1)%8)
			So(clock.Pending(), ShouldEqual, 0)
		})

		Convey("Stopping before completion suppresses the callback", func() {
			l.Start()
			clock.Advance(4200 * time.Millisecond)
			l.Stop()
			l.Stop()
			clock.Advance(time.Minute)
			So(completions, ShouldEqual, 0)
			So(clock.Pending(), ShouldEqual, 0)
		})

		Convey("Progress never decreases", func() {
			var seen []int
			l2 := motion.NewLoading(clock, 8, nil, motion.WithLoadingUpdate(func(s motion.LoadingState) {
				seen = append(seen, s.Progress)
			}))
			l2.Start()
			clock.Advance(10 * time.Second)
			l2.Stop()
			for i := 1; i < len(seen); i++ {
				So(seen[i], ShouldBeGreaterThanOrEqualTo, seen[i-1])
			}
		})
	})

	Convey("Custom cadences are honoured", t, func() {
		clock := motion.NewManualClock(epoch)
		done := 0
		l := motion.NewLoading(clock, 0, func() { done++ },
			motion.WithLoadingInterval(10*time.Millisecond),
			motion.WithLoadingStep(30),
			motion.WithCompleteDelay(0),
		)
		l.Start()
		clock.Advance(40 * time.Millisecond)
		So(l.State().Progress, ShouldEqual, 100)
		So(done, ShouldEqual, 1)
		So(clock.Pending(), ShouldEqual, 0)
	})
}

func TestReachedCount(t *testing.T) {
	tests := []struct {
		progress, n, want int
	}{
		{0, 8, 1},
		{12, 8, 1},
		{13, 8, 2},
		{50, 8, 5},
		{99, 8, 8},
		{100, 8, 8},
		{100, 0, 0},
	}
	for _, tt := range tests {
		if got := motion.ReachedCount(tt.progress, tt.n); got != tt.want {
			t.Errorf("ReachedCount(%d, %d) = %d, want %d", tt.progress, tt.n, got, tt.want)
		}
	}
}
