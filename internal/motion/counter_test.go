package motion_test

import (
	"testing"
	"time"

	"github.com/vgandi/cyber-portfolio/internal/motion"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCounterValue(t *testing.T) {
	Convey("Given target 100 over 2s", t, func() {
		const target, d = 100, 2 * time.Second

		Convey("It starts at zero and ends at target", func() {
			So(motion.CounterValue(target, d, 0), ShouldEqual, 0)
			So(motion.CounterValue(target, d, d), ShouldEqual, target)
			So(motion.CounterValue(target, d, 10*d), ShouldEqual, target)
		})

		Convey("It is at 50 half way", func() {
			So(motion.CounterValue(target, d, time.Second), ShouldAlmostEqual, 50, 1)
		})

		Convey("It never decreases", func() {
			prev := 0
			for e := time.Duration(0); e <= d+time.Second; e += 7 * time.Millisecond {
				v := motion.CounterValue(target, d, e)
				So(v, ShouldBeGreaterThanOrEqualTo, prev)
				prev = v
			}
		})
	})

	Convey("A zero duration jumps straight to target", t, func() {
		So(motion.CounterValue(6, 0, time.Millisecond), ShouldEqual, 6)
	})
}

func TestCounter(t *testing.T) {
	Convey("Given a counter to 100 over 2s", t, func() {
		clock := motion.NewManualClock(epoch)
		var seen []int
		c := motion.NewCounter(clock, 100,
			motion.WithCounterDuration(2*time.Second),
			motion.WithFrameInterval(10*time.Millisecond),
			motion.WithCounterUpdate(func(v int) { seen = append(seen, v) }),
		)

		Convey("Nothing happens before the trigger", func() {
			clock.Advance(5 * time.Second)
			So(c.Value(), ShouldEqual, 0)
			So(seen, ShouldBeEmpty)
			So(clock.Pending(), ShouldEqual, 0)
		})

		Convey("After the trigger it samples on every frame", func() {
			c.Trigger()
			clock.Advance(time.Second)
			So(c.Value(), ShouldEqual, 50)
			So(seen, ShouldHaveLength, 100)
			So(c.Done(), ShouldBeFalse)

			clock.Advance(time.Second)
			So(c.Value(), ShouldEqual, 100)
			So(c.Done(), ShouldBeTrue)
			So(clock.Pending(), ShouldEqual, 0)

			Convey("And holds at target", func() {
				clock.Advance(time.Minute)
				So(c.Value(), ShouldEqual, 100)
			})
		})

		Convey("A second trigger does not restart it", func() {
			c.Trigger()
			clock.Advance(1500 * time.Millisecond)
			c.Trigger()
			clock.Advance(500 * time.Millisecond)
			So(c.Value(), ShouldEqual, 100)
			So(c.Done(), ShouldBeTrue)
		})

		Convey("Stop ends sampling and is idempotent", func() {
			c.Trigger()
			clock.Advance(500 * time.Millisecond)
			c.Stop()
			c.Stop()
			v := c.Value()
			clock.Advance(5 * time.Second)
			So(c.Value(), ShouldEqual, v)
			So(clock.Pending(), ShouldEqual, 0)
		})

		Convey("Values are non-decreasing", func() {
			c.Trigger()
			clock.Advance(3 * time.Second)
			for i := 1; i < len(seen); i++ {
				So(seen[i], ShouldBeGreaterThanOrEqualTo, seen[i-1])
			}
			So(seen[len(seen)-1], ShouldEqual, 100)
		})
	})
}
