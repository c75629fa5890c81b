package motion_test

import (
	"testing"
	"time"

	"github.com/vgandi/cyber-portfolio/internal/motion"

	. "github.com/smartystreets/goconvey/convey"
)

var epoch = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestManualClock(t *testing.T) {
	Convey("Given a manual clock", t, func() {
		clock := motion.NewManualClock(epoch)

		Convey("Timers fire in due order when time advances", func() {
			var order []string
			clock.AfterFunc(30*time.Millisecond, func() { order = append(order, "c") })
			clock.AfterFunc(10*time.Millisecond, func() { order = append(order, "a") })
			clock.AfterFunc(20*time.Millisecond, func() { order = append(order, "b") })

			clock.Advance(15 * time.Millisecond)
			So(order, ShouldResemble, []string{"a"})

			clock.Advance(15 * time.Millisecond)
			So(order, ShouldResemble, []string{"a", "b", "c"})
			So(clock.Now(), ShouldEqual, epoch.Add(30*time.Millisecond))
		})

		Convey("Timers registered by callbacks fire within the same advance", func() {
			fired := 0
			clock.AfterFunc(10*time.Millisecond, func() {
				fired++
				clock.AfterFunc(10*time.Millisecond, func() { fired++ })
			})
			clock.Advance(20 * time.Millisecond)
			So(fired, ShouldEqual, 2)
		})

		Convey("A stopped timer never fires", func() {
			fired := false
			timer := clock.AfterFunc(10*time.Millisecond, func() { fired = true })
			So(timer.Stop(), ShouldBeTrue)
			So(timer.Stop(), ShouldBeFalse)
			clock.Advance(time.Second)
			So(fired, ShouldBeFalse)
			So(clock.Pending(), ShouldEqual, 0)
		})
	})
}

func TestHandle(t *testing.T) {
	Convey("Given a periodic registration", t, func() {
		clock := motion.NewManualClock(epoch)
		ticks := 0
		h := motion.Every(clock, 100*time.Millisecond, func() { ticks++ })

		Convey("It fires once per period", func() {
			clock.Advance(350 * time.Millisecond)
			So(ticks, ShouldEqual, 3)
			So(clock.Pending(), ShouldEqual, 1)
		})

		Convey("Cancel stops it and is idempotent", func() {
			clock.Advance(100 * time.Millisecond)
			h.Cancel()
			So(func() { h.Cancel() }, ShouldNotPanic)
			clock.Advance(time.Second)
			So(ticks, ShouldEqual, 1)
			So(h.Cancelled(), ShouldBeTrue)
			So(clock.Pending(), ShouldEqual, 0)
		})

		Convey("Cancelling from inside the callback stops re-arming", func() {
			var self *motion.Handle
			n := 0
			self = motion.Every(clock, 10*time.Millisecond, func() {
				n++
				if n == 2 {
					self.Cancel()
				}
			})
			h.Cancel()
			clock.Advance(time.Second)
			So(n, ShouldEqual, 2)
		})
	})

	Convey("A nil handle can be cancelled", t, func() {
		var h *motion.Handle
		So(func() { h.Cancel() }, ShouldNotPanic)
		So(h.Cancelled(), ShouldBeTrue)
	})

	Convey("A one-shot registration fires once", t, func() {
		clock := motion.NewManualClock(epoch)
		n := 0
		motion.After(clock, 50*time.Millisecond, func() { n++ })
		clock.Advance(time.Second)
		So(n, ShouldEqual, 1)
	})
}

func TestSystemClock(t *testing.T) {
	Convey("The system clock runs callbacks on real timers", t, func() {
		done := make(chan struct{})
		motion.After(motion.SystemClock(), time.Millisecond, func() { close(done) })
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timer did not fire")
		}
	})
}
