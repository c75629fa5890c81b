package page_test

import (
	"context"
	"testing"
	"time"

	"github.com/vgandi/cyber-portfolio/internal/content"
	"github.com/vgandi/cyber-portfolio/internal/motion"
	"github.com/vgandi/cyber-portfolio/internal/page"
	"github.com/vgandi/cyber-portfolio/pkg/metrics"

	. "github.com/smartystreets/goconvey/convey"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// splash is how long the default splash takes: 50 ticks of 80ms, then the
// completion delay.
const (
	progressDone = 50 * 80 * time.Millisecond
	splash       = progressDone + 500*time.Millisecond
)

func newStore(t *testing.T, clock *motion.ManualClock) *page.Store {
	t.Helper()
	return newStoreWith(t, page.Options{Clock: clock, ReconnectGrace: 30 * time.Second})
}

func newStoreWith(t *testing.T, opts page.Options) *page.Store {
	t.Helper()
	p, err := content.Default()
	if err != nil {
		t.Fatalf("content: %v", err)
	}
	opts.Metrics = metrics.NewManager()
	return page.NewStore(p, 10*time.Minute, opts)
}

func names(events []page.Event) []string {
	out := make([]string, len(events))
	for i, ev := range events {
		out[i] = ev.Name
	}
	return out
}

func signalled(s *page.Session) bool {
	select {
	case <-s.Notify():
		return true
	default:
		return false
	}
}

// aboutInView puts the about section and its counters fully on screen.
func aboutInView() page.ViewportUpdate {
	return page.ViewportUpdate{
		Viewport: motion.Viewport{ScrollY: 900, DocumentHeight: 6000, ViewportHeight: 800},
		Regions: map[page.SectionID]motion.Region{
			page.SectionHero:     {Top: 0, Height: 800},
			page.SectionAbout:    {Top: 1000, Height: 600},
			page.StatsRegion:     {Top: 1100, Height: 200},
			page.SectionProjects: {Top: 3000, Height: 900},
		},
	}
}

func TestSessionGating(t *testing.T) {
	Convey("Given a freshly opened session", t, func() {
		clock := motion.NewManualClock(epoch)
		store := newStore(t, clock)
		s := store.Open(context.Background())

		Convey("Nothing is pending before the first tick", func() {
			So(s.Drain(), ShouldBeEmpty)
			So(signalled(s), ShouldBeFalse)
		})

		Convey("Only the splash runs before completion", func() {
			clock.Advance(80 * time.Millisecond)
			So(signalled(s), ShouldBeTrue)

			events := s.Drain()
			So(names(events), ShouldResemble, []string{page.EventLoading})
			ev := events[0].Data.(page.LoadingEvent)
			So(ev.Progress, ShouldEqual, 2)
			So(ev.Message, ShouldEqual, "Initializing Security Protocols...")

			res, err := s.Viewport(aboutInView())
			So(err, ShouldBeNil)
			So(res.Loaded, ShouldBeFalse)
			So(res.Visible, ShouldBeEmpty)
			So(names(s.Drain()), ShouldResemble, []string{page.EventScroll})

			clock.Advance(progressDone - 80*time.Millisecond)
			So(s.Loaded(), ShouldBeFalse)
			st, ok := s.Section(page.SectionAbout)
			So(ok, ShouldBeTrue)
			So(st.Revealed, ShouldBeFalse)
		})

		Convey("Completion mounts the page and replays the last viewport", func() {
			_, err := s.Viewport(aboutInView())
			So(err, ShouldBeNil)
			clock.Advance(progressDone)
			s.Drain()

			clock.Advance(splash - progressDone)
			So(s.Loaded(), ShouldBeTrue)

			events := s.Drain()
			So(names(events), ShouldResemble, []string{page.EventLoaded, page.EventReveal, page.EventReveal})
			So(events[1].Data.(page.RevealEvent).Section, ShouldEqual, page.SectionHero)
			So(events[2].Data.(page.RevealEvent).Section, ShouldEqual, page.SectionAbout)

			Convey("The hero staggers its children after an initial delay", func() {
				items := events[1].Data.(page.RevealEvent).Items
				So(items[0].DelayMS, ShouldEqual, 200)
				So(items[1].DelayMS, ShouldEqual, 500)
				So(items[0].DurationMS, ShouldEqual, 600)
			})

			Convey("The typewriter starts typing", func() {
				clock.Advance(100 * time.Millisecond)
				events := s.Drain()
				So(names(events), ShouldContain, page.EventTypewriter)
			})

			Convey("The counters run to their targets", func() {
				clock.Advance(2100 * time.Millisecond)
				var counters []page.CounterEvent
				for _, ev := range s.Drain() {
					if ev.Name == page.EventCounter {
						counters = append(counters, ev.Data.(page.CounterEvent))
					}
				}
				So(counters, ShouldHaveLength, 4)
				So(counters[0], ShouldResemble, page.CounterEvent{Key: "projects", Value: 5, Target: 5, Suffix: "+"})
				So(counters[3].Value, ShouldEqual, 100)
			})
		})
	})
}

func TestSessionViewport(t *testing.T) {
	Convey("Given a mounted session", t, func() {
		clock := motion.NewManualClock(epoch)
		store := newStore(t, clock)
		s := store.Open(context.Background())
		clock.Advance(splash)
		s.Drain()

		Convey("Sections reveal once they cross their threshold", func() {
			v := aboutInView()
			v.Regions[page.SectionAbout] = motion.Region{Top: 1500, Height: 1000}
			res, err := s.Viewport(v)
			So(err, ShouldBeNil)
			So(res.Loaded, ShouldBeTrue)
			So(res.Visible[page.SectionHero], ShouldBeTrue)
			So(res.Visible[page.SectionAbout], ShouldBeFalse)
			So(res.Visible[page.SectionProjects], ShouldBeFalse)

			v.ScrollY = 1500
			res, _ = s.Viewport(v)
			So(res.Visible[page.SectionAbout], ShouldBeTrue)
			So(res.Scroll.Percent, ShouldEqual, 100*1500.0/5200)
			So(res.Scroll.ShowScrollTop, ShouldBeTrue)

			Convey("and stay revealed when scrolled away", func() {
				v.ScrollY = 0
				res, _ := s.Viewport(v)
				So(res.Visible[page.SectionAbout], ShouldBeTrue)
				So(res.Scroll.Scrolled, ShouldBeFalse)

				reveals := 0
				for _, ev := range s.Drain() {
					if ev.Name == page.EventReveal {
						reveals++
					}
				}
				So(reveals, ShouldEqual, 1)
			})

			Convey("Item frames follow the reveal stagger", func() {
				st, ok := s.Section(page.SectionAbout)
				So(ok, ShouldBeTrue)
				So(st.Revealed, ShouldBeTrue)
				So(st.Frames[0].Opacity, ShouldEqual, 0)

				clock.Advance(700 * time.Millisecond)
				st, _ = s.Section(page.SectionAbout)
				So(st.Frames[0].Visible, ShouldBeTrue)
				So(st.Frames[1].Visible, ShouldBeFalse)
				So(st.Frames[1].Opacity, ShouldBeGreaterThan, 0)
				So(st.Complete, ShouldBeFalse)

				var spec page.SectionSpec
				for _, sp := range store.Layout() {
					if sp.ID == page.SectionAbout {
						spec = sp
					}
				}
				clock.Advance(spec.Reveal.Total(spec.Items) - 700*time.Millisecond)
				st, _ = s.Section(page.SectionAbout)
				So(st.Complete, ShouldBeTrue)
				for _, fr := range st.Frames {
					So(fr.Visible, ShouldBeTrue)
				}
			})

			Convey("The reveal event carries the sequence length", func() {
				found := false
				for _, ev := range s.Drain() {
					if r, ok := ev.Data.(page.RevealEvent); ok && r.Section == page.SectionAbout {
						found = true
						last := r.Items[len(r.Items)-1]
						So(r.TotalMS, ShouldEqual, last.DelayMS+last.DurationMS)
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("A missing region is never visible", func() {
			res, _ := s.Viewport(page.ViewportUpdate{
				Viewport: motion.Viewport{ScrollY: 0, DocumentHeight: 4000, ViewportHeight: 900},
			})
			So(res.Visible[page.SectionContact], ShouldBeFalse)
		})

		Convey("Replay restates everything after a reconnect", func() {
			s.Replay()
			So(signalled(s), ShouldBeTrue)
			got := names(s.Drain())
			So(got, ShouldContain, page.EventLoading)
			So(got, ShouldContain, page.EventLoaded)
			So(got, ShouldContain, page.EventTypewriter)
			So(got, ShouldContain, page.EventScroll)
			So(got, ShouldContain, page.EventCounter)
		})
	})
}

func TestSessionClose(t *testing.T) {
	Convey("Closing a session cancels every timer it registered", t, func() {
		clock := motion.NewManualClock(epoch)
		store := newStore(t, clock)

		Convey("during the splash", func() {
			s := store.Open(context.Background())
			clock.Advance(time.Second)
			So(clock.Pending(), ShouldBeGreaterThan, 0)

			So(s.Close(), ShouldBeTrue)
			So(clock.Pending(), ShouldEqual, 0)
			So(s.Close(), ShouldBeFalse)

			clock.Advance(time.Minute)
			So(s.Loaded(), ShouldBeFalse)
			So(s.Drain(), ShouldBeEmpty)

			_, err := s.Viewport(aboutInView())
			So(err, ShouldEqual, page.ErrSessionClosed)
			<-s.Done()
		})

		Convey("after mount with counters running", func() {
			s := store.Open(context.Background())
			clock.Advance(splash)
			_, err := s.Viewport(aboutInView())
			So(err, ShouldBeNil)
			clock.Advance(time.Second)

			So(s.Close(), ShouldBeTrue)
			So(clock.Pending(), ShouldEqual, 0)
		})
	})
}
