package visitors

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func setupTestStore(t *testing.T, now *time.Time) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "visitors.db"),
		WithSalt("test-salt"),
		WithNow(func() time.Time { return *now }))
	if err != nil {
		t.Fatalf("Failed to open visitor store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore(t *testing.T) {
	Convey("Given an empty visitor store", t, func() {
		now := time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)
		s := setupTestStore(t, &now)
		ctx := context.Background()

		Convey("Addresses are stored as truncated salted hashes", func() {
			h := s.HashIP("203.0.113.7")
			So(h, ShouldHaveLength, 16)
			So(h, ShouldEqual, s.HashIP("203.0.113.7"))
			So(h, ShouldNotEqual, s.HashIP("203.0.113.8"))

			So(s.Record(ctx, "203.0.113.7", "curl/8", "/"), ShouldBeNil)
			stats, err := s.Stats(ctx)
			So(err, ShouldBeNil)
			So(stats.RecentVisitors, ShouldHaveLength, 1)
			So(stats.RecentVisitors[0].HashedIP, ShouldEqual, h)
			So(stats.RecentVisitors[0].Timestamp.Equal(now), ShouldBeTrue)
		})

		Convey("Stats count totals, uniques and recent windows", func() {
			record := func(at time.Time, ip, path string) {
				now = at
				So(s.Record(ctx, ip, "ua", path), ShouldBeNil)
			}
			base := time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)
			record(base.Add(-30*24*time.Hour), "a", "/")
			record(base.Add(-3*24*time.Hour), "b", "/")
			record(base.Add(-2*time.Hour), "a", "/skills/cloud")
			record(base.Add(-time.Hour), "c", "/")
			now = base

			stats, err := s.Stats(ctx)
			So(err, ShouldBeNil)
			So(stats.TotalVisitors, ShouldEqual, 4)
			So(stats.UniqueVisitors, ShouldEqual, 3)
			So(stats.VisitorsToday, ShouldEqual, 2)
			So(stats.VisitorsThisWeek, ShouldEqual, 3)
			So(stats.TopPaths[0], ShouldResemble, PathCount{Path: "/", Views: 3})
			So(stats.RecentVisitors[0].Path, ShouldEqual, "/")
			So(stats.RecentVisitors[1].Path, ShouldEqual, "/skills/cloud")
		})

		Convey("Cleanup removes rows past the retention", func() {
			base := now
			now = base.Add(-400 * 24 * time.Hour)
			So(s.Record(ctx, "a", "ua", "/"), ShouldBeNil)
			now = base.Add(-10 * 24 * time.Hour)
			So(s.Record(ctx, "b", "ua", "/"), ShouldBeNil)
			now = base

			n, err := s.Cleanup(ctx, 365*24*time.Hour)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 1)

			stats, _ := s.Stats(ctx)
			So(stats.TotalVisitors, ShouldEqual, 1)
		})
	})
}

func TestOpenFailure(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "visitors.db"))
	if !errors.Is(err, ErrOpen) {
		t.Fatalf("got %v, want ErrOpen", err)
	}
}

func TestRandomToken(t *testing.T) {
	a, err := RandomToken()
	if err != nil {
		t.Fatal(err)
	}
	b, _ := RandomToken()
	if len(a) != 64 || a == b {
		t.Fatalf("tokens %q and %q", a, b)
	}
}
