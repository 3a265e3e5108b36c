package coverage_test

import (
	"testing"

	coverage "github.com/virden/faceoff/internal/domain/coverage"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPairKey(t *testing.T) {
	Convey("Given pair key construction", t, func() {
		Convey("When the ids arrive in either order", func() {
			Convey("Then both orders yield the same key", func() {
				So(coverage.PairKey("a", "b"), ShouldEqual, coverage.PairKey("b", "a"))
				So(coverage.PairKey("a", "b"), ShouldEqual, "a|b")
			})
		})

		Convey("When splitting a key", func() {
			first, second := coverage.SplitKey("a|b")

			Convey("Then both ids come back", func() {
				So(first, ShouldEqual, "a")
				So(second, ShouldEqual, "b")
			})
		})

		Convey("When ids are UUID-shaped", func() {
			key := coverage.PairKey(
				"f47ac10b-58cc-4372-a567-0e02b2c3d479",
				"0b1f7d2e-9c4a-4d8b-8f3e-5a6b7c8d9e0f",
			)

			Convey("Then the lexicographically smaller id leads", func() {
				So(key, ShouldStartWith, "0b1f7d2e")
			})
		})
	})
}

func TestMaxPairs(t *testing.T) {
	Convey("Given the pair-count formula", t, func() {
		Convey("Then it matches n*(n-1)/2", func() {
			So(coverage.MaxPairs(0), ShouldEqual, 0)
			So(coverage.MaxPairs(1), ShouldEqual, 0)
			So(coverage.MaxPairs(2), ShouldEqual, 1)
			So(coverage.MaxPairs(4), ShouldEqual, 6)
			So(coverage.MaxPairs(10), ShouldEqual, 45)
		})
	})
}

func TestTrackerRecordUncount(t *testing.T) {
	Convey("Given an empty tracker", t, func() {
		tracker := coverage.New()
		key := coverage.PairKey("a", "b")

		Convey("Then nothing is seen yet", func() {
			So(tracker.Seen(key), ShouldBeFalse)
			So(tracker.Count(key), ShouldEqual, 0)
			So(tracker.UniquePairs(), ShouldEqual, 0)
		})

		Convey("When recording a pair once", func() {
			tracker.Record(key)

			Convey("Then it is seen with count one", func() {
				So(tracker.Seen(key), ShouldBeTrue)
				So(tracker.Count(key), ShouldEqual, 1)
				So(tracker.UniquePairs(), ShouldEqual, 1)
			})

			Convey("And uncounting removes the entry entirely", func() {
				tracker.Uncount(key)
				So(tracker.Seen(key), ShouldBeFalse)
				So(tracker.Count(key), ShouldEqual, 0)
				So(tracker.UniquePairs(), ShouldEqual, 0)
			})
		})

		Convey("When recording the same pair three times", func() {
			tracker.Record(key)
			tracker.Record(key)
			tracker.Record(key)

			Convey("Then the count accumulates on one entry", func() {
				So(tracker.Count(key), ShouldEqual, 3)
				So(tracker.UniquePairs(), ShouldEqual, 1)
			})

			Convey("And uncounting steps it back down", func() {
				tracker.Uncount(key)
				So(tracker.Count(key), ShouldEqual, 2)
				So(tracker.Seen(key), ShouldBeTrue)
			})
		})

		Convey("When uncounting a pair never recorded", func() {
			tracker.Uncount(coverage.PairKey("x", "y"))

			Convey("Then nothing happens", func() {
				So(tracker.UniquePairs(), ShouldEqual, 0)
			})
		})
	})
}

func TestTrackerPurge(t *testing.T) {
	Convey("Given a tracker with pairs touching several items", t, func() {
		tracker := coverage.New()
		tracker.Record(coverage.PairKey("a", "b"))
		tracker.Record(coverage.PairKey("a", "c"))
		tracker.Record(coverage.PairKey("b", "c"))
		tracker.Record(coverage.PairKey("c", "d"))

		Convey("When purging one item", func() {
			removed := tracker.Purge("c")

			Convey("Then every key touching it disappears", func() {
				So(removed, ShouldEqual, 3)
				So(tracker.UniquePairs(), ShouldEqual, 1)
				So(tracker.Seen(coverage.PairKey("a", "b")), ShouldBeTrue)
				So(tracker.Seen(coverage.PairKey("a", "c")), ShouldBeFalse)
				So(tracker.Seen(coverage.PairKey("b", "c")), ShouldBeFalse)
				So(tracker.Seen(coverage.PairKey("c", "d")), ShouldBeFalse)
			})
		})

		Convey("When purging an item with no pairs", func() {
			removed := tracker.Purge("zz")

			Convey("Then nothing is removed", func() {
				So(removed, ShouldEqual, 0)
				So(tracker.UniquePairs(), ShouldEqual, 4)
			})
		})
	})
}

func TestTrackerMapReplace(t *testing.T) {
	Convey("Given a tracker with state", t, func() {
		tracker := coverage.New()
		tracker.Record(coverage.PairKey("a", "b"))
		tracker.Record(coverage.PairKey("a", "b"))

		Convey("When exporting the map", func() {
			m := tracker.Map()

			Convey("Then it reflects the counts", func() {
				So(m, ShouldResemble, map[string]int{"a|b": 2})
			})

			Convey("And mutating the copy does not touch the tracker", func() {
				m["a|b"] = 99
				m["x|y"] = 1
				So(tracker.Count("a|b"), ShouldEqual, 2)
				So(tracker.Seen("x|y"), ShouldBeFalse)
			})
		})

		Convey("When replacing from an import", func() {
			tracker.Replace(map[string]int{"c|d": 4, "e|f": 0, "g|h": -2})

			Convey("Then only positive counts survive", func() {
				So(tracker.Count("c|d"), ShouldEqual, 4)
				So(tracker.Seen("e|f"), ShouldBeFalse)
				So(tracker.Seen("g|h"), ShouldBeFalse)
				So(tracker.Seen("a|b"), ShouldBeFalse)
				So(tracker.UniquePairs(), ShouldEqual, 1)
			})
		})

		Convey("When clearing", func() {
			tracker.Clear()

			Convey("Then the tracker is empty", func() {
				So(tracker.UniquePairs(), ShouldEqual, 0)
			})
		})
	})
}
