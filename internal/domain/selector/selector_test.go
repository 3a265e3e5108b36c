package selector_test

import (
	"fmt"
	"math/rand"
	"testing"

	coverage "github.com/virden/faceoff/internal/domain/coverage"
	"github.com/virden/faceoff/internal/domain/model"
	selector "github.com/virden/faceoff/internal/domain/selector"
	. "github.com/smartystreets/goconvey/convey"
)

func seeded(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed)) //nolint:gosec // fixed seed for reproducible tests
}

func makeItems(n int) []model.Item {
	items := make([]model.Item, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, model.Item{
			ID:     fmt.Sprintf("item-%02d", i),
			Rating: 1200,
		})
	}
	return items
}

func TestPickInsufficientItems(t *testing.T) {
	Convey("Given a selector", t, func() {
		sel := selector.New(selector.WithRand(seeded(1)))
		cov := coverage.New()

		Convey("When no items exist", func() {
			_, err := sel.Pick(nil, cov)

			Convey("Then selection fails", func() {
				So(err, ShouldEqual, selector.ErrInsufficientItems)
			})
		})

		Convey("When only one item exists", func() {
			_, err := sel.Pick(makeItems(1), cov)

			Convey("Then selection fails", func() {
				So(err, ShouldEqual, selector.ErrInsufficientItems)
			})
		})

		Convey("When exactly two items exist", func() {
			pick, err := sel.Pick(makeItems(2), cov)

			Convey("Then the only pair comes back", func() {
				So(err, ShouldBeNil)
				So(pick.A.ID, ShouldNotEqual, pick.B.ID)
				So(pick.Key, ShouldEqual, coverage.PairKey("item-00", "item-01"))
			})
		})
	})
}

func TestPickDistinctness(t *testing.T) {
	Convey("Given any arena size", t, func() {
		sel := selector.New(selector.WithRand(seeded(7)))
		cov := coverage.New()
		items := makeItems(9)

		Convey("When picking many times", func() {
			Convey("Then the two sides are never the same item", func() {
				for i := 0; i < 500; i++ {
					pick, err := sel.Pick(items, cov)
					So(err, ShouldBeNil)
					So(pick.A.ID, ShouldNotEqual, pick.B.ID)
					So(pick.Key, ShouldEqual, coverage.PairKey(pick.A.ID, pick.B.ID))
				}
			})
		})
	})
}

func TestPickPrefersLeastCompared(t *testing.T) {
	Convey("Given items with lopsided comparison counts", t, func() {
		sel := selector.New(selector.WithRand(seeded(42)))
		cov := coverage.New()

		// Four untouched items and six well-covered ones. With a 0.4
		// pool fraction the pool is exactly the untouched four.
		items := makeItems(10)
		for i := 4; i < 10; i++ {
			items[i].Comparisons = 100
		}
		fresh := map[string]bool{
			"item-00": true, "item-01": true, "item-02": true, "item-03": true,
		}

		Convey("When nothing has been seen yet", func() {
			Convey("Then every pick stays inside the least-compared pool", func() {
				for i := 0; i < 200; i++ {
					pick, err := sel.Pick(items, cov)
					So(err, ShouldBeNil)
					So(fresh[pick.A.ID], ShouldBeTrue)
					So(fresh[pick.B.ID], ShouldBeTrue)
					So(pick.Fallback, ShouldBeFalse)
					So(pick.Repeat, ShouldBeFalse)
				}
			})
		})
	})
}

func TestPickRepeatProbability(t *testing.T) {
	Convey("Given a fully covered item set", t, func() {
		items := makeItems(4)
		cov := coverage.New()
		for i := 0; i < 4; i++ {
			for j := i + 1; j < 4; j++ {
				cov.Record(coverage.PairKey(items[i].ID, items[j].ID))
			}
		}

		Convey("When repeats are always accepted", func() {
			sel := selector.New(
				selector.WithRand(seeded(3)),
				selector.WithRepeatProbability(1.0),
			)
			pick, err := sel.Pick(items, cov)

			Convey("Then the first draw is served as a repeat", func() {
				So(err, ShouldBeNil)
				So(pick.Repeat, ShouldBeTrue)
				So(pick.Fallback, ShouldBeFalse)
			})
		})

		Convey("When repeats are never accepted", func() {
			sel := selector.New(
				selector.WithRand(seeded(3)),
				selector.WithRepeatProbability(0.0),
				selector.WithMaxAttempts(5),
			)
			pick, err := sel.Pick(items, cov)

			Convey("Then selection exhausts its attempts and falls back", func() {
				So(err, ShouldBeNil)
				So(pick.Fallback, ShouldBeTrue)
				So(pick.Repeat, ShouldBeTrue)
				So(pick.A.ID, ShouldNotEqual, pick.B.ID)
			})
		})
	})
}

func TestPickFallbackUsesFullSet(t *testing.T) {
	Convey("Given a covered pool and an untouched tail", t, func() {
		// Pool pairs are all seen; the fallback draws over everything,
		// so tail items must eventually appear.
		items := makeItems(10)
		for i := 4; i < 10; i++ {
			items[i].Comparisons = 50
		}
		cov := coverage.New()
		for i := 0; i < 10; i++ {
			for j := i + 1; j < 10; j++ {
				cov.Record(coverage.PairKey(items[i].ID, items[j].ID))
			}
		}

		sel := selector.New(
			selector.WithRand(seeded(11)),
			selector.WithRepeatProbability(0.0),
			selector.WithMaxAttempts(3),
		)

		Convey("When picking repeatedly", func() {
			sawTail := false
			for i := 0; i < 300 && !sawTail; i++ {
				pick, err := sel.Pick(items, cov)
				So(err, ShouldBeNil)
				So(pick.Fallback, ShouldBeTrue)
				if pick.A.Comparisons == 50 || pick.B.Comparisons == 50 {
					sawTail = true
				}
			}

			Convey("Then the fallback reaches beyond the pool", func() {
				So(sawTail, ShouldBeTrue)
			})
		})
	})
}

func TestSelectorOptions(t *testing.T) {
	Convey("Given selector options", t, func() {
		Convey("When passing out-of-range values", func() {
			sel := selector.New(
				selector.WithPoolFraction(0),
				selector.WithPoolFraction(1.5),
				selector.WithRepeatProbability(-0.1),
				selector.WithRepeatProbability(2),
				selector.WithMaxAttempts(0),
				selector.WithRand(nil),
				selector.WithRand(seeded(5)),
			)
			cov := coverage.New()

			Convey("Then the selector still behaves with defaults", func() {
				pick, err := sel.Pick(makeItems(3), cov)
				So(err, ShouldBeNil)
				So(pick.A.ID, ShouldNotEqual, pick.B.ID)
			})
		})

		Convey("When the pool fraction covers the whole set", func() {
			sel := selector.New(
				selector.WithRand(seeded(9)),
				selector.WithPoolFraction(1.0),
			)
			cov := coverage.New()
			items := makeItems(5)

			seen := map[string]bool{}
			for i := 0; i < 400; i++ {
				pick, err := sel.Pick(items, cov)
				So(err, ShouldBeNil)
				seen[pick.A.ID] = true
				seen[pick.B.ID] = true
			}

			Convey("Then every item can be drawn", func() {
				So(len(seen), ShouldEqual, 5)
			})
		})
	})
}
