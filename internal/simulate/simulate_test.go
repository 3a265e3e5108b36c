package simulate

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerateSubmissions(t *testing.T) {
	Convey("Given a seeded generator", t, func() {
		ctx := context.Background()
		config := &Config{Items: 24}

		Convey("When generating a batch", func() {
			subs := generateSubmissions(ctx, config, rand.New(rand.NewSource(7)))

			Convey("Then every item has a label and a distinct source", func() {
				So(subs, ShouldHaveLength, 24)
				seen := make(map[string]bool)
				for _, sub := range subs {
					So(sub.Label, ShouldNotBeBlank)
					So(sub.Source, ShouldNotBeBlank)
					So(seen[sub.Source], ShouldBeFalse)
					seen[sub.Source] = true
				}
			})
		})

		Convey("When generating twice from the same seed", func() {
			first := generateSubmissions(ctx, config, rand.New(rand.NewSource(7)))
			second := generateSubmissions(ctx, config, rand.New(rand.NewSource(7)))

			Convey("Then the batches are identical", func() {
				So(second, ShouldResemble, first)
			})
		})

		Convey("When generating from different seeds", func() {
			first := generateSubmissions(ctx, config, rand.New(rand.NewSource(7)))
			second := generateSubmissions(ctx, config, rand.New(rand.NewSource(8)))

			Convey("Then the sources differ", func() {
				So(second[0].Source, ShouldNotEqual, first[0].Source)
			})
		})
	})
}

func TestPickWinner(t *testing.T) {
	Convey("Given a favorite and an underdog", t, func() {
		strong := &item{ID: "strong", Rating: 1300}
		weak := &item{ID: "weak", Rating: 1100}

		Convey("When picking winners over many trials", func() {
			rng := rand.New(rand.NewSource(11))
			strongWins := 0
			trials := 1000
			for i := 0; i < trials; i++ {
				winner, loser := pickWinner(rng, strong, weak)
				So(winner.ID, ShouldNotEqual, loser.ID)
				if winner.ID == "strong" {
					strongWins++
				}
			}

			Convey("Then the higher rating wins more often", func() {
				So(strongWins, ShouldBeGreaterThan, trials/2)
				So(strongWins, ShouldBeLessThan, trials)
			})
		})

		Convey("When the sides are swapped", func() {
			rng := rand.New(rand.NewSource(11))
			winner, loser := pickWinner(rng, weak, strong)

			Convey("Then both items still come back", func() {
				ids := []string{winner.ID, loser.ID}
				So(ids, ShouldContain, "strong")
				So(ids, ShouldContain, "weak")
			})
		})
	})
}

func TestVerifyLeaderboardOrder(t *testing.T) {
	Convey("Given leaderboard snapshots", t, func() {
		entry := func(rank int, rating float64) rankedEntry {
			return rankedEntry{Rank: rank, Item: item{ID: "x", Rating: rating}}
		}

		Convey("A sorted board with shared ranks passes", func() {
			board := []rankedEntry{entry(1, 1500), entry(1, 1500), entry(2, 1400), entry(3, 1200)}
			So(verifyLeaderboardOrder(board), ShouldBeNil)
		})

		Convey("A board that does not start at rank 1 fails", func() {
			board := []rankedEntry{entry(2, 1500)}
			So(verifyLeaderboardOrder(board), ShouldNotBeNil)
		})

		Convey("A rating increase down the board fails", func() {
			board := []rankedEntry{entry(1, 1400), entry(2, 1500)}
			So(verifyLeaderboardOrder(board), ShouldNotBeNil)
		})

		Convey("Equal ratings with different ranks fail", func() {
			board := []rankedEntry{entry(1, 1500), entry(2, 1500)}
			So(verifyLeaderboardOrder(board), ShouldNotBeNil)
		})

		Convey("A rank gap fails", func() {
			board := []rankedEntry{entry(1, 1500), entry(3, 1400)}
			So(verifyLeaderboardOrder(board), ShouldNotBeNil)
		})
	})
}

func TestVerifyBracket(t *testing.T) {
	Convey("Given a service serving item lookups", t, func() {
		ctx := context.Background()
		losses := map[string]int{"champ": 1, "e1": 3, "e2": 4}

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/items/")
			n, ok := losses[id]
			if !ok {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(rankedEntry{Rank: 1, Item: item{ID: id, Losses: n}})
		}))
		defer server.Close()

		client := newHTTPClient(time.Second)
		config := &Config{BaseURL: server.URL}
		final := tournamentView{
			Phase:         "completed",
			ActiveIDs:     []string{"champ"},
			EliminatedIDs: []string{"e1", "e2"},
			ChampionID:    "champ",
			LossLimit:     3,
		}

		Convey("A champion above the eliminated field passes", func() {
			So(verifyBracket(ctx, client, config, final), ShouldBeNil)
		})

		Convey("A missing champion fails", func() {
			bad := final
			bad.ChampionID = ""
			So(verifyBracket(ctx, client, config, bad), ShouldNotBeNil)
		})

		Convey("Active ids that are not just the champion fail", func() {
			bad := final
			bad.ActiveIDs = []string{"champ", "e1"}
			So(verifyBracket(ctx, client, config, bad), ShouldNotBeNil)
		})

		Convey("A champion listed as eliminated fails", func() {
			bad := final
			bad.EliminatedIDs = []string{"champ", "e1"}
			So(verifyBracket(ctx, client, config, bad), ShouldNotBeNil)
		})

		Convey("An eliminated id below the loss limit fails", func() {
			losses["e1"] = 2
			So(verifyBracket(ctx, client, config, final), ShouldNotBeNil)
		})

		Convey("A champion at the loss limit fails", func() {
			losses["champ"] = 3
			So(verifyBracket(ctx, client, config, final), ShouldNotBeNil)
		})

		Convey("An id the service does not know fails", func() {
			bad := final
			bad.EliminatedIDs = []string{"ghost"}
			So(verifyBracket(ctx, client, config, bad), ShouldNotBeNil)
		})
	})
}

func TestCheckCoverage(t *testing.T) {
	Convey("Given a service reporting progress", t, func() {
		ctx := context.Background()
		progress := progressView{Items: 8, UniquePairs: 10, MaxPairs: 28, Ratio: 10.0 / 28.0, Verdicts: 12}

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(progress)
		}))
		defer server.Close()

		client := newHTTPClient(time.Second)
		config := &Config{BaseURL: server.URL}

		Convey("A ledger matching the verdicts played passes", func() {
			stats := &Stats{VerdictsApplied: 15, UndosApplied: 3}
			So(checkCoverage(ctx, client, config, progressView{}, stats), ShouldBeNil)
		})

		Convey("Undone verdicts are netted out against the baseline", func() {
			stats := &Stats{VerdictsApplied: 10, UndosApplied: 2}
			baseline := progressView{Verdicts: 4}
			So(checkCoverage(ctx, client, config, baseline, stats), ShouldBeNil)
		})

		Convey("A ledger that disagrees with the run fails", func() {
			stats := &Stats{VerdictsApplied: 15}
			So(checkCoverage(ctx, client, config, progressView{}, stats), ShouldNotBeNil)
		})
	})
}
