package model_test

import (
	"encoding/json"
	"testing"

	model "github.com/virden/faceoff/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestItem(t *testing.T) {
	convey.Convey("Given an Item struct", t, func() {
		convey.Convey("When creating a new item", func() {
			item := model.Item{
				ID:          "7b0e7f1a-2f4e-4f6d-9a3c-1c2d3e4f5a6b",
				Label:       "sunset.jpg",
				Source:      "https://example.com/sunset.jpg",
				Rating:      1200,
				Wins:        3,
				Losses:      1,
				Comparisons: 4,
			}

			convey.Convey("Then it should have the correct values", func() {
				convey.So(item.ID, convey.ShouldEqual, "7b0e7f1a-2f4e-4f6d-9a3c-1c2d3e4f5a6b")
				convey.So(item.Label, convey.ShouldEqual, "sunset.jpg")
				convey.So(item.Source, convey.ShouldEqual, "https://example.com/sunset.jpg")
				convey.So(item.Rating, convey.ShouldEqual, 1200.0)
				convey.So(item.Wins, convey.ShouldEqual, 3)
				convey.So(item.Losses, convey.ShouldEqual, 1)
				convey.So(item.Comparisons, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When creating an item with zero values", func() {
			item := model.Item{}

			convey.Convey("Then it should have default values", func() {
				convey.So(item.ID, convey.ShouldEqual, "")
				convey.So(item.Rating, convey.ShouldEqual, 0.0)
				convey.So(item.Comparisons, convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When ratings drift below the initial value", func() {
			item := model.Item{ID: "x", Rating: 1184.0, Losses: 1, Comparisons: 1}

			convey.Convey("Then the rating stays an unconstrained float", func() {
				convey.So(item.Rating, convey.ShouldEqual, 1184.0)
			})
		})

		convey.Convey("When marshaling an item", func() {
			item := model.Item{ID: "a", Label: "L", Rating: 1216, Wins: 1, Comparisons: 1}
			data, err := json.Marshal(item)

			convey.Convey("Then the JSON keys follow the export schema", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(data), convey.ShouldContainSubstring, `"id":"a"`)
				convey.So(string(data), convey.ShouldContainSubstring, `"rating":1216`)
				convey.So(string(data), convey.ShouldContainSubstring, `"comparisons":1`)
				convey.So(string(data), convey.ShouldNotContainSubstring, `"source"`)
			})
		})
	})
}

func TestVerdict(t *testing.T) {
	convey.Convey("Given a Verdict struct", t, func() {
		convey.Convey("When creating a verdict", func() {
			v := model.Verdict{WinnerID: "w", LoserID: "l"}

			convey.Convey("Then it should carry both sides", func() {
				convey.So(v.WinnerID, convey.ShouldEqual, "w")
				convey.So(v.LoserID, convey.ShouldEqual, "l")
			})
		})

		convey.Convey("When unmarshaling a verdict payload", func() {
			var v model.Verdict
			err := json.Unmarshal([]byte(`{"winner_id":"a","loser_id":"b"}`), &v)

			convey.Convey("Then the snake_case keys should map", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(v.WinnerID, convey.ShouldEqual, "a")
				convey.So(v.LoserID, convey.ShouldEqual, "b")
			})
		})
	})
}

func TestTournamentState(t *testing.T) {
	convey.Convey("Given a TournamentState", t, func() {
		convey.Convey("When round-tripping through JSON", func() {
			state := model.TournamentState{
				Seed:          []string{"a", "b", "c"},
				ActiveIDs:     []string{"a", "c"},
				EliminatedIDs: []string{"b"},
				MatchQueue:    []model.Match{{A: "a", B: "c"}},
				CurrentRound:  2,
			}
			data, err := json.Marshal(state)
			convey.So(err, convey.ShouldBeNil)

			var back model.TournamentState
			convey.So(json.Unmarshal(data, &back), convey.ShouldBeNil)

			convey.Convey("Then every field should survive", func() {
				convey.So(back.Seed, convey.ShouldResemble, state.Seed)
				convey.So(back.ActiveIDs, convey.ShouldResemble, state.ActiveIDs)
				convey.So(back.EliminatedIDs, convey.ShouldResemble, state.EliminatedIDs)
				convey.So(back.MatchQueue, convey.ShouldResemble, state.MatchQueue)
				convey.So(back.CurrentRound, convey.ShouldEqual, 2)
				convey.So(back.ChampionID, convey.ShouldEqual, "")
			})
		})

		convey.Convey("When the champion is unset", func() {
			data, err := json.Marshal(model.TournamentState{CurrentRound: 1})

			convey.Convey("Then champion_id is omitted", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(data), convey.ShouldNotContainSubstring, "champion_id")
			})
		})
	})
}

func TestExport(t *testing.T) {
	convey.Convey("Given an Export payload", t, func() {
		convey.Convey("When no tournament is running", func() {
			payload := model.Export{
				Version:    model.ExportVersion,
				Items:      []model.Item{{ID: "a", Rating: 1200}},
				SeenPairs:  map[string]int{"a|b": 2},
				Tournament: nil,
				ExportedAt: "2026-08-26T10:00:00Z",
			}
			data, err := json.Marshal(payload)

			convey.Convey("Then tournament should serialize as null", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(data), convey.ShouldContainSubstring, `"tournament":null`)
				convey.So(string(data), convey.ShouldContainSubstring, `"seenPairs":{"a|b":2}`)
				convey.So(string(data), convey.ShouldContainSubstring, `"exportedAt"`)
			})
		})

		convey.Convey("When round-tripping a full payload", func() {
			payload := model.Export{
				Version:   model.ExportVersion,
				Items:     []model.Item{{ID: "a"}, {ID: "b"}},
				SeenPairs: map[string]int{},
				Tournament: &model.TournamentState{
					Seed:         []string{"a", "b"},
					ActiveIDs:    []string{"a", "b"},
					MatchQueue:   []model.Match{{A: "a", B: "b"}},
					CurrentRound: 1,
				},
				ExportedAt: "2026-08-26T10:00:00Z",
			}
			data, err := json.Marshal(payload)
			convey.So(err, convey.ShouldBeNil)

			var back model.Export
			convey.So(json.Unmarshal(data, &back), convey.ShouldBeNil)

			convey.Convey("Then the bracket should survive intact", func() {
				convey.So(back.Version, convey.ShouldEqual, model.ExportVersion)
				convey.So(len(back.Items), convey.ShouldEqual, 2)
				convey.So(back.Tournament, convey.ShouldNotBeNil)
				convey.So(back.Tournament.MatchQueue, convey.ShouldResemble, payload.Tournament.MatchQueue)
			})
		})
	})
}
