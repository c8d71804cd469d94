package game

import (
	"encoding/json"
	"testing"
)

// serverGame is a games snapshot entry as the Scopone server encodes it.
const serverGame = `{
	"name": "tavolo",
	"hands": [{"state": "closed"}, {"state": "active", "FirstPlayer": {"name": "Anna", "status": "playing"}}],
	"teams": [
		{"Players": [{"name": "Anna", "status": "playing"}, {"name": "Carlo", "status": "playing"}], "TakenCards": null, "ScopeDiScopone": null},
		{"Players": [{"name": "Bruno", "status": "leftOsteriaMaybeMomentarely"}, null], "TakenCards": null, "ScopeDiScopone": null}
	],
	"players": {
		"Anna": {"name": "Anna", "status": "playing"},
		"Bruno": {"name": "Bruno", "status": "leftOsteriaMaybeMomentarely"},
		"Carlo": {"name": "Carlo", "status": "playing"}
	},
	"observers": {"Ugo": {"name": "Ugo", "status": "observingGames"}},
	"score": {"Anna_Carlo": 3},
	"state": "suspended",
	"closedBy": ""
}`

func TestGameJSONDecoding(t *testing.T) {
	var g Game
	if err := json.Unmarshal([]byte(serverGame), &g); err != nil {
		t.Fatal(err)
	}

	if g.Name != "tavolo" || g.State != GameSuspended {
		t.Errorf("unexpected game %s/%s", g.Name, g.State)
	}
	if g.PlayerCount() != 3 {
		t.Errorf("expected 3 players, got %d", g.PlayerCount())
	}
	if g.PlayingCount() != 2 {
		t.Errorf("expected 2 playing, got %d", g.PlayingCount())
	}
	if g.Teams[1].Players[1] != nil {
		t.Error("expected the last seat to be empty")
	}
	if !g.HasPlayer("Bruno") || g.HasPlayer("Ugo") {
		t.Error("HasPlayer mismatch")
	}
	if !g.HasObserver("Ugo") || !g.Involves("Ugo") || g.Involves("Zeno") {
		t.Error("observer lookup mismatch")
	}
	last, ok := g.LastHand()
	if !ok || last.State != HandActive || last.FirstPlayer.Name != "Anna" {
		t.Errorf("unexpected last hand %+v", last)
	}
}

func TestLastHandOnNewGame(t *testing.T) {
	if _, ok := (Game{}).LastHand(); ok {
		t.Error("a game without hands has no last hand")
	}
}

func TestSameSeats(t *testing.T) {
	anna := &Player{Name: "Anna", Status: PlayerPlaying}
	annaAway := &Player{Name: "Anna", Status: PlayerLeftTheGame}
	a := [2]Team{{Players: [2]*Player{anna, nil}}, {}}
	b := [2]Team{{Players: [2]*Player{{Name: "Anna", Status: PlayerPlaying}, nil}}, {TakenCards: []Card{NewCard(Ace, Coppe)}}}
	c := [2]Team{{Players: [2]*Player{annaAway, nil}}, {}}
	d := [2]Team{{}, {}}

	if !SameSeats(a, b) {
		t.Error("same names and statuses should compare equal regardless of taken cards")
	}
	if SameSeats(a, c) {
		t.Error("a status change should be detected")
	}
	if SameSeats(a, d) {
		t.Error("an emptied seat should be detected")
	}
}

func TestFindGameAndPlayer(t *testing.T) {
	games := []Game{{Name: "uno"}, {Name: "due"}}
	if g, ok := FindGame(games, "due"); !ok || g.Name != "due" {
		t.Error("expected to find game due")
	}
	if _, ok := FindGame(games, "tre"); ok {
		t.Error("game tre should not exist")
	}
	players := []Player{{Name: "Anna"}}
	if _, ok := FindPlayer(players, "Anna"); !ok {
		t.Error("expected to find Anna")
	}
}
