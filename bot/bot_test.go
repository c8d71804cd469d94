package bot

import (
	"context"
	"errors"
	"testing"
	"time"

	"scopone-client/config"
	"scopone-client/engine"
	"scopone-client/game"
	"scopone-client/stream"
	"scopone-client/ws"
)

func card(r game.Rank, s game.Suit) game.Card { return game.NewCard(r, s) }

func TestChooseMove_PrefersScopa(t *testing.T) {
	hand := []game.Card{card(game.Four, game.Coppe), card(game.Six, game.Spade)}
	table := []game.Card{card(game.Two, game.Bastoni), card(game.Four, game.Spade)}

	move, ok := ChooseMove(hand, table)
	if !ok {
		t.Fatal("expected a move")
	}
	if move.Card != card(game.Six, game.Spade) || len(move.Taken) != 2 {
		t.Errorf("expected the six to sweep the table, got %+v", move)
	}
}

func TestChooseMove_PrefersSettebello(t *testing.T) {
	hand := []game.Card{card(game.Seven, game.Coppe), card(game.Three, game.Spade)}
	table := []game.Card{card(game.Seven, game.Denari), card(game.Three, game.Bastoni), card(game.King, game.Coppe)}

	move, _ := ChooseMove(hand, table)
	if move.Card != card(game.Seven, game.Coppe) {
		t.Errorf("expected to take the settebello, got %+v", move)
	}
	if len(move.Taken) != 1 || move.Taken[0] != card(game.Seven, game.Denari) {
		t.Errorf("unexpected capture %v", move.Taken)
	}
}

func TestChooseMove_DiscardsLowestNonDenari(t *testing.T) {
	hand := []game.Card{card(game.Ace, game.Denari), card(game.Two, game.Spade), card(game.King, game.Coppe)}
	table := []game.Card{card(game.Six, game.Bastoni), card(game.Five, game.Bastoni)}

	move, ok := ChooseMove(hand, table)
	if !ok {
		t.Fatal("expected a move")
	}
	if move.Card != card(game.Two, game.Spade) || move.Taken == nil || len(move.Taken) != 0 {
		t.Errorf("expected to discard the two, got %+v", move)
	}
	if hand[0] != card(game.Ace, game.Denari) {
		t.Error("the hand must not be reordered")
	}
}

func TestChooseMove_EmptyHand(t *testing.T) {
	if _, ok := ChooseMove(nil, []game.Card{card(game.Ace, game.Coppe)}); ok {
		t.Error("expected no move with an empty hand")
	}
}

type chanSender chan ws.Command

func (c chanSender) Send(cmd ws.Command) error {
	c <- cmd
	return nil
}

func fullGame() game.Game {
	g := game.Game{Name: "tavolo", State: game.GameOpen, Players: map[string]game.Player{}}
	for _, n := range []string{"Anna", "Bruno", "Carlo", "Dario"} {
		g.Players[n] = game.Player{Name: n, Status: game.PlayerPlaying}
	}
	return g
}

func TestRun_PlaysWhenEnabled(t *testing.T) {
	src := stream.NewSubject[ws.Message]()
	sent := make(chanSender, 8)
	e := engine.New(engine.WithSource(src.Stream()), engine.WithSender(sent), engine.WithPlayerName("Anna"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- Run(ctx, e, config.BotParams{Name: "Anna"}) }()

	// Run subscribes asynchronously; replayed views make the order irrelevant.
	src.Next(ws.Message{ID: ws.GamesMsg, Games: []game.Game{fullGame()}})
	src.Next(ws.Message{ID: ws.HandViewMsg, HandPlayerView: &game.PlayerView{
		ID:                "1",
		GameName:          "tavolo",
		Status:            game.HandActive,
		CurrentPlayerName: "Anna",
		PlayerCards:       []game.Card{card(game.Five, game.Coppe)},
		Table:             []game.Card{card(game.Five, game.Spade)},
	}})

	select {
	case cmd := <-sent:
		if cmd.ID != ws.PlayCardCmd || cmd.PlayerName != "Anna" || cmd.GameName != "tavolo" {
			t.Errorf("unexpected command %+v", cmd)
		}
		if len(cmd.CardsTaken) != 1 || cmd.CardsTaken[0] != card(game.Five, game.Spade) {
			t.Errorf("unexpected capture %v", cmd.CardsTaken)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("bot did not play")
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not exit after cancel")
	}
}

func TestRun_ReturnsEngineError(t *testing.T) {
	src := stream.NewSubject[ws.Message]()
	e := engine.New(engine.WithSource(src.Stream()), engine.WithPlayerName("Anna"))

	done := make(chan error, 1)
	go func() { done <- Run(context.Background(), e, config.BotParams{}) }()

	boom := errors.New("boom")
	src.Error(boom)

	select {
	case err := <-done:
		if !errors.Is(err, boom) {
			t.Errorf("expected the engine error, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not exit after the engine failed")
	}
}

func TestRun_PlaysOnTheTableThatGaveTheTurn(t *testing.T) {
	src := stream.NewSubject[ws.Message]()
	sent := make(chanSender, 8)
	e := engine.New(engine.WithSource(src.Stream()), engine.WithSender(sent), engine.WithPlayerName("Anna"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Run(ctx, e, config.BotParams{Name: "Anna"})

	hand := []game.Card{card(game.Six, game.Spade)}
	src.Next(ws.Message{ID: ws.GamesMsg, Games: []game.Game{fullGame()}})
	src.Next(ws.Message{ID: ws.HandViewMsg, HandPlayerView: &game.PlayerView{
		ID: "1", GameName: "tavolo", Status: game.HandActive,
		CurrentPlayerName: "Bruno", PlayerCards: hand, Table: []game.Card{},
	}})
	// Give Run time to subscribe so the turn change is delivered live.
	time.Sleep(100 * time.Millisecond)
	src.Next(ws.Message{ID: ws.HandViewMsg, HandPlayerView: &game.PlayerView{
		ID: "1", GameName: "tavolo", Status: game.HandActive,
		CurrentPlayerName: "Anna", PlayerCards: hand, Table: []game.Card{card(game.Six, game.Bastoni)},
	}})

	select {
	case cmd := <-sent:
		if cmd.CardPlayed == nil || *cmd.CardPlayed != card(game.Six, game.Spade) {
			t.Fatalf("unexpected card %+v", cmd.CardPlayed)
		}
		if len(cmd.CardsTaken) != 1 || cmd.CardsTaken[0] != card(game.Six, game.Bastoni) {
			t.Errorf("the six on the table must be taken, got %v", cmd.CardsTaken)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("bot did not play")
	}
	select {
	case cmd := <-sent:
		t.Errorf("expected a single play, got %+v", cmd)
	case <-time.After(200 * time.Millisecond):
	}
}
