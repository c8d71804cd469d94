// Package bot plays Scopone automatically through an engine.
package bot

import (
	"context"
	"log/slog"
	"math/rand"
	"strconv"
	"time"

	"scopone-client/capture"
	"scopone-client/config"
	"scopone-client/engine"
	"scopone-client/game"
	"scopone-client/stream"
)

var settebello = game.NewCard(game.Seven, game.Denari)

// Move is a card to play and the cards it takes.
type Move struct {
	Card  game.Card
	Taken []game.Card
}

// turn is what the bot needs to decide: the hand it sees and whether all four
// players are at the table.
type turn struct {
	view   game.PlayerView
	all4In bool
}

// ChooseMove picks a card from hand and one of its captures on table.
// Captures score by scopa, settebello, denari, sevens and size; when nothing
// can be taken the lowest card is discarded, keeping denari if possible.
// It returns false for an empty hand.
func ChooseMove(hand, table []game.Card) (Move, bool) {
	if len(hand) == 0 {
		return Move{}, false
	}
	best, bestScore := Move{}, -1
	for _, c := range hand {
		for _, option := range capture.Takeable(c, table) {
			if s := score(c, option, len(table)); s > bestScore {
				best, bestScore = Move{Card: c, Taken: option}, s
			}
		}
	}
	if bestScore >= 0 {
		return best, true
	}
	return Move{Card: discard(hand), Taken: []game.Card{}}, true
}

func score(played game.Card, taken []game.Card, tableSize int) int {
	s := 3 * len(taken)
	if len(taken) == tableSize {
		s += 100
	}
	for _, c := range append([]game.Card{played}, taken...) {
		if c == settebello {
			s += 50
		}
		if c.Suit == game.Denari {
			s += 5
		}
		if c.Type == game.Seven {
			s += 4
		}
	}
	return s
}

func discard(hand []game.Card) game.Card {
	sorted := game.SortByValue(append([]game.Card(nil), hand...))
	low := sorted[len(sorted)-1]
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i].Suit != game.Denari {
			return sorted[i]
		}
	}
	return low
}

// Run plays for the engine's player whenever it holds the turn with all four
// players in, and starts new hands when params.StartsHands is set. It returns
// when ctx is done or the engine terminates, with the engine's error if any.
func Run(ctx context.Context, e *engine.Engine, params config.BotParams) error {
	log := slog.Default().With("tag", "bot", "name", params.Name)

	// Turn ownership is read from the view itself so the move is always chosen
	// on the table that gave me the turn.
	turns, turnsErr, turnsSub := stream.CombineLatest(e.HandView, e.MyCurrentOpenGameWithAll4PlayersIn,
		func(v game.PlayerView, all4In bool) turn { return turn{v, all4In} }).Chan(64)
	defer turnsSub.Unsubscribe()

	var starts <-chan bool
	if params.StartsHands {
		ch, _, sub := e.ShowStartButton.Chan(16)
		defer sub.Unsubscribe()
		starts = ch
	}

	var (
		lastPlayed string
		started    bool
	)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case show, ok := <-starts:
			if !ok {
				starts = nil
				continue
			}
			if !show {
				started = false
				continue
			}
			if started {
				continue
			}
			if !wait(ctx, params) {
				return ctx.Err()
			}
			if err := e.NewHand(); err != nil {
				log.Warn("failed to start a new hand", "err", err)
				continue
			}
			started = true
			log.Debug("started a new hand")

		case t, ok := <-turns:
			if !ok {
				return turnsErr()
			}
			me := e.Session().PlayerName()
			if !t.all4In || t.view.CurrentPlayerName != me {
				continue
			}
			// The same view can arrive more than once; play once per state.
			state := t.view.Key() + "/" + strconv.Itoa(len(t.view.PlayerCards))
			if state == lastPlayed {
				continue
			}
			move, ok := ChooseMove(t.view.PlayerCards, t.view.Table)
			if !ok {
				continue
			}
			if !wait(ctx, params) {
				return ctx.Err()
			}
			if err := e.PlayCardForPlayer(me, move.Card, move.Taken); err != nil {
				log.Warn("failed to play", "card", move.Card.String(), "err", err)
				continue
			}
			lastPlayed = state
			log.Debug("played", "card", move.Card.String(), "taken", len(move.Taken))
		}
	}
}

// wait sleeps a human-like delay. It reports false if ctx ended first.
func wait(ctx context.Context, params config.BotParams) bool {
	delayMS := params.DelayMinMS
	if params.DelayMaxMS > params.DelayMinMS {
		delayMS = params.DelayMinMS + rand.Intn(params.DelayMaxMS-params.DelayMinMS)
	}
	if delayMS <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-time.After(time.Duration(delayMS) * time.Millisecond):
		return true
	case <-ctx.Done():
		return false
	}
}
