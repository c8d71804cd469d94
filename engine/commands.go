package engine

import (
	"fmt"

	"scopone-client/capture"
	"scopone-client/game"
	"scopone-client/scoponeerrors"
	"scopone-client/ws"
)

// EnterOsteria asks the server to admit name. The answer arrives as a players
// roster (PlayerEnteredOsteria) or as PlayerIsAlreadyInOsteria.
func (e *Engine) EnterOsteria(name string) error {
	e.session.setPlayer(name)
	return e.send(ws.EnterOsteria(name))
}

// NewGame creates gameName. It does not seat the creator.
func (e *Engine) NewGame(gameName string) error {
	return e.send(ws.NewGame(gameName))
}

func (e *Engine) AddPlayerToGame(playerName, gameName string) error {
	e.session.join(playerName, gameName, false)
	return e.send(ws.AddPlayerToGame(playerName, gameName))
}

func (e *Engine) AddObserverToGame(observerName, gameName string) error {
	e.session.join(observerName, gameName, true)
	return e.send(ws.AddObserverToGame(observerName, gameName))
}

// NewHand starts the next hand of the tracked game. Without one the engine
// fails with ErrNoGame.
func (e *Engine) NewHand() error {
	gameName := e.session.GameName()
	if gameName == "" {
		err := fmt.Errorf("new hand: %w", scoponeerrors.ErrNoGame)
		e.fail(err)
		return err
	}
	return e.send(ws.NewHand(gameName))
}

// PlayCardForPlayer plays card on behalf of playerName taking exactly
// cardsTaken. The server validates the move.
func (e *Engine) PlayCardForPlayer(playerName string, card game.Card, cardsTaken []game.Card) error {
	return e.send(ws.PlayCard(e.session.GameName(), playerName, card, cardsTaken))
}

// PlayCard plays card for me, resolving the capture against table. When more
// than one capture is possible nothing is sent and the engine fails with
// ErrAmbiguousCapture: callers offering a choice use CardsTakeable and
// PlayCardForPlayer instead.
func (e *Engine) PlayCard(card game.Card, table []game.Card) error {
	options := capture.Takeable(card, table)
	switch len(options) {
	case 0:
		return e.PlayCardForPlayer(e.session.PlayerName(), card, nil)
	case 1:
		return e.PlayCardForPlayer(e.session.PlayerName(), card, options[0])
	default:
		err := fmt.Errorf("%s: %d options: %w", card, len(options), scoponeerrors.ErrAmbiguousCapture)
		e.fail(err)
		return err
	}
}

// CloseCurrentGame terminates the tracked game for everybody.
func (e *Engine) CloseCurrentGame() error {
	gameName := e.session.GameName()
	if gameName == "" {
		return fmt.Errorf("close game: %w", scoponeerrors.ErrNoGame)
	}
	return e.send(ws.CloseGame(gameName))
}

// CardsTakeable lists the captures card can make on table.
func (e *Engine) CardsTakeable(card game.Card, table []game.Card) [][]game.Card {
	return capture.Takeable(card, table)
}

// CanPlayerJoinGame reports whether g has a free seat, or already seats me.
func (e *Engine) CanPlayerJoinGame(g game.Game) bool {
	return g.PlayerCount() < game.PlayersPerGame || g.HasPlayer(e.session.PlayerName())
}
