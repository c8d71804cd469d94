package engine

import (
	"fmt"
	"strings"

	"scopone-client/game"
	"scopone-client/scoponeerrors"
)

func gamesOpen(games []game.Game) []game.Game {
	var open []game.Game
	for _, g := range games {
		if g.State == game.GameOpen {
			open = append(open, g)
		}
	}
	return open
}

// gamesNotYetStarted are the games with a free seat.
func gamesNotYetStarted(games []game.Game) []game.Game {
	var joinable []game.Game
	for _, g := range games {
		if g.PlayerCount() < game.PlayersPerGame {
			joinable = append(joinable, g)
		}
	}
	return joinable
}

// gamesWhichCanBeObserved are the full open or suspended games me is not
// seated in.
func gamesWhichCanBeObserved(games []game.Game, me string) []game.Game {
	var observable []game.Game
	for _, g := range games {
		if (g.State == game.GameOpen || g.State == game.GameSuspended) &&
			g.PlayerCount() == game.PlayersPerGame &&
			!g.HasPlayer(me) {
			observable = append(observable, g)
		}
	}
	return observable
}

func gameList(notStarted, observable []game.Game) []GameForList {
	list := make([]GameForList, 0, len(notStarted)+len(observable))
	for _, g := range notStarted {
		list = append(list, GameForList{Game: g})
	}
	for _, g := range observable {
		list = append(list, GameForList{Game: g, CanBeObservedOnly: true})
	}
	return list
}

// myGames are the games me plays or observes, closed ones included.
func myGames(games []game.Game, me string) []game.Game {
	var mine []game.Game
	for _, g := range games {
		if g.Involves(me) {
			mine = append(mine, g)
		}
	}
	return mine
}

// currentOpenGame finds the non-closed game me is seated in. The server never
// seats a player in two such games, so finding more is a hard failure.
func currentOpenGame(mine []game.Game, me string) (game.Game, bool, error) {
	return single(mine, me, game.Game.HasPlayer, scoponeerrors.ErrMoreThanOneOpenGame)
}

// currentObservedGame is the observer counterpart of currentOpenGame.
func currentObservedGame(mine []game.Game, me string) (game.Game, bool, error) {
	return single(mine, me, game.Game.HasObserver, scoponeerrors.ErrMoreThanOneObservedGame)
}

func single(mine []game.Game, me string, involved func(game.Game, string) bool, tooMany error) (game.Game, bool, error) {
	var found []game.Game
	for _, g := range mine {
		if !g.Closed() && involved(g, me) {
			found = append(found, g)
		}
	}
	switch len(found) {
	case 0:
		return game.Game{}, false, nil
	case 1:
		return found[0], true, nil
	default:
		names := make([]string, len(found))
		for i, g := range found {
			names[i] = g.Name
		}
		return game.Game{}, false, fmt.Errorf("%w: %s in %s", tooMany, me, strings.Join(names, ", "))
	}
}

// showStartButton: all four seats taken and either no hand yet or the last
// hand is over.
func showStartButton(g game.Game) bool {
	last, ok := g.LastHand()
	if !ok {
		return g.PlayerCount() == game.PlayersPerGame
	}
	return last.State == game.HandClosed
}

func all4PlayersIn(g game.Game) bool {
	return g.PlayingCount() == game.PlayersPerGame
}

func handSuffix(g game.Game) string {
	if len(g.Hands) > 0 {
		return fmt.Sprintf(" - Hand %d", len(g.Hands))
	}
	return " not yet started"
}

func playerGameTitle(me string, g game.Game) string {
	return fmt.Sprintf("%s - Game %q%s", me, g.Name, handSuffix(g))
}

func observerGameTitle(me string, g game.Game) string {
	return fmt.Sprintf("%s - Observing Game %q%s", me, g.Name, handSuffix(g))
}

func handTitle(me string, v game.PlayerView) string {
	return fmt.Sprintf("%s - Game %q - Hand %s (\"us\" %d - \"them\" %d)",
		me, v.GameName, v.ID, v.OurCurrentGameScore, v.TheirCurrentGameScore)
}

func observedHandTitle(me string, v game.PlayerView) string {
	return fmt.Sprintf("%s - Observing %q playing Game %q - Hand %s (\"%s team\" %d - \"the other team\" %d)",
		me, v.CurrentPlayerName, v.GameName, v.ID, v.CurrentPlayerName, v.OurCurrentGameScore, v.TheirCurrentGameScore)
}
