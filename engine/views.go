package engine

import (
	"strings"

	"scopone-client/game"
	"scopone-client/stream"
	"scopone-client/ws"
)

// buildViews wires the view graph. Views read the session when a value flows,
// never at construction time.
func (e *Engine) buildViews() {
	me := e.session.PlayerName

	e.Messages = e.inbound.Stream()
	e.Connected = e.connected.Stream()
	e.Errors = e.errs.Stream()

	// Osteria
	e.Players = stream.Map(e.Messages.Filter(isMsg(ws.PlayersMsg)),
		func(m ws.Message) []game.Player { return m.Players }).ShareReplay()

	// One-shot: the roster keeps being refreshed, I enter only once.
	e.PlayerEnteredOsteria = stream.Map(
		e.Players.Filter(func(ps []game.Player) bool {
			_, ok := game.FindPlayer(ps, me())
			return ok
		}),
		func(ps []game.Player) game.Player {
			p, _ := game.FindPlayer(ps, me())
			return p
		}).Take(1).ShareReplay()

	// Notifications, not state: a late subscriber must not see an old one.
	e.PlayerIsAlreadyInOsteria = playerName(e.Messages, ws.PlayerIsAlreadyInOsteriaMsg).Share()
	e.PlayerLeftOsteria = playerName(e.Messages, ws.PlayerLeftOsteriaMsg).Share()

	// Games
	e.Games = stream.Map(e.Messages.Filter(isMsg(ws.GamesMsg)),
		func(m ws.Message) []game.Game { return m.Games }).ShareReplay()

	e.GameWithSameNamePresent = stream.Map(e.Messages.Filter(isMsg(ws.GameWithSameNamePresentMsg)),
		func(m ws.Message) string { return m.GameName }).ShareReplay()

	e.ErrorAddingToGame = e.Messages.Filter(func(m ws.Message) bool {
		return m.ID == ws.ErrorAddingPlayerToGameMsg || m.ID == ws.ErrorAddingObserverToGameMsg
	}).Share()

	e.GamesOpen = stream.Map(e.Games, gamesOpen).ShareReplay()
	e.GamesNotYetStarted = stream.Map(e.Games, gamesNotYetStarted).ShareReplay()
	e.GamesWhichCanBeObserved = stream.Map(e.Games, func(gs []game.Game) []game.Game {
		return gamesWhichCanBeObserved(gs, me())
	}).ShareReplay()
	e.GameList = stream.CombineLatest(e.GamesNotYetStarted, e.GamesWhichCanBeObserved, gameList)

	// My games
	e.AllMyGames = stream.Map(e.Games, func(gs []game.Game) []game.Game {
		return myGames(gs, me())
	}).ShareReplay()

	// A closed game yields nothing, so these go quiet once my game closes.
	e.MyCurrentOpenGame = pickGame(e.AllMyGames, func(mine []game.Game) (game.Game, bool, error) {
		return currentOpenGame(mine, me())
	})
	e.MyCurrentObservedGame = pickGame(e.AllMyGames, func(mine []game.Game) (game.Game, bool, error) {
		return currentObservedGame(mine, me())
	})
	e.MyCurrentGame = stream.Merge(e.MyCurrentOpenGame, e.MyCurrentObservedGame)

	e.MyCurrentOpenGameTeams = stream.Map(e.MyCurrentOpenGame,
		func(g game.Game) [2]game.Team { return g.Teams }).
		DistinctUntilChanged(game.SameSeats)
	e.ShowStartButton = stream.Map(e.MyCurrentOpenGame, showStartButton)
	e.MyCurrentOpenGameWithAll4PlayersIn = stream.Map(e.MyCurrentOpenGame, all4PlayersIn)

	e.MyCurrentGameClosed = e.closedGames.Stream()
	e.MyCurrentGameClosedReplay = e.closedReplay.Stream()

	// Hands
	handViewMsgs := e.Messages.Filter(isMsg(ws.HandViewMsg))

	allHandViews := stream.Map(handViewMsgs,
		func(m ws.Message) map[string]game.PlayerView { return m.AllHandPlayerViews }).
		Filter(func(vs map[string]game.PlayerView) bool { return len(vs) > 0 })
	e.AllHandViews = allHandViews.ShareReplay()

	// Observers receive an empty participant view alongside all the views.
	handView := stream.Map(handViewMsgs.Filter(func(m ws.Message) bool {
		return m.HandPlayerView != nil && strings.TrimSpace(m.HandPlayerView.GameName) != ""
	}), func(m ws.Message) game.PlayerView {
		v := *m.HandPlayerView
		if v.Table == nil {
			v.Table = []game.Card{}
		}
		return v
	})
	e.HandView = handView.ShareReplay()

	e.ObservedHandView = stream.Map(e.AllHandViews, func(vs map[string]game.PlayerView) game.PlayerView {
		v, _ := game.TurnHolderView(vs)
		return v
	})

	e.HandClosed = handClosed(handView, allHandViews)
	e.HandClosedReplay = handClosed(e.HandView, e.AllHandViews)

	e.HandHistory = stream.Map(e.HandView, func(v game.PlayerView) game.HandHistory { return v.History })

	e.CardsPlayedAndTaken = stream.Map(e.Messages.Filter(func(m ws.Message) bool {
		return m.ID == ws.CardsPlayedAndTakenMsg && m.CardPlayed != nil
	}), cardsPlayed).Share()

	// Turn
	e.CurrentPlayer = stream.Map(e.HandView, func(v game.PlayerView) string { return v.CurrentPlayerName })
	e.IsMyTurnToPlay = stream.Map(e.CurrentPlayer, func(name string) bool { return name == me() }).ShareReplay()
	e.EnablePlay = stream.CombineLatest(e.IsMyTurnToPlay, e.MyCurrentOpenGameWithAll4PlayersIn,
		func(myTurn, all4In bool) bool { return myTurn && all4In })

	e.Title = stream.Merge(
		stream.Map(e.PlayerEnteredOsteria, func(p game.Player) string { return p.Name }),
		stream.Map(e.MyCurrentOpenGame, func(g game.Game) string { return playerGameTitle(me(), g) }),
		stream.Map(e.MyCurrentObservedGame, func(g game.Game) string { return observerGameTitle(me(), g) }),
		stream.Map(e.HandView, func(v game.PlayerView) string { return handTitle(me(), v) }),
		stream.Map(e.AllHandViews, func(vs map[string]game.PlayerView) string {
			v, _ := game.TurnHolderView(vs)
			return observedHandTitle(me(), v)
		}),
	)
}

func playerName(msgs stream.Stream[ws.Message], id ws.MessageID) stream.Stream[string] {
	return stream.Map(msgs.Filter(isMsg(id)), func(m ws.Message) string { return m.PlayerName })
}

// pickGame narrows my games down to at most one with pick, failing the stream
// on an invariant violation.
func pickGame(mine stream.Stream[[]game.Game], pick func([]game.Game) (game.Game, bool, error)) stream.Stream[game.Game] {
	type picked struct {
		g  game.Game
		ok bool
	}
	return stream.Map(
		stream.TryMap(mine, func(gs []game.Game) (picked, error) {
			g, ok, err := pick(gs)
			return picked{g, ok}, err
		}).Filter(func(p picked) bool { return p.ok }),
		func(p picked) game.Game { return p.g })
}

// handClosed emits a closed hand once, whether it comes from my own view or
// from the turn holder's view an observer receives.
func handClosed(handView stream.Stream[game.PlayerView], allHandViews stream.Stream[map[string]game.PlayerView]) stream.Stream[game.PlayerView] {
	observed := stream.Map(allHandViews, func(vs map[string]game.PlayerView) game.PlayerView {
		v, _ := game.TurnHolderView(vs)
		return v
	})
	return stream.Merge(handView, observed).
		Filter(game.PlayerView.Closed).
		DistinctUntilChanged(func(prev, cur game.PlayerView) bool { return prev.Key() == cur.Key() })
}

func cardsPlayed(m ws.Message) CardsPlayed {
	cp := CardsPlayed{
		CardPlayed: *m.CardPlayed,
		CardsTaken: m.CardsTaken,
		PlayedBy:   m.CardPlayedByPlayer,
	}
	if m.FinalTableTake != nil && !m.FinalTableTake.Empty() {
		ftt := *m.FinalTableTake
		cp.FinalTableTake = &ftt
	}
	return cp
}
