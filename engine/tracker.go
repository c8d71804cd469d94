package engine

import "scopone-client/game"

// track keeps the session in step with the games snapshot: it picks up the
// game I joined or observe, and reports the tracked game once when it closes.
func (e *Engine) track(games []game.Game) {
	me := e.session.PlayerName()
	if me == "" {
		return
	}
	mine := myGames(games, me)

	open, isOpen, err := currentOpenGame(mine, me)
	if err != nil {
		e.fail(err)
		return
	}
	observed, isObserved, err := currentObservedGame(mine, me)
	if err != nil {
		e.fail(err)
		return
	}
	switch {
	case isOpen:
		if e.session.GameName() != open.Name || e.session.Observing() {
			e.log.Info("tracking game", "game", open.Name, "player", me)
		}
		e.session.setGame(open.Name, false)
	case isObserved:
		if e.session.GameName() != observed.Name || !e.session.Observing() {
			e.log.Info("observing game", "game", observed.Name, "player", me)
		}
		e.session.setGame(observed.Name, true)
	}

	tracked := e.session.GameName()
	if tracked == "" {
		return
	}
	g, ok := game.FindGame(mine, tracked)
	if !ok || !g.Closed() {
		return
	}
	e.session.clearGame(tracked)
	e.log.Info("game closed", "game", g.Name, "closedBy", g.ClosedBy)
	e.closedGames.Next(g)
	e.closedReplay.Next(g)
}
