// Package engine derives the view models of a Scopone client from the stream
// of messages pushed by the server, and sends the player's commands.
//
// All views hang off one shared inbound stream. Values propagate
// synchronously, so every view derived from a message sees it before the next
// message enters the graph. Subscribers can come and go independently; the
// connection lives until Close.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"scopone-client/game"
	"scopone-client/scoponeerrors"
	"scopone-client/stream"
	"scopone-client/ws"
)

// Sender is the outbound side of the transport.
type Sender interface {
	Send(cmd ws.Command) error
}

// GameForList is a game as listed to a player looking for a table.
type GameForList struct {
	game.Game
	CanBeObservedOnly bool
}

// CardsPlayed reports one card played by anyone at the table.
type CardsPlayed struct {
	CardPlayed game.Card
	CardsTaken []game.Card
	PlayedBy   string
	// FinalTableTake is set on the last play of a hand when cards were left
	// on the table and a team sweeps them.
	FinalTableTake *game.FinalTableTake
}

// Engine owns one connection to the server, the session identity and every
// view derived from the server's messages.
type Engine struct {
	ID string

	session     *Session
	log         *slog.Logger
	logMessages bool
	connOpts    ws.Options

	mu             sync.Mutex
	sender         Sender
	conn           *ws.Conn
	connecting     bool
	closedByClient bool

	inbound       *stream.Subject[ws.Message]
	connected     *stream.Subject[struct{}]
	errs          *stream.Subject[error]
	closedGames   *stream.Subject[game.Game]
	closedReplay  *stream.Subject[game.Game]
	endOnce       sync.Once
	source        *stream.Stream[ws.Message]
	sourceHandle  *stream.Subscription
	trackerHandle *stream.Subscription
	held          []*stream.Subscription

	// Messages is every message received, in arrival order.
	Messages stream.Stream[ws.Message]
	// Connected emits once the handshake completed (replayed).
	Connected stream.Stream[struct{}]
	// Errors emits the failure that terminated the engine (replayed).
	Errors stream.Stream[error]

	Players                  stream.Stream[[]game.Player]
	PlayerEnteredOsteria     stream.Stream[game.Player]
	PlayerIsAlreadyInOsteria stream.Stream[string]
	PlayerLeftOsteria        stream.Stream[string]

	Games                   stream.Stream[[]game.Game]
	GameWithSameNamePresent stream.Stream[string]
	ErrorAddingToGame       stream.Stream[ws.Message]
	GamesOpen               stream.Stream[[]game.Game]
	GamesNotYetStarted      stream.Stream[[]game.Game]
	GamesWhichCanBeObserved stream.Stream[[]game.Game]
	GameList                stream.Stream[[]GameForList]

	AllMyGames                         stream.Stream[[]game.Game]
	MyCurrentOpenGame                  stream.Stream[game.Game]
	MyCurrentOpenGameTeams             stream.Stream[[2]game.Team]
	ShowStartButton                    stream.Stream[bool]
	MyCurrentOpenGameWithAll4PlayersIn stream.Stream[bool]
	MyCurrentObservedGame              stream.Stream[game.Game]
	MyCurrentGame                      stream.Stream[game.Game]
	MyCurrentGameClosed                stream.Stream[game.Game]
	MyCurrentGameClosedReplay          stream.Stream[game.Game]

	AllHandViews        stream.Stream[map[string]game.PlayerView]
	HandView            stream.Stream[game.PlayerView]
	ObservedHandView    stream.Stream[game.PlayerView]
	HandClosed          stream.Stream[game.PlayerView]
	HandClosedReplay    stream.Stream[game.PlayerView]
	HandHistory         stream.Stream[game.HandHistory]
	CardsPlayedAndTaken stream.Stream[CardsPlayed]

	CurrentPlayer  stream.Stream[string]
	IsMyTurnToPlay stream.Stream[bool]
	EnablePlay     stream.Stream[bool]
	Title          stream.Stream[string]
}

// Option configures an Engine.
type Option func(*Engine)

// WithSource feeds the engine from src instead of a WebSocket. Used by tests
// and by callers that own the transport.
func WithSource(src stream.Stream[ws.Message]) Option {
	return func(e *Engine) { e.source = &src }
}

// WithSender sends commands through s instead of a WebSocket.
func WithSender(s Sender) Option {
	return func(e *Engine) { e.sender = s }
}

// WithPlayerName presets the session's player name.
func WithPlayerName(name string) Option {
	return func(e *Engine) { e.session.setPlayer(name) }
}

// WithGameName presets the session's tracked game.
func WithGameName(name string) Option {
	return func(e *Engine) { e.session.setGame(name, false) }
}

// WithLogger replaces slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithLogMessages logs every inbound message at debug level.
func WithLogMessages(on bool) Option {
	return func(e *Engine) { e.logMessages = on }
}

// WithConnOptions sets the WebSocket tuning used by Connect.
func WithConnOptions(o ws.Options) Option {
	return func(e *Engine) { e.connOpts = o }
}

// New builds an engine and its view graph. Without WithSource the engine
// receives messages once Connect succeeded.
func New(opts ...Option) *Engine {
	e := &Engine{
		ID:           uuid.NewString(),
		session:      &Session{},
		log:          slog.Default(),
		inbound:      stream.NewSubject[ws.Message](),
		connected:    stream.NewReplaySubject[struct{}](),
		errs:         stream.NewReplaySubject[error](),
		closedGames:  stream.NewSubject[game.Game](),
		closedReplay: stream.NewReplaySubject[game.Game](),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.With("tag", "engine", "engine", e.ID)

	e.buildViews()

	// The tracker subscribes first so the session is up to date before any
	// consumer sees a games snapshot.
	e.trackerHandle = e.inbound.Stream().
		Filter(isMsg(ws.GamesMsg)).
		Listen(func(m ws.Message) { e.track(m.Games) })

	// Replayed views cache from the first message on, whoever subscribes later.
	e.held = append(e.held,
		hold(e.Players),
		hold(e.PlayerEnteredOsteria),
		hold(e.Games),
		hold(e.GamesOpen),
		hold(e.GamesNotYetStarted),
		hold(e.GamesWhichCanBeObserved),
		hold(e.GameWithSameNamePresent),
		hold(e.AllMyGames),
		hold(e.AllHandViews),
		hold(e.HandView),
		hold(e.IsMyTurnToPlay),
	)

	if e.source != nil {
		e.sourceHandle = e.source.Subscribe(stream.Observer[ws.Message]{
			Next: e.dispatch,
			Err:  e.fail,
			Done: e.complete,
		})
	}
	return e
}

// Session exposes the identity the views are derived for.
func (e *Engine) Session() *Session {
	return e.session
}

// Connect dials the server and starts pumping messages into the views.
// It returns once the handshake completed. Transport failures wrap
// scoponeerrors.ErrConnection; connecting twice is ErrAlreadyConnected and
// connecting after the views ended (Close or failure) is ErrTerminated.
func (e *Engine) Connect(ctx context.Context, url string) error {
	if e.inbound.Terminated() {
		return scoponeerrors.ErrTerminated
	}
	e.mu.Lock()
	if e.sender != nil || e.connecting {
		e.mu.Unlock()
		return scoponeerrors.ErrAlreadyConnected
	}
	e.connecting = true
	e.mu.Unlock()

	conn, err := ws.Dial(ctx, url, e.connOpts)

	e.mu.Lock()
	e.connecting = false
	if err != nil {
		e.mu.Unlock()
		e.log.Error("connection to the server failed", "url", url, "err", err)
		return err
	}
	e.conn = conn
	e.sender = conn
	e.closedByClient = false
	e.mu.Unlock()

	go conn.WritePump()
	go e.readLoop(conn)

	e.connected.Next(struct{}{})
	return nil
}

func (e *Engine) readLoop(conn *ws.Conn) {
	err := conn.ReadPump(e.dispatch)

	e.mu.Lock()
	byClient := e.closedByClient
	e.mu.Unlock()

	switch {
	case err != nil:
		e.fail(err)
	case !byClient:
		e.fail(scoponeerrors.ErrUnexpectedClose)
	default:
		e.log.Info("connection closed")
		e.complete()
	}
}

// Close ends the session on purpose: the inbound stream completes instead
// of failing.
func (e *Engine) Close() error {
	e.mu.Lock()
	conn := e.conn
	if conn == nil {
		e.mu.Unlock()
		return scoponeerrors.ErrNotConnected
	}
	e.closedByClient = true
	e.conn = nil
	e.sender = nil
	e.mu.Unlock()
	return conn.Close()
}

func (e *Engine) dispatch(m ws.Message) {
	if e.logMessages {
		e.log.Debug("message received", "id", m.ID, "player", m.PlayerName, "game", m.GameName)
	}
	e.inbound.Next(m)
}

// complete ends the view graph without error.
func (e *Engine) complete() {
	e.endOnce.Do(func() {
		e.errs.Complete()
		e.closedGames.Complete()
		e.closedReplay.Complete()
		e.inbound.Complete()
		if e.trackerHandle != nil {
			e.trackerHandle.Unsubscribe()
		}
	})
}

// fail terminates the whole view graph with err. Only the first failure or
// completion counts.
func (e *Engine) fail(err error) {
	e.endOnce.Do(func() {
		e.log.Error("engine failed", "err", err)
		e.errs.Next(err)
		e.errs.Complete()
		e.closedGames.Error(err)
		e.closedReplay.Error(err)
		e.inbound.Error(err)
		if e.trackerHandle != nil {
			e.trackerHandle.Unsubscribe()
		}
	})
}

// Failed returns the error that terminated the engine, if any.
func (e *Engine) Failed() error {
	if err, ok := e.errs.Latest(); ok {
		return err
	}
	return nil
}

func (e *Engine) send(cmd ws.Command) error {
	e.mu.Lock()
	s := e.sender
	e.mu.Unlock()
	if s == nil {
		return fmt.Errorf("%s: %w", cmd.ID, scoponeerrors.ErrNotConnected)
	}
	if err := s.Send(cmd); err != nil {
		return err
	}
	e.log.Debug("command sent", "id", cmd.ID, "player", cmd.PlayerName, "game", cmd.GameName)
	return nil
}

func hold[T any](s stream.Stream[T]) *stream.Subscription {
	return s.Subscribe(stream.Observer[T]{})
}

func isMsg(id ws.MessageID) func(ws.Message) bool {
	return func(m ws.Message) bool { return m.ID == id }
}
