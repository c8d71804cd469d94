package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"scopone-client/auth"
	"scopone-client/bot"
	"scopone-client/config"
	"scopone-client/engine"
	"scopone-client/game"
	"scopone-client/loghandler"
	"scopone-client/scoponeerrors"
	"scopone-client/ws"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	slog.SetDefault(slog.New(loghandler.NewCompactHandler(os.Stderr, cfg.SlogLevel())))
	if envErr != nil {
		slog.Debug("no .env file found; using environment variables", "tag", "main")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		if msg := scoponeerrors.UserMessage(err); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		slog.Error("client stopped", "tag", "main", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	name, err := playerName(cfg)
	if err != nil {
		return err
	}

	e := engine.New(
		engine.WithLogger(slog.Default()),
		engine.WithLogMessages(cfg.LogMessages),
		engine.WithConnOptions(connOptions(cfg)),
	)
	slog.Info("configuration", "tag", "main", "server", cfg.ServerURL, "player", name,
		"game", cfg.GameName, "create", cfg.CreateGame, "observe", cfg.Observe, "bot", cfg.Bot.Enabled)

	if err := e.Connect(ctx, cfg.ServerURL); err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	watch(e, cfg, cancel)

	if err := e.EnterOsteria(name); err != nil {
		return err
	}
	if cfg.Bot.Enabled {
		go func() {
			if err := bot.Run(ctx, e, cfg.Bot); err != nil && !errors.Is(err, context.Canceled) {
				cancel(err)
			}
		}()
	}

	errs, _, sub := e.Errors.Chan(1)
	defer sub.Unsubscribe()
	select {
	case <-ctx.Done():
		if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, context.Canceled) {
			return cause
		}
		return nil
	case err := <-errs:
		return err
	}
}

// playerName picks the configured name, then the token's name claim, then
// the bot's name.
func playerName(cfg *config.Config) (string, error) {
	if cfg.PlayerName != "" {
		return cfg.PlayerName, nil
	}
	if cfg.AuthToken == "" {
		if cfg.Bot.Enabled && cfg.Bot.Name != "" {
			return cfg.Bot.Name, nil
		}
		return "", errors.New("no player name: set SCOPONE_PLAYER_NAME or SCOPONE_AUTH_TOKEN")
	}
	var (
		claims jwt.MapClaims
		err    error
	)
	if cfg.AuthJWKSURL != "" {
		claims, err = auth.ValidateToken(cfg.AuthJWKSURL, cfg.AuthToken)
	} else {
		claims, err = auth.ParseClaims(cfg.AuthToken)
	}
	if err != nil {
		return "", fmt.Errorf("auth token: %w", err)
	}
	return auth.FirstNameFromClaims(claims), nil
}

func connOptions(cfg *config.Config) ws.Options {
	return ws.Options{
		HandshakeTimeout: time.Duration(cfg.WS.HandshakeTimeoutMS) * time.Millisecond,
		WriteWait:        time.Duration(cfg.WS.WriteWaitMS) * time.Millisecond,
		PongWait:         time.Duration(cfg.WS.PongWaitMS) * time.Millisecond,
		MaxMessageSize:   int64(cfg.WS.MaxMessageSize),
		SendBuffer:       cfg.WS.SendBuffer,
		Header:           auth.Header(cfg.AuthToken),
	}
}

// watch logs what happens at the table and joins the configured game once
// in the Osteria. Subscriptions live as long as the engine.
func watch(e *engine.Engine, cfg *config.Config, cancel context.CancelCauseFunc) {
	log := slog.Default().With("tag", "main")

	e.Title.DistinctUntilChanged(func(a, b string) bool { return a == b }).
		Listen(func(title string) { log.Info(title) })

	e.PlayerIsAlreadyInOsteria.Listen(func(name string) {
		cancel(fmt.Errorf("player %q is already in the Osteria", name))
	})
	e.GameWithSameNamePresent.Listen(func(name string) {
		log.Warn("a game with the same name already exists", "game", name)
	})
	e.ErrorAddingToGame.Listen(func(m ws.Message) {
		log.Warn("could not join the game", "game", m.GameName, "err", m.Error)
	})
	e.CardsPlayedAndTaken.Listen(func(p engine.CardsPlayed) {
		log.Info("card played", "by", p.PlayedBy, "card", p.CardPlayed.String(), "taken", len(p.CardsTaken))
	})
	e.HandClosed.Listen(func(v game.PlayerView) {
		log.Info("hand closed", "game", v.GameName, "hand", v.ID,
			"us", v.OurCurrentGameScore, "them", v.TheirCurrentGameScore)
	})
	e.MyCurrentGameClosed.Listen(func(g game.Game) {
		log.Info("game closed", "game", g.Name, "closedBy", g.ClosedBy)
		cancel(nil)
	})

	e.PlayerEnteredOsteria.Listen(func(p game.Player) {
		if err := join(e, cfg, p.Name); err != nil {
			cancel(err)
		}
	})
}

func join(e *engine.Engine, cfg *config.Config, name string) error {
	if cfg.GameName == "" {
		return nil
	}
	if cfg.CreateGame {
		if err := e.NewGame(cfg.GameName); err != nil {
			return err
		}
	}
	if cfg.Observe {
		return e.AddObserverToGame(name, cfg.GameName)
	}
	return e.AddPlayerToGame(name, cfg.GameName)
}
