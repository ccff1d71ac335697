package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/dicegame/internal/config"
	"github.com/robalobadob/dicegame/internal/console"
	"github.com/robalobadob/dicegame/internal/dice"
	"github.com/robalobadob/dicegame/internal/game"
	"github.com/robalobadob/dicegame/internal/scoreboard"
	"github.com/robalobadob/dicegame/internal/store"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if err := run(cfg, os.Stdin, os.Stdout); err != nil {
		log.Fatal().Err(err).Str("backend", cfg.ScoreBackend).Msg("dice game exited")
	}
}

// run owns every resource of the process so they are released before main
// decides how to exit.
func run(cfg config.Config, in io.Reader, out io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open score store: %w", err)
	}
	defer closeStore()

	board := scoreboard.New(st)
	if err := board.Load(ctx); err != nil {
		return err
	}

	sess := game.NewSession(game.Options{
		MaxPlayers:       cfg.MaxPlayers,
		DifficultySelect: cfg.DifficultySelect,
		Dice:             cfg.Dice,
	}, dice.CryptoRoller{}, board)

	log.Info().Str("backend", cfg.ScoreBackend).Int("scores", board.Len()).Msg("starting dice game")
	err = console.New(in, out, sess, board).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// openStore picks the scoreboard backend named in the config.
func openStore(cfg config.Config) (store.Store, func(), error) {
	switch cfg.ScoreBackend {
	case config.BackendSQLite:
		db, err := store.OpenSQLite(cfg.ScoreDB)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { _ = db.Close() }, nil
	case config.BackendMemory:
		return store.NewMemoryStore(), func() {}, nil
	default:
		return store.NewFileStore(cfg.ScoreFile), func() {}, nil
	}
}
