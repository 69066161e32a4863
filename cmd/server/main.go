package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"settlers/internal/config"
	"settlers/internal/database"
	"settlers/internal/game"
	"settlers/internal/server"
	"settlers/internal/session"
	"settlers/pkg/maps"
)

func main() {
	port := flag.String("port", "", "Server port (overrides config)")
	dbPath := flag.String("db", "", "Database path (overrides config)")
	configPath := flag.String("config", "", "YAML config file")
	dev := flag.Bool("dev", false, "Human-readable debug logging")
	flag.Parse()

	log, err := newLogger(*dev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(log, *configPath, *port, *dbPath); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(log *zap.Logger, configPath, port, dbPath string) error {
	if err := maps.LoadAll(); err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.MapsDir != "" {
		if err := maps.LoadDir(cfg.MapsDir); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	// PORT and DB_PATH win over flags for hosted deployments.
	if port != "" {
		cfg.Addr = ":" + port
	}
	if env := os.Getenv("PORT"); env != "" {
		cfg.Addr = ":" + env
		log.Info("using PORT from environment", zap.String("port", env))
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if env := os.Getenv("DB_PATH"); env != "" {
		cfg.DBPath = env
		log.Info("using DB_PATH from environment", zap.String("path", env))
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	db, err := database.New(cfg.DBPath, log)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	players, err := seatPlayers(cfg, db, log)
	if err != nil {
		return err
	}

	sess, err := session.New(session.Options{
		Settings:    game.Settings{LayoutID: cfg.Map, VictoryPoints: cfg.VictoryPoints},
		Players:     players,
		Seed:        cfg.Seed,
		Journal:     db,
		ReplayDir:   cfg.ReplayDir,
		MaxBotSteps: cfg.MaxBotSteps,
		Log:         log,
	})
	if err != nil {
		return fmt.Errorf("create game: %w", err)
	}
	defer sess.Close()

	srv := server.New(server.Config{
		Addr:      cfg.Addr,
		RatePerS:  cfg.RateLimit.PerSecond,
		RateBurst: cfg.RateLimit.Burst,
	}, sess, db, log)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()

	select {
	case err := <-errc:
		return err
	case <-done:
	}
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		log.Warn("shutdown error", zap.Error(err))
	}
	log.Info("server stopped")
	return nil
}

// seatPlayers builds the players in seat order. Each human seat gets a
// fresh token, logged once so it can be handed to the player.
func seatPlayers(cfg config.Config, db *database.DB, log *zap.Logger) ([]*game.Player, error) {
	colors := cfg.Colors()
	players := make([]*game.Player, 0, len(cfg.Seats))
	for i, seat := range cfg.Seats {
		if seat.IsAI() {
			id := fmt.Sprintf("bot-%d", i+1)
			players = append(players, game.NewAIPlayer(id, seat.Name, colors[i], game.ParseDifficulty(seat.Difficulty)))
			continue
		}
		p, err := db.CreatePlayer(seat.Name)
		if err != nil {
			return nil, fmt.Errorf("create seat %d: %w", i+1, err)
		}
		log.Info("seat token",
			zap.Int("seat", i+1),
			zap.String("name", p.Name),
			zap.String("player_id", p.ID),
			zap.String("token", p.Token),
		)
		players = append(players, game.NewPlayer(p.ID, seat.Name, colors[i]))
	}
	return players, nil
}
