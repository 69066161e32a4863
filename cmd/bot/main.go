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

	"settlers/internal/client"
	"settlers/internal/game"
)

func main() {
	profile := flag.String("profile", "", "Profile name for separate saved settings (e.g. seat2)")
	serverAddr := flag.String("server", "", "Server address (host:port or ws:// URL)")
	token := flag.String("token", "", "Seat token printed by the server")
	difficulty := flag.String("difficulty", "", "easy, medium or hard")
	seed := flag.Int64("seed", 0, "Bot seed (0 picks one from the clock)")
	dev := flag.Bool("dev", false, "Human-readable debug logging")
	flag.Parse()

	var log *zap.Logger
	var err error
	if *dev {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	client.SetProfile(*profile)
	cfg, err := client.LoadConfig()
	if err != nil {
		log.Warn("could not load saved settings", zap.Error(err))
	}
	if *serverAddr != "" {
		cfg.LastServer = *serverAddr
	}
	if *token != "" {
		cfg.PlayerToken = *token
	}
	if *difficulty != "" {
		cfg.Difficulty = *difficulty
	}
	if cfg.PlayerToken == "" {
		log.Fatal("no seat token; pass -token")
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := client.Dial(ctx, cfg.LastServer, log)
	if err != nil {
		log.Fatal("connect failed", zap.Error(err))
	}
	defer conn.Close()

	auth, err := conn.Authenticate(ctx, cfg.PlayerToken)
	if err != nil {
		log.Fatal("authentication failed", zap.Error(err))
	}
	cfg.PlayerID = auth.PlayerID
	if err := cfg.Save(); err != nil {
		log.Warn("could not save settings", zap.Error(err))
	}
	log.Info("seated", zap.String("player_id", auth.PlayerID), zap.String("name", auth.Name))

	bot := client.NewRemoteBot(conn, auth.PlayerID, game.ParseDifficulty(cfg.Difficulty), *seed, log)
	winner, err := bot.Play(ctx)
	if err != nil {
		log.Error("play stopped", zap.Error(err))
		return
	}
	log.Info("game over",
		zap.String("winner", winner),
		zap.Bool("won", winner == auth.PlayerID),
		zap.Int("moves", bot.Moves),
		zap.Int("rejected", bot.Rejected),
	)
}
