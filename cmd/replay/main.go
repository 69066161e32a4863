package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"settlers/internal/game"
	"settlers/internal/replay"
	"settlers/pkg/maps"
)

func main() {
	file := flag.String("file", "", "Replay log (.jsonl.zst)")
	mapsDir := flag.String("maps", "", "Directory of extra layouts the game may use")
	board := flag.Bool("board", false, "Print the board layout before the standings")
	adjacency := flag.Bool("adjacency", false, "Print corner adjacency (with -board)")
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

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: replay -file <game>.jsonl.zst")
		os.Exit(2)
	}

	if err := maps.LoadAll(); err != nil {
		log.Fatal("load layouts", zap.Error(err))
	}
	if *mapsDir != "" {
		if err := maps.LoadDir(*mapsDir); err != nil {
			log.Fatal("load layouts", zap.Error(err))
		}
	}

	l, err := replay.Open(*file)
	if err != nil {
		log.Fatal("read log", zap.String("file", *file), zap.Error(err))
	}
	res, err := replay.Verify(l)
	if err != nil {
		log.Error("replay diverged", zap.String("game_id", l.Header.GameID), zap.Error(err))
		os.Exit(1)
	}

	g := res.Final
	log.Info("replay verified",
		zap.String("game_id", g.ID),
		zap.Int64("seed", l.Header.Seed),
		zap.Int("actions", res.Checked),
		zap.Int("turn", g.Turn),
		zap.String("phase", g.Phase().String()),
	)
	if *board {
		if layout := maps.Get(g.Board.LayoutID); layout != nil {
			fmt.Print(layout.Debug())
			if *adjacency {
				fmt.Print(layout.PrintAdjacency())
			}
		}
	}
	for _, s := range game.Standings(g) {
		fmt.Printf("%-12s %2d pts  (%d settlements, %d cities, road %d, knights %d)\n",
			s.Name, s.Points, s.Settlements, s.Cities, s.RoadLength, s.Knights)
	}
	if g.Winner != "" {
		fmt.Printf("winner: %s\n", g.Players[g.Winner].Name)
	}
}
