// Package config loads server settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"settlers/internal/game"
	"settlers/pkg/maps"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds server configuration.
type Config struct {
	Addr          string    `yaml:"addr"`
	DBPath        string    `yaml:"db"`
	ReplayDir     string    `yaml:"replay_dir"`
	MapsDir       string    `yaml:"maps_dir,omitempty"`
	Map           string    `yaml:"map"`
	VictoryPoints int       `yaml:"victory_points"`
	Seed          int64     `yaml:"seed"` // 0 picks one from the clock
	RateLimit     RateLimit `yaml:"rate_limit"`
	MaxBotSteps   int       `yaml:"max_bot_steps"`
	Seats         []Seat    `yaml:"seats"`
}

// RateLimit bounds inbound messages per connection.
type RateLimit struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// Seat is one player slot. A seat with a difficulty is played by a bot.
type Seat struct {
	Name       string `yaml:"name"`
	Color      string `yaml:"color,omitempty"`
	Difficulty string `yaml:"difficulty,omitempty"`
}

// IsAI reports whether a bot plays the seat.
func (s Seat) IsAI() bool {
	return s.Difficulty != ""
}

// Default returns the built-in configuration: one human against three bots.
func Default() Config {
	return Config{
		Addr:          ":8080",
		DBPath:        "settlers.db",
		ReplayDir:     "replays",
		Map:           maps.StandardID,
		VictoryPoints: game.DefaultVictoryPoints,
		RateLimit:     RateLimit{PerSecond: 10, Burst: 20},
		MaxBotSteps:   2000,
		Seats: []Seat{
			{Name: "Player"},
			{Name: "Ada", Difficulty: string(game.DifficultyEasy)},
			{Name: "Basil", Difficulty: string(game.DifficultyMedium)},
			{Name: "Clio", Difficulty: string(game.DifficultyHard)},
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		cfg.Normalize()
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Normalize fills zero values left by a partial file.
func (c *Config) Normalize() {
	def := Default()
	if c.Addr == "" {
		c.Addr = def.Addr
	}
	if c.DBPath == "" {
		c.DBPath = def.DBPath
	}
	if c.Map == "" {
		c.Map = def.Map
	}
	if c.VictoryPoints <= 0 {
		c.VictoryPoints = def.VictoryPoints
	}
	if c.RateLimit.PerSecond <= 0 {
		c.RateLimit.PerSecond = def.RateLimit.PerSecond
	}
	if c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = def.RateLimit.Burst
	}
	if c.MaxBotSteps <= 0 {
		c.MaxBotSteps = def.MaxBotSteps
	}
	for i := range c.Seats {
		c.Seats[i].Name = strings.TrimSpace(c.Seats[i].Name)
		if c.Seats[i].Name == "" {
			c.Seats[i].Name = fmt.Sprintf("Seat %d", i+1)
		}
		c.Seats[i].Difficulty = strings.ToLower(strings.TrimSpace(c.Seats[i].Difficulty))
	}
}

// Colors returns one color per seat. Seats without a color take the
// first one nobody asked for.
func (c Config) Colors() []game.PlayerColor {
	taken := make(map[game.PlayerColor]bool)
	for _, s := range c.Seats {
		if s.Color != "" {
			taken[game.PlayerColor(s.Color)] = true
		}
	}
	free := game.AllColors()
	out := make([]game.PlayerColor, len(c.Seats))
	for i, s := range c.Seats {
		if s.Color != "" {
			out[i] = game.PlayerColor(s.Color)
			continue
		}
		for len(free) > 0 && taken[free[0]] {
			free = free[1:]
		}
		if len(free) > 0 {
			out[i] = free[0]
			taken[free[0]] = true
			free = free[1:]
		}
	}
	return out
}

// Validate checks seats and the map. Custom maps must already be loaded.
func (c Config) Validate() error {
	if n := len(c.Seats); n < game.MinPlayers || n > game.MaxPlayers {
		return fmt.Errorf("%w: %d seats, want %d to %d", ErrInvalid, n, game.MinPlayers, game.MaxPlayers)
	}
	if maps.Get(c.Map) == nil {
		return fmt.Errorf("%w: unknown map %q", ErrInvalid, c.Map)
	}

	known := make(map[string]bool)
	for _, col := range game.AllColors() {
		known[string(col)] = true
	}
	used := make(map[string]bool)
	for i, s := range c.Seats {
		if s.Difficulty != "" && game.ParseDifficulty(s.Difficulty) == game.DifficultyNone {
			return fmt.Errorf("%w: seat %d: unknown difficulty %q", ErrInvalid, i+1, s.Difficulty)
		}
		if s.Color == "" {
			continue
		}
		if !known[s.Color] {
			return fmt.Errorf("%w: seat %d: unknown color %q", ErrInvalid, i+1, s.Color)
		}
		if used[s.Color] {
			return fmt.Errorf("%w: seat %d: color %q taken", ErrInvalid, i+1, s.Color)
		}
		used[s.Color] = true
	}
	return nil
}
