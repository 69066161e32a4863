package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"settlers/internal/game"
)

// GameStatus represents the current status of an archived game.
type GameStatus string

const (
	GameStatusStarted  GameStatus = "started"
	GameStatusFinished GameStatus = "finished"
)

// Game is the archived header of one game.
type Game struct {
	ID            string
	LayoutID      string
	Seed          int64
	VictoryPoints int
	Status        GameStatus
	CreatedAt     time.Time
	EndedAt       *time.Time
}

// GamePlayer is one seat of an archived game.
type GamePlayer struct {
	GameID     string
	PlayerID   string
	Seat       int
	Name       string
	Color      string
	IsAI       bool
	Difficulty string
}

// Result is the final score of a finished game.
type Result struct {
	GameID     string
	WinnerID   string
	Turns      int
	Standings  []game.Standing
	FinishedAt time.Time
}

// ErrGameNotFound is returned when a game is not found.
var ErrGameNotFound = errors.New("game not found")

// CreateGame archives a new game and its seats in turn order.
func (db *DB) CreateGame(g *game.GameState, seed int64) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO games (id, layout_id, seed, victory_points, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, g.ID, g.Board.LayoutID, seed, g.VictoryTarget(), GameStatusStarted, time.Now())
	if err != nil {
		return fmt.Errorf("insert game: %w", err)
	}

	for seat, id := range g.PlayerOrder {
		p := g.Players[id]
		_, err = tx.Exec(`
			INSERT INTO game_players (game_id, player_id, seat, name, color, is_ai, difficulty)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, g.ID, id, seat, p.Name, string(p.Color), p.IsAI, string(p.Difficulty))
		if err != nil {
			return fmt.Errorf("insert seat %d: %w", seat, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	db.log.Info("game archived", zap.String("game_id", g.ID), zap.Int("players", len(g.PlayerOrder)))
	return nil
}

// GetGame retrieves a game by ID.
func (db *DB) GetGame(id string) (*Game, error) {
	var g Game
	var endedAt sql.NullTime
	err := db.conn.QueryRow(`
		SELECT id, layout_id, seed, victory_points, status, created_at, ended_at
		FROM games WHERE id = ?
	`, id).Scan(&g.ID, &g.LayoutID, &g.Seed, &g.VictoryPoints, &g.Status, &g.CreatedAt, &endedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, err
	}
	if endedAt.Valid {
		g.EndedAt = &endedAt.Time
	}
	return &g, nil
}

// ListGames returns games with the given status, newest first. An empty
// status lists every game.
func (db *DB) ListGames(status GameStatus) ([]*Game, error) {
	rows, err := db.conn.Query(`
		SELECT id, layout_id, seed, victory_points, status, created_at, ended_at
		FROM games
		WHERE ? = '' OR status = ?
		ORDER BY created_at DESC
	`, status, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []*Game
	for rows.Next() {
		var g Game
		var endedAt sql.NullTime
		if err := rows.Scan(&g.ID, &g.LayoutID, &g.Seed, &g.VictoryPoints, &g.Status, &g.CreatedAt, &endedAt); err != nil {
			return nil, err
		}
		if endedAt.Valid {
			g.EndedAt = &endedAt.Time
		}
		games = append(games, &g)
	}
	return games, rows.Err()
}

// GetGamePlayers returns the seats of a game in turn order.
func (db *DB) GetGamePlayers(gameID string) ([]*GamePlayer, error) {
	rows, err := db.conn.Query(`
		SELECT game_id, player_id, seat, name, color, is_ai, COALESCE(difficulty, '')
		FROM game_players
		WHERE game_id = ?
		ORDER BY seat ASC
	`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []*GamePlayer
	for rows.Next() {
		p := &GamePlayer{}
		if err := rows.Scan(&p.GameID, &p.PlayerID, &p.Seat, &p.Name, &p.Color, &p.IsAI, &p.Difficulty); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// FinishGame marks the game finished and stores the final standings.
func (db *DB) FinishGame(g *game.GameState) error {
	if g.Winner == "" {
		return fmt.Errorf("game %s has no winner", g.ID)
	}
	standings, err := json.Marshal(game.Standings(g))
	if err != nil {
		return err
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	result, err := tx.Exec(`
		UPDATE games SET status = ?, ended_at = ? WHERE id = ?
	`, GameStatusFinished, now, g.ID)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrGameNotFound
	}

	_, err = tx.Exec(`
		INSERT INTO game_results (game_id, winner_id, turns, standings_json, finished_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(game_id) DO UPDATE SET
			winner_id = excluded.winner_id,
			turns = excluded.turns,
			standings_json = excluded.standings_json,
			finished_at = excluded.finished_at
	`, g.ID, g.Winner, g.Turn, string(standings), now)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	db.log.Info("game finished",
		zap.String("game_id", g.ID),
		zap.String("winner", g.Winner),
		zap.Int("turns", g.Turn))
	return nil
}

// GetResult retrieves the final standings of a finished game.
func (db *DB) GetResult(gameID string) (*Result, error) {
	r := &Result{}
	var standings string
	err := db.conn.QueryRow(`
		SELECT game_id, winner_id, turns, standings_json, finished_at
		FROM game_results WHERE game_id = ?
	`, gameID).Scan(&r.GameID, &r.WinnerID, &r.Turns, &standings, &r.FinishedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(standings), &r.Standings); err != nil {
		return nil, fmt.Errorf("decode standings: %w", err)
	}
	return r, nil
}

// DeleteGame permanently deletes a game and everything recorded for it.
func (db *DB) DeleteGame(gameID string) error {
	result, err := db.conn.Exec(`DELETE FROM games WHERE id = ?`, gameID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrGameNotFound
	}
	return nil
}
