package database

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Player is a human seat holder. The token authenticates websocket
// connections for that seat.
type Player struct {
	ID         string
	Token      string
	Name       string
	CreatedAt  time.Time
	LastSeenAt time.Time
}

// Record summarizes a seat holder's archived games.
type Record struct {
	PlayerID string `json:"playerId"`
	Games    int    `json:"games"`
	Finished int    `json:"finished"`
	Wins     int    `json:"wins"`
}

// ErrPlayerNotFound is returned when no player has the token or ID.
var ErrPlayerNotFound = errors.New("player not found")

// CreatePlayer registers a seat holder with a fresh token.
func (db *DB) CreatePlayer(name string) (*Player, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	p := &Player{
		ID:         uuid.New().String(),
		Token:      token,
		Name:       name,
		CreatedAt:  now,
		LastSeenAt: now,
	}

	_, err = db.conn.Exec(`
		INSERT INTO players (id, token, name, created_at, last_seen_at)
		VALUES (?, ?, ?, ?, ?)
	`, p.ID, p.Token, p.Name, p.CreatedAt, p.LastSeenAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetPlayerByToken resolves a seat token.
func (db *DB) GetPlayerByToken(token string) (*Player, error) {
	return db.scanPlayer(`SELECT id, token, name, created_at, last_seen_at FROM players WHERE token = ?`, token)
}

// GetPlayerByID loads a seat holder.
func (db *DB) GetPlayerByID(id string) (*Player, error) {
	return db.scanPlayer(`SELECT id, token, name, created_at, last_seen_at FROM players WHERE id = ?`, id)
}

func (db *DB) scanPlayer(query, arg string) (*Player, error) {
	var p Player
	err := db.conn.QueryRow(query, arg).Scan(&p.ID, &p.Token, &p.Name, &p.CreatedAt, &p.LastSeenAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePlayerLastSeen stamps a successful authentication.
func (db *DB) UpdatePlayerLastSeen(id string) error {
	_, err := db.conn.Exec(`UPDATE players SET last_seen_at = ? WHERE id = ?`, time.Now(), id)
	return err
}

// GetPlayerRecord counts the games a player ID was seated in, how many of
// those finished, and how many it won. Bot IDs work too.
func (db *DB) GetPlayerRecord(playerID string) (*Record, error) {
	r := &Record{PlayerID: playerID}
	err := db.conn.QueryRow(`
		SELECT
			COUNT(*),
			COUNT(res.game_id),
			COALESCE(SUM(CASE WHEN res.winner_id = gp.player_id THEN 1 ELSE 0 END), 0)
		FROM game_players gp
		LEFT JOIN game_results res ON res.game_id = gp.game_id
		WHERE gp.player_id = ?
	`, playerID).Scan(&r.Games, &r.Finished, &r.Wins)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
