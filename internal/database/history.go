package database

import (
	"encoding/json"
	"fmt"
	"time"

	"settlers/internal/game"
)

// ActionRecord is one accepted action in the journal.
type ActionRecord struct {
	ID         int64
	GameID     string
	Seq        int
	PlayerID   string
	ActionType string
	ActionJSON string
	Digest     string
	CreatedAt  time.Time
}

// HistoryEvent represents a single game event in the history log.
type HistoryEvent struct {
	ID        int64
	GameID    string
	Seq       int
	Turn      int
	PlayerID  string
	EventType string
	Message   string
	CreatedAt time.Time
}

// AppendAction journals an accepted action. seq is its 1-based position in
// the game.
func (db *DB) AppendAction(gameID string, seq int, a game.Action, digest string) error {
	body, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode %s: %w", a.Type(), err)
	}
	_, err = db.conn.Exec(`
		INSERT INTO game_actions (game_id, seq, player_id, action_type, action_json, digest, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, gameID, seq, a.Actor(), string(a.Type()), string(body), digest, time.Now())
	return err
}

// ActionHistory returns the journal of a game in application order.
func (db *DB) ActionHistory(gameID string) ([]*ActionRecord, error) {
	rows, err := db.conn.Query(`
		SELECT id, game_id, seq, COALESCE(player_id, ''), action_type, action_json, COALESCE(digest, ''), created_at
		FROM game_actions
		WHERE game_id = ?
		ORDER BY seq ASC
	`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actions []*ActionRecord
	for rows.Next() {
		r := &ActionRecord{}
		if err := rows.Scan(&r.ID, &r.GameID, &r.Seq, &r.PlayerID, &r.ActionType, &r.ActionJSON, &r.Digest, &r.CreatedAt); err != nil {
			return nil, err
		}
		actions = append(actions, r)
	}
	return actions, rows.Err()
}

// AddHistoryEvents stores new log entries from the game state.
func (db *DB) AddHistoryEvents(gameID string, events []game.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	for _, e := range events {
		_, err := tx.Exec(`
			INSERT INTO game_history (game_id, seq, turn, player_id, event_type, message, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, gameID, e.Seq, e.Turn, e.Player, e.Kind, e.Message, now)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetGameHistory retrieves all history events for a game, ordered chronologically.
func (db *DB) GetGameHistory(gameID string) ([]*HistoryEvent, error) {
	return db.GetGameHistorySince(gameID, 0)
}

// GetGameHistorySince retrieves history events with a sequence number
// after afterSeq.
func (db *DB) GetGameHistorySince(gameID string, afterSeq int) ([]*HistoryEvent, error) {
	rows, err := db.conn.Query(`
		SELECT id, game_id, seq, turn, COALESCE(player_id, ''), event_type, message, created_at
		FROM game_history
		WHERE game_id = ? AND seq > ?
		ORDER BY seq ASC
	`, gameID, afterSeq)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*HistoryEvent
	for rows.Next() {
		e := &HistoryEvent{}
		if err := rows.Scan(&e.ID, &e.GameID, &e.Seq, &e.Turn, &e.PlayerID, &e.EventType, &e.Message, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
