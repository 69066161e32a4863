package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"settlers/internal/game"
	"settlers/pkg/maps"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "nested", "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newState(t *testing.T) *game.GameState {
	t.Helper()
	players := []*game.Player{
		game.NewPlayer("p1", "Ada", game.ColorRed),
		game.NewAIPlayer("p2", "Bot", game.ColorBlue, game.DifficultyHard),
	}
	g, err := game.NewGame(game.Settings{}, maps.Standard(), players, game.NewRand(7))
	require.NoError(t, err)
	return g
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "again.db")
	db, err := New(path, nil)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = New(path, nil)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.conn.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&count))
	assert.Equal(t, len(migrations), count)
}

func TestCreateAndGetGame(t *testing.T) {
	db := openTestDB(t)
	g := newState(t)

	require.NoError(t, db.CreateGame(g, 7))

	rec, err := db.GetGame(g.ID)
	require.NoError(t, err)
	assert.Equal(t, maps.StandardID, rec.LayoutID)
	assert.Equal(t, int64(7), rec.Seed)
	assert.Equal(t, game.DefaultVictoryPoints, rec.VictoryPoints)
	assert.Equal(t, GameStatusStarted, rec.Status)
	assert.Nil(t, rec.EndedAt)

	seats, err := db.GetGamePlayers(g.ID)
	require.NoError(t, err)
	require.Len(t, seats, 2)
	assert.Equal(t, "p1", seats[0].PlayerID)
	assert.False(t, seats[0].IsAI)
	assert.Equal(t, "p2", seats[1].PlayerID)
	assert.True(t, seats[1].IsAI)
	assert.Equal(t, "hard", seats[1].Difficulty)

	_, err = db.GetGame("missing")
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestActionJournal(t *testing.T) {
	db := openTestDB(t)
	g := newState(t)
	require.NoError(t, db.CreateGame(g, 7))

	require.NoError(t, db.AppendAction(g.ID, 1, game.BuildSettlement{Seat: game.As("p1"), Corner: 12}, "abc"))
	require.NoError(t, db.AppendAction(g.ID, 2, game.BuildRoad{Seat: game.As("p1"), Path: 3}, "def"))

	// Sequence numbers are unique per game.
	assert.Error(t, db.AppendAction(g.ID, 2, game.EndTurn{Seat: game.As("p1")}, ""))

	actions, err := db.ActionHistory(g.ID)
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, "build_settlement", actions[0].ActionType)
	assert.JSONEq(t, `{"playerId":"p1","corner":12}`, actions[0].ActionJSON)
	assert.Equal(t, "abc", actions[0].Digest)
	assert.Equal(t, 2, actions[1].Seq)
}

func TestHistoryEvents(t *testing.T) {
	db := openTestDB(t)
	g := newState(t)
	require.NoError(t, db.CreateGame(g, 7))

	events := []game.Event{
		{Seq: 1, Turn: 0, Player: "p1", Kind: game.EventSetup, Message: "Ada placed a settlement"},
		{Seq: 2, Turn: 1, Player: "p2", Kind: game.EventRoll, Message: "Bot rolled 8"},
	}
	require.NoError(t, db.AddHistoryEvents(g.ID, events))
	require.NoError(t, db.AddHistoryEvents(g.ID, nil))

	all, err := db.GetGameHistory(g.ID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Ada placed a settlement", all[0].Message)

	since, err := db.GetGameHistorySince(g.ID, 1)
	require.NoError(t, err)
	require.Len(t, since, 1)
	assert.Equal(t, game.EventRoll, since[0].EventType)
}

func TestFinishGame(t *testing.T) {
	db := openTestDB(t)
	g := newState(t)
	require.NoError(t, db.CreateGame(g, 7))

	assert.Error(t, db.FinishGame(g), "no winner yet")

	g.Winner = "p2"
	g.Turn = 42
	require.NoError(t, db.FinishGame(g))

	rec, err := db.GetGame(g.ID)
	require.NoError(t, err)
	assert.Equal(t, GameStatusFinished, rec.Status)
	assert.NotNil(t, rec.EndedAt)

	res, err := db.GetResult(g.ID)
	require.NoError(t, err)
	assert.Equal(t, "p2", res.WinnerID)
	assert.Equal(t, 42, res.Turns)
	assert.Len(t, res.Standings, 2)

	finished, err := db.ListGames(GameStatusFinished)
	require.NoError(t, err)
	assert.Len(t, finished, 1)
	started, err := db.ListGames(GameStatusStarted)
	require.NoError(t, err)
	assert.Empty(t, started)
}

func TestDeleteGameCascades(t *testing.T) {
	db := openTestDB(t)
	g := newState(t)
	require.NoError(t, db.CreateGame(g, 7))
	require.NoError(t, db.AppendAction(g.ID, 1, game.RollDice{Seat: game.As("p1")}, ""))

	require.NoError(t, db.DeleteGame(g.ID))
	assert.ErrorIs(t, db.DeleteGame(g.ID), ErrGameNotFound)

	actions, err := db.ActionHistory(g.ID)
	require.NoError(t, err)
	assert.Empty(t, actions)
}

func TestPlayerTokens(t *testing.T) {
	db := openTestDB(t)

	p, err := db.CreatePlayer("Ada")
	require.NoError(t, err)
	assert.Len(t, p.Token, 64)

	byToken, err := db.GetPlayerByToken(p.Token)
	require.NoError(t, err)
	assert.Equal(t, p.ID, byToken.ID)

	byID, err := db.GetPlayerByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", byID.Name)
	require.NoError(t, db.UpdatePlayerLastSeen(p.ID))

	_, err = db.GetPlayerByToken("nope")
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestPlayerRecord(t *testing.T) {
	db := openTestDB(t)

	first := newState(t)
	require.NoError(t, db.CreateGame(first, 7))
	first.Winner = "p2"
	require.NoError(t, db.FinishGame(first))

	second := newState(t)
	require.NoError(t, db.CreateGame(second, 8))

	bot, err := db.GetPlayerRecord("p2")
	require.NoError(t, err)
	assert.Equal(t, &Record{PlayerID: "p2", Games: 2, Finished: 1, Wins: 1}, bot)

	human, err := db.GetPlayerRecord("p1")
	require.NoError(t, err)
	assert.Equal(t, 0, human.Wins)
	assert.Equal(t, 2, human.Games)

	none, err := db.GetPlayerRecord("ghost")
	require.NoError(t, err)
	assert.Zero(t, none.Games)
}
