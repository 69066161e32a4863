package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"settlers/internal/database"
	"settlers/internal/game"
	"settlers/internal/replay"
)

type fakeJournal struct {
	created  int
	seqs     []int
	digests  []string
	events   int
	finished *game.GameState
}

func (j *fakeJournal) CreateGame(*game.GameState, int64) error { j.created++; return nil }

func (j *fakeJournal) AppendAction(_ string, seq int, _ game.Action, digest string) error {
	j.seqs = append(j.seqs, seq)
	j.digests = append(j.digests, digest)
	return nil
}

func (j *fakeJournal) AddHistoryEvents(_ string, events []game.Event) error {
	j.events += len(events)
	return nil
}

func (j *fakeJournal) FinishGame(g *game.GameState) error { j.finished = g; return nil }

func bots(n int) []*game.Player {
	diffs := []game.Difficulty{game.DifficultyHard, game.DifficultyMedium, game.DifficultyEasy, game.DifficultyHard}
	var out []*game.Player
	for i := 0; i < n; i++ {
		id := string(rune('a' + i))
		out = append(out, game.NewAIPlayer(id, "Bot "+id, "", diffs[i]))
	}
	return out
}

func TestSession_BotsPlayToTheEnd(t *testing.T) {
	j := &fakeJournal{}
	dir := t.TempDir()
	s, err := New(Options{Players: bots(3), Seed: 17, Journal: j, ReplayDir: dir, MaxBotSteps: 6000})
	require.NoError(t, err)
	assert.Equal(t, 1, j.created)

	var updates []int
	unsubscribe := s.Subscribe(func(u Update) { updates = append(updates, u.Seq) })
	s.Start()
	unsubscribe()

	seq := s.Seq()
	require.Greater(t, seq, 20)
	require.Len(t, updates, seq)
	for i, n := range updates {
		assert.Equal(t, i+1, n)
	}
	assert.Equal(t, updates, j.seqs)
	assert.Positive(t, j.events)

	g := s.Snapshot()
	if g.IsGameOver() {
		require.NotNil(t, j.finished)
		assert.Equal(t, g.Winner, j.finished.Winner)
	}
	last, err := replay.Digest(g)
	require.NoError(t, err)
	assert.Equal(t, last, j.digests[len(j.digests)-1])

	require.NoError(t, s.Close())
	log, err := replay.Open(filepath.Join(dir, s.GameID()+".jsonl.zst"))
	require.NoError(t, err)
	res, err := replay.Verify(log)
	require.NoError(t, err)
	assert.Equal(t, seq, res.Checked)

	_, err = s.Dispatch(game.EndTurn{Seat: game.As("a")})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSession_HumanThenBotsRespond(t *testing.T) {
	players := []*game.Player{game.NewPlayer("h", "Human", ""), bots(1)[0]}
	s, err := New(Options{Players: players, Seed: 3})
	require.NoError(t, err)
	assert.True(t, s.IsBot("a"))
	assert.False(t, s.IsBot("h"))

	s.Start()
	assert.Zero(t, s.Seq(), "human seat goes first")

	g := s.Snapshot()
	corner := game.LegalSettlementCorners(g, "h")[0]
	g, err = s.Dispatch(game.BuildSettlement{Seat: game.As("h"), Corner: corner})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Seq())

	path := game.LegalRoadPaths(g, "h")[0]
	g, err = s.Dispatch(game.BuildRoad{Seat: game.As("h"), Path: path})
	require.NoError(t, err)

	// The bot takes both of its setup rounds back to back.
	assert.Equal(t, 6, s.Seq())
	assert.Equal(t, "h", g.CurrentPlayerID)
	assert.Equal(t, 2, g.CountBuildings("a", game.BuildingSettlement))
	assert.Equal(t, g, s.Snapshot())
}

func TestSession_RejectedActionChangesNothing(t *testing.T) {
	players := []*game.Player{game.NewPlayer("h", "Human", ""), game.NewPlayer("k", "Kim", "")}
	s, err := New(Options{Players: players, Seed: 9})
	require.NoError(t, err)

	calls := 0
	s.Subscribe(func(Update) { calls++ })

	before := s.Snapshot()
	g, err := s.Dispatch(game.RollDice{Seat: game.As("h")})
	assert.ErrorIs(t, err, game.ErrInvalidPhase)
	assert.Same(t, before, g)

	_, err = s.Dispatch(game.BuildSettlement{Seat: game.As("k"), Corner: 0})
	assert.ErrorIs(t, err, game.ErrInvalidPlayer)

	assert.Zero(t, s.Seq())
	assert.Zero(t, calls)
}

func TestSession_ArchivesToDatabase(t *testing.T) {
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	defer db.Close()

	s, err := New(Options{Players: bots(2), Seed: 5, Journal: db, MaxBotSteps: 200})
	require.NoError(t, err)
	s.Start()

	records, err := db.ActionHistory(s.GameID())
	require.NoError(t, err)
	assert.Len(t, records, s.Seq())

	players, err := db.GetGamePlayers(s.GameID())
	require.NoError(t, err)
	assert.Len(t, players, 2)
}

func TestNew_RejectsBadPlayerCount(t *testing.T) {
	_, err := New(Options{Players: bots(1)})
	assert.ErrorIs(t, err, game.ErrInvalidPlayerCount)
}
