package replay

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"settlers/internal/ai"
	"settlers/internal/game"
)

// record plays steps bot actions from seed and logs each one.
func record(t *testing.T, seed int64, steps int, newWriter func(Header) *Writer) *game.GameState {
	t.Helper()
	diffs := []game.Difficulty{game.DifficultyHard, game.DifficultyMedium, game.DifficultyEasy}
	var players []*game.Player
	var bots []*ai.Bot
	for i, d := range diffs {
		id := fmt.Sprintf("p%d", i+1)
		players = append(players, game.NewAIPlayer(id, "Bot "+id, "", d))
		bots = append(bots, ai.New(id, d, int64(i)))
	}

	rng := game.NewRand(seed)
	g, err := game.NewGame(game.Settings{LayoutID: "standard"}, nil, players, rng)
	require.NoError(t, err)

	h, err := NewHeader(g, seed)
	require.NoError(t, err)
	w := newWriter(h)

	for seq := 1; seq <= steps && !g.IsGameOver(); seq++ {
		moved := false
		for _, b := range bots {
			a, ok := b.Decide(g)
			if !ok {
				continue
			}
			g, err = game.Apply(g, a, rng)
			require.NoError(t, err)
			require.NoError(t, w.Record(seq, a, g))
			moved = true
			break
		}
		require.True(t, moved, "stalled at seq %d", seq)
	}
	require.NoError(t, w.Close())
	return g
}

func TestReplay_RoundTripVerifies(t *testing.T) {
	var buf bytes.Buffer
	final := record(t, 21, 400, func(h Header) *Writer {
		w, err := NewWriter(&buf, h)
		require.NoError(t, err)
		return w
	})

	log, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, final.ID, log.Header.GameID)
	assert.Len(t, log.Header.Seats, 3)
	require.NotEmpty(t, log.Entries)

	res, err := Verify(log)
	require.NoError(t, err)
	assert.Equal(t, len(log.Entries), res.Checked)

	want, err := Digest(final)
	require.NoError(t, err)
	got, err := Digest(res.Final)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReplay_FileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	var path string
	record(t, 5, 120, func(h Header) *Writer {
		w, p, err := Create(dir, h)
		require.NoError(t, err)
		path = p
		return w
	})
	assert.Equal(t, dir, filepath.Dir(path))

	log, err := Open(path)
	require.NoError(t, err)
	_, err = Verify(log)
	assert.NoError(t, err)
}

func TestReplay_TamperedDigest(t *testing.T) {
	var buf bytes.Buffer
	record(t, 8, 60, func(h Header) *Writer {
		w, err := NewWriter(&buf, h)
		require.NoError(t, err)
		return w
	})
	log, err := Read(&buf)
	require.NoError(t, err)
	require.Greater(t, len(log.Entries), 10)

	log.Entries[10].Digest = "00"
	_, err = Verify(log)
	assert.True(t, errors.Is(err, ErrDigestMismatch), "got %v", err)
}

func TestReplay_SeqGap(t *testing.T) {
	var buf bytes.Buffer
	record(t, 8, 30, func(h Header) *Writer {
		w, err := NewWriter(&buf, h)
		require.NoError(t, err)
		return w
	})
	log, err := Read(&buf)
	require.NoError(t, err)

	log.Entries = append(log.Entries[:3], log.Entries[4:]...)
	_, err = Verify(log)
	assert.ErrorIs(t, err, ErrBadLog)
}

func TestRead_RejectsBadHeader(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, Header{Kind: kindHeader, Version: Version + 1})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = Read(&buf)
	assert.ErrorIs(t, err, ErrBadLog)

	buf.Reset()
	w, err = NewWriter(&buf, Header{Kind: kindAction, Version: Version})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = Read(&buf)
	assert.ErrorIs(t, err, ErrBadLog)
}

func TestDigest_ChangesWithState(t *testing.T) {
	rng := game.NewRand(1)
	g, err := game.NewGame(game.Settings{}, nil, []*game.Player{
		game.NewPlayer("a", "A", ""),
		game.NewPlayer("b", "B", ""),
	}, rng)
	require.NoError(t, err)

	before, err := Digest(g)
	require.NoError(t, err)
	again, err := Digest(g)
	require.NoError(t, err)
	assert.Equal(t, before, again)

	corner := game.LegalSettlementCorners(g, "a")[0]
	next, err := game.Apply(g, game.BuildSettlement{Seat: game.As("a"), Corner: corner}, rng)
	require.NoError(t, err)
	after, err := Digest(next)
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
	assert.Len(t, after, 64)
}
