package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"settlers/internal/client"
	"settlers/internal/database"
	"settlers/internal/game"
	"settlers/internal/protocol"
	"settlers/internal/session"
)

func newTestServer(t *testing.T, settings game.Settings, players ...*game.Player) (*session.Session, *httptest.Server, map[string]string) {
	t.Helper()
	sess, err := session.New(session.Options{Settings: settings, Players: players, Seed: 11})
	require.NoError(t, err)

	tokens := SeatTokens(sess.Snapshot())
	srv := New(Config{RatePerS: 1000, RateBurst: 1000, Tokens: tokens}, sess, nil, nil)
	srv.Run()
	sess.Start()

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Stop(ctx)
		ts.Close()
		_ = sess.Close()
	})
	return sess, ts, tokens
}

func humans(ids ...string) []*game.Player {
	var out []*game.Player
	for _, id := range ids {
		out = append(out, game.NewPlayer(id, "Player "+id, ""))
	}
	return out
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if v != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp.StatusCode
}

func TestHTTP_Endpoints(t *testing.T) {
	sess, ts, _ := newTestServer(t, game.Settings{}, humans("h1", "h2")...)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	var state protocol.GameStatePayload
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/state", &state))
	assert.Equal(t, sess.GameID(), state.GameID)
	assert.Equal(t, "Setup", state.Phase)
	assert.Equal(t, "h1", state.CurrentPlayerID)
	assert.Len(t, state.Standings, 2)

	var board BoardView
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/board?size=10", &board))
	assert.Len(t, board.Tiles, 19)
	assert.Len(t, board.Corners, 54)
	assert.Len(t, board.Paths, 72)
	assert.Len(t, board.Ports, 9)
	assert.Equal(t, 10.0, board.Size)

	var legal protocol.LegalPayload
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/legal?player=h1", &legal))
	assert.Len(t, legal.Settlements, 54)
	assert.Empty(t, legal.Roads)

	assert.Equal(t, http.StatusNotFound, getJSON(t, ts.URL+"/api/legal?player=nobody", nil))

	resp, err = http.Post(ts.URL+"/api/state", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func dial(t *testing.T, ctx context.Context, ts *httptest.Server) *client.NetworkClient {
	t.Helper()
	conn, err := client.Dial(ctx, ts.URL, nil)
	require.NoError(t, err)
	t.Cleanup(conn.Close)

	msg, err := conn.Await(ctx, protocol.TypeWelcome)
	require.NoError(t, err)
	var welcome protocol.WelcomePayload
	require.NoError(t, msg.ParsePayload(&welcome))
	assert.NotEmpty(t, welcome.ConnectionID)
	return conn
}

func awaitError(t *testing.T, ctx context.Context, conn *client.NetworkClient, replyTo string) protocol.ErrorPayload {
	t.Helper()
	for {
		msg, err := conn.Await(ctx, protocol.TypeError)
		require.NoError(t, err)
		var p protocol.ErrorPayload
		require.NoError(t, msg.ParsePayload(&p))
		if p.ReplyTo == replyTo {
			return p
		}
	}
}

func TestWebSocket_ActionsRunForTheAuthenticatedSeat(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sess, ts, tokens := newTestServer(t, game.Settings{}, humans("h1", "h2")...)
	conn := dial(t, ctx, ts)

	corner := game.LegalSettlementCorners(sess.Snapshot(), "h1")[0]
	build := game.BuildSettlement{Seat: game.As("h2"), Corner: corner}

	msg, err := protocol.EncodeAction(build)
	require.NoError(t, err)
	require.NoError(t, conn.Send(msg))
	assert.Equal(t, protocol.ErrCodeNotAuthenticated, awaitError(t, ctx, conn, msg.ID).Code)

	_, err = conn.Authenticate(ctx, "nobody")
	assert.Error(t, err)
	_, err = conn.Authenticate(ctx, "h1")
	assert.Error(t, err, "a seat ID is not a token")
	auth, err := conn.Authenticate(ctx, tokens["h1"])
	require.NoError(t, err)
	assert.Equal(t, "h1", auth.PlayerID)

	// The payload names h2; the server runs it for h1.
	msg, err = protocol.EncodeAction(build)
	require.NoError(t, err)
	require.NoError(t, conn.Send(msg))

	var g *game.GameState
	for g == nil || g.Buildings[corner].Owner == "" {
		stateMsg, err := conn.Await(ctx, protocol.TypeGameState)
		require.NoError(t, err)
		g, err = client.DecodeState(stateMsg)
		require.NoError(t, err)
	}
	assert.Equal(t, "h1", g.Buildings[corner].Owner)
	assert.Equal(t, 1, sess.Seq())

	msg, err = protocol.EncodeAction(game.BuildSettlement{Corner: corner})
	require.NoError(t, err)
	require.NoError(t, conn.Send(msg))
	assert.Equal(t, protocol.ErrCodeActionRequired, awaitError(t, ctx, conn, msg.ID).Code)

	id, err := conn.SendPayload(protocol.TypeRequestLegal, protocol.RequestLegalPayload{})
	require.NoError(t, err)
	legalMsg, err := conn.Await(ctx, protocol.TypeLegal)
	require.NoError(t, err)
	assert.Equal(t, id, legalMsg.ID)
	var legal protocol.LegalPayload
	require.NoError(t, legalMsg.ParsePayload(&legal))
	assert.Equal(t, "h1", legal.PlayerID)
	assert.NotEmpty(t, legal.Roads)

	id, err = conn.SendPayload(protocol.TypeBankTrade, map[string]string{"give": "gold", "receive": "ore"})
	require.NoError(t, err)
	assert.Equal(t, protocol.ErrCodeBadRequest, awaitError(t, ctx, conn, id).Code)

	id, err = conn.SendPayload(protocol.TypeAuthenticate, map[string]int{"token": 7})
	require.NoError(t, err)
	assert.Equal(t, protocol.ErrCodeBadRequest, awaitError(t, ctx, conn, id).Code)

	id, err = conn.SendPayload("shout", nil)
	require.NoError(t, err)
	assert.Equal(t, protocol.ErrCodeBadRequest, awaitError(t, ctx, conn, id).Code)
}

func TestWebSocket_RateLimited(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sess, err := session.New(session.Options{Players: humans("h1", "h2"), Seed: 1})
	require.NoError(t, err)
	srv := New(Config{RatePerS: 0.001, RateBurst: 2}, sess, nil, nil)
	srv.Run()
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	defer srv.Stop(ctx)

	conn := dial(t, ctx, ts)
	var last string
	for i := 0; i < 3; i++ {
		last, err = conn.SendPayload(protocol.TypePing, nil)
		require.NoError(t, err)
	}
	assert.Equal(t, protocol.ErrCodeRateLimited, awaitError(t, ctx, conn, last).Code)
}

func TestRemoteBots_PlayToTheEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sess, ts, tokens := newTestServer(t, game.Settings{VictoryPoints: 3}, humans("h1", "h2")...)

	type result struct {
		winner string
		err    error
	}
	results := make(chan result, 2)
	for i, id := range []string{"h1", "h2"} {
		conn := dial(t, ctx, ts)
		_, err := conn.Authenticate(ctx, tokens[id])
		require.NoError(t, err)
		bot := client.NewRemoteBot(conn, id, game.DifficultyMedium, int64(i), nil)
		go func() {
			w, err := bot.Play(ctx)
			results <- result{w, err}
		}()
	}

	for i := 0; i < 2; i++ {
		r := <-results
		require.NoError(t, r.err)
		assert.Contains(t, []string{"h1", "h2"}, r.winner)
	}
	g := sess.Snapshot()
	require.True(t, g.IsGameOver())
	assert.GreaterOrEqual(t, g.Players[g.Winner].VictoryPoints, 3)
}

func TestDatabaseTokens_AuthenticateAndArchive(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.New(filepath.Join(t.TempDir(), "server.db"), nil)
	require.NoError(t, err)
	defer db.Close()

	ada, err := db.CreatePlayer("Ada")
	require.NoError(t, err)
	players := []*game.Player{
		game.NewPlayer(ada.ID, "Ada", game.ColorRed),
		game.NewAIPlayer("bot-2", "Basil", game.ColorBlue, game.DifficultyEasy),
	}
	sess, err := session.New(session.Options{Players: players, Seed: 5, Journal: db})
	require.NoError(t, err)
	defer sess.Close()

	srv := New(Config{}, sess, db, nil)
	srv.Run()
	sess.Start()
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	defer srv.Stop(ctx)

	conn := dial(t, ctx, ts)
	_, err = conn.Authenticate(ctx, ada.ID)
	assert.Error(t, err, "seat IDs are not tokens when a database is attached")
	_, err = conn.Authenticate(ctx, "bot-2")
	assert.Error(t, err)
	auth, err := conn.Authenticate(ctx, ada.Token)
	require.NoError(t, err)
	assert.Equal(t, ada.ID, auth.PlayerID)
	assert.Equal(t, "Ada", auth.Name)

	corner := game.LegalSettlementCorners(sess.Snapshot(), ada.ID)[0]
	msg, err := protocol.EncodeAction(game.BuildSettlement{Corner: corner})
	require.NoError(t, err)
	require.NoError(t, conn.Send(msg))

	evMsg, err := conn.Await(ctx, protocol.TypeEvents)
	require.NoError(t, err)
	var pushed protocol.EventsPayload
	require.NoError(t, evMsg.ParsePayload(&pushed))
	require.NotEmpty(t, pushed.Events)

	var history protocol.EventsPayload
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/history", &history))
	require.NotEmpty(t, history.Events)
	assert.Equal(t, pushed.Events[len(pushed.Events)-1].Message, history.Events[len(history.Events)-1].Message)

	var rec database.Record
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/record?player="+ada.ID, &rec))
	assert.Equal(t, 1, rec.Games)
	assert.Zero(t, rec.Wins)

	var games []database.Game
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/games?status=started", &games))
	require.Len(t, games, 1)
	assert.Equal(t, sess.GameID(), games[0].ID)
}

func TestSeatTokens_SkipBots(t *testing.T) {
	players := append(humans("h1"), game.NewAIPlayer("bot-2", "Basil", "", game.DifficultyEasy))
	sess, err := session.New(session.Options{Players: players, Seed: 3})
	require.NoError(t, err)

	tokens := SeatTokens(sess.Snapshot())
	require.Len(t, tokens, 1)
	assert.NotEmpty(t, tokens["h1"])
	assert.NotEqual(t, "h1", tokens["h1"])
}
