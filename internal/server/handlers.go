package server

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"settlers/internal/database"
	"settlers/internal/game"
	"settlers/internal/protocol"
	"settlers/pkg/maps"
)

var errNotAuthenticated = errors.New("not authenticated")

// Handlers processes incoming messages.
type Handlers struct {
	hub *Hub
}

// NewHandlers creates a new handler set.
func NewHandlers(hub *Hub) *Handlers {
	return &Handlers{hub: hub}
}

// Handle routes a message to the appropriate handler.
func (h *Handlers) Handle(client *Client, msg *protocol.Message) {
	if !client.limiter.Allow() {
		h.reply(client, msg.ID, protocol.ErrCodeRateLimited, "slow down")
		return
	}

	var err error
	switch {
	case msg.Type == protocol.TypeAuthenticate:
		err = h.handleAuthenticate(client, msg)
	case msg.Type == protocol.TypeRequestLegal:
		err = h.handleRequestLegal(client, msg)
	case msg.Type == protocol.TypePing:
		err = h.send(client, msg.ID, protocol.TypePong, nil)
	case protocol.IsAction(msg.Type):
		err = h.handleAction(client, msg)
	default:
		h.reply(client, msg.ID, protocol.ErrCodeBadRequest, "unknown message type "+string(msg.Type))
		return
	}

	if err != nil {
		h.sendError(client, msg.ID, err)
	}
}

// handleAuthenticate binds the connection to a seat by token. Without a
// database the server's issued seat tokens are used.
func (h *Handlers) handleAuthenticate(client *Client, msg *protocol.Message) error {
	var payload protocol.AuthenticatePayload
	if err := msg.ParsePayload(&payload); err != nil {
		return err
	}

	g := h.hub.server.sess.Snapshot()
	result := protocol.AuthResultPayload{Success: true}

	if payload.Token != "" {
		id, name, err := h.lookup(payload.Token)
		switch {
		case err != nil:
			return err
		case id == "" || g.Player(id) == nil || h.hub.server.sess.IsBot(id):
			result = protocol.AuthResultPayload{Error: "unknown token"}
		default:
			h.hub.SetClientPlayer(client, id)
			result.PlayerID, result.Name = id, name
			h.hub.server.log.Info("player connected",
				zap.String("conn_id", client.ID),
				zap.String("player_id", id),
			)
		}
	}

	if err := h.send(client, msg.ID, protocol.TypeAuthResult, result); err != nil {
		return err
	}
	state, err := protocol.NewGameStatePayload(g)
	if err != nil {
		return err
	}
	return h.send(client, "", protocol.TypeGameState, state)
}

func (h *Handlers) lookup(token string) (id, name string, err error) {
	db := h.hub.server.db
	if db == nil {
		for id, t := range h.hub.server.tokens {
			if subtle.ConstantTimeCompare([]byte(t), []byte(token)) != 1 {
				continue
			}
			if p := h.hub.server.sess.Snapshot().Player(id); p != nil {
				return p.ID, p.Name, nil
			}
		}
		return "", "", nil
	}

	player, err := db.GetPlayerByToken(token)
	if errors.Is(err, database.ErrPlayerNotFound) {
		return "", "", nil
	}
	if err != nil {
		return "", "", err
	}
	if err := db.UpdatePlayerLastSeen(player.ID); err != nil {
		h.hub.server.log.Warn("update last seen failed", zap.String("player_id", player.ID), zap.Error(err))
	}
	return player.ID, player.Name, nil
}

func (h *Handlers) handleRequestLegal(client *Client, msg *protocol.Message) error {
	var payload protocol.RequestLegalPayload
	if err := msg.ParsePayload(&payload); err != nil {
		return err
	}
	id := payload.PlayerID
	if id == "" {
		id = client.PlayerID
	}
	g := h.hub.server.sess.Snapshot()
	if g.Player(id) == nil {
		h.reply(client, msg.ID, protocol.ErrCodeInvalidPlayer, "unknown player")
		return nil
	}
	return h.send(client, msg.ID, protocol.TypeLegal, protocol.NewLegalPayload(g, id))
}

// handleAction runs an action for the connection's seat. Any player ID in
// the payload is replaced.
func (h *Handlers) handleAction(client *Client, msg *protocol.Message) error {
	if client.PlayerID == "" {
		return errNotAuthenticated
	}
	a, err := protocol.DecodeAction(msg.Type, msg.Payload)
	if err != nil {
		return err
	}
	a = protocol.WithActor(a, client.PlayerID)

	// Success is reported by the state broadcast.
	_, err = h.hub.server.sess.Dispatch(a)
	return err
}

func (h *Handlers) send(client *Client, replyTo string, t protocol.MessageType, payload any) error {
	msg, err := protocol.NewMessage(t, payload)
	if err != nil {
		return err
	}
	if replyTo != "" {
		msg.ID = replyTo
	}
	client.Send(msg)
	return nil
}

func (h *Handlers) reply(client *Client, replyTo string, code protocol.ErrorCode, text string) {
	msg, err := protocol.NewError(code, text, replyTo)
	if err != nil {
		return
	}
	client.Send(msg)
}

// sendError sends an error response with the code for err.
func (h *Handlers) sendError(client *Client, replyTo string, err error) {
	code := protocol.ErrorCodeFor(err)
	switch {
	case errors.Is(err, errNotAuthenticated):
		code = protocol.ErrCodeNotAuthenticated
	case code == protocol.ErrCodeInternalError:
		h.hub.server.log.Error("message failed", zap.String("conn_id", client.ID), zap.Error(err))
	}
	h.reply(client, replyTo, code, err.Error())
}

// BoardView is the board with pixel coordinates for renderers.
type BoardView struct {
	LayoutID string       `json:"layoutId"`
	Size     float64      `json:"size"`
	Robber   game.TileID  `json:"robber"`
	Tiles    []TileView   `json:"tiles"`
	Corners  []CornerView `json:"corners"`
	Paths    []PathView   `json:"paths"`
	Ports    []game.Port  `json:"ports"`
}

// TileView is a tile and its center.
type TileView struct {
	game.Tile
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CornerView is a corner, its position, and what stands on it.
type CornerView struct {
	ID       game.CornerID `json:"id"`
	X        float64       `json:"x"`
	Y        float64       `json:"y"`
	Building game.Building `json:"building"`
}

// PathView is a path and its road owner, if any.
type PathView struct {
	ID      game.PathID      `json:"id"`
	Corners [2]game.CornerID `json:"corners"`
	Owner   string           `json:"owner,omitempty"`
}

const defaultHexSize = 50.0

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	if !getOnly(w, r) {
		return
	}
	size := defaultHexSize
	if v, err := strconv.ParseFloat(r.URL.Query().Get("size"), 64); err == nil && v > 0 {
		size = v
	}

	g := s.sess.Snapshot()
	layout := maps.Get(g.Board.LayoutID)
	if layout == nil {
		http.Error(w, "Unknown layout", http.StatusInternalServerError)
		return
	}
	writeJSON(w, newBoardView(g, layout, size))
}

func newBoardView(g *game.GameState, layout *maps.Layout, size float64) BoardView {
	v := BoardView{
		LayoutID: g.Board.LayoutID,
		Size:     size,
		Robber:   g.Robber,
		Tiles:    make([]TileView, len(g.Board.Tiles)),
		Corners:  make([]CornerView, len(g.Board.Corners)),
		Paths:    make([]PathView, len(g.Board.Paths)),
		Ports:    g.Board.Ports,
	}
	for i, t := range g.Board.Tiles {
		x, y := layout.HexCenter(i, size)
		v.Tiles[i] = TileView{Tile: t, X: x, Y: y}
	}
	for i := range g.Board.Corners {
		x, y := layout.CornerPoint(i, size)
		v.Corners[i] = CornerView{ID: game.CornerID(i), X: x, Y: y, Building: g.Buildings[i]}
	}
	for i, p := range g.Board.Paths {
		v.Paths[i] = PathView{ID: p.ID, Corners: p.Corners, Owner: g.Roads[i]}
	}
	return v
}
