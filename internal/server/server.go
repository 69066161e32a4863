// Package server exposes a running game over HTTP and WebSocket.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"settlers/internal/database"
	"settlers/internal/game"
	"settlers/internal/protocol"
	"settlers/internal/session"
	"settlers/pkg/maps"
)

// Server is the main game server.
type Server struct {
	db       *database.DB
	sess     *session.Session
	hub      *Hub
	upgrader websocket.Upgrader
	addr     string
	limit    rate.Limit
	burst    int
	server   *http.Server
	log      *zap.Logger
	tokens   map[string]string

	unsubscribe func()
}

// Config holds server configuration.
type Config struct {
	Addr      string
	RatePerS  float64 // inbound messages per second per connection
	RateBurst int

	// Tokens maps seat ID to token. It authenticates seats when there is
	// no database.
	Tokens map[string]string
}

// SeatTokens issues a random token for every human seat.
func SeatTokens(g *game.GameState) map[string]string {
	tokens := make(map[string]string)
	for _, id := range g.PlayerOrder {
		if !g.Players[id].IsAI {
			tokens[id] = uuid.New().String()
		}
	}
	return tokens
}

// New creates a server for one session. db may be nil, in which case
// seats authenticate with cfg.Tokens and the history endpoint falls back
// to the session.
func New(cfg Config, sess *session.Session, db *database.DB, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.RatePerS <= 0 {
		cfg.RatePerS = 10
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 20
	}

	s := &Server{
		db:     db,
		sess:   sess,
		addr:   cfg.Addr,
		limit:  rate.Limit(cfg.RatePerS),
		burst:  cfg.RateBurst,
		log:    log.Named("server"),
		tokens: cfg.Tokens,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	s.hub = NewHub(s)
	s.unsubscribe = sess.Subscribe(s.hub.publish)
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/api/state", s.handleState)
	mux.HandleFunc("/api/board", s.handleBoard)
	mux.HandleFunc("/api/legal", s.handleLegal)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/api/games", s.handleListGames)
	mux.HandleFunc("/api/record", s.handleRecord)
	mux.HandleFunc("/api/layouts", s.handleLayouts)
	return mux
}

// Run starts the hub loop. Start calls it; tests that serve Handler
// directly call it themselves.
func (s *Server) Run() {
	go s.hub.Run()
}

// Start serves until Stop.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.log.Info("listening",
		zap.String("addr", s.addr),
		zap.String("game_id", s.sess.GameID()),
		zap.String("ws", "ws://localhost"+s.addr+"/ws"),
	)

	s.Run()
	s.sess.Start()

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts down the server. The database and session belong
// to the caller.
func (s *Server) Stop(ctx context.Context) error {
	s.unsubscribe()
	s.hub.Stop()
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// handleWebSocket upgrades HTTP connections to WebSocket.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := NewClient(s.hub, conn, rate.NewLimiter(s.limit, s.burst))
	s.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func getOnly(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if !getOnly(w, r) {
		return
	}
	payload, err := protocol.NewGameStatePayload(s.sess.Snapshot())
	if err != nil {
		http.Error(w, "Failed to encode state", http.StatusInternalServerError)
		return
	}
	writeJSON(w, payload)
}

func (s *Server) handleLegal(w http.ResponseWriter, r *http.Request) {
	if !getOnly(w, r) {
		return
	}
	g := s.sess.Snapshot()
	id := r.URL.Query().Get("player")
	if id == "" {
		id = g.CurrentPlayerID
	}
	if g.Player(id) == nil {
		http.Error(w, "Unknown player", http.StatusNotFound)
		return
	}
	writeJSON(w, protocol.NewLegalPayload(g, id))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if !getOnly(w, r) {
		return
	}
	after, _ := strconv.Atoi(r.URL.Query().Get("after"))

	if s.db == nil {
		writeJSON(w, protocol.EventsPayload{Events: s.sess.Snapshot().EventsSince(after)})
		return
	}
	rows, err := s.db.GetGameHistorySince(s.sess.GameID(), after)
	if err != nil {
		http.Error(w, "Failed to load history", http.StatusInternalServerError)
		return
	}
	events := make([]game.Event, 0, len(rows))
	for _, h := range rows {
		events = append(events, game.Event{
			Seq:     h.Seq,
			Turn:    h.Turn,
			Player:  h.PlayerID,
			Kind:    h.EventType,
			Message: h.Message,
		})
	}
	writeJSON(w, protocol.EventsPayload{Events: events})
}

// handleListGames returns the archived games.
func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	if !getOnly(w, r) {
		return
	}
	if s.db == nil {
		writeJSON(w, []any{})
		return
	}
	games, err := s.db.ListGames(database.GameStatus(r.URL.Query().Get("status")))
	if err != nil {
		http.Error(w, "Failed to list games", http.StatusInternalServerError)
		return
	}
	writeJSON(w, games)
}

// handleRecord reports a player's archived wins.
func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	if !getOnly(w, r) {
		return
	}
	if s.db == nil {
		http.Error(w, "No database", http.StatusNotFound)
		return
	}
	id := r.URL.Query().Get("player")
	if id == "" {
		http.Error(w, "Missing player", http.StatusBadRequest)
		return
	}
	rec, err := s.db.GetPlayerRecord(id)
	if err != nil {
		http.Error(w, "Failed to load record", http.StatusInternalServerError)
		return
	}
	writeJSON(w, rec)
}

func (s *Server) handleLayouts(w http.ResponseWriter, r *http.Request) {
	if !getOnly(w, r) {
		return
	}
	writeJSON(w, maps.List())
}

// Hub maintains the set of active clients and broadcasts messages.
type Hub struct {
	server   *Server
	handlers *Handlers

	// Registered clients
	clients map[*Client]bool

	// Clients by seat
	playerClients map[string]*Client

	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once

	mu sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub(server *Server) *Hub {
	h := &Hub{
		server:        server,
		clients:       make(map[*Client]bool),
		playerClients: make(map[string]*Client),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		done:          make(chan struct{}),
	}
	h.handlers = NewHandlers(h)
	return h
}

// Run starts the hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.sendWelcome(client)

		case client := <-h.unregister:
			h.handleDisconnect(client)

		case <-h.done:
			h.mu.Lock()
			for client := range h.clients {
				client.close()
			}
			h.clients = make(map[*Client]bool)
			h.playerClients = make(map[string]*Client)
			h.mu.Unlock()
			return
		}
	}
}

// Stop ends the hub loop and closes every connection.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.close()
	}
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) sendWelcome(client *Client) {
	msg, err := protocol.NewMessage(protocol.TypeWelcome, protocol.WelcomePayload{
		ConnectionID: client.ID,
		GameID:       h.server.sess.GameID(),
	})
	if err != nil {
		return
	}
	client.Send(msg)
}

func (h *Hub) handleDisconnect(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	if client.PlayerID != "" && h.playerClients[client.PlayerID] == client {
		delete(h.playerClients, client.PlayerID)
	}
	h.server.log.Debug("client disconnected",
		zap.String("conn_id", client.ID),
		zap.String("player_id", client.PlayerID),
	)
	client.close()
}

// SetClientPlayer binds a connection to a seat. An older connection for
// the same seat is dropped.
func (h *Hub) SetClientPlayer(client *Client, playerID string) {
	h.mu.Lock()
	old := h.playerClients[playerID]
	client.PlayerID = playerID
	h.playerClients[playerID] = client
	h.mu.Unlock()

	if old != nil && old != client {
		go h.Unregister(old)
	}
}

// broadcast sends a message to every connected client.
func (h *Hub) broadcast(msgType protocol.MessageType, payload any) {
	msg, err := protocol.NewMessage(msgType, payload)
	if err != nil {
		h.server.log.Error("encode broadcast failed", zap.String("type", string(msgType)), zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		client.Send(msg)
	}
}

// publish fans a session update out to every client. It runs under the
// session lock, so it only queues.
func (h *Hub) publish(u session.Update) {
	state, err := protocol.NewGameStatePayload(u.State)
	if err != nil {
		h.server.log.Error("encode state failed", zap.Int("seq", u.Seq), zap.Error(err))
		return
	}
	h.broadcast(protocol.TypeGameState, state)
	if len(u.Events) > 0 {
		h.broadcast(protocol.TypeEvents, protocol.EventsPayload{Events: u.Events})
	}
	if g := u.State; g.IsGameOver() {
		h.broadcast(protocol.TypeGameEnded, protocol.GameEndedPayload{
			WinnerID:   g.Winner,
			WinnerName: g.Players[g.Winner].Name,
			Standings:  state.Standings,
		})
	}
}

// Client represents a connected WebSocket client.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan *protocol.Message
	limiter *rate.Limiter

	mu     sync.Mutex
	closed bool

	ID       string
	PlayerID string
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 65536
)

// NewClient creates a new client.
func NewClient(hub *Hub, conn *websocket.Conn, limiter *rate.Limiter) *Client {
	return &Client{
		hub:     hub,
		conn:    conn,
		send:    make(chan *protocol.Message, 256),
		limiter: limiter,
		ID:      uuid.New().String(),
	}
}

// Send queues a message to be sent to the client. A client that falls
// too far behind is dropped.
func (c *Client) Send(msg *protocol.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- msg:
	default:
		go c.hub.Unregister(c)
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// ReadPump reads and handles messages. One connection's messages are
// handled in the order they arrive.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.server.log.Warn("websocket error", zap.String("conn_id", c.ID), zap.Error(err))
			}
			break
		}

		var msg protocol.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			reply, _ := protocol.NewError(protocol.ErrCodeBadRequest, "invalid message", "")
			c.Send(reply)
			continue
		}

		c.hub.handlers.Handle(c, &msg)
	}
}

// WritePump pumps messages from the hub to the WebSocket.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(msg)
			if err != nil {
				c.hub.server.log.Error("marshal message failed", zap.Error(err))
				continue
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
