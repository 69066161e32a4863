// Package session owns one running game. It serializes every action,
// drives the computer seats, and mirrors accepted actions into the
// journal and the replay log.
package session

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"go.uber.org/zap"

	"settlers/internal/ai"
	"settlers/internal/game"
	"settlers/internal/replay"
	"settlers/pkg/maps"
)

// DefaultMaxBotSteps bounds how many bot actions one call may chain.
const DefaultMaxBotSteps = 2000

// ErrClosed is returned by Dispatch after Close.
var ErrClosed = errors.New("session closed")

// Journal archives a game. *database.DB satisfies it.
type Journal interface {
	CreateGame(g *game.GameState, seed int64) error
	AppendAction(gameID string, seq int, a game.Action, digest string) error
	AddHistoryEvents(gameID string, events []game.Event) error
	FinishGame(g *game.GameState) error
}

// Recorder receives every accepted action. *replay.Writer satisfies it.
type Recorder interface {
	Record(seq int, a game.Action, after *game.GameState) error
	Close() error
}

// Update is sent to subscribers after each accepted action.
type Update struct {
	Seq    int
	Action game.Action
	State  *game.GameState
	Events []game.Event
}

// Options configure a new session.
type Options struct {
	Settings    game.Settings
	Layout      *maps.Layout // nil looks up Settings.LayoutID
	Players     []*game.Player
	Seed        int64
	Journal     Journal
	ReplayDir   string // empty disables the replay log
	MaxBotSteps int
	Log         *zap.Logger
}

// Session is the single owner of a game's current snapshot.
type Session struct {
	mu     sync.Mutex
	state  *game.GameState
	rng    *rand.Rand
	seed   int64
	seq    int
	events int
	closed bool

	bots        map[string]*ai.Bot
	maxBotSteps int

	journal  Journal
	recorder Recorder
	header   replay.Header

	subMu  sync.Mutex
	subs   map[int]func(Update)
	nextID int

	log *zap.Logger
}

// New creates the game and archives it. Bots do not move until Start.
func New(opts Options) (*Session, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	rng := game.NewRand(opts.Seed)
	g, err := game.NewGame(opts.Settings, opts.Layout, opts.Players, rng)
	if err != nil {
		return nil, err
	}
	header, err := replay.NewHeader(g, opts.Seed)
	if err != nil {
		return nil, err
	}

	s := &Session{
		state:       g,
		rng:         rng,
		seed:        opts.Seed,
		bots:        make(map[string]*ai.Bot),
		maxBotSteps: opts.MaxBotSteps,
		journal:     opts.Journal,
		header:      header,
		subs:        make(map[int]func(Update)),
		log:         log.Named("session").With(zap.String("game_id", g.ID)),
	}
	if s.maxBotSteps <= 0 {
		s.maxBotSteps = DefaultMaxBotSteps
	}
	for seat, id := range g.PlayerOrder {
		if p := g.Players[id]; p.IsAI {
			s.bots[id] = ai.New(id, p.Difficulty, opts.Seed+int64(seat)+1)
		}
	}
	s.events = lastEventSeq(g)

	if s.journal != nil {
		if err := s.journal.CreateGame(g, opts.Seed); err != nil {
			return nil, fmt.Errorf("archive game: %w", err)
		}
	}
	if opts.ReplayDir != "" {
		w, path, err := replay.Create(opts.ReplayDir, header)
		if err != nil {
			return nil, fmt.Errorf("open replay log: %w", err)
		}
		s.recorder = w
		s.log.Info("recording replay", zap.String("path", path))
	}

	s.log.Info("game created",
		zap.Int64("seed", opts.Seed),
		zap.String("layout", g.Board.LayoutID),
		zap.Int("players", len(g.PlayerOrder)),
		zap.Int("bots", len(s.bots)),
	)
	return s, nil
}

// SetRecorder replaces the replay recorder. It must be called before
// Start.
func (s *Session) SetRecorder(r Recorder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorder = r
}

// Header describes the starting state for replay logs.
func (s *Session) Header() replay.Header {
	return s.header
}

// GameID returns the game's ID.
func (s *Session) GameID() string {
	return s.header.GameID
}

// Snapshot returns the current state. Callers must not modify it.
func (s *Session) Snapshot() *game.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Seq returns the number of accepted actions.
func (s *Session) Seq() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// IsBot reports whether a computer plays the seat.
func (s *Session) IsBot(playerID string) bool {
	_, ok := s.bots[playerID]
	return ok
}

// Subscribe registers fn for every accepted action and returns a function
// that removes it. fn runs while the session is locked and must not call
// back into the session.
func (s *Session) Subscribe(fn func(Update)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// Start lets the bots play until a human seat must act.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.driveBots()
}

// Dispatch validates and applies an action from a human seat, then lets
// the bots respond. The returned state is current even on error.
func (s *Session) Dispatch(a game.Action) (*game.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return s.state, ErrClosed
	}
	if err := s.apply(a); err != nil {
		s.log.Debug("action rejected",
			zap.String("player_id", a.Actor()),
			zap.String("action", string(a.Type())),
			zap.Error(err),
		)
		return s.state, err
	}
	s.driveBots()
	return s.state, nil
}

// apply commits one action. Journal and recorder failures are logged; the
// state change stands.
func (s *Session) apply(a game.Action) error {
	if err := game.Validate(s.state, a); err != nil {
		return err
	}
	prev := s.state
	next := game.Reduce(prev, a, s.rng)
	s.seq++
	s.state = next

	events := next.EventsSince(s.events)
	s.events = lastEventSeq(next)

	if s.journal != nil {
		digest, err := replay.Digest(next)
		if err != nil {
			s.log.Error("digest failed", zap.Int("seq", s.seq), zap.Error(err))
		}
		if err := s.journal.AppendAction(next.ID, s.seq, a, digest); err != nil {
			s.log.Error("journal append failed", zap.Int("seq", s.seq), zap.Error(err))
		}
		if err := s.journal.AddHistoryEvents(next.ID, events); err != nil {
			s.log.Error("history append failed", zap.Int("seq", s.seq), zap.Error(err))
		}
	}
	if s.recorder != nil {
		if err := s.recorder.Record(s.seq, a, next); err != nil {
			s.log.Error("replay record failed", zap.Int("seq", s.seq), zap.Error(err))
		}
	}

	if next.IsGameOver() && !prev.IsGameOver() {
		s.finish(next)
	}
	s.notify(Update{Seq: s.seq, Action: a, State: next, Events: events})
	return nil
}

func (s *Session) finish(g *game.GameState) {
	s.log.Info("game finished",
		zap.String("winner", g.Winner),
		zap.Int("turns", g.Turn),
		zap.Int("actions", s.seq),
	)
	if s.journal != nil {
		if err := s.journal.FinishGame(g); err != nil {
			s.log.Error("archive result failed", zap.Error(err))
		}
	}
}

// driveBots applies bot moves until no bot has anything to do or the step
// cap is hit. Seats are asked in turn order so discards resolve in order.
func (s *Session) driveBots() {
	if len(s.bots) == 0 {
		return
	}
	for step := 0; step < s.maxBotSteps; step++ {
		if s.state.IsGameOver() {
			return
		}
		acted := false
		for _, id := range s.state.PlayerOrder {
			b := s.bots[id]
			if b == nil {
				continue
			}
			a, ok := b.Decide(s.state)
			if !ok {
				continue
			}
			if err := s.apply(a); err != nil {
				s.log.Error("bot proposed an illegal action",
					zap.String("player_id", id),
					zap.String("action", string(a.Type())),
					zap.Error(err),
				)
				return
			}
			acted = true
			break
		}
		if !acted {
			return
		}
	}
	s.log.Warn("bot step limit reached", zap.Int("limit", s.maxBotSteps), zap.Int("turn", s.state.Turn))
}

func (s *Session) notify(u Update) {
	s.subMu.Lock()
	fns := make([]func(Update), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(u)
	}
}

// Close stops accepting actions and flushes the replay log.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.recorder != nil {
		return s.recorder.Close()
	}
	return nil
}

func lastEventSeq(g *game.GameState) int {
	if n := len(g.Log); n > 0 {
		return g.Log[n-1].Seq
	}
	return 0
}
