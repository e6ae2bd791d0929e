package game

import (
	"log/slog"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"fitness-battle-server/catalog"
	"fitness-battle-server/config"
	"fitness-battle-server/deck"
	"fitness-battle-server/scoring"
)

// Seat indices. The human always sits at 0 and plays first.
const (
	SeatHuman = 0
	SeatAI    = 1
)

// Phase represents the current phase of the turn state machine.
type Phase int

const (
	PlayerTurn Phase = iota
	Resolving
	AITurn
	RoundEnd
	GameEnd
)

// String returns the protocol string for a Phase.
func (p Phase) String() string {
	switch p {
	case PlayerTurn:
		return "player_turn"
	case Resolving:
		return "resolving"
	case AITurn:
		return "ai_turn"
	case RoundEnd:
		return "round_end"
	case GameEnd:
		return "game_end"
	default:
		return "unknown"
	}
}

// ActionType enumerates the kinds of actions a session can process.
type ActionType int

const (
	ActionPlayCard ActionType = iota
	ActionGetState
	ActionAbandon
	ActionAITimeout // internal: fired when the AI deliberation window expires
)

// Reply carries the synchronous result of an action back to the caller.
type Reply struct {
	State StateMsg
	Err   error
}

// Action represents one event sent into the session's action channel.
type Action struct {
	Type   ActionType
	Seat   int    // 0 human, 1 AI
	CardID string // for ActionPlayCard
	Reply  chan Reply
}

// EffectProvider abstracts the utility effect registry so the game package
// does not import the effect package directly (avoids circular deps).
type EffectProvider interface {
	GetEffect(tag catalog.EffectTag) (UtilityEffectDef, bool)
}

// UtilityEffectDef holds the definition of a utility card effect as seen by
// the game package.
type UtilityEffectDef struct {
	Tag         catalog.EffectTag
	Name        string
	Description string
	Apply       func(s *Session, seat int) error
}

// Session manages a single battle between a human and the AI opponent.
// All mutation flows through the Actions channel: one causal stream of turn
// events, never two turns in flight at once.
type Session struct {
	ID     string
	UserID string
	Cfg    *config.Config
	Seed   int64

	RNG        *rand.Rand
	Deck       *deck.Deck
	Players    [2]*Player
	TotalCards int

	Phase    Phase
	Turn     int // active seat
	Round    int
	Finished bool
	// Winner is 0, 1 or -1 for a draw; valid once Finished.
	Winner    int
	EndReason string

	// SkipNext marks a seat whose following turn ends without a play.
	SkipNext [2]bool

	// Emotion is the AI seat's surfaced mood. Cosmetic only.
	Emotion EmotionState
	// emotionHold keeps a just-fired event mood visible through the next
	// turn boundary before the baseline resumes.
	emotionHold bool

	Effects EffectProvider

	lastPlay    *PlayView
	roundPoints [2]int

	aiTimerCancel chan struct{}

	// busy rejects a play call while another one is still in flight.
	busy atomic.Bool

	Actions chan Action
	Done    chan struct{}

	subMu       sync.Mutex
	subscribers map[chan []byte]struct{}
	aiSend      chan []byte

	// OnGameEnd is called once when the session reaches GameEnd (normal
	// finish or abandonment). Optional; set by the session manager.
	OnGameEnd func(s *Session)
}

// NewSession builds a session deck from the catalog, shuffles it with the
// given seed, deals the opening hands and returns the session in PlayerTurn.
func NewSession(id, userID, playerName, aiName string, cfg *config.Config, cat *catalog.Catalog, seed int64, effects EffectProvider) (*Session, error) {
	rng := rand.New(rand.NewSource(seed))
	d, err := deck.Build(cat, cfg.Deck)
	if err != nil {
		return nil, err
	}
	d.Shuffle(rng)

	s := &Session{
		ID:          id,
		UserID:      userID,
		Cfg:         cfg,
		Seed:        seed,
		RNG:         rng,
		Deck:        d,
		Players:     [2]*Player{NewPlayer(playerName), NewPlayer(aiName)},
		TotalCards:  len(d.Draw),
		Phase:       PlayerTurn,
		Turn:        SeatHuman,
		Winner:      -1,
		Emotion:     EmotionNeutral,
		Effects:     effects,
		Actions:     make(chan Action, 16),
		Done:        make(chan struct{}),
		subscribers: make(map[chan []byte]struct{}),
	}

	for seat := range s.Players {
		s.drawIntoHand(seat, cfg.HandRefill)
	}
	return s, nil
}

// Run is the session's main loop. It processes actions sequentially and
// should be run as a goroutine.
func (s *Session) Run() {
	defer close(s.Done)

	s.broadcastState()

	for action := range s.Actions {
		if s.Finished {
			reply(action.Reply, s.BuildStateFor(viewSeat(action.Seat)), nil)
			return
		}
		switch action.Type {
		case ActionPlayCard:
			state, err := s.handlePlayCard(action.Seat, action.CardID, false)
			reply(action.Reply, state, err)
		case ActionGetState:
			reply(action.Reply, s.BuildStateFor(viewSeat(action.Seat)), nil)
		case ActionAbandon:
			s.finish("abandoned")
			reply(action.Reply, s.BuildStateFor(viewSeat(action.Seat)), nil)
			return
		case ActionAITimeout:
			s.handleAITimeout()
		}
		if s.Finished {
			return
		}
	}
}

// TryAcquire marks the session busy for one play call. Returns false when
// another call is already in flight; the caller must surface ErrSessionBusy
// instead of queueing.
func (s *Session) TryAcquire() bool {
	return s.busy.CompareAndSwap(false, true)
}

// Release clears the busy flag set by TryAcquire.
func (s *Session) Release() {
	s.busy.Store(false)
}

func viewSeat(seat int) int {
	if seat == SeatAI {
		return SeatAI
	}
	return SeatHuman
}

func reply(ch chan Reply, state StateMsg, err error) {
	if ch == nil {
		return
	}
	ch <- Reply{State: state, Err: err}
}

func basePoints(c catalog.Card, cfg *config.Config) int {
	return scoring.BasePoints(c, cfg)
}

// drawIntoHand draws up to n cards for the seat, capped at HandSize.
// Exhaustion is not an error here; the turn logic decides when an empty
// deck ends the game.
func (s *Session) drawIntoHand(seat, n int) {
	p := s.Players[seat]
	room := s.Cfg.HandSize - len(p.Hand)
	if n > room {
		n = room
	}
	if n <= 0 {
		return
	}
	cards, err := s.Deck.DrawN(n, s.RNG)
	if err != nil {
		return
	}
	p.Hand = append(p.Hand, cards...)
}

// cancelAITimer closes the timer cancel channel so its goroutine exits.
// Safe if no timer is running.
func (s *Session) cancelAITimer() {
	if s.aiTimerCancel != nil {
		close(s.aiTimerCancel)
		s.aiTimerCancel = nil
	}
}

// startAITimer bounds the AI's deliberation window. On expiry the session
// auto-plays for the AI. No-op if the window is disabled.
func (s *Session) startAITimer() {
	if s.Cfg.AIDeliberationMS <= 0 {
		return
	}
	s.cancelAITimer()
	s.aiTimerCancel = make(chan struct{})
	cancel := s.aiTimerCancel
	limit := time.Duration(s.Cfg.AIDeliberationMS) * time.Millisecond
	go func() {
		select {
		case <-time.After(limit):
			select {
			case s.Actions <- Action{Type: ActionAITimeout}:
			case <-s.Done:
			}
		case <-cancel:
		}
	}()
}

// Subscribe attaches a state stream channel. Every broadcast state (built
// for the human seat) is delivered to it; sends never block.
func (s *Session) Subscribe(ch chan []byte) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subscribers[ch] = struct{}{}
}

// Unsubscribe detaches a state stream channel.
func (s *Session) Unsubscribe(ch chan []byte) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	delete(s.subscribers, ch)
}

// AttachAI sets the channel that receives the AI seat's view of every
// broadcast; the AI strategy goroutine consumes it.
func (s *Session) AttachAI(ch chan []byte) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.aiSend = ch
}

// safeSend delivers data without blocking and without panicking if the
// channel was closed by its consumer.
func safeSend(ch chan []byte, data []byte) {
	defer func() {
		if r := recover(); r != nil {
			slog.Debug("state send on closed channel", "tag", "game")
		}
	}()
	select {
	case ch <- data:
	default:
	}
}

func (s *Session) broadcastState() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	if len(s.subscribers) > 0 {
		data, err := marshalState(s.BuildStateFor(SeatHuman))
		if err != nil {
			slog.Error("marshaling session state", "tag", "game", "err", err)
		} else {
			for ch := range s.subscribers {
				safeSend(ch, data)
			}
		}
	}
	if s.aiSend != nil {
		data, err := marshalState(s.BuildStateFor(SeatAI))
		if err != nil {
			slog.Error("marshaling AI session state", "tag", "game", "err", err)
			return
		}
		safeSend(s.aiSend, data)
	}
}
