package session

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"fitness-battle-server/adaptive"
	"fitness-battle-server/ai"
	"fitness-battle-server/catalog"
	"fitness-battle-server/config"
	"fitness-battle-server/game"
	"fitness-battle-server/gamerrors"
	"fitness-battle-server/storage"
)

// retention keeps finished sessions around so clients can still fetch the
// final state before the session is dropped.
const retention = 10 * time.Minute

// Manager owns all live battle sessions and the difficulty profiles. It is
// the single entry point the API and WebSocket layers go through.
type Manager struct {
	cfg     *config.Config
	cat     *catalog.Catalog
	store   storage.BattleStore
	effects game.EffectProvider

	mu       sync.Mutex
	sessions map[string]*game.Session
	// profiles is the in-memory fallback when no store is configured.
	profiles map[string]adaptive.Profile
}

// NewManager creates a Manager. store may be nil (no persistence).
func NewManager(cfg *config.Config, cat *catalog.Catalog, store storage.BattleStore, effects game.EffectProvider) *Manager {
	return &Manager{
		cfg:      cfg,
		cat:      cat,
		store:    store,
		effects:  effects,
		sessions: make(map[string]*game.Session),
		profiles: make(map[string]adaptive.Profile),
	}
}

// StartBattle creates a new session for the user, attaches an AI opponent
// and starts the session goroutine. Returns the opening state.
func (m *Manager) StartBattle(ctx context.Context, userID, playerName string) (game.StateMsg, error) {
	id := uuid.NewString()
	params := m.pickAIProfile()

	s, err := game.NewSession(id, userID, playerName, params.Name, m.cfg, m.cat, time.Now().UnixNano(), m.effects)
	if err != nil {
		return game.StateMsg{}, err
	}
	s.OnGameEnd = m.onGameEnd

	aiCh := make(chan []byte, 16)
	s.AttachAI(aiCh)

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	slog.Info("battle started", "tag", "session", "session", id, "user", userID, "ai", params.Name)

	go s.Run()
	go ai.Run(aiCh, s, params, m.cfg)

	return m.dispatch(s, game.Action{Type: game.ActionGetState, Seat: game.SeatHuman})
}

// PlayCard plays one card for the human seat. Rejects a second call while
// one is still in flight (one play at a time per session).
func (m *Manager) PlayCard(ctx context.Context, sessionID, userID, cardID string) (game.StateMsg, error) {
	s, err := m.lookup(sessionID, userID)
	if err != nil {
		return game.StateMsg{}, err
	}
	if !s.TryAcquire() {
		return game.StateMsg{}, gamerrors.ErrSessionBusy
	}
	defer s.Release()

	return m.dispatch(s, game.Action{Type: game.ActionPlayCard, Seat: game.SeatHuman, CardID: cardID})
}

// GetState returns the human view of the session.
func (m *Manager) GetState(sessionID, userID string) (game.StateMsg, error) {
	s, err := m.lookup(sessionID, userID)
	if err != nil {
		return game.StateMsg{}, err
	}
	return m.dispatch(s, game.Action{Type: game.ActionGetState, Seat: game.SeatHuman})
}

// Abandon forfeits the session for the user.
func (m *Manager) Abandon(sessionID, userID string) (game.StateMsg, error) {
	s, err := m.lookup(sessionID, userID)
	if err != nil {
		return game.StateMsg{}, err
	}
	return m.dispatch(s, game.Action{Type: game.ActionAbandon, Seat: game.SeatHuman})
}

// Lookup returns the live session for a state stream subscription.
func (m *Manager) Lookup(sessionID, userID string) (*game.Session, error) {
	return m.lookup(sessionID, userID)
}

// SubmitFeedback folds one workout feedback sample into the user's
// difficulty profile and returns the updated profile.
func (m *Manager) SubmitFeedback(ctx context.Context, userID, feedback string) (adaptive.Profile, error) {
	fb, err := adaptive.ParseFeedback(feedback)
	if err != nil {
		return adaptive.Profile{}, err
	}

	p, err := m.loadProfile(ctx, userID)
	if err != nil {
		return adaptive.Profile{}, err
	}
	p = adaptive.Adjust(p, fb, m.cfg.Adaptive)

	if err := m.saveProfile(ctx, p); err != nil {
		return adaptive.Profile{}, err
	}
	slog.Info("feedback applied", "tag", "session", "user", userID, "feedback", string(fb), "multiplier", p.Multiplier)
	return p, nil
}

// GetProfile returns the user's difficulty profile, creating a neutral one
// on first access.
func (m *Manager) GetProfile(ctx context.Context, userID string) (adaptive.Profile, error) {
	return m.loadProfile(ctx, userID)
}

func (m *Manager) lookup(sessionID, userID string) (*game.Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	m.mu.Unlock()
	if !ok || s.UserID != userID {
		return nil, gamerrors.ErrSessionNotFound
	}
	return s, nil
}

// dispatch sends an action into the session's causal stream and waits for
// the synchronous reply. Once the session loop has exited, the final state
// is still readable.
func (m *Manager) dispatch(s *game.Session, a game.Action) (game.StateMsg, error) {
	a.Reply = make(chan game.Reply, 1)
	select {
	case s.Actions <- a:
	case <-s.Done:
		if a.Type == game.ActionPlayCard {
			return s.BuildStateFor(game.SeatHuman), gamerrors.ErrGameFinished
		}
		return s.BuildStateFor(game.SeatHuman), nil
	}
	select {
	case r := <-a.Reply:
		return r.State, r.Err
	case <-s.Done:
		// Loop exited after accepting the action; the reply may still arrive.
		select {
		case r := <-a.Reply:
			return r.State, r.Err
		default:
			return s.BuildStateFor(game.SeatHuman), nil
		}
	}
}

func (m *Manager) pickAIProfile() *config.AIParams {
	if len(m.cfg.AIProfiles) == 0 {
		return &config.AIParams{Name: "Atlas"}
	}
	return &m.cfg.AIProfiles[rand.Intn(len(m.cfg.AIProfiles))]
}

// onGameEnd persists the battle result and schedules the session for
// removal. Runs on the session goroutine, so the write happens off it.
func (m *Manager) onGameEnd(s *game.Session) {
	if m.store != nil {
		go m.persistResult(s)
	}

	time.AfterFunc(retention, func() {
		m.mu.Lock()
		delete(m.sessions, s.ID)
		m.mu.Unlock()
	})
}

func (m *Manager) persistResult(s *game.Session) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := m.store.InsertBattleResult(ctx, s.ID, s.UserID,
		s.Players[game.SeatHuman].Name, s.Players[game.SeatAI].Name,
		s.Players[game.SeatHuman].Score, s.Players[game.SeatAI].Score,
		s.Winner, s.Round, s.EndReason)
	if err != nil {
		slog.Error("persisting battle result", "tag", "session", "session", s.ID, "err", err)
	}
}

func (m *Manager) loadProfile(ctx context.Context, userID string) (adaptive.Profile, error) {
	if m.store != nil {
		p, err := m.store.GetProfile(ctx, userID)
		if err != nil {
			return adaptive.Profile{}, err
		}
		if p != nil {
			return *p, nil
		}
		return adaptive.NewProfile(userID), nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.profiles[userID]; ok {
		return p, nil
	}
	return adaptive.NewProfile(userID), nil
}

func (m *Manager) saveProfile(ctx context.Context, p adaptive.Profile) error {
	if m.store != nil {
		return m.store.SaveProfile(ctx, p)
	}
	m.mu.Lock()
	m.profiles[p.UserID] = p
	m.mu.Unlock()
	return nil
}
