package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"fitness-battle-server/auth"
	"fitness-battle-server/config"
	"fitness-battle-server/gamerrors"
	"fitness-battle-server/session"
	"fitness-battle-server/storage"
)

const bearerPrefix = "Bearer "

// Handler holds dependencies for API handlers.
type Handler struct {
	Config  *config.Config
	Manager *session.Manager
	Store   storage.BattleStore
}

// NewHandler creates a new API handler with the given dependencies.
func NewHandler(cfg *config.Config, mgr *session.Manager, store storage.BattleStore) *Handler {
	return &Handler{
		Config:  cfg,
		Manager: mgr,
		Store:   store,
	}
}

// CORS sets CORS headers on the response. Call before writing body.
func CORS(w http.ResponseWriter, r *http.Request) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-User-ID")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return true
	}
	return false
}

// extractUser validates the Authorization header and returns the user ID and
// display name. When no JWKS endpoint is configured the X-User-ID header is
// trusted instead (local development).
func (h *Handler) extractUser(r *http.Request) (userID, name string) {
	if h.Config.AuthJWKSURL == "" {
		return r.Header.Get("X-User-ID"), ""
	}
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", ""
	}
	token := strings.TrimSpace(authHeader[len(bearerPrefix):])
	claims, err := auth.ValidateToken(h.Config.AuthJWKSURL, token)
	if err != nil {
		return "", ""
	}
	return auth.UserIDFromClaims(claims), auth.FirstNameFromClaims(claims)
}

// statusFor maps engine errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, gamerrors.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, gamerrors.ErrSessionBusy),
		errors.Is(err, gamerrors.ErrNotYourTurn),
		errors.Is(err, gamerrors.ErrGameFinished):
		return http.StatusConflict
	case errors.Is(err, gamerrors.ErrInvalidCard),
		errors.Is(err, gamerrors.ErrUnknownEffect),
		errors.Is(err, gamerrors.ErrInvalidFeedback):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "tag", "api", "err", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), statusFor(err))
}

// StartBattle creates a new battle session for the authenticated user.
// POST /api/battle/start
func (h *Handler) StartBattle(w http.ResponseWriter, r *http.Request) {
	if CORS(w, r) {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, name := h.extractUser(r)
	if userID == "" {
		http.Error(w, "authorization required", http.StatusUnauthorized)
		return
	}

	var body struct {
		PlayerName string `json:"player_name"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	if body.PlayerName != "" {
		name = body.PlayerName
	}
	if name == "" {
		name = "Athlete"
	}

	state, err := h.Manager.StartBattle(r.Context(), userID, name)
	if err != nil {
		slog.Error("starting battle", "tag", "api", "user", userID, "err", err)
		writeError(w, err)
		return
	}
	writeJSON(w, state)
}

// PlayCard plays one card for the human seat.
// POST /api/battle/play
func (h *Handler) PlayCard(w http.ResponseWriter, r *http.Request) {
	if CORS(w, r) {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, _ := h.extractUser(r)
	if userID == "" {
		http.Error(w, "authorization required", http.StatusUnauthorized)
		return
	}

	var body struct {
		SessionID string `json:"session_id"`
		CardID    string `json:"card_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.SessionID == "" || body.CardID == "" {
		http.Error(w, "session_id and card_id are required", http.StatusBadRequest)
		return
	}

	state, err := h.Manager.PlayCard(r.Context(), body.SessionID, userID, body.CardID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, state)
}

// BattleState returns the human view of a session.
// GET /api/battle/state?session_id=...
func (h *Handler) BattleState(w http.ResponseWriter, r *http.Request) {
	if CORS(w, r) {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, _ := h.extractUser(r)
	if userID == "" {
		http.Error(w, "authorization required", http.StatusUnauthorized)
		return
	}
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}

	state, err := h.Manager.GetState(sessionID, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, state)
}

// Abandon forfeits the session.
// POST /api/battle/abandon
func (h *Handler) Abandon(w http.ResponseWriter, r *http.Request) {
	if CORS(w, r) {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, _ := h.extractUser(r)
	if userID == "" {
		http.Error(w, "authorization required", http.StatusUnauthorized)
		return
	}

	var body struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.SessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}

	state, err := h.Manager.Abandon(body.SessionID, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, state)
}

// Feedback folds one workout feedback sample into the user's difficulty
// profile.
// POST /api/feedback
func (h *Handler) Feedback(w http.ResponseWriter, r *http.Request) {
	if CORS(w, r) {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, _ := h.extractUser(r)
	if userID == "" {
		http.Error(w, "authorization required", http.StatusUnauthorized)
		return
	}

	var body struct {
		Feedback string `json:"feedback"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Feedback == "" {
		http.Error(w, "feedback is required", http.StatusBadRequest)
		return
	}

	profile, err := h.Manager.SubmitFeedback(r.Context(), userID, body.Feedback)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, profile)
}

// ProfileResponse is the JSON structure for /api/profile.
type ProfileResponse struct {
	UserID     string                `json:"userId"`
	Multiplier float64               `json:"multiplier"`
	History    []string              `json:"history"`
	Summary    storage.BattleSummary `json:"summary"`
}

// Profile returns the user's difficulty profile and battle summary.
// GET /api/profile
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	if CORS(w, r) {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, _ := h.extractUser(r)
	if userID == "" {
		http.Error(w, "authorization required", http.StatusUnauthorized)
		return
	}

	profile, err := h.Manager.GetProfile(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	records := []storage.BattleRecord{}
	if h.Store != nil {
		records, err = h.Store.ListBattlesByUser(r.Context(), userID, 0)
		if err != nil {
			slog.Error("loading battle summary", "tag", "api", "user", userID, "err", err)
			http.Error(w, "failed to load profile", http.StatusInternalServerError)
			return
		}
	}

	history := make([]string, len(profile.History))
	for i, fb := range profile.History {
		history[i] = string(fb)
	}
	writeJSON(w, ProfileResponse{
		UserID:     profile.UserID,
		Multiplier: profile.Multiplier,
		History:    history,
		Summary:    storage.SummarizeBattles(records),
	})
}

// History returns the battle history for the authenticated user.
// GET /api/history?limit=...
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	if CORS(w, r) {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, _ := h.extractUser(r)
	if userID == "" {
		http.Error(w, "authorization required", http.StatusUnauthorized)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	list := []storage.BattleRecord{}
	if h.Store != nil {
		records, err := h.Store.ListBattlesByUser(r.Context(), userID, limit)
		if err != nil {
			slog.Error("loading history", "tag", "api", "user", userID, "err", err)
			http.Error(w, "failed to load history", http.StatusInternalServerError)
			return
		}
		// Keep the list non-nil so an empty history serializes as [].
		list = append(list, records...)
	}
	writeJSON(w, list)
}
