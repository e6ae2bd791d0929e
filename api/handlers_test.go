package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fitness-battle-server/adaptive"
	"fitness-battle-server/config"
	"fitness-battle-server/storage"
)

// emptyStore is a BattleStore with no data. ListBattlesByUser deliberately
// returns a nil slice, the shape a backend with zero rows can produce.
type emptyStore struct{}

func (emptyStore) GetProfile(ctx context.Context, userID string) (*adaptive.Profile, error) {
	return nil, nil
}

func (emptyStore) ListBattlesByUser(ctx context.Context, userID string, limit int) ([]storage.BattleRecord, error) {
	return nil, nil
}

func (emptyStore) SaveProfile(ctx context.Context, p adaptive.Profile) error { return nil }

func (emptyStore) InsertBattleResult(ctx context.Context, battleID, userID, playerName, aiName string, playerScore, aiScore, winnerSeat, rounds int, endReason string) error {
	return nil
}

func (emptyStore) Close() {}

func TestHistoryEmptySerializesAsArray(t *testing.T) {
	cfg := config.Defaults()
	cfg.AuthJWKSURL = ""
	h := NewHandler(cfg, nil, emptyStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()
	h.History(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("empty history should serialize as [], got %q", body)
	}
}

func TestHistoryRequiresUser(t *testing.T) {
	cfg := config.Defaults()
	cfg.AuthJWKSURL = ""
	h := NewHandler(cfg, nil, emptyStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	rec := httptest.NewRecorder()
	h.History(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without identity, got %d", rec.Code)
	}
}
