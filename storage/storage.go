package storage

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fitness-battle-server/adaptive"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS difficulty_profiles (
	user_id    TEXT PRIMARY KEY,
	multiplier DOUBLE PRECISION NOT NULL DEFAULT 1.0,
	history    TEXT[] NOT NULL DEFAULT '{}',
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS battle_history (
	id           UUID PRIMARY KEY,
	user_id      TEXT NOT NULL,
	player_name  TEXT NOT NULL,
	ai_name      TEXT NOT NULL,
	player_score INT NOT NULL,
	ai_score     INT NOT NULL,
	winner_seat  SMALLINT,
	rounds       INT NOT NULL,
	end_reason   TEXT,
	played_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_battle_history_user ON battle_history(user_id);
`

// Store persists difficulty profiles and finished battles.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to Postgres and ensures the tables exist. If databaseURL
// is empty, NewStore returns (nil, nil) and no persistence occurs; all Store
// methods are nil-safe no-ops.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, nil
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, err
	}
	slog.Info("connected to Postgres", "tag", "storage")
	return &Store{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// GetProfile returns the user's difficulty profile, or (nil, nil) when none
// is stored yet.
func (s *Store) GetProfile(ctx context.Context, userID string) (*adaptive.Profile, error) {
	if s == nil || s.pool == nil || userID == "" {
		return nil, nil
	}
	var p adaptive.Profile
	var history []string
	err := s.pool.QueryRow(ctx, `
		SELECT user_id, multiplier, history, updated_at
		FROM difficulty_profiles
		WHERE user_id = $1`,
		userID).Scan(&p.UserID, &p.Multiplier, &history, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	p.History = make([]adaptive.Feedback, len(history))
	for i, h := range history {
		p.History[i] = adaptive.Feedback(h)
	}
	return &p, nil
}

// SaveProfile upserts the user's difficulty profile.
func (s *Store) SaveProfile(ctx context.Context, p adaptive.Profile) error {
	if s == nil || s.pool == nil {
		return nil
	}
	history := make([]string, len(p.History))
	for i, h := range p.History {
		history[i] = string(h)
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO difficulty_profiles (user_id, multiplier, history, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET multiplier = EXCLUDED.multiplier,
		    history = EXCLUDED.history,
		    updated_at = EXCLUDED.updated_at`,
		p.UserID, p.Multiplier, history, p.UpdatedAt)
	return err
}

// InsertBattleResult records a finished battle. winnerSeat is 0 (human),
// 1 (AI) or -1 for a draw (stored as NULL).
func (s *Store) InsertBattleResult(ctx context.Context, battleID, userID, playerName, aiName string, playerScore, aiScore, winnerSeat, rounds int, endReason string) error {
	if s == nil || s.pool == nil {
		return nil
	}
	var winner *int
	if winnerSeat == 0 || winnerSeat == 1 {
		winner = &winnerSeat
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO battle_history (id, user_id, player_name, ai_name, player_score, ai_score, winner_seat, rounds, end_reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		battleID, userID, playerName, aiName, playerScore, aiScore, winner, rounds, endReason)
	return err
}

// BattleRecord is a single row returned for the history API.
type BattleRecord struct {
	ID          string `json:"id"`
	PlayedAt    string `json:"played_at"` // ISO8601
	PlayerName  string `json:"player_name"`
	AIName      string `json:"ai_name"`
	PlayerScore int    `json:"player_score"`
	AIScore     int    `json:"ai_score"`
	// WinnerSeat is 0 (human) or 1 (AI); null for a draw.
	WinnerSeat *int   `json:"winner_seat"`
	Rounds     int    `json:"rounds"`
	EndReason  string `json:"end_reason"`
}

// BattleSummary aggregates a user's battle record for the profile API.
type BattleSummary struct {
	Battles    int     `json:"battles"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	Draws      int     `json:"draws"`
	WinRatePct float64 `json:"win_rate_pct"`
}

// SummarizeBattles folds battle records into win/loss/draw counts from the
// human's side. A null winner seat counts as a draw.
func SummarizeBattles(records []BattleRecord) BattleSummary {
	sum := BattleSummary{Battles: len(records)}
	for _, r := range records {
		switch {
		case r.WinnerSeat == nil:
			sum.Draws++
		case *r.WinnerSeat == 0:
			sum.Wins++
		default:
			sum.Losses++
		}
	}
	if sum.Battles > 0 {
		sum.WinRatePct = 100.0 * float64(sum.Wins) / float64(sum.Battles)
	}
	return sum
}

// ListBattlesByUser returns the user's battles, most recent first.
func (s *Store) ListBattlesByUser(ctx context.Context, userID string, limit int) ([]BattleRecord, error) {
	if s == nil || s.pool == nil {
		return []BattleRecord{}, nil
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, played_at, player_name, ai_name, player_score, ai_score, winner_seat, COALESCE(end_reason,''), rounds
		FROM battle_history
		WHERE user_id = $1
		ORDER BY played_at DESC
		LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	// Non-nil even with no rows so the API serializes an empty JSON array.
	out := []BattleRecord{}
	for rows.Next() {
		var r BattleRecord
		var playedAt time.Time
		if err := rows.Scan(&r.ID, &playedAt, &r.PlayerName, &r.AIName, &r.PlayerScore, &r.AIScore, &r.WinnerSeat, &r.EndReason, &r.Rounds); err != nil {
			return nil, err
		}
		r.PlayedAt = playedAt.UTC().Format(time.RFC3339)
		out = append(out, r)
	}
	return out, rows.Err()
}
