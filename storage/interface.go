package storage

import (
	"context"

	"fitness-battle-server/adaptive"
)

// BattleStore abstracts persistence for difficulty profiles and battle
// history. Implementations can be swapped for testing (mocks) or different
// backends.
type BattleStore interface {
	// Read
	GetProfile(ctx context.Context, userID string) (*adaptive.Profile, error)
	ListBattlesByUser(ctx context.Context, userID string, limit int) ([]BattleRecord, error)

	// Write
	SaveProfile(ctx context.Context, p adaptive.Profile) error
	InsertBattleResult(ctx context.Context, battleID, userID, playerName, aiName string, playerScore, aiScore, winnerSeat, rounds int, endReason string) error

	// Lifecycle
	Close()
}

// Ensure *Store implements BattleStore at compile time.
var _ BattleStore = (*Store)(nil)
