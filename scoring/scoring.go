package scoring

import (
	"math"

	"fitness-battle-server/catalog"
	"fitness-battle-server/config"
)

// BasePoints returns the point base of a card: category weight times base
// difficulty. Utility and warm-up cards have no point base.
func BasePoints(card catalog.Card, cfg *config.Config) int {
	if !card.Category.Scores() {
		return 0
	}
	return cfg.CategoryWeights[card.Category.String()] * card.Difficulty
}

// DecayFactor returns the combo multiplier for a play. streak is the number
// of consecutive plays of the same category immediately before this one, so
// the first play of a category gets the full factor. Repeats walk down the
// configured sequence and stay at its last element (the floor) forever.
func DecayFactor(streak int, decay []float64) float64 {
	if len(decay) == 0 {
		return 1.0
	}
	if streak < 0 {
		streak = 0
	}
	if streak >= len(decay) {
		streak = len(decay) - 1
	}
	return decay[streak]
}

// ScoreCard prices one played card: base points times the combo decay factor,
// rounded to the nearest point.
func ScoreCard(card catalog.Card, streak int, cfg *config.Config) int {
	base := BasePoints(card, cfg)
	if base == 0 {
		return 0
	}
	return int(math.Round(float64(base) * DecayFactor(streak, cfg.ComboDecay)))
}

// PlayResult is the score outcome of resolving one exercise-card play.
type PlayResult struct {
	// Points is added to the acting player's score.
	Points int
	// Stolen is subtracted from the opponent's score (already floored so the
	// opponent never goes negative) and added to Points.
	Stolen int
	// BlocksOpponent means the opponent's next scoring play is nullified.
	BlocksOpponent bool
}

// ResolvePlay computes the full scoring outcome of an exercise-card play.
// blocked means a block effect was pending against the acting player: the
// play then yields no score change at all and no effect fires (the block
// consumes the whole play). oppScore is the opponent's current score, needed
// to floor steal transfers at zero.
func ResolvePlay(card catalog.Card, streak int, blocked bool, oppScore int, cfg *config.Config) PlayResult {
	if blocked {
		return PlayResult{}
	}

	points := ScoreCard(card, streak, cfg)
	res := PlayResult{Points: points}

	switch card.Effect {
	case catalog.EffectNone:
	case catalog.EffectDouble:
		res.Points = points * 2
	case catalog.EffectBonus:
		res.Points = points + cfg.BonusPoints
	case catalog.EffectSteal:
		stolen := cfg.StealAmount
		if stolen > oppScore {
			stolen = oppScore
		}
		res.Stolen = stolen
		res.Points = points + stolen
	case catalog.EffectBlock:
		res.BlocksOpponent = true
	default:
		// Utility tags never reach the scoring engine.
	}
	return res
}

// Winner returns 0 or 1 for the higher-scoring seat, or -1 for an exact tie.
// Ties are a draw; there is no randomized tiebreak.
func Winner(score0, score1 int) int {
	switch {
	case score0 > score1:
		return 0
	case score1 > score0:
		return 1
	default:
		return -1
	}
}
