package adaptive

import (
	"time"

	"fitness-battle-server/config"
	"fitness-battle-server/gamerrors"
)

// Feedback is one workout feedback sample.
type Feedback string

const (
	TooEasy   Feedback = "too_easy"
	JustRight Feedback = "just_right"
	TooHard   Feedback = "too_hard"
)

// ParseFeedback validates a wire string.
func ParseFeedback(s string) (Feedback, error) {
	switch Feedback(s) {
	case TooEasy, JustRight, TooHard:
		return Feedback(s), nil
	default:
		return "", gamerrors.ErrInvalidFeedback
	}
}

// Profile is a user's difficulty profile: the exercise-intensity multiplier
// and the rolling feedback window it was derived from.
type Profile struct {
	UserID     string     `json:"userId"`
	Multiplier float64    `json:"multiplier"`
	History    []Feedback `json:"history"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// NewProfile returns a fresh profile at neutral intensity.
func NewProfile(userID string) Profile {
	return Profile{UserID: userID, Multiplier: 1.0, UpdatedAt: time.Now()}
}

// Adjust folds one feedback sample into the profile and returns the updated
// profile. too_easy nudges the multiplier up; too_hard pulls it down by a
// slightly larger step (safety bias); just_right only records the sample.
//
// Momentum: when the most recent recorded sample agrees with the incoming
// one, the step doubles (configurable factor) so a true skill change
// converges quickly. Any disagreement resets the step to baseline, which
// prevents oscillation hunting. The multiplier saturates silently at the
// configured bounds.
func Adjust(p Profile, fb Feedback, cfg config.AdaptiveConfig) Profile {
	step := 0.0
	switch fb {
	case TooEasy:
		step = cfg.StepUp
	case TooHard:
		step = -cfg.StepDown
	case JustRight:
		// recorded below, multiplier untouched
	}

	if step != 0 && len(p.History) > 0 && p.History[len(p.History)-1] == fb {
		step *= cfg.MomentumFactor
	}

	p.Multiplier = Clamp(p.Multiplier+step, cfg.MinMultiplier, cfg.MaxMultiplier)
	p.History = append(p.History, fb)
	if window := cfg.HistoryWindow; window > 0 && len(p.History) > window {
		p.History = p.History[len(p.History)-window:]
	}
	p.UpdatedAt = time.Now()
	return p
}

// Clamp saturates v to [min, max]. Idempotent, never errors.
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
