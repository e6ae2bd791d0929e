package ai

import (
	"encoding/json"
	"log/slog"
	"math/rand"
	"time"

	"fitness-battle-server/config"
	"fitness-battle-server/game"
)

// Strategy selects the AI's card for the current turn. Implementations only
// see the AI's own state view, never board internals, so alternative
// policies can be substituted without touching the state machine.
type Strategy interface {
	ChooseCard(state game.StateMsg) string
}

// Heuristic is the default margin-based strategy:
//   - losing by more than BehindMargin: hunt for double/steal cards;
//   - winning by more than AheadMargin: close out with the highest base card;
//   - otherwise ride the current combo until decay hits the floor, then
//     switch category.
type Heuristic struct {
	Params *config.AIParams
	Cfg    *config.Config
}

// NewHeuristic creates the default strategy for one AI profile.
func NewHeuristic(params *config.AIParams, cfg *config.Config) *Heuristic {
	return &Heuristic{Params: params, Cfg: cfg}
}

// expectedPoints estimates what a card would score right now: base points
// decayed by the current streak, plus effect value.
func (h *Heuristic) expectedPoints(c game.CardView, state game.StateMsg) float64 {
	streak := 0
	if state.You.ComboStreak > 0 && state.You.ComboCategory == c.Category {
		streak = state.You.ComboStreak
	}
	decay := 1.0
	if len(h.Cfg.ComboDecay) > 0 {
		idx := streak
		if idx >= len(h.Cfg.ComboDecay) {
			idx = len(h.Cfg.ComboDecay) - 1
		}
		decay = h.Cfg.ComboDecay[idx]
	}
	ev := float64(c.BasePoints) * decay
	switch c.Effect {
	case "double":
		ev *= 2
	case "bonus":
		ev += float64(h.Cfg.BonusPoints)
	case "steal":
		steal := h.Cfg.StealAmount
		if steal > state.Opponent.Score {
			steal = state.Opponent.Score
		}
		ev += float64(steal)
	}
	return ev
}

// atDecayFloor reports whether another same-category play would already be
// priced at the floor factor.
func (h *Heuristic) atDecayFloor(streak int) bool {
	return streak >= len(h.Cfg.ComboDecay)-1
}

func bestBy(cards []game.CardView, score func(game.CardView) float64) string {
	bestID := ""
	best := -1.0
	for _, c := range cards {
		if s := score(c); s > best {
			best = s
			bestID = c.ID
		}
	}
	return bestID
}

// ChooseCard picks the card to play for the current turn. Returns "" when
// the hand is empty.
func (h *Heuristic) ChooseCard(state game.StateMsg) string {
	hand := state.You.Hand
	if len(hand) == 0 {
		return ""
	}

	var exercise, utility []game.CardView
	for _, c := range hand {
		if c.BasePoints > 0 {
			exercise = append(exercise, c)
		} else {
			utility = append(utility, c)
		}
	}

	// Profile randomness: occasionally play something unexpected.
	if h.Params.Randomness > 0 && rand.Intn(100) < h.Params.Randomness {
		return hand[rand.Intn(len(hand))].ID
	}

	// An empty deck with a full discard is the one spot a reshuffle pays off.
	if state.DeckCount == 0 && state.DiscardCount > 0 {
		for _, c := range utility {
			if c.Effect == "reshuffle" {
				return c.ID
			}
		}
	}

	if len(exercise) == 0 {
		return utility[0].ID
	}

	margin := state.You.Score - state.Opponent.Score

	if margin < -h.Params.BehindMargin {
		var aggressive []game.CardView
		for _, c := range exercise {
			if c.Effect == "double" || c.Effect == "steal" {
				aggressive = append(aggressive, c)
			}
		}
		if len(aggressive) > 0 {
			return bestBy(aggressive, func(c game.CardView) float64 { return h.expectedPoints(c, state) })
		}
	}

	if margin > h.Params.AheadMargin {
		return bestBy(exercise, func(c game.CardView) float64 { return float64(c.BasePoints) })
	}

	// Mid-game: finish the streak unless decay has already bottomed out.
	if state.You.ComboStreak > 0 {
		var same, other []game.CardView
		for _, c := range exercise {
			if c.Category == state.You.ComboCategory {
				same = append(same, c)
			} else {
				other = append(other, c)
			}
		}
		if h.atDecayFloor(state.You.ComboStreak) {
			if len(other) > 0 {
				return bestBy(other, func(c game.CardView) float64 { return float64(c.BasePoints) })
			}
		} else if len(same) > 0 {
			return bestBy(same, func(c game.CardView) float64 { return float64(c.BasePoints) })
		}
	}

	return bestBy(exercise, func(c game.CardView) float64 { return h.expectedPoints(c, state) })
}

// Run receives state messages from the AI seat's channel and plays a card
// when it is the AI's turn. It only uses the game_state payload, like any
// other client, and posts actions into the session's causal stream. Runs
// until the channel closes or the game finishes.
func Run(aiSend <-chan []byte, s *game.Session, params *config.AIParams, cfg *config.Config) {
	strat := NewHeuristic(params, cfg)

	for data := range aiSend {
		var envelope struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(data, &envelope); err != nil {
			continue
		}
		if envelope.Type != "game_state" {
			continue
		}

		var state game.StateMsg
		if err := json.Unmarshal(data, &state); err != nil {
			continue
		}
		if state.Finished {
			return
		}
		if !state.YourTurn || state.Phase != "ai_turn" {
			continue
		}

		// Human-like deliberation delay, bounded by the session's AI timer.
		delayMS := params.DelayMinMS
		if params.DelayMaxMS > params.DelayMinMS {
			delayMS = params.DelayMinMS + rand.Intn(params.DelayMaxMS-params.DelayMinMS)
		}
		time.Sleep(time.Duration(delayMS) * time.Millisecond)

		cardID := strat.ChooseCard(state)
		if cardID == "" {
			continue
		}
		slog.Debug("ai playing card", "tag", "ai", "name", params.Name, "session", state.SessionID, "card", cardID)
		select {
		case s.Actions <- game.Action{Type: game.ActionPlayCard, Seat: game.SeatAI, CardID: cardID}:
		case <-s.Done:
			return
		}
	}
}
