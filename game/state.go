package game

import "fitness-battle-server/catalog"

// CardView is the client-facing representation of a card in a hand.
type CardView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Difficulty int    `json:"difficulty"`
	Effect     string `json:"effect,omitempty"`
	BasePoints int    `json:"basePoints"`
}

// PlayerView is the viewer's own seat.
type PlayerView struct {
	Name          string     `json:"name"`
	Score         int        `json:"score"`
	ComboStreak   int        `json:"comboStreak"`
	ComboCategory string     `json:"comboCategory,omitempty"`
	Blocked       bool       `json:"blocked"`
	Hand          []CardView `json:"hand"`
}

// OpponentView is the other seat; its hand stays hidden.
type OpponentView struct {
	Name        string `json:"name"`
	Score       int    `json:"score"`
	ComboStreak int    `json:"comboStreak"`
	HandCount   int    `json:"handCount"`
	Blocked     bool   `json:"blocked"`
	// Emotion is the AI mood, present only when the opponent is the AI seat.
	Emotion string `json:"emotion,omitempty"`
}

// PlayView describes the most recently resolved play.
type PlayView struct {
	Seat       string `json:"seat"` // "you" or "opponent" from the viewer's side
	CardID     string `json:"cardId"`
	CardName   string `json:"cardName"`
	Category   string `json:"category"`
	Effect     string `json:"effect,omitempty"`
	Points     int    `json:"points"`
	Stolen     int    `json:"stolen,omitempty"`
	AutoPlayed bool   `json:"autoPlayed,omitempty"`
}

// StateMsg is the full session state built for one seat.
type StateMsg struct {
	Type         string       `json:"type"`
	SessionID    string       `json:"sessionId"`
	Phase        string       `json:"phase"`
	Round        int          `json:"round"`
	YourTurn     bool         `json:"yourTurn"`
	You          PlayerView   `json:"you"`
	Opponent     OpponentView `json:"opponent"`
	DeckCount    int          `json:"deckCount"`
	DiscardCount int          `json:"discardCount"`
	LastPlay     *PlayView    `json:"lastPlay,omitempty"`
	Finished     bool         `json:"finished"`
	// Result is "win", "lose" or "draw" from the viewer's side; empty until
	// the game ends.
	Result    string `json:"result,omitempty"`
	EndReason string `json:"endReason,omitempty"`
}

// buildCardViews converts hand cards for the wire.
func (s *Session) buildCardViews(cards []catalog.Card) []CardView {
	views := make([]CardView, len(cards))
	for i, c := range cards {
		views[i] = CardView{
			ID:         c.ID,
			Name:       c.Name,
			Category:   c.Category.String(),
			Difficulty: c.Difficulty,
			BasePoints: basePoints(c, s.Cfg),
		}
		if c.Effect != catalog.EffectNone {
			views[i].Effect = c.Effect.String()
		}
	}
	return views
}

// BuildStateFor returns the session state as seen from the given seat.
// The viewer sees its own hand; the opponent's hand stays a count.
func (s *Session) BuildStateFor(seat int) StateMsg {
	oppSeat := 1 - seat
	you := s.Players[seat]
	opp := s.Players[oppSeat]

	youView := PlayerView{
		Name:        you.Name,
		Score:       you.Score,
		ComboStreak: you.ComboCount,
		Blocked:     you.BlockedNext,
		Hand:        s.buildCardViews(you.Hand),
	}
	if you.ComboCount > 0 {
		youView.ComboCategory = you.ComboCategory.String()
	}

	oppView := OpponentView{
		Name:        opp.Name,
		Score:       opp.Score,
		ComboStreak: opp.ComboCount,
		HandCount:   len(opp.Hand),
		Blocked:     opp.BlockedNext,
	}
	if oppSeat == SeatAI {
		oppView.Emotion = s.Emotion.String()
	}

	msg := StateMsg{
		Type:         "game_state",
		SessionID:    s.ID,
		Phase:        s.Phase.String(),
		Round:        s.Round,
		YourTurn:     !s.Finished && s.Turn == seat,
		You:          youView,
		Opponent:     oppView,
		DeckCount:    len(s.Deck.Draw),
		DiscardCount: len(s.Deck.Discard),
		Finished:     s.Finished,
		EndReason:    s.EndReason,
	}

	if s.lastPlay != nil {
		pv := *s.lastPlay
		if pv.Seat == seatName(seat) {
			pv.Seat = "you"
		} else {
			pv.Seat = "opponent"
		}
		msg.LastPlay = &pv
	}

	if s.Finished {
		switch s.Winner {
		case seat:
			msg.Result = "win"
		case oppSeat:
			msg.Result = "lose"
		default:
			msg.Result = "draw"
		}
	}
	return msg
}

// seatName is the internal seat label stored on lastPlay before it is
// re-oriented per viewer.
func seatName(seat int) string {
	if seat == SeatHuman {
		return "human"
	}
	return "ai"
}
