package game

import (
	"encoding/json"
	"log/slog"

	"fitness-battle-server/catalog"
	"fitness-battle-server/gamerrors"
	"fitness-battle-server/scoring"
)

func marshalState(msg StateMsg) ([]byte, error) {
	return json.Marshal(msg)
}

// handlePlayCard validates and resolves one play by the given seat.
// Validation failures leave the session untouched: the turn is not advanced
// and the error is surfaced to the caller.
func (s *Session) handlePlayCard(seat int, cardID string, autoPlayed bool) (StateMsg, error) {
	if s.Finished {
		return s.BuildStateFor(seat), gamerrors.ErrGameFinished
	}
	if (seat == SeatHuman && s.Phase != PlayerTurn) || (seat == SeatAI && s.Phase != AITurn) {
		return s.BuildStateFor(seat), gamerrors.ErrNotYourTurn
	}

	player := s.Players[seat]
	if !player.HasCard(cardID) {
		return s.BuildStateFor(seat), gamerrors.ErrInvalidCard
	}

	// Resolve the utility effect definition before mutating anything, so an
	// unknown tag rejects the play cleanly.
	var effectDef UtilityEffectDef
	var isUtility bool
	for _, c := range player.Hand {
		if c.ID == cardID && c.Effect.IsUtility() {
			def, ok := s.Effects.GetEffect(c.Effect)
			if !ok {
				return s.BuildStateFor(seat), gamerrors.ErrUnknownEffect
			}
			effectDef = def
			isUtility = true
			break
		}
	}

	card, _ := player.removeCard(cardID)
	s.Phase = Resolving
	s.Deck.Bury(card)

	opp := s.Players[1-seat]
	play := PlayView{
		Seat:       seatName(seat),
		CardID:     card.ID,
		CardName:   card.Name,
		Category:   card.Category.String(),
		AutoPlayed: autoPlayed,
	}
	if card.Effect != catalog.EffectNone {
		play.Effect = card.Effect.String()
	}

	if isUtility {
		scoreBefore := player.Score
		if err := effectDef.Apply(s, seat); err != nil {
			slog.Error("applying utility effect", "tag", "game", "session", s.ID, "effect", card.Effect.String(), "err", err)
		}
		play.Points = player.Score - scoreBefore
	} else {
		blocked := player.BlockedNext
		streak := player.streakBefore(card.Category)
		res := scoring.ResolvePlay(card, streak, blocked, opp.Score, s.Cfg)
		if blocked {
			player.BlockedNext = false
		}
		player.Score += res.Points
		opp.Score -= res.Stolen
		if res.BlocksOpponent {
			opp.BlockedNext = true
		}
		play.Points = res.Points
		play.Stolen = res.Stolen

		// Observational only: the human stealing from the AI startles it.
		if seat == SeatHuman && res.Stolen > 0 {
			s.setEventEmotion(EmotionSurprised)
		}
	}

	// A utility play is a category change too: the streak restarts.
	player.advanceStreak(card.Category)
	s.roundPoints[seat] += play.Points

	s.lastPlay = &play
	slog.Debug("play resolved", "tag", "game",
		"session", s.ID, "seat", seatName(seat), "card", card.ID,
		"points", play.Points, "auto", autoPlayed)

	s.advanceAfter(seat)
	s.broadcastState()
	return s.BuildStateFor(seat), nil
}

// advanceAfter passes the turn once a play has resolved.
func (s *Session) advanceAfter(seat int) {
	if seat == SeatHuman {
		if s.SkipNext[SeatAI] {
			s.SkipNext[SeatAI] = false
			slog.Debug("ai turn skipped", "tag", "game", "session", s.ID)
			s.endRound()
			return
		}
		s.beginTurn(SeatAI)
		return
	}
	s.cancelAITimer()
	s.endRound()
}

// endRound closes a human+AI cycle: advances the round counter, applies the
// round-end emotion, checks termination, and opens the next turn.
func (s *Session) endRound() {
	s.Phase = RoundEnd
	s.Round++

	// Cosmetic: the AI celebrates a round it out-scored, otherwise its mood
	// tracks the score differential.
	if s.roundPoints[SeatAI] > s.roundPoints[SeatHuman] {
		s.setEventEmotion(EmotionCelebratory)
	}
	s.roundPoints[0], s.roundPoints[1] = 0, 0

	if s.Round >= s.Cfg.MaxRounds {
		s.finish("max_rounds")
		return
	}
	if s.Deck.Remaining() == 0 && len(s.Players[SeatHuman].Hand) == 0 && len(s.Players[SeatAI].Hand) == 0 {
		s.finish("exhausted")
		return
	}

	if s.SkipNext[SeatHuman] {
		s.SkipNext[SeatHuman] = false
		slog.Debug("player turn skipped", "tag", "game", "session", s.ID)
		s.beginTurn(SeatAI)
		return
	}
	s.beginTurn(SeatHuman)
}

// beginTurn refills the seat's hand to the refill floor (recycling the
// discard when needed) and hands it the turn. If the seat cannot draw and
// holds nothing, the round force-ends the game.
func (s *Session) beginTurn(seat int) {
	p := s.Players[seat]
	if need := s.Cfg.HandRefill - len(p.Hand); need > 0 {
		s.drawIntoHand(seat, need)
	}
	if len(p.Hand) == 0 {
		s.finish("exhausted")
		return
	}

	s.Turn = seat
	if seat == SeatAI {
		s.Phase = AITurn
		s.startAITimer()
	} else {
		s.Phase = PlayerTurn
	}
	if !s.Finished && !s.holdEventEmotion() {
		s.Emotion = baselineEmotion(s.Players[SeatAI].Score, s.Players[SeatHuman].Score, s.Cfg.EmotionThreshold, seat == SeatAI)
	}
}

// setEventEmotion fires an event mood (celebratory, surprised) and arms a
// one-turn hold so it stays visible through the next turn boundary.
func (s *Session) setEventEmotion(e EmotionState) {
	s.Emotion = e
	s.emotionHold = true
}

// holdEventEmotion consumes the one-turn hold on an event mood. It reports
// true exactly once per event; after that the baseline resumes.
func (s *Session) holdEventEmotion() bool {
	if s.emotionHold {
		s.emotionHold = false
		return true
	}
	return false
}

// handleAITimeout fires when the AI deliberation window expires: the session
// auto-plays the AI's highest-expected-value card.
func (s *Session) handleAITimeout() {
	if s.Phase != AITurn {
		return
	}
	s.aiTimerCancel = nil

	cardID := s.bestAICard()
	if cardID == "" {
		// Nothing playable; treat like an exhausted seat.
		s.finish("exhausted")
		return
	}
	slog.Debug("ai deliberation window expired, auto-playing", "tag", "game", "session", s.ID, "card", cardID)
	if _, err := s.handlePlayCard(SeatAI, cardID, true); err != nil {
		slog.Error("ai auto-play rejected", "tag", "game", "session", s.ID, "err", err)
	}
}

// bestAICard returns the AI hand card with the highest expected score given
// the current combo streak; utility cards are a fallback when no exercise
// card is held.
func (s *Session) bestAICard() string {
	p := s.Players[SeatAI]
	bestID := ""
	bestPoints := -1
	for _, c := range p.Hand {
		if c.Effect.IsUtility() {
			continue
		}
		pts := scoring.ScoreCard(c, p.streakBefore(c.Category), s.Cfg)
		if pts > bestPoints {
			bestPoints = pts
			bestID = c.ID
		}
	}
	if bestID == "" && len(p.Hand) > 0 {
		bestID = p.Hand[0].ID
	}
	return bestID
}

// finish moves the session to GameEnd and reports the result exactly once.
func (s *Session) finish(reason string) {
	if s.Finished {
		return
	}
	s.cancelAITimer()
	s.Finished = true
	s.Phase = GameEnd
	s.EndReason = reason
	s.Winner = scoring.Winner(s.Players[SeatHuman].Score, s.Players[SeatAI].Score)

	slog.Info("battle finished", "tag", "game",
		"session", s.ID, "reason", reason,
		"playerScore", s.Players[SeatHuman].Score, "aiScore", s.Players[SeatAI].Score,
		"winner", s.Winner)

	s.broadcastState()
	if s.OnGameEnd != nil {
		s.OnGameEnd(s)
	}
}

// --- helpers used by the utility effect registry ---

// RecycleDeck merges the discard back into the draw pile and reshuffles.
func (s *Session) RecycleDeck() {
	s.Deck.Recycle(s.RNG)
}

// GrantExtraDraws gives the seat extra draws this turn, capped at hand size.
func (s *Session) GrantExtraDraws(seat, n int) {
	s.drawIntoHand(seat, n)
}

// SkipOpponent ends the opposing seat's following turn without a play.
func (s *Session) SkipOpponent(seat int) {
	s.SkipNext[1-seat] = true
}

// RedrawHand discards the seat's full hand and draws the same number back.
func (s *Session) RedrawHand(seat int) {
	p := s.Players[seat]
	n := len(p.Hand)
	if n == 0 {
		return
	}
	s.Deck.Bury(p.Hand...)
	p.Hand = nil
	s.drawIntoHand(seat, n)
}

// GrantWarmupBonus adds the flat warm-up increment to the seat's score.
func (s *Session) GrantWarmupBonus(seat int) {
	s.Players[seat].Score += s.Cfg.WarmupBonus
}
