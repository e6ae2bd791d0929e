package ai

import (
	"testing"

	"fitness-battle-server/config"
	"fitness-battle-server/game"
)

func testParams() *config.AIParams {
	return &config.AIParams{Name: "Test", BehindMargin: 10, AheadMargin: 20, Randomness: 0}
}

func testStrategy() *Heuristic {
	return NewHeuristic(testParams(), config.Defaults())
}

func card(id, category string, base int, effect string) game.CardView {
	return game.CardView{ID: id, Category: category, BasePoints: base, Effect: effect}
}

func stateWith(hand []game.CardView, youScore, oppScore int) game.StateMsg {
	return game.StateMsg{
		Type:      "game_state",
		Phase:     "ai_turn",
		YourTurn:  true,
		You:       game.PlayerView{Score: youScore, Hand: hand},
		Opponent:  game.OpponentView{Score: oppScore},
		DeckCount: 10,
	}
}

func TestChooseCardEmptyHand(t *testing.T) {
	h := testStrategy()
	if got := h.ChooseCard(stateWith(nil, 0, 0)); got != "" {
		t.Errorf("empty hand should return no card, got %q", got)
	}
}

func TestChooseCardBehindPrefersAggression(t *testing.T) {
	h := testStrategy()
	hand := []game.CardView{
		card("big", "strength", 40, ""),
		card("steal", "cardio", 8, "steal"),
	}
	// Losing by 30: hunt for the steal even though "big" has more base.
	got := h.ChooseCard(stateWith(hand, 10, 40))
	if got != "steal" {
		t.Errorf("losing AI should prefer steal/double cards, got %q", got)
	}
}

func TestChooseCardAheadPlaysHighestBase(t *testing.T) {
	h := testStrategy()
	hand := []game.CardView{
		card("small_steal", "cardio", 8, "steal"),
		card("big", "strength", 40, ""),
	}
	got := h.ChooseCard(stateWith(hand, 50, 10))
	if got != "big" {
		t.Errorf("winning AI should close out with highest base, got %q", got)
	}
}

func TestChooseCardContinuesCombo(t *testing.T) {
	h := testStrategy()
	hand := []game.CardView{
		card("same", "cardio", 16, ""),
		card("other", "strength", 20, ""),
	}
	state := stateWith(hand, 10, 12)
	state.You.ComboStreak = 1
	state.You.ComboCategory = "cardio"
	got := h.ChooseCard(state)
	if got != "same" {
		t.Errorf("AI should complete an open combo before the decay floor, got %q", got)
	}
}

func TestChooseCardSwitchesAtDecayFloor(t *testing.T) {
	h := testStrategy()
	hand := []game.CardView{
		card("same", "cardio", 16, ""),
		card("other", "strength", 20, ""),
	}
	state := stateWith(hand, 10, 12)
	state.You.ComboStreak = 2 // next cardio play would price at the floor
	state.You.ComboCategory = "cardio"
	got := h.ChooseCard(state)
	if got != "other" {
		t.Errorf("AI should switch category once decay bottoms out, got %q", got)
	}
}

func TestChooseCardReshuffleOnEmptyDeck(t *testing.T) {
	h := testStrategy()
	hand := []game.CardView{
		card("big", "strength", 40, ""),
		card("recycle", "utility", 0, "reshuffle"),
	}
	state := stateWith(hand, 10, 12)
	state.DeckCount = 0
	state.DiscardCount = 15
	got := h.ChooseCard(state)
	if got != "recycle" {
		t.Errorf("AI should reshuffle when the draw pile is empty, got %q", got)
	}
}

func TestChooseCardUtilityOnlyHand(t *testing.T) {
	h := testStrategy()
	hand := []game.CardView{card("rest", "utility", 0, "skip")}
	got := h.ChooseCard(stateWith(hand, 0, 0))
	if got != "rest" {
		t.Errorf("AI with only utility cards should still play, got %q", got)
	}
}

func TestExpectedPointsStealCapsAtOpponentScore(t *testing.T) {
	h := testStrategy()
	state := stateWith(nil, 0, 3)
	ev := h.expectedPoints(card("s", "strength", 10, "steal"), state)
	if ev != 13 {
		t.Errorf("steal EV should cap at opponent score: want 13, got %v", ev)
	}
}
