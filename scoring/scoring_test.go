package scoring

import (
	"testing"

	"fitness-battle-server/catalog"
	"fitness-battle-server/config"
)

func testCard(category catalog.Category, difficulty int, effect catalog.EffectTag) catalog.Card {
	return catalog.Card{ID: "test", Category: category, Difficulty: difficulty, Effect: effect}
}

func TestBasePoints(t *testing.T) {
	cfg := config.Defaults()

	tests := []struct {
		card catalog.Card
		want int
	}{
		{testCard(catalog.Strength, 2, catalog.EffectNone), 20},
		{testCard(catalog.Cardio, 3, catalog.EffectNone), 24},
		{testCard(catalog.Core, 1, catalog.EffectNone), 6},
		{testCard(catalog.Flexibility, 2, catalog.EffectNone), 10},
		{testCard(catalog.Utility, 1, catalog.EffectSkip), 0},
		{testCard(catalog.Warmup, 1, catalog.EffectWarmup), 0},
	}
	for _, tt := range tests {
		if got := BasePoints(tt.card, cfg); got != tt.want {
			t.Errorf("BasePoints(%s d%d) = %d, want %d", tt.card.Category, tt.card.Difficulty, got, tt.want)
		}
	}
}

func TestDecayFactorSequence(t *testing.T) {
	decay := []float64{1.0, 0.6, 0.3}
	wants := []float64{1.0, 0.6, 0.3, 0.3, 0.3, 0.3}
	for streak, want := range wants {
		if got := DecayFactor(streak, decay); got != want {
			t.Errorf("DecayFactor(%d) = %v, want %v", streak, got, want)
		}
	}
}

func TestDecayMonotonic(t *testing.T) {
	decay := config.Defaults().ComboDecay
	prev := DecayFactor(0, decay)
	for k := 1; k < 10; k++ {
		cur := DecayFactor(k, decay)
		if cur > prev {
			t.Errorf("decay increased from streak %d (%v) to %d (%v)", k-1, prev, k, cur)
		}
		if cur <= 0 {
			t.Errorf("decay reached zero at streak %d", k)
		}
		prev = cur
	}
}

func TestScoreCardRepeatedCategory(t *testing.T) {
	cfg := config.Defaults()
	card := testCard(catalog.Strength, 2, catalog.EffectNone) // base 20

	// Playing the same category three times: base, 0.6*base, 0.3*base
	wants := []int{20, 12, 6}
	for streak, want := range wants {
		if got := ScoreCard(card, streak, cfg); got != want {
			t.Errorf("ScoreCard(streak=%d) = %d, want %d", streak, got, want)
		}
	}
}

func TestResolvePlayDouble(t *testing.T) {
	cfg := config.Defaults()
	res := ResolvePlay(testCard(catalog.Cardio, 3, catalog.EffectDouble), 0, false, 0, cfg)
	if res.Points != 48 {
		t.Errorf("double should yield 2*24=48, got %d", res.Points)
	}
}

func TestResolvePlayBonus(t *testing.T) {
	cfg := config.Defaults()
	res := ResolvePlay(testCard(catalog.Core, 2, catalog.EffectBonus), 0, false, 0, cfg)
	if res.Points != 12+cfg.BonusPoints {
		t.Errorf("bonus should add %d flat, got %d", cfg.BonusPoints, res.Points)
	}
}

func TestResolvePlayStealFloorsAtZero(t *testing.T) {
	cfg := config.Defaults()
	cfg.StealAmount = 10

	// Opponent has only 5: the transfer is floored, never negative.
	res := ResolvePlay(testCard(catalog.Strength, 1, catalog.EffectSteal), 0, false, 5, cfg)
	if res.Stolen != 5 {
		t.Errorf("steal from score 5 should transfer 5, got %d", res.Stolen)
	}
	if res.Points != 10+5 {
		t.Errorf("expected base 10 + stolen 5, got %d", res.Points)
	}

	res = ResolvePlay(testCard(catalog.Strength, 1, catalog.EffectSteal), 0, false, 50, cfg)
	if res.Stolen != 10 {
		t.Errorf("steal with rich opponent should transfer the full amount, got %d", res.Stolen)
	}
}

func TestResolvePlayBlockSetsFlag(t *testing.T) {
	cfg := config.Defaults()
	res := ResolvePlay(testCard(catalog.Core, 2, catalog.EffectBlock), 0, false, 0, cfg)
	if !res.BlocksOpponent {
		t.Error("block play should flag the opponent")
	}
	if res.Points != 12 {
		t.Errorf("block play still scores its base, got %d", res.Points)
	}
}

func TestResolvePlayBlockedYieldsNothing(t *testing.T) {
	cfg := config.Defaults()
	res := ResolvePlay(testCard(catalog.Strength, 4, catalog.EffectSteal), 0, true, 100, cfg)
	if res.Points != 0 || res.Stolen != 0 || res.BlocksOpponent {
		t.Errorf("blocked play must be fully nullified, got %+v", res)
	}
}

func TestWinner(t *testing.T) {
	if Winner(10, 5) != 0 {
		t.Error("seat 0 should win 10 vs 5")
	}
	if Winner(5, 10) != 1 {
		t.Error("seat 1 should win 5 vs 10")
	}
	if Winner(7, 7) != -1 {
		t.Error("exact tie should be a draw")
	}
}
