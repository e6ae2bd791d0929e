package deck

import (
	"errors"
	"math/rand"
	"testing"

	"fitness-battle-server/catalog"
	"fitness-battle-server/config"
	"fitness-battle-server/gamerrors"
)

func testDeckConfig() config.DeckConfig {
	return config.DeckConfig{Size: 40, UtilityPercent: 10, MinWarmupCards: 2}
}

func TestBuildComposition(t *testing.T) {
	d, err := Build(catalog.Builtin(), testDeckConfig())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(d.Draw) != 40 {
		t.Errorf("expected 40 cards, got %d", len(d.Draw))
	}

	var utility, warmup int
	for _, c := range d.Draw {
		switch c.Category {
		case catalog.Utility:
			utility++
		case catalog.Warmup:
			warmup++
		}
	}
	if utility != 4 {
		t.Errorf("expected 4 utility cards (10%% of 40), got %d", utility)
	}
	if warmup < 2 {
		t.Errorf("expected at least 2 warm-up cards, got %d", warmup)
	}
}

func TestBuildUniqueInstanceIDs(t *testing.T) {
	d, err := Build(catalog.Builtin(), config.DeckConfig{Size: 60, UtilityPercent: 10, MinWarmupCards: 2})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	seen := make(map[string]bool)
	for _, c := range d.Draw {
		if seen[c.ID] {
			t.Errorf("duplicate instance ID %q", c.ID)
		}
		seen[c.ID] = true
	}
}

func TestBuildEmptyCatalog(t *testing.T) {
	_, err := Build(&catalog.Catalog{}, testDeckConfig())
	if !errors.Is(err, gamerrors.ErrEmptyCatalog) {
		t.Errorf("expected ErrEmptyCatalog, got %v", err)
	}
}

func TestShuffleDeterministic(t *testing.T) {
	build := func() *Deck {
		d, err := Build(catalog.Builtin(), config.DeckConfig{Size: 20, UtilityPercent: 10, MinWarmupCards: 2})
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		return d
	}

	d1 := build()
	d1.Shuffle(rand.New(rand.NewSource(1)))
	d2 := build()
	d2.Shuffle(rand.New(rand.NewSource(1)))

	for i := range d1.Draw {
		if d1.Draw[i].ID != d2.Draw[i].ID {
			t.Fatalf("seed 1 shuffles diverge at position %d: %q vs %q", i, d1.Draw[i].ID, d2.Draw[i].ID)
		}
	}

	d3 := build()
	d3.Shuffle(rand.New(rand.NewSource(2)))
	same := true
	for i := range d1.Draw {
		if d1.Draw[i].ID != d3.Draw[i].ID {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced the same permutation")
	}
}

func TestDrawRemovesFromTop(t *testing.T) {
	d, _ := Build(catalog.Builtin(), testDeckConfig())
	rng := rand.New(rand.NewSource(7))
	d.Shuffle(rng)

	before := len(d.Draw)
	top := d.Draw[0].ID
	cards, err := d.DrawN(3, rng)
	if err != nil {
		t.Fatalf("DrawN: %v", err)
	}
	if len(cards) != 3 {
		t.Fatalf("expected 3 cards, got %d", len(cards))
	}
	if cards[0].ID != top {
		t.Errorf("first drawn card should be the top of the pile")
	}
	if len(d.Draw) != before-3 {
		t.Errorf("draw pile should shrink by 3, got %d -> %d", before, len(d.Draw))
	}
}

func TestDrawRecyclesDiscard(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	d := &Deck{
		Draw: []catalog.Card{{ID: "a"}},
	}
	d.Bury(catalog.Card{ID: "b"}, catalog.Card{ID: "c"})

	cards, err := d.DrawN(3, rng)
	if err != nil {
		t.Fatalf("DrawN should recycle the discard: %v", err)
	}
	if len(cards) != 3 {
		t.Errorf("expected 3 cards after recycle, got %d", len(cards))
	}
	if len(d.Discard) != 0 {
		t.Errorf("discard should be empty after recycle, got %d", len(d.Discard))
	}
}

func TestDrawExhausted(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	d := &Deck{}
	if _, err := d.DrawN(1, rng); !errors.Is(err, gamerrors.ErrDeckExhausted) {
		t.Errorf("expected ErrDeckExhausted, got %v", err)
	}
}

func TestDrawPartialWhenShort(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	d := &Deck{Draw: []catalog.Card{{ID: "a"}, {ID: "b"}}}
	cards, err := d.DrawN(5, rng)
	if err != nil {
		t.Fatalf("DrawN: %v", err)
	}
	if len(cards) != 2 {
		t.Errorf("expected partial draw of 2, got %d", len(cards))
	}
	if d.Remaining() != 0 {
		t.Errorf("expected empty deck, got %d remaining", d.Remaining())
	}
}

func TestConservation(t *testing.T) {
	d, _ := Build(catalog.Builtin(), testDeckConfig())
	rng := rand.New(rand.NewSource(11))
	d.Shuffle(rng)
	total := len(d.Draw)

	var hand []catalog.Card
	for i := 0; i < 25; i++ {
		cards, err := d.DrawN(2, rng)
		if err != nil {
			break
		}
		hand = append(hand, cards...)
		// Play one back to the discard
		d.Bury(hand[len(hand)-1])
		hand = hand[:len(hand)-1]

		if got := len(d.Draw) + len(d.Discard) + len(hand); got != total {
			t.Fatalf("conservation violated at step %d: %d != %d", i, got, total)
		}
	}
}
