package deck

import (
	"fmt"
	"math/rand"

	"fitness-battle-server/catalog"
	"fitness-battle-server/config"
	"fitness-battle-server/gamerrors"
)

// Deck holds the session draw pile and discard pile. The deck, the discard
// and the two hands together always partition the original card set.
type Deck struct {
	Draw    []catalog.Card
	Discard []catalog.Card
}

// Build assembles a session deck from the catalog: a fixed proportion of
// utility cards, a minimum count of warm-up cards, and exercise cards for the
// rest. Catalog entries repeat as needed to reach the configured size; each
// repeat gets a distinct instance ID so every card in play is unique.
// The deck is returned unshuffled; call Shuffle before dealing.
func Build(cat *catalog.Catalog, cfg config.DeckConfig) (*Deck, error) {
	if err := cat.Validate(); err != nil {
		return nil, err
	}

	size := cfg.Size
	if size < 1 {
		size = 1
	}

	utilityCount := size * cfg.UtilityPercent / 100
	if utilityCount > len(cat.Utility)*4 {
		utilityCount = len(cat.Utility) * 4
	}
	warmupCount := cfg.MinWarmupCards
	if len(cat.Warmup) == 0 {
		warmupCount = 0
	}
	exerciseCount := size - utilityCount - warmupCount
	if exerciseCount < 1 {
		exerciseCount = 1
	}

	cards := make([]catalog.Card, 0, exerciseCount+utilityCount+warmupCount)
	cards = append(cards, cycle(cat.Exercise, exerciseCount)...)
	cards = append(cards, cycle(cat.Utility, utilityCount)...)
	cards = append(cards, cycle(cat.Warmup, warmupCount)...)

	return &Deck{Draw: cards}, nil
}

// cycle repeats defs until n cards are produced, suffixing repeat instances
// so IDs stay unique within a session.
func cycle(defs []catalog.Card, n int) []catalog.Card {
	if len(defs) == 0 || n <= 0 {
		return nil
	}
	out := make([]catalog.Card, 0, n)
	for i := 0; i < n; i++ {
		card := defs[i%len(defs)]
		if round := i / len(defs); round > 0 {
			card.ID = fmt.Sprintf("%s.%d", card.ID, round+1)
		}
		out = append(out, card)
	}
	return out
}

// Shuffle permutes the draw pile in place. Deterministic for a given rng
// seed, which keeps dealing reproducible in tests.
func (d *Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.Draw), func(i, j int) {
		d.Draw[i], d.Draw[j] = d.Draw[j], d.Draw[i]
	})
}

// DrawN removes up to n cards from the top of the draw pile. When the pile
// runs short, the discard is reshuffled into it first (standard card-game
// recycling). Only when both piles are empty does it return ErrDeckExhausted.
func (d *Deck) DrawN(n int, rng *rand.Rand) ([]catalog.Card, error) {
	if n <= 0 {
		return nil, nil
	}
	if len(d.Draw) < n && len(d.Discard) > 0 {
		d.Recycle(rng)
	}
	if len(d.Draw) == 0 {
		return nil, gamerrors.ErrDeckExhausted
	}
	if n > len(d.Draw) {
		n = len(d.Draw)
	}
	cards := make([]catalog.Card, n)
	copy(cards, d.Draw[:n])
	d.Draw = d.Draw[n:]
	return cards, nil
}

// Recycle merges the discard pile back into the draw pile and reshuffles.
func (d *Deck) Recycle(rng *rand.Rand) {
	if len(d.Discard) == 0 {
		return
	}
	d.Draw = append(d.Draw, d.Discard...)
	d.Discard = nil
	d.Shuffle(rng)
}

// Bury moves played cards onto the discard pile.
func (d *Deck) Bury(cards ...catalog.Card) {
	d.Discard = append(d.Discard, cards...)
}

// Remaining returns how many cards can still be drawn (draw pile + discard).
func (d *Deck) Remaining() int {
	return len(d.Draw) + len(d.Discard)
}
