package game

import "fitness-battle-server/catalog"

// Player is one seat in a battle session.
type Player struct {
	Name  string
	Score int

	// Hand holds the cards this seat currently owns. Bounded by Config.HandSize.
	Hand []catalog.Card

	// ComboCategory and ComboCount track the current combo streak: ComboCount
	// consecutive plays of ComboCategory. A category change resets the count.
	ComboCategory catalog.Category
	ComboCount    int

	// BlockedNext is set by an opponent's block effect; the next scoring play
	// by this seat is nullified and the flag cleared.
	BlockedNext bool
}

// NewPlayer creates a Player with an empty hand.
func NewPlayer(name string) *Player {
	return &Player{Name: name}
}

// HasCard reports whether the given card instance is in this player's hand.
func (p *Player) HasCard(cardID string) bool {
	for _, c := range p.Hand {
		if c.ID == cardID {
			return true
		}
	}
	return false
}

// removeCard takes the card with the given ID out of the hand.
// Returns false if the card is not held.
func (p *Player) removeCard(cardID string) (catalog.Card, bool) {
	for i, c := range p.Hand {
		if c.ID == cardID {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return c, true
		}
	}
	return catalog.Card{}, false
}

// streakBefore returns the combo streak the scoring engine should price this
// play at: the number of consecutive same-category plays immediately before
// it. Zero when the category changes.
func (p *Player) streakBefore(category catalog.Category) int {
	if p.ComboCount > 0 && p.ComboCategory == category {
		return p.ComboCount
	}
	return 0
}

// advanceStreak records a play of the given category.
func (p *Player) advanceStreak(category catalog.Category) {
	if p.ComboCount > 0 && p.ComboCategory == category {
		p.ComboCount++
		return
	}
	p.ComboCategory = category
	p.ComboCount = 1
}
