package effect

import (
	"fitness-battle-server/catalog"
	"fitness-battle-server/game"
)

// FreshHandEffect discards and redraws the acting player's full hand.
type FreshHandEffect struct{}

func (e *FreshHandEffect) Tag() catalog.EffectTag { return catalog.EffectFreshHand }
func (e *FreshHandEffect) Name() string           { return "Gear Swap" }
func (e *FreshHandEffect) Description() string {
	return "Discard your hand and draw the same number of cards."
}

func (e *FreshHandEffect) Apply(s *game.Session, seat int) error {
	s.RedrawHand(seat)
	return nil
}
