package effect

import (
	"fitness-battle-server/catalog"
	"fitness-battle-server/game"
)

// ReshuffleEffect merges the discard pile back into the deck and reshuffles.
type ReshuffleEffect struct{}

func (e *ReshuffleEffect) Tag() catalog.EffectTag { return catalog.EffectReshuffle }
func (e *ReshuffleEffect) Name() string           { return "Second Wind" }
func (e *ReshuffleEffect) Description() string {
	return "Shuffles the discard pile back into the deck."
}

func (e *ReshuffleEffect) Apply(s *game.Session, seat int) error {
	s.RecycleDeck()
	return nil
}
