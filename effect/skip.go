package effect

import (
	"fitness-battle-server/catalog"
	"fitness-battle-server/game"
)

// SkipEffect ends the opponent's following turn without a play.
type SkipEffect struct{}

func (e *SkipEffect) Tag() catalog.EffectTag { return catalog.EffectSkip }
func (e *SkipEffect) Name() string           { return "Rest Day" }
func (e *SkipEffect) Description() string {
	return "Your opponent's next turn is skipped."
}

func (e *SkipEffect) Apply(s *game.Session, seat int) error {
	s.SkipOpponent(seat)
	return nil
}
