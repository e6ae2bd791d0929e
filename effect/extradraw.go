package effect

import (
	"fitness-battle-server/catalog"
	"fitness-battle-server/game"
)

// ExtraDrawEffect grants the acting player extra draws this turn.
type ExtraDrawEffect struct{}

func (e *ExtraDrawEffect) Tag() catalog.EffectTag { return catalog.EffectExtraDraw }
func (e *ExtraDrawEffect) Name() string           { return "Hydration Break" }
func (e *ExtraDrawEffect) Description() string {
	return "Draw two extra cards this turn (up to the hand limit)."
}

func (e *ExtraDrawEffect) Apply(s *game.Session, seat int) error {
	s.GrantExtraDraws(seat, s.Cfg.ExtraDrawCount)
	return nil
}
