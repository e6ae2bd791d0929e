package effect

import (
	"fitness-battle-server/catalog"
	"fitness-battle-server/game"
)

// WarmupEffect is the warm-up card subtype: playing one grants a small flat
// preparatory bonus instead of base points.
type WarmupEffect struct{}

func (e *WarmupEffect) Tag() catalog.EffectTag { return catalog.EffectWarmup }
func (e *WarmupEffect) Name() string           { return "Warm-up" }
func (e *WarmupEffect) Description() string {
	return "Grants a small flat bonus for preparing properly."
}

func (e *WarmupEffect) Apply(s *game.Session, seat int) error {
	s.GrantWarmupBonus(seat)
	return nil
}
