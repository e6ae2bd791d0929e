package effect

import (
	"fitness-battle-server/catalog"
	"fitness-battle-server/game"
)

// UtilityEffect defines the interface that all utility card effects implement.
type UtilityEffect interface {
	Tag() catalog.EffectTag
	Name() string
	Description() string
	Apply(s *game.Session, seat int) error
}

// Registry holds all registered utility effects indexed by their tag.
type Registry struct {
	effects map[catalog.EffectTag]UtilityEffect
	order   []catalog.EffectTag // registration order for deterministic All()
}

// NewRegistry creates a new empty effect registry.
func NewRegistry() *Registry {
	return &Registry{effects: make(map[catalog.EffectTag]UtilityEffect)}
}

// Register adds an effect to the registry.
func (r *Registry) Register(e UtilityEffect) {
	tag := e.Tag()
	if _, exists := r.effects[tag]; !exists {
		r.order = append(r.order, tag)
	}
	r.effects[tag] = e
}

// GetEffect returns the effect definition for the game package.
// It satisfies the game.EffectProvider interface.
func (r *Registry) GetEffect(tag catalog.EffectTag) (game.UtilityEffectDef, bool) {
	e, ok := r.effects[tag]
	if !ok {
		return game.UtilityEffectDef{}, false
	}
	return game.UtilityEffectDef{
		Tag:         e.Tag(),
		Name:        e.Name(),
		Description: e.Description(),
		Apply:       e.Apply,
	}, true
}

// All returns every registered effect definition in registration order.
func (r *Registry) All() []game.UtilityEffectDef {
	defs := make([]game.UtilityEffectDef, 0, len(r.order))
	for _, tag := range r.order {
		e := r.effects[tag]
		defs = append(defs, game.UtilityEffectDef{
			Tag:         e.Tag(),
			Name:        e.Name(),
			Description: e.Description(),
			Apply:       e.Apply,
		})
	}
	return defs
}

// RegisterAll registers all built-in utility effects on the registry.
// Call this from main so adding a new effect only requires registering it here.
func RegisterAll(r *Registry) {
	r.Register(&ReshuffleEffect{})
	r.Register(&ExtraDrawEffect{})
	r.Register(&SkipEffect{})
	r.Register(&FreshHandEffect{})
	r.Register(&WarmupEffect{})
}
