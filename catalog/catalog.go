package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"fitness-battle-server/gamerrors"
)

// Category classifies a card. Exercise categories score points; utility and
// warmup cards carry side effects instead.
type Category int

const (
	Strength Category = iota
	Cardio
	Core
	Flexibility
	Utility
	Warmup
)

// String returns the wire string for a Category.
func (c Category) String() string {
	switch c {
	case Strength:
		return "strength"
	case Cardio:
		return "cardio"
	case Core:
		return "core"
	case Flexibility:
		return "flexibility"
	case Utility:
		return "utility"
	case Warmup:
		return "warmup"
	default:
		return "unknown"
	}
}

// ParseCategory converts a wire string to a Category.
func ParseCategory(s string) (Category, error) {
	switch s {
	case "strength":
		return Strength, nil
	case "cardio":
		return Cardio, nil
	case "core":
		return Core, nil
	case "flexibility":
		return Flexibility, nil
	case "utility":
		return Utility, nil
	case "warmup":
		return Warmup, nil
	default:
		return 0, fmt.Errorf("unknown category %q", s)
	}
}

// Scores reports whether cards of this category earn points when played.
func (c Category) Scores() bool {
	return c != Utility && c != Warmup
}

// EffectTag identifies the special or utility effect attached to a card.
type EffectTag int

const (
	EffectNone EffectTag = iota
	// Special effects: scoring modifiers on exercise cards.
	EffectDouble
	EffectBlock
	EffectSteal
	EffectBonus
	// Utility effects: side effects of utility/warmup cards.
	EffectSkip
	EffectReshuffle
	EffectExtraDraw
	EffectFreshHand
	EffectWarmup
)

// String returns the wire string for an EffectTag.
func (e EffectTag) String() string {
	switch e {
	case EffectNone:
		return "none"
	case EffectDouble:
		return "double"
	case EffectBlock:
		return "block"
	case EffectSteal:
		return "steal"
	case EffectBonus:
		return "bonus"
	case EffectSkip:
		return "skip"
	case EffectReshuffle:
		return "reshuffle"
	case EffectExtraDraw:
		return "extra-draw"
	case EffectFreshHand:
		return "fresh-hand"
	case EffectWarmup:
		return "warm-up"
	default:
		return "unknown"
	}
}

// ParseEffectTag converts a wire string to an EffectTag.
func ParseEffectTag(s string) (EffectTag, error) {
	switch s {
	case "", "none":
		return EffectNone, nil
	case "double":
		return EffectDouble, nil
	case "block":
		return EffectBlock, nil
	case "steal":
		return EffectSteal, nil
	case "bonus":
		return EffectBonus, nil
	case "skip":
		return EffectSkip, nil
	case "reshuffle":
		return EffectReshuffle, nil
	case "extra-draw":
		return EffectExtraDraw, nil
	case "fresh-hand":
		return EffectFreshHand, nil
	case "warm-up":
		return EffectWarmup, nil
	default:
		return 0, fmt.Errorf("unknown effect tag %q", s)
	}
}

// IsUtility reports whether the tag is resolved by the utility effect
// registry (as opposed to the scoring engine).
func (e EffectTag) IsUtility() bool {
	switch e {
	case EffectSkip, EffectReshuffle, EffectExtraDraw, EffectFreshHand, EffectWarmup:
		return true
	}
	return false
}

// Card is one catalog entry. Cards are immutable once drawn; ownership moves
// between deck, hands and discard but the definition never changes.
type Card struct {
	ID         string
	Name       string
	Category   Category
	Difficulty int
	Effect     EffectTag
}

// Catalog is the full set of card definitions a session deck is built from.
type Catalog struct {
	Exercise []Card // strength/cardio/core/flexibility
	Utility  []Card // utility effect cards
	Warmup   []Card // warm-up cards (utility subtype)
}

// Validate checks that the catalog can produce a deck.
func (c *Catalog) Validate() error {
	if c == nil || len(c.Exercise) == 0 {
		return gamerrors.ErrEmptyCatalog
	}
	return nil
}

// cardJSON is the on-disk representation of a card.
type cardJSON struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Difficulty int    `json:"difficulty"`
	Effect     string `json:"effect,omitempty"`
}

// Load reads a catalog from a JSON file. An empty path returns the built-in
// catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Builtin(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()

	var raw []cardJSON
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	cat := &Catalog{}
	for _, cj := range raw {
		category, err := ParseCategory(cj.Category)
		if err != nil {
			return nil, fmt.Errorf("card %s: %w", cj.ID, err)
		}
		effect, err := ParseEffectTag(cj.Effect)
		if err != nil {
			return nil, fmt.Errorf("card %s: %w", cj.ID, err)
		}
		card := Card{ID: cj.ID, Name: cj.Name, Category: category, Difficulty: cj.Difficulty, Effect: effect}
		switch category {
		case Utility:
			cat.Utility = append(cat.Utility, card)
		case Warmup:
			cat.Warmup = append(cat.Warmup, card)
		default:
			cat.Exercise = append(cat.Exercise, card)
		}
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

// Builtin returns the default card catalog.
func Builtin() *Catalog {
	return &Catalog{
		Exercise: []Card{
			{ID: "pushups", Name: "Push-ups", Category: Strength, Difficulty: 2},
			{ID: "squats", Name: "Squats", Category: Strength, Difficulty: 2, Effect: EffectDouble},
			{ID: "lunges", Name: "Lunges", Category: Strength, Difficulty: 2},
			{ID: "pullups", Name: "Pull-ups", Category: Strength, Difficulty: 3, Effect: EffectSteal},
			{ID: "deadlift", Name: "Deadlifts", Category: Strength, Difficulty: 4},
			{ID: "jumping_jacks", Name: "Jumping Jacks", Category: Cardio, Difficulty: 1},
			{ID: "high_knees", Name: "High Knees", Category: Cardio, Difficulty: 1, Effect: EffectBonus},
			{ID: "burpees", Name: "Burpees", Category: Cardio, Difficulty: 3, Effect: EffectDouble},
			{ID: "mountain_climbers", Name: "Mountain Climbers", Category: Cardio, Difficulty: 2},
			{ID: "sprint_intervals", Name: "Sprint Intervals", Category: Cardio, Difficulty: 4, Effect: EffectSteal},
			{ID: "plank", Name: "Plank", Category: Core, Difficulty: 2, Effect: EffectBlock},
			{ID: "crunches", Name: "Crunches", Category: Core, Difficulty: 1},
			{ID: "russian_twists", Name: "Russian Twists", Category: Core, Difficulty: 2},
			{ID: "leg_raises", Name: "Leg Raises", Category: Core, Difficulty: 2, Effect: EffectBonus},
			{ID: "side_plank", Name: "Side Plank", Category: Core, Difficulty: 3, Effect: EffectBlock},
			{ID: "hamstring_stretch", Name: "Hamstring Stretch", Category: Flexibility, Difficulty: 1},
			{ID: "hip_opener", Name: "Hip Opener", Category: Flexibility, Difficulty: 1},
			{ID: "shoulder_stretch", Name: "Shoulder Stretch", Category: Flexibility, Difficulty: 1, Effect: EffectBonus},
			{ID: "cobra_pose", Name: "Cobra Pose", Category: Flexibility, Difficulty: 2},
		},
		Utility: []Card{
			{ID: "second_wind", Name: "Second Wind", Category: Utility, Effect: EffectReshuffle},
			{ID: "hydration_break", Name: "Hydration Break", Category: Utility, Effect: EffectExtraDraw},
			{ID: "rest_day", Name: "Rest Day", Category: Utility, Effect: EffectSkip},
			{ID: "gear_swap", Name: "Gear Swap", Category: Utility, Effect: EffectFreshHand},
		},
		Warmup: []Card{
			{ID: "arm_circles", Name: "Arm Circles", Category: Warmup, Effect: EffectWarmup},
			{ID: "light_jog", Name: "Light Jog", Category: Warmup, Effect: EffectWarmup},
			{ID: "neck_rolls", Name: "Neck Rolls", Category: Warmup, Effect: EffectWarmup},
		},
	}
}
