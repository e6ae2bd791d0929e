package config

import (
	"encoding/json"
	"log"
	"os"
	"strconv"
)

// AIParams holds the parameters for one AI opponent profile (name and behavior).
type AIParams struct {
	Name         string `json:"name"`
	DelayMinMS   int    `json:"delay_min_ms"`
	DelayMaxMS   int    `json:"delay_max_ms"`
	BehindMargin int    `json:"behind_margin"` // score deficit above which the AI hunts for double/steal cards
	AheadMargin  int    `json:"ahead_margin"`  // score lead above which the AI plays safe, highest-base cards
	Randomness   int    `json:"randomness"`    // 0-100, probability to pick a random playable card instead of the heuristic choice
}

// AdaptiveConfig holds the difficulty adapter parameters.
type AdaptiveConfig struct {
	MinMultiplier  float64 `json:"min_multiplier"`
	MaxMultiplier  float64 `json:"max_multiplier"`
	StepUp         float64 `json:"step_up"`
	StepDown       float64 `json:"step_down"` // slightly larger than StepUp to bias toward safety
	MomentumFactor float64 `json:"momentum_factor"`
	HistoryWindow  int     `json:"history_window"`
}

// DeckConfig holds session deck composition parameters.
type DeckConfig struct {
	Size           int `json:"size"`
	UtilityPercent int `json:"utility_percent"`
	MinWarmupCards int `json:"min_warmup_cards"`
}

// Config holds all configurable engine parameters.
type Config struct {
	Deck             DeckConfig `json:"deck"`
	HandSize         int        `json:"hand_size"`
	HandRefill       int        `json:"hand_refill"` // draw up to this many cards at turn start
	MaxRounds        int        `json:"max_rounds"`
	AIDeliberationMS int        `json:"ai_deliberation_ms"` // AI turn window; on expiry the session auto-plays

	// ComboDecay is the point multiplier per consecutive same-category play.
	// The last element is the floor for further repeats.
	ComboDecay []float64 `json:"combo_decay"`

	// CategoryWeights maps exercise category to its base-point weight.
	// A card's base points are weight * difficulty.
	CategoryWeights map[string]int `json:"category_weights"`

	StealAmount      int `json:"steal_amount"`
	BonusPoints      int `json:"bonus_points"`
	WarmupBonus      int `json:"warmup_bonus"`
	ExtraDrawCount   int `json:"extra_draw_count"`
	EmotionThreshold int `json:"emotion_threshold"` // score differential that flips the AI mood

	Adaptive AdaptiveConfig `json:"adaptive"`

	HTTPPort    int    `json:"http_port"`
	AuthJWKSURL string `json:"auth_jwks_url"`
	CatalogPath string `json:"catalog_path"`
	DatabaseURL string `json:"-"` // env only, never written to config.json

	// AIProfiles lists available AI opponents; one is chosen at random per battle.
	AIProfiles []AIParams `json:"ai_profiles"`
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	return &Config{
		Deck:             DeckConfig{Size: 40, UtilityPercent: 10, MinWarmupCards: 2},
		HandSize:         5,
		HandRefill:       3,
		MaxRounds:        30,
		AIDeliberationMS: 5000,
		ComboDecay:       []float64{1.0, 0.6, 0.3},
		CategoryWeights: map[string]int{
			"strength":    10,
			"cardio":      8,
			"core":        6,
			"flexibility": 5,
		},
		StealAmount:      10,
		BonusPoints:      5,
		WarmupBonus:      2,
		ExtraDrawCount:   2,
		EmotionThreshold: 15,
		Adaptive: AdaptiveConfig{
			MinMultiplier:  0.5,
			MaxMultiplier:  2.0,
			StepUp:         0.05,
			StepDown:       0.1,
			MomentumFactor: 2.0,
			HistoryWindow:  5,
		},
		HTTPPort: 8080,
		AIProfiles: []AIParams{
			{Name: "Atlas", DelayMinMS: 800, DelayMaxMS: 2200, BehindMargin: 12, AheadMargin: 20, Randomness: 5},
			{Name: "Iris", DelayMinMS: 500, DelayMaxMS: 1500, BehindMargin: 8, AheadMargin: 15, Randomness: 15},
			{Name: "Helios", DelayMinMS: 400, DelayMaxMS: 1200, BehindMargin: 15, AheadMargin: 25, Randomness: 30},
		},
	}
}

// Load reads configuration from an optional config.json file,
// then applies environment variable overrides. Fields not set
// in either source retain their default values.
func Load() *Config {
	cfg := Defaults()

	// Try to load from config.json
	if f, err := os.Open("config.json"); err == nil {
		defer f.Close()
		if err := json.NewDecoder(f).Decode(cfg); err != nil {
			log.Printf("Warning: failed to parse config.json: %v", err)
		}
	}

	// Environment variable overrides
	overrideInt(&cfg.Deck.Size, "DECK_SIZE")
	overrideInt(&cfg.Deck.UtilityPercent, "DECK_UTILITY_PERCENT")
	overrideInt(&cfg.Deck.MinWarmupCards, "DECK_MIN_WARMUP_CARDS")
	overrideInt(&cfg.HandSize, "HAND_SIZE")
	overrideInt(&cfg.HandRefill, "HAND_REFILL")
	overrideInt(&cfg.MaxRounds, "MAX_ROUNDS")
	overrideInt(&cfg.AIDeliberationMS, "AI_DELIBERATION_MS")
	overrideInt(&cfg.StealAmount, "STEAL_AMOUNT")
	overrideInt(&cfg.BonusPoints, "BONUS_POINTS")
	overrideInt(&cfg.WarmupBonus, "WARMUP_BONUS")
	overrideInt(&cfg.ExtraDrawCount, "EXTRA_DRAW_COUNT")
	overrideInt(&cfg.EmotionThreshold, "EMOTION_THRESHOLD")
	overrideFloat(&cfg.Adaptive.MinMultiplier, "ADAPTIVE_MIN_MULTIPLIER")
	overrideFloat(&cfg.Adaptive.MaxMultiplier, "ADAPTIVE_MAX_MULTIPLIER")
	overrideFloat(&cfg.Adaptive.StepUp, "ADAPTIVE_STEP_UP")
	overrideFloat(&cfg.Adaptive.StepDown, "ADAPTIVE_STEP_DOWN")
	overrideFloat(&cfg.Adaptive.MomentumFactor, "ADAPTIVE_MOMENTUM_FACTOR")
	overrideInt(&cfg.Adaptive.HistoryWindow, "ADAPTIVE_HISTORY_WINDOW")
	overrideInt(&cfg.HTTPPort, "HTTP_PORT")
	overrideString(&cfg.AuthJWKSURL, "AUTH_JWKS_URL")
	overrideString(&cfg.CatalogPath, "CATALOG_PATH")
	overrideString(&cfg.DatabaseURL, "DATABASE_URL")
	if len(cfg.AIProfiles) > 0 {
		overrideString(&cfg.AIProfiles[0].Name, "AI_NAME")
		overrideInt(&cfg.AIProfiles[0].DelayMinMS, "AI_DELAY_MIN_MS")
		overrideInt(&cfg.AIProfiles[0].DelayMaxMS, "AI_DELAY_MAX_MS")
		overrideInt(&cfg.AIProfiles[0].BehindMargin, "AI_BEHIND_MARGIN")
		overrideInt(&cfg.AIProfiles[0].AheadMargin, "AI_AHEAD_MARGIN")
		overrideInt(&cfg.AIProfiles[0].Randomness, "AI_RANDOMNESS")
	}

	return cfg
}

// DecayFloor returns the terminal combo decay factor (last element of ComboDecay).
func (c *Config) DecayFloor() float64 {
	if len(c.ComboDecay) == 0 {
		return 1.0
	}
	return c.ComboDecay[len(c.ComboDecay)-1]
}

func overrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*field = n
		} else {
			log.Printf("Warning: invalid value for %s: %q", envKey, val)
		}
	}
}

func overrideFloat(field *float64, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			*field = f
		} else {
			log.Printf("Warning: invalid value for %s: %q", envKey, val)
		}
	}
}

func overrideString(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}
