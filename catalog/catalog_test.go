package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fitness-battle-server/gamerrors"
)

func TestBuiltinCatalog(t *testing.T) {
	cat := Builtin()
	if err := cat.Validate(); err != nil {
		t.Fatalf("builtin catalog should validate: %v", err)
	}
	if len(cat.Utility) == 0 {
		t.Error("builtin catalog should include utility cards")
	}
	if len(cat.Warmup) == 0 {
		t.Error("builtin catalog should include warm-up cards")
	}
	seen := make(map[string]bool)
	for _, c := range cat.Exercise {
		if seen[c.ID] {
			t.Errorf("duplicate card ID %q", c.ID)
		}
		seen[c.ID] = true
		if !c.Category.Scores() {
			t.Errorf("card %q in Exercise has non-scoring category %s", c.ID, c.Category)
		}
		if c.Difficulty < 1 {
			t.Errorf("card %q has difficulty %d, want >= 1", c.ID, c.Difficulty)
		}
	}
}

func TestValidateEmpty(t *testing.T) {
	cat := &Catalog{}
	if err := cat.Validate(); !errors.Is(err, gamerrors.ErrEmptyCatalog) {
		t.Errorf("expected ErrEmptyCatalog, got %v", err)
	}
}

func TestCategoryRoundTrip(t *testing.T) {
	for _, c := range []Category{Strength, Cardio, Core, Flexibility, Utility, Warmup} {
		parsed, err := ParseCategory(c.String())
		if err != nil {
			t.Errorf("ParseCategory(%q): %v", c.String(), err)
		}
		if parsed != c {
			t.Errorf("ParseCategory(%q) = %v, want %v", c.String(), parsed, c)
		}
	}
	if _, err := ParseCategory("yoga"); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestEffectTagUtilitySplit(t *testing.T) {
	utility := []EffectTag{EffectSkip, EffectReshuffle, EffectExtraDraw, EffectFreshHand, EffectWarmup}
	scoring := []EffectTag{EffectNone, EffectDouble, EffectBlock, EffectSteal, EffectBonus}
	for _, e := range utility {
		if !e.IsUtility() {
			t.Errorf("%s should be a utility effect", e)
		}
	}
	for _, e := range scoring {
		if e.IsUtility() {
			t.Errorf("%s should not be a utility effect", e)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")
	data := `[
		{"id": "pushups", "name": "Push-ups", "category": "strength", "difficulty": 2},
		{"id": "burpees", "name": "Burpees", "category": "cardio", "difficulty": 3, "effect": "double"},
		{"id": "rest_day", "name": "Rest Day", "category": "utility", "effect": "skip"},
		{"id": "light_jog", "name": "Light Jog", "category": "warmup", "effect": "warm-up"}
	]`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cat, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cat.Exercise) != 2 {
		t.Errorf("expected 2 exercise cards, got %d", len(cat.Exercise))
	}
	if len(cat.Utility) != 1 || cat.Utility[0].Effect != EffectSkip {
		t.Errorf("expected 1 utility card with skip effect, got %+v", cat.Utility)
	}
	if len(cat.Warmup) != 1 {
		t.Errorf("expected 1 warm-up card, got %d", len(cat.Warmup))
	}
}

func TestLoadRejectsUtilityOnlyCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")
	data := `[{"id": "rest_day", "name": "Rest Day", "category": "utility", "effect": "skip"}]`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, gamerrors.ErrEmptyCatalog) {
		t.Errorf("expected ErrEmptyCatalog, got %v", err)
	}
}
