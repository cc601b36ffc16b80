package skill_test

import (
	"testing"

	"github.com/fdumontet/ringside/internal/game/skill"
)

func TestCategory_Tables(t *testing.T) {
	cases := []struct {
		cat      skill.Category
		cost     float64
		cooldown int
		modifier float64
		damages  bool
	}{
		{skill.Attack, 10, 1, 1.5, true},
		{skill.Bonus, 15, 2, 1.0, false},
		{skill.Malus, 15, 2, 1.0, false},
		{skill.Restrictive, 20, 3, 0.8, true},
	}
	for _, tc := range cases {
		if got := tc.cat.PowerCost(); got != tc.cost {
			t.Errorf("%v PowerCost = %v, want %v", tc.cat, got, tc.cost)
		}
		if got := tc.cat.CooldownDuration(); got != tc.cooldown {
			t.Errorf("%v CooldownDuration = %v, want %v", tc.cat, got, tc.cooldown)
		}
		if got := tc.cat.DamageModifier(); got != tc.modifier {
			t.Errorf("%v DamageModifier = %v, want %v", tc.cat, got, tc.modifier)
		}
		if got := tc.cat.DealsDamage(); got != tc.damages {
			t.Errorf("%v DealsDamage = %v, want %v", tc.cat, got, tc.damages)
		}
	}
}

func TestParseCategory_RoundTrip(t *testing.T) {
	for _, cat := range skill.Categories {
		got, err := skill.ParseCategory(cat.String())
		if err != nil {
			t.Fatalf("ParseCategory(%q): %v", cat.String(), err)
		}
		if got != cat {
			t.Fatalf("ParseCategory(%q) = %v, want %v", cat.String(), got, cat)
		}
	}
	if _, err := skill.ParseCategory("summon"); err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestSkill_Usable(t *testing.T) {
	s := &skill.Skill{Name: "Hex", Category: skill.Malus}
	if !s.Usable(15) {
		t.Error("off cooldown with exact gauge should be usable")
	}
	if s.Usable(14.9) {
		t.Error("gauge below cost should not be usable")
	}
	s.Cooldown = 1
	if s.Usable(100) {
		t.Error("on cooldown should not be usable")
	}
}
