package duel_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/fdumontet/ringside/internal/game/character"
	"github.com/fdumontet/ringside/internal/game/duel"
	"github.com/fdumontet/ringside/internal/game/skill"
)

func freshPair() (*character.Character, *character.Character) {
	a := character.New("Asha", 1, character.Peerless)
	b := character.New("Bren", 2, character.Peerless)
	return a, b
}

func TestCalculateDamage_Neutral(t *testing.T) {
	a, b := freshPair()
	if got := duel.CalculateDamage(a, b, false, 0); got != 100 {
		t.Fatalf("neutral damage = %d, want 100", got)
	}
}

func TestCalculateDamage_Modifiers(t *testing.T) {
	cases := []struct {
		name  string
		setup func(a, b *character.Character)
		skill bool
		cat   skill.Category
		want  int
	}{
		{"attack skill", nil, true, skill.Attack, 150},
		{"restrictive skill", nil, true, skill.Restrictive, 80},
		{"attacker bloodlust", func(a, _ *character.Character) { a.Combat.BloodlustTurns = 3 }, false, 0, 200},
		{"attacker weakened", func(a, _ *character.Character) { a.Combat.WeakenedTurns = 1 }, false, 0, 50},
		{"attack bonus", func(a, _ *character.Character) { a.Combat.GrantAttackBonus(1.3) }, false, 0, 130},
		{"defender defending", func(_, b *character.Character) { b.Combat.Defending = true }, false, 0, 50},
		{"received malus", func(_, b *character.Character) { b.Combat.InflictReceivedMalus(0.7) }, false, 0, 70},
		{"defender bloodlust", func(_, b *character.Character) { b.Combat.BloodlustTurns = 2 }, false, 0, 200},
		{"defender weakened", func(_, b *character.Character) { b.Combat.WeakenedTurns = 2 }, false, 0, 200},
		{"both in bloodlust", func(a, b *character.Character) {
			a.Combat.BloodlustTurns = 1
			b.Combat.BloodlustTurns = 1
		}, false, 0, 400},
		{"talent advantage", func(a, _ *character.Character) { a.Talent = character.SpeedGod }, false, 0, 110},
		{"talent disadvantage", func(a, _ *character.Character) { a.Talent = character.Fortress }, false, 0, 90},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a, b := freshPair()
			if tc.setup != nil {
				tc.setup(a, b)
			}
			if got := duel.CalculateDamage(a, b, tc.skill, tc.cat); got != tc.want {
				t.Fatalf("damage = %d, want %d", got, tc.want)
			}
		})
	}
}

// Talent cases above pit SpeedGod/Fortress against Peerless: SpeedGod beats
// Peerless, Peerless beats Fortress.

func TestCalculateDamage_NonNegative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a, b := freshPair()
		a.Talent = rapid.SampledFrom(character.Talents).Draw(t, "talA")
		b.Talent = rapid.SampledFrom(character.Talents).Draw(t, "talB")
		a.Combat.BloodlustTurns = rapid.IntRange(0, 8).Draw(t, "blA")
		a.Combat.WeakenedTurns = rapid.IntRange(0, 2).Draw(t, "wkA")
		b.Combat.BloodlustTurns = rapid.IntRange(0, 8).Draw(t, "blB")
		b.Combat.WeakenedTurns = rapid.IntRange(0, 2).Draw(t, "wkB")
		b.Combat.Defending = rapid.Bool().Draw(t, "def")
		if rapid.Bool().Draw(t, "bonus") {
			a.Combat.GrantAttackBonus(1.3)
		}
		if rapid.Bool().Draw(t, "malus") {
			b.Combat.InflictReceivedMalus(0.7)
		}
		isSkill := rapid.Bool().Draw(t, "isSkill")
		cat := rapid.SampledFrom(skill.Categories).Draw(t, "cat")

		if got := duel.CalculateDamage(a, b, isSkill, cat); got < 0 {
			t.Fatalf("negative damage %d", got)
		}
	})
}

func TestUseSkill_RejectsWithoutMutation(t *testing.T) {
	a, b := freshPair()
	sk := &skill.Skill{Name: "Hex", Category: skill.Malus, Cooldown: 1}
	if duel.UseSkill(a, sk, b) {
		t.Fatal("skill on cooldown should fail")
	}
	if a.PowerGauge != 100 || b.Combat.MalusNextReceived != 1.0 || sk.Cooldown != 1 {
		t.Fatal("rejected use mutated state")
	}

	sk.Cooldown = 0
	a.PowerGauge = 10
	if duel.UseSkill(a, sk, b) {
		t.Fatal("insufficient gauge should fail")
	}
	if a.PowerGauge != 10 || b.Combat.MalusNextReceived != 1.0 || sk.Cooldown != 0 {
		t.Fatal("rejected use mutated state")
	}
}

func TestUseSkill_Effects(t *testing.T) {
	t.Run("bonus", func(t *testing.T) {
		a, b := freshPair()
		sk := &skill.Skill{Name: "Focus", Category: skill.Bonus}
		if !duel.UseSkill(a, sk, b) {
			t.Fatal("use failed")
		}
		if a.PowerGauge != 85 {
			t.Errorf("gauge = %v, want 85", a.PowerGauge)
		}
		if a.Combat.BonusNextAttack != 1.3 {
			t.Errorf("bonus = %v, want 1.3", a.Combat.BonusNextAttack)
		}
		if sk.Cooldown != 2 {
			t.Errorf("cooldown = %d, want 2", sk.Cooldown)
		}
	})
	t.Run("malus", func(t *testing.T) {
		a, b := freshPair()
		sk := &skill.Skill{Name: "Hex", Category: skill.Malus}
		if !duel.UseSkill(a, sk, b) {
			t.Fatal("use failed")
		}
		if b.Combat.MalusNextReceived != 0.7 {
			t.Errorf("malus = %v, want 0.7", b.Combat.MalusNextReceived)
		}
	})
	t.Run("restrictive", func(t *testing.T) {
		a, b := freshPair()
		sk := &skill.Skill{Name: "Bind", Category: skill.Restrictive}
		if !duel.UseSkill(a, sk, b) {
			t.Fatal("use failed")
		}
		if !b.Combat.SkipNextTurn {
			t.Error("skip flag not set")
		}
		if a.PowerGauge != 80 {
			t.Errorf("gauge = %v, want 80", a.PowerGauge)
		}
		if sk.Cooldown != 3 {
			t.Errorf("cooldown = %d, want 3", sk.Cooldown)
		}
	})
	t.Run("attack has no side effect", func(t *testing.T) {
		a, b := freshPair()
		sk := &skill.Skill{Name: "Jab", Category: skill.Attack}
		if !duel.UseSkill(a, sk, b) {
			t.Fatal("use failed")
		}
		if a.Combat.BonusNextAttack != 1.0 || b.Combat.MalusNextReceived != 1.0 || b.Combat.SkipNextTurn {
			t.Error("attack skill applied a side effect")
		}
		if a.PowerGauge != 90 {
			t.Errorf("gauge = %v, want 90", a.PowerGauge)
		}
	})
}

func TestProcessTurnEnd_Decay(t *testing.T) {
	a, _ := freshPair()
	_ = a.AddSkill(&skill.Skill{Name: "Jab", Category: skill.Attack, Cooldown: 2})
	a.Combat.DefenseCooldown = 1
	a.Combat.Defending = true
	a.Combat.BonusNextAttack = 1.3
	a.Combat.MalusNextReceived = 0.7

	duel.ProcessTurnEnd(a)

	if a.Skills[0].Cooldown != 1 {
		t.Errorf("skill cooldown = %d, want 1", a.Skills[0].Cooldown)
	}
	if a.Combat.DefenseCooldown != 0 {
		t.Errorf("defense cooldown = %d, want 0", a.Combat.DefenseCooldown)
	}
	if a.Combat.Defending {
		t.Error("defending not cleared")
	}
	if a.Combat.BonusNextAttack != 1.0 || a.Combat.MalusNextReceived != 1.0 {
		t.Errorf("stale modifiers not reset: %v %v", a.Combat.BonusNextAttack, a.Combat.MalusNextReceived)
	}
}

// TestProcessTurnEnd_FreshModifierSurvivesOneDecay: a modifier granted this
// turn must still apply on the character's next turn.
func TestProcessTurnEnd_FreshModifierSurvivesOneDecay(t *testing.T) {
	a, _ := freshPair()
	a.Combat.GrantAttackBonus(1.3)

	duel.ProcessTurnEnd(a)
	if a.Combat.BonusNextAttack != 1.3 {
		t.Fatalf("fresh bonus decayed to %v", a.Combat.BonusNextAttack)
	}
	duel.ProcessTurnEnd(a)
	if a.Combat.BonusNextAttack != 1.0 {
		t.Fatalf("bonus = %v after second decay, want 1.0", a.Combat.BonusNextAttack)
	}
}

func TestProcessTurnEnd_BloodlustEndsIntoWeakened(t *testing.T) {
	a, _ := freshPair()
	a.Combat.BloodlustTurns = 1

	duel.ProcessTurnEnd(a)
	if a.Combat.BloodlustTurns != 0 {
		t.Fatalf("bloodlust = %d, want 0", a.Combat.BloodlustTurns)
	}
	if a.Combat.WeakenedTurns != 2 {
		t.Fatalf("weakened = %d, want 2", a.Combat.WeakenedTurns)
	}

	duel.ProcessTurnEnd(a)
	if a.Combat.WeakenedTurns != 1 {
		t.Fatalf("weakened = %d after next turn, want 1", a.Combat.WeakenedTurns)
	}
	duel.ProcessTurnEnd(a)
	if a.Combat.WeakenedTurns != 0 {
		t.Fatalf("weakened = %d, want 0", a.Combat.WeakenedTurns)
	}
}

func TestExperienceGain(t *testing.T) {
	cases := []struct {
		victory     bool
		damage, hp  int
		power       float64
		want        int
	}{
		{true, 300, 450, 50, 4125},
		{false, 100, 0, 0, 100},
		{false, 0, 0, 0, 0},
		{true, 0, 1000, 100, 6000},
	}
	for _, tc := range cases {
		got := duel.ExperienceGain(tc.victory, tc.damage, tc.hp, tc.power)
		if got != tc.want {
			t.Errorf("ExperienceGain(%v, %d, %d, %v) = %d, want %d",
				tc.victory, tc.damage, tc.hp, tc.power, got, tc.want)
		}
	}
}
