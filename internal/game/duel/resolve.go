package duel

import (
	"github.com/fdumontet/ringside/internal/game/character"
	"github.com/fdumontet/ringside/internal/game/skill"
)

// baseDamage is the damage of an unmodified basic attack.
const baseDamage = 100.0

// CalculateDamage computes the damage of one attacking action. The
// multipliers are applied in a fixed order so float rounding is
// reproducible, then the result is truncated.
//
// Postcondition: Returns a non-negative integer; 100 exactly when every
// modifier is neutral. HP clamping is the caller's job.
func CalculateDamage(attacker, defender *character.Character, isSkill bool, category skill.Category) int {
	skillModifier := 1.0
	if isSkill {
		skillModifier = category.DamageModifier()
	}

	bloodlustModifier := 1.0
	if attacker.Combat.BloodlustTurns > 0 {
		bloodlustModifier = 2.0
	}
	weakenedModifier := 1.0
	if attacker.Combat.WeakenedTurns > 0 {
		weakenedModifier = 0.5
	}
	defenseModifier := 1.0
	if defender.Combat.Defending {
		defenseModifier = 0.5
	}

	damage := baseDamage *
		attacker.Talent.Advantage(defender.Talent) *
		skillModifier *
		bloodlustModifier *
		weakenedModifier *
		attacker.Combat.BonusNextAttack *
		defenseModifier *
		defender.Combat.MalusNextReceived

	// A defender in bloodlust, or failing that weakened, takes double.
	if defender.Combat.BloodlustTurns > 0 {
		damage *= 2.0
	} else if defender.Combat.WeakenedTurns > 0 {
		damage *= 2.0
	}

	return int(damage)
}

// UseSkill spends the gauge, applies the category side effect, and starts
// the cooldown. Damage for Attack and Restrictive skills is computed
// separately by the caller with CalculateDamage.
//
// Postcondition: Returns false with no state change when the skill is on
// cooldown or the gauge cannot cover the cost.
func UseSkill(ch *character.Character, sk *skill.Skill, opponent *character.Character) bool {
	if sk.Cooldown > 0 {
		return false
	}
	if ch.PowerGauge < sk.Category.PowerCost() {
		return false
	}

	ch.PowerGauge -= sk.Category.PowerCost()

	switch sk.Category {
	case skill.Bonus:
		ch.Combat.GrantAttackBonus(1.3)
	case skill.Malus:
		opponent.Combat.InflictReceivedMalus(0.7)
	case skill.Restrictive:
		opponent.Combat.SkipNextTurn = true
	}

	sk.Cooldown = sk.Category.CooldownDuration()
	return true
}

// ProcessTurnEnd applies end-of-turn decay to the character who just
// acted, in a fixed order: skill cooldowns, defense cooldown, transient
// attack modifiers, defending flag, then bloodlust or weakened.
//
// Postcondition: a bloodlust counter reaching exactly 0 leaves the
// character weakened for 2 turns.
func ProcessTurnEnd(ch *character.Character) {
	for _, sk := range ch.Skills {
		if sk.Cooldown > 0 {
			sk.Cooldown--
		}
	}
	if ch.Combat.DefenseCooldown > 0 {
		ch.Combat.DefenseCooldown--
	}

	ch.Combat.DecayModifiers()
	ch.Combat.Defending = false

	if ch.Combat.BloodlustTurns > 0 {
		ch.Combat.BloodlustTurns--
		if ch.Combat.BloodlustTurns == 0 {
			ch.Combat.WeakenedTurns = 2
		}
	} else if ch.Combat.WeakenedTurns > 0 {
		ch.Combat.WeakenedTurns--
	}
}

// EvaluateVictory checks the victory conditions in a fixed order and
// returns the winning player id of the first match. A condition that
// triggers without matching the opponent's objective ends the evaluation
// with no winner, leaving states such as a character at 0 HP whose
// opponent did not pick KO.
//
// Postcondition: at most one winner per call.
func (s *Session) EvaluateVictory() (int64, bool) {
	c1, c2 := s.Player1.Character, s.Player2.Character

	if c1.HP <= 0 {
		if s.Player2.Objective == KO {
			return s.Player2.ID, true
		}
		return 0, false
	}
	if c2.HP <= 0 {
		if s.Player1.Objective == KO {
			return s.Player1.ID, true
		}
		return 0, false
	}

	if c1.PowerGauge <= 0 {
		if s.Player2.Objective == DrainPower {
			return s.Player2.ID, true
		}
		return 0, false
	}
	if c2.PowerGauge <= 0 {
		if s.Player1.Objective == DrainPower {
			return s.Player1.ID, true
		}
		return 0, false
	}

	if c1.Combat.BloodlustTurns == 0 && c1.Combat.WeakenedTurns == 0 && c1.Combat.WasInBloodlust {
		if s.Player2.Objective == ConsumeBloodlust {
			return s.Player2.ID, true
		}
	}
	if c2.Combat.BloodlustTurns == 0 && c2.Combat.WeakenedTurns == 0 && c2.Combat.WasInBloodlust {
		if s.Player1.Objective == ConsumeBloodlust {
			return s.Player1.ID, true
		}
	}

	return 0, false
}

// ExperienceGain computes the experience awarded to one participant:
// floor((2000·[victory] + damageDealt + finalHP) × (1 + finalPower/100)).
//
// Postcondition: Returns >= 0 for non-negative inputs.
func ExperienceGain(victory bool, damageDealt, finalHP int, finalPower float64) int {
	base := damageDealt + finalHP
	if victory {
		base += 2000
	}
	return int(float64(base) * (1.0 + finalPower/100.0))
}
