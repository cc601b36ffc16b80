// Package character defines the character domain model and pure
// progression logic.
package character

import (
	"strings"
	"time"

	"github.com/fdumontet/ringside/internal/game/skill"
)

const (
	// BaseMaxHP is the starting (and for now only) hit point maximum.
	BaseMaxHP = 1000
	// FullGauge is the power gauge ceiling and starting value.
	FullGauge = 100.0
	// BaseSkillSlots is the number of skills a level-1 character may hold.
	BaseSkillSlots = 2
)

// CombatState holds the transient per-duel fields. It is reset to its
// identity values whenever the character is bound to a new session and is
// never persisted.
type CombatState struct {
	Defending         bool
	DefenseCooldown   int
	BonusNextAttack   float64
	MalusNextReceived float64
	BloodlustTurns    int
	WeakenedTurns     int
	SkipNextTurn      bool
	// WasInBloodlust latches once bloodlust is entered and stays true for
	// the remainder of the session.
	WasInBloodlust bool

	// Freshness latches let a just-granted modifier survive its first
	// end-of-turn decay so it can apply to one attack before resetting.
	bonusFresh bool
	malusFresh bool
}

// GrantAttackBonus sets the next-attack multiplier. The modifier survives
// the decay at the end of the turn it was granted and resets at the end of
// the turn in which it applies.
func (cs *CombatState) GrantAttackBonus(mult float64) {
	cs.BonusNextAttack = mult
	cs.bonusFresh = true
}

// InflictReceivedMalus sets the next-received-damage multiplier, with the
// same one-decay grace as GrantAttackBonus.
func (cs *CombatState) InflictReceivedMalus(mult float64) {
	cs.MalusNextReceived = mult
	cs.malusFresh = true
}

// DecayModifiers resets the next-attack bonus and next-received malus to
// their identity values, skipping a modifier granted during the turn that
// is ending.
func (cs *CombatState) DecayModifiers() {
	if cs.bonusFresh {
		cs.bonusFresh = false
	} else {
		cs.BonusNextAttack = 1.0
	}
	if cs.malusFresh {
		cs.malusFresh = false
	} else {
		cs.MalusNextReceived = 1.0
	}
}

// Character represents a player character's persistent state.
//
// ID is set by the persistence layer; a zero value indicates an unsaved
// character.
type Character struct {
	ID      int64
	OwnerID int64
	Name    string

	HP         int
	MaxHP      int
	PowerGauge float64
	Talent     Talent
	Level      int
	Experience int

	Skills []*skill.Skill

	CreatedAt time.Time
	UpdatedAt time.Time

	Combat CombatState
}

// New creates a fresh level-1 character with full vitals and no skills.
//
// Precondition: name must be non-empty; ownerID identifies the owning player.
func New(name string, ownerID int64, talent Talent) *Character {
	c := &Character{
		OwnerID:    ownerID,
		Name:       name,
		MaxHP:      BaseMaxHP,
		HP:         BaseMaxHP,
		PowerGauge: FullGauge,
		Talent:     talent,
		Level:      1,
	}
	c.ResetForCombat()
	return c
}

// LevelThreshold returns the experience required to advance past the
// character's current level: 5000 at level 1, then +200·(i−1) for each
// level i from 2 up. Computed iteratively to match the reference sum
// exactly at every level.
func (c *Character) LevelThreshold() int {
	threshold := 5000
	for i := 2; i <= c.Level; i++ {
		threshold += 200 * (i - 1)
	}
	return threshold
}

// CanLevelUp reports whether accumulated experience meets the current
// threshold.
func (c *Character) CanLevelUp() bool {
	return c.Experience >= c.LevelThreshold()
}

// LevelUp consumes experience and raises the level repeatedly until the
// remainder no longer meets the (growing) threshold. Overflow experience
// always carries forward, never discarded.
//
// Postcondition: CanLevelUp() is false; Experience >= 0.
func (c *Character) LevelUp() {
	for c.CanLevelUp() {
		c.Experience -= c.LevelThreshold()
		c.Level++
	}
}

// SkillSlots returns how many skills the character may hold at its current
// level: 2 at level 1, +1 every 10 levels.
func (c *Character) SkillSlots() int {
	return BaseSkillSlots + (c.Level-1)/10
}

// AddSkill appends a learned skill, enforcing the level-gated slot count.
//
// Postcondition: Returns ErrSkillSlotsFull and leaves Skills unchanged
// when the character is at capacity.
func (c *Character) AddSkill(s *skill.Skill) error {
	if len(c.Skills) >= c.SkillSlots() {
		return ErrSkillSlotsFull
	}
	c.Skills = append(c.Skills, s)
	return nil
}

// SkillByName returns the learned skill with the given name
// (case-insensitive), or nil.
func (c *Character) SkillByName(name string) *skill.Skill {
	for _, s := range c.Skills {
		if strings.EqualFold(s.Name, name) {
			return s
		}
	}
	return nil
}

// ResetForCombat restores full vitals, clears every transient combat field
// to its zero/identity value, and clears all skill cooldowns. Must be
// called whenever the character is bound to a new session so that no state
// leaks between duels.
func (c *Character) ResetForCombat() {
	c.HP = c.MaxHP
	c.PowerGauge = FullGauge
	c.Combat = CombatState{
		BonusNextAttack:   1.0,
		MalusNextReceived: 1.0,
	}
	for _, s := range c.Skills {
		s.Cooldown = 0
	}
}

// ApplyDamage reduces HP by amount, flooring at zero.
//
// Precondition: amount must be >= 0.
// Postcondition: HP >= 0.
func (c *Character) ApplyDamage(amount int) {
	c.HP -= amount
	if c.HP < 0 {
		c.HP = 0
	}
}

// Heal raises HP by amount, clamped to MaxHP.
//
// Precondition: amount must be >= 0.
// Postcondition: HP <= MaxHP.
func (c *Character) Heal(amount int) {
	c.HP += amount
	if c.HP > c.MaxHP {
		c.HP = c.MaxHP
	}
}
