// Package skill defines the skill catalog rules: the closed category
// variant and the fixed cost/cooldown/effect tables it determines.
package skill

import (
	"fmt"
	"strings"
)

// Category is the closed 4-case skill classification. It fully determines a
// skill's power cost, cooldown duration, and combat effect.
type Category int

const (
	Attack Category = iota
	Bonus
	Malus
	Restrictive
)

// Categories lists all categories in display order.
var Categories = []Category{Attack, Bonus, Malus, Restrictive}

// String returns a human-readable category label.
func (c Category) String() string {
	switch c {
	case Attack:
		return "attack"
	case Bonus:
		return "bonus"
	case Malus:
		return "malus"
	case Restrictive:
		return "restrictive"
	default:
		return "unknown"
	}
}

// ParseCategory converts a stored category label back to a Category.
//
// Postcondition: Returns an error for any label not produced by String.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "attack":
		return Attack, nil
	case "bonus":
		return Bonus, nil
	case "malus":
		return Malus, nil
	case "restrictive":
		return Restrictive, nil
	default:
		return 0, fmt.Errorf("unknown skill category %q", s)
	}
}

// PowerCost returns the power gauge cost of using a skill of this category.
func (c Category) PowerCost() float64 {
	switch c {
	case Attack:
		return 10.0
	case Bonus, Malus:
		return 15.0
	case Restrictive:
		return 20.0
	default:
		return 0
	}
}

// CooldownDuration returns the number of turns a skill of this category
// stays on cooldown after use.
func (c Category) CooldownDuration() int {
	switch c {
	case Attack:
		return 1
	case Bonus, Malus:
		return 2
	case Restrictive:
		return 3
	default:
		return 0
	}
}

// DamageModifier returns the multiplier the damage formula applies when a
// skill of this category is the attacking action: 1.5 for Attack, 0.8 for
// Restrictive, 1.0 otherwise.
func (c Category) DamageModifier() float64 {
	switch c {
	case Attack:
		return 1.5
	case Restrictive:
		return 0.8
	default:
		return 1.0
	}
}

// DealsDamage reports whether using a skill of this category also resolves
// a damage roll against the opponent.
func (c Category) DealsDamage() bool {
	return c == Attack || c == Restrictive
}

// Skill is one learned skill. Name and Effect are player-authored; Effect
// is display-only and never evaluated. Cooldown is the turns remaining
// before the skill is usable again and is mutated only during combat.
type Skill struct {
	Name     string
	Effect   string
	Category Category
	Cooldown int
}

// Usable reports whether the skill can be used right now by a character
// with the given power gauge.
//
// Postcondition: Returns true iff Cooldown == 0 and gauge covers the cost.
func (s *Skill) Usable(gauge float64) bool {
	return s.Cooldown == 0 && gauge >= s.Category.PowerCost()
}
