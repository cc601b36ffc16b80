package character

import (
	"fmt"
	"strings"
)

// Talent is the innate fighting style picked (or rolled) at creation. The
// five talents form a cyclic advantage ring used by the damage formula.
type Talent int

const (
	GodEyes Talent = iota
	SpeedGod
	Peerless
	Fortress
	Overpowered
)

// Talents lists every talent in ring order.
var Talents = []Talent{GodEyes, SpeedGod, Peerless, Fortress, Overpowered}

// beats maps each talent to the one it has the edge over. The ring is
// GodEyes > SpeedGod > Peerless > Fortress > Overpowered > GodEyes.
var beats = map[Talent]Talent{
	GodEyes:     SpeedGod,
	SpeedGod:    Peerless,
	Peerless:    Fortress,
	Fortress:    Overpowered,
	Overpowered: GodEyes,
}

// String returns a human-readable talent label.
func (t Talent) String() string {
	switch t {
	case GodEyes:
		return "god-eyes"
	case SpeedGod:
		return "speed-god"
	case Peerless:
		return "peerless"
	case Fortress:
		return "fortress"
	case Overpowered:
		return "overpowered"
	default:
		return "unknown"
	}
}

// ParseTalent converts a stored talent label back to a Talent.
//
// Postcondition: Returns an error for any label not produced by String.
func ParseTalent(s string) (Talent, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "god-eyes":
		return GodEyes, nil
	case "speed-god":
		return SpeedGod, nil
	case "peerless":
		return Peerless, nil
	case "fortress":
		return Fortress, nil
	case "overpowered":
		return Overpowered, nil
	default:
		return 0, fmt.Errorf("unknown talent %q", s)
	}
}

// Beats reports whether t holds the ring advantage over other.
func (t Talent) Beats(other Talent) bool {
	return beats[t] == other
}

// Advantage returns the damage multiplier t earns against opp: 1.1 with the
// ring advantage, 0.9 against it, 1.0 otherwise (including mirrors).
func (t Talent) Advantage(opp Talent) float64 {
	switch {
	case t.Beats(opp):
		return 1.1
	case opp.Beats(t):
		return 0.9
	default:
		return 1.0
	}
}
