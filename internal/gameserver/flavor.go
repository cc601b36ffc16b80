package gameserver

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fdumontet/ringside/internal/game/dice"
	"github.com/fdumontet/ringside/internal/game/duel"
)

// FlavorSet holds the narrative lines attached to combat events. Each list
// is sampled uniformly; an empty list falls back to the built-in defaults.
type FlavorSet struct {
	Attack    []string `yaml:"attack"`
	Skill     []string `yaml:"skill"`
	Defend    []string `yaml:"defend"`
	SkipTurn  []string `yaml:"skip_turn"`
	Erratic   []string `yaml:"erratic"`
	Leech     []string `yaml:"leech"`
	Bloodlust []string `yaml:"bloodlust"`
	Forfeit   []string `yaml:"forfeit"`
	Victory   []string `yaml:"victory"`
}

// DefaultFlavor returns the built-in narrative catalog.
func DefaultFlavor() *FlavorSet {
	return &FlavorSet{
		Attack: []string{
			"The blow lands with a dull crack.",
			"A vicious strike slips through the guard.",
			"The exchange ends in a spray of sweat and grit.",
		},
		Skill: []string{
			"Power crackles as the technique unfolds.",
			"A practiced form, executed without hesitation.",
		},
		Defend: []string{
			"A tight guard goes up, braced for the worst.",
			"Feet planted, arms raised, nothing gets through cheap.",
		},
		SkipTurn: []string{
			"Bound and straining, the turn slips away.",
		},
		Erratic: []string{
			"Reason gives way; the body moves on its own.",
		},
		Leech: []string{
			"Stolen vigor knits the wounds closed.",
		},
		Bloodlust: []string{
			"A red haze descends. There is no going back.",
		},
		Forfeit: []string{
			"The towel hits the canvas.",
		},
		Victory: []string{
			"The dust settles on a decided ring.",
		},
	}
}

// LoadFlavor reads a FlavorSet from a YAML file, filling any list the file
// leaves empty from the defaults.
//
// Precondition: path must be a readable YAML file.
// Postcondition: Returns a FlavorSet with no empty list, or an error.
func LoadFlavor(path string) (*FlavorSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading flavor file %q: %w", path, err)
	}
	var fs FlavorSet
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fs); err != nil {
		return nil, fmt.Errorf("parsing flavor file %q: %w", path, err)
	}
	fs.fillDefaults()
	return &fs, nil
}

func (f *FlavorSet) fillDefaults() {
	def := DefaultFlavor()
	fill := func(dst *[]string, src []string) {
		if len(*dst) == 0 {
			*dst = src
		}
	}
	fill(&f.Attack, def.Attack)
	fill(&f.Skill, def.Skill)
	fill(&f.Defend, def.Defend)
	fill(&f.SkipTurn, def.SkipTurn)
	fill(&f.Erratic, def.Erratic)
	fill(&f.Leech, def.Leech)
	fill(&f.Bloodlust, def.Bloodlust)
	fill(&f.Forfeit, def.Forfeit)
	fill(&f.Victory, def.Victory)
}

// lines returns the list for one event type.
func (f *FlavorSet) lines(t duel.EventType) []string {
	switch t {
	case duel.EventAttack:
		return f.Attack
	case duel.EventSkill:
		return f.Skill
	case duel.EventDefend:
		return f.Defend
	case duel.EventSkipTurn:
		return f.SkipTurn
	case duel.EventErratic:
		return f.Erratic
	case duel.EventLeech:
		return f.Leech
	case duel.EventBloodlust:
		return f.Bloodlust
	case duel.EventForfeit:
		return f.Forfeit
	case duel.EventVictory:
		return f.Victory
	default:
		return nil
	}
}

// Line picks one narrative line for the event type via src. Returns ""
// when no lines exist for the type.
func (f *FlavorSet) Line(t duel.EventType, src dice.Source) string {
	ls := f.lines(t)
	if len(ls) == 0 {
		return ""
	}
	return ls[dice.Pick(src, len(ls))]
}

// Decorate attaches a narrative line to every event that has one.
func (f *FlavorSet) Decorate(events []duel.Event, src dice.Source) {
	for i := range events {
		if line := f.Line(events[i].Type, src); line != "" {
			events[i].Narrative = line
		}
	}
}
