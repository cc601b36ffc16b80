package duel

import "github.com/google/uuid"

// EventType identifies what a combat event describes.
type EventType int

const (
	EventAttack EventType = iota
	EventSkill
	EventDefend
	EventSkipTurn
	EventErratic
	EventLeech
	EventBloodlust
	EventTurnEnd
	EventForfeit
	EventVictory
)

// String returns a stable label for logs and renderers.
func (t EventType) String() string {
	switch t {
	case EventAttack:
		return "attack"
	case EventSkill:
		return "skill"
	case EventDefend:
		return "defend"
	case EventSkipTurn:
		return "skip_turn"
	case EventErratic:
		return "erratic"
	case EventLeech:
		return "leech"
	case EventBloodlust:
		return "bloodlust"
	case EventTurnEnd:
		return "turn_end"
	case EventForfeit:
		return "forfeit"
	case EventVictory:
		return "victory"
	default:
		return "unknown"
	}
}

// Event is one renderable entry in a duel's event log. The engine fills the
// structured fields; presentation layers attach narrative text.
type Event struct {
	ID     uuid.UUID
	Type   EventType
	Actor  int64
	Target int64
	Skill  string
	Damage int
	Heal   int
	Winner int64
	// Narrative is free text attached by the presentation layer. The
	// engine never reads it.
	Narrative string
}

func newEvent(t EventType) Event {
	return Event{ID: uuid.New(), Type: t}
}
