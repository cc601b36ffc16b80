package duel

import (
	"fmt"

	"github.com/fdumontet/ringside/internal/game/character"
	"github.com/fdumontet/ringside/internal/game/dice"
	"github.com/fdumontet/ringside/internal/game/skill"
)

// ActionKind identifies a combat action request.
type ActionKind int

const (
	ActionBasicAttack ActionKind = iota
	ActionUseSkill
	ActionDefend
	ActionBloodlust
	ActionForfeit
)

// Action is one combat action request. SkillName is read only for
// ActionUseSkill.
type Action struct {
	Kind      ActionKind
	SkillName string
}

// Outcome is the result of one accepted action: the event log and, when
// the duel ended, the winner. The caller removes finished sessions from
// the registry and runs the post-combat experience flow.
type Outcome struct {
	Events   []Event
	Finished bool
	WinnerID int64
}

const (
	// erraticChance is the percent chance a bloodlust character replaces
	// its requested basic attack with a random action.
	erraticChance = 30
	// leechChance is the percent chance a damaging action in bloodlust
	// also heals the attacker.
	leechChance = 30
)

// Act validates and resolves one action for playerID. Validation failures
// return a typed error with no state mutated. Randomness for the bloodlust
// behavioral modifiers comes from src.
//
// Precondition: the caller holds the session lock.
// Postcondition: on success the turn has advanced, the duel has finished,
// or (bloodlust entry) the actor keeps the turn.
func (s *Session) Act(playerID int64, act Action, src dice.Source) (*Outcome, error) {
	actor := s.Participant(playerID)
	if actor == nil {
		return nil, ErrNotParticipant
	}
	if !s.Started {
		return nil, ErrNotStarted
	}
	if s.Finished {
		return nil, ErrSessionFinished
	}
	if act.Kind == ActionForfeit {
		return s.forfeit(actor), nil
	}
	if s.CurrentTurn != playerID {
		return nil, ErrNotYourTurn
	}

	opponent := s.Opponent(playerID)

	// A pending restrictive-skill skip consumes this turn before any
	// action resolves.
	if act.Kind != ActionBloodlust && actor.Character.Combat.SkipNextTurn {
		actor.Character.Combat.SkipNextTurn = false
		ev := newEvent(EventSkipTurn)
		ev.Actor = actor.ID
		return s.finish(actor, opponent, []Event{ev}, false), nil
	}

	switch act.Kind {
	case ActionBasicAttack:
		return s.basicAttack(actor, opponent, src), nil
	case ActionUseSkill:
		return s.skillRequest(actor, opponent, act.SkillName, src)
	case ActionDefend:
		return s.defend(actor, opponent)
	case ActionBloodlust:
		return s.enterBloodlust(actor, opponent)
	default:
		return nil, fmt.Errorf("unknown action kind %d", act.Kind)
	}
}

// basicAttack resolves a requested basic attack, applying the bloodlust
// erratic substitution first.
func (s *Session) basicAttack(actor, opponent *Participant, src dice.Source) *Outcome {
	if actor.Character.Combat.BloodlustTurns > 0 && dice.Chance(src, erraticChance) {
		ev := newEvent(EventErratic)
		ev.Actor = actor.ID
		events := []Event{ev}

		// The erratic defend obeys the same cooldown gate as a requested
		// defend; on cooldown the pick degrades to the skill/attack path.
		if dice.Pick(src, 2) == 0 && actor.Character.Combat.DefenseCooldown == 0 {
			actor.Character.Combat.Defending = true
			dev := newEvent(EventDefend)
			dev.Actor = actor.ID
			events = append(events, dev)
			return s.finish(actor, opponent, events, false)
		}

		var usable []*skill.Skill
		for _, sk := range actor.Character.Skills {
			if sk.Usable(actor.Character.PowerGauge) {
				usable = append(usable, sk)
			}
		}
		if len(usable) > 0 {
			sk := usable[dice.Pick(src, len(usable))]
			return s.skillAction(actor, opponent, sk, src, events)
		}
		return s.attackAction(actor, opponent, src, events)
	}

	return s.attackAction(actor, opponent, src, nil)
}

// attackAction deals basic-attack damage, with the bloodlust leech heal.
func (s *Session) attackAction(actor, opponent *Participant, src dice.Source, events []Event) *Outcome {
	damage := CalculateDamage(actor.Character, opponent.Character, false, 0)
	events = append(events, s.applyDamage(actor, opponent, damage, src, EventAttack, "")...)
	return s.finish(actor, opponent, events, true)
}

// skillRequest validates the named skill before resolving it.
func (s *Session) skillRequest(actor, opponent *Participant, name string, src dice.Source) (*Outcome, error) {
	sk := actor.Character.SkillByName(name)
	if sk == nil {
		return nil, ErrUnknownSkill
	}
	if sk.Cooldown > 0 {
		return nil, ErrSkillOnCooldown
	}
	if actor.Character.PowerGauge < sk.Category.PowerCost() {
		return nil, ErrInsufficientPower
	}
	return s.skillAction(actor, opponent, sk, src, nil), nil
}

// skillAction resolves a validated (or erratically chosen) skill use.
func (s *Session) skillAction(actor, opponent *Participant, sk *skill.Skill, src dice.Source, events []Event) *Outcome {
	UseSkill(actor.Character, sk, opponent.Character)

	ev := newEvent(EventSkill)
	ev.Actor = actor.ID
	ev.Target = opponent.ID
	ev.Skill = sk.Name
	events = append(events, ev)

	if sk.Category.DealsDamage() {
		damage := CalculateDamage(actor.Character, opponent.Character, true, sk.Category)
		events = append(events, s.applyDamage(actor, opponent, damage, src, EventAttack, sk.Name)...)
	}

	return s.finish(actor, opponent, events, true)
}

// applyDamage applies one damage roll plus the independent bloodlust leech
// heal, and records the attacker's damage total.
func (s *Session) applyDamage(actor, opponent *Participant, damage int, src dice.Source, evType EventType, skillName string) []Event {
	heal := 0
	if actor.Character.Combat.BloodlustTurns > 0 && dice.Chance(src, leechChance) {
		heal = int(float64(damage) * 0.25)
		actor.Character.Heal(heal)
	}
	opponent.Character.ApplyDamage(damage)
	actor.DamageDealt += damage

	ev := newEvent(evType)
	ev.Actor = actor.ID
	ev.Target = opponent.ID
	ev.Damage = damage
	ev.Skill = skillName
	events := []Event{ev}
	if heal > 0 {
		lev := newEvent(EventLeech)
		lev.Actor = actor.ID
		lev.Heal = heal
		events = append(events, lev)
	}
	return events
}

// defend puts the actor in the defending stance for one incoming attack.
func (s *Session) defend(actor, opponent *Participant) (*Outcome, error) {
	if actor.Character.Combat.DefenseCooldown > 0 {
		return nil, ErrDefenseOnCooldown
	}
	actor.Character.Combat.Defending = true
	ev := newEvent(EventDefend)
	ev.Actor = actor.ID
	return s.finish(actor, opponent, []Event{ev}, false), nil
}

// enterBloodlust starts the 8-turn bloodlust state. Entering with an empty
// gauge against a DrainPower objective is itself the losing condition and
// ends the duel before any mutation. A successful entry does not consume
// the turn.
func (s *Session) enterBloodlust(actor, opponent *Participant) (*Outcome, error) {
	if actor.Character.PowerGauge > 0 {
		return nil, ErrGaugeNotEmpty
	}
	if actor.Character.Combat.BloodlustTurns > 0 {
		return nil, ErrAlreadyBloodlust
	}

	if opponent.Objective == DrainPower {
		s.Finished = true
		ev := newEvent(EventVictory)
		ev.Winner = opponent.ID
		return &Outcome{Events: []Event{ev}, Finished: true, WinnerID: opponent.ID}, nil
	}

	actor.Character.Combat.BloodlustTurns = 8
	actor.Character.PowerGauge = character.FullGauge
	actor.Character.Combat.WasInBloodlust = true

	ev := newEvent(EventBloodlust)
	ev.Actor = actor.ID
	return &Outcome{Events: []Event{ev}}, nil
}

// forfeit ends the duel immediately with the opponent as winner.
func (s *Session) forfeit(actor *Participant) *Outcome {
	s.Finished = true
	opponent := s.Opponent(actor.ID)
	fev := newEvent(EventForfeit)
	fev.Actor = actor.ID
	vev := newEvent(EventVictory)
	vev.Winner = opponent.ID
	return &Outcome{Events: []Event{fev, vev}, Finished: true, WinnerID: opponent.ID}
}

// finish closes out one action. Victory is evaluated only after
// damage-dealing or resource-depleting actions (checkVictory); when the
// duel continues, end-of-turn decay runs and the turn passes to the
// opponent.
func (s *Session) finish(actor, opponent *Participant, events []Event, checkVictory bool) *Outcome {
	if checkVictory {
		if winner, ok := s.EvaluateVictory(); ok {
			s.Finished = true
			ev := newEvent(EventVictory)
			ev.Winner = winner
			return &Outcome{Events: append(events, ev), Finished: true, WinnerID: winner}
		}
	}

	ProcessTurnEnd(actor.Character)
	s.CurrentTurn = opponent.ID
	s.TurnCount++

	ev := newEvent(EventTurnEnd)
	ev.Actor = actor.ID
	return &Outcome{Events: append(events, ev)}
}
