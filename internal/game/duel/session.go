// Package duel implements the two-player duel engine: the session state
// machine, the damage and resource rules, victory evaluation, and the
// post-combat experience formula.
package duel

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/fdumontet/ringside/internal/game/character"
)

// Objective is a player's committed victory condition.
type Objective int

const (
	// KO wins when the opponent's HP reaches 0.
	KO Objective = iota
	// DrainPower wins when the opponent's power gauge reaches 0.
	DrainPower
	// ConsumeBloodlust wins when the opponent fully exits a bloodlust
	// cycle (bloodlust and weakened both back to 0 after having entered).
	ConsumeBloodlust
)

// String returns a human-readable objective label.
func (o Objective) String() string {
	switch o {
	case KO:
		return "ko"
	case DrainPower:
		return "drain-power"
	case ConsumeBloodlust:
		return "consume-bloodlust"
	default:
		return "unknown"
	}
}

// ParseObjective converts a stored objective label back to an Objective.
func ParseObjective(s string) (Objective, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ko":
		return KO, nil
	case "drain-power":
		return DrainPower, nil
	case "consume-bloodlust":
		return ConsumeBloodlust, nil
	default:
		return 0, fmt.Errorf("unknown objective %q", s)
	}
}

// Participant is one player's side of a session: identity, bound character,
// committed objective, pending tie-break pick, and running damage total.
type Participant struct {
	ID        int64
	Character *character.Character
	Objective Objective
	// DamageDealt accumulates damage inflicted on the opponent, used by
	// the experience formula at the end of the duel.
	DamageDealt int

	objectiveSet bool
	tieBreak     TieBreakChoice
	tieBreakSet  bool
}

// Session holds the live state of one duel. The session borrows the two
// characters for its lifetime; persistence stays with the caller.
//
// Invariant: at most one Session exists per channel key (enforced by
// Engine). Callers serialize access through Lock/Unlock.
type Session struct {
	mu sync.Mutex

	ID         uuid.UUID
	ChannelKey string
	Player1    *Participant
	Player2    *Participant

	// CurrentTurn is the id of the player whose action is expected.
	// Meaningless until Started.
	CurrentTurn int64
	// TurnCount starts at 1 when the tie-break resolves.
	TurnCount int
	Started   bool
	// Finished latches once a winner is resolved. A finished session
	// accepts no further actions even if a caller still holds it.
	Finished bool
}

// NewSession creates an empty session for the two players on channelKey.
//
// Precondition: p1 != p2; channelKey non-empty.
func NewSession(channelKey string, p1, p2 int64) *Session {
	return &Session{
		ID:         uuid.New(),
		ChannelKey: channelKey,
		Player1:    &Participant{ID: p1},
		Player2:    &Participant{ID: p2},
	}
}

// Lock serializes access to the session. Engine entry points hold it for
// the duration of one operation.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// Participant returns the side belonging to playerID, or nil.
func (s *Session) Participant(playerID int64) *Participant {
	switch playerID {
	case s.Player1.ID:
		return s.Player1
	case s.Player2.ID:
		return s.Player2
	default:
		return nil
	}
}

// Opponent returns the side opposing playerID, or nil if playerID is not a
// participant.
func (s *Session) Opponent(playerID int64) *Participant {
	switch playerID {
	case s.Player1.ID:
		return s.Player2
	case s.Player2.ID:
		return s.Player1
	default:
		return nil
	}
}

// BindCharacter attaches ch to playerID's side and resets its transient
// combat state so nothing leaks from an earlier duel.
//
// Postcondition: on success the character has full vitals and identity
// combat modifiers.
func (s *Session) BindCharacter(playerID int64, ch *character.Character) error {
	p := s.Participant(playerID)
	if p == nil {
		return ErrNotParticipant
	}
	if s.Started {
		return ErrAlreadyStarted
	}
	if p.Character != nil {
		return ErrCharacterAlreadyBound
	}
	ch.ResetForCombat()
	p.Character = ch
	return nil
}

// SetObjective commits playerID's victory condition. Objectives are set
// once and immutable afterwards.
func (s *Session) SetObjective(playerID int64, o Objective) error {
	p := s.Participant(playerID)
	if p == nil {
		return ErrNotParticipant
	}
	if s.Started {
		return ErrAlreadyStarted
	}
	if p.objectiveSet {
		return ErrObjectiveAlreadySet
	}
	p.Objective = o
	p.objectiveSet = true
	return nil
}

// Ready reports whether both characters and both objectives are set, which
// gates the tie-break.
func (s *Session) Ready() bool {
	return s.Player1.Character != nil && s.Player2.Character != nil &&
		s.Player1.objectiveSet && s.Player2.objectiveSet
}
