package duel

import (
	"fmt"
	"strings"
)

// TieBreakChoice is a rock-paper-scissors pick used to decide who acts
// first.
type TieBreakChoice int

const (
	Rock TieBreakChoice = iota
	Paper
	Scissors
)

// tieBreakBeats maps each choice to the one it defeats.
var tieBreakBeats = map[TieBreakChoice]TieBreakChoice{
	Rock:     Scissors,
	Paper:    Rock,
	Scissors: Paper,
}

// String returns a human-readable choice label.
func (c TieBreakChoice) String() string {
	switch c {
	case Rock:
		return "rock"
	case Paper:
		return "paper"
	case Scissors:
		return "scissors"
	default:
		return "unknown"
	}
}

// ParseTieBreakChoice accepts the labels produced by String.
func ParseTieBreakChoice(s string) (TieBreakChoice, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rock":
		return Rock, nil
	case "paper":
		return Paper, nil
	case "scissors":
		return Scissors, nil
	default:
		return 0, fmt.Errorf("unknown tie-break choice %q", s)
	}
}

// TieBreakResult reports the outcome of a tie-break submission.
type TieBreakResult struct {
	// Resolved is true when the duel has started; First is then the id of
	// the player acting first.
	Resolved bool
	First    int64
	// Draw is true when both picks matched. Both picks are discarded and
	// must be re-submitted.
	Draw bool
}

// SubmitTieBreak records playerID's pick. When both players have picked it
// resolves: a win starts the duel on turn 1 with the winner acting first; a
// draw discards both picks so both players pick again.
//
// Precondition: both characters and objectives must be set (Ready).
// Postcondition: on a resolving win, Started is true and TurnCount == 1.
func (s *Session) SubmitTieBreak(playerID int64, c TieBreakChoice) (TieBreakResult, error) {
	p := s.Participant(playerID)
	if p == nil {
		return TieBreakResult{}, ErrNotParticipant
	}
	if s.Started {
		return TieBreakResult{}, ErrAlreadyStarted
	}
	if !s.Ready() {
		return TieBreakResult{}, ErrNotReady
	}

	p.tieBreak = c
	p.tieBreakSet = true

	if !s.Player1.tieBreakSet || !s.Player2.tieBreakSet {
		return TieBreakResult{}, nil
	}

	c1, c2 := s.Player1.tieBreak, s.Player2.tieBreak
	s.Player1.tieBreakSet = false
	s.Player2.tieBreakSet = false

	if c1 == c2 {
		return TieBreakResult{Draw: true}, nil
	}

	first := s.Player2.ID
	if tieBreakBeats[c1] == c2 {
		first = s.Player1.ID
	}
	s.CurrentTurn = first
	s.TurnCount = 1
	s.Started = true
	return TieBreakResult{Resolved: true, First: first}, nil
}
