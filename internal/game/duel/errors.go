package duel

import "errors"

// Validation errors. None of these leave any state mutated.
var (
	// ErrNoSession is returned when no session exists for a channel key.
	ErrNoSession = errors.New("no session for channel")
	// ErrSessionExists is returned when a session is already bound to a
	// channel key.
	ErrSessionExists = errors.New("session already active for channel")
	// ErrNotParticipant is returned when the acting player is not one of
	// the session's two players.
	ErrNotParticipant = errors.New("not a participant in this session")
	// ErrNotStarted is returned for combat actions before the tie-break
	// has resolved.
	ErrNotStarted = errors.New("session not started")
	// ErrSessionFinished is returned for any action after the duel has
	// resolved a winner.
	ErrSessionFinished = errors.New("session already finished")
	// ErrNotYourTurn is returned for combat actions by the off-turn player.
	ErrNotYourTurn = errors.New("not your turn")
	// ErrNotReady is returned when the tie-break is submitted before both
	// characters and both objectives are set.
	ErrNotReady = errors.New("session not ready")
	// ErrAlreadyStarted is returned for setup operations after the
	// tie-break has resolved.
	ErrAlreadyStarted = errors.New("session already started")
	// ErrCharacterAlreadyBound is returned when a player binds a second
	// character to the same session.
	ErrCharacterAlreadyBound = errors.New("character already bound")
	// ErrObjectiveAlreadySet is returned when a player changes a
	// committed objective.
	ErrObjectiveAlreadySet = errors.New("objective already set")
	// ErrUnknownSkill is returned when the named skill is not learned.
	ErrUnknownSkill = errors.New("unknown skill")
	// ErrSkillOnCooldown is returned when the named skill is cooling down.
	ErrSkillOnCooldown = errors.New("skill on cooldown")
	// ErrInsufficientPower is returned when the power gauge cannot cover
	// the skill's cost.
	ErrInsufficientPower = errors.New("insufficient power gauge")
	// ErrDefenseOnCooldown is returned when defending while the defense
	// cooldown runs.
	ErrDefenseOnCooldown = errors.New("defense on cooldown")
	// ErrGaugeNotEmpty is returned when entering bloodlust with power left.
	ErrGaugeNotEmpty = errors.New("power gauge not empty")
	// ErrAlreadyBloodlust is returned when entering bloodlust twice.
	ErrAlreadyBloodlust = errors.New("already in bloodlust")
)
