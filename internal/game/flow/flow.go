// Package flow models the interactive multi-step dialogs (character
// creation, skill learning, deletion confirmation) as suspended workflows:
// a per-player pending record with a current step, draft data, and a
// deadline, instead of blocking control flow. Both synchronous tests and
// asynchronous chat transports can drive it.
package flow

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fdumontet/ringside/internal/game/character"
	"github.com/fdumontet/ringside/internal/game/dice"
	"github.com/fdumontet/ringside/internal/game/skill"
)

// Kind identifies which dialog a pending flow belongs to.
type Kind int

const (
	KindCreateCharacter Kind = iota
	KindAddSkill
	KindDeleteCharacter
)

// Step identifies the input a pending flow is waiting for.
type Step int

const (
	StepName Step = iota
	StepTalent
	StepSkillName
	StepSkillEffect
	StepSkillCategory
	StepConfirm
)

// initialSkillCount is how many skills character creation collects.
const initialSkillCount = 2

var (
	// ErrFlowInProgress is returned by Begin calls while the player
	// already has a pending flow.
	ErrFlowInProgress = fmt.Errorf("flow already in progress")
	// ErrNoFlow is returned by Advance/Cancel when nothing is pending.
	ErrNoFlow = fmt.Errorf("no flow in progress")
	// ErrFlowExpired is returned when the deadline has passed; the flow
	// is abandoned wholesale with no partial state persisted.
	ErrFlowExpired = fmt.Errorf("flow expired")
	// ErrInvalidInput wraps step-input validation failures. The flow
	// stays on the same step.
	ErrInvalidInput = fmt.Errorf("invalid input")
)

// Pending is one player's suspended dialog.
type Pending struct {
	OwnerID  int64
	Kind     Kind
	Step     Step
	Deadline time.Time

	// Create-character draft.
	draftName   string
	draftTalent character.Talent
	skills      []*skill.Skill

	// In-progress skill draft, shared by both kinds.
	skillName   string
	skillEffect string

	// Target is the character receiving a new skill (KindAddSkill only).
	Target *character.Character

	// timeout extends the deadline on each accepted input; timer fires
	// the expiry notification at the deadline.
	timeout time.Duration
	timer   *StepTimer
}

// Advanced is the result of one accepted input.
type Advanced struct {
	// Done reports the flow completed and was removed.
	Done bool
	// Next is the step now awaited (meaningful while !Done).
	Next Step
	// Character is the finished draft for KindCreateCharacter.
	Character *character.Character
	// Skill is the finished draft for KindAddSkill, and Target the
	// character it was drafted for. Applying it stays with the caller.
	Skill  *skill.Skill
	Target *character.Character
	// Confirmed and Name report the outcome of KindDeleteCharacter:
	// whether the player stood by deleting the character called Name.
	Confirmed bool
	Name      string
}

// Manager owns all pending flows, keyed by player id. Safe for concurrent
// use. Completed drafts are returned to the caller; persistence stays
// outside.
type Manager struct {
	mu             sync.Mutex
	pending        map[int64]*Pending
	choiceTimeout  time.Duration
	confirmTimeout time.Duration
	src            dice.Source
	now            func() time.Time
	onExpire       func(ownerID int64)
}

// NewManager creates a Manager. Dialog steps expire after choiceTimeout,
// deletion confirmations after confirmTimeout. Random draft choices
// (unspecified talent) draw from src.
//
// Precondition: both timeouts > 0; src must be non-nil.
func NewManager(choiceTimeout, confirmTimeout time.Duration, src dice.Source) *Manager {
	return &Manager{
		pending:        make(map[int64]*Pending),
		choiceTimeout:  choiceTimeout,
		confirmTimeout: confirmTimeout,
		src:            src,
		now:            time.Now,
	}
}

// Notify registers fn to be called, outside the manager lock, when a flow
// hits its deadline and is abandoned. At most one callback is kept.
func (m *Manager) Notify(fn func(ownerID int64)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onExpire = fn
}

// BeginCreateCharacter starts the character-creation dialog for ownerID.
//
// Postcondition: Returns ErrFlowInProgress if the player already has a
// pending flow of any kind.
func (m *Manager) BeginCreateCharacter(ownerID int64) (*Pending, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.pending[ownerID]; exists {
		return nil, ErrFlowInProgress
	}
	p := &Pending{
		OwnerID: ownerID,
		Kind:    KindCreateCharacter,
		Step:    StepName,
		timeout: m.choiceTimeout,
	}
	m.arm(p)
	return p, nil
}

// BeginAddSkill starts the skill-learning dialog for ownerID's character.
// The slot gate is checked up front so a full character is refused before
// any input is collected.
func (m *Manager) BeginAddSkill(ownerID int64, target *character.Character) (*Pending, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.pending[ownerID]; exists {
		return nil, ErrFlowInProgress
	}
	if len(target.Skills) >= target.SkillSlots() {
		return nil, character.ErrSkillSlotsFull
	}
	p := &Pending{
		OwnerID: ownerID,
		Kind:    KindAddSkill,
		Step:    StepSkillName,
		Target:  target,
		timeout: m.choiceTimeout,
	}
	m.arm(p)
	return p, nil
}

// BeginDeleteCharacter starts the delete confirmation for ownerID's
// character called name. The shorter confirmation timeout applies;
// whether the character exists stays with the caller.
func (m *Manager) BeginDeleteCharacter(ownerID int64, name string) (*Pending, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.pending[ownerID]; exists {
		return nil, ErrFlowInProgress
	}
	p := &Pending{
		OwnerID:   ownerID,
		Kind:      KindDeleteCharacter,
		Step:      StepConfirm,
		draftName: name,
		timeout:   m.confirmTimeout,
	}
	m.arm(p)
	return p, nil
}

// arm sets the deadline, starts the expiry timer, and registers the flow.
// Caller holds the manager lock.
func (m *Manager) arm(p *Pending) {
	p.Deadline = m.now().Add(p.timeout)
	p.timer = NewStepTimer(p.timeout, func() { m.expire(p.OwnerID) })
	m.pending[p.OwnerID] = p
}

// expire abandons ownerID's flow once its deadline has genuinely passed
// and reports it through the registered callback. A timer that fires just
// as the flow advances or completes finds a fresh deadline, or nothing,
// and leaves it alone.
func (m *Manager) expire(ownerID int64) {
	m.mu.Lock()
	p, ok := m.pending[ownerID]
	if !ok || m.now().Before(p.Deadline) {
		m.mu.Unlock()
		return
	}
	p.timer.Stop()
	delete(m.pending, ownerID)
	fn := m.onExpire
	m.mu.Unlock()

	if fn != nil {
		fn(ownerID)
	}
}

// Advance feeds one input to ownerID's pending flow. Invalid input leaves
// the flow on the same step; a passed deadline abandons it entirely.
//
// Postcondition: each accepted input pushes the deadline out by the
// flow's timeout.
func (m *Manager) Advance(ownerID int64, input string) (Advanced, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.pending[ownerID]
	if !ok {
		return Advanced{}, ErrNoFlow
	}
	if m.now().After(p.Deadline) {
		p.timer.Stop()
		delete(m.pending, ownerID)
		return Advanced{}, ErrFlowExpired
	}

	adv, err := m.step(p, strings.TrimSpace(input))
	if err != nil {
		return Advanced{}, err
	}
	if adv.Done {
		p.timer.Stop()
		delete(m.pending, ownerID)
	} else {
		p.Deadline = m.now().Add(p.timeout)
		p.timer.Reset(p.timeout, func() { m.expire(p.OwnerID) })
	}
	return adv, nil
}

// Cancel abandons ownerID's pending flow, if any.
func (m *Manager) Cancel(ownerID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.pending[ownerID]
	if !ok {
		return ErrNoFlow
	}
	p.timer.Stop()
	delete(m.pending, ownerID)
	return nil
}

// Get returns ownerID's pending flow.
func (m *Manager) Get(ownerID int64) (*Pending, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pending[ownerID]
	return p, ok
}

// Expire removes every flow whose deadline has passed as of now and
// returns the affected player ids, so callers can notify them. No partial
// state survives.
func (m *Manager) Expire(now time.Time) []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	var expired []int64
	for id, p := range m.pending {
		if now.After(p.Deadline) {
			p.timer.Stop()
			delete(m.pending, id)
			expired = append(expired, id)
		}
	}
	return expired
}

// step applies one input to the pending draft.
func (m *Manager) step(p *Pending, input string) (Advanced, error) {
	switch p.Step {
	case StepName:
		if input == "" {
			return Advanced{}, fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
		}
		p.draftName = input
		p.Step = StepTalent
		return Advanced{Next: p.Step}, nil

	case StepTalent:
		if input == "" || strings.EqualFold(input, "random") {
			p.draftTalent = character.Talents[dice.Pick(m.src, len(character.Talents))]
		} else {
			talent, err := character.ParseTalent(input)
			if err != nil {
				return Advanced{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
			p.draftTalent = talent
		}
		p.Step = StepSkillName
		return Advanced{Next: p.Step}, nil

	case StepSkillName:
		if input == "" {
			return Advanced{}, fmt.Errorf("%w: skill name must not be empty", ErrInvalidInput)
		}
		p.skillName = input
		p.Step = StepSkillEffect
		return Advanced{Next: p.Step}, nil

	case StepSkillEffect:
		p.skillEffect = input
		p.Step = StepSkillCategory
		return Advanced{Next: p.Step}, nil

	case StepSkillCategory:
		cat, err := skill.ParseCategory(input)
		if err != nil {
			return Advanced{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		drafted := &skill.Skill{Name: p.skillName, Effect: p.skillEffect, Category: cat}

		if p.Kind == KindAddSkill {
			return Advanced{Done: true, Skill: drafted, Target: p.Target}, nil
		}

		p.skills = append(p.skills, drafted)
		if len(p.skills) < initialSkillCount {
			p.Step = StepSkillName
			return Advanced{Next: p.Step}, nil
		}
		ch := character.New(p.draftName, p.OwnerID, p.draftTalent)
		for _, sk := range p.skills {
			if err := ch.AddSkill(sk); err != nil {
				return Advanced{}, err
			}
		}
		return Advanced{Done: true, Character: ch}, nil

	case StepConfirm:
		switch strings.ToLower(input) {
		case "yes", "y":
			return Advanced{Done: true, Confirmed: true, Name: p.draftName}, nil
		case "no", "n":
			return Advanced{Done: true, Name: p.draftName}, nil
		default:
			return Advanced{}, fmt.Errorf("%w: answer yes or no", ErrInvalidInput)
		}

	default:
		return Advanced{}, fmt.Errorf("unknown flow step %d", p.Step)
	}
}
