// Package gameserver exposes the transport-agnostic entry points a chat
// adapter drives: challenges, duel setup, combat actions, and the
// post-combat settlement.
package gameserver

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fdumontet/ringside/internal/game/character"
	"github.com/fdumontet/ringside/internal/game/dice"
	"github.com/fdumontet/ringside/internal/game/duel"
)

// CharacterStore is the persistence surface the duel handler needs.
type CharacterStore interface {
	GetByNameAndOwner(ctx context.Context, name string, ownerID int64) (*character.Character, error)
	Update(ctx context.Context, ch *character.Character) error
}

// Award summarizes one participant's post-combat gains.
type Award struct {
	PlayerID   int64
	Experience int
	Level      int
	LeveledUp  bool
}

// Result is what a combat submission returns to the presentation layer:
// the decorated event log and, once the duel is over, the settlement.
type Result struct {
	Events   []duel.Event
	Finished bool
	WinnerID int64
	Awards   []Award
}

// DuelHandler wires the duel engine to persistence and narration. It is
// safe for concurrent use; per-session mutation is serialized by the
// session lock.
type DuelHandler struct {
	engine *duel.Engine
	store  CharacterStore
	src    dice.Source
	flavor *FlavorSet
	logger *zap.Logger
}

// NewDuelHandler creates a DuelHandler.
//
// Precondition: all arguments must be non-nil.
func NewDuelHandler(engine *duel.Engine, store CharacterStore, src dice.Source, flavor *FlavorSet, logger *zap.Logger) *DuelHandler {
	return &DuelHandler{
		engine: engine,
		store:  store,
		src:    src,
		flavor: flavor,
		logger: logger,
	}
}

// Challenge opens a new session between two players on channelKey.
//
// Postcondition: Returns duel.ErrSessionExists when the channel already
// hosts a live duel.
func (h *DuelHandler) Challenge(channelKey string, challenger, challenged int64) (*duel.Session, error) {
	s, err := h.engine.StartSession(channelKey, challenger, challenged)
	if err != nil {
		return nil, err
	}
	h.logger.Info("duel challenge opened",
		zap.String("channel", channelKey),
		zap.String("session", s.ID.String()),
		zap.Int64("challenger", challenger),
		zap.Int64("challenged", challenged),
	)
	return s, nil
}

// ChooseCharacter loads the player's character by name and binds it to the
// channel's session.
func (h *DuelHandler) ChooseCharacter(ctx context.Context, channelKey string, playerID int64, name string) error {
	s, err := h.engine.Get(channelKey)
	if err != nil {
		return err
	}
	ch, err := h.store.GetByNameAndOwner(ctx, name, playerID)
	if err != nil {
		return fmt.Errorf("loading character %q: %w", name, err)
	}

	s.Lock()
	defer s.Unlock()
	if err := s.BindCharacter(playerID, ch); err != nil {
		return err
	}
	h.logger.Info("character bound",
		zap.String("channel", channelKey),
		zap.Int64("player", playerID),
		zap.String("character", ch.Name),
	)
	return nil
}

// ChooseObjective commits the player's victory condition.
func (h *DuelHandler) ChooseObjective(channelKey string, playerID int64, o duel.Objective) error {
	s, err := h.engine.Get(channelKey)
	if err != nil {
		return err
	}
	s.Lock()
	defer s.Unlock()
	return s.SetObjective(playerID, o)
}

// SubmitTieBreak records a rock-paper-scissors pick and reports whether
// the duel has started.
func (h *DuelHandler) SubmitTieBreak(channelKey string, playerID int64, c duel.TieBreakChoice) (duel.TieBreakResult, error) {
	s, err := h.engine.Get(channelKey)
	if err != nil {
		return duel.TieBreakResult{}, err
	}
	s.Lock()
	defer s.Unlock()

	res, err := s.SubmitTieBreak(playerID, c)
	if err != nil {
		return duel.TieBreakResult{}, err
	}
	if res.Resolved {
		h.logger.Info("duel started",
			zap.String("channel", channelKey),
			zap.Int64("first", res.First),
		)
	}
	return res, nil
}

// Submit resolves one combat action. On a finishing action the duel is
// settled: experience and level-ups are applied to both sides, vitals are
// restored, both characters are written back, and the session is removed.
func (h *DuelHandler) Submit(ctx context.Context, channelKey string, playerID int64, act duel.Action) (*Result, error) {
	s, err := h.engine.Get(channelKey)
	if err != nil {
		return nil, err
	}
	s.Lock()
	defer s.Unlock()

	out, err := s.Act(playerID, act, h.src)
	if err != nil {
		return nil, err
	}
	h.flavor.Decorate(out.Events, h.src)

	res := &Result{Events: out.Events, Finished: out.Finished, WinnerID: out.WinnerID}
	if !out.Finished {
		return res, nil
	}

	awards, err := h.settle(ctx, s, out.WinnerID)
	if err != nil {
		return nil, err
	}
	res.Awards = awards
	return res, nil
}

// Forfeit abandons the duel, handing the win to the opponent.
func (h *DuelHandler) Forfeit(ctx context.Context, channelKey string, playerID int64) (*Result, error) {
	return h.Submit(ctx, channelKey, playerID, duel.Action{Kind: duel.ActionForfeit})
}

// settle applies the post-combat experience flow to both participants and
// removes the session from the live set.
//
// Precondition: the caller holds the session lock; winnerID is a
// participant.
func (h *DuelHandler) settle(ctx context.Context, s *duel.Session, winnerID int64) ([]Award, error) {
	winner := s.Participant(winnerID)
	loser := s.Opponent(winnerID)

	awards := []Award{
		h.award(winner, true),
		h.award(loser, false),
	}

	for _, p := range []*duel.Participant{winner, loser} {
		p.Character.ResetForCombat()
		if err := h.store.Update(ctx, p.Character); err != nil {
			return nil, fmt.Errorf("persisting character %q: %w", p.Character.Name, err)
		}
	}

	h.engine.End(s.ChannelKey)
	h.logger.Info("duel settled",
		zap.String("channel", s.ChannelKey),
		zap.String("session", s.ID.String()),
		zap.Int64("winner", winnerID),
	)
	return awards, nil
}

// award grants one participant its experience and applies level-ups.
func (h *DuelHandler) award(p *duel.Participant, victory bool) Award {
	ch := p.Character
	gained := duel.ExperienceGain(victory, p.DamageDealt, ch.HP, ch.PowerGauge)
	ch.Experience += gained

	before := ch.Level
	ch.LevelUp()

	h.logger.Info("experience awarded",
		zap.Int64("player", p.ID),
		zap.String("character", ch.Name),
		zap.Int("experience", gained),
		zap.Int("level", ch.Level),
		zap.Bool("victory", victory),
	)
	return Award{
		PlayerID:   p.ID,
		Experience: gained,
		Level:      ch.Level,
		LeveledUp:  ch.Level > before,
	}
}
