package gameserver

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/fdumontet/ringside/internal/game/character"
	"github.com/fdumontet/ringside/internal/game/duel"
	"github.com/fdumontet/ringside/internal/game/flow"
)

// ConsoleStore extends CharacterStore with creation and deletion, so the
// console can persist the outcomes of its dialogs.
type ConsoleStore interface {
	CharacterStore
	Create(ctx context.Context, ch *character.Character) (*character.Character, error)
	Delete(ctx context.Context, name string, ownerID int64) error
}

// Console is a line-oriented development transport. Each input line is
// "<playerID> <verb> [args...]"; it drives the same DuelHandler and flow
// Manager a chat adapter would, which makes the whole stack testable from
// a terminal.
type Console struct {
	handler *DuelHandler
	flows   *flow.Manager
	store   ConsoleStore
	logger  *zap.Logger
	in      io.Reader
	out     io.Writer
	stopped atomic.Bool
}

// NewConsole creates a Console reading commands from in and writing
// responses to out.
//
// Precondition: all arguments must be non-nil.
func NewConsole(handler *DuelHandler, flows *flow.Manager, store ConsoleStore, logger *zap.Logger, in io.Reader, out io.Writer) *Console {
	return &Console{
		handler: handler,
		flows:   flows,
		store:   store,
		logger:  logger,
		in:      in,
		out:     out,
	}
}

// Run reads and dispatches command lines until the input is exhausted or
// Stop is called. Command errors are reported to the output stream, not
// returned.
func (c *Console) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(c.in)
	for scanner.Scan() {
		if c.stopped.Load() {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := c.dispatch(ctx, line); err != nil {
			fmt.Fprintf(c.out, "error: %v\n", err)
		}
	}
	return scanner.Err()
}

// Stop makes Run return after the line currently being processed.
func (c *Console) Stop() {
	c.stopped.Store(true)
}

func (c *Console) dispatch(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return fmt.Errorf("usage: <playerID> <verb> [args...]")
	}
	playerID, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return fmt.Errorf("player id %q: %w", fields[0], err)
	}
	verb, args := fields[1], fields[2:]

	switch verb {
	case "create":
		if _, err := c.flows.BeginCreateCharacter(playerID); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "name your character:")
		return nil

	case "learn":
		if len(args) < 1 {
			return fmt.Errorf("usage: learn <character>")
		}
		ch, err := c.store.GetByNameAndOwner(ctx, args[0], playerID)
		if err != nil {
			return err
		}
		if _, err := c.flows.BeginAddSkill(playerID, ch); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "name the new skill:")
		return nil

	case "delete":
		if len(args) < 1 {
			return fmt.Errorf("usage: delete <character>")
		}
		if _, err := c.store.GetByNameAndOwner(ctx, args[0], playerID); err != nil {
			return err
		}
		if _, err := c.flows.BeginDeleteCharacter(playerID, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "really delete %s? (yes/no)\n", args[0])
		return nil

	case "input":
		return c.advance(ctx, playerID, strings.Join(args, " "))

	case "cancel":
		if err := c.flows.Cancel(playerID); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "dialog cancelled")
		return nil

	case "duel":
		if len(args) < 2 {
			return fmt.Errorf("usage: duel <opponentID> <channel>")
		}
		opponent, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("opponent id %q: %w", args[0], err)
		}
		if _, err := c.handler.Challenge(args[1], playerID, opponent); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "duel opened on %s\n", args[1])
		return nil

	case "pick":
		if len(args) < 2 {
			return fmt.Errorf("usage: pick <channel> <character>")
		}
		if err := c.handler.ChooseCharacter(ctx, args[0], playerID, args[1]); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "%s steps into the ring\n", args[1])
		return nil

	case "objective":
		if len(args) < 2 {
			return fmt.Errorf("usage: objective <channel> <ko|drain-power|consume-bloodlust>")
		}
		o, err := duel.ParseObjective(args[1])
		if err != nil {
			return err
		}
		if err := c.handler.ChooseObjective(args[0], playerID, o); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "objective locked in")
		return nil

	case "tiebreak":
		if len(args) < 2 {
			return fmt.Errorf("usage: tiebreak <channel> <rock|paper|scissors>")
		}
		choice, err := duel.ParseTieBreakChoice(args[1])
		if err != nil {
			return err
		}
		res, err := c.handler.SubmitTieBreak(args[0], playerID, choice)
		if err != nil {
			return err
		}
		switch {
		case res.Draw:
			fmt.Fprintln(c.out, "draw, throw again")
		case res.Resolved:
			fmt.Fprintf(c.out, "player %d goes first\n", res.First)
		default:
			fmt.Fprintln(c.out, "waiting for the other pick")
		}
		return nil

	case "attack":
		return c.act(ctx, playerID, args, duel.Action{Kind: duel.ActionBasicAttack})

	case "skill":
		if len(args) < 2 {
			return fmt.Errorf("usage: skill <channel> <name...>")
		}
		return c.act(ctx, playerID, args[:1], duel.Action{
			Kind:      duel.ActionUseSkill,
			SkillName: strings.Join(args[1:], " "),
		})

	case "defend":
		return c.act(ctx, playerID, args, duel.Action{Kind: duel.ActionDefend})

	case "bloodlust":
		return c.act(ctx, playerID, args, duel.Action{Kind: duel.ActionBloodlust})

	case "forfeit":
		return c.act(ctx, playerID, args, duel.Action{Kind: duel.ActionForfeit})

	default:
		return fmt.Errorf("unknown verb %q", verb)
	}
}

// advance feeds one input to the player's pending dialog and persists the
// completed draft.
func (c *Console) advance(ctx context.Context, playerID int64, input string) error {
	adv, err := c.flows.Advance(playerID, input)
	if err != nil {
		return err
	}
	if !adv.Done {
		fmt.Fprintf(c.out, "next: %s\n", stepPrompt(adv.Next))
		return nil
	}

	switch {
	case adv.Character != nil:
		created, err := c.store.Create(ctx, adv.Character)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "%s is ready to fight (talent: %s)\n", created.Name, created.Talent)
	case adv.Skill != nil:
		if err := adv.Target.AddSkill(adv.Skill); err != nil {
			return err
		}
		if err := c.store.Update(ctx, adv.Target); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "%s learned %s\n", adv.Target.Name, adv.Skill.Name)
	case adv.Name != "":
		if !adv.Confirmed {
			fmt.Fprintln(c.out, "deletion cancelled")
			return nil
		}
		if err := c.store.Delete(ctx, adv.Name, playerID); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "%s retires for good\n", adv.Name)
	}
	return nil
}

func stepPrompt(s flow.Step) string {
	switch s {
	case flow.StepName:
		return "character name"
	case flow.StepTalent:
		return "talent (or 'random')"
	case flow.StepSkillName:
		return "skill name"
	case flow.StepSkillEffect:
		return "skill description"
	case flow.StepSkillCategory:
		return "skill category (attack, bonus, malus, restrictive)"
	case flow.StepConfirm:
		return "yes or no"
	default:
		return "input"
	}
}

// act submits one combat action and prints the narrated outcome.
func (c *Console) act(ctx context.Context, playerID int64, args []string, action duel.Action) error {
	if len(args) < 1 {
		return fmt.Errorf("missing channel")
	}
	res, err := c.handler.Submit(ctx, args[0], playerID, action)
	if err != nil {
		return err
	}
	for _, ev := range res.Events {
		if ev.Narrative != "" {
			fmt.Fprintln(c.out, ev.Narrative)
		}
		if ev.Damage > 0 {
			fmt.Fprintf(c.out, "  %d damage\n", ev.Damage)
		}
		if ev.Heal > 0 {
			fmt.Fprintf(c.out, "  %d health leeched\n", ev.Heal)
		}
	}
	if res.Finished {
		fmt.Fprintf(c.out, "duel over, player %d wins\n", res.WinnerID)
		for _, a := range res.Awards {
			fmt.Fprintf(c.out, "  player %d: +%d xp (level %d)\n", a.PlayerID, a.Experience, a.Level)
		}
	}
	return nil
}
