package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/hexfront/internal/game/board"
	"github.com/cory-johannsen/hexfront/internal/game/command"
	"github.com/cory-johannsen/hexfront/internal/game/match"
	"github.com/cory-johannsen/hexfront/internal/game/state"
)

const rejected = "That is not possible right now."

// Console runs an interactive match over a line-oriented reader and writer.
type Console struct {
	match    *match.Match
	registry *command.Registry
	in       io.Reader
	out      io.Writer
	view     *View
	logger   *zap.Logger
}

// New creates a Console for m and subscribes it to match updates.
//
// Precondition: m, in, out and logger must be non-nil.
// Postcondition: Every applied match operation prints the new event and
// battle log lines to out.
func New(m *match.Match, in io.Reader, out io.Writer, logger *zap.Logger) *Console {
	c := &Console{
		match:    m,
		registry: command.DefaultRegistry(),
		in:       in,
		out:      out,
		view:     NewView(),
		logger:   logger,
	}
	m.OnUpdate(c.onUpdate)
	return c
}

// View returns the console's presentation state.
func (c *Console) View() *View {
	return c.view
}

// Run reads commands until quit, end of input, or ctx is cancelled.
//
// Postcondition: Returns nil on quit or end of input, ctx.Err() on
// cancellation, or a wrapped read error.
func (c *Console) Run(ctx context.Context) error {
	c.write(Colorize(BrightWhite, "Hexfront. Type help for commands.") + "\r\n")
	c.write(RenderBoard(c.match.State(), c.view))
	c.write(RenderStatus(c.match.State()))

	scanner := bufio.NewScanner(c.in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.write(c.prompt())
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
			return nil
		}
		if c.Execute(scanner.Text()) {
			c.write(Colorize(Dim, "Goodbye.") + "\r\n")
			return nil
		}
	}
}

// Execute runs one command line.
//
// Postcondition: Returns true only for the quit command.
func (c *Console) Execute(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	parsed := command.Parse(line)
	cmd, ok := c.registry.Resolve(parsed.Command)
	if !ok {
		if matches := c.registry.Candidates(parsed.Command); len(matches) > 1 {
			names := make([]string, len(matches))
			for i, m := range matches {
				names[i] = m.Name
			}
			c.write(Colorf(Yellow, "%q could mean %s.", parsed.Command, strings.Join(names, " or ")) + "\r\n")
			return false
		}
		c.write(Colorf(Red, "Unknown command %q. Type help for a list.", parsed.Command) + "\r\n")
		return false
	}
	c.logger.Debug("command", zap.String("handler", cmd.Handler), zap.Strings("args", parsed.Args))

	st := c.match.State()
	switch cmd.Handler {
	case command.HandlerDraw:
		if c.report(c.match.DrawCards()) {
			c.write(RenderHand(st))
		}
	case command.HandlerSelect:
		idx, err := parsed.Index()
		if c.argError(err) {
			return false
		}
		if c.report(c.match.SelectCard(idx)) {
			c.write(RenderHand(st))
			c.write(RenderBoard(st, c.view))
		}
	case command.HandlerDeselect:
		if c.report(c.match.DeselectCard()) {
			c.write(RenderHand(st))
		}
	case command.HandlerPlace:
		c.withCoord(parsed, c.match.Place)
	case command.HandlerAuto:
		if c.report(c.match.AutoPlaceAll()) {
			c.write(RenderBoard(st, c.view))
			c.write(RenderStatus(st))
		}
	case command.HandlerEvent:
		if c.report(c.match.PlayEvent()) && st.Targeting.Pending() {
			c.write(Colorf(Magenta, "Choose a target: %s.", st.Targeting.Mode) + "\r\n")
			c.write(RenderBoard(st, c.view))
		}
	case command.HandlerTarget:
		c.withCoord(parsed, c.match.ApplyEventToTarget)
	case command.HandlerSkip:
		c.report(c.match.SkipEvent())
	case command.HandlerAttacker:
		c.withCoord(parsed, c.match.SelectAttacker)
	case command.HandlerAttack:
		c.withCoord(parsed, c.match.AttackTarget)
	case command.HandlerBattle:
		// The battle rewrites the battle log from the start.
		seen := c.view.battleSeen
		c.view.battleSeen = 0
		if !c.report(c.match.StartBattle()) {
			c.view.battleSeen = seen
			return false
		}
		c.write(RenderBoard(st, c.view))
	case command.HandlerContinue:
		if c.report(c.match.Continue()) {
			c.write(RenderScores(st))
		}
	case command.HandlerBoard:
		c.write(RenderBoard(st, c.view))
	case command.HandlerStatus:
		c.write(RenderStatus(st))
		c.write(RenderHand(st))
		c.write(RenderUnits(st))
		c.write(RenderLines(Dim, c.match.Narratives()))
	case command.HandlerLog:
		c.write(RenderLines(Magenta, st.EventLog))
		c.write(RenderLines(White, st.BattleLog))
	case command.HandlerHelp:
		c.write(RenderHelp(c.registry))
	case command.HandlerQuit:
		return true
	default:
		c.logger.Warn("command has no handler", zap.String("command", cmd.Name))
	}
	return false
}

// withCoord parses a coordinate argument and applies op to it, redrawing the
// board when op is applied.
func (c *Console) withCoord(parsed command.ParseResult, op func(board.Coord) bool) {
	at, err := parsed.Coord()
	if c.argError(err) {
		return
	}
	if c.report(op(at)) {
		c.write(RenderBoard(c.match.State(), c.view))
	}
}

func (c *Console) argError(err error) bool {
	if err == nil {
		return false
	}
	c.write(Colorize(Red, err.Error()) + "\r\n")
	return true
}

// report prints the rejection message when applied is false.
func (c *Console) report(applied bool) bool {
	if !applied {
		c.write(Colorize(Yellow, rejected) + "\r\n")
	}
	return applied
}

// onUpdate prints log lines added since the last update and refreshes the
// highlighted hexes.
func (c *Console) onUpdate(st *state.State) {
	if c.view.eventSeen > len(st.EventLog) {
		c.view.eventSeen = 0
	}
	if c.view.battleSeen > len(st.BattleLog) {
		c.view.battleSeen = 0
	}
	c.write(RenderLines(Magenta, st.EventLog[c.view.eventSeen:]))
	c.write(RenderLines(White, st.BattleLog[c.view.battleSeen:]))
	c.view.eventSeen = len(st.EventLog)
	c.view.battleSeen = len(st.BattleLog)

	switch {
	case st.Targeting.Pending():
		c.view.SetHighlight(c.match.EventTargets())
	case st.Selected != nil:
		c.view.SetHighlight(c.match.LegalHexes())
	default:
		c.view.SetHighlight(nil)
	}
}

func (c *Console) prompt() string {
	st := c.match.State()
	switch st.Phase {
	case state.PhasePlacement:
		return Colorf(FactionColor(st.Active), "[%s %d]> ", st.Active, st.Turn)
	default:
		return Colorf(BrightCyan, "[%s]> ", st.Phase)
	}
}

func (c *Console) write(s string) {
	if s == "" {
		return
	}
	if _, err := io.WriteString(c.out, s); err != nil {
		c.logger.Debug("console write failed", zap.Error(err))
	}
}
