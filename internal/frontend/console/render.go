package console

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cory-johannsen/hexfront/internal/game/board"
	"github.com/cory-johannsen/hexfront/internal/game/card"
	"github.com/cory-johannsen/hexfront/internal/game/command"
	"github.com/cory-johannsen/hexfront/internal/game/state"
)

// View is the presentation state of one console session.
type View struct {
	// Highlight marks hexes drawn with a highlighted background, such as
	// legal placements or event targets.
	Highlight map[board.Coord]bool
	// eventSeen and battleSeen count the log lines already printed.
	eventSeen  int
	battleSeen int
}

// NewView returns an empty View.
func NewView() *View {
	return &View{Highlight: make(map[board.Coord]bool)}
}

// SetHighlight replaces the highlighted hexes.
func (v *View) SetHighlight(coords []board.Coord) {
	v.Highlight = make(map[board.Coord]bool, len(coords))
	for _, c := range coords {
		v.Highlight[c] = true
	}
}

var terrainGlyphs = map[board.Terrain]string{
	board.TerrainGrass:    ".",
	board.TerrainWater:    "~",
	board.TerrainForest:   "T",
	board.TerrainToxic:    "%",
	board.TerrainMountain: "^",
}

// cell renders one hex as two printable characters.
func cell(st *state.State, h *board.Hex, v *View) string {
	var text, color string
	if u := st.UnitAt(h.Coord); u != nil {
		letter := "H"
		if u.Faction() == card.FactionAlien {
			letter = "A"
		}
		text = fmt.Sprintf("%s%d", letter, min(max(u.Derived.Health, 0), 9))
		color = FactionColor(u.Faction())
		if st.Attacker == u {
			color += Bold
		}
	} else {
		glyph := terrainGlyphs[h.Terrain]
		if glyph == "" {
			glyph = "?"
		}
		second := glyph
		if h.Value > 0 {
			second = fmt.Sprintf("%d", min(h.Value, 9))
		}
		text = glyph + second
		color = TerrainColor(h.Terrain)
	}
	if v != nil && v.Highlight[h.Coord] {
		color += BgYellow
	}
	return Colorize(color, text)
}

// RenderBoard draws the board as offset rows of axial coordinates, one row
// per r value, with units shown as faction letter plus derived health.
func RenderBoard(st *state.State, v *View) string {
	hexes := st.Board.Hexes()
	if len(hexes) == 0 {
		return "(empty board)\r\n"
	}
	minQ, maxQ, minR, maxR := hexes[0].Coord.Q, hexes[0].Coord.Q, hexes[0].Coord.R, hexes[0].Coord.R
	for _, h := range hexes {
		minQ, maxQ = min(minQ, h.Coord.Q), max(maxQ, h.Coord.Q)
		minR, maxR = min(minR, h.Coord.R), max(maxR, h.Coord.R)
	}

	var b strings.Builder
	b.WriteString(Colorf(Dim, "      q: %d..%d", minQ, maxQ))
	b.WriteString("\r\n")
	for r := minR; r <= maxR; r++ {
		b.WriteString(Colorf(Dim, "r=%+3d ", r))
		b.WriteString(strings.Repeat(" ", 2*(r-minR)))
		for q := minQ; q <= maxQ; q++ {
			h, ok := st.Board.Hex(board.Coord{Q: q, R: r})
			if !ok {
				b.WriteString("  ")
				continue
			}
			b.WriteString(cell(st, h, v))
			b.WriteString("  ")
		}
		b.WriteString("\r\n")
	}
	b.WriteString(Colorize(Dim, "legend: H/A unit+health  . grass  ~ water  T forest  % toxic  ^ mountain  digit = hex value"))
	b.WriteString("\r\n")
	return b.String()
}

// RenderUnits lists every unit with its hex and derived stats.
func RenderUnits(st *state.State) string {
	if len(st.Units) == 0 {
		return Colorize(Dim, "No units on the board.") + "\r\n"
	}
	units := append([]*state.Unit(nil), st.Units...)
	sort.SliceStable(units, func(i, j int) bool { return units[i].Faction() < units[j].Faction() })
	var b strings.Builder
	for _, u := range units {
		d := u.Derived
		line := fmt.Sprintf("(%d,%d) %-22s hp %d  dmg %d  att %d  rng %d  ini %d",
			u.Hex.Q, u.Hex.R, u.Label, d.Health, d.Damage, d.Attacks, d.Range, d.Initiative)
		if len(u.Tags) > 0 {
			tags := make([]string, len(u.Tags))
			for i, t := range u.Tags {
				tags[i] = string(t)
			}
			line += "  [" + strings.Join(tags, ", ") + "]"
		}
		b.WriteString("  ")
		b.WriteString(Colorize(FactionColor(u.Faction()), line))
		b.WriteString("\r\n")
	}
	return b.String()
}

// RenderHand lists the hand, 1-based, or the selected card.
func RenderHand(st *state.State) string {
	var b strings.Builder
	if st.Selected != nil {
		b.WriteString(Colorf(BrightYellow, "Selected: %s", cardLine(st.Selected)))
		b.WriteString("\r\n")
		return b.String()
	}
	if len(st.Hand) == 0 {
		return Colorize(Dim, "Your hand is empty.") + "\r\n"
	}
	b.WriteString(Colorize(Cyan, "Hand:"))
	b.WriteString("\r\n")
	for i, c := range st.Hand {
		b.WriteString(fmt.Sprintf("  %s%d%s %s\r\n", BrightCyan, i+1, Reset, cardLine(c)))
	}
	return b.String()
}

func cardLine(c *card.Card) string {
	s := c.Stats
	line := fmt.Sprintf("%s  hp %d dmg %d att %d rng %d ini %d pts %d", c.Name, s.Health, s.Damage, s.Attacks, s.Range, s.Initiative, s.Points)
	if s.Ability != "" {
		line += "  - " + s.Ability
	}
	return line
}

// RenderStatus summarizes phase, turn, decks, pending event and scores.
func RenderStatus(st *state.State) string {
	var b strings.Builder
	b.WriteString(Colorf(BrightYellow, "Phase %s, turn %d, %s to act.", st.Phase, st.Turn, st.Active))
	b.WriteString("\r\n")
	for _, f := range card.Factions {
		b.WriteString(Colorf(FactionColor(f), "  %-6s deck %2d  placed %2d  skips %d  units %2d",
			f, st.DeckSize(f), st.Placements[f], st.Skips[f], st.Count(f)))
		b.WriteString("\r\n")
	}
	if st.Event != nil {
		b.WriteString(Colorf(Magenta, "Event: %s - %s", st.Event.Name, st.Event.Effect))
		b.WriteString("\r\n")
		if st.Targeting.Pending() {
			b.WriteString(Colorf(Magenta, "Waiting for a target: %s.", st.Targeting.Mode))
			b.WriteString("\r\n")
		}
	}
	if st.Phase == state.PhaseCombat && st.Cursor < len(st.CombatOrder) {
		b.WriteString(Colorf(Red, "Combat turn %d/%d: %s.", st.Cursor+1, len(st.CombatOrder), st.CombatOrder[st.Cursor].Label))
		b.WriteString("\r\n")
	}
	if st.Attacker != nil {
		b.WriteString(Colorf(Red, "Attacker: %s.", st.Attacker.Label))
		b.WriteString("\r\n")
	}
	if st.Phase == state.PhaseScoring || st.Phase == state.PhaseBattleLog {
		b.WriteString(RenderScores(st))
	}
	return b.String()
}

// RenderScores shows the final scores and winner.
func RenderScores(st *state.State) string {
	var b strings.Builder
	for _, f := range card.Factions {
		b.WriteString(Colorf(FactionColor(f), "%s: %d points", f, st.Scores[f]))
		b.WriteString("\r\n")
	}
	switch st.Winner {
	case state.WinnerNone:
	case state.WinnerTie:
		b.WriteString(Colorize(BrightWhite, "The battle is a tie."))
		b.WriteString("\r\n")
	default:
		b.WriteString(Colorf(BrightWhite, "Winner: %s", st.Winner))
		b.WriteString("\r\n")
	}
	return b.String()
}

// RenderLines prints lines in color, one per row.
func RenderLines(color string, lines []string) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(Colorize(color, l))
		b.WriteString("\r\n")
	}
	return b.String()
}

// RenderHelp lists the registry's commands by category.
func RenderHelp(reg *command.Registry) string {
	var b strings.Builder
	for _, g := range reg.Groups() {
		b.WriteString(Colorize(BrightYellow, strings.ToUpper(g.Category[:1])+g.Category[1:]))
		b.WriteString("\r\n")
		for _, c := range g.Commands {
			usage := c.Usage
			if usage == "" {
				usage = c.Name
			}
			b.WriteString(fmt.Sprintf("  %s%-18s%s %s", BrightCyan, usage, Reset, c.Help))
			if len(c.Aliases) > 0 {
				b.WriteString(Colorf(Dim, " (%s)", strings.Join(c.Aliases, ", ")))
			}
			b.WriteString("\r\n")
		}
	}
	return b.String()
}
