// Package state holds the pure simulation state of a hexfront match.
// Presentation concerns (hover, selection highlights, animation) are owned by
// the front end and never stored here.
package state

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cory-johannsen/hexfront/internal/game/board"
	"github.com/cory-johannsen/hexfront/internal/game/card"
)

// Phase is the match phase.
type Phase string

const (
	PhasePlacement Phase = "placement"
	PhaseCombat    Phase = "combat"
	PhaseBattleLog Phase = "battleLog"
	PhaseScoring   Phase = "scoring"
)

// TargetMode is the kind of target a pending event is waiting for.
type TargetMode int

const (
	TargetNone TargetMode = iota
	TargetAnyCharacter
	TargetFriendlyCharacter
	TargetEmptyAdjacentHex
)

// String returns the mode label shown to players.
func (m TargetMode) String() string {
	switch m {
	case TargetAnyCharacter:
		return "any character"
	case TargetFriendlyCharacter:
		return "friendly character"
	case TargetEmptyAdjacentHex:
		return "empty hex next to a character"
	default:
		return "none"
	}
}

// Targeting is the event targeting sub-state.
type Targeting struct {
	Mode TargetMode
}

// Pending reports whether an event is waiting for a target.
func (t Targeting) Pending() bool { return t.Mode != TargetNone }

// Winner is the match outcome.
type Winner string

const (
	WinnerNone Winner = ""
	WinnerTie  Winner = "tie"
)

// WinnerFor returns the Winner naming faction f.
func WinnerFor(f card.Faction) Winner { return Winner(f) }

// State is the full simulation state of one match.
// It is not safe for concurrent use.
type State struct {
	ID        uuid.UUID
	Board     *board.Board
	Decks     map[card.Faction][]*card.Card
	EventDeck []card.EventCard
	Units     []*Unit
	Phase     Phase
	Active    card.Faction
	Turn      int

	Hand       []*card.Card
	HandBackup []*card.Card
	Selected   *card.Card
	// Placements counts the placements made by each faction. Event spawns are
	// not placements.
	Placements map[card.Faction]int
	Skips      map[card.Faction]int

	Event     *card.EventCard
	Targeting Targeting

	CombatOrder []*Unit
	Cursor      int
	Attacker    *Unit

	Scores map[card.Faction]int
	Winner Winner

	BattleLog []string
	EventLog  []string
}

// New creates a match state in the placement phase with humans to act first.
//
// Precondition: b must be non-nil; skipTokens >= 0.
// Postcondition: Returns a State with empty hand, no units, and skipTokens per faction.
func New(b *board.Board, decks map[card.Faction][]*card.Card, events []card.EventCard, skipTokens int) *State {
	s := &State{
		ID:         uuid.New(),
		Board:      b,
		Decks:      make(map[card.Faction][]*card.Card, len(card.Factions)),
		EventDeck:  events,
		Phase:      PhasePlacement,
		Active:     card.FactionHuman,
		Placements: make(map[card.Faction]int, len(card.Factions)),
		Skips:      make(map[card.Faction]int, len(card.Factions)),
		Scores:     make(map[card.Faction]int, len(card.Factions)),
	}
	for _, f := range card.Factions {
		s.Decks[f] = decks[f]
		s.Skips[f] = skipTokens
	}
	return s
}

// UnitAt returns the unit occupying c, or nil.
func (s *State) UnitAt(c board.Coord) *Unit {
	for _, u := range s.Units {
		if u.Hex == c {
			return u
		}
	}
	return nil
}

// Occupied reports whether a unit stands on c.
func (s *State) Occupied(c board.Coord) bool {
	return s.UnitAt(c) != nil
}

// AddUnit places a new unit for c at hex and assigns its display label.
//
// Precondition: hex must be unoccupied.
// Postcondition: Returns the new unit, appended to Units.
func (s *State) AddUnit(c *card.Card, hex board.Coord) *Unit {
	u := NewUnit(c, hex)
	n := 0
	for _, other := range s.Units {
		if other.Card.Name == c.Name {
			n++
		}
	}
	if n > 0 {
		u.Label = fmt.Sprintf("%s (%d)", c.Name, n+1)
	}
	s.Units = append(s.Units, u)
	return u
}

// RemoveUnit removes u from Units and CombatOrder. If u preceded the cursor the
// cursor shifts down so it keeps pointing at the same unit; it is then clamped
// to the last index of the order.
//
// Postcondition: 0 <= Cursor <= len(CombatOrder); Attacker is cleared if it was u.
func (s *State) RemoveUnit(u *Unit) {
	for i, x := range s.Units {
		if x == u {
			s.Units = append(s.Units[:i], s.Units[i+1:]...)
			break
		}
	}
	for i, x := range s.CombatOrder {
		if x == u {
			s.CombatOrder = append(s.CombatOrder[:i], s.CombatOrder[i+1:]...)
			if i < s.Cursor {
				s.Cursor--
			}
			break
		}
	}
	if s.Cursor >= len(s.CombatOrder) {
		s.Cursor = max(len(s.CombatOrder)-1, 0)
	}
	if s.Attacker == u {
		s.Attacker = nil
	}
}

// SwapHexes exchanges the positions of a and b.
func (s *State) SwapHexes(a, b *Unit) {
	a.Hex, b.Hex = b.Hex, a.Hex
}

// Neighbors returns the units at distance exactly 1 from u, in Units order.
func (s *State) Neighbors(u *Unit) []*Unit {
	var out []*Unit
	for _, o := range s.Units {
		if o != u && board.Distance(o.Hex, u.Hex) == 1 {
			out = append(out, o)
		}
	}
	return out
}

// Count returns the number of units of faction f on the board.
func (s *State) Count(f card.Faction) int {
	n := 0
	for _, u := range s.Units {
		if u.Faction() == f {
			n++
		}
	}
	return n
}

// AdjacentToAny reports whether c is within distance 1 of some unit.
func (s *State) AdjacentToAny(c board.Coord) bool {
	for _, u := range s.Units {
		if board.Distance(u.Hex, c) <= 1 {
			return true
		}
	}
	return false
}

// CanPlaceAt reports whether a unit may be put on c: the hex exists, is not a
// mountain, is unoccupied, and is either the first placement or adjacent to a unit.
func (s *State) CanPlaceAt(c board.Coord) bool {
	h, ok := s.Board.Hex(c)
	if !ok || h.IsMountain || s.Occupied(c) {
		return false
	}
	return len(s.Units) == 0 || s.AdjacentToAny(c)
}

// LegalHexes returns every coordinate CanPlaceAt accepts, in board order.
func (s *State) LegalHexes() []board.Coord {
	var out []board.Coord
	for _, h := range s.Board.Hexes() {
		if s.CanPlaceAt(h.Coord) {
			out = append(out, h.Coord)
		}
	}
	return out
}

// HexValue returns the scoring value of c, or 0 if c is off the board.
func (s *State) HexValue(c board.Coord) int {
	if h, ok := s.Board.Hex(c); ok {
		return h.Value
	}
	return 0
}

// DeckSize returns the number of cards left in faction f's deck.
func (s *State) DeckSize(f card.Faction) int {
	return len(s.Decks[f])
}

// SwitchTurn hands the turn to the other faction and increments the counter.
func (s *State) SwitchTurn() {
	s.Active = s.Active.Opponent()
	s.Turn++
}

// LogBattle appends a formatted line to the battle log.
func (s *State) LogBattle(format string, args ...any) {
	s.BattleLog = append(s.BattleLog, fmt.Sprintf(format, args...))
}

// LogEvent appends a formatted line to the event log.
func (s *State) LogEvent(format string, args ...any) {
	s.EventLog = append(s.EventLog, fmt.Sprintf(format, args...))
}
