package combat

import (
	"github.com/cory-johannsen/hexfront/internal/game/card"
	"github.com/cory-johannsen/hexfront/internal/game/state"
)

// Score totals, for each faction, the scoring value of every survivor's hex
// plus its card points.
//
// Postcondition: Returns an entry for both factions.
func Score(st *state.State) map[card.Faction]int {
	scores := make(map[card.Faction]int, len(card.Factions))
	for _, f := range card.Factions {
		scores[f] = 0
	}
	for _, u := range st.Units {
		scores[u.Faction()] += st.HexValue(u.Hex) + u.Card.Stats.Points
	}
	return scores
}

// WinnerOf returns the faction with the strictly higher score, or WinnerTie.
func WinnerOf(scores map[card.Faction]int) state.Winner {
	h, a := scores[card.FactionHuman], scores[card.FactionAlien]
	switch {
	case h > a:
		return state.WinnerFor(card.FactionHuman)
	case a > h:
		return state.WinnerFor(card.FactionAlien)
	default:
		return state.WinnerTie
	}
}
