package combat

import "github.com/cory-johannsen/hexfront/internal/game/state"

// InitiativeOrder returns a copy of units sorted by derived initiative, highest
// first. Units with equal initiative keep their relative order.
//
// Precondition: derived stats must be current.
// Postcondition: units is not modified.
func InitiativeOrder(units []*state.Unit) []*state.Unit {
	order := make([]*state.Unit, len(units))
	copy(order, units)
	sortByInitiativeDesc(order)
	return order
}

// sortByInitiativeDesc sorts units in place, highest initiative first.
func sortByInitiativeDesc(units []*state.Unit) {
	n := len(units)
	for i := 1; i < n; i++ {
		for j := i; j > 0 && units[j].Derived.Initiative > units[j-1].Derived.Initiative; j-- {
			units[j], units[j-1] = units[j-1], units[j]
		}
	}
}
