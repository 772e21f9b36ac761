package state

import (
	"github.com/google/uuid"

	"github.com/cory-johannsen/hexfront/internal/game/board"
	"github.com/cory-johannsen/hexfront/internal/game/card"
)

// Stat names a unit stat a Modifier can affect.
type Stat string

const (
	StatHealth     Stat = "health"
	StatDamage     Stat = "damage"
	StatAttacks    Stat = "attacks"
	StatRange      Stat = "range"
	StatInitiative Stat = "initiative"
)

// ModifierKind selects how a Modifier composes with the base stat.
type ModifierKind int

const (
	Additive ModifierKind = iota
	Multiplicative
)

// String returns the kind label used in logs.
func (k ModifierKind) String() string {
	if k == Multiplicative {
		return "multiplicative"
	}
	return "additive"
}

// Modifier is one ability- or terrain-sourced effect on a single stat.
type Modifier struct {
	Stat        Stat
	Value       int
	Kind        ModifierKind
	Description string
	// RuleID is the id of the rule that produced the modifier.
	RuleID string
	Source uuid.UUID
	// Target is the affected unit; uuid.Nil means the Source unit.
	Target uuid.UUID
}

// TargetID returns the unit the modifier applies to.
func (m Modifier) TargetID() uuid.UUID {
	if m.Target == uuid.Nil {
		return m.Source
	}
	return m.Target
}

// DerivedStats are the post-modifier stats used for every gameplay decision.
type DerivedStats struct {
	Health     int
	Damage     int
	Attacks    int
	Range      int
	Initiative int
}

// BaseStats returns the derived-stat shape of a card's printed stats.
func BaseStats(c *card.Card) DerivedStats {
	return DerivedStats{
		Health:     c.Stats.Health,
		Damage:     c.Stats.Damage,
		Attacks:    c.Stats.Attacks,
		Range:      c.Stats.Range,
		Initiative: c.Stats.Initiative,
	}
}

// Get returns the value of stat s, or 0 for an unknown stat.
func (d DerivedStats) Get(s Stat) int {
	switch s {
	case StatHealth:
		return d.Health
	case StatDamage:
		return d.Damage
	case StatAttacks:
		return d.Attacks
	case StatRange:
		return d.Range
	case StatInitiative:
		return d.Initiative
	}
	return 0
}

// Set returns a copy of d with stat s replaced by v. Unknown stats are ignored.
func (d DerivedStats) Set(s Stat, v int) DerivedStats {
	switch s {
	case StatHealth:
		d.Health = v
	case StatDamage:
		d.Damage = v
	case StatAttacks:
		d.Attacks = v
	case StatRange:
		d.Range = v
	case StatInitiative:
		d.Initiative = v
	}
	return d
}

// Unit is a character card placed on the board.
type Unit struct {
	ID   uuid.UUID
	Hex  board.Coord
	Card *card.Card
	// Label is the display name, disambiguated with an index when several
	// copies of one card are on the board.
	Label     string
	Modifiers []Modifier
	Derived   DerivedStats
	// HasBlockedFirstAttack is set once a one-shot block ability has fired.
	HasBlockedFirstAttack bool
	// Block is the number of damage points absorbed before health is reduced.
	Block int
	// EventDamage is the cumulative damage dealt to the unit by events.
	EventDamage int
	// Resurrected is set once the unit has been brought back from death.
	Resurrected bool
	// Tags are the event effects currently applied to the unit.
	Tags []card.EventKind
}

// NewUnit places c at hex with derived stats equal to its base stats.
//
// Precondition: c must be non-nil.
func NewUnit(c *card.Card, hex board.Coord) *Unit {
	return &Unit{
		ID:      uuid.New(),
		Hex:     hex,
		Card:    c,
		Label:   c.Name,
		Derived: BaseStats(c),
	}
}

// Faction returns the unit's faction.
func (u *Unit) Faction() card.Faction { return u.Card.Faction }

// Alive reports whether the unit's base health is positive.
func (u *Unit) Alive() bool { return u.Card.Stats.Health > 0 }

// HasTag reports whether event tag k is applied to the unit.
func (u *Unit) HasTag(k card.EventKind) bool {
	for _, t := range u.Tags {
		if t == k {
			return true
		}
	}
	return false
}

// AddTag applies event tag k. Tags are not duplicated.
func (u *Unit) AddTag(k card.EventKind) {
	if !u.HasTag(k) {
		u.Tags = append(u.Tags, k)
	}
}

// RemoveTag clears event tag k if present.
func (u *Unit) RemoveTag(k card.EventKind) {
	for i, t := range u.Tags {
		if t == k {
			u.Tags = append(u.Tags[:i], u.Tags[i+1:]...)
			return
		}
	}
}

// Targetable reports whether enemies may attack the unit.
func (u *Unit) Targetable() bool {
	return u.Alive() && !u.HasTag(card.EventStealth)
}

// TakeDamage applies n points of damage. Damage is measured against the
// derived health and subtracted from the card's base health.
//
// Precondition: n >= 0; Derived must be current.
// Postcondition: Returns true if the unit died; a dead unit has base health <= 0.
func (u *Unit) TakeDamage(n int) bool {
	remaining := u.Derived.Health - n
	u.Card.Stats.Health -= n
	u.Derived.Health = remaining
	if remaining <= 0 {
		u.Card.Stats.Health = min(u.Card.Stats.Health, 0)
		return true
	}
	return false
}

// AbsorbWithBlock spends block points against n damage.
//
// Postcondition: Returns the damage left over; the armor tag is cleared once
// the block counter reaches zero.
func (u *Unit) AbsorbWithBlock(n int) int {
	if u.Block <= 0 || n <= 0 {
		return n
	}
	absorbed := min(u.Block, n)
	u.Block -= absorbed
	if u.Block == 0 {
		u.RemoveTag(card.EventArmor)
	}
	return n - absorbed
}

// AdjacentTo reports whether o stands at distance exactly 1 from u.
func (u *Unit) AdjacentTo(o *Unit) bool {
	return board.Distance(u.Hex, o.Hex) == 1
}
