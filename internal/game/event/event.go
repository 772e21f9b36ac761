// Package event draws and resolves event cards, including the targeting
// sub-state entered by events that need a player-chosen target.
package event

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/hexfront/internal/game/ability"
	"github.com/cory-johannsen/hexfront/internal/game/board"
	"github.com/cory-johannsen/hexfront/internal/game/card"
	"github.com/cory-johannsen/hexfront/internal/game/dice"
	"github.com/cory-johannsen/hexfront/internal/game/state"
)

// thunderstormStrikes is the maximum number of units a thunderstorm hits.
const thunderstormStrikes = 3

// System resolves event cards against a match state.
type System struct {
	engine  *ability.Engine
	pool    *card.Pool
	src     dice.Source
	logger  *zap.Logger
	advance func(*state.State)
}

// NewSystem creates an event System. advance is called whenever an event is
// resolved or skipped and must hand the turn to the next faction.
//
// Precondition: all arguments must be non-nil.
func NewSystem(engine *ability.Engine, pool *card.Pool, src dice.Source, logger *zap.Logger, advance func(*state.State)) *System {
	return &System{engine: engine, pool: pool, src: src, logger: logger, advance: advance}
}

// targetModes maps each targeted event kind to the target it waits for.
var targetModes = map[card.EventKind]state.TargetMode{
	card.EventSandstorm: state.TargetAnyCharacter,
	card.EventExecute:   state.TargetAnyCharacter,
	card.EventArmor:     state.TargetFriendlyCharacter,
	card.EventStealth:   state.TargetFriendlyCharacter,
	card.EventBerserk:   state.TargetFriendlyCharacter,
	card.EventFriend:    state.TargetEmptyAdjacentHex,
}

// TargetModeFor returns the target mode kind waits for; TargetNone means the
// event resolves as soon as it is played.
func TargetModeFor(kind card.EventKind) state.TargetMode {
	return targetModes[kind]
}

// Draw makes the next event card pending.
//
// Postcondition: Returns false without change if the phase is not placement,
// an event is already pending, or the event deck is empty.
func (sys *System) Draw(st *state.State) bool {
	if st.Phase != state.PhasePlacement || st.Event != nil || len(st.EventDeck) == 0 {
		return false
	}
	ev := st.EventDeck[0]
	st.EventDeck = st.EventDeck[1:]
	st.Event = &ev
	st.LogEvent("%s draws %s.", st.Active, ev.Name)
	sys.logger.Debug("event drawn", zap.String("event", ev.ID), zap.String("faction", string(st.Active)))
	return true
}

// Play resolves the pending event. Untargeted events take effect immediately;
// targeted events enter the targeting sub-state, or resolve with no effect
// when no legal target exists.
//
// Postcondition: Returns false without change if no event is pending or it is
// already waiting for a target.
func (sys *System) Play(st *state.State) bool {
	if st.Event == nil || st.Targeting.Pending() {
		return false
	}
	ev := st.Event
	switch ev.Kind {
	case card.EventThunderstorm:
		sys.thunderstorm(st)
		sys.finish(st)
		return true
	case card.EventSwap:
		sys.swap(st)
		sys.finish(st)
		return true
	}

	mode, ok := targetModes[ev.Kind]
	if !ok {
		st.LogEvent("%s has no effect.", ev.Name)
		sys.finish(st)
		return true
	}
	st.Targeting = state.Targeting{Mode: mode}
	if len(sys.Targets(st)) == 0 {
		st.LogEvent("%s finds no target and has no effect.", ev.Name)
		sys.finish(st)
		return true
	}
	sys.logger.Debug("event awaiting target",
		zap.String("event", ev.ID),
		zap.Stringer("mode", mode),
	)
	return true
}

// Targets returns the coordinates accepted by ApplyToTarget, in board order.
func (sys *System) Targets(st *state.State) []board.Coord {
	var out []board.Coord
	for _, h := range st.Board.Hexes() {
		if sys.legalTarget(st, h.Coord) {
			out = append(out, h.Coord)
		}
	}
	return out
}

func (sys *System) legalTarget(st *state.State, c board.Coord) bool {
	switch st.Targeting.Mode {
	case state.TargetAnyCharacter:
		return st.UnitAt(c) != nil
	case state.TargetFriendlyCharacter:
		u := st.UnitAt(c)
		return u != nil && u.Faction() == st.Active
	case state.TargetEmptyAdjacentHex:
		if len(st.Units) == 0 || len(sys.pool.Cards(st.Active)) == 0 {
			return false
		}
		return st.CanPlaceAt(c)
	}
	return false
}

// ApplyToTarget resolves the pending targeted event against c.
//
// Postcondition: Returns false without change if no event awaits a target or
// c is not a legal target for the current sub-state. Otherwise the effect is
// applied, the event is discarded, derived stats are recomputed and the turn
// advances.
func (sys *System) ApplyToTarget(st *state.State, c board.Coord) bool {
	if st.Event == nil || !st.Targeting.Pending() || !sys.legalTarget(st, c) {
		return false
	}
	ev := st.Event
	switch ev.Kind {
	case card.EventSandstorm:
		u := st.UnitAt(c)
		u.Card.Stats.Range = max(u.Card.Stats.Range-1, 1)
		st.LogEvent("%s: %s loses 1 range.", ev.Name, u.Label)
	case card.EventExecute:
		u := st.UnitAt(c)
		st.RemoveUnit(u)
		st.LogEvent("%s: %s is executed.", ev.Name, u.Label)
	case card.EventArmor:
		u := st.UnitAt(c)
		u.Block++
		u.AddTag(card.EventArmor)
		st.LogEvent("%s: %s will block the next point of damage.", ev.Name, u.Label)
	case card.EventStealth:
		u := st.UnitAt(c)
		u.AddTag(card.EventStealth)
		st.LogEvent("%s: %s cannot be targeted until it attacks.", ev.Name, u.Label)
	case card.EventBerserk:
		u := st.UnitAt(c)
		u.Card.Stats.Damage++
		u.Card.Stats.Health = max(u.Card.Stats.Health-1, 1)
		u.AddTag(card.EventBerserk)
		st.LogEvent("%s: %s gains 1 damage and loses 1 health.", ev.Name, u.Label)
	case card.EventFriend:
		c2, ok := sys.pool.DrawWeighted(st.Active, sys.src)
		if !ok {
			return false
		}
		u := st.AddUnit(c2, c)
		st.LogEvent("%s: %s joins the fight at (%d,%d).", ev.Name, u.Label, c.Q, c.R)
	}
	sys.finish(st)
	return true
}

// Skip discards the pending event at the cost of one skip token.
//
// Postcondition: Returns false without change if no event is pending or the
// active faction has no tokens left.
func (sys *System) Skip(st *state.State) bool {
	if st.Event == nil || st.Skips[st.Active] <= 0 {
		return false
	}
	st.Skips[st.Active]--
	st.LogEvent("%s skips %s (%d skips left).", st.Active, st.Event.Name, st.Skips[st.Active])
	st.Event = nil
	st.Targeting = state.Targeting{}
	sys.advance(st)
	return true
}

// Discard drops the pending event without effect and without advancing the turn.
func (sys *System) Discard(st *state.State, reason string) {
	if st.Event == nil {
		return
	}
	st.LogEvent("%s is discarded: %s.", st.Event.Name, reason)
	st.Event = nil
	st.Targeting = state.Targeting{}
}

// AutoResolve plays the pending event and, if it waits for a target, applies
// it to the first suitable one: hostile events prefer an enemy unit.
//
// Postcondition: No event is pending when AutoResolve returns true.
func (sys *System) AutoResolve(st *state.State) bool {
	if st.Event == nil {
		return false
	}
	if !st.Targeting.Pending() {
		sys.Play(st)
	}
	if st.Event == nil {
		return true
	}
	targets := sys.Targets(st)
	if len(targets) == 0 {
		sys.Discard(st, "no target")
		sys.advance(st)
		return true
	}
	choice := targets[0]
	if st.Targeting.Mode == state.TargetAnyCharacter {
		for _, c := range targets {
			if st.UnitAt(c).Faction() != st.Active {
				choice = c
				break
			}
		}
	}
	return sys.ApplyToTarget(st, choice)
}

func (sys *System) thunderstorm(st *state.State) {
	ev := st.Event
	if len(st.Units) == 0 {
		st.LogEvent("%s strikes empty ground.", ev.Name)
		return
	}
	victims := make([]*state.Unit, 0, thunderstormStrikes)
	for _, i := range dice.Sample(sys.src, len(st.Units), thunderstormStrikes) {
		victims = append(victims, st.Units[i])
	}
	for _, u := range victims {
		dmg := u.AbsorbWithBlock(1)
		if dmg == 0 {
			st.LogEvent("%s: lightning strikes %s, armor absorbs it.", ev.Name, u.Label)
			continue
		}
		u.EventDamage += dmg
		if !u.TakeDamage(dmg) {
			st.LogEvent("%s: lightning strikes %s (%d health left).", ev.Name, u.Label, u.Derived.Health)
			continue
		}
		if _, by, ok := sys.engine.Survives(u, st); ok {
			st.LogEvent("%s: lightning strikes %s, who is revived by %s.", ev.Name, u.Label, by.Label)
			continue
		}
		st.RemoveUnit(u)
		st.LogEvent("%s: lightning strikes %s, who dies.", ev.Name, u.Label)
		sys.engine.ComputeDerivedStats(st)
	}
}

func (sys *System) swap(st *state.State) {
	ev := st.Event
	if len(st.Units) < 2 {
		st.LogEvent("%s has no effect.", ev.Name)
		return
	}
	idx := dice.Sample(sys.src, len(st.Units), 2)
	a, b := st.Units[idx[0]], st.Units[idx[1]]
	st.SwapHexes(a, b)
	st.LogEvent("%s: %s and %s swap places.", ev.Name, a.Label, b.Label)
}

// finish discards the resolved event, recomputes derived stats and advances
// the turn.
func (sys *System) finish(st *state.State) {
	sys.logger.Debug("event resolved", zap.String("event", st.Event.ID))
	st.Event = nil
	st.Targeting = state.Targeting{}
	sys.engine.ComputeDerivedStats(st)
	sys.advance(st)
}
