// Package ability derives unit stats from ability and terrain rules and
// resolves the trigger-based abilities used during combat.
package ability

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/hexfront/internal/game/dice"
	"github.com/cory-johannsen/hexfront/internal/game/state"
)

// Trigger selects when a Rule is consulted.
type Trigger int

const (
	// TriggerDerivedStats rules produce modifiers on every recomputation.
	TriggerDerivedStats Trigger = iota
	// TriggerBeforeDamage rules may cancel an incoming attack.
	TriggerBeforeDamage
	// TriggerOnDeath rules may keep a dying unit alive.
	TriggerOnDeath
	// TriggerAttackBonus rules may add damage to an outgoing attack.
	TriggerAttackBonus
)

// Rule is one entry of the ability rule table. Rules are keyed by a stable id
// that cards reference through their ability id.
type Rule struct {
	ID          string
	Trigger     Trigger
	Description string
	// Applies reports whether the rule is active for owner.
	Applies func(owner *state.Unit, s *state.State) bool
	// Modifiers produces owner's contribution to derived stats. Modifiers with
	// a zero Target apply to owner. Used by TriggerDerivedStats rules.
	Modifiers func(owner *state.Unit, s *state.State) []state.Modifier
	// Resolve runs a hook rule for owner against subject (the defender, the
	// dying unit, or the attacker). A positive result means the hook fired;
	// for attack-bonus rules it is the bonus damage.
	Resolve func(owner, subject *state.Unit, s *state.State, src dice.Source) int
}

// Record is one modifier produced during a recomputation, bound to its target.
type Record struct {
	Target   uuid.UUID
	Modifier state.Modifier
}

// Engine applies ability and terrain rule tables to a match state.
type Engine struct {
	rules   []Rule
	terrain []TerrainRule
	src     dice.Source
	logger  *zap.Logger
}

// NewEngine creates an Engine over the given rule tables.
//
// Precondition: src and logger must be non-nil.
// Postcondition: Returns a non-nil Engine; table order is evaluation order.
func NewEngine(rules []Rule, terrain []TerrainRule, src dice.Source, logger *zap.Logger) *Engine {
	return &Engine{
		rules:   append([]Rule(nil), rules...),
		terrain: append([]TerrainRule(nil), terrain...),
		src:     src,
		logger:  logger,
	}
}

// NewDefaultEngine creates an Engine with the built-in ability and terrain rules.
func NewDefaultEngine(src dice.Source, logger *zap.Logger) *Engine {
	return NewEngine(BuiltinRules(), BuiltinTerrainRules(), src, logger)
}

// AddRule appends r to the ability rule table.
//
// Postcondition: Returns an error if a rule with the same id is already registered.
func (e *Engine) AddRule(r Rule) error {
	if _, ok := e.Rule(r.ID); ok {
		return fmt.Errorf("ability rule %q already registered", r.ID)
	}
	e.rules = append(e.rules, r)
	return nil
}

// Rule returns the ability rule with the given id.
func (e *Engine) Rule(id string) (Rule, bool) {
	for _, r := range e.rules {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}

// Collect evaluates both rule passes against s and returns the resulting
// records: ability rules first in table order per unit, then terrain rules.
// s is not modified.
func (e *Engine) Collect(s *state.State) []Record {
	var out []Record
	for _, u := range s.Units {
		for _, r := range e.rules {
			if r.Trigger != TriggerDerivedStats || r.Modifiers == nil || !r.Applies(u, s) {
				continue
			}
			for _, m := range r.Modifiers(u, s) {
				if m.Source == uuid.Nil {
					m.Source = u.ID
				}
				if m.RuleID == "" {
					m.RuleID = r.ID
				}
				out = append(out, Record{Target: m.TargetID(), Modifier: m})
			}
		}
	}
	for _, u := range s.Units {
		h, ok := s.Board.Hex(u.Hex)
		if !ok {
			continue
		}
		for _, tr := range e.terrain {
			if tr.Terrain != h.Terrain {
				continue
			}
			m := tr.modifierFor(u)
			out = append(out, Record{Target: u.ID, Modifier: m})
		}
	}
	return out
}

// ComputeDerivedStats replaces every unit's modifier list and derived stats
// with the fold of a fresh Collect.
//
// Postcondition: For unchanged inputs, repeated calls yield identical results.
func (e *Engine) ComputeDerivedStats(s *state.State) {
	records := e.Collect(s)
	byTarget := make(map[uuid.UUID][]state.Modifier, len(s.Units))
	for _, rec := range records {
		byTarget[rec.Target] = append(byTarget[rec.Target], rec.Modifier)
	}
	for _, u := range s.Units {
		mods := byTarget[u.ID]
		u.Modifiers = mods
		u.Derived = Fold(state.BaseStats(u.Card), mods)
	}
	e.logger.Debug("derived stats recomputed",
		zap.Int("units", len(s.Units)),
		zap.Int("modifiers", len(records)),
	)
}

var composedStats = []state.Stat{
	state.StatHealth,
	state.StatDamage,
	state.StatAttacks,
	state.StatRange,
	state.StatInitiative,
}

// Fold composes mods onto base: for each stat (base + Σ additive) × Π multiplicative.
// Range, damage and health are floored at 1; attacks and initiative at 0.
func Fold(base state.DerivedStats, mods []state.Modifier) state.DerivedStats {
	out := base
	for _, st := range composedStats {
		v := Compose(base.Get(st), st, mods)
		switch st {
		case state.StatRange, state.StatDamage, state.StatHealth:
			v = max(v, 1)
		default:
			v = max(v, 0)
		}
		out = out.Set(st, v)
	}
	return out
}

// Compose returns (base + Σ additive) × Π multiplicative over the modifiers of
// stat st, without any floor.
func Compose(base int, st state.Stat, mods []state.Modifier) int {
	sum, product := 0, 1
	for _, m := range mods {
		if m.Stat != st {
			continue
		}
		switch m.Kind {
		case state.Additive:
			sum += m.Value
		case state.Multiplicative:
			product *= m.Value
		}
	}
	return (base + sum) * product
}

// Absorbs consults the before-damage rules of defender.
//
// Postcondition: Returns the id of the rule that cancelled the attack and true,
// or ("", false) if the attack lands.
func (e *Engine) Absorbs(defender *state.Unit, s *state.State) (string, bool) {
	for _, r := range e.rules {
		if r.Trigger != TriggerBeforeDamage || r.Resolve == nil || !r.Applies(defender, s) {
			continue
		}
		if r.Resolve(defender, defender, s, e.src) > 0 {
			e.logger.Debug("attack absorbed", zap.String("rule", r.ID), zap.String("unit", defender.Label))
			return r.ID, true
		}
	}
	return "", false
}

// Survives consults every on-death rule owned by a unit on the board for the
// dying unit.
//
// Postcondition: Returns the rule id and the owning unit when the dying unit
// was kept alive, or ("", nil, false).
func (e *Engine) Survives(dying *state.Unit, s *state.State) (string, *state.Unit, bool) {
	for _, owner := range s.Units {
		for _, r := range e.rules {
			if r.Trigger != TriggerOnDeath || r.Resolve == nil || !r.Applies(owner, s) {
				continue
			}
			if r.Resolve(owner, dying, s, e.src) > 0 {
				e.logger.Debug("death prevented",
					zap.String("rule", r.ID),
					zap.String("unit", dying.Label),
					zap.String("by", owner.Label),
				)
				return r.ID, owner, true
			}
		}
	}
	return "", nil, false
}

// AttackBonus sums the attack-bonus rules of attacker.
//
// Postcondition: Returns the bonus damage (>= 0) and the ids of rules that fired.
func (e *Engine) AttackBonus(attacker *state.Unit, s *state.State) (int, []string) {
	bonus := 0
	var fired []string
	for _, r := range e.rules {
		if r.Trigger != TriggerAttackBonus || r.Resolve == nil || !r.Applies(attacker, s) {
			continue
		}
		if b := r.Resolve(attacker, attacker, s, e.src); b > 0 {
			bonus += b
			fired = append(fired, r.ID)
		}
	}
	return bonus, fired
}

// Narratives describes every ability-sourced modifier currently applied, in
// unit order. Terrain modifiers are not included.
//
// Precondition: ComputeDerivedStats has run on s.
func (e *Engine) Narratives(s *state.State) []string {
	var lines []string
	for _, u := range s.Units {
		for _, m := range u.Modifiers {
			if _, ok := e.Rule(m.RuleID); !ok {
				continue
			}
			src := findUnit(s, m.Source)
			if src == nil {
				continue
			}
			effect := fmt.Sprintf("%+d %s", m.Value, m.Stat)
			if m.Kind == state.Multiplicative {
				effect = fmt.Sprintf("x%d %s", m.Value, m.Stat)
			}
			if src == u {
				lines = append(lines, fmt.Sprintf("%s gains %s (%s).", u.Label, effect, m.Description))
			} else {
				lines = append(lines, fmt.Sprintf("%s gives %s %s (%s).", src.Label, u.Label, effect, m.Description))
			}
		}
	}
	return lines
}

func findUnit(s *state.State, id uuid.UUID) *state.Unit {
	for _, u := range s.Units {
		if u.ID == id {
			return u
		}
	}
	return nil
}
