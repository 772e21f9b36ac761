// Package combat resolves the combat phase: initiative order, manual
// player-driven attacks, the automatic battle, and final scoring.
package combat

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/cory-johannsen/hexfront/internal/game/ability"
	"github.com/cory-johannsen/hexfront/internal/game/board"
	"github.com/cory-johannsen/hexfront/internal/game/card"
	"github.com/cory-johannsen/hexfront/internal/game/state"
)

// Resolver runs combat against a match state.
type Resolver struct {
	engine     *ability.Engine
	damageStat state.Stat
	logger     *zap.Logger
}

// NewResolver creates a Resolver. damageStat is the derived stat used as the
// damage of a manual attack; automatic battles always use derived damage.
//
// Precondition: engine and logger must be non-nil; damageStat must be
// state.StatDamage or state.StatAttacks.
func NewResolver(engine *ability.Engine, damageStat state.Stat, logger *zap.Logger) *Resolver {
	return &Resolver{engine: engine, damageStat: damageStat, logger: logger}
}

// Start enters the combat phase and captures the initiative order used for
// the rest of manual combat.
//
// Postcondition: Phase is combat; CombatOrder holds every unit sorted by
// descending derived initiative; Cursor is 0.
func (r *Resolver) Start(st *state.State) {
	r.engine.ComputeDerivedStats(st)
	st.Phase = state.PhaseCombat
	st.CombatOrder = InitiativeOrder(st.Units)
	st.Cursor = 0
	st.Attacker = nil
	r.logger.Info("combat started",
		zap.Int("units", len(st.Units)),
		zap.Int("human", st.Count(card.FactionHuman)),
		zap.Int("alien", st.Count(card.FactionAlien)),
	)
}

// SelectAttacker selects the unit at c as the attacker of the next manual attack.
//
// Postcondition: Returns false without change unless the phase is combat and
// a unit with derived attacks > 0 stands on c.
func (r *Resolver) SelectAttacker(st *state.State, c board.Coord) bool {
	if st.Phase != state.PhaseCombat {
		return false
	}
	u := st.UnitAt(c)
	if u == nil || u.Derived.Attacks <= 0 {
		r.logger.Debug("attacker rejected", zap.Int("q", c.Q), zap.Int("r", c.R))
		return false
	}
	st.Attacker = u
	return true
}

// AttackTarget performs one manual attack by the selected attacker on the
// unit at c, then moves the combat cursor.
//
// Postcondition: Returns false without change unless an attacker is selected
// and c holds a targetable enemy within the attacker's derived range. When a
// faction has no units left, or the cursor passes the end of the order, the
// scores are final and the phase is scoring.
func (r *Resolver) AttackTarget(st *state.State, c board.Coord) bool {
	attacker := st.Attacker
	if st.Phase != state.PhaseCombat || attacker == nil {
		return false
	}
	target := st.UnitAt(c)
	switch {
	case target == nil:
		r.logger.Debug("attack rejected", zap.String("reason", "no unit"))
		return false
	case target.Faction() == attacker.Faction():
		r.logger.Debug("attack rejected", zap.String("reason", "same faction"))
		return false
	case !target.Targetable():
		r.logger.Debug("attack rejected", zap.String("reason", "not targetable"))
		return false
	case board.Distance(attacker.Hex, target.Hex) > attacker.Derived.Range:
		r.logger.Debug("attack rejected", zap.String("reason", "out of range"))
		return false
	}

	r.strike(st, attacker, target, r.withBonus(st, attacker, attacker.Derived.Get(r.damageStat)))
	st.Attacker = nil

	if st.Count(card.FactionHuman) == 0 || st.Count(card.FactionAlien) == 0 {
		r.finalize(st, state.PhaseScoring)
		return true
	}
	st.Cursor++
	if st.Cursor >= len(st.CombatOrder) {
		r.finalize(st, state.PhaseScoring)
	}
	return true
}

// Battle resolves the whole battle automatically. Every unit, in fresh
// initiative order, attacks the nearest visible enemy in range once per
// derived attack until no enemy remains.
//
// Postcondition: Returns false without change unless the phase is combat.
// Otherwise the battle log is rewritten, scores and winner are set and the
// phase is battleLog.
func (r *Resolver) Battle(st *state.State) bool {
	if st.Phase != state.PhaseCombat {
		return false
	}
	st.BattleLog = nil
	st.Attacker = nil
	r.engine.ComputeDerivedStats(st)
	st.BattleLog = append(st.BattleLog, r.engine.Narratives(st)...)

	order := InitiativeOrder(st.Units)
	for _, attacker := range order {
		if !onBoard(st, attacker) {
			continue
		}
		attacks := attacker.Derived.Attacks
		for i := 0; i < attacks; i++ {
			if st.Count(attacker.Faction().Opponent()) == 0 {
				break
			}
			target := nearestEnemy(st, attacker)
			if target == nil {
				st.LogBattle("%s has no enemy in range.", attacker.Label)
				break
			}
			r.strike(st, attacker, target, r.withBonus(st, attacker, attacker.Derived.Damage))
		}
	}
	r.finalize(st, state.PhaseBattleLog)
	return true
}

// Continue leaves the post-battle log for the scoring phase.
//
// Postcondition: Returns false without change unless the phase is battleLog.
func (r *Resolver) Continue(st *state.State) bool {
	if st.Phase != state.PhaseBattleLog {
		return false
	}
	st.Phase = state.PhaseScoring
	return true
}

// strike resolves one landed attack: the block counter absorbs first, then
// before-damage abilities may cancel the hit, then health drops and on-death
// abilities may keep the defender alive. Derived stats are recomputed after
// the hit.
//
// Postcondition: Returns true if the defender was removed.
func (r *Resolver) strike(st *state.State, attacker, defender *state.Unit, dmg int) bool {
	attacker.RemoveTag(card.EventStealth)
	st.LogBattle("%s attacks %s for %d damage.", attacker.Label, defender.Label, dmg)

	left := defender.AbsorbWithBlock(dmg)
	if left < dmg {
		st.LogBattle("%s's armor absorbs %d damage.", defender.Label, dmg-left)
	}
	if left == 0 {
		return false
	}
	if id, ok := r.engine.Absorbs(defender, st); ok {
		st.LogBattle("%s blocks the attack (%s).", defender.Label, r.describe(id))
		return false
	}

	died := defender.TakeDamage(left)
	st.LogBattle("%s loses %d health.", defender.Label, left)
	if !died {
		st.LogBattle("%s has %d health remaining.", defender.Label, defender.Derived.Health)
		r.engine.ComputeDerivedStats(st)
		return false
	}
	if id, by, ok := r.engine.Survives(defender, st); ok {
		st.LogBattle("%s is brought back with 1 health by %s (%s).", defender.Label, by.Label, r.describe(id))
		r.engine.ComputeDerivedStats(st)
		return false
	}
	st.LogBattle("%s dies.", defender.Label)
	st.RemoveUnit(defender)
	r.engine.ComputeDerivedStats(st)
	r.logger.Debug("unit removed", zap.String("unit", defender.Label), zap.String("by", attacker.Label))
	return true
}

// withBonus adds the attack-bonus abilities of attacker to dmg.
func (r *Resolver) withBonus(st *state.State, attacker *state.Unit, dmg int) int {
	bonus, fired := r.engine.AttackBonus(attacker, st)
	if bonus > 0 {
		st.LogBattle("%s deals +%d bonus damage.", attacker.Label, bonus)
		r.logger.Debug("attack bonus", zap.Strings("rules", fired), zap.Int("bonus", bonus))
	}
	return dmg + bonus
}

func (r *Resolver) describe(ruleID string) string {
	if rule, ok := r.engine.Rule(ruleID); ok && rule.Description != "" {
		return rule.Description
	}
	return ruleID
}

// finalize computes scores and the winner, appends the result lines and
// moves to phase.
func (r *Resolver) finalize(st *state.State, phase state.Phase) {
	st.Scores = Score(st)
	st.Winner = WinnerOf(st.Scores)
	st.Attacker = nil
	st.BattleLog = append(st.BattleLog, ResultLines(st)...)
	st.Phase = phase
	r.logger.Info("combat finished",
		zap.Int("human_score", st.Scores[card.FactionHuman]),
		zap.Int("alien_score", st.Scores[card.FactionAlien]),
		zap.String("winner", string(st.Winner)),
	)
}

// ResultLines describes the final scores and the winner.
func ResultLines(st *state.State) []string {
	lines := []string{
		fmt.Sprintf("Humans score %d with %d survivors.", st.Scores[card.FactionHuman], st.Count(card.FactionHuman)),
		fmt.Sprintf("Aliens score %d with %d survivors.", st.Scores[card.FactionAlien], st.Count(card.FactionAlien)),
	}
	switch st.Winner {
	case state.WinnerTie:
		lines = append(lines, "The battle is a tie.")
	case state.WinnerFor(card.FactionHuman):
		lines = append(lines, "Humans win!")
	case state.WinnerFor(card.FactionAlien):
		lines = append(lines, "Aliens win!")
	}
	return lines
}

// nearestEnemy returns the closest targetable enemy of attacker within its
// derived range; the first one found wins ties.
func nearestEnemy(st *state.State, attacker *state.Unit) *state.Unit {
	var best *state.Unit
	bestDist := math.MaxInt
	for _, u := range st.Units {
		if u.Faction() == attacker.Faction() || !u.Targetable() {
			continue
		}
		d := board.Distance(attacker.Hex, u.Hex)
		if d <= attacker.Derived.Range && d < bestDist {
			best, bestDist = u, d
		}
	}
	return best
}

func onBoard(st *state.State, u *state.Unit) bool {
	for _, x := range st.Units {
		if x == u {
			return true
		}
	}
	return false
}
