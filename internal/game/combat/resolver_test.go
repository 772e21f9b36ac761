package combat_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/hexfront/internal/game/ability"
	"github.com/cory-johannsen/hexfront/internal/game/board"
	"github.com/cory-johannsen/hexfront/internal/game/card"
	"github.com/cory-johannsen/hexfront/internal/game/combat"
	"github.com/cory-johannsen/hexfront/internal/game/dice"
	"github.com/cory-johannsen/hexfront/internal/game/state"
)

func radiusBoard(radius int) *board.Board {
	var hexes []*board.Hex
	for q := -radius; q <= radius; q++ {
		for r := -radius; r <= radius; r++ {
			if q+r > radius || q+r < -radius {
				continue
			}
			hexes = append(hexes, &board.Hex{Coord: board.Coord{Q: q, R: r}, Terrain: board.TerrainGrass})
		}
	}
	return board.New(hexes)
}

type unitSpec struct {
	faction    card.Faction
	at         board.Coord
	health     int
	damage     int
	attacks    int
	rng        int
	initiative int
	ability    string
}

func newState(specs ...unitSpec) *state.State {
	st := state.New(radiusBoard(3), nil, nil, 3)
	for i, s := range specs {
		c := &card.Card{
			ID:        fmt.Sprintf("c%d", i),
			Faction:   s.faction,
			Name:      fmt.Sprintf("%s-%d", s.faction, i),
			AbilityID: s.ability,
			Stats: card.Stats{
				Health: s.health, Damage: s.damage, Attacks: s.attacks,
				Range: s.rng, Initiative: s.initiative, Points: 1,
			},
		}
		st.AddUnit(c, s.at)
	}
	return st
}

func newResolver(src dice.Source, stat state.Stat) *combat.Resolver {
	return combat.NewResolver(ability.NewDefaultEngine(src, zap.NewNop()), stat, zap.NewNop())
}

func TestStart_SortsByInitiativeStable(t *testing.T) {
	st := newState(
		unitSpec{faction: card.FactionHuman, at: board.Coord{}, health: 1, damage: 1, attacks: 1, rng: 1, initiative: 1},
		unitSpec{faction: card.FactionAlien, at: board.Coord{Q: 1}, health: 1, damage: 1, attacks: 1, rng: 1, initiative: 3},
		unitSpec{faction: card.FactionHuman, at: board.Coord{Q: -1}, health: 1, damage: 1, attacks: 1, rng: 1, initiative: 1},
		unitSpec{faction: card.FactionAlien, at: board.Coord{R: 1}, health: 1, damage: 1, attacks: 1, rng: 1, initiative: 3},
	)
	r := newResolver(dice.NewSequence(), state.StatDamage)
	r.Start(st)

	require.Len(t, st.CombatOrder, 4)
	assert.Equal(t, []*state.Unit{st.Units[1], st.Units[3], st.Units[0], st.Units[2]}, st.CombatOrder)
	assert.Equal(t, state.PhaseCombat, st.Phase)
	assert.Zero(t, st.Cursor)
}

func TestAttackTarget_RemovesDefenderAtRangeTwo(t *testing.T) {
	st := newState(
		unitSpec{faction: card.FactionHuman, at: board.Coord{}, health: 3, damage: 2, attacks: 2, rng: 2, initiative: 3},
		unitSpec{faction: card.FactionAlien, at: board.Coord{Q: 1, R: 1}, health: 2, damage: 1, attacks: 1, rng: 1, initiative: 2},
		unitSpec{faction: card.FactionAlien, at: board.Coord{Q: -3}, health: 2, damage: 1, attacks: 1, rng: 1, initiative: 1},
	)
	r := newResolver(dice.NewSequence(), state.StatDamage)
	r.Start(st)
	defender := st.Units[1]

	require.True(t, r.SelectAttacker(st, board.Coord{}))
	require.True(t, r.AttackTarget(st, board.Coord{Q: 1, R: 1}))

	assert.Nil(t, st.UnitAt(board.Coord{Q: 1, R: 1}))
	assert.NotContains(t, st.Units, defender)
	assert.NotContains(t, st.CombatOrder, defender)
	assert.Nil(t, st.Attacker)
	assert.Equal(t, 1, st.Cursor)
	assert.Equal(t, state.PhaseCombat, st.Phase)
}

func TestAttackTarget_LegacyAttacksStat(t *testing.T) {
	st := newState(
		unitSpec{faction: card.FactionHuman, at: board.Coord{}, health: 3, damage: 1, attacks: 2, rng: 2},
		unitSpec{faction: card.FactionAlien, at: board.Coord{Q: 1, R: 1}, health: 2, damage: 1, attacks: 1, rng: 1},
	)
	r := newResolver(dice.NewSequence(), state.StatAttacks)
	r.Start(st)
	require.True(t, r.SelectAttacker(st, board.Coord{}))
	require.True(t, r.AttackTarget(st, board.Coord{Q: 1, R: 1}))

	assert.Equal(t, 1, st.Count(card.FactionHuman))
	assert.Zero(t, st.Count(card.FactionAlien))
	assert.Equal(t, state.PhaseScoring, st.Phase, "a faction with no units ends combat")
	assert.Equal(t, state.WinnerFor(card.FactionHuman), st.Winner)
}

func TestAttackTarget_Rejections(t *testing.T) {
	st := newState(
		unitSpec{faction: card.FactionHuman, at: board.Coord{}, health: 3, damage: 1, attacks: 1, rng: 1},
		unitSpec{faction: card.FactionHuman, at: board.Coord{Q: 1}, health: 3, damage: 1, attacks: 1, rng: 1},
		unitSpec{faction: card.FactionAlien, at: board.Coord{Q: -2}, health: 3, damage: 1, attacks: 0, rng: 1},
		unitSpec{faction: card.FactionAlien, at: board.Coord{R: -1}, health: 3, damage: 1, attacks: 1, rng: 1},
	)
	r := newResolver(dice.NewSequence(), state.StatDamage)

	assert.False(t, r.SelectAttacker(st, board.Coord{}), "not in combat yet")
	r.Start(st)
	assert.False(t, r.AttackTarget(st, board.Coord{R: -1}), "no attacker selected")
	assert.False(t, r.SelectAttacker(st, board.Coord{Q: -2}), "no attacks")
	assert.False(t, r.SelectAttacker(st, board.Coord{Q: 3}), "empty hex")

	require.True(t, r.SelectAttacker(st, board.Coord{}))
	assert.False(t, r.AttackTarget(st, board.Coord{Q: 1}), "same faction")
	assert.False(t, r.AttackTarget(st, board.Coord{Q: -2}), "out of range")
	assert.False(t, r.AttackTarget(st, board.Coord{Q: 2}), "empty hex")

	st.UnitAt(board.Coord{R: -1}).AddTag(card.EventStealth)
	assert.False(t, r.AttackTarget(st, board.Coord{R: -1}), "stealthed")

	for _, u := range st.Units {
		assert.Equal(t, 3, u.Card.Stats.Health)
	}
	assert.Zero(t, st.Cursor)
	assert.Empty(t, st.BattleLog)
}

func TestAttackTarget_BlockAbsorbsFirst(t *testing.T) {
	st := newState(
		unitSpec{faction: card.FactionHuman, at: board.Coord{}, health: 3, damage: 2, attacks: 1, rng: 1},
		unitSpec{faction: card.FactionAlien, at: board.Coord{Q: 1}, health: 3, damage: 1, attacks: 1, rng: 1},
	)
	defender := st.Units[1]
	defender.Block = 1
	defender.AddTag(card.EventArmor)
	r := newResolver(dice.NewSequence(), state.StatDamage)
	r.Start(st)

	require.True(t, r.SelectAttacker(st, board.Coord{}))
	require.True(t, r.AttackTarget(st, board.Coord{Q: 1}))
	assert.Equal(t, 2, defender.Card.Stats.Health)
	assert.Zero(t, defender.Block)
	assert.False(t, defender.HasTag(card.EventArmor))
}

func TestAttackTarget_AttackerLosesStealth(t *testing.T) {
	st := newState(
		unitSpec{faction: card.FactionHuman, at: board.Coord{}, health: 3, damage: 1, attacks: 1, rng: 1},
		unitSpec{faction: card.FactionAlien, at: board.Coord{Q: 1}, health: 3, damage: 1, attacks: 1, rng: 1},
	)
	st.Units[0].AddTag(card.EventStealth)
	r := newResolver(dice.NewSequence(), state.StatDamage)
	r.Start(st)
	require.True(t, r.SelectAttacker(st, board.Coord{}))
	require.True(t, r.AttackTarget(st, board.Coord{Q: 1}))
	assert.True(t, st.Units[0].Targetable())
}

func TestAttackTarget_CursorExhaustionScores(t *testing.T) {
	st := newState(
		unitSpec{faction: card.FactionHuman, at: board.Coord{}, health: 5, damage: 1, attacks: 1, rng: 1, initiative: 2},
		unitSpec{faction: card.FactionAlien, at: board.Coord{Q: 1}, health: 5, damage: 1, attacks: 1, rng: 1, initiative: 1},
	)
	r := newResolver(dice.NewSequence(), state.StatDamage)
	r.Start(st)
	for i := 0; i < 2; i++ {
		require.Equal(t, state.PhaseCombat, st.Phase)
		at := st.CombatOrder[st.Cursor].Hex
		target := st.Units[1].Hex
		if at == target {
			target = st.Units[0].Hex
		}
		require.True(t, r.SelectAttacker(st, at))
		require.True(t, r.AttackTarget(st, target))
	}
	assert.Equal(t, state.PhaseScoring, st.Phase)
	assert.Equal(t, state.WinnerTie, st.Winner)
	assert.False(t, r.SelectAttacker(st, board.Coord{}), "combat is over")
}

func TestAttackTarget_FirstAttackBlock(t *testing.T) {
	st := newState(
		unitSpec{faction: card.FactionHuman, at: board.Coord{}, health: 3, damage: 2, attacks: 2, rng: 1, initiative: 2},
		unitSpec{faction: card.FactionAlien, at: board.Coord{Q: 1}, health: 3, damage: 1, attacks: 1, rng: 1, ability: ability.FirstAttackBlock},
		unitSpec{faction: card.FactionAlien, at: board.Coord{Q: -3}, health: 3, damage: 1, attacks: 1, rng: 1},
	)
	defender := st.Units[1]
	r := newResolver(dice.NewSequence(), state.StatDamage)
	r.Start(st)

	require.True(t, r.SelectAttacker(st, board.Coord{}))
	require.True(t, r.AttackTarget(st, board.Coord{Q: 1}))
	assert.Equal(t, 3, defender.Card.Stats.Health)
	assert.True(t, defender.HasBlockedFirstAttack)

	require.True(t, r.SelectAttacker(st, board.Coord{}))
	require.True(t, r.AttackTarget(st, board.Coord{Q: 1}))
	assert.Equal(t, 1, defender.Card.Stats.Health)
}

func TestBattle_NearestEnemyAndScoring(t *testing.T) {
	st := newState(
		unitSpec{faction: card.FactionHuman, at: board.Coord{}, health: 3, damage: 3, attacks: 2, rng: 3, initiative: 5},
		unitSpec{faction: card.FactionAlien, at: board.Coord{Q: 2}, health: 2, damage: 1, attacks: 1, rng: 1, initiative: 1},
		unitSpec{faction: card.FactionAlien, at: board.Coord{Q: 1}, health: 2, damage: 1, attacks: 1, rng: 1, initiative: 1},
	)
	far, near := st.Units[1], st.Units[2]
	r := newResolver(dice.NewSequence(), state.StatDamage)
	r.Start(st)

	require.True(t, r.Battle(st))
	assert.NotContains(t, st.Units, near)
	assert.NotContains(t, st.Units, far)
	assert.Equal(t, state.PhaseBattleLog, st.Phase)
	assert.Equal(t, 1, st.Scores[card.FactionHuman])
	assert.Zero(t, st.Scores[card.FactionAlien])
	assert.Equal(t, state.WinnerFor(card.FactionHuman), st.Winner)

	first := indexOf(st.BattleLog, near.Label+" dies.")
	second := indexOf(st.BattleLog, far.Label+" dies.")
	require.GreaterOrEqual(t, first, 0)
	assert.Greater(t, second, first, "nearest enemy is attacked first")
	assert.Equal(t, "Humans win!", st.BattleLog[len(st.BattleLog)-1])

	assert.False(t, r.Battle(st), "already resolved")
	require.True(t, r.Continue(st))
	assert.Equal(t, state.PhaseScoring, st.Phase)
	assert.False(t, r.Continue(st))
}

func TestBattle_ResurrectionKeepsAllyAlive(t *testing.T) {
	st := newState(
		unitSpec{faction: card.FactionAlien, at: board.Coord{Q: 1}, health: 3, damage: 1, attacks: 1, rng: 1, initiative: 5},
		unitSpec{faction: card.FactionHuman, at: board.Coord{}, health: 1, damage: 1, attacks: 0, rng: 1},
		unitSpec{faction: card.FactionHuman, at: board.Coord{Q: -1}, health: 2, damage: 1, attacks: 0, rng: 1, ability: ability.FieldMedicResurrection},
	)
	victim := st.Units[1]
	// Intn(100) == 0 passes the resurrection chance.
	r := newResolver(dice.NewSequence(0), state.StatDamage)
	r.Start(st)

	require.True(t, r.Battle(st))
	assert.Contains(t, st.Units, victim)
	assert.Equal(t, 1, victim.Card.Stats.Health)
	assert.True(t, victim.Resurrected)
}

func TestBattle_NoEnemyInRange(t *testing.T) {
	st := newState(
		unitSpec{faction: card.FactionHuman, at: board.Coord{Q: -3}, health: 3, damage: 1, attacks: 3, rng: 1},
		unitSpec{faction: card.FactionAlien, at: board.Coord{Q: 3}, health: 3, damage: 1, attacks: 3, rng: 1},
	)
	r := newResolver(dice.NewSequence(), state.StatDamage)
	r.Start(st)
	require.True(t, r.Battle(st))
	assert.Len(t, st.Units, 2)
	assert.Equal(t, state.WinnerTie, st.Winner)
}

func TestScore_HexValuePlusPoints(t *testing.T) {
	hexes := []*board.Hex{
		{Coord: board.Coord{}, Value: 4},
		{Coord: board.Coord{Q: 1}, Value: 2},
	}
	st := state.New(board.New(hexes), nil, nil, 0)
	st.AddUnit(&card.Card{Faction: card.FactionHuman, Name: "h", Stats: card.Stats{Health: 1, Points: 3}}, board.Coord{})
	st.AddUnit(&card.Card{Faction: card.FactionAlien, Name: "a", Stats: card.Stats{Health: 1, Points: 5}}, board.Coord{Q: 1})

	scores := combat.Score(st)
	assert.Equal(t, 7, scores[card.FactionHuman])
	assert.Equal(t, 7, scores[card.FactionAlien])
	assert.Equal(t, state.WinnerTie, combat.WinnerOf(scores))
}

func TestPropertyBattle_TerminatesWithinAttackBudget(t *testing.T) {
	coords := radiusBoard(3).Hexes()
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(2, 12).Draw(rt, "units")
		picks := rapid.Permutation(coords).Draw(rt, "hexes")[:n]
		var specs []unitSpec
		budget := 0
		for i, h := range picks {
			f := card.FactionHuman
			if i%2 == 1 {
				f = card.FactionAlien
			}
			s := unitSpec{
				faction:    f,
				at:         h.Coord,
				health:     rapid.IntRange(1, 5).Draw(rt, "health"),
				damage:     rapid.IntRange(1, 3).Draw(rt, "damage"),
				attacks:    rapid.IntRange(0, 3).Draw(rt, "attacks"),
				rng:        rapid.IntRange(1, 4).Draw(rt, "range"),
				initiative: rapid.IntRange(0, 5).Draw(rt, "initiative"),
			}
			budget += s.attacks
			specs = append(specs, s)
		}
		st := newState(specs...)
		r := newResolver(dice.NewSequence(), state.StatDamage)
		r.Start(st)
		require.True(rt, r.Battle(st))

		hits := 0
		for _, line := range st.BattleLog {
			if strings.HasSuffix(line, " damage.") && strings.Contains(line, " attacks ") {
				hits++
			}
		}
		assert.LessOrEqual(rt, hits, budget)
		assert.Equal(rt, state.PhaseBattleLog, st.Phase)
		for _, u := range st.Units {
			assert.True(rt, u.Alive())
		}
	})
}

func TestPropertyManual_TerminatesWithinOrder(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 6).Draw(rt, "pairs")
		var specs []unitSpec
		for i := 0; i < n; i++ {
			specs = append(specs,
				unitSpec{faction: card.FactionHuman, at: board.Coord{Q: i - 3, R: 0}, health: 2, damage: 1, attacks: 1, rng: 6, initiative: rapid.IntRange(0, 3).Draw(rt, "hi")},
				unitSpec{faction: card.FactionAlien, at: board.Coord{Q: i - 3, R: 1}, health: 2, damage: 1, attacks: 1, rng: 6, initiative: rapid.IntRange(0, 3).Draw(rt, "ai")},
			)
		}
		st := newState(specs...)
		r := newResolver(dice.NewSequence(), state.StatDamage)
		r.Start(st)

		steps := 0
		for st.Phase == state.PhaseCombat {
			require.LessOrEqual(rt, steps, 2*n, "manual combat did not end")
			require.LessOrEqual(rt, st.Cursor, len(st.CombatOrder))
			attacker := st.CombatOrder[st.Cursor]
			var target *state.Unit
			for _, u := range st.Units {
				if u.Faction() != attacker.Faction() {
					target = u
					break
				}
			}
			require.NotNil(rt, target)
			require.True(rt, r.SelectAttacker(st, attacker.Hex))
			require.True(rt, r.AttackTarget(st, target.Hex))
			steps++
		}
		assert.Equal(rt, state.PhaseScoring, st.Phase)
	})
}

func indexOf(lines []string, want string) int {
	for i, l := range lines {
		if l == want {
			return i
		}
	}
	return -1
}
