package ability_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/hexfront/internal/game/ability"
	"github.com/cory-johannsen/hexfront/internal/game/board"
	"github.com/cory-johannsen/hexfront/internal/game/card"
	"github.com/cory-johannsen/hexfront/internal/game/dice"
	"github.com/cory-johannsen/hexfront/internal/game/state"
)

// testBoard is a radius-3 grass board with the given terrain overrides.
func testBoard(terrain map[board.Coord]board.Terrain) *board.Board {
	var hexes []*board.Hex
	for q := -3; q <= 3; q++ {
		for r := -3; r <= 3; r++ {
			if q+r > 3 || q+r < -3 {
				continue
			}
			c := board.Coord{Q: q, R: r}
			t := board.TerrainGrass
			if tt, ok := terrain[c]; ok {
				t = tt
			}
			hexes = append(hexes, &board.Hex{Coord: c, Terrain: t})
		}
	}
	return board.New(hexes)
}

func unitCard(f card.Faction, abilityID string, hp, dmg, attacks, rng int) *card.Card {
	return &card.Card{
		ID: "c", Faction: f, Name: string(f) + ":" + abilityID, AbilityID: abilityID,
		Stats: card.Stats{Health: hp, Damage: dmg, Attacks: attacks, Range: rng, Initiative: 1},
	}
}

func newEngine(src dice.Source) *ability.Engine {
	return ability.NewDefaultEngine(src, zap.NewNop())
}

func TestCompose_OrderLaw(t *testing.T) {
	mods := []state.Modifier{
		{Stat: state.StatAttacks, Value: 2, Kind: state.Multiplicative},
		{Stat: state.StatAttacks, Value: 1, Kind: state.Additive},
	}
	assert.Equal(t, 6, ability.Compose(2, state.StatAttacks, mods), "(2+1)x2, not 2x2+1")
}

func TestFold_Floors(t *testing.T) {
	base := state.DerivedStats{Health: 1, Damage: 1, Attacks: 1, Range: 1, Initiative: 1}
	mods := []state.Modifier{
		{Stat: state.StatHealth, Value: -3},
		{Stat: state.StatDamage, Value: -3},
		{Stat: state.StatRange, Value: -3},
		{Stat: state.StatAttacks, Value: -3},
	}
	got := ability.Fold(base, mods)
	assert.Equal(t, 1, got.Health)
	assert.Equal(t, 1, got.Damage)
	assert.Equal(t, 1, got.Range)
	assert.Equal(t, 0, got.Attacks)
}

func TestLeadershipAttacks_OnlyAdjacentAllies(t *testing.T) {
	s := state.New(testBoard(nil), nil, nil, 3)
	general := s.AddUnit(unitCard(card.FactionHuman, ability.LeadershipAttacks, 3, 2, 2, 2), board.Coord{})
	adjacent := s.AddUnit(unitCard(card.FactionHuman, "", 1, 1, 1, 1), board.Coord{Q: 1})
	far := s.AddUnit(unitCard(card.FactionHuman, "", 1, 1, 1, 1), board.Coord{Q: 2})
	enemy := s.AddUnit(unitCard(card.FactionAlien, "", 1, 1, 1, 1), board.Coord{R: 1})

	newEngine(dice.NewSequence()).ComputeDerivedStats(s)

	assert.Equal(t, 2, general.Derived.Attacks, "never the source itself")
	assert.Equal(t, 2, adjacent.Derived.Attacks)
	assert.Equal(t, 1, far.Derived.Attacks, "only distance exactly 1")
	assert.Equal(t, 1, enemy.Derived.Attacks, "never the opposing faction")
	require.Len(t, adjacent.Modifiers, 1)
	assert.Equal(t, general.ID, adjacent.Modifiers[0].Source)
	assert.Equal(t, ability.LeadershipAttacks, adjacent.Modifiers[0].RuleID)
}

func TestIsolation_ComposesAfterAdditiveRule(t *testing.T) {
	s := state.New(testBoard(nil), nil, nil, 3)
	pilot := s.AddUnit(unitCard(card.FactionAlien, ability.IsolationDoubleAttacks, 2, 3, 2, 1), board.Coord{})
	e := newEngine(dice.NewSequence())
	require.NoError(t, e.AddRule(ability.Rule{
		ID:      "drill",
		Trigger: ability.TriggerDerivedStats,
		Applies: func(u *state.Unit, _ *state.State) bool { return u == pilot },
		Modifiers: func(*state.Unit, *state.State) []state.Modifier {
			return []state.Modifier{{Stat: state.StatAttacks, Value: 1, Kind: state.Additive}}
		},
	}))

	e.ComputeDerivedStats(s)
	assert.Equal(t, 6, pilot.Derived.Attacks, "(2+1)x2")
}

func TestIsolation_LostNextToAlly(t *testing.T) {
	s := state.New(testBoard(nil), nil, nil, 3)
	pilot := s.AddUnit(unitCard(card.FactionAlien, ability.IsolationDoubleAttacks, 2, 3, 2, 1), board.Coord{})
	e := newEngine(dice.NewSequence())
	e.ComputeDerivedStats(s)
	assert.Equal(t, 4, pilot.Derived.Attacks)

	s.AddUnit(unitCard(card.FactionHuman, "", 1, 1, 1, 1), board.Coord{Q: 1})
	e.ComputeDerivedStats(s)
	assert.Equal(t, 4, pilot.Derived.Attacks, "an adjacent enemy keeps the bonus")

	s.AddUnit(unitCard(card.FactionAlien, "", 1, 1, 1, 1), board.Coord{Q: -1})
	e.ComputeDerivedStats(s)
	assert.Equal(t, 2, pilot.Derived.Attacks)
}

func TestLeadershipNextToIsolatedPilot_CancelsBonus(t *testing.T) {
	s := state.New(testBoard(nil), nil, nil, 3)
	s.AddUnit(unitCard(card.FactionAlien, ability.LeadershipAttacks, 3, 1, 1, 1), board.Coord{})
	pilot := s.AddUnit(unitCard(card.FactionAlien, ability.IsolationDoubleAttacks, 2, 3, 2, 1), board.Coord{Q: 1})

	newEngine(dice.NewSequence()).ComputeDerivedStats(s)
	assert.Equal(t, 3, pilot.Derived.Attacks, "leader is an adjacent ally: +1, no doubling")
}

func TestFocusDamage(t *testing.T) {
	s := state.New(testBoard(nil), nil, nil, 3)
	sniper := s.AddUnit(unitCard(card.FactionHuman, ability.FocusDamage, 1, 1, 2, 4), board.Coord{})
	e := newEngine(dice.NewSequence())

	e.ComputeDerivedStats(s)
	assert.Equal(t, 1, sniper.Derived.Damage)

	s.AddUnit(unitCard(card.FactionAlien, "", 1, 1, 1, 1), board.Coord{Q: 1})
	e.ComputeDerivedStats(s)
	assert.Equal(t, 2, sniper.Derived.Damage)

	s.AddUnit(unitCard(card.FactionHuman, "", 1, 1, 1, 1), board.Coord{Q: -1})
	e.ComputeDerivedStats(s)
	assert.Equal(t, 1, sniper.Derived.Damage)
}

func TestPsychicInterferenceAndLeadershipRange(t *testing.T) {
	s := state.New(testBoard(nil), nil, nil, 3)
	s.AddUnit(unitCard(card.FactionAlien, ability.PsychicInterference, 3, 2, 1, 1), board.Coord{})
	human := s.AddUnit(unitCard(card.FactionHuman, "", 1, 1, 1, 1), board.Coord{Q: 1})
	s.AddUnit(unitCard(card.FactionAlien, ability.LeadershipRange, 2, 3, 1, 5), board.Coord{Q: 2, R: -1})
	ally := s.AddUnit(unitCard(card.FactionAlien, "", 1, 1, 1, 2), board.Coord{Q: 2, R: -2})

	newEngine(dice.NewSequence()).ComputeDerivedStats(s)
	assert.Equal(t, 1, human.Derived.Range, "range floored at 1")
	assert.Equal(t, 3, ally.Derived.Range)
}

func TestTerrainRules(t *testing.T) {
	water := board.Coord{Q: 0}
	toxic := board.Coord{Q: 1}
	forest := board.Coord{Q: 2}
	toxic2 := board.Coord{Q: -1}
	forest2 := board.Coord{Q: -2}
	s := state.New(testBoard(map[board.Coord]board.Terrain{
		water: board.TerrainWater, toxic: board.TerrainToxic, forest: board.TerrainForest,
		toxic2: board.TerrainToxic, forest2: board.TerrainForest,
	}), nil, nil, 3)

	wet := s.AddUnit(unitCard(card.FactionAlien, "", 3, 2, 1, 2), water)
	alienToxic := s.AddUnit(unitCard(card.FactionAlien, "", 3, 2, 1, 2), toxic)
	humanForest := s.AddUnit(unitCard(card.FactionHuman, "", 3, 2, 1, 2), forest)
	humanToxic := s.AddUnit(unitCard(card.FactionHuman, "", 3, 2, 1, 2), toxic2)
	alienForest := s.AddUnit(unitCard(card.FactionAlien, "", 3, 2, 1, 2), forest2)

	newEngine(dice.NewSequence()).ComputeDerivedStats(s)
	assert.Equal(t, 2, wet.Derived.Health)
	assert.Equal(t, 3, alienToxic.Derived.Damage)
	assert.Equal(t, 1, humanToxic.Derived.Damage)
	assert.Equal(t, 3, humanForest.Derived.Range)
	assert.Equal(t, 1, alienForest.Derived.Range)
}

func TestComputeDerivedStats_ClearsStaleModifiers(t *testing.T) {
	s := state.New(testBoard(nil), nil, nil, 3)
	general := s.AddUnit(unitCard(card.FactionHuman, ability.LeadershipAttacks, 3, 2, 2, 2), board.Coord{})
	ally := s.AddUnit(unitCard(card.FactionHuman, "", 1, 1, 1, 1), board.Coord{Q: 1})
	e := newEngine(dice.NewSequence())
	e.ComputeDerivedStats(s)
	require.Equal(t, 2, ally.Derived.Attacks)

	s.RemoveUnit(general)
	e.ComputeDerivedStats(s)
	assert.Empty(t, ally.Modifiers)
	assert.Equal(t, 1, ally.Derived.Attacks)
}

func TestAbsorbs_FirstAttackOnly(t *testing.T) {
	s := state.New(testBoard(nil), nil, nil, 3)
	vor := s.AddUnit(unitCard(card.FactionAlien, ability.FirstAttackBlock, 2, 3, 1, 1), board.Coord{})
	e := newEngine(dice.NewSequence())

	id, ok := e.Absorbs(vor, s)
	assert.True(t, ok)
	assert.Equal(t, ability.FirstAttackBlock, id)
	assert.True(t, vor.HasBlockedFirstAttack)
	_, ok = e.Absorbs(vor, s)
	assert.False(t, ok)
}

func TestSurvives_MedicResurrection(t *testing.T) {
	s := state.New(testBoard(nil), nil, nil, 3)
	medic := s.AddUnit(unitCard(card.FactionHuman, ability.FieldMedicResurrection, 5, 1, 1, 1), board.Coord{})
	ally := s.AddUnit(unitCard(card.FactionHuman, "", 1, 4, 1, 1), board.Coord{Q: 1})
	// 29 < 30 succeeds
	e := newEngine(dice.NewSequence(29))

	ally.Card.Stats.Health = 0
	id, by, ok := e.Survives(ally, s)
	require.True(t, ok)
	assert.Equal(t, ability.FieldMedicResurrection, id)
	assert.Same(t, medic, by)
	assert.Equal(t, 1, ally.Card.Stats.Health)
	assert.True(t, ally.Resurrected)

	ally.Card.Stats.Health = 0
	_, _, ok = e.Survives(ally, s)
	assert.False(t, ok, "once per unit")
}

func TestSurvives_FailedRollAndIneligible(t *testing.T) {
	s := state.New(testBoard(nil), nil, nil, 3)
	medic := s.AddUnit(unitCard(card.FactionHuman, ability.FieldMedicResurrection, 5, 1, 1, 1), board.Coord{})
	ally := s.AddUnit(unitCard(card.FactionHuman, "", 1, 4, 1, 1), board.Coord{Q: 1})
	enemy := s.AddUnit(unitCard(card.FactionAlien, "", 1, 4, 1, 1), board.Coord{R: 1})
	farAlly := s.AddUnit(unitCard(card.FactionHuman, "", 1, 4, 1, 1), board.Coord{Q: 3})
	e := newEngine(dice.NewSequence(30, 0, 0, 0))

	_, _, ok := e.Survives(ally, s)
	assert.False(t, ok, "30 is not below 30")
	_, _, ok = e.Survives(enemy, s)
	assert.False(t, ok)
	_, _, ok = e.Survives(farAlly, s)
	assert.False(t, ok)
	_, _, ok = e.Survives(medic, s)
	assert.False(t, ok, "a medic cannot save itself")
}

func TestAttackBonus(t *testing.T) {
	s := state.New(testBoard(nil), nil, nil, 3)
	jack := s.AddUnit(unitCard(card.FactionHuman, ability.OverchargeDamage, 1, 4, 1, 1), board.Coord{})
	plain := s.AddUnit(unitCard(card.FactionHuman, "", 1, 4, 1, 1), board.Coord{Q: 1})
	e := newEngine(dice.NewSequence(24, 25))

	bonus, fired := e.AttackBonus(jack, s)
	assert.Equal(t, 2, bonus)
	assert.Equal(t, []string{ability.OverchargeDamage}, fired)
	bonus, fired = e.AttackBonus(jack, s)
	assert.Zero(t, bonus)
	assert.Empty(t, fired)
	bonus, _ = e.AttackBonus(plain, s)
	assert.Zero(t, bonus)
}

func TestNarratives(t *testing.T) {
	s := state.New(testBoard(map[board.Coord]board.Terrain{{Q: 1}: board.TerrainWater}), nil, nil, 3)
	general := s.AddUnit(unitCard(card.FactionHuman, ability.LeadershipAttacks, 3, 2, 2, 2), board.Coord{})
	general.Label = "General Johnson"
	ally := s.AddUnit(unitCard(card.FactionHuman, "", 2, 1, 1, 1), board.Coord{Q: 1})
	ally.Label = "Nurse Tender"
	e := newEngine(dice.NewSequence())
	e.ComputeDerivedStats(s)

	assert.Equal(t, []string{"General Johnson gives Nurse Tender +1 attacks (Leadership)."}, e.Narratives(s))
}

func TestAddRule_RejectsDuplicate(t *testing.T) {
	e := newEngine(dice.NewSequence())
	assert.Error(t, e.AddRule(ability.Rule{ID: ability.FocusDamage}))
}

func TestPropertyComputeDerivedStats_PureAndFloored(t *testing.T) {
	abilities := []string{"",
		ability.LeadershipAttacks, ability.IsolationDoubleAttacks, ability.FocusDamage,
		ability.PsychicInterference, ability.LeadershipRange,
	}
	terrains := []board.Terrain{board.TerrainGrass, board.TerrainWater, board.TerrainForest, board.TerrainToxic}
	rapid.Check(t, func(rt *rapid.T) {
		overrides := map[board.Coord]board.Terrain{}
		b := testBoard(nil)
		for _, h := range b.Hexes() {
			overrides[h.Coord] = terrains[rapid.IntRange(0, len(terrains)-1).Draw(rt, "terrain")]
		}
		s := state.New(testBoard(overrides), nil, nil, 3)
		n := rapid.IntRange(0, 12).Draw(rt, "units")
		for i, h := range s.Board.Hexes() {
			if i >= n {
				break
			}
			f := card.Factions[rapid.IntRange(0, 1).Draw(rt, "faction")]
			a := abilities[rapid.IntRange(0, len(abilities)-1).Draw(rt, "ability")]
			s.AddUnit(unitCard(f, a,
				rapid.IntRange(1, 5).Draw(rt, "hp"),
				rapid.IntRange(1, 5).Draw(rt, "dmg"),
				rapid.IntRange(0, 3).Draw(rt, "attacks"),
				rapid.IntRange(1, 5).Draw(rt, "range"),
			), h.Coord)
		}

		e := newEngine(dice.NewSequence())
		e.ComputeDerivedStats(s)
		first := make([]state.DerivedStats, len(s.Units))
		for i, u := range s.Units {
			first[i] = u.Derived
			assert.GreaterOrEqual(rt, u.Derived.Range, 1)
			assert.GreaterOrEqual(rt, u.Derived.Damage, 1)
			assert.GreaterOrEqual(rt, u.Derived.Health, 1)
		}
		e.ComputeDerivedStats(s)
		for i, u := range s.Units {
			assert.Equal(rt, first[i], u.Derived)
		}
	})
}
