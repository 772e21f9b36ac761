package ability

import (
	"github.com/cory-johannsen/hexfront/internal/game/board"
	"github.com/cory-johannsen/hexfront/internal/game/card"
	"github.com/cory-johannsen/hexfront/internal/game/state"
)

// TerrainRule is one entry of the terrain table. The favored faction gains
// Amount on Stat and the other faction loses it. A rule with no favored
// faction applies Amount to every unit.
type TerrainRule struct {
	ID      string
	Terrain board.Terrain
	Stat    state.Stat
	Amount  int
	Favored card.Faction
	// Bonus describes the effect on the favored (or every) faction.
	Bonus string
	// Penalty describes the effect on the disfavored faction.
	Penalty string
}

func (tr TerrainRule) modifierFor(u *state.Unit) state.Modifier {
	m := state.Modifier{
		Stat:        tr.Stat,
		Value:       tr.Amount,
		Kind:        state.Additive,
		Description: tr.Bonus,
		RuleID:      tr.ID,
		Source:      u.ID,
		Target:      u.ID,
	}
	if tr.Favored != "" && u.Faction() != tr.Favored {
		m.Value = -tr.Amount
		m.Description = tr.Penalty
	}
	return m
}

// BuiltinTerrainRules returns the built-in terrain table. Mountains carry no
// rule since no unit can stand on one.
func BuiltinTerrainRules() []TerrainRule {
	return []TerrainRule{
		{ID: "water_terrain", Terrain: board.TerrainWater, Stat: state.StatHealth, Amount: -1, Bonus: "Waterlogged"},
		{ID: "toxic_terrain", Terrain: board.TerrainToxic, Stat: state.StatDamage, Amount: 1, Favored: card.FactionAlien, Bonus: "Toxic boost", Penalty: "Toxic penalty"},
		{ID: "forest_terrain", Terrain: board.TerrainForest, Stat: state.StatRange, Amount: 1, Favored: card.FactionHuman, Bonus: "Forest advantage", Penalty: "Forest hindrance"},
	}
}
