package ability

import (
	"github.com/cory-johannsen/hexfront/internal/game/dice"
	"github.com/cory-johannsen/hexfront/internal/game/state"
)

// Built-in ability rule ids.
const (
	LeadershipAttacks      = "leadership_attacks"
	IsolationDoubleAttacks = "isolation_double_attacks"
	FocusDamage            = "focus_damage"
	PsychicInterference    = "psychic_interference"
	LeadershipRange        = "leadership_range"
	FirstAttackBlock       = "first_attack_block"
	FieldMedicResurrection = "field_medic_resurrection"
	OverchargeDamage       = "overcharge_damage"
)

const (
	resurrectionChance = 30
	overchargeChance   = 25
	overchargeBonus    = 2
)

// hasAbility returns an Applies predicate matching cards that carry id.
func hasAbility(id string) func(*state.Unit, *state.State) bool {
	return func(u *state.Unit, _ *state.State) bool {
		return u.Card.AbilityID == id
	}
}

// BuiltinRules returns the built-in ability rule table in evaluation order.
func BuiltinRules() []Rule {
	return []Rule{
		{
			ID:          LeadershipAttacks,
			Trigger:     TriggerDerivedStats,
			Description: "Adjacent allies gain +1 attack.",
			Applies:     hasAbility(LeadershipAttacks),
			Modifiers: func(u *state.Unit, s *state.State) []state.Modifier {
				var mods []state.Modifier
				for _, n := range s.Neighbors(u) {
					if n.Faction() == u.Faction() {
						mods = append(mods, state.Modifier{
							Stat: state.StatAttacks, Value: 1, Kind: state.Additive,
							Description: "Leadership", Target: n.ID,
						})
					}
				}
				return mods
			},
		},
		{
			ID:          IsolationDoubleAttacks,
			Trigger:     TriggerDerivedStats,
			Description: "Double attacks with no adjacent ally.",
			Applies:     hasAbility(IsolationDoubleAttacks),
			Modifiers: func(u *state.Unit, s *state.State) []state.Modifier {
				for _, n := range s.Neighbors(u) {
					if n.Faction() == u.Faction() {
						return nil
					}
				}
				return []state.Modifier{{
					Stat: state.StatAttacks, Value: 2, Kind: state.Multiplicative,
					Description: "Isolation bonus",
				}}
			},
		},
		{
			ID:          FocusDamage,
			Trigger:     TriggerDerivedStats,
			Description: "+1 damage when adjacent to exactly one character.",
			Applies:     hasAbility(FocusDamage),
			Modifiers: func(u *state.Unit, s *state.State) []state.Modifier {
				if len(s.Neighbors(u)) != 1 {
					return nil
				}
				return []state.Modifier{{
					Stat: state.StatDamage, Value: 1, Kind: state.Additive,
					Description: "Focus bonus",
				}}
			},
		},
		{
			ID:          PsychicInterference,
			Trigger:     TriggerDerivedStats,
			Description: "Adjacent enemies lose 1 range.",
			Applies:     hasAbility(PsychicInterference),
			Modifiers: func(u *state.Unit, s *state.State) []state.Modifier {
				var mods []state.Modifier
				for _, n := range s.Neighbors(u) {
					if n.Faction() != u.Faction() {
						mods = append(mods, state.Modifier{
							Stat: state.StatRange, Value: -1, Kind: state.Additive,
							Description: "Psychic interference", Target: n.ID,
						})
					}
				}
				return mods
			},
		},
		{
			ID:          LeadershipRange,
			Trigger:     TriggerDerivedStats,
			Description: "Adjacent allies gain +1 range.",
			Applies:     hasAbility(LeadershipRange),
			Modifiers: func(u *state.Unit, s *state.State) []state.Modifier {
				var mods []state.Modifier
				for _, n := range s.Neighbors(u) {
					if n.Faction() == u.Faction() {
						mods = append(mods, state.Modifier{
							Stat: state.StatRange, Value: 1, Kind: state.Additive,
							Description: "Warlord leadership", Target: n.ID,
						})
					}
				}
				return mods
			},
		},
		{
			ID:          FirstAttackBlock,
			Trigger:     TriggerBeforeDamage,
			Description: "Blocks the first attack received.",
			Applies: func(u *state.Unit, _ *state.State) bool {
				return u.Card.AbilityID == FirstAttackBlock && !u.HasBlockedFirstAttack
			},
			Resolve: func(owner, _ *state.Unit, _ *state.State, _ dice.Source) int {
				owner.HasBlockedFirstAttack = true
				return 1
			},
		},
		{
			ID:          FieldMedicResurrection,
			Trigger:     TriggerOnDeath,
			Description: "Adjacent allies may survive a killing blow once.",
			Applies:     hasAbility(FieldMedicResurrection),
			Resolve: func(medic, dying *state.Unit, _ *state.State, src dice.Source) int {
				if medic == dying || dying.Resurrected || dying.Faction() != medic.Faction() {
					return 0
				}
				if !dying.AdjacentTo(medic) {
					return 0
				}
				// The chance is spent whether or not it succeeds.
				dying.Resurrected = true
				if !dice.Chance(src, resurrectionChance) {
					return 0
				}
				dying.Card.Stats.Health = 1
				return 1
			},
		},
		{
			ID:          OverchargeDamage,
			Trigger:     TriggerAttackBonus,
			Description: "25% chance to deal +2 damage.",
			Applies:     hasAbility(OverchargeDamage),
			Resolve: func(_, _ *state.Unit, _ *state.State, src dice.Source) int {
				if dice.Chance(src, overchargeChance) {
					return overchargeBonus
				}
				return 0
			},
		},
	}
}
