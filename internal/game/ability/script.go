package ability

import (
	"github.com/google/uuid"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/hexfront/internal/game/state"
)

// HookCaller calls a named global function in a script VM.
type HookCaller interface {
	CallHook(hook string, args ...lua.LValue) (lua.LValue, error)
	HasHook(hook string) bool
	// NewTable allocates a table for passing arguments to hooks.
	NewTable() *lua.LTable
}

// ScriptRule returns a derived-stats rule for ability id backed by the Lua
// global function of the same name. The hook is called as
// hook(unit, neighbors) and returns an array of
// {stat, value, kind = "add"|"mul", description, target} tables; target is
// the id of a neighbor and defaults to the unit itself.
// Script errors and malformed entries yield no modifiers.
//
// Precondition: caller and logger must be non-nil.
func ScriptRule(id string, caller HookCaller, logger *zap.Logger) Rule {
	return Rule{
		ID:          id,
		Trigger:     TriggerDerivedStats,
		Description: "Scripted ability " + id + ".",
		Applies:     hasAbility(id),
		Modifiers: func(u *state.Unit, s *state.State) []state.Modifier {
			neighbors := s.Neighbors(u)
			list := caller.NewTable()
			for _, n := range neighbors {
				list.Append(unitTable(caller.NewTable(), n))
			}
			ret, err := caller.CallHook(id, unitTable(caller.NewTable(), u), list)
			if err != nil {
				logger.Warn("scripted ability failed", zap.String("ability", id), zap.Error(err))
				return nil
			}
			tbl, ok := ret.(*lua.LTable)
			if !ok {
				return nil
			}
			valid := map[string]uuid.UUID{u.ID.String(): u.ID}
			for _, n := range neighbors {
				valid[n.ID.String()] = n.ID
			}
			var mods []state.Modifier
			tbl.ForEach(func(_, v lua.LValue) {
				entry, ok := v.(*lua.LTable)
				if !ok {
					return
				}
				m, ok := modifierFromTable(entry, valid)
				if !ok {
					logger.Debug("ignoring malformed scripted modifier", zap.String("ability", id))
					return
				}
				mods = append(mods, m)
			})
			return mods
		},
	}
}

func unitTable(t *lua.LTable, u *state.Unit) *lua.LTable {
	t.RawSetString("id", lua.LString(u.ID.String()))
	t.RawSetString("name", lua.LString(u.Card.Name))
	t.RawSetString("faction", lua.LString(u.Faction()))
	t.RawSetString("q", lua.LNumber(u.Hex.Q))
	t.RawSetString("r", lua.LNumber(u.Hex.R))
	t.RawSetString("health", lua.LNumber(u.Card.Stats.Health))
	t.RawSetString("damage", lua.LNumber(u.Card.Stats.Damage))
	t.RawSetString("attacks", lua.LNumber(u.Card.Stats.Attacks))
	t.RawSetString("range", lua.LNumber(u.Card.Stats.Range))
	t.RawSetString("initiative", lua.LNumber(u.Card.Stats.Initiative))
	return t
}

var scriptStats = map[string]state.Stat{
	"health":     state.StatHealth,
	"damage":     state.StatDamage,
	"attacks":    state.StatAttacks,
	"range":      state.StatRange,
	"initiative": state.StatInitiative,
}

func modifierFromTable(t *lua.LTable, valid map[string]uuid.UUID) (state.Modifier, bool) {
	stat, ok := scriptStats[lua.LVAsString(t.RawGetString("stat"))]
	if !ok {
		return state.Modifier{}, false
	}
	value, ok := t.RawGetString("value").(lua.LNumber)
	if !ok {
		return state.Modifier{}, false
	}
	m := state.Modifier{
		Stat:        stat,
		Value:       int(value),
		Kind:        state.Additive,
		Description: lua.LVAsString(t.RawGetString("description")),
	}
	switch lua.LVAsString(t.RawGetString("kind")) {
	case "", "add":
	case "mul":
		m.Kind = state.Multiplicative
	default:
		return state.Modifier{}, false
	}
	if target := lua.LVAsString(t.RawGetString("target")); target != "" {
		id, ok := valid[target]
		if !ok {
			return state.Modifier{}, false
		}
		m.Target = id
	}
	return m, true
}

// BindScriptRules registers a ScriptRule for every ability id that has no rule
// yet and whose hook caller defines. Ids matching neither are logged and left
// without effect.
//
// Postcondition: Returns the ids bound to scripts, in input order.
func (e *Engine) BindScriptRules(abilityIDs []string, caller HookCaller) []string {
	var bound []string
	for _, id := range abilityIDs {
		if id == "" {
			continue
		}
		if _, ok := e.Rule(id); ok {
			continue
		}
		if caller == nil || !caller.HasHook(id) {
			e.logger.Warn("ability has no rule", zap.String("ability", id))
			continue
		}
		if err := e.AddRule(ScriptRule(id, caller, e.logger)); err != nil {
			continue
		}
		bound = append(bound, id)
	}
	return bound
}
