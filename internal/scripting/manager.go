package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/hexfront/internal/game/dice"
)

// Manager owns one sandboxed LState holding every loaded ability script.
//
// Manager is safe for concurrent use; calls into the VM are serialized.
type Manager struct {
	mu     sync.Mutex
	L      *lua.LState
	limit  int
	hooks  map[string]bool
	src    dice.Source
	logger *zap.Logger
}

// NewManager creates a Manager with no scripts loaded.
//
// Precondition: src and logger must be non-nil.
// Postcondition: Returns a non-nil Manager; panics on nil arguments.
func NewManager(src dice.Source, logger *zap.Logger) *Manager {
	if src == nil {
		panic("scripting.NewManager: src must not be nil")
	}
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{
		hooks:  make(map[string]bool),
		src:    src,
		logger: logger,
	}
}

// Load replaces the VM with a fresh sandbox, registers the engine.* modules,
// then executes every *.lua file in scriptDir in lexicographic order. Global
// functions defined by the scripts become callable hooks.
//
// Precondition: scriptDir must be a readable directory; instLimit >= 0 (0 uses
// DefaultInstructionLimit) and bounds each file load and each hook call.
// Postcondition: Returns an error on read or Lua load failure, leaving any
// previously loaded VM in place.
func (m *Manager) Load(scriptDir string, instLimit int) error {
	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q: %w", scriptDir, err)
	}
	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	L := NewSandboxedState()
	m.RegisterModules(L)
	builtin := globalFunctions(L)

	for _, path := range luaFiles {
		err := Limited(L, instLimit, func() error { return L.DoFile(path) })
		if err != nil {
			L.Close()
			return fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}

	hooks := make(map[string]bool)
	for name := range globalFunctions(L) {
		if !builtin[name] {
			hooks[name] = true
		}
	}

	m.mu.Lock()
	if m.L != nil {
		m.L.Close()
	}
	m.L = L
	m.limit = instLimit
	m.hooks = hooks
	m.mu.Unlock()

	m.logger.Info("ability scripts loaded",
		zap.String("dir", scriptDir),
		zap.Int("files", len(luaFiles)),
		zap.Int("hooks", len(hooks)),
	)
	return nil
}

func globalFunctions(L *lua.LState) map[string]bool {
	out := make(map[string]bool)
	L.G.Global.ForEach(func(k, v lua.LValue) {
		if _, ok := v.(*lua.LFunction); ok {
			out[k.String()] = true
		}
	})
	return out
}

// Hooks returns the names of the global functions defined by loaded scripts,
// sorted.
func (m *Manager) Hooks() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.hooks))
	for name := range m.hooks {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// HasHook reports whether a loaded script defines the global function hook.
func (m *Manager) HasHook(hook string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hooks[hook]
}

// NewTable allocates an empty Lua table for hook arguments.
func (m *Manager) NewTable() *lua.LTable {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.L == nil {
		tmp := lua.NewState(lua.Options{SkipOpenLibs: true})
		defer tmp.Close()
		return tmp.NewTable()
	}
	return m.L.NewTable()
}

// CallHook calls the named Lua global function with a fresh instruction
// budget. Returns (LNil, nil) if no scripts are loaded or the hook is not
// defined. Lua runtime errors, including an exhausted budget, are logged at
// Warn level and never propagated.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil. A Lua
// runtime error or an exhausted instruction budget returns LNil and a wrapped
// error; the VM stays usable.
func (m *Manager) CallHook(hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.L == nil {
		m.logger.Info("scripting: no scripts loaded", zap.String("hook", hook))
		return lua.LNil, nil
	}
	L := m.L
	fn := L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	err := Limited(L, m.limit, func() error {
		return L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...)
	})
	if err != nil {
		L.SetTop(0)
		return lua.LNil, fmt.Errorf("scripting: calling hook %q: %w", hook, err)
	}

	ret := L.Get(-1)
	L.Pop(1)
	return ret, nil
}

// Close releases the VM. Subsequent CallHook calls return LNil.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.L != nil {
		m.L.Close()
		m.L = nil
	}
	m.hooks = make(map[string]bool)
}
