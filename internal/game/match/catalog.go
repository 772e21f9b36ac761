package match

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/hexfront/internal/config"
	"github.com/cory-johannsen/hexfront/internal/game/ability"
	"github.com/cory-johannsen/hexfront/internal/game/card"
	"github.com/cory-johannsen/hexfront/internal/game/dice"
	"github.com/cory-johannsen/hexfront/internal/scripting"
)

// Catalog is the content shared by every match of a process: the card pool,
// the event deck definition and the ability engine with its scripted rules.
type Catalog struct {
	Pool    *card.Pool
	Events  []card.EventDef
	Engine  *ability.Engine
	Scripts *scripting.Manager
}

// LoadCatalog loads the content named by cfg and binds every card ability
// without a built-in rule to the Lua hook of the same name.
//
// Precondition: src must be safe for concurrent use when the catalog is
// shared by concurrent matches; logger must be non-nil.
// Postcondition: Returns a Catalog or the first loading error. Scripts is nil
// when cfg.ScriptsDir is empty.
func LoadCatalog(cfg config.ContentConfig, src dice.Source, logger *zap.Logger) (*Catalog, error) {
	pool, err := card.LoadPool(cfg.CardsDir)
	if err != nil {
		return nil, fmt.Errorf("loading card pool: %w", err)
	}
	defs, err := card.LoadEventDefs(cfg.EventsFile)
	if err != nil {
		return nil, fmt.Errorf("loading event deck: %w", err)
	}
	cat := &Catalog{
		Pool:   pool,
		Events: defs,
		Engine: ability.NewDefaultEngine(src, logger),
	}
	if cfg.ScriptsDir != "" {
		cat.Scripts = scripting.NewManager(src, logger)
		if err := cat.Scripts.Load(cfg.ScriptsDir, cfg.InstructionLimit); err != nil {
			return nil, fmt.Errorf("loading ability scripts: %w", err)
		}
	}

	var ids []string
	for _, f := range card.Factions {
		for _, c := range pool.Cards(f) {
			ids = append(ids, c.AbilityID)
		}
	}
	var caller ability.HookCaller
	if cat.Scripts != nil {
		caller = cat.Scripts
	}
	bound := cat.Engine.BindScriptRules(ids, caller)
	logger.Info("catalog loaded",
		zap.Int("human_cards", len(pool.Cards(card.FactionHuman))),
		zap.Int("alien_cards", len(pool.Cards(card.FactionAlien))),
		zap.Int("event_kinds", len(defs)),
		zap.Strings("scripted_abilities", bound),
	)
	return cat, nil
}

// NewMatch deals a new match from the catalog.
func (c *Catalog) NewMatch(cfg config.Config, src dice.Source, logger *zap.Logger) (*Match, error) {
	return New(cfg, c.Pool, c.Events, c.Engine, src, logger)
}

// Close releases the script VM.
func (c *Catalog) Close() {
	if c.Scripts != nil {
		c.Scripts.Close()
	}
}
