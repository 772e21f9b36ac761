// Package match owns one match state and orchestrates the placement, event
// and combat subsystems behind the public game operations.
package match

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/hexfront/internal/config"
	"github.com/cory-johannsen/hexfront/internal/game/ability"
	"github.com/cory-johannsen/hexfront/internal/game/board"
	"github.com/cory-johannsen/hexfront/internal/game/card"
	"github.com/cory-johannsen/hexfront/internal/game/combat"
	"github.com/cory-johannsen/hexfront/internal/game/dice"
	"github.com/cory-johannsen/hexfront/internal/game/event"
	"github.com/cory-johannsen/hexfront/internal/game/placement"
	"github.com/cory-johannsen/hexfront/internal/game/state"
	"github.com/cory-johannsen/hexfront/internal/observability"
)

// Match is the game controller of a single match. It is not safe for
// concurrent use; every operation runs to completion before returning.
type Match struct {
	st        *state.State
	engine    *ability.Engine
	events    *event.System
	placement *placement.Controller
	combat    *combat.Resolver
	logger    *zap.Logger
	onUpdate  func(*state.State)
}

// New deals a fresh match: a generated board, a weighted deck per faction and
// a shuffled event deck.
//
// Precondition: cfg must be valid; pool, engine, src and logger must be non-nil.
// Postcondition: Returns a Match in the placement phase or an error if a
// faction has no drawable cards.
func New(cfg config.Config, pool *card.Pool, eventDefs []card.EventDef, engine *ability.Engine, src dice.Source, logger *zap.Logger) (*Match, error) {
	b := board.Generate(board.Options{
		Radius:      cfg.Board.Radius,
		ValueRadius: cfg.Board.ValueRadius,
		MaxHexValue: cfg.Board.MaxHexValue,
		Mountains:   cfg.Board.Mountains,
		Water:       cfg.Board.Water,
		Forest:      cfg.Board.Forest,
		Toxic:       cfg.Board.Toxic,
	}, src)

	decks := make(map[card.Faction][]*card.Card, len(card.Factions))
	for _, f := range card.Factions {
		d, err := pool.BuildDeck(f, cfg.Rules.DeckSize, src)
		if err != nil {
			return nil, fmt.Errorf("building %s deck: %w", f, err)
		}
		decks[f] = d
	}
	st := state.New(b, decks, card.BuildEventDeck(eventDefs, src), cfg.Rules.SkipTokens)
	return NewFromState(st, cfg.Rules, pool, engine, src, logger), nil
}

// NewFromState wraps an existing state, wiring the subsystems with rules.
//
// Precondition: st, pool, engine, src and logger must be non-nil.
func NewFromState(st *state.State, rules config.RulesConfig, pool *card.Pool, engine *ability.Engine, src dice.Source, logger *zap.Logger) *Match {
	logger = observability.ForMatch(logger, st.ID.String())
	m := &Match{st: st, engine: engine, logger: logger}
	m.combat = combat.NewResolver(engine, state.Stat(rules.ManualDamageStat), logger)
	m.events = event.NewSystem(engine, pool, src, logger, func(s *state.State) {
		m.placement.AdvanceTurn(s)
	})
	m.placement = placement.NewController(
		placement.Rules{Quota: rules.PlacementQuota, HandSize: rules.HandSize},
		engine, m.events, m.combat, logger,
	)
	engine.ComputeDerivedStats(st)
	logger.Info("match dealt",
		zap.Int("hexes", st.Board.Len()),
		zap.Int("human_deck", st.DeckSize(card.FactionHuman)),
		zap.Int("alien_deck", st.DeckSize(card.FactionAlien)),
		zap.Int("events", len(st.EventDeck)),
	)
	return m
}

// OnUpdate registers fn to be called after every applied operation.
func (m *Match) OnUpdate(fn func(*state.State)) {
	m.onUpdate = fn
}

// State returns the match state for presentation. Callers must not modify it.
func (m *Match) State() *state.State {
	return m.st
}

// Engine returns the ability engine used by the match.
func (m *Match) Engine() *ability.Engine {
	return m.engine
}

// notify fires the update callback when applied is true and returns applied.
func (m *Match) notify(op string, applied bool) bool {
	if !applied {
		m.logger.Debug("operation not applied", zap.String("op", op), zap.String("phase", string(m.st.Phase)))
		return false
	}
	if m.onUpdate != nil {
		m.onUpdate(m.st)
	}
	return true
}

// DrawCards draws a hand for the active faction.
func (m *Match) DrawCards() bool {
	return m.notify("draw", m.placement.Draw(m.st))
}

// SelectCard selects hand card index for placement.
func (m *Match) SelectCard(index int) bool {
	return m.notify("select", m.placement.Select(m.st, index))
}

// DeselectCard returns the selected card to the hand.
func (m *Match) DeselectCard() bool {
	return m.notify("deselect", m.placement.Deselect(m.st))
}

// Place puts the selected card on c.
func (m *Match) Place(c board.Coord) bool {
	return m.notify("place", m.placement.Place(m.st, c))
}

// LegalHexes returns the hexes a card may currently be placed on.
func (m *Match) LegalHexes() []board.Coord {
	return m.st.LegalHexes()
}

// DrawEvent draws the next event card when none is pending.
func (m *Match) DrawEvent() bool {
	return m.notify("draw event", m.events.Draw(m.st))
}

// PlayEvent plays the pending event.
func (m *Match) PlayEvent() bool {
	return m.notify("play event", m.events.Play(m.st))
}

// EventTargets returns the legal targets of the pending targeted event.
func (m *Match) EventTargets() []board.Coord {
	if !m.st.Targeting.Pending() {
		return nil
	}
	return m.events.Targets(m.st)
}

// ApplyEventToTarget resolves the pending targeted event against c.
func (m *Match) ApplyEventToTarget(c board.Coord) bool {
	return m.notify("target", m.events.ApplyToTarget(m.st, c))
}

// SkipEvent spends a skip token to discard the pending event.
func (m *Match) SkipEvent() bool {
	return m.notify("skip", m.events.Skip(m.st))
}

// SelectAttacker selects the manual attacker at c.
func (m *Match) SelectAttacker(c board.Coord) bool {
	return m.notify("attacker", m.combat.SelectAttacker(m.st, c))
}

// AttackTarget performs a manual attack on c.
func (m *Match) AttackTarget(c board.Coord) bool {
	return m.notify("attack", m.combat.AttackTarget(m.st, c))
}

// StartBattle resolves the battle automatically. It is accepted during
// combat, or during placement once every card has been placed.
func (m *Match) StartBattle() bool {
	switch {
	case m.st.Phase == state.PhaseCombat:
	case m.st.Phase == state.PhasePlacement && m.placement.AllCardsPlaced(m.st):
		m.combat.Start(m.st)
	default:
		return m.notify("battle", false)
	}
	return m.notify("battle", m.combat.Battle(m.st))
}

// Continue moves from the battle log to the scoring phase.
func (m *Match) Continue() bool {
	return m.notify("continue", m.combat.Continue(m.st))
}

// AutoPlaceAll finishes the placement phase automatically.
func (m *Match) AutoPlaceAll() bool {
	return m.notify("auto", m.placement.AutoPlaceAll(m.st))
}

// AllCardsPlaced reports whether both factions have nothing left to place.
func (m *Match) AllCardsPlaced() bool {
	return m.placement.AllCardsPlaced(m.st)
}

// Narratives describes the ability effects currently in play.
func (m *Match) Narratives() []string {
	return m.engine.Narratives(m.st)
}

// Result summarizes a finished match.
type Result struct {
	Winner state.Winner
	Scores map[card.Faction]int
	Turns  int
	Units  int
}

// PlayOut plays the rest of the match automatically: placement, the
// automatic battle and the move to scoring.
//
// Postcondition: The phase is scoring.
func (m *Match) PlayOut() Result {
	if m.st.Phase == state.PhasePlacement {
		m.AutoPlaceAll()
	}
	if m.st.Phase == state.PhaseCombat {
		m.StartBattle()
	}
	m.Continue()
	return Result{
		Winner: m.st.Winner,
		Scores: m.st.Scores,
		Turns:  m.st.Turn,
		Units:  len(m.st.Units),
	}
}
