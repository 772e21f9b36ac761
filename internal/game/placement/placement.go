// Package placement validates card placement, manages the shared hand and
// switches turns during the placement phase.
package placement

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/hexfront/internal/game/ability"
	"github.com/cory-johannsen/hexfront/internal/game/board"
	"github.com/cory-johannsen/hexfront/internal/game/card"
	"github.com/cory-johannsen/hexfront/internal/game/state"
)

// Rules are the placement limits of a match.
type Rules struct {
	// Quota is the number of placements each faction makes before combat.
	Quota int
	// HandSize is the maximum number of cards moved into the hand per draw.
	HandSize int
}

// Events is the part of the event system driven by placement.
type Events interface {
	Draw(st *state.State) bool
	Discard(st *state.State, reason string)
	AutoResolve(st *state.State) bool
}

// CombatStarter enters the combat phase.
type CombatStarter interface {
	Start(st *state.State)
}

// Controller runs the placement phase.
type Controller struct {
	rules  Rules
	engine *ability.Engine
	events Events
	combat CombatStarter
	logger *zap.Logger
}

// NewController creates a placement Controller.
//
// Precondition: all arguments must be non-nil; rules.Quota and rules.HandSize >= 1.
func NewController(rules Rules, engine *ability.Engine, events Events, combat CombatStarter, logger *zap.Logger) *Controller {
	return &Controller{rules: rules, engine: engine, events: events, combat: combat, logger: logger}
}

// open reports whether hand operations are allowed: placement phase and no
// pending event.
func open(st *state.State) bool {
	return st.Phase == state.PhasePlacement && st.Event == nil
}

// Draw moves up to HandSize cards from the active faction's deck into the hand.
//
// Postcondition: Returns false without change outside placement, while an
// event is pending, while a hand or selection exists, or when the deck is empty.
func (c *Controller) Draw(st *state.State) bool {
	if !open(st) || len(st.Hand) > 0 || st.Selected != nil {
		c.logger.Debug("draw rejected", zap.String("faction", string(st.Active)))
		return false
	}
	deck := st.Decks[st.Active]
	n := min(c.rules.HandSize, len(deck))
	if n == 0 {
		return false
	}
	st.Hand = append([]*card.Card(nil), deck[:n]...)
	st.Decks[st.Active] = deck[n:]
	return true
}

// Select picks hand card index for placement. The hand is backed up so the
// choice can be undone with Deselect.
//
// Postcondition: Returns false without change unless index is within the hand.
func (c *Controller) Select(st *state.State, index int) bool {
	if !open(st) || index < 0 || index >= len(st.Hand) {
		return false
	}
	st.HandBackup = append([]*card.Card(nil), st.Hand...)
	st.Selected = st.Hand[index]
	st.Hand = nil
	return true
}

// Deselect restores the hand from its backup.
func (c *Controller) Deselect(st *state.State) bool {
	if !open(st) || st.Selected == nil {
		return false
	}
	st.Hand = st.HandBackup
	st.HandBackup = nil
	st.Selected = nil
	return true
}

// Place puts the selected card on at.
//
// Precondition: none; every rule violation is a silent no-op.
// Postcondition: Returns false without change unless the phase is placement,
// no event is pending, a card is selected and st.CanPlaceAt(at). On success
// the unit is added, the hand is cleared (unplaced cards are discarded),
// derived stats are recomputed and an event is drawn. Combat starts once both
// factions reached the quota; otherwise the turn advances unless the drawn
// event is pending.
func (c *Controller) Place(st *state.State, at board.Coord) bool {
	if !open(st) || st.Selected == nil {
		return false
	}
	if !st.CanPlaceAt(at) {
		c.logger.Debug("placement rejected", zap.Int("q", at.Q), zap.Int("r", at.R))
		return false
	}
	u := st.AddUnit(st.Selected, at)
	st.Placements[st.Active]++
	st.Hand, st.HandBackup, st.Selected = nil, nil, nil
	c.engine.ComputeDerivedStats(st)
	c.logger.Debug("unit placed",
		zap.String("unit", u.Label),
		zap.String("faction", string(st.Active)),
		zap.Int("placements", st.Placements[st.Active]),
	)

	c.events.Draw(st)
	if c.QuotaReached(st) {
		c.startCombat(st, "placement is complete")
		return true
	}
	if st.Event == nil {
		c.AdvanceTurn(st)
	}
	return true
}

// QuotaReached reports whether both factions made their placement quota.
func (c *Controller) QuotaReached(st *state.State) bool {
	for _, f := range card.Factions {
		if st.Placements[f] < c.rules.Quota {
			return false
		}
	}
	return true
}

// AdvanceTurn hands the turn to the other faction. A faction with nothing
// left to place is passed over; when neither faction can place any more,
// combat starts.
func (c *Controller) AdvanceTurn(st *state.State) {
	if st.Phase != state.PhasePlacement {
		return
	}
	st.SwitchTurn()
	if exhausted(st, st.Active) && !exhausted(st, st.Active.Opponent()) {
		st.LogEvent("%s has no cards left and passes.", st.Active)
		st.SwitchTurn()
	}
	if !canProgress(st) {
		c.startCombat(st, "no placement is possible")
	}
}

func exhausted(st *state.State, f card.Faction) bool {
	return len(st.Decks[f]) == 0 && len(st.Hand) == 0 && st.Selected == nil
}

func canProgress(st *state.State) bool {
	if exhausted(st, card.FactionHuman) && exhausted(st, card.FactionAlien) {
		return false
	}
	return len(st.LegalHexes()) > 0
}

func (c *Controller) startCombat(st *state.State, reason string) {
	if st.Event != nil {
		c.events.Discard(st, reason)
	}
	st.Hand, st.HandBackup, st.Selected = nil, nil, nil
	c.logger.Info("placement finished",
		zap.String("reason", reason),
		zap.Int("human_placements", st.Placements[card.FactionHuman]),
		zap.Int("alien_placements", st.Placements[card.FactionAlien]),
	)
	c.combat.Start(st)
}

// AllCardsPlaced reports whether nothing is left to place: both decks, the
// hand and the selection are empty and no event is pending.
func (c *Controller) AllCardsPlaced(st *state.State) bool {
	return exhausted(st, card.FactionHuman) && exhausted(st, card.FactionAlien) && st.Event == nil
}

// AutoPlaceAll plays out the rest of the placement phase: pending events are
// resolved automatically and the first card of each hand goes to the first
// legal hex in board order.
//
// Postcondition: Returns false without change outside placement. Otherwise
// the phase is combat when it returns.
func (c *Controller) AutoPlaceAll(st *state.State) bool {
	if st.Phase != state.PhasePlacement {
		return false
	}
	guard := 2*(st.DeckSize(card.FactionHuman)+st.DeckSize(card.FactionAlien)+len(st.EventDeck)+len(st.Hand)) + 4
	for i := 0; st.Phase == state.PhasePlacement && i < guard; i++ {
		if st.Event != nil {
			if !c.events.AutoResolve(st) {
				c.events.Discard(st, "it cannot be resolved")
				c.AdvanceTurn(st)
			}
			continue
		}
		if st.Selected == nil {
			if len(st.Hand) == 0 && !c.Draw(st) {
				c.AdvanceTurn(st)
				continue
			}
			c.Select(st, 0)
		}
		legal := st.LegalHexes()
		if len(legal) == 0 {
			break
		}
		c.Place(st, legal[0])
	}
	if st.Phase == state.PhasePlacement {
		c.startCombat(st, "automatic placement finished")
	}
	return true
}
