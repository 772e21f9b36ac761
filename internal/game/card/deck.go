package card

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cory-johannsen/hexfront/internal/game/dice"
)

// MaxRareness is the rarest card tier; a card appears MaxRareness+1-rareness
// times in the weighted list.
const MaxRareness = 4

// Weight returns the number of weighted copies of c.
//
// Postcondition: Returns >= 0.
func Weight(c *Card) int {
	w := MaxRareness + 1 - c.Stats.Rareness
	if w < 0 {
		return 0
	}
	return w
}

// Pool holds the unique character cards of each faction.
type Pool struct {
	cards map[Faction][]*Card
}

// NewPool creates a Pool from the given cards, grouped by faction in input order.
func NewPool(cards []*Card) *Pool {
	p := &Pool{cards: make(map[Faction][]*Card)}
	for _, c := range cards {
		p.cards[c.Faction] = append(p.cards[c.Faction], c)
	}
	return p
}

// Cards returns the unique cards of faction f in catalog order.
func (p *Pool) Cards(f Faction) []*Card {
	return p.cards[f]
}

// Get returns the catalog card with the given id.
func (p *Pool) Get(id string) (*Card, bool) {
	for _, cards := range p.cards {
		for _, c := range cards {
			if c.ID == id {
				return c, true
			}
		}
	}
	return nil, false
}

func (p *Pool) weighted(f Faction) []*Card {
	var out []*Card
	for _, c := range p.cards[f] {
		for i := 0; i < Weight(c); i++ {
			out = append(out, c)
		}
	}
	return out
}

// BuildDeck draws size cards with replacement from faction f's weighted list,
// giving each copy the instance id "<card id>_<n>", then shuffles the deck.
//
// Precondition: size >= 0; src must be non-nil.
// Postcondition: Returns a deck of exactly size cards, or an error if f has no
// drawable cards.
func (p *Pool) BuildDeck(f Faction, size int, src dice.Source) ([]*Card, error) {
	weighted := p.weighted(f)
	if len(weighted) == 0 {
		return nil, fmt.Errorf("card pool has no drawable %s cards", f)
	}
	deck := make([]*Card, 0, size)
	for i := 0; i < size; i++ {
		base := weighted[src.Intn(len(weighted))]
		deck = append(deck, base.Clone(fmt.Sprintf("%s_%d", base.ID, i)))
	}
	dice.Shuffle(src, len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	return deck, nil
}

// DrawWeighted returns a fresh weighted-random card instance of faction f with
// a unique instance id.
//
// Postcondition: Returns (card, true), or (nil, false) if f has no drawable cards.
func (p *Pool) DrawWeighted(f Faction, src dice.Source) (*Card, bool) {
	weighted := p.weighted(f)
	if len(weighted) == 0 {
		return nil, false
	}
	base := weighted[src.Intn(len(weighted))]
	return base.Clone(base.ID + "_" + uuid.NewString()[:8]), true
}

// EventDef declares one event type and how many copies the deck holds.
type EventDef struct {
	Kind   EventKind `yaml:"kind"`
	Name   string    `yaml:"name"`
	Effect string    `yaml:"effect"`
	Count  int       `yaml:"count"`
}

// BuildEventDeck expands defs into their fixed multiset and shuffles it.
//
// Postcondition: len(result) == sum(def.Count); ids are "<kind>_<n>".
func BuildEventDeck(defs []EventDef, src dice.Source) []EventCard {
	var deck []EventCard
	for _, d := range defs {
		for i := 0; i < d.Count; i++ {
			deck = append(deck, EventCard{
				ID:     fmt.Sprintf("%s_%d", d.Kind, i),
				Kind:   d.Kind,
				Name:   d.Name,
				Effect: d.Effect,
			})
		}
	}
	dice.Shuffle(src, len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	return deck
}
