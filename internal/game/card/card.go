// Package card defines character and event cards, the weighted deck policy,
// and the YAML catalog loader.
package card

// Faction is one of the two sides of a match.
type Faction string

const (
	FactionHuman Faction = "human"
	FactionAlien Faction = "alien"
)

// Factions lists both factions in turn order.
var Factions = [2]Faction{FactionHuman, FactionAlien}

// Opponent returns the other faction.
func (f Faction) Opponent() Faction {
	if f == FactionHuman {
		return FactionAlien
	}
	return FactionHuman
}

// Valid reports whether f is a known faction.
func (f Faction) Valid() bool {
	return f == FactionHuman || f == FactionAlien
}

// Stats are the printed stats of a character card.
type Stats struct {
	Health     int    `yaml:"health"`
	Damage     int    `yaml:"damage"`
	Attacks    int    `yaml:"attacks"`
	Range      int    `yaml:"range"`
	Initiative int    `yaml:"initiative"`
	Points     int    `yaml:"points"`
	Rareness   int    `yaml:"rareness"`
	Ability    string `yaml:"ability"`
}

// Card is a character card. Health, Range and Damage may be changed in place by
// combat and events; those changes are permanent for the card instance.
type Card struct {
	ID      string  `yaml:"id"`
	Faction Faction `yaml:"-"`
	Name    string  `yaml:"name"`
	Type    string  `yaml:"type"`
	// AbilityID is the stable id of the card's ability rule, empty for none.
	AbilityID string `yaml:"ability_id"`
	// Visual is an opaque key for the presentation layer.
	Visual string `yaml:"visual"`
	Stats  Stats  `yaml:"stats"`
}

// Clone returns an independent copy of c with the given instance id.
func (c *Card) Clone(id string) *Card {
	cp := *c
	cp.ID = id
	return &cp
}

// EventKind is the stable id of an event type.
type EventKind string

const (
	EventSandstorm    EventKind = "sandstorm"
	EventSwap         EventKind = "swap"
	EventFriend       EventKind = "friend"
	EventThunderstorm EventKind = "thunderstorm"
	EventExecute      EventKind = "execute"
	EventArmor        EventKind = "armor"
	EventStealth      EventKind = "stealth"
	EventBerserk      EventKind = "berserk"
)

// EventCard is a single drawable event. Instances are discarded after use.
type EventCard struct {
	ID     string
	Kind   EventKind
	Name   string
	Effect string
}
