package card

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// factionFile is the on-disk shape of one faction's card list.
type factionFile struct {
	Faction Faction `yaml:"faction"`
	Cards   []*Card `yaml:"cards"`
}

type eventFile struct {
	Events []EventDef `yaml:"events"`
}

// Validate checks that the card satisfies basic invariants.
//
// Postcondition: Returns nil iff ID and Name are non-empty, the faction is known,
// Rareness is within [1, MaxRareness], and Health, Damage and Range are >= 1.
func (c *Card) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("card: id must not be empty")
	}
	if c.Name == "" {
		return fmt.Errorf("card %q: name must not be empty", c.ID)
	}
	if !c.Faction.Valid() {
		return fmt.Errorf("card %q: unknown faction %q", c.ID, c.Faction)
	}
	if c.Stats.Rareness < 1 || c.Stats.Rareness > MaxRareness {
		return fmt.Errorf("card %q: rareness must be within [1, %d], got %d", c.ID, MaxRareness, c.Stats.Rareness)
	}
	if c.Stats.Health < 1 || c.Stats.Damage < 1 || c.Stats.Range < 1 {
		return fmt.Errorf("card %q: health, damage and range must be >= 1", c.ID)
	}
	if c.Stats.Attacks < 0 {
		return fmt.Errorf("card %q: attacks must be >= 0", c.ID)
	}
	return nil
}

// LoadCardsFromBytes parses one faction file from raw YAML bytes.
//
// Postcondition: Returns validated cards with Faction set, or an error.
func LoadCardsFromBytes(data []byte) ([]*Card, error) {
	var f factionFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing card YAML: %w", err)
	}
	for _, c := range f.Cards {
		c.Faction = f.Faction
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}
	return f.Cards, nil
}

// LoadPool reads every *.yaml file in dir and returns the combined Pool.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a Pool or an error on the first parse, validation or
// duplicate-id failure.
func LoadPool(dir string) (*Pool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading card dir %q: %w", dir, err)
	}

	var all []*Card
	seen := make(map[string]bool)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		cards, err := LoadCardsFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		for _, c := range cards {
			if seen[c.ID] {
				return nil, fmt.Errorf("loading %q: duplicate card id %q", path, c.ID)
			}
			seen[c.ID] = true
		}
		all = append(all, cards...)
	}
	return NewPool(all), nil
}

// LoadEventDefs reads the event deck definition file at path.
//
// Postcondition: Returns the defs in file order, or an error if the file is
// unreadable, malformed, or declares an unknown kind or a negative count.
func LoadEventDefs(path string) ([]EventDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading event file %q: %w", path, err)
	}
	var f eventFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing %q: %w", path, err)
	}
	for _, d := range f.Events {
		if !knownEventKinds[d.Kind] {
			return nil, fmt.Errorf("parsing %q: unknown event kind %q", path, d.Kind)
		}
		if d.Count < 0 {
			return nil, fmt.Errorf("parsing %q: event %q has negative count", path, d.Kind)
		}
	}
	return f.Events, nil
}

var knownEventKinds = map[EventKind]bool{
	EventSandstorm:    true,
	EventSwap:         true,
	EventFriend:       true,
	EventThunderstorm: true,
	EventExecute:      true,
	EventArmor:        true,
	EventStealth:      true,
	EventBerserk:      true,
}
