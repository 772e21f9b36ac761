package command

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// minPrefix is the shortest abbreviation Resolve accepts for a command name.
const minPrefix = 2

// Registry is the console vocabulary: every command reachable by its name,
// an alias, or an unambiguous abbreviation of its name.
type Registry struct {
	keys   map[string]*Command // names and aliases share one key space
	sorted []*Command          // by name
}

// Group is one help section: a category and its commands sorted by name.
type Group struct {
	Category string
	Commands []*Command
}

// NewRegistry builds a Registry from cmds.
//
// Precondition: every command has a name, a handler and a category listed in
// Categories; no name or alias is used twice.
// Postcondition: Returns a Registry, or an error naming every violation found.
func NewRegistry(cmds []Command) (*Registry, error) {
	r := &Registry{keys: make(map[string]*Command, len(cmds)*2)}
	var errs []string
	claim := func(key string, cmd *Command) {
		if prev, ok := r.keys[key]; ok {
			errs = append(errs, fmt.Sprintf("%q is used by both %q and %q", key, prev.Name, cmd.Name))
			return
		}
		r.keys[key] = cmd
	}

	for i := range cmds {
		cmd := &cmds[i]
		switch {
		case cmd.Name == "":
			errs = append(errs, fmt.Sprintf("command %d has no name", i))
			continue
		case cmd.Handler == "":
			errs = append(errs, fmt.Sprintf("command %q has no handler", cmd.Name))
		case !slices.Contains(Categories, cmd.Category):
			errs = append(errs, fmt.Sprintf("command %q has unknown category %q", cmd.Name, cmd.Category))
		}
		claim(cmd.Name, cmd)
		for _, alias := range cmd.Aliases {
			claim(alias, cmd)
		}
		r.sorted = append(r.sorted, cmd)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid command set: %s", strings.Join(errs, "; "))
	}
	sort.Slice(r.sorted, func(i, j int) bool { return r.sorted[i].Name < r.sorted[j].Name })
	return r, nil
}

// DefaultRegistry returns the registry of BuiltinCommands. It panics if the
// built-in set is invalid.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(BuiltinCommands())
	if err != nil {
		panic(fmt.Sprintf("building default registry: %v", err))
	}
	return r
}

// Resolve finds the command for input: an exact name or alias first, then the
// only command whose name starts with input.
//
// Postcondition: Returns (command, true) when exactly one command matches.
func (r *Registry) Resolve(input string) (*Command, bool) {
	matches := r.Candidates(input)
	if len(matches) != 1 {
		return nil, false
	}
	return matches[0], true
}

// Candidates lists the commands input could mean: the exact match alone, or
// every command whose name starts with input when input is at least two
// characters long.
func (r *Registry) Candidates(input string) []*Command {
	if cmd, ok := r.keys[input]; ok {
		return []*Command{cmd}
	}
	if len(input) < minPrefix {
		return nil
	}
	var out []*Command
	for _, cmd := range r.sorted {
		if strings.HasPrefix(cmd.Name, input) {
			out = append(out, cmd)
		}
	}
	return out
}

// Commands returns every command sorted by name.
func (r *Registry) Commands() []*Command {
	return slices.Clone(r.sorted)
}

// Groups returns the help sections in Categories order, omitting empty ones.
func (r *Registry) Groups() []Group {
	var groups []Group
	for _, cat := range Categories {
		g := Group{Category: cat}
		for _, cmd := range r.sorted {
			if cmd.Category == cat {
				g.Commands = append(g.Commands, cmd)
			}
		}
		if len(g.Commands) > 0 {
			groups = append(groups, g)
		}
	}
	return groups
}
