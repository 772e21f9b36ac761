package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cory-johannsen/hexfront/internal/game/board"
)

// ParseResult holds the parsed command name and arguments from a text line.
type ParseResult struct {
	// Command is the first word of the input, lowercased.
	Command string
	// Args are the remaining words after the command.
	Args []string
	// RawArgs is the raw text after the command.
	RawArgs string
}

// Parse splits a text line into a command and arguments. Commas are treated
// as separators so "place 1,-2" and "place 1 -2" are equivalent.
//
// Postcondition: Returns a ParseResult. If line is empty, Command is empty.
func Parse(line string) ParseResult {
	line = strings.TrimSpace(line)
	if line == "" {
		return ParseResult{}
	}

	spaceIdx := strings.IndexByte(line, ' ')
	if spaceIdx < 0 {
		return ParseResult{
			Command: strings.ToLower(line),
		}
	}

	cmd := strings.ToLower(line[:spaceIdx])
	rest := strings.TrimSpace(line[spaceIdx+1:])

	var args []string
	if rest != "" {
		args = strings.FieldsFunc(rest, func(r rune) bool {
			return r == ' ' || r == '\t' || r == ','
		})
	}

	return ParseResult{
		Command: cmd,
		Args:    args,
		RawArgs: rest,
	}
}

// Coord parses the first two arguments as an axial hex coordinate.
//
// Postcondition: Returns an error unless exactly two integer arguments are given.
func (p ParseResult) Coord() (board.Coord, error) {
	if len(p.Args) != 2 {
		return board.Coord{}, fmt.Errorf("%s needs two coordinates, got %d", p.Command, len(p.Args))
	}
	q, err := strconv.Atoi(p.Args[0])
	if err != nil {
		return board.Coord{}, fmt.Errorf("invalid q coordinate %q: %w", p.Args[0], err)
	}
	r, err := strconv.Atoi(p.Args[1])
	if err != nil {
		return board.Coord{}, fmt.Errorf("invalid r coordinate %q: %w", p.Args[1], err)
	}
	return board.Coord{Q: q, R: r}, nil
}

// Index parses the single argument as a 1-based hand position and returns it
// 0-based.
//
// Postcondition: Returns an error unless exactly one integer >= 1 is given.
func (p ParseResult) Index() (int, error) {
	if len(p.Args) != 1 {
		return 0, fmt.Errorf("%s needs one card number", p.Command)
	}
	n, err := strconv.Atoi(p.Args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid card number %q: %w", p.Args[0], err)
	}
	if n < 1 {
		return 0, fmt.Errorf("card numbers start at 1, got %d", n)
	}
	return n - 1, nil
}
