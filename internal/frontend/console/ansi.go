// Package console is the line-oriented terminal front end: an ANSI text
// renderer for the board and logs, and a REPL that maps commands to match
// operations. Presentation state (what has been shown, highlighted hexes)
// lives here, never in the match state.
package console

import (
	"fmt"

	"github.com/cory-johannsen/hexfront/internal/game/board"
	"github.com/cory-johannsen/hexfront/internal/game/card"
)

// ANSI escape code constants for terminal styling.
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Dim   = "\033[2m"

	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"

	BrightBlack  = "\033[90m"
	BrightRed    = "\033[91m"
	BrightGreen  = "\033[92m"
	BrightYellow = "\033[93m"
	BrightBlue   = "\033[94m"
	BrightCyan   = "\033[96m"
	BrightWhite  = "\033[97m"

	BgYellow = "\033[43m"
)

// Colorize wraps text with the given ANSI color code and a reset suffix.
// An empty color returns text unchanged.
func Colorize(color, text string) string {
	if color == "" {
		return text
	}
	return color + text + Reset
}

// Colorf wraps a formatted string with the given ANSI color code.
func Colorf(color, format string, args ...any) string {
	return Colorize(color, fmt.Sprintf(format, args...))
}

// StripANSI removes all ANSI escape sequences from a string.
//
// Postcondition: Returns s with all \033[...m sequences removed.
func StripANSI(s string) string {
	result := make([]byte, 0, len(s))
	i := 0
	for i < len(s) {
		if s[i] == '\033' && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && s[j] != 'm' {
				j++
			}
			if j < len(s) {
				i = j + 1
				continue
			}
		}
		result = append(result, s[i])
		i++
	}
	return string(result)
}

// FactionColor returns the color used for units of f.
func FactionColor(f card.Faction) string {
	if f == card.FactionAlien {
		return BrightGreen
	}
	return BrightBlue
}

// TerrainColor returns the color used for empty hexes of terrain t.
func TerrainColor(t board.Terrain) string {
	switch t {
	case board.TerrainWater:
		return Cyan
	case board.TerrainForest:
		return Green
	case board.TerrainToxic:
		return Magenta
	case board.TerrainMountain:
		return BrightBlack
	default:
		return White
	}
}
