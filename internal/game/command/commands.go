// Package command provides the console command registry, parser, and the
// built-in command definitions.
package command

// Categories for organizing commands in help output.
const (
	CategoryPlacement = "placement"
	CategoryEvent     = "event"
	CategoryCombat    = "combat"
	CategoryInfo      = "info"
	CategorySystem    = "system"
)

// Categories lists the categories in help order.
var Categories = []string{CategoryPlacement, CategoryEvent, CategoryCombat, CategoryInfo, CategorySystem}

// Handler identifiers mapping commands to match operations.
const (
	HandlerDraw     = "draw"
	HandlerSelect   = "select"
	HandlerDeselect = "deselect"
	HandlerPlace    = "place"
	HandlerAuto     = "auto"
	HandlerEvent    = "event"
	HandlerTarget   = "target"
	HandlerSkip     = "skip"
	HandlerAttacker = "attacker"
	HandlerAttack   = "attack"
	HandlerBattle   = "battle"
	HandlerContinue = "continue"
	HandlerBoard    = "board"
	HandlerStatus   = "status"
	HandlerLog      = "log"
	HandlerHelp     = "help"
	HandlerQuit     = "quit"
)

// Command defines a player-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Usage shows the argument shape, e.g. "place <q> <r>".
	Usage string
	// Help is the short help text displayed to players.
	Help string
	// Category groups the command in help output.
	Category string
	// Handler maps to the match operation run by the front end.
	Handler string
}

// BuiltinCommands returns all built-in commands for the game.
func BuiltinCommands() []Command {
	return []Command{
		// Placement
		{Name: "draw", Aliases: []string{"dr"}, Usage: "draw", Help: "Draw up to three cards into your hand", Category: CategoryPlacement, Handler: HandlerDraw},
		{Name: "select", Aliases: []string{"sel"}, Usage: "select <n>", Help: "Select hand card n for placement", Category: CategoryPlacement, Handler: HandlerSelect},
		{Name: "deselect", Aliases: []string{"unselect"}, Usage: "deselect", Help: "Return the selected card to your hand", Category: CategoryPlacement, Handler: HandlerDeselect},
		{Name: "place", Aliases: []string{"p"}, Usage: "place <q> <r>", Help: "Place the selected card on hex (q, r)", Category: CategoryPlacement, Handler: HandlerPlace},
		{Name: "auto", Aliases: nil, Usage: "auto", Help: "Place all remaining cards automatically", Category: CategoryPlacement, Handler: HandlerAuto},

		// Events
		{Name: "event", Aliases: []string{"play"}, Usage: "event", Help: "Play the drawn event card", Category: CategoryEvent, Handler: HandlerEvent},
		{Name: "target", Aliases: []string{"t"}, Usage: "target <q> <r>", Help: "Apply the pending event to hex (q, r)", Category: CategoryEvent, Handler: HandlerTarget},
		{Name: "skip", Aliases: nil, Usage: "skip", Help: "Spend a skip token to discard the drawn event", Category: CategoryEvent, Handler: HandlerSkip},

		// Combat
		{Name: "attacker", Aliases: []string{"a"}, Usage: "attacker <q> <r>", Help: "Select the unit on hex (q, r) to attack", Category: CategoryCombat, Handler: HandlerAttacker},
		{Name: "attack", Aliases: []string{"att", "kill"}, Usage: "attack <q> <r>", Help: "Attack the enemy on hex (q, r)", Category: CategoryCombat, Handler: HandlerAttack},
		{Name: "battle", Aliases: []string{"fight"}, Usage: "battle", Help: "Resolve the whole battle automatically", Category: CategoryCombat, Handler: HandlerBattle},
		{Name: "continue", Aliases: []string{"c"}, Usage: "continue", Help: "Leave the battle log for the final scores", Category: CategoryCombat, Handler: HandlerContinue},

		// Info
		{Name: "board", Aliases: []string{"b", "map"}, Usage: "board", Help: "Show the board", Category: CategoryInfo, Handler: HandlerBoard},
		{Name: "status", Aliases: []string{"st"}, Usage: "status", Help: "Show phase, turn, hand and scores", Category: CategoryInfo, Handler: HandlerStatus},
		{Name: "log", Aliases: nil, Usage: "log", Help: "Show the event and battle logs", Category: CategoryInfo, Handler: HandlerLog},

		// System
		{Name: "help", Aliases: []string{"?"}, Usage: "help", Help: "Show available commands", Category: CategorySystem, Handler: HandlerHelp},
		{Name: "quit", Aliases: []string{"exit", "q"}, Usage: "quit", Help: "Leave the game", Category: CategorySystem, Handler: HandlerQuit},
	}
}
