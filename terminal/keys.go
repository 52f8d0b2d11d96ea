package terminal

import (
	"github.com/gdamore/tcell/v2"

	"gridsnake/game"
)

// Action is what a key press asks the app to do
type Action int

const (
	ActionNone Action = iota
	ActionSteer
	ActionStart
	ActionPause
	ActionReset
	ActionDifficulty
	ActionWalls
	ActionDemo
	ActionQuit
)

// Command is a decoded key press
type Command struct {
	Action     Action
	Dir        game.Direction
	Difficulty game.Difficulty
}

// MapKey decodes a key event. Arrows, WASD and hjkl steer.
func MapKey(ev *tcell.EventKey) Command {
	switch ev.Key() {
	case tcell.KeyUp:
		return Command{Action: ActionSteer, Dir: game.Up}
	case tcell.KeyDown:
		return Command{Action: ActionSteer, Dir: game.Down}
	case tcell.KeyLeft:
		return Command{Action: ActionSteer, Dir: game.Left}
	case tcell.KeyRight:
		return Command{Action: ActionSteer, Dir: game.Right}
	case tcell.KeyEnter:
		return Command{Action: ActionStart}
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return Command{Action: ActionQuit}
	case tcell.KeyRune:
	default:
		return Command{}
	}

	switch ev.Rune() {
	case 'w', 'k':
		return Command{Action: ActionSteer, Dir: game.Up}
	case 's', 'j':
		return Command{Action: ActionSteer, Dir: game.Down}
	case 'a', 'h':
		return Command{Action: ActionSteer, Dir: game.Left}
	case 'd', 'l':
		return Command{Action: ActionSteer, Dir: game.Right}
	case ' ', 'p':
		return Command{Action: ActionPause}
	case 'r':
		return Command{Action: ActionStart}
	case 'x':
		return Command{Action: ActionReset}
	case '1':
		return Command{Action: ActionDifficulty, Difficulty: game.Beginner}
	case '2':
		return Command{Action: ActionDifficulty, Difficulty: game.Intermediate}
	case '3':
		return Command{Action: ActionDifficulty, Difficulty: game.Expert}
	case 't':
		return Command{Action: ActionWalls}
	case 'm':
		return Command{Action: ActionDemo}
	case 'q':
		return Command{Action: ActionQuit}
	}
	return Command{}
}
