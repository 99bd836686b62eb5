package display

import "github.com/ayusman/rpsref/internal/referee"

const keyEsc = 27

// KeyCommand maps a highgui key code to a command. WaitKey returns -1 when
// no key was pressed.
func KeyCommand(key int) referee.Command {
	if key < 0 {
		return referee.None
	}
	switch key & 0xFF {
	case 'x', 'X':
		return referee.Evaluate
	case 'c', 'C':
		return referee.ClearDisplay
	case 'q', 'Q', keyEsc:
		return referee.Quit
	}
	return referee.None
}
