package core

// Action is a semantic host command, abstracted from physical key presses.
// Jumps are not actions: they only ever come from the gesture detector.
type Action int

const (
	ActionNone       Action = iota
	ActionHand              // Space, H - show a hand to the keyboard stand-in detector
	ActionRestart           // R - start a new run
	ActionScreenshot        // Ctrl+S - save the current frame as text
	ActionQuit              // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionHand:
		return "Hand"
	case ActionRestart:
		return "Restart"
	case ActionScreenshot:
		return "Screenshot"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}
