package core

// Action is a semantic monitor command, abstracted from physical key presses.
type Action int

const (
	ActionNone       Action = iota
	ActionPause             // Toggle pause
	ActionRestart           // Start the scenario over with a new seed
	ActionFaster            // Double the time scale
	ActionSlower            // Halve the time scale
	ActionCheckpoint        // Save a checkpoint
	ActionHelp              // Toggle the full help view
	ActionQuit              // Leave the monitor
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
	case ActionFaster:
		return "Faster"
	case ActionSlower:
		return "Slower"
	case ActionCheckpoint:
		return "Checkpoint"
	case ActionHelp:
		return "Help"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}
