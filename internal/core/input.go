package core

// Action represents a logical game action, abstracted from physical key presses.
// The host's input binding produces actions; behaviour code consumes them.
type Action int

const (
	ActionNone      Action = iota
	ActionMoveUp           // W, Up arrow
	ActionMoveDown         // S, Down arrow
	ActionMoveLeft         // A, Left arrow
	ActionMoveRight        // D, Right arrow
	ActionAttack           // Space
	ActionSave             // Ctrl+S
	ActionPause            // P
	ActionDebug            // Tab - toggle debug overlay
	ActionQuit             // Q, Ctrl+C
	ActionRestart          // R - rebuild the level after game over
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionMoveUp:
		return "MoveUp"
	case ActionMoveDown:
		return "MoveDown"
	case ActionMoveLeft:
		return "MoveLeft"
	case ActionMoveRight:
		return "MoveRight"
	case ActionAttack:
		return "Attack"
	case ActionSave:
		return "Save"
	case ActionPause:
		return "Pause"
	case ActionDebug:
		return "Debug"
	case ActionQuit:
		return "Quit"
	case ActionRestart:
		return "Restart"
	default:
		return "Unknown"
	}
}

// InputFrame represents the input state for a single simulation tick.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	return clone
}

// Movement returns the unit-length direction implied by the movement actions.
// Opposite directions cancel; diagonals are normalized. Up is negative y.
func (f InputFrame) Movement() Vec {
	var d Vec
	if f.Has(ActionMoveRight) {
		d.X++
	}
	if f.Has(ActionMoveLeft) {
		d.X--
	}
	if f.Has(ActionMoveDown) {
		d.Y++
	}
	if f.Has(ActionMoveUp) {
		d.Y--
	}
	if l := d.Len(); l > 0 {
		d = d.Scale(1 / l)
	}
	return d
}
