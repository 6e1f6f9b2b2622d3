package workflow

// State is a workflow state. The set of valid states is defined per builder:
// every state mentioned in a Configure or Permit call is registered, and the
// built machine only ever moves between registered states.
type State string

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// Trigger represents an event that can cause a state transition
type Trigger string

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
