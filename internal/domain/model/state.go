package model

// PanelState is the lifecycle position of a single panel.
type PanelState string

const (
	StateIdle    PanelState = "idle"
	StatePending PanelState = "pending"
	StateResult  PanelState = "result"
	StateError   PanelState = "error"
)

// PanelEvent drives a PanelState transition.
type PanelEvent string

const (
	EventSubmit  PanelEvent = "submit"
	EventSuccess PanelEvent = "success"
	EventFailure PanelEvent = "failure"
)

// Next returns the state reached from s on event e. Events that do not apply
// to s leave it unchanged. There is no terminal state.
func (s PanelState) Next(e PanelEvent) PanelState {
	switch e {
	case EventSubmit:
		if s != StatePending {
			return StatePending
		}
	case EventSuccess:
		if s == StatePending {
			return StateResult
		}
	case EventFailure:
		if s == StatePending {
			return StateError
		}
	}
	return s
}

// Outcome is what a panel shows after a submission has been handled.
type Outcome struct {
	Panel   PanelID
	Input   string
	State   PanelState
	Text    string // verbatim generator output when State is StateResult
	Warning string // set when the input was rejected and no call was made
	Error   string // inline message when State is StateError
}
