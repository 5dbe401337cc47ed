package model

import "time"

// InteractionOutcome records whether a dispatched call succeeded.
type InteractionOutcome string

const (
	InteractionSuccess InteractionOutcome = "success"
	InteractionFailure InteractionOutcome = "failure"
)

// Interaction is the metadata of one call to the text-generation service.
// Prompt and response text are deliberately absent.
type Interaction struct {
	ID           string
	Panel        PanelID
	InputChars   int
	Outcome      InteractionOutcome
	ErrorMessage string
	Duration     time.Duration
	CreatedAt    time.Time
}
