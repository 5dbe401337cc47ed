// Package driven defines the ports the application uses to reach external systems.
package driven

import "context"

// TextGenerator defines the driven port for the hosted text-generation
// service. Generate makes one blocking call and returns the generated text
// verbatim. Failures of any kind (network, quota, rejected input) surface as
// a single error; callers do not distinguish subtypes.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
