package driven

import (
	"context"

	"github.com/ericfisherdev/studyassistant/internal/domain/model"
)

// InteractionStore defines the driven port for the interaction log.
type InteractionStore interface {
	Record(ctx context.Context, interaction model.Interaction) error
	// ListRecent returns up to limit interactions, newest first.
	ListRecent(ctx context.Context, limit int) ([]model.Interaction, error)
}
