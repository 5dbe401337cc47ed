// Package application wires panel submissions to the text generator.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/ericfisherdev/studyassistant/internal/domain/model"
	"github.com/ericfisherdev/studyassistant/internal/domain/port/driven"
)

// ErrUnknownPanel is returned when a submission names a panel that does not exist.
var ErrUnknownPanel = errors.New("unknown panel")

// Dispatcher turns a panel submission into at most one call to the text
// generator. It is safe for concurrent use; the number of calls in flight
// across all callers is capped.
type Dispatcher struct {
	generator    driven.TextGenerator
	interactions driven.InteractionStore
	slots        *semaphore.Weighted
	timeout      time.Duration
	logger       *slog.Logger
	now          func() time.Time
}

// NewDispatcher creates a Dispatcher. interactions may be nil to disable the
// interaction log. maxInFlight below 1 is treated as 1. timeout bounds the
// wait for a free slot plus the generator call; zero means no bound.
func NewDispatcher(generator driven.TextGenerator, interactions driven.InteractionStore, maxInFlight int64, timeout time.Duration, logger *slog.Logger) *Dispatcher {
	if maxInFlight < 1 {
		maxInFlight = 1
	}
	return &Dispatcher{
		generator:    generator,
		interactions: interactions,
		slots:        semaphore.NewWeighted(maxInFlight),
		timeout:      timeout,
		logger:       logger,
		now:          time.Now,
	}
}

// Submit sends the panel's prompt to the generator exactly once when input is
// non-empty. Whitespace counts as input. Generator failures, and running out
// of time while waiting for a free slot, are reported in the Outcome as an
// inline error; the only error returned is ErrUnknownPanel.
func (d *Dispatcher) Submit(ctx context.Context, panelID model.PanelID, input string) (model.Outcome, error) {
	panel, ok := model.LookupPanel(panelID)
	if !ok {
		return model.Outcome{}, fmt.Errorf("%w: %q", ErrUnknownPanel, panelID)
	}

	outcome := model.Outcome{Panel: panel.ID, Input: input, State: model.StateIdle}

	if input == "" {
		outcome.Warning = panel.EmptyInput
		return outcome, nil
	}

	outcome.State = outcome.State.Next(model.EventSubmit)

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	if err := d.slots.Acquire(ctx, 1); err != nil {
		err = fmt.Errorf("no generator slot free: %w", err)
		outcome.State = outcome.State.Next(model.EventFailure)
		outcome.Error = panel.ErrorMessage(err)
		d.logger.WarnContext(ctx, "generation not started", "panel", panel.ID, "error", err)
		return outcome, nil
	}
	defer d.slots.Release(1)

	start := d.now()
	text, err := d.generator.Generate(ctx, panel.Prompt(input))
	elapsed := d.now().Sub(start)

	interaction := model.Interaction{
		ID:         uuid.NewString(),
		Panel:      panel.ID,
		InputChars: utf8.RuneCountInString(input),
		Outcome:    model.InteractionSuccess,
		Duration:   elapsed,
		CreatedAt:  start,
	}

	if err != nil {
		outcome.State = outcome.State.Next(model.EventFailure)
		outcome.Error = panel.ErrorMessage(err)
		interaction.Outcome = model.InteractionFailure
		interaction.ErrorMessage = err.Error()
		d.logger.WarnContext(ctx, "generation failed", "panel", panel.ID, "duration", elapsed, "error", err)
	} else {
		outcome.State = outcome.State.Next(model.EventSuccess)
		outcome.Text = text
		d.logger.InfoContext(ctx, "generation complete", "panel", panel.ID, "duration", elapsed, "response_chars", len(text))
	}

	d.record(ctx, interaction)

	return outcome, nil
}

// record persists interaction metadata. Failures are logged only; they never
// change what the user sees.
func (d *Dispatcher) record(ctx context.Context, interaction model.Interaction) {
	if d.interactions == nil {
		return
	}
	// The request context may already be canceled once the call returned.
	if err := d.interactions.Record(context.WithoutCancel(ctx), interaction); err != nil {
		d.logger.ErrorContext(ctx, "failed to record interaction", "id", interaction.ID, "error", err)
	}
}
