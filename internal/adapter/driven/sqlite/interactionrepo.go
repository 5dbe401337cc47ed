package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/ericfisherdev/studyassistant/internal/domain/model"
	"github.com/ericfisherdev/studyassistant/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.InteractionStore = (*InteractionRepo)(nil)

// timeLayout is fixed-width so that created_at sorts lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// InteractionRepo is the SQLite implementation of the InteractionStore port interface.
type InteractionRepo struct {
	db *DB
}

// NewInteractionRepo creates a new InteractionRepo backed by the given DB.
func NewInteractionRepo(db *DB) *InteractionRepo {
	return &InteractionRepo{db: db}
}

// Record inserts one interaction. A zero CreatedAt is replaced with the current time.
func (r *InteractionRepo) Record(ctx context.Context, in model.Interaction) error {
	const query = `INSERT INTO interactions (id, panel, input_chars, outcome, error_message, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	createdAt := in.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.db.Writer.ExecContext(ctx, query,
		in.ID,
		string(in.Panel),
		in.InputChars,
		string(in.Outcome),
		in.ErrorMessage,
		in.Duration.Milliseconds(),
		createdAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("record interaction %s: %w", in.ID, err)
	}
	return nil
}

// ListRecent returns up to limit interactions, newest first.
func (r *InteractionRepo) ListRecent(ctx context.Context, limit int) ([]model.Interaction, error) {
	const query = `SELECT id, panel, input_chars, outcome, error_message, duration_ms, created_at
		FROM interactions ORDER BY created_at DESC, id LIMIT ?`

	rows, err := r.db.Reader.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	defer rows.Close()

	interactions := []model.Interaction{}
	for rows.Next() {
		var (
			in         model.Interaction
			panel      string
			outcome    string
			durationMS int64
			createdAt  string
		)
		if err := rows.Scan(&in.ID, &panel, &in.InputChars, &outcome, &in.ErrorMessage, &durationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}

		in.Panel = model.PanelID(panel)
		in.Outcome = model.InteractionOutcome(outcome)
		in.Duration = time.Duration(durationMS) * time.Millisecond
		in.CreatedAt, err = time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at for interaction %s: %w", in.ID, err)
		}

		interactions = append(interactions, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interactions: %w", err)
	}

	return interactions, nil
}
