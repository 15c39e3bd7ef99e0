package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ProcessedEvent is one recorded dedup key. SlackEditTS is the empty string
// for ordinary (non-edit) messages; the unique index covers all three columns
// so two edits of the same message are distinct rows.
type ProcessedEvent struct {
	ID             string `db:"id"`
	SlackChannelID string `db:"slack_channel_id"`
	SlackTS        string `db:"slack_ts"`
	SlackEditTS    string `db:"slack_edit_ts"`
}

type PostgresProcessedEventsRepository struct {
	db     *sqlx.DB
	schema string
}

func NewPostgresProcessedEventsRepository(db *sqlx.DB, schema string) *PostgresProcessedEventsRepository {
	return &PostgresProcessedEventsRepository{db: db, schema: schema}
}

// InsertProcessedEvent records the event key, returning false when the key
// was already present. The insert-if-absent is a single statement so two
// concurrent deliveries of the same event cannot both see "new".
func (r *PostgresProcessedEventsRepository) InsertProcessedEvent(
	ctx context.Context,
	event *ProcessedEvent,
) (bool, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s.processed_events (id, slack_channel_id, slack_ts, slack_edit_ts, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (slack_channel_id, slack_ts, slack_edit_ts) DO NOTHING`, r.schema)

	result, err := r.db.ExecContext(ctx, query, event.ID, event.SlackChannelID, event.SlackTS, event.SlackEditTS)
	if err != nil {
		return false, fmt.Errorf("failed to insert processed event: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return rows > 0, nil
}
