package repositories

import (
	"context"
	"database/sql"

	"github.com/Dosada05/league-system/models"
	"github.com/google/uuid"
)

type ModificationLogRepository interface {
	Create(ctx context.Context, entry *models.ModificationLog) error
	ListByFixture(ctx context.Context, fixtureID int) ([]*models.ModificationLog, error)
}

type postgresModificationLogRepository struct {
	db *sql.DB
}

func NewPostgresModificationLogRepository(db *sql.DB) ModificationLogRepository {
	return &postgresModificationLogRepository{db: db}
}

func (r *postgresModificationLogRepository) Create(ctx context.Context, entry *models.ModificationLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	query := `
		INSERT INTO modification_logs (id, fixture_id, event_id, editor, action, before, after)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`
	return r.db.QueryRowContext(ctx, query,
		entry.ID,
		entry.FixtureID,
		entry.EventID,
		entry.Editor,
		entry.Action,
		nullJSON(entry.Before),
		nullJSON(entry.After),
	).Scan(&entry.CreatedAt)
}

func (r *postgresModificationLogRepository) ListByFixture(ctx context.Context, fixtureID int) ([]*models.ModificationLog, error) {
	query := `
		SELECT id, fixture_id, event_id, editor, action, before, after, created_at
		FROM modification_logs
		WHERE fixture_id = $1
		ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, fixtureID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]*models.ModificationLog, 0)
	for rows.Next() {
		var l models.ModificationLog
		var eventID sql.NullInt64
		var before, after []byte
		if err = rows.Scan(&l.ID, &l.FixtureID, &eventID, &l.Editor, &l.Action, &before, &after, &l.CreatedAt); err != nil {
			return nil, err
		}
		if eventID.Valid {
			id := eventID.Int64
			l.EventID = &id
		}
		l.Before = before
		l.After = after
		logs = append(logs, &l)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

func nullJSON(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
