package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/Dosada05/league-system/models"
	"github.com/lib/pq"
)

var (
	ErrMatchEventNotFound     = errors.New("match event not found")
	ErrMatchEventInvalidRef   = errors.New("match event references unknown fixture or team")
	ErrMatchEventInvalidValue = errors.New("match event value rejected by constraint")
)

type MatchEventRepository interface {
	Create(ctx context.Context, event *models.MatchEvent) error
	GetByID(ctx context.Context, id int64) (*models.MatchEvent, error)
	Update(ctx context.Context, event *models.MatchEvent) error
	Delete(ctx context.Context, id int64) error
	DeleteByIDs(ctx context.Context, ids []int64) (int64, error)
	DeleteByFixture(ctx context.Context, fixtureID int) (int64, error)
	ListByFixture(ctx context.Context, fixtureID int, filter models.EventFilter) ([]*models.MatchEvent, error)
	FindInWindow(ctx context.Context, q models.DuplicateQuery) ([]*models.MatchEvent, error)
	CountByPlayer(ctx context.Context) ([]models.PlayerEventCount, error)
	CountByType(ctx context.Context, types ...models.EventType) (int, error)
}

type postgresMatchEventRepository struct {
	db *sql.DB
}

func NewPostgresMatchEventRepository(db *sql.DB) MatchEventRepository {
	return &postgresMatchEventRepository{db: db}
}

const matchEventColumns = `id, fixture_id, event_type, player_name, team_id, scoring_team_id,
	event_time, is_own_goal, description, created_at`

func (r *postgresMatchEventRepository) Create(ctx context.Context, event *models.MatchEvent) error {
	query := `
		INSERT INTO match_events (fixture_id, event_type, player_name, team_id, scoring_team_id,
			event_time, is_own_goal, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query,
		event.FixtureID,
		event.EventType,
		event.PlayerName,
		event.TeamID,
		event.ScoringTeamID,
		event.EventTime,
		event.IsOwnGoal,
		event.Description,
	).Scan(&event.ID, &event.CreatedAt)
	return r.handleEventError(err)
}

func (r *postgresMatchEventRepository) scanEvent(row rowScanner) (*models.MatchEvent, error) {
	var e models.MatchEvent
	var scoringTeamID sql.NullInt64
	err := row.Scan(
		&e.ID, &e.FixtureID, &e.EventType, &e.PlayerName, &e.TeamID, &scoringTeamID,
		&e.EventTime, &e.IsOwnGoal, &e.Description, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchEventNotFound
		}
		return nil, err
	}
	if scoringTeamID.Valid {
		id := int(scoringTeamID.Int64)
		e.ScoringTeamID = &id
	}
	return &e, nil
}

func (r *postgresMatchEventRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.MatchEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*models.MatchEvent, 0)
	for rows.Next() {
		e, errScan := r.scanEvent(rows)
		if errScan != nil {
			return nil, errScan
		}
		events = append(events, e)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *postgresMatchEventRepository) GetByID(ctx context.Context, id int64) (*models.MatchEvent, error) {
	query := `SELECT ` + matchEventColumns + ` FROM match_events WHERE id = $1`
	return r.scanEvent(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresMatchEventRepository) Update(ctx context.Context, event *models.MatchEvent) error {
	query := `
		UPDATE match_events SET event_type = $1, player_name = $2, team_id = $3, scoring_team_id = $4,
			event_time = $5, is_own_goal = $6, description = $7
		WHERE id = $8`
	result, err := r.db.ExecContext(ctx, query,
		event.EventType,
		event.PlayerName,
		event.TeamID,
		event.ScoringTeamID,
		event.EventTime,
		event.IsOwnGoal,
		event.Description,
		event.ID,
	)
	if err != nil {
		return r.handleEventError(err)
	}
	return checkAffectedRows(result, ErrMatchEventNotFound)
}

func (r *postgresMatchEventRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM match_events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchEventNotFound)
}

func (r *postgresMatchEventRepository) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result, err := r.db.ExecContext(ctx, `DELETE FROM match_events WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *postgresMatchEventRepository) DeleteByFixture(ctx context.Context, fixtureID int) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM match_events WHERE fixture_id = $1`, fixtureID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// ListByFixture returns events ordered by event_time, then by insertion.
func (r *postgresMatchEventRepository) ListByFixture(ctx context.Context, fixtureID int, filter models.EventFilter) ([]*models.MatchEvent, error) {
	var queryBuilder strings.Builder
	args := []interface{}{fixtureID}

	queryBuilder.WriteString(`SELECT ` + matchEventColumns + ` FROM match_events WHERE fixture_id = $1`)
	if len(filter.Types) > 0 {
		types := make([]string, len(filter.Types))
		for i, t := range filter.Types {
			types[i] = string(t)
		}
		args = append(args, pq.Array(types))
		queryBuilder.WriteString(" AND event_type = ANY($" + strconv.Itoa(len(args)) + ")")
	}
	queryBuilder.WriteString(" ORDER BY event_time ASC, created_at ASC, id ASC")

	return r.list(ctx, queryBuilder.String(), args...)
}

// FindInWindow returns candidate duplicates, earliest created first.
func (r *postgresMatchEventRepository) FindInWindow(ctx context.Context, q models.DuplicateQuery) ([]*models.MatchEvent, error) {
	query := `SELECT ` + matchEventColumns + ` FROM match_events
		WHERE fixture_id = $1 AND team_id = $2 AND LOWER(TRIM(player_name)) = LOWER(TRIM($3))
			AND event_type = $4 AND event_time BETWEEN $5 AND $6
		ORDER BY created_at ASC, id ASC`
	return r.list(ctx, query, q.FixtureID, q.TeamID, q.PlayerName, q.EventType, q.FromTime, q.ToTime)
}

// CountByPlayer aggregates the whole event log per (team, player, type, own goal).
func (r *postgresMatchEventRepository) CountByPlayer(ctx context.Context) ([]models.PlayerEventCount, error) {
	query := `
		SELECT team_id, LOWER(TRIM(player_name)), event_type, is_own_goal, COUNT(*)
		FROM match_events
		GROUP BY team_id, LOWER(TRIM(player_name)), event_type, is_own_goal`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]models.PlayerEventCount, 0)
	for rows.Next() {
		var c models.PlayerEventCount
		if err = rows.Scan(&c.TeamID, &c.PlayerName, &c.EventType, &c.IsOwnGoal, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *postgresMatchEventRepository) CountByType(ctx context.Context, types ...models.EventType) (int, error) {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM match_events WHERE event_type = ANY($1)`, pq.Array(names),
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *postgresMatchEventRepository) handleEventError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrMatchEventNotFound
	}
	if pqErr, ok := asPQError(err); ok {
		switch pqErr.Code {
		case pqForeignKeyViolation:
			return ErrMatchEventInvalidRef
		case pqCheckViolation:
			return ErrMatchEventInvalidValue
		}
	}
	return err
}
