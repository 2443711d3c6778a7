package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/league-system/models"
)

var (
	ErrPlayerTimeInvalidRef = errors.New("player time references unknown fixture or team")
	ErrPlayerTimeNegative   = errors.New("player time must not be negative")
)

type PlayerTimeRepository interface {
	Upsert(ctx context.Context, record *models.PlayerTimeRecord) error
	ListByFixture(ctx context.Context, fixtureID int) ([]*models.PlayerTimeRecord, error)
	ParticipationByPlayer(ctx context.Context, minSeconds int) ([]models.Participation, error)
	DeleteByFixture(ctx context.Context, fixtureID int) (int64, error)
}

type postgresPlayerTimeRepository struct {
	db *sql.DB
}

func NewPostgresPlayerTimeRepository(db *sql.DB) PlayerTimeRepository {
	return &postgresPlayerTimeRepository{db: db}
}

// Upsert writes one row per (fixture, team, player). A re-save replaces the previous totals.
func (r *postgresPlayerTimeRepository) Upsert(ctx context.Context, record *models.PlayerTimeRecord) error {
	query := `
		INSERT INTO player_time_tracking (fixture_id, team_id, member_id, player_name, total_seconds, periods)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (fixture_id, team_id, player_name) DO UPDATE SET
			member_id = EXCLUDED.member_id,
			total_seconds = EXCLUDED.total_seconds,
			periods = EXCLUDED.periods,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		record.FixtureID,
		record.TeamID,
		record.MemberID,
		record.PlayerName,
		record.TotalSeconds,
		record.Periods,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		if pqErr, ok := asPQError(err); ok {
			switch pqErr.Code {
			case pqForeignKeyViolation:
				return ErrPlayerTimeInvalidRef
			case pqCheckViolation:
				return ErrPlayerTimeNegative
			}
		}
		return err
	}
	return nil
}

func (r *postgresPlayerTimeRepository) ListByFixture(ctx context.Context, fixtureID int) ([]*models.PlayerTimeRecord, error) {
	query := `
		SELECT id, fixture_id, team_id, member_id, player_name, total_seconds, periods, created_at, updated_at
		FROM player_time_tracking
		WHERE fixture_id = $1
		ORDER BY team_id ASC, player_name ASC`
	rows, err := r.db.QueryContext(ctx, query, fixtureID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*models.PlayerTimeRecord, 0)
	for rows.Next() {
		var rec models.PlayerTimeRecord
		var memberID sql.NullInt64
		if err = rows.Scan(
			&rec.ID, &rec.FixtureID, &rec.TeamID, &memberID, &rec.PlayerName,
			&rec.TotalSeconds, &rec.Periods, &rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if memberID.Valid {
			id := int(memberID.Int64)
			rec.MemberID = &id
		}
		records = append(records, &rec)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// ParticipationByPlayer sums time per (team, player). Only fixtures where the player
// reached minSeconds count towards matches played.
func (r *postgresPlayerTimeRepository) ParticipationByPlayer(ctx context.Context, minSeconds int) ([]models.Participation, error) {
	query := `
		SELECT team_id, LOWER(TRIM(player_name)),
			COUNT(*) FILTER (WHERE total_seconds >= $1),
			COALESCE(SUM(total_seconds), 0)
		FROM player_time_tracking
		GROUP BY team_id, LOWER(TRIM(player_name))`
	rows, err := r.db.QueryContext(ctx, query, minSeconds)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]models.Participation, 0)
	for rows.Next() {
		var p models.Participation
		if err = rows.Scan(&p.TeamID, &p.PlayerName, &p.MatchesPlayed, &p.TotalSeconds); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresPlayerTimeRepository) DeleteByFixture(ctx context.Context, fixtureID int) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM player_time_tracking WHERE fixture_id = $1`, fixtureID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
