package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/Dosada05/league-system/models"
)

var (
	ErrFixtureNotFound    = errors.New("fixture not found")
	ErrFixtureTeamInvalid = errors.New("fixture team conflict or invalid")
	ErrFixtureScoreValue  = errors.New("fixture score or status rejected by constraint")
)

type FixtureRepository interface {
	Create(ctx context.Context, fixture *models.Fixture) error
	GetByID(ctx context.Context, id int) (*models.Fixture, error)
	List(ctx context.Context, filter models.FixtureFilter) ([]*models.Fixture, error)
	UpdateResult(ctx context.Context, id int, homeScore, awayScore *int, status models.FixtureStatus) error
	Count(ctx context.Context, status *models.FixtureStatus) (int, error)
}

type postgresFixtureRepository struct {
	db *sql.DB
}

func NewPostgresFixtureRepository(db *sql.DB) FixtureRepository {
	return &postgresFixtureRepository{db: db}
}

const fixtureColumns = `id, home_team_id, away_team_id, scheduled_at, venue, status, home_score, away_score, created_at, updated_at`

func (r *postgresFixtureRepository) Create(ctx context.Context, fixture *models.Fixture) error {
	if fixture.Status == "" {
		fixture.Status = models.FixtureScheduled
	}
	query := `
		INSERT INTO fixtures (home_team_id, away_team_id, scheduled_at, venue, status, home_score, away_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		fixture.HomeTeamID,
		fixture.AwayTeamID,
		fixture.ScheduledAt,
		fixture.Venue,
		fixture.Status,
		fixture.HomeScore,
		fixture.AwayScore,
	).Scan(&fixture.ID, &fixture.CreatedAt, &fixture.UpdatedAt)

	return r.handleFixtureError(err)
}

func (r *postgresFixtureRepository) scanFixture(row rowScanner) (*models.Fixture, error) {
	var f models.Fixture
	var homeScore, awayScore sql.NullInt64
	err := row.Scan(
		&f.ID,
		&f.HomeTeamID,
		&f.AwayTeamID,
		&f.ScheduledAt,
		&f.Venue,
		&f.Status,
		&homeScore,
		&awayScore,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if homeScore.Valid {
		v := int(homeScore.Int64)
		f.HomeScore = &v
	}
	if awayScore.Valid {
		v := int(awayScore.Int64)
		f.AwayScore = &v
	}
	return &f, nil
}

func (r *postgresFixtureRepository) GetByID(ctx context.Context, id int) (*models.Fixture, error) {
	query := `SELECT ` + fixtureColumns + ` FROM fixtures WHERE id = $1`
	fixture, err := r.scanFixture(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFixtureNotFound
		}
		return nil, err
	}
	return fixture, nil
}

func (r *postgresFixtureRepository) List(ctx context.Context, filter models.FixtureFilter) ([]*models.Fixture, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + fixtureColumns + ` FROM fixtures WHERE 1=1`)

	args := []interface{}{}
	placeholderIndex := 1

	if filter.Status != nil {
		queryBuilder.WriteString(" AND status = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *filter.Status)
		placeholderIndex++
	}

	if filter.TeamID != nil {
		p := strconv.Itoa(placeholderIndex)
		queryBuilder.WriteString(" AND (home_team_id = $" + p + " OR away_team_id = $" + p + ")")
		args = append(args, *filter.TeamID)
		placeholderIndex++
	}

	queryBuilder.WriteString(" ORDER BY scheduled_at ASC, id ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fixtures := make([]*models.Fixture, 0)
	for rows.Next() {
		f, scanErr := r.scanFixture(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		fixtures = append(fixtures, f)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return fixtures, nil
}

// UpdateResult writes both scores and the status in a single statement.
func (r *postgresFixtureRepository) UpdateResult(ctx context.Context, id int, homeScore, awayScore *int, status models.FixtureStatus) error {
	query := `
		UPDATE fixtures
		SET home_score = $1, away_score = $2, status = $3, updated_at = NOW()
		WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, homeScore, awayScore, status, id)
	if err != nil {
		return r.handleFixtureError(err)
	}
	return checkAffectedRows(result, ErrFixtureNotFound)
}

func (r *postgresFixtureRepository) Count(ctx context.Context, status *models.FixtureStatus) (int, error) {
	query := `SELECT COUNT(*) FROM fixtures`
	args := []interface{}{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *postgresFixtureRepository) handleFixtureError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := asPQError(err); ok {
		switch pqErr.Code {
		case pqForeignKeyViolation:
			switch pqErr.Constraint {
			case "fixtures_home_team_id_fkey", "fixtures_away_team_id_fkey":
				return ErrFixtureTeamInvalid
			}
		case pqCheckViolation:
			return ErrFixtureScoreValue
		}
	}
	return err
}
