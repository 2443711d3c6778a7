package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/league-system/league"
	"github.com/Dosada05/league-system/models"
)

var (
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamNameConflict = errors.New("team name already exists")
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListAll(ctx context.Context) ([]*models.Team, error)
	ApplyStandingsDelta(ctx context.Context, teamID int, delta league.Delta) error
	UpdatePositions(ctx context.Context, updates []models.PositionUpdate) error
	UpdateLogo(ctx context.Context, teamID int, logoKey *string) error
	Count(ctx context.Context) (int, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

const teamColumns = `id, name, color, logo_key, played, won, drawn, lost, goals_for, goals_against,
	goal_difference, points, position, previous_position, created_at, updated_at`

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (name, color, logo_key)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, team.Name, team.Color, team.LogoKey).
		Scan(&team.ID, &team.CreatedAt, &team.UpdatedAt)
	if err != nil {
		if pqErr, ok := asPQError(err); ok && pqErr.Code == pqUniqueViolation {
			return ErrTeamNameConflict
		}
		return err
	}
	return nil
}

func (r *postgresTeamRepository) scanTeam(row rowScanner) (*models.Team, error) {
	var t models.Team
	err := row.Scan(
		&t.ID, &t.Name, &t.Color, &t.LogoKey, &t.Played, &t.Won, &t.Drawn, &t.Lost,
		&t.GoalsFor, &t.GoalsAgainst, &t.GoalDifference, &t.Points, &t.Position,
		&t.PreviousPosition, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	return r.scanTeam(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresTeamRepository) ListAll(ctx context.Context) ([]*models.Team, error) {
	// Unranked teams (position 0) go last.
	query := `SELECT ` + teamColumns + ` FROM teams
		ORDER BY CASE WHEN position = 0 THEN 1 ELSE 0 END, position ASC, name ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		t, errScan := r.scanTeam(rows)
		if errScan != nil {
			return nil, errScan
		}
		teams = append(teams, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

// ApplyStandingsDelta adds a delta to a team's standings in one statement, so a reversal
// and a re-application folded into the same delta are never observed half done.
func (r *postgresTeamRepository) ApplyStandingsDelta(ctx context.Context, teamID int, delta league.Delta) error {
	query := `
		UPDATE teams SET
			played = played + $1,
			won = won + $2,
			drawn = drawn + $3,
			lost = lost + $4,
			goals_for = goals_for + $5,
			goals_against = goals_against + $6,
			goal_difference = (goals_for + $5) - (goals_against + $6),
			points = points + $7,
			updated_at = NOW()
		WHERE id = $8`
	result, err := r.db.ExecContext(ctx, query,
		delta.Played, delta.Won, delta.Drawn, delta.Lost,
		delta.GoalsFor, delta.GoalsAgainst, delta.Points, teamID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) UpdatePositions(ctx context.Context, updates []models.PositionUpdate) (err error) {
	if len(updates) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("UpdatePositions failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		UPDATE teams SET position = $1, previous_position = $2, updated_at = NOW()
		WHERE id = $3`)
	if err != nil {
		return fmt.Errorf("UpdatePositions failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, u := range updates {
		result, execErr := stmt.ExecContext(ctx, u.Position, u.PreviousPosition, u.TeamID)
		if execErr != nil {
			return fmt.Errorf("UpdatePositions failed for team %d: %w", u.TeamID, execErr)
		}
		if err = checkAffectedRows(result, ErrTeamNotFound); err != nil {
			return fmt.Errorf("UpdatePositions team %d: %w", u.TeamID, err)
		}
	}
	return nil
}

func (r *postgresTeamRepository) UpdateLogo(ctx context.Context, teamID int, logoKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE teams SET logo_key = $1, updated_at = NOW() WHERE id = $2`, logoKey, teamID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM teams`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
