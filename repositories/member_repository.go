package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/league-system/models"
)

var (
	ErrMemberNotFound     = errors.New("member not found")
	ErrMemberConflict     = errors.New("member name already exists in team")
	ErrMemberTeamInvalid  = errors.New("member team conflict or invalid")
	ErrMemberStatUnknown  = errors.New("unknown member stat column")
	ErrMemberStatNegative = errors.New("member stat would become negative")
)

type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	GetByID(ctx context.Context, id int) (*models.Member, error)
	GetByTeamAndName(ctx context.Context, teamID int, name string) (*models.Member, error)
	ListByTeam(ctx context.Context, teamID int) ([]*models.Member, error)
	ListAll(ctx context.Context) ([]*models.Member, error)
	IncrementStat(ctx context.Context, memberID int, stat models.MemberStat, delta int) error
	UpdateCounters(ctx context.Context, memberID int, counters models.MemberCounters) error
	UpdateParticipation(ctx context.Context, memberID int, matchesPlayed, totalMinutes int) error
}

type postgresMemberRepository struct {
	db *sql.DB
}

func NewPostgresMemberRepository(db *sql.DB) MemberRepository {
	return &postgresMemberRepository{db: db}
}

const memberColumns = `id, team_id, name, number, role, goals, assists, yellow_cards, red_cards,
	total_minutes_played, matches_played, created_at`

func (r *postgresMemberRepository) Create(ctx context.Context, member *models.Member) error {
	if member.Role == "" {
		member.Role = models.RoleOther
	}
	query := `
		INSERT INTO members (team_id, name, number, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, member.TeamID, member.Name, member.Number, member.Role).
		Scan(&member.ID, &member.CreatedAt)
	if err != nil {
		if pqErr, ok := asPQError(err); ok {
			switch pqErr.Code {
			case pqUniqueViolation:
				return ErrMemberConflict
			case pqForeignKeyViolation:
				return ErrMemberTeamInvalid
			}
		}
		return err
	}
	return nil
}

func (r *postgresMemberRepository) scanMember(row rowScanner) (*models.Member, error) {
	var m models.Member
	var number sql.NullInt64
	err := row.Scan(
		&m.ID, &m.TeamID, &m.Name, &number, &m.Role, &m.Goals, &m.Assists,
		&m.YellowCards, &m.RedCards, &m.TotalMinutesPlayed, &m.MatchesPlayed, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	if number.Valid {
		n := int(number.Int64)
		m.Number = &n
	}
	return &m, nil
}

func (r *postgresMemberRepository) GetByID(ctx context.Context, id int) (*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`
	return r.scanMember(r.db.QueryRowContext(ctx, query, id))
}

// GetByTeamAndName matches the player name case-insensitively and ignoring surrounding spaces.
func (r *postgresMemberRepository) GetByTeamAndName(ctx context.Context, teamID int, name string) (*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members
		WHERE team_id = $1 AND LOWER(TRIM(name)) = LOWER(TRIM($2))
		ORDER BY id ASC
		LIMIT 1`
	return r.scanMember(r.db.QueryRowContext(ctx, query, teamID, name))
}

func (r *postgresMemberRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Member, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]*models.Member, 0)
	for rows.Next() {
		m, errScan := r.scanMember(rows)
		if errScan != nil {
			return nil, errScan
		}
		members = append(members, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return members, nil
}

func (r *postgresMemberRepository) ListByTeam(ctx context.Context, teamID int) ([]*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE team_id = $1 ORDER BY number ASC NULLS LAST, name ASC`
	return r.list(ctx, query, teamID)
}

func (r *postgresMemberRepository) ListAll(ctx context.Context) ([]*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members ORDER BY team_id ASC, name ASC`
	return r.list(ctx, query)
}

func statColumn(stat models.MemberStat) (string, error) {
	switch stat {
	case models.StatGoals, models.StatAssists, models.StatYellowCards, models.StatRedCards:
		return string(stat), nil
	}
	return "", fmt.Errorf("%w: %q", ErrMemberStatUnknown, stat)
}

// IncrementStat adds delta to one counter. The update is refused when it would go below zero.
func (r *postgresMemberRepository) IncrementStat(ctx context.Context, memberID int, stat models.MemberStat, delta int) error {
	column, err := statColumn(stat)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE members SET %[1]s = %[1]s + $1 WHERE id = $2 AND %[1]s + $1 >= 0`, column)
	result, err := r.db.ExecContext(ctx, query, delta, memberID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		if _, getErr := r.GetByID(ctx, memberID); getErr != nil {
			return getErr
		}
		return ErrMemberStatNegative
	}
	return nil
}

func (r *postgresMemberRepository) UpdateCounters(ctx context.Context, memberID int, c models.MemberCounters) error {
	query := `
		UPDATE members SET goals = $1, assists = $2, yellow_cards = $3, red_cards = $4
		WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query, c.Goals, c.Assists, c.YellowCards, c.RedCards, memberID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMemberNotFound)
}

func (r *postgresMemberRepository) UpdateParticipation(ctx context.Context, memberID int, matchesPlayed, totalMinutes int) error {
	query := `UPDATE members SET matches_played = $1, total_minutes_played = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, matchesPlayed, totalMinutes, memberID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMemberNotFound)
}
