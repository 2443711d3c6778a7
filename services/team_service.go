package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/storage"
	"github.com/google/uuid"
)

var (
	ErrTeamNameRequired   = errors.New("team name is required")
	ErrTeamNameConflict   = errors.New("team name is already in use")
	ErrMemberConflict     = errors.New("player name is already in the roster")
	ErrLogoStorageMissing = errors.New("logo storage is not configured")
)

type TeamService interface {
	CreateTeam(ctx context.Context, team *models.Team) error
	GetTeam(ctx context.Context, id int) (*models.Team, error)
	ListTeams(ctx context.Context) ([]*models.Team, error)
	GetRoster(ctx context.Context, teamID int) ([]*models.Member, error)
	AddMember(ctx context.Context, member *models.Member) error
	UploadLogo(ctx context.Context, teamID int, contentType string, body io.Reader) (*models.Team, error)
}

type teamService struct {
	teams    repositories.TeamRepository
	members  repositories.MemberRepository
	uploader storage.FileUploader
	logger   *slog.Logger
}

func NewTeamService(teams repositories.TeamRepository, members repositories.MemberRepository, uploader storage.FileUploader, logger *slog.Logger) TeamService {
	return &teamService{teams: teams, members: members, uploader: uploader, logger: logger}
}

func (s *teamService) CreateTeam(ctx context.Context, team *models.Team) error {
	team.Name = strings.TrimSpace(team.Name)
	if team.Name == "" {
		return ErrTeamNameRequired
	}
	if err := s.teams.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return ErrTeamNameConflict
		}
		return fmt.Errorf("create team: %w", err)
	}
	return nil
}

func (s *teamService) GetTeam(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrTeamNotFound, id)
		}
		return nil, err
	}
	roster, err := s.members.ListByTeam(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load roster of team %d: %w", id, err)
	}
	team.Members = make([]models.Member, len(roster))
	for i, m := range roster {
		team.Members[i] = *m
	}
	populateTeamLogoURL(team, s.uploader)
	return team, nil
}

func (s *teamService) ListTeams(ctx context.Context) ([]*models.Team, error) {
	teams, err := s.teams.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range teams {
		populateTeamLogoURL(t, s.uploader)
	}
	return teams, nil
}

func (s *teamService) GetRoster(ctx context.Context, teamID int) ([]*models.Member, error) {
	if _, err := s.teams.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrTeamNotFound, teamID)
		}
		return nil, err
	}
	return s.members.ListByTeam(ctx, teamID)
}

func (s *teamService) AddMember(ctx context.Context, member *models.Member) error {
	member.Name = strings.TrimSpace(member.Name)
	if member.Name == "" {
		return &ValidationError{Field: "name", Message: "player name is required"}
	}
	switch member.Role {
	case "", models.RoleCaptain, models.RoleSClass, models.RoleStarter, models.RoleOther:
	default:
		return &ValidationError{Field: "role", Message: "unknown role"}
	}
	if err := s.members.Create(ctx, member); err != nil {
		switch {
		case errors.Is(err, repositories.ErrMemberConflict):
			return ErrMemberConflict
		case errors.Is(err, repositories.ErrMemberTeamInvalid):
			return fmt.Errorf("%w: %d", ErrTeamNotFound, member.TeamID)
		}
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}

// UploadLogo stores a new logo and deletes the previous object.
func (s *teamService) UploadLogo(ctx context.Context, teamID int, contentType string, body io.Reader) (*models.Team, error) {
	if s.uploader == nil {
		return nil, ErrLogoStorageMissing
	}
	ext, err := GetExtensionFromContentType(contentType)
	if err != nil {
		return nil, &ValidationError{Field: "content_type", Message: err.Error()}
	}
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrTeamNotFound, teamID)
		}
		return nil, err
	}

	key := storage.TeamLogoKey(teamID, uuid.NewString(), ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, body); err != nil {
		return nil, fmt.Errorf("upload logo: %w", err)
	}
	if err := s.teams.UpdateLogo(ctx, teamID, &key); err != nil {
		if delErr := s.uploader.Delete(ctx, key); delErr != nil {
			s.logger.ErrorContext(ctx, "Failed to delete orphaned logo", slog.String("key", key), slog.Any("error", delErr))
		}
		return nil, fmt.Errorf("save logo key: %w", err)
	}
	if team.LogoKey != nil && *team.LogoKey != "" {
		if err := s.uploader.Delete(ctx, *team.LogoKey); err != nil {
			s.logger.WarnContext(ctx, "Failed to delete previous logo", slog.String("key", *team.LogoKey), slog.Any("error", err))
		}
	}
	team.LogoKey = &key
	populateTeamLogoURL(team, s.uploader)
	return team, nil
}

func GetExtensionFromContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	case "image/svg+xml":
		return ".svg", nil
	}
	return "", fmt.Errorf("unsupported image content type: '%s'", contentType)
}
