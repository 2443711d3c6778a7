package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Dosada05/league-system/config"
	"github.com/Dosada05/league-system/league"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/storage"
)

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// normalizeName is the identity used to match a player across events, rosters and time records.
func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func validatePlayerName(field, name string, policy config.MatchPolicy) *ValidationError {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return &ValidationError{Field: field, Message: "player name is required"}
	}
	if utf8.RuneCountInString(trimmed) > policy.PlayerNameMaxLength {
		return &ValidationError{Field: field, Message: fmt.Sprintf("player name exceeds %d characters", policy.PlayerNameMaxLength)}
	}
	for _, r := range trimmed {
		if unicode.IsControl(r) || r == '<' || r == '>' {
			return &ValidationError{Field: field, Message: "player name contains invalid characters"}
		}
	}
	return nil
}

func validateEventTime(field string, seconds int, policy config.MatchPolicy) *ValidationError {
	if seconds < 0 {
		return &ValidationError{Field: field, Message: "event time must not be negative"}
	}
	if policy.MaxEventTimeSeconds > 0 && seconds > policy.MaxEventTimeSeconds {
		return &ValidationError{Field: field, Message: fmt.Sprintf("event time exceeds %d seconds", policy.MaxEventTimeSeconds)}
	}
	return nil
}

// ResolveSide turns a user-facing team label into a side of the fixture. The label may be
// "home"/"away", a team id, or a team name when the fixture's teams are loaded.
func ResolveSide(fixture *models.Fixture, label string) (models.Side, error) {
	trimmed := strings.TrimSpace(label)
	if side := models.Side(strings.ToLower(trimmed)); side.Valid() {
		return side, nil
	}
	if id, err := strconv.Atoi(trimmed); err == nil {
		if side, ok := fixture.SideOf(id); ok {
			return side, nil
		}
	}
	if trimmed != "" {
		wanted := normalizeName(trimmed)
		if fixture.HomeTeam != nil && normalizeName(fixture.HomeTeam.Name) == wanted {
			return models.SideHome, nil
		}
		if fixture.AwayTeam != nil && normalizeName(fixture.AwayTeam.Name) == wanted {
			return models.SideAway, nil
		}
	}
	return "", &TeamResolutionError{FixtureID: fixture.ID, Label: label}
}

func teamForSide(fixture *models.Fixture, side models.Side) (int, error) {
	teamID, ok := fixture.TeamID(side)
	if !ok {
		return 0, &TeamResolutionError{FixtureID: fixture.ID, Label: string(side)}
	}
	return teamID, nil
}

// storedScore is the result a completed fixture currently contributes to the table.
func storedScore(f *models.Fixture) *league.Score {
	if !f.IsCompleted() || !f.HasScore() {
		return nil
	}
	return &league.Score{Home: *f.HomeScore, Away: *f.AwayScore}
}

func loadFixture(ctx context.Context, fixtures repositories.FixtureRepository, id int) (*models.Fixture, error) {
	fixture, err := fixtures.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrFixtureNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrFixtureNotFound, id)
		}
		return nil, fmt.Errorf("failed to load fixture %d: %w", id, err)
	}
	return fixture, nil
}

func populateTeamLogoURL(team *models.Team, uploader storage.FileUploader) {
	if team != nil && team.LogoKey != nil && *team.LogoKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*team.LogoKey)
		if url != "" {
			team.LogoURL = &url
		}
	}
}
