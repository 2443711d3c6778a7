package services

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/Dosada05/league-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTeamService(e *env) TeamService {
	return NewTeamService(e.teams, e.members, e.uploader, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestTeamService_CreateAndRoster(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	svc := newTeamService(e)

	gamma := &models.Team{Name: "  Gamma "}
	require.NoError(t, svc.CreateTeam(ctx, gamma))
	assert.Equal(t, "Gamma", gamma.Name)

	assert.ErrorIs(t, svc.CreateTeam(ctx, &models.Team{Name: "gamma"}), ErrTeamNameConflict)
	assert.ErrorIs(t, svc.CreateTeam(ctx, &models.Team{Name: " "}), ErrTeamNameRequired)

	require.NoError(t, svc.AddMember(ctx, &models.Member{TeamID: gamma.ID, Name: "Gus", Role: models.RoleCaptain}))
	assert.ErrorIs(t, svc.AddMember(ctx, &models.Member{TeamID: gamma.ID, Name: "GUS"}), ErrMemberConflict)
	assert.ErrorIs(t, svc.AddMember(ctx, &models.Member{TeamID: gamma.ID, Name: "Gil", Role: "coach"}), ErrValidationFailed)

	team, err := svc.GetTeam(ctx, gamma.ID)
	require.NoError(t, err)
	require.Len(t, team.Members, 1)
	assert.Equal(t, "Gus", team.Members[0].Name)

	_, err = svc.GetRoster(ctx, 404)
	assert.ErrorIs(t, err, ErrTeamNotFound)
}

func TestTeamService_UploadLogo(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	svc := newTeamService(e)

	_, err := svc.UploadLogo(ctx, e.alpha.ID, "application/pdf", strings.NewReader("%PDF"))
	assert.ErrorIs(t, err, ErrValidationFailed)

	first, err := svc.UploadLogo(ctx, e.alpha.ID, "image/png", strings.NewReader("png-1"))
	require.NoError(t, err)
	require.NotNil(t, first.LogoURL)
	assert.True(t, strings.HasPrefix(*first.LogoURL, "https://cdn.example.test/logos/teams/"))
	firstKey := *first.LogoKey

	second, err := svc.UploadLogo(ctx, e.alpha.ID, "image/webp", strings.NewReader("webp-2"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(*second.LogoKey, ".webp"))

	_, ok := e.uploader.Object(firstKey)
	assert.False(t, ok, "previous logo is removed")
	data, ok := e.uploader.Object(*second.LogoKey)
	require.True(t, ok)
	assert.Equal(t, "webp-2", string(data))

	teams, err := svc.ListTeams(ctx)
	require.NoError(t, err)
	for _, team := range teams {
		if team.ID == e.alpha.ID {
			require.NotNil(t, team.LogoURL)
		}
	}
}

func TestGetExtensionFromContentType(t *testing.T) {
	ext, err := GetExtensionFromContentType("image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, ".jpg", ext)

	_, err = GetExtensionFromContentType("text/plain")
	assert.Error(t, err)
}
