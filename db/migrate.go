package db

import (
	"context"
	"database/sql"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS teams (
		id SERIAL PRIMARY KEY,
		name VARCHAR(120) NOT NULL UNIQUE,
		color VARCHAR(32),
		logo_key TEXT,
		played INTEGER NOT NULL DEFAULT 0,
		won INTEGER NOT NULL DEFAULT 0,
		drawn INTEGER NOT NULL DEFAULT 0,
		lost INTEGER NOT NULL DEFAULT 0,
		goals_for INTEGER NOT NULL DEFAULT 0,
		goals_against INTEGER NOT NULL DEFAULT 0,
		goal_difference INTEGER NOT NULL DEFAULT 0,
		points INTEGER NOT NULL DEFAULT 0,
		position INTEGER NOT NULL DEFAULT 0,
		previous_position INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS fixtures (
		id SERIAL PRIMARY KEY,
		home_team_id INTEGER NOT NULL REFERENCES teams(id),
		away_team_id INTEGER NOT NULL REFERENCES teams(id),
		scheduled_at TIMESTAMPTZ NOT NULL,
		venue TEXT,
		status VARCHAR(20) NOT NULL DEFAULT 'scheduled'
			CHECK (status IN ('scheduled', 'live', 'completed', 'postponed')),
		home_score INTEGER CHECK (home_score >= 0),
		away_score INTEGER CHECK (away_score >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CHECK (home_team_id <> away_team_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_fixtures_status ON fixtures(status)`,

	`CREATE TABLE IF NOT EXISTS members (
		id SERIAL PRIMARY KEY,
		team_id INTEGER NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		name VARCHAR(120) NOT NULL,
		number INTEGER,
		role VARCHAR(20) NOT NULL DEFAULT 'other',
		goals INTEGER NOT NULL DEFAULT 0,
		assists INTEGER NOT NULL DEFAULT 0,
		yellow_cards INTEGER NOT NULL DEFAULT 0,
		red_cards INTEGER NOT NULL DEFAULT 0,
		total_minutes_played INTEGER NOT NULL DEFAULT 0,
		matches_played INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (team_id, name)
	)`,

	`CREATE TABLE IF NOT EXISTS match_events (
		id BIGSERIAL PRIMARY KEY,
		fixture_id INTEGER NOT NULL REFERENCES fixtures(id) ON DELETE CASCADE,
		event_type VARCHAR(20) NOT NULL
			CHECK (event_type IN ('goal', 'yellow_card', 'red_card', 'assist', 'substitution', 'other')),
		player_name VARCHAR(120) NOT NULL,
		team_id INTEGER NOT NULL REFERENCES teams(id),
		scoring_team_id INTEGER REFERENCES teams(id),
		event_time INTEGER NOT NULL CHECK (event_time >= 0),
		is_own_goal BOOLEAN NOT NULL DEFAULT FALSE,
		description TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_match_events_lookup
		ON match_events(fixture_id, team_id, player_name, event_type, event_time)`,

	`CREATE TABLE IF NOT EXISTS player_time_tracking (
		id SERIAL PRIMARY KEY,
		fixture_id INTEGER NOT NULL REFERENCES fixtures(id) ON DELETE CASCADE,
		team_id INTEGER NOT NULL REFERENCES teams(id),
		member_id INTEGER REFERENCES members(id) ON DELETE SET NULL,
		player_name VARCHAR(120) NOT NULL,
		total_seconds INTEGER NOT NULL DEFAULT 0 CHECK (total_seconds >= 0),
		periods JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (fixture_id, team_id, player_name)
	)`,

	`CREATE TABLE IF NOT EXISTS modification_logs (
		id UUID PRIMARY KEY,
		fixture_id INTEGER NOT NULL,
		event_id BIGINT,
		editor VARCHAR(120) NOT NULL,
		action VARCHAR(20) NOT NULL,
		before JSONB,
		after JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_modification_logs_fixture ON modification_logs(fixture_id)`,
}

// Migrate creates the schema. Every statement is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	return nil
}
