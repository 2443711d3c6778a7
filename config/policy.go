package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDuplicateWindowSeconds  = 10
	DefaultMinParticipationSeconds = 60
	DefaultMaxEventTimeSeconds     = 3 * 60 * 60
	DefaultPlayerNameMaxLength     = 80
)

// RoleLimit bounds the on-field seconds a player of a given role may accumulate in one fixture.
// Zero means unbounded.
type RoleLimit struct {
	MinSeconds int `yaml:"min_seconds" json:"min_seconds"`
	MaxSeconds int `yaml:"max_seconds" json:"max_seconds"`
}

// MatchPolicy holds the tunable rules of match recording.
type MatchPolicy struct {
	DuplicateWindowSeconds  int                  `yaml:"duplicate_window_seconds" json:"duplicate_window_seconds"`
	MinParticipationSeconds int                  `yaml:"min_participation_seconds" json:"min_participation_seconds"`
	MaxEventTimeSeconds     int                  `yaml:"max_event_time_seconds" json:"max_event_time_seconds"`
	PlayerNameMaxLength     int                  `yaml:"player_name_max_length" json:"player_name_max_length"`
	RoleLimits              map[string]RoleLimit `yaml:"role_limits" json:"role_limits"`
}

func DefaultPolicy() MatchPolicy {
	return MatchPolicy{
		DuplicateWindowSeconds:  DefaultDuplicateWindowSeconds,
		MinParticipationSeconds: DefaultMinParticipationSeconds,
		MaxEventTimeSeconds:     DefaultMaxEventTimeSeconds,
		PlayerNameMaxLength:     DefaultPlayerNameMaxLength,
		RoleLimits:              map[string]RoleLimit{},
	}
}

// LoadPolicy reads a YAML policy file. An empty path or a missing file yields the defaults;
// fields absent from the file keep their default values.
func LoadPolicy(path string) (MatchPolicy, error) {
	policy := DefaultPolicy()
	if path == "" {
		return policy, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return policy, nil
		}
		return MatchPolicy{}, fmt.Errorf("failed to read policy file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &policy); err != nil {
		return MatchPolicy{}, fmt.Errorf("failed to unmarshal policy file %s: %w", path, err)
	}
	if policy.RoleLimits == nil {
		policy.RoleLimits = map[string]RoleLimit{}
	}
	if err := policy.Validate(); err != nil {
		return MatchPolicy{}, err
	}
	return policy, nil
}

func (p MatchPolicy) Validate() error {
	if p.DuplicateWindowSeconds <= 0 {
		return fmt.Errorf("duplicate_window_seconds must be positive, got %d", p.DuplicateWindowSeconds)
	}
	if p.MinParticipationSeconds < 0 {
		return fmt.Errorf("min_participation_seconds must not be negative, got %d", p.MinParticipationSeconds)
	}
	if p.MaxEventTimeSeconds <= 0 {
		return fmt.Errorf("max_event_time_seconds must be positive, got %d", p.MaxEventTimeSeconds)
	}
	if p.PlayerNameMaxLength <= 0 {
		return fmt.Errorf("player_name_max_length must be positive, got %d", p.PlayerNameMaxLength)
	}
	for role, limit := range p.RoleLimits {
		if limit.MinSeconds < 0 || limit.MaxSeconds < 0 {
			return fmt.Errorf("role_limits[%s]: limits must not be negative", role)
		}
		if limit.MaxSeconds > 0 && limit.MinSeconds > limit.MaxSeconds {
			return fmt.Errorf("role_limits[%s]: min_seconds %d exceeds max_seconds %d", role, limit.MinSeconds, limit.MaxSeconds)
		}
	}
	return nil
}
