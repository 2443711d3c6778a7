// Command leaguectl runs the league's batch and repair jobs against the database.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/Dosada05/league-system/config"
	"github.com/Dosada05/league-system/db"
	"github.com/Dosada05/league-system/middleware"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/services"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "leaguectl:", err)
		os.Exit(1)
	}
}

var fixtureFlag = &cli.IntFlag{Name: "fixture", Aliases: []string{"f"}, Usage: "fixture id", Required: true}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:  "leaguectl",
		Usage: "league maintenance jobs",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "policy", Usage: "match policy YAML file", EnvVars: []string{"POLICY_FILE"}},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log service activity to stderr"},
		},
		Before: func(c *cli.Context) error {
			config.LoadDotEnv()
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "create or update the schema",
				Action: func(c *cli.Context) error {
					conn, err := connect(c.Context)
					if err != nil {
						return err
					}
					defer conn.Close()
					if err := db.Migrate(c.Context, conn); err != nil {
						return err
					}
					fmt.Fprintln(out, "schema up to date")
					return nil
				},
			},
			{
				Name:  "sync-stats",
				Usage: "rebuild player counters from the event log",
				Action: withContainer(out, func(ctx context.Context, c *cli.Context, svc *services.Container) (any, error) {
					return svc.Stats.SyncAllPlayerStats(ctx)
				}),
			},
			{
				Name:  "validate-stats",
				Usage: "report player counters and appearances that disagree with the event log",
				Action: withContainer(out, func(ctx context.Context, c *cli.Context, svc *services.Container) (any, error) {
					return svc.Stats.ValidatePlayerStats(ctx)
				}),
			},
			{
				Name:  "recompute-participation",
				Usage: "rebuild matches played and minutes from player time records",
				Flags: []cli.Flag{&cli.IntSliceFlag{Name: "team", Usage: "limit to these teams (default all)"}},
				Action: withContainer(out, func(ctx context.Context, c *cli.Context, svc *services.Container) (any, error) {
					teamIDs := c.IntSlice("team")
					if len(teamIDs) == 0 {
						teams, err := svc.Teams.ListTeams(ctx)
						if err != nil {
							return nil, err
						}
						for _, t := range teams {
							teamIDs = append(teamIDs, t.ID)
						}
					}
					updated, err := svc.Stats.RecomputeParticipation(ctx, teamIDs...)
					if err != nil {
						return nil, err
					}
					return map[string]int{"players_updated": updated, "teams": len(teamIDs)}, nil
				}),
			},
			{
				Name:  "recompute-positions",
				Usage: "re-rank the league table",
				Action: withContainer(out, func(ctx context.Context, c *cli.Context, svc *services.Container) (any, error) {
					return svc.Positions.RecomputeAllPositions(ctx)
				}),
			},
			{
				Name:  "cleanup",
				Usage: "remove duplicate goals and assists of a fixture",
				Flags: []cli.Flag{fixtureFlag},
				Action: withContainer(out, func(ctx context.Context, c *cli.Context, svc *services.Container) (any, error) {
					return svc.Admin.CleanupDuplicates(ctx, c.Int("fixture"))
				}),
			},
			{
				Name:  "verify",
				Usage: "compare a fixture's stored score with its goal events",
				Flags: []cli.Flag{fixtureFlag},
				Action: withContainer(out, func(ctx context.Context, c *cli.Context, svc *services.Container) (any, error) {
					return svc.Admin.VerifySync(ctx, c.Int("fixture"))
				}),
			},
			{
				Name:  "recompute-score",
				Usage: "derive a fixture's score from its goals and apply it to the table",
				Flags: []cli.Flag{fixtureFlag},
				Action: withContainer(out, func(ctx context.Context, c *cli.Context, svc *services.Container) (any, error) {
					return svc.Scores.RecomputeScore(ctx, c.Int("fixture"))
				}),
			},
			{
				Name:  "reset",
				Usage: "withdraw a fixture's result and delete everything recorded for it",
				Flags: []cli.Flag{
					fixtureFlag,
					&cli.StringFlag{Name: "editor", Value: "leaguectl", Usage: "name written to the modification log"},
					&cli.BoolFlag{Name: "yes", Usage: "confirm the reset"},
				},
				Before: func(c *cli.Context) error {
					if !c.Bool("yes") {
						return errors.New("reset deletes match events; pass --yes to confirm")
					}
					return nil
				},
				Action: withContainer(out, func(ctx context.Context, c *cli.Context, svc *services.Container) (any, error) {
					return svc.Admin.ResetMatch(ctx, c.Int("fixture"), c.String("editor"))
				}),
			},
			{
				Name:  "token",
				Usage: "issue an API token for a referee or admin",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "user", Required: true},
					&cli.StringFlag{Name: "name", Usage: "editor name shown in modification logs"},
					&cli.StringFlag{Name: "role", Value: middleware.RoleReferee},
					&cli.DurationFlag{Name: "ttl", Value: 12 * time.Hour},
					&cli.StringFlag{Name: "secret", EnvVars: []string{"JWT_SECRET_KEY"}, Required: true},
				},
				Action: func(c *cli.Context) error {
					switch c.String("role") {
					case middleware.RoleAdmin, middleware.RoleReferee, middleware.RoleViewer:
					default:
						return fmt.Errorf("unknown role %q", c.String("role"))
					}
					auth := middleware.NewAuthenticator(c.String("secret"), nil)
					token, err := auth.IssueToken(c.Int("user"), c.String("name"), c.String("role"), c.Duration("ttl"))
					if err != nil {
						return err
					}
					fmt.Fprintln(out, token)
					return nil
				},
			},
		},
	}
}

// connect keeps a small pool; batch jobs run one at a time.
func connect(ctx context.Context) (*sql.DB, error) {
	dsn, err := config.LoadDatabaseURL()
	if err != nil {
		return nil, err
	}
	pool := db.DefaultPool()
	pool.MaxOpen = 5
	return db.Connect(ctx, dsn, pool)
}

type job func(ctx context.Context, c *cli.Context, svc *services.Container) (any, error)

// withContainer connects, wires the services and prints the job's result as JSON.
func withContainer(out io.Writer, run job) cli.ActionFunc {
	return func(c *cli.Context) error {
		policy, err := config.LoadPolicy(c.String("policy"))
		if err != nil {
			return err
		}
		conn, err := connect(c.Context)
		if err != nil {
			return err
		}
		defer conn.Close()

		level := slog.LevelWarn
		if c.Bool("verbose") {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		svc := services.NewContainer(repositories.NewPostgresSet(conn), services.ContainerDeps{
			Policy: policy,
			Obs:    services.Observability{Logger: logger},
		})

		result, err := run(c.Context, c, svc)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
}
