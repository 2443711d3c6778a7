package routes

import (
	"net/http"

	"github.com/Dosada05/league-system/handlers"
	"github.com/Dosada05/league-system/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handlers struct {
	Match     *handlers.MatchHandler
	Session   *handlers.SessionHandler
	Admin     *handlers.AdminHandler
	Team      *handlers.TeamHandler
	Dashboard *handlers.DashboardHandler
	WebSocket *handlers.WebSocketHandler
}

type Options struct {
	Auth           *middleware.Authenticator
	Limiter        *middleware.RateLimiter
	AllowedOrigins []string
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
}

func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	if opts.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	// Mutations are rate limited after authentication so each operator has its own budget.
	limited := func(r chi.Router) {
		r.Use(opts.Auth.Authenticate)
		if opts.Limiter != nil {
			r.Use(opts.Limiter.Limit)
		}
	}

	router.Route("/ws", func(r chi.Router) {
		r.Get("/fixtures/{fixtureID}", h.WebSocket.ServeFixture)
		r.Get("/league", h.WebSocket.ServeLeague)
	})

	router.Route("/dashboard", func(r chi.Router) {
		r.Get("/stats", h.Dashboard.Stats)
		r.Get("/standings", h.Dashboard.Standings)
		r.Get("/leaders", h.Dashboard.Leaders)
	})

	router.Route("/teams", func(r chi.Router) {
		r.Get("/", h.Team.ListTeams)
		r.Get("/{teamID}", h.Team.GetTeamByID)
		r.Get("/{teamID}/members", h.Team.GetRoster)

		r.Group(func(r chi.Router) {
			limited(r)
			r.Use(middleware.Authorize(middleware.RoleAdmin))
			r.Post("/", h.Team.CreateTeam)
			r.Post("/{teamID}/members", h.Team.AddMember)
			r.Post("/{teamID}/logo", h.Team.UploadLogo)
		})
	})

	router.Route("/fixtures", func(r chi.Router) {
		r.Get("/", h.Match.ListFixtures)
		r.Get("/{fixtureID}", h.Match.GetFixture)
		r.Get("/{fixtureID}/events", h.Match.ListEvents)
		r.Get("/{fixtureID}/player-times", h.Match.ListPlayerTimes)
		r.Get("/{fixtureID}/modifications", h.Match.ListModifications)

		r.Group(func(r chi.Router) {
			limited(r)
			r.Use(middleware.Authorize(middleware.RoleReferee, middleware.RoleAdmin))

			r.Post("/{fixtureID}/goals", h.Match.AssignGoal)
			r.Post("/{fixtureID}/assists", h.Match.AssignAssist)
			r.Post("/{fixtureID}/cards", h.Match.AssignCard)
			r.Post("/{fixtureID}/player-times", h.Match.RecordPlayerTime)
			r.Post("/{fixtureID}/save", h.Match.SaveMatch)

			r.Route("/{fixtureID}/session", func(r chi.Router) {
				r.Get("/", h.Session.Snapshot)
				r.Post("/start", h.Session.Start)
				r.Post("/pause", h.Session.Pause)
				r.Post("/reset", h.Session.Reset)
				r.Post("/goals", h.Session.AddGoal)
				r.Post("/goals/remove", h.Session.RemoveGoal)
				r.Post("/goals/{goalID}/assign", h.Session.AssignGoal)
				r.Post("/cards", h.Session.AddCard)
				r.Post("/players", h.Session.AddPlayer)
				r.Delete("/players/{side}/{playerName}", h.Session.RemovePlayer)
				r.Post("/players/{side}/{playerName}/toggle", h.Session.ToggleOnField)
				r.Post("/save", h.Session.Save)
			})
		})

		r.Group(func(r chi.Router) {
			limited(r)
			r.Use(middleware.Authorize(middleware.RoleAdmin))
			r.Post("/", h.Match.CreateFixture)
			r.Post("/{fixtureID}/reset", h.Admin.ResetMatch)
		})
	})

	router.Route("/events", func(r chi.Router) {
		limited(r)
		r.Use(middleware.Authorize(middleware.RoleAdmin))
		r.Patch("/{eventID}", h.Admin.EditEvent)
		r.Delete("/{eventID}", h.Admin.DeleteEvent)
	})

	router.Route("/admin", func(r chi.Router) {
		limited(r)
		r.Use(middleware.Authorize(middleware.RoleAdmin))
		r.Post("/fixtures/{fixtureID}/cleanup", h.Admin.CleanupDuplicates)
		r.Get("/fixtures/{fixtureID}/verify", h.Admin.VerifySync)
		r.Post("/stats/sync", h.Admin.SyncPlayerStats)
		r.Get("/stats/validate", h.Admin.ValidatePlayerStats)
		r.Post("/positions/recompute", h.Admin.RecomputePositions)
	})
}
