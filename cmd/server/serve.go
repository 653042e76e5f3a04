package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/yukikurage/daily-planner-api/internal/calendar"
	"github.com/yukikurage/daily-planner-api/internal/config"
	"github.com/yukikurage/daily-planner-api/internal/constants"
	"github.com/yukikurage/daily-planner-api/internal/database"
	"github.com/yukikurage/daily-planner-api/internal/handlers"
	"github.com/yukikurage/daily-planner-api/internal/logging"
	"github.com/yukikurage/daily-planner-api/internal/metrics"
	"github.com/yukikurage/daily-planner-api/internal/middleware"
	"github.com/yukikurage/daily-planner-api/internal/repository"
	"github.com/yukikurage/daily-planner-api/internal/scheduler"
	"github.com/yukikurage/daily-planner-api/internal/services"
)

const (
	shutdownTimeout   = 10 * time.Second
	auditTimeout      = 30 * time.Minute
	limiterCleanupGap = 10 * time.Minute
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run migrations and start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := bootstrap()
		if err != nil {
			return err
		}
		defer database.Close()

		if err := database.Migrate(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg)
	},
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := logging.HTTP()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	clock := calendar.NewClock(loc)
	store := repository.NewStore(database.GetDB())

	sessionStore, err := newSessionStore(cfg)
	if err != nil {
		return err
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery(), logging.RequestLogger(), metrics.Middleware())
	r.Use(sessions.Sessions(constants.SessionCookieName, sessionStore))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	limiter := middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst)
	limiter.StartCleanup(limiterCleanupGap, ctx.Done())

	handlers.New(store, clock, cfg.LeaderboardExtendedBadges).Register(r, limiter.Middleware())

	jobs := scheduler.New(loc)
	audit := scheduler.NewScoreAuditJob(services.NewScoreService(store), auditTimeout)
	if _, err := jobs.ScheduleAudit(cfg.ScoreAuditSchedule, audit); err != nil {
		return err
	}
	jobs.Start()
	defer jobs.Stop()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newSessionStore builds the cookie or redis session store.
func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store
	switch strings.ToLower(cfg.SessionStore) {
	case "redis":
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		rs, err := redisStore.NewStore(
			10,        // Redis pool size
			"tcp",     // network type
			redisAddr, // Redis address from config
			"",        // username (empty for default user)
			"",        // password (empty = no password)
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, err
		}
		store = rs
	case "cookie", "":
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	default:
		return nil, errors.New("unsupported SESSION_STORE " + cfg.SessionStore)
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}
