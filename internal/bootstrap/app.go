package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"hirehelp-backend/internal/applications"
	"hirehelp-backend/internal/evaluations"
	"hirehelp-backend/internal/jobs"
	"hirehelp-backend/internal/notify"
	"hirehelp-backend/internal/rounds"
	"hirehelp-backend/internal/shared/config"
	"hirehelp-backend/internal/shared/server"
	"hirehelp-backend/internal/shared/storage/db"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB

	Notifier   notify.Notifier
	Dispatcher *notify.Dispatcher

	JobsRepo         jobs.Repo
	ApplicationsRepo applications.Repo
	RoundsRepo       rounds.Repo
	EvaluationsRepo  evaluations.Repo

	JobsService         *jobs.Service
	ApplicationsService *applications.Service
	RoundsService       *rounds.Service
	EvaluationsService  *evaluations.Service

	JobHandler         *jobs.Handler
	ApplicationHandler *applications.Handler
	RoundHandler       *rounds.Handler
	EvaluationHandler  *evaluations.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	notifier, err := BuildNotifier(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:     cfg,
		DB:         sqlDB,
		Notifier:   notifier,
		Dispatcher: &notify.Dispatcher{Notifier: notifier, Timeout: cfg.NotifyTimeout},
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:             app.Config,
		JobHandler:         app.JobHandler,
		ApplicationHandler: app.ApplicationHandler,
		RoundHandler:       app.RoundHandler,
		EvaluationHandler:  app.EvaluationHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

// BuildNotifier selects the delivery channel from configuration. The log
// channel is the dev default so a missing SMTP or SQS setup never blocks
// pipeline work.
func BuildNotifier(ctx context.Context, cfg config.Config) (notify.Notifier, error) {
	switch cfg.NotifyChannel {
	case "smtp":
		return notify.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom, cfg.SMTPFromName), nil
	case "sqs":
		return notify.NewSQSNotifier(ctx, cfg.AWSRegion, cfg.SQSQueueURL)
	default:
		return notify.LogNotifier{}, nil
	}
}

func buildServices(app *App) {
	if app.DB != nil {
		app.JobsRepo = &jobs.PGRepo{DB: app.DB}
		app.ApplicationsRepo = &applications.PGRepo{DB: app.DB}
		app.RoundsRepo = &rounds.PGRepo{DB: app.DB}
		app.EvaluationsRepo = &evaluations.PGRepo{DB: app.DB}
	} else {
		app.JobsRepo = jobs.NewMemoryRepo()
		app.ApplicationsRepo = applications.NewMemoryRepo()
		app.RoundsRepo = rounds.NewMemoryRepo()
		app.EvaluationsRepo = evaluations.NewMemoryRepo()
	}

	app.JobsService = jobs.NewService(app.JobsRepo)
	app.ApplicationsService = applications.NewService(app.ApplicationsRepo, app.JobsRepo, app.Dispatcher)
	app.RoundsService = rounds.NewService(app.RoundsRepo, app.JobsRepo)
	app.EvaluationsService = evaluations.NewService(app.EvaluationsRepo, app.RoundsRepo, app.ApplicationsRepo, app.JobsRepo, app.Dispatcher)

	app.JobHandler = jobs.NewHandler(app.JobsService)
	app.ApplicationHandler = applications.NewHandler(app.ApplicationsService)
	app.RoundHandler = rounds.NewHandler(app.RoundsService)
	app.EvaluationHandler = evaluations.NewHandler(app.EvaluationsService)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
