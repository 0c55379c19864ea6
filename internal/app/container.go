package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"skill-assess/internal/config"
	"skill-assess/internal/database"
	dbpostgres "skill-assess/internal/database/postgres"
	"skill-assess/internal/infrastructure/broker"
	"skill-assess/internal/infrastructure/cache"
	"skill-assess/internal/oracle"
	"skill-assess/internal/pkg/jwt"
	"skill-assess/internal/pkg/logger"
	"skill-assess/internal/repository"
	"skill-assess/internal/usecase"
	"skill-assess/internal/ws"
)

// Container owns every long-lived dependency of the server process.
type Container struct {
	Config    config.Config
	Log       *zap.Logger
	DB        database.DB
	Cache     *cache.Redis
	Publisher *broker.Publisher
	Hub       *ws.Hub
	JWT       jwt.Service
	Oracle    *oracle.Client

	Auth           usecase.AuthUsecase
	Profiles       usecase.ProfileUsecase
	Assessments    usecase.AssessmentUsecase
	JobAssessments usecase.JobAssessmentUsecase
	Jobs           usecase.JobUsecase
	Matching       usecase.MatchingUsecase
	Todos          usecase.TodoUsecase
}

func NewContainer(ctx context.Context, cfg config.Config, log *zap.Logger) (*Container, error) {
	log = logger.OrNop(log)
	c := &Container{Config: cfg, Log: log}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(connectCtx, cfg.Database, log)
	if err != nil {
		return nil, err
	}
	c.DB = db

	c.Cache = cache.NewRedis(cfg.Redis, log.Named("cache"))

	pub, err := broker.NewRabbitMQ(cfg.Broker, log.Named("broker"))
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.Publisher = pub

	o, err := newOracle(ctx, cfg.Oracle)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.Oracle = oracle.NewClient(o, cfg.Oracle.Timeout, log.Named("oracle"))

	c.Hub = ws.NewHub(log.Named("ws"))
	go c.Hub.Run()

	c.JWT = jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)

	c.wireUsecases()
	return c, nil
}

func (c *Container) wireUsecases() {
	log := c.Log.Named("usecase")
	users := repository.NewPostgresUserRepository(c.DB)
	profiles := repository.NewPostgresProfileRepository(c.DB)
	jobs := repository.NewPostgresJobRepository(c.DB)
	results := repository.NewPostgresAssessmentResultRepository(c.DB)
	todos := repository.NewPostgresTodoRepository(c.DB)

	models := usecase.Models{
		Question: c.Config.Oracle.QuestionModel,
		Analysis: c.Config.Oracle.AnalysisModel,
		Todo:     c.Config.Oracle.TodoModel,
	}
	deps := usecase.AssessmentDeps{
		Profiles:  profiles,
		Results:   results,
		Oracle:    c.Oracle,
		Cache:     c.Cache,
		Publisher: c.Publisher,
		Notifier:  c.Hub,
		Models:    models,
		Logger:    log,
	}

	c.Auth = usecase.NewAuthUsecase(users, profiles, c.JWT, log)
	c.Profiles = usecase.NewProfileUsecase(profiles, c.Cache, c.Hub, log)
	c.Assessments = usecase.NewAssessmentUsecase(deps)
	c.JobAssessments = usecase.NewJobAssessmentUsecase(deps, jobs)
	c.Jobs = usecase.NewJobUsecase(jobs, profiles, log)
	c.Matching = usecase.NewMatchingUsecase(jobs, profiles, c.Cache, log)
	c.Todos = usecase.NewTodoUsecase(todos, profiles, c.Oracle, models.Todo, log)
}

func newOracle(ctx context.Context, cfg config.OracleConfig) (oracle.Oracle, error) {
	switch cfg.Provider {
	case "gemini":
		return oracle.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case "openai":
		return oracle.NewOpenAI(cfg.APIKey, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("unknown oracle provider %q", cfg.Provider)
	}
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Hub != nil {
		c.Hub.Stop()
	}
	if c.Publisher != nil {
		errs = append(errs, c.Publisher.Close())
	}
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
