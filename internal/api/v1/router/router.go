package router

import (
	"context"
	"net/http"
	"strings"

	"app/internal/api/v1/handler"
	"app/internal/config"
	"app/internal/middleware"
	"app/internal/repository"
	"app/internal/service"
	"app/internal/variation"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// New wires the full request pipeline and returns the root handler plus the
// database pool so main can close it on shutdown.
func New(cfg *config.Config, logger zerolog.Logger) (http.Handler, *pgxpool.Pool, error) {
	logger.Info().Str("environment", cfg.Environment).Msg("Router initializing")

	dsn := cfg.DBConnectionString
	// Local postgres runs without TLS; production connection strings carry
	// their own sslmode.
	if cfg.Environment == "development" && !strings.Contains(dsn, "sslmode") {
		separator := "?"
		if strings.Contains(dsn, "?") {
			separator = "&"
		}
		dsn += separator + "sslmode=disable"
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create DB pool")
		return nil, nil, err
	}
	if err := pool.Ping(context.Background()); err != nil {
		logger.Error().Err(err).Msg("Failed to ping DB")
		return nil, nil, err
	}
	logger.Info().Msg("Database connection successful")

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepo(pool)
	jobRepo := repository.NewJobRepo(pool)

	library := variation.NewLibrary()
	completer := service.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, logger)
	extractor := service.NewExtractorClient(cfg.ExtractorServiceBaseURL, logger)

	gateSvc := service.NewGateService(userRepo, logger)
	contentSvc := service.NewContentService(extractor, logger)
	genSvc := service.NewGenerationService(completer, library, logger)
	stripeSvc := service.NewStripeService(cfg, userRepo, logger)

	generateHandler := handler.NewGenerateHandler(userRepo, jobRepo, gateSvc, contentSvc, genSvc, validate, logger)
	seriesHandler := handler.NewSeriesHandler(userRepo, gateSvc, contentSvc, genSvc, validate, logger)
	userHandler := handler.NewUserHandler(userRepo, validate, logger)
	jobHandler := handler.NewJobHandler(jobRepo, logger)
	billingHandler := handler.NewBillingHandler(stripeSvc, validate, logger)

	authMiddleware := middleware.AuthMiddleware(cfg.JWTSecret)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)

	apiV1Mux := http.NewServeMux()
	generateHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	seriesHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	userHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	jobHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	billingHandler.RegisterRoutes(apiV1Mux, authMiddleware)

	mux := http.NewServeMux()
	// The rate limiter sits in front of auth: abuse is throttled by client
	// address before any token work happens.
	mux.Handle("/v1/", rateLimiter.Middleware(http.StripPrefix("/v1", apiV1Mux)))

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return middleware.LoggerMiddleware(c.Handler(mux)), pool, nil
}
