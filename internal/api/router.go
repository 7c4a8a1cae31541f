package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/calbyte/sessiongraph/internal/api/handler"
	customMiddleware "github.com/calbyte/sessiongraph/internal/api/middleware"
	"github.com/calbyte/sessiongraph/internal/config"
	"github.com/calbyte/sessiongraph/internal/llm"
	"github.com/calbyte/sessiongraph/internal/llm/gemini"
	"github.com/calbyte/sessiongraph/internal/llm/openai"
	"github.com/calbyte/sessiongraph/internal/repository/neo4j"
	"github.com/calbyte/sessiongraph/internal/repository/redis"
	"github.com/calbyte/sessiongraph/internal/service"
	"github.com/calbyte/sessiongraph/internal/tools"
)

// NewRouter creates and configures the HTTP router. redisClient may be
// nil; caching and rate limiting are then disabled.
func NewRouter(cfg *config.Config, db *neo4j.DB, redisClient *redis.Client) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Redis-backed pieces degrade to no-ops without a client.
	var narrativeCache *redis.NarrativeCache
	var rateLimiter *redis.RateLimiter
	if redisClient != nil {
		narrativeCache = redis.NewNarrativeCache(redisClient)
		rateLimiter = redis.NewRateLimiter(
			redisClient,
			cfg.Server.RateLimit.RequestsPerMinute,
			cfg.Server.RateLimit.Burst,
		)
	}

	// LLM router
	llmRouter := llm.NewRouter(cfg.LLM.DefaultProvider)
	log.Info().Msgf("Initializing LLM providers. Default: %s", cfg.LLM.DefaultProvider)
	if cfg.LLM.OpenAI.APIKey != "" {
		llmRouter.RegisterProvider(openai.NewProvider(cfg.LLM.OpenAI.APIKey, cfg.LLM.OpenAI.Model))
	}
	if cfg.LLM.Gemini.APIKey != "" {
		llmRouter.RegisterProvider(gemini.NewProvider(cfg.LLM.Gemini.APIKey, cfg.LLM.Gemini.Model))
	}
	if len(llmRouter.ListProviders()) == 0 {
		log.Warn().Msg("no LLM provider configured, narratives will use fallback templates")
	}

	// Repositories
	sessionRepo := neo4j.NewSessionRepository(db)
	customerRepo := neo4j.NewCustomerRepository(db)

	// Services
	analysisService := service.NewAnalysisService(
		cfg.Analysis,
		cfg.LLM,
		llmRouter,
		narrativeCache,
		sessionRepo,
	)

	// Tool registry
	registry := tools.NewRegistry()
	registry.Register(tools.NewSessionSummaryTool(sessionRepo))
	registry.Register(tools.NewUserSessionsTool(sessionRepo))
	registry.Register(tools.NewUserSummaryTool(sessionRepo))
	registry.Register(tools.NewUserTagsTool(sessionRepo))
	registry.Register(tools.NewCustomerInfoTool(customerRepo))
	registry.Register(tools.NewCustomerPetsTool(customerRepo))
	registry.Register(tools.NewPetMedicalHistoryTool(customerRepo))
	registry.Register(tools.NewCustomerOrdersTool(customerRepo))
	registry.Register(tools.NewGraphQueryTool(db))

	// Handlers
	toolsHandler := handler.NewToolsHandler(registry)
	analysisHandler := handler.NewAnalysisHandler(analysisService)
	providersHandler := handler.NewProvidersHandler(llmRouter)

	rateLimitMiddleware := customMiddleware.NewRateLimitMiddleware(rateLimiter)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(db))

		r.Group(func(r chi.Router) {
			r.Use(rateLimitMiddleware.Limit)

			r.Get("/providers", providersHandler.List)
			r.Get("/tools", toolsHandler.List)
			r.Post("/tools/{name}", toolsHandler.Execute)
			r.Post("/analyze", analysisHandler.Analyze)
		})
	})

	return r
}
