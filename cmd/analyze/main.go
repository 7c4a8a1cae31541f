package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/calbyte/sessiongraph/internal/config"
	"github.com/calbyte/sessiongraph/internal/llm"
	"github.com/calbyte/sessiongraph/internal/llm/gemini"
	"github.com/calbyte/sessiongraph/internal/llm/openai"
	"github.com/calbyte/sessiongraph/internal/repository/neo4j"
	"github.com/calbyte/sessiongraph/internal/repository/redis"
	"github.com/calbyte/sessiongraph/internal/service"
)

func main() {
	csvPath := flag.String("csv", "", "path to the clickstream CSV export")
	customerID := flag.String("customer", "", "customer id to analyze")
	dryRun := flag.Bool("dry-run", false, "analyze without writing to the graph")
	flag.Parse()

	if *csvPath == "" || *customerID == "" {
		fmt.Fprintln(os.Stderr, "usage: analyze -csv <file> -customer <id> [-dry-run]")
		os.Exit(2)
	}

	// Load .env file if it exists
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := context.Background()

	var sessionRepo *neo4j.SessionRepository
	if !*dryRun {
		db, err := neo4j.NewDB(ctx, cfg.Neo4j)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Neo4j")
		}
		defer db.Close(ctx)
		sessionRepo = neo4j.NewSessionRepository(db)
	}

	var cache *redis.NarrativeCache
	if redisClient, err := redis.NewClient(cfg.Redis); err == nil {
		defer redisClient.Close()
		cache = redis.NewNarrativeCache(redisClient)
	} else {
		log.Warn().Err(err).Msg("Redis unavailable, narratives will not be cached")
	}

	llmRouter := llm.NewRouter(cfg.LLM.DefaultProvider)
	if cfg.LLM.OpenAI.APIKey != "" {
		llmRouter.RegisterProvider(openai.NewProvider(cfg.LLM.OpenAI.APIKey, cfg.LLM.OpenAI.Model))
	}
	if cfg.LLM.Gemini.APIKey != "" {
		llmRouter.RegisterProvider(gemini.NewProvider(cfg.LLM.Gemini.APIKey, cfg.LLM.Gemini.Model))
	}

	svc := newService(cfg, llmRouter, cache, sessionRepo)

	report, err := svc.AnalyzeFile(ctx, *csvPath, *customerID)
	if err != nil {
		log.Fatal().Err(err).Msg("Analysis failed")
	}

	fmt.Printf("Run %s for customer %s\n", report.RunID, report.CustomerID)
	fmt.Printf("  events read:        %d (%d dropped)\n", report.EventsRead, report.EventsDropped)
	fmt.Printf("  sessions found:     %d\n", report.SessionsFound)
	fmt.Printf("  sessions analyzed:  %d (%d skipped, %d failed)\n",
		report.SessionsAnalyzed, report.SessionsSkipped, report.SessionsFailed)
	fmt.Printf("  sessions persisted: %d\n", report.SessionsPersisted)
	fmt.Printf("  avg importance:     %.1f\n", report.AvgImportance)
	fmt.Printf("  avg confidence:     %.2f\n", report.AvgConfidence)
	fmt.Printf("  took:               %dms\n", report.DurationMs)
}

// newService keeps a nil repository pointer from becoming a non-nil
// interface inside the service.
func newService(cfg *config.Config, router *llm.Router, cache *redis.NarrativeCache, repo *neo4j.SessionRepository) *service.AnalysisService {
	if repo == nil {
		return service.NewAnalysisService(cfg.Analysis, cfg.LLM, router, cache, nil)
	}
	return service.NewAnalysisService(cfg.Analysis, cfg.LLM, router, cache, repo)
}
