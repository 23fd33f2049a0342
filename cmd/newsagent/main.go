package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"newsagent"
	"newsagent/checkpoint"
	"newsagent/config"
	"newsagent/fetch"
	"newsagent/llm"
	"newsagent/search"
)

func main() {
	configPath := flag.String("config", "newsagent.yaml", "Path to the YAML configuration file")
	debug := flag.Bool("debug", false, "Print full prompts and responses")
	flag.Parse()

	// .env is optional; real environments set the variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	exaKey := os.Getenv("EXA_API_KEY")
	if exaKey == "" {
		log.Fatal("Error: EXA_API_KEY is missing")
	}
	llmKey := os.Getenv("LLM_API_KEY")

	model := llm.NewOpenAI(cfg.LLM.Endpoint, cfg.LLM.Model, llmKey)
	analyzer := llm.NewOpenAIJSON(cfg.LLM.Endpoint, cfg.LLM.JSONModel, llmKey)

	wf := newsagent.New(
		newsagent.WithSearchProvider(search.NewExa(exaKey)),
		newsagent.WithFetchProvider(fetch.NewArticle()),
		newsagent.WithModel(model),
		newsagent.WithAnalyzerModel(analyzer),
		newsagent.WithNewsPerCategory(cfg.NewsPerCategory),
		newsagent.WithMaxIterations(cfg.MaxIterations),
		newsagent.WithMaxLookbackDays(cfg.MaxLookbackDays),
		newsagent.WithResultsPerQuery(cfg.ResultsPerQuery),
		newsagent.WithTrustedDomains(cfg.TrustedDomains),
		newsagent.WithInstruments(loadTextFile(cfg.InstrumentsFile)),
		newsagent.WithPrinciples(loadTextFile(cfg.PrinciplesFile)),
		newsagent.WithDebug(*debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, cleanup, err := buildStore(ctx, cfg.Checkpoint)
	if err != nil {
		log.Fatalf("Error opening checkpoint store: %v", err)
	}
	defer cleanup()

	runner := newsagent.NewRunner(wf, store, cfg.Categories)
	cp, err := runner.Run(ctx)
	if err != nil {
		log.Fatalf("Execution aborted: %v", err)
	}

	fmt.Printf("\nAll categories processed. %d digests, %d seen URLs.\n", len(cp.Digests), len(cp.SeenURLs))
}

func buildStore(ctx context.Context, cfg config.CheckpointConfig) (checkpoint.Store, func(), error) {
	switch cfg.Backend {
	case "mongo":
		store, err := checkpoint.NewMongoStore(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close(context.Background()) }, nil
	default:
		return checkpoint.NewFileStore(cfg.Dir), func() {}, nil
	}
}

// loadTextFile mirrors the tolerant loading of the reference text inputs: a
// missing file degrades to an explanatory placeholder instead of aborting the
// whole execution.
func loadTextFile(path string) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Warning: could not load %s: %v", path, err)
		return fmt.Sprintf("Error: content from %s could not be loaded.", path)
	}
	return string(data)
}
