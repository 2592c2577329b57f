// Command pageflow-demo serves a browsable demonstration of the pagination
// controller over an in-memory article feed. It stands in for the UI
// layer: GET /state renders the current snapshot, POST /next signals
// "load next page" (e.g. scroll-to-end).
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/pageflow-go/pageflow/pkg/logging"
	"github.com/pageflow-go/pageflow/pkg/pager"
	"github.com/pageflow-go/pageflow/pkg/source"
)

// Article is the demo item type.
type Article struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger, err := logging.Setup(logging.Config{
		Level:  logging.LogLevel(getEnv("LOG_LEVEL", "info")),
		Pretty: getEnv("LOG_PRETTY", "") != "",
		Output: os.Stderr,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger setup failed: %v\n", err)
		os.Exit(1)
	}

	port := getEnv("PORT", "8080")
	redisURL := getEnv("REDIS_URL", "")

	src := demoSource(logger, redisURL)

	p, err := pager.New[Article](src, pager.DefaultConfig())
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create paginator")
	}
	defer p.Close()

	// UI-layer stand-in for a toast: surface one-shot errors in the log.
	go func() {
		for err := range p.Errors() {
			logger.Warn().Err(err).Msg("Page load failed")
		}
	}()

	http.HandleFunc("/state", stateHandler(p))
	http.HandleFunc("/next", nextHandler(p))
	http.HandleFunc("/healthz", healthHandler)
	http.Handle("/metrics", promhttp.Handler())

	addr := ":" + port
	logger.Info().Str("addr", addr).Msg("Starting pageflow demo server")

	if err := http.ListenAndServe(addr, nil); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}

// demoSource builds the demo data source: 45 articles behind simulated
// latency, optionally fronted by a Redis page cache, always wrapped with
// retries.
func demoSource(logger zerolog.Logger, redisURL string) pager.DataSource[Article] {
	articles := make([]Article, 45)
	for i := range articles {
		articles[i] = Article{
			ID:    i + 1,
			Title: fmt.Sprintf("Article %d", i+1),
		}
	}

	var src source.DataSource[Article] = source.NewMemory(articles).WithDelay(300 * time.Millisecond)

	if redisURL != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: redisURL})
		cached, err := source.NewCached[Article](src, redisClient, source.CacheConfig{
			Name: "demo-articles",
			TTL:  time.Minute,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to create cached source")
		}
		logger.Info().Str("redis", redisURL).Msg("Page cache enabled")
		src = cached
	}

	return source.NewRetry[Article](src, source.DefaultRetryConfig())
}

// stateHandler renders the current snapshot as JSON.
func stateHandler(p *pager.Paginator[Article]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(p.Snapshot()); err != nil {
			http.Error(w, fmt.Sprintf("encode state: %v", err), http.StatusInternalServerError)
		}
	}
}

// nextHandler signals a load-next-page request. The call is fire-and-
// forget: the response reflects the snapshot right after the command.
func nextHandler(p *pager.Paginator[Article]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		p.LoadNextPage()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		if err := json.NewEncoder(w).Encode(p.Snapshot()); err != nil {
			http.Error(w, fmt.Sprintf("encode state: %v", err), http.StatusInternalServerError)
		}
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
