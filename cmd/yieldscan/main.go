package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/liquidswap/yieldscan/internal/config"
	"github.com/liquidswap/yieldscan/internal/datafetcher"
	"github.com/liquidswap/yieldscan/internal/logger"
	"github.com/liquidswap/yieldscan/internal/metrics"
	"github.com/liquidswap/yieldscan/internal/pipeline"
	"github.com/liquidswap/yieldscan/internal/scanner"
	"github.com/liquidswap/yieldscan/internal/types"
	"github.com/liquidswap/yieldscan/internal/web"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// onceOutput is what RUN_ONCE prints to stdout.
type onceOutput struct {
	Pools    []types.PoolRecord      `json:"pools"`
	Failures []scanner.FailureRecord `json:"failures"`
	Metadata types.Metadata          `json:"metadata"`
}

// main is the entry point for the yield scanner.
func main() {
	// --- 1. Initialization Phase ---
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("Warning: .env file not found. Relying on OS environment variables.")
	}

	// Load configuration from environment variables
	if err := config.LoadConfig(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Initialize(config.LogLevel)
	log.Info().Msg("Liquidswap yield scanner starting...")

	farms, err := config.LoadFarms()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load farm list")
	}
	log.Info().Int("farms", len(farms)).Msg("Farm list loaded")

	// --- 2. Upstream clients ---
	httpClient := datafetcher.NewHTTPClient(datafetcher.WithTimeout(config.HTTPTimeout))

	adaptor := pipeline.NewAdaptor(pipeline.Config{
		Farms:           farms,
		Chain:           datafetcher.NewAptosClient(config.AptosNodeAPI, httpClient),
		Prices:          datafetcher.NewPriceClient(config.CoinsAPI, httpClient),
		Registry:        datafetcher.NewRegistryClient(config.RegistryAPI, config.MovementNetworkID, httpClient),
		FarmConcurrency: config.FarmConcurrency,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	promMetrics := metrics.New()
	scan, err := scanner.New(scanner.Config{Source: adaptor, Metrics: promMetrics})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create scanner")
	}

	// --- 3. Single run ---
	if config.RunOnce {
		snapshot := scan.RunCycle(ctx)
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(onceOutput{Pools: snapshot.Pools, Failures: snapshot.Failures, Metadata: adaptor.Metadata()}); err != nil {
			log.Fatal().Err(err).Msg("Failed to write snapshot")
		}
		if len(snapshot.Pools) == 0 && len(snapshot.Failures) > 0 {
			os.Exit(1)
		}
		return
	}

	// --- 4. Web server and refresh loop ---
	webServer := web.NewWebServer(config.WebPort, scan, promMetrics.Handler())
	go func() {
		log.Info().Str("port", config.WebPort).Str("url", "http://localhost:"+config.WebPort).Msg("Starting yield API")
		if err := webServer.Start(ctx); err != nil {
			log.Error().Err(err).Msg("Web server stopped with error")
			stop()
		}
	}()

	log.Info().Str("interval", config.RefreshInterval.String()).Msg("Starting refresh loop")
	scan.RunLoop(ctx, config.RefreshInterval)
	log.Info().Msg("Yield scanner stopped")
}
