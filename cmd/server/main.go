package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"route-optimizer-service/internal/adapters/cache"
	"route-optimizer-service/internal/adapters/distance"
	"route-optimizer-service/internal/adapters/repositories"
	"route-optimizer-service/internal/adapters/traffic"
	"route-optimizer-service/internal/adapters/weather"
	"route-optimizer-service/internal/api"
	"route-optimizer-service/internal/config"
	"route-optimizer-service/internal/optimizer"
	"route-optimizer-service/internal/platform/db"
	"route-optimizer-service/internal/ports"
	"route-optimizer-service/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis, ORS, OpenWeather, TomTom)
// behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	orsKey := os.Getenv("ORS_API_KEY")
	if strings.TrimSpace(orsKey) == "" {
		log.Fatal("ORS_API_KEY is required")
	}

	seedPath := config.Get("SEED_PATH", "data/seeds/stops.json")
	port := config.Get("PORT", "8080")

	pg, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pg.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := initAndSeed(pg, seedPath); err != nil {
		log.Fatal(err)
	}

	// ORS provider uses persistent Postgres caches to avoid repeated
	// geocode/matrix calls.
	legCache := cache.NewSQLLegCache(pg)
	geocodeCache := cache.NewSQLGeocodeCache(pg)
	matrixProvider, err := distance.NewORSProvider(orsKey, legCache, geocodeCache)
	if err != nil {
		log.Fatal(err)
	}

	forecastProvider := buildForecastProvider()
	trafficProvider := buildTrafficProvider()

	cfg := optimizer.DefaultConfig()
	cfg.PopulationSize = config.GetInt("GA_POPULATION_SIZE", cfg.PopulationSize)
	cfg.Generations = config.GetInt("GA_GENERATIONS", cfg.Generations)
	cfg.MutationRate = config.GetFloat("GA_MUTATION_RATE", cfg.MutationRate)
	cfg.EvalWorkers = config.GetInt("GA_EVAL_WORKERS", cfg.EvalWorkers)

	deps := api.RouterDeps{
		Repo:     repositories.NewPostgresStopRepository(pg),
		Geocoder: matrixProvider,
		Matrix:   matrixProvider,
		Forecast: forecastProvider,
		Traffic:  trafficProvider,
		Sessions: services.NewSessionStore(),
		Config:   cfg,
	}
	router := api.NewRouter(deps)

	// Timeouts are tuned for cold-cache optimization runs (external API
	// latency plus the solver itself).
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// Weather is optional: without an API key routes are optimized with no
// forecast constraints.
func buildForecastProvider() ports.ForecastProvider {
	owmKey := os.Getenv("OPENWEATHER_API_KEY")
	if strings.TrimSpace(owmKey) == "" {
		log.Println("OPENWEATHER_API_KEY not set, weather constraints disabled")
		return nil
	}

	var forecastCache *cache.RedisForecastCache
	if redisAddr := os.Getenv("REDIS_ADDR"); strings.TrimSpace(redisAddr) != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       config.GetInt("REDIS_DB", 0),
		})
		forecastCache = cache.NewRedisForecastCache(client, config.GetDuration("FORECAST_CACHE_TTL", 30*time.Minute))
	} else {
		log.Println("REDIS_ADDR not set, forecast caching disabled")
	}

	provider, err := weather.NewOpenWeatherProvider(owmKey, forecastCache)
	if err != nil {
		log.Fatal(err)
	}
	return provider
}

// Traffic is optional: without an API key the /traffic endpoint reports
// itself unavailable.
func buildTrafficProvider() ports.TrafficProvider {
	tomtomKey := os.Getenv("TOMTOM_API_KEY")
	if strings.TrimSpace(tomtomKey) == "" {
		log.Println("TOMTOM_API_KEY not set, traffic reports disabled")
		return nil
	}

	provider, err := traffic.NewTomTomProvider(tomtomKey)
	if err != nil {
		log.Fatal(err)
	}
	return provider
}

func initAndSeed(pg *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(pg); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(pg, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
