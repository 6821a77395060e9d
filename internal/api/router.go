package api

import (
	"net/http"

	"route-optimizer-service/internal/api/handlers"
	"route-optimizer-service/internal/optimizer"
	"route-optimizer-service/internal/ports"
	"route-optimizer-service/internal/services"
)

// RouterDeps carries everything the HTTP layer needs. Forecast and
// Traffic may be nil when the corresponding APIs are not configured.
type RouterDeps struct {
	Repo     ports.StopRepository
	Geocoder ports.Geocoder
	Matrix   ports.MatrixProvider
	Forecast ports.ForecastProvider
	Traffic  ports.TrafficProvider
	Sessions *services.SessionStore
	Config   optimizer.Config
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	routeHandler := &handlers.RouteHandler{
		Repo:     deps.Repo,
		Geocoder: deps.Geocoder,
		Matrix:   deps.Matrix,
		Forecast: deps.Forecast,
		Sessions: deps.Sessions,
		Config:   deps.Config,
	}
	trafficHandler := &handlers.TrafficHandler{
		Provider: deps.Traffic,
		Geocoder: deps.Geocoder,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/routes", routeHandler.Optimize)
	mux.HandleFunc("/routes/{id}", routeHandler.Session)
	mux.HandleFunc("/routes/{id}/complete", routeHandler.CompleteStop)
	mux.HandleFunc("/routes/{id}/delay", routeHandler.ReportDelay)
	mux.HandleFunc("/traffic", trafficHandler.Report)

	return loggingMiddleware(mux)
}
