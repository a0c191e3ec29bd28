// Package server provides the public entry point for initializing the
// DinoAir service router's HTTP server.
//
// Usage:
//
//	srv := server.New()
//	http.ListenAndServe(fmt.Sprintf(":%d", srv.Port), srv.Handler)
package server

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"net/http"

	"github.com/dinoair/servicerouter/internal/api"
	"github.com/dinoair/servicerouter/internal/api/handlers"
	"github.com/dinoair/servicerouter/internal/config"
	"github.com/dinoair/servicerouter/internal/router"
)

// Server holds the initialized service router HTTP stack.
type Server struct {
	// Handler is the HTTP handler with all routes and middleware.
	Handler http.Handler

	// Router is the service router instance. Exposed so callers can
	// register services beyond what auto-registration picked up.
	Router *router.ServiceRouter

	// Handlers is the HTTP handler collection.
	Handlers *handlers.Handlers

	// Config is the server configuration.
	Config *config.Config

	// Port is the port the server should listen on.
	Port int
}

// New initializes the service router and its HTTP surface using
// environment-derived configuration.
func New() *Server {
	return NewWithConfig(config.Load())
}

// NewWithConfig initializes the service router with an explicit configuration.
func NewWithConfig(cfg *config.Config) *Server {
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	r := router.NewServiceRouter()

	router.AutoRegisterFromConfigAndEnv(r, cfg.ServicesFile)
	log.Info().Msg("service registry auto-registration complete")

	h := handlers.New(r, cfg)
	mux := api.NewRouter(cfg, h)

	return &Server{
		Handler:  mux,
		Router:   r,
		Handlers: h,
		Config:   cfg,
		Port:     cfg.Port,
	}
}
