package main

import (
	"fmt"
	"net/http"

	"github.com/mcdev12/finfootball/go/internal/gateway"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

func setupServer(services *Services, wsHandler *gateway.WebSocketHandler, port string) *http.Server {
	mux := http.NewServeMux()

	// Setup CORS middleware
	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	})

	services.Commands.RegisterRoutes(mux)
	wsHandler.RegisterRoutes(mux)
	setupHealthCheck(mux)

	return &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: c.Handler(mux),
	}
}

func setupHealthCheck(mux *http.ServeMux) {
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error().Err(err).Msg("failed to write health check response")
		}
	})
}
