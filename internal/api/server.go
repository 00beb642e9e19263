// Package api exposes the listener's status over a small HTTP API and
// mounts the relay streaming endpoints.
package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/dgnsrekt/wstap/internal/relay"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Status describes the live state of the listener process.
type Status struct {
	Running           bool `json:"running"`
	ActiveConnections int  `json:"active_connections"`
	QueueDepth        int  `json:"queue_depth"`
	RelayClients      int  `json:"relay_clients"`
}

// Service is the listener surface the API reads from.
type Service interface {
	Status() Status
	Connections() map[string]string
}

// NewServer builds the HTTP handler: health and status endpoints plus
// the relay SSE and WebSocket streams.
func NewServer(svc Service, broker *relay.Broker) http.Handler {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(requestLogger)
	router.Use(middleware.Recoverer)

	cfg := huma.DefaultConfig("wstap API", "1.0.0")
	api := humachi.New(router, cfg)

	type healthOutput struct {
		Body struct {
			Status string `json:"status"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "health", Method: http.MethodGet, Path: "/health", Summary: "Health check", Tags: []string{"Health"}},
		func(ctx context.Context, input *struct{}) (*healthOutput, error) {
			out := &healthOutput{}
			out.Body.Status = "ok"
			return out, nil
		})

	type statusOutput struct {
		Body Status
	}
	huma.Register(api, huma.Operation{OperationID: "get-status", Method: http.MethodGet, Path: "/api/v1/status", Summary: "Listener status", Tags: []string{"Status"}},
		func(ctx context.Context, input *struct{}) (*statusOutput, error) {
			out := &statusOutput{}
			out.Body = svc.Status()
			return out, nil
		})

	type connectionsOutput struct {
		Body struct {
			Connections map[string]string `json:"connections"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "list-connections", Method: http.MethodGet, Path: "/api/v1/connections", Summary: "Open WebSocket connections", Tags: []string{"Status"}},
		func(ctx context.Context, input *struct{}) (*connectionsOutput, error) {
			out := &connectionsOutput{}
			out.Body.Connections = svc.Connections()
			return out, nil
		})

	router.Get("/api/v1/stream", relay.SSEHandler(broker))
	router.Get("/api/v1/ws", relay.WSHandler(broker))

	return router
}
