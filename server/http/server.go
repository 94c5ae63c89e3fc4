package http

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	assistant "github.com/patrolscribe/assistant"
)

type Server struct {
	options   Options
	assistant *assistant.Assistant
	srv       *http.Server
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func NewServer(a *assistant.Assistant, opts ...Option) *Server {
	options := NewOptions(opts...)

	s := &Server{
		options:   options,
		assistant: a,
	}

	router := mux.NewRouter()

	router.HandleFunc("/v1/sessions", s.handleCreateSession).Methods(http.MethodPost)
	router.HandleFunc("/v1/sessions", s.handleListSessions).Methods(http.MethodGet)
	router.HandleFunc("/v1/sessions/{id}/messages", s.handleSendMessage).Methods(http.MethodPost)
	router.HandleFunc("/v1/sessions/{id}/messages", s.handleListMessages).Methods(http.MethodGet)
	router.HandleFunc("/v1/corrections", s.handleCorrection).Methods(http.MethodPost)
	router.HandleFunc("/v1/validations", s.handleValidation).Methods(http.MethodPost)
	router.HandleFunc("/v1/suggestions", s.handleSuggestion).Methods(http.MethodPost)
	router.HandleFunc("/v1/examples", s.handleExample).Methods(http.MethodPost)
	router.HandleFunc("/v1/penal-codes/{code}/elements", s.handleCrimeElements).Methods(http.MethodGet)

	var handler http.Handler = router
	if ms, ok := MiddlewareFrom(options.Context); ok {
		for i := len(ms) - 1; i >= 0; i-- {
			handler = ms[i](handler)
		}
	}
	handler = otelhttp.NewHandler(handler, "assistant")

	s.srv = &http.Server{
		Addr:    options.Address,
		Handler: handler,
	}

	return s
}
