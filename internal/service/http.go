package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	annealing "github.com/itay955/Weka.Simulated-Annealing-Based-Attribute-Selection"
)

// maxBodyBytes caps request bodies; datasets travel inline.
const maxBodyBytes = 32 << 20

// Router serves POST /v1/search and GET /healthz, plus GET /metrics when
// metrics is non-nil. Every search is bounded by limits.
func Router(logger *slog.Logger, observer annealing.Observer, metrics http.Handler, limits Limits) http.Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	routes := &searchRoutes{logger: logger, observer: observer, limits: limits}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", routes.healthz)
	r.Post("/v1/search", routes.search)
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}
	return r
}

type searchRoutes struct {
	logger   *slog.Logger
	observer annealing.Observer
	limits   Limits
}

func (h *searchRoutes) healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (h *searchRoutes) search(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeError(w, status, err.Error())
		return
	}
	req, err := DecodeRequest(body)
	if err == nil {
		req, err = h.limits.Apply(req)
	}
	if err != nil {
		writeError(w, Status(err), err.Error())
		return
	}

	ctx := r.Context()
	if h.limits.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.limits.Timeout)
		defer cancel()
	}

	logger := h.logger.With("request_id", middleware.GetReqID(ctx))
	opts := []annealing.Option{annealing.WithLogger(logger)}
	if h.observer != nil {
		opts = append(opts, annealing.WithObserver(h.observer))
	}

	resp, err := Run(ctx, req, opts...)
	if err != nil {
		status := Status(err)
		logger.Warn("search failed", "status", status, "error", err)
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorBody{Error: msg})
}
