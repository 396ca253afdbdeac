package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/scribe/internal/backfill"
	"github.com/MikeSquared-Agency/scribe/internal/store"
)

// BackfillServer extends the base server with an endpoint that re-processes
// exported thread documents on demand.
type BackfillServer struct {
	*Server
	defaultDir string
	statePath  string
	logger     *slog.Logger
}

// BackfillRequest is the payload for POST /api/v1/backfill/run.
type BackfillRequest struct {
	Dir         string `json:"dir,omitempty"`  // defaults to the configured export dir
	File        string `json:"file,omitempty"` // process a single file instead
	DryRun      bool   `json:"dryRun"`
	MinMessages int    `json:"minMessages"`
}

// NewBackfillServer creates a server with backfill capabilities.
func NewBackfillServer(port int, apiToken string, db *store.Store, defaultDir, statePath string, logger *slog.Logger) *BackfillServer {
	base := NewServer(port, apiToken, db)
	bs := &BackfillServer{
		Server:     base,
		defaultDir: defaultDir,
		statePath:  statePath,
		logger:     logger,
	}

	base.router.Route("/api/v1/backfill", func(r chi.Router) {
		r.Use(BearerAuthMiddleware(apiToken))
		r.Post("/run", bs.runBackfill)
	})

	return bs
}

// runBackfill handles POST /api/v1/backfill/run.
func (bs *BackfillServer) runBackfill(w http.ResponseWriter, r *http.Request) {
	var req BackfillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"invalid JSON: %v"}`, err), http.StatusBadRequest)
		return
	}

	dir := req.Dir
	if dir == "" {
		dir = bs.defaultDir
	}
	if dir == "" && req.File == "" {
		http.Error(w, `{"error":"no backfill dir configured"}`, http.StatusBadRequest)
		return
	}
	if !req.DryRun && bs.store == nil {
		http.Error(w, `{"error":"persistence not configured"}`, http.StatusServiceUnavailable)
		return
	}

	minMessages := req.MinMessages
	if minMessages < 1 {
		minMessages = 1
	}

	runner := backfill.NewRunner(backfill.Config{
		ThreadsDir:  dir,
		SingleFile:  req.File,
		StatePath:   bs.statePath,
		DryRun:      req.DryRun,
		MinMessages: minMessages,
	}, bs.store, bs.logger)

	summary, err := runner.Run(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"backfill failed: %v"}`, err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}
