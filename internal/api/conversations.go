package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/scribe/internal/extractor"
)

// ExtractResponse wraps the extraction result with the id it was stored
// under, when persistence was requested.
type ExtractResponse struct {
	extractor.Result
	ConversationID string `json:"conversationId,omitempty"`
}

// extractConversation handles POST /api/v1/conversations/extract. The body
// is the raw thread document. Extraction failures are reported inside the
// result (success=false), not as HTTP errors — the engine's contract is that
// callers check the success flag.
func (s *Server) extractConversation(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"read body: %v"}`, err), http.StatusBadRequest)
		return
	}

	resp := ExtractResponse{Result: extractor.Extract(string(body))}

	if resp.Success && r.URL.Query().Get("persist") == "1" {
		if s.store == nil {
			http.Error(w, `{"error":"persistence not configured"}`, http.StatusServiceUnavailable)
			return
		}
		threadRef := r.URL.Query().Get("threadRef")
		if threadRef == "" {
			threadRef = "api:" + uuid.New().String()
		}
		id, err := s.store.SaveConversation(r.Context(), threadRef, resp.Result)
		if err != nil {
			http.Error(w, fmt.Sprintf(`{"error":"store conversation: %v"}`, err), http.StatusInternalServerError)
			return
		}
		resp.ConversationID = id.String()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// getConversation handles GET /api/v1/conversations/{id}.
func (s *Server) getConversation(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, `{"error":"persistence not configured"}`, http.StatusServiceUnavailable)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"invalid conversation id"}`, http.StatusBadRequest)
		return
	}

	sc, err := s.store.GetConversation(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"conversation not found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sc)
}

// listConversations handles GET /api/v1/conversations?limit=N.
func (s *Server) listConversations(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, `{"error":"persistence not configured"}`, http.StatusServiceUnavailable)
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 200 {
			http.Error(w, `{"error":"invalid limit"}`, http.StatusBadRequest)
			return
		}
		limit = n
	}

	list, err := s.store.ListRecent(r.Context(), limit)
	if err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"list conversations: %v"}`, err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"conversations": list,
		"count":         len(list),
	})
}
