// Package apiserver exposes the classification engine over HTTP: single and
// batch classification, the training-feedback channel, and model snapshot
// export/import.
package apiserver

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/formsense/field-classifier/pkg/classification"
	"github.com/formsense/field-classifier/pkg/ensemble"
	"github.com/formsense/field-classifier/pkg/features"
	"github.com/formsense/field-classifier/pkg/feedback"
	"github.com/formsense/field-classifier/pkg/mlp"
	"github.com/formsense/field-classifier/pkg/observability/logging"
	"github.com/formsense/field-classifier/pkg/observability/metrics"
)

// Server serves the classification API. All collaborators are injected; the
// journal may be nil when feedback durability is disabled.
type Server struct {
	engine  *ensemble.Engine
	network *mlp.Network
	journal *feedback.Journal
}

// New creates a server over an engine and its underlying network.
func New(engine *ensemble.Engine, network *mlp.Network, journal *feedback.Journal) *Server {
	return &Server{engine: engine, network: network, journal: journal}
}

// Start blocks serving the API on the given port.
func (s *Server) Start(port int) error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.setupRoutes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	logging.Infof("Classification API server listening on port %d", port)
	return server.ListenAndServe()
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /api/v1/classify", s.handleClassify)
	mux.HandleFunc("POST /api/v1/feedback", s.handleFeedback)

	mux.HandleFunc("GET /api/v1/model/snapshot", s.handleSnapshotExport)
	mux.HandleFunc("PUT /api/v1/model/snapshot", s.handleSnapshotImport)

	mux.HandleFunc("GET /api/v1/stats", s.handleStats)

	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status": "healthy", "service": "field-classifier"}`))
}

// ClassifyRequest carries either one field or a batch. Exactly one of the
// two must be set.
type ClassifyRequest struct {
	Field  *features.FieldDescriptor   `json:"field,omitempty"`
	Fields []*features.FieldDescriptor `json:"fields,omitempty"`
}

// ClassifyResponse tags every decision batch with a unique id so individual
// decisions can be traced through downstream review tooling.
type ClassifyResponse struct {
	DecisionID string                                `json:"decision_id"`
	Results    []classification.ClassificationResult `json:"results"`
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := s.parseJSONRequest(r, &req); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if (req.Field == nil) == (len(req.Fields) == 0) {
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", "exactly one of 'field' or 'fields' must be set")
		return
	}

	var results []classification.ClassificationResult
	if req.Field != nil {
		results = []classification.ClassificationResult{s.engine.Classify(req.Field)}
	} else {
		results = s.engine.ClassifyBatch(r.Context(), req.Fields)
	}

	s.writeJSONResponse(w, http.StatusOK, ClassifyResponse{
		DecisionID: uuid.NewString(),
		Results:    results,
	})
}

// FeedbackRequest is one human-corrected training signal.
type FeedbackRequest struct {
	Field *features.FieldDescriptor `json:"field"`
	Label string                    `json:"label"`
}

// FeedbackResponse reports whether the gradient step was applied. A label
// outside the taxonomy is an expected occurrence (label vocabularies drift),
// so it is reported, not treated as a server error.
type FeedbackResponse struct {
	Applied bool   `json:"applied"`
	Reason  string `json:"reason,omitempty"`
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if err := s.parseJSONRequest(r, &req); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if req.Field == nil || req.Label == "" {
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", "'field' and 'label' are required")
		return
	}

	// Journal before training: the signal must survive even if the current
	// model generation rejects it, so a future generation can replay it.
	if s.journal != nil {
		if err := s.journal.Record(r.Context(), req.Field, req.Label); err != nil {
			logging.Errorf("Failed to journal feedback: %v", err)
		}
	}

	if err := s.engine.Train(req.Field, req.Label); err != nil {
		s.writeJSONResponse(w, http.StatusOK, FeedbackResponse{Applied: false, Reason: err.Error()})
		return
	}
	s.writeJSONResponse(w, http.StatusOK, FeedbackResponse{Applied: true})
}

func (s *Server) handleSnapshotExport(w http.ResponseWriter, _ *http.Request) {
	s.writeJSONResponse(w, http.StatusOK, s.network.Export())
}

func (s *Server) handleSnapshotImport(w http.ResponseWriter, r *http.Request) {
	var snap mlp.Snapshot
	if err := s.parseJSONRequest(r, &snap); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if err := s.network.Load(&snap); err != nil {
		// The live weights are untouched on a rejected snapshot.
		metrics.RecordSnapshotLoad("rejected")
		s.writeErrorResponse(w, http.StatusUnprocessableEntity, "SNAPSHOT_MISMATCH", err.Error())
		return
	}
	metrics.RecordSnapshotLoad("loaded")
	s.writeJSONResponse(w, http.StatusOK, map[string]any{
		"loaded":        true,
		"total_samples": snap.TotalSamples,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	stats := s.engine.Stats()
	s.writeJSONResponse(w, http.StatusOK, map[string]any{
		"classified":    stats.Classified.Load(),
		"trained":       stats.TrainedOK.Load(),
		"train_rejects": stats.TrainRejects.Load(),
		"tier_wins":     stats.TierWins(),
		"total_samples": s.network.TotalSamples(),
	})
}

// Helper methods for JSON handling.
func (s *Server) parseJSONRequest(r *http.Request, v interface{}) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return fmt.Errorf("failed to read request body: %w", err)
	}
	defer r.Body.Close()

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	return nil
}

func (s *Server) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Errorf("Failed to encode JSON response: %v", err)
	}
}

func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) {
	s.writeJSONResponse(w, statusCode, map[string]interface{}{
		"error": map[string]interface{}{
			"code":      errorCode,
			"message":   message,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}
