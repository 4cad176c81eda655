package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/helixir/examiner-recommendation-service/internal/dataset"
	"github.com/helixir/examiner-recommendation-service/internal/domain"
	"github.com/helixir/examiner-recommendation-service/internal/recommend"
)

// Validation constants.
const (
	maxQueryLength     = 100000
	maxRequestBodySize = 1 << 20 // 1 MB limit for request bodies
)

// recommendRequest is the JSON request body for a recommendation query.
type recommendRequest struct {
	// Abstract is the query text scored against every corpus record.
	Abstract string `json:"abstract" validate:"required"`
	// TopN overrides how many ranked rows the response includes. Zero means
	// the configured summary top size.
	TopN *int `json:"top_n,omitempty" validate:"omitempty,min=1,max=1000"`
	// IncludeScores adds the raw per-record score table to the response.
	IncludeScores bool `json:"include_scores,omitempty"`
}

// handleRecommend handles POST /api/v1/recommendations.
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRecommendRequest(w, r)
	if !ok {
		return
	}

	result, ok := s.runQuery(r.Context(), w, req.Abstract)
	if !ok {
		return
	}

	topSize := s.svc.TopSize()
	if req.TopN != nil {
		topSize = *req.TopN
	}
	resp := resultToResponse(result, recommend.TopN(result.Ranked, topSize), req.IncludeScores)
	if warning := s.shortQueryWarning(req.Abstract); warning != "" {
		resp.Warning = warning
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleRecommendationsExport handles POST /api/v1/recommendations/export.
// It runs the query and streams the ranked table as a CSV download.
func (s *Server) handleRecommendationsExport(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRecommendRequest(w, r)
	if !ok {
		return
	}

	result, ok := s.runQuery(r.Context(), w, req.Abstract)
	if !ok {
		return
	}

	rows := result.Ranked
	if req.TopN != nil {
		rows = recommend.TopN(result.Ranked, *req.TopN)
	}

	// Buffer the CSV so errors can still produce a JSON error response.
	var buf bytes.Buffer
	if err := dataset.WriteRecommendationsCSV(&buf, rows); err != nil {
		s.logger.Error().Err(err).Msg("recommendations CSV export failed")
		writeError(w, http.StatusInternalServerError, "failed to build CSV export")
		return
	}

	writeCSV(w, fmt.Sprintf("recommendations-%s.csv", result.RunID), &buf)
}

// handleScoresExport handles POST /api/v1/scores/export. It runs the query
// and streams the raw per-record score table as a CSV download.
func (s *Server) handleScoresExport(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRecommendRequest(w, r)
	if !ok {
		return
	}

	result, ok := s.runQuery(r.Context(), w, req.Abstract)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := dataset.WriteScoreRowsCSV(&buf, result.ScoreRows); err != nil {
		s.logger.Error().Err(err).Msg("scores CSV export failed")
		writeError(w, http.StatusInternalServerError, "failed to build CSV export")
		return
	}

	writeCSV(w, fmt.Sprintf("scores-%s.csv", result.RunID), &buf)
}

// decodeRecommendRequest parses and validates the shared query request body.
// On failure it writes the error response and returns ok=false.
func (s *Server) decodeRecommendRequest(w http.ResponseWriter, r *http.Request) (recommendRequest, bool) {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return recommendRequest{}, false
	}

	var req recommendRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON request body")
		return recommendRequest{}, false
	}

	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return recommendRequest{}, false
	}

	req.Abstract = strings.TrimSpace(req.Abstract)
	if req.Abstract == "" {
		writeError(w, http.StatusBadRequest, "abstract is required")
		return recommendRequest{}, false
	}
	if len(req.Abstract) > maxQueryLength {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("abstract must be at most %d characters", maxQueryLength))
		return recommendRequest{}, false
	}

	return req, true
}

// runQuery executes the recommendation pipeline and maps domain errors onto
// HTTP status codes. On failure it writes the error response and returns
// ok=false.
func (s *Server) runQuery(ctx context.Context, w http.ResponseWriter, abstract string) (*domain.RecommendationResult, bool) {
	result, err := s.svc.Recommend(ctx, abstract)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrNoData):
			writeError(w, http.StatusServiceUnavailable, "dataset not loaded")
		case errors.Is(err, context.Canceled):
			// Client went away; nothing useful to write.
			writeError(w, 499, "request cancelled")
		default:
			s.logger.Error().Err(err).Msg("recommendation query failed")
			writeError(w, http.StatusInternalServerError, "recommendation query failed")
		}
		return nil, false
	}
	return result, true
}

// shortQueryWarning returns a warning string when the query abstract is
// shorter than the configured minimum word count. Short abstracts produce
// noisy similarity scores, so the caller is told rather than blocked.
func (s *Server) shortQueryWarning(abstract string) string {
	words := len(strings.Fields(abstract))
	if s.minQueryWords > 0 && words < s.minQueryWords {
		return fmt.Sprintf("query abstract has %d words; at least %d are recommended for stable scores", words, s.minQueryWords)
	}
	return ""
}

// writeCSV writes a CSV attachment response.
func writeCSV(w http.ResponseWriter, filename string, body io.Reader) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, body)
}
