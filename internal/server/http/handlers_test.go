package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixir/examiner-recommendation-service/internal/dataset"
	"github.com/helixir/examiner-recommendation-service/internal/recommend"
)

const testCorpusCSV = `Author full names,Author(s) ID,Abstract,Author Keywords,Index Keywords
"Adams, A.",10,neural networks deep learning image classification,deep learning,
"Brown, B.",20,soil erosion hydrology watershed,,hydrology
"Clark, C.",10; 30,convolutional neural networks for image recognition,image recognition,computer vision
`

const testRosterCSV = `Auth-ID,Name,Department
10,Dr. A,Computing
20,Dr. B,Hydrology
30,Dr. C,Computing
`

const testQuery = "deep learning for image recognition using neural networks"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	corpusPath := filepath.Join(dir, "scopus.csv")
	rosterPath := filepath.Join(dir, "authors.csv")
	require.NoError(t, os.WriteFile(corpusPath, []byte(testCorpusCSV), 0o600))
	require.NoError(t, os.WriteFile(rosterPath, []byte(testRosterCSV), 0o600))

	store := dataset.NewStore(corpusPath, rosterPath, zerolog.Nop())
	require.NoError(t, store.Load())

	svc := recommend.NewService(store, recommend.Options{}, zerolog.Nop(), nil)
	return NewServer(Config{
		Address:        "127.0.0.1:0",
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    time.Minute,
		MinQueryWords:  5,
		RateLimitRPS:   100,
		RateLimitBurst: 100,
	}, svc, store, zerolog.Nop())
}

func postJSON(t *testing.T, srv *Server, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)
	return rec
}

func TestHandleRecommend(t *testing.T) {
	t.Run("returns ranked recommendations", func(t *testing.T) {
		srv := newTestServer(t)
		rec := postJSON(t, srv, "/api/v1/recommendations", map[string]interface{}{
			"abstract": testQuery,
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp recommendResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

		assert.NotEmpty(t, resp.RunID)
		require.NotEmpty(t, resp.Recommendations)
		assert.Equal(t, 1, resp.Recommendations[0].Rank)
		assert.Equal(t, "Dr. A", resp.Recommendations[0].Name)
		require.NotNil(t, resp.Summary)
		assert.Equal(t, len(resp.Recommendations), resp.Summary.TotalMatches)
		assert.Equal(t, 3, resp.Diagnostics.RecordsScanned)
		assert.Empty(t, resp.Scores)
	})

	t.Run("include_scores adds the raw score table", func(t *testing.T) {
		srv := newTestServer(t)
		rec := postJSON(t, srv, "/api/v1/recommendations", map[string]interface{}{
			"abstract":       testQuery,
			"include_scores": true,
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp recommendResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Scores, 3)
		// "Brown, B." shares no vocabulary with the query but still gets a
		// defined abstract score; its index keyword score is also defined.
		assert.NotNil(t, resp.Scores[1].ScoreAbstract)
		assert.Nil(t, resp.Scores[1].ScoreAuthorKeywords)
	})

	t.Run("top_n limits the table", func(t *testing.T) {
		srv := newTestServer(t)
		rec := postJSON(t, srv, "/api/v1/recommendations", map[string]interface{}{
			"abstract": testQuery,
			"top_n":    1,
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp recommendResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Recommendations, 1)
	})

	t.Run("short abstract carries a warning", func(t *testing.T) {
		srv := newTestServer(t)
		rec := postJSON(t, srv, "/api/v1/recommendations", map[string]interface{}{
			"abstract": "neural networks",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp recommendResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.Warning, "2 words")
	})

	t.Run("missing abstract is a bad request", func(t *testing.T) {
		srv := newTestServer(t)
		rec := postJSON(t, srv, "/api/v1/recommendations", map[string]interface{}{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("blank abstract is a bad request", func(t *testing.T) {
		srv := newTestServer(t)
		rec := postJSON(t, srv, "/api/v1/recommendations", map[string]interface{}{
			"abstract": "   ",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed JSON is a bad request", func(t *testing.T) {
		srv := newTestServer(t)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()
		srv.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unloaded dataset is service unavailable", func(t *testing.T) {
		store := dataset.NewStore("/nonexistent/a.csv", "/nonexistent/b.csv", zerolog.Nop())
		svc := recommend.NewService(store, recommend.Options{}, zerolog.Nop(), nil)
		srv := NewServer(Config{RateLimitRPS: 100, RateLimitBurst: 100}, svc, store, zerolog.Nop())

		rec := postJSON(t, srv, "/api/v1/recommendations", map[string]interface{}{
			"abstract": testQuery,
		})
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestHandleExports(t *testing.T) {
	t.Run("recommendations export returns CSV", func(t *testing.T) {
		srv := newTestServer(t)
		rec := postJSON(t, srv, "/api/v1/recommendations/export", map[string]interface{}{
			"abstract": testQuery,
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "recommendations-")

		lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
		assert.Equal(t, "Rank,Name,Department,Score,Auth-ID", lines[0])
		require.Greater(t, len(lines), 1)
		assert.True(t, strings.HasPrefix(lines[1], "1,Dr. A,"))
	})

	t.Run("scores export returns the full score table", func(t *testing.T) {
		srv := newTestServer(t)
		rec := postJSON(t, srv, "/api/v1/scores/export", map[string]interface{}{
			"abstract": testQuery,
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")

		lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
		assert.Equal(t, "Authors,IDs,Score_Abs,Score_Author,Score_Index", lines[0])
		assert.Len(t, lines, 4)
	})
}

func TestHealthEndpoints(t *testing.T) {
	t.Run("healthz is always ok", func(t *testing.T) {
		srv := newTestServer(t)
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := httptest.NewRecorder()
		srv.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("readyz reports dataset sizes", func(t *testing.T) {
		srv := newTestServer(t)
		req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
		rec := httptest.NewRecorder()
		srv.router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ready", body["status"])
		assert.Equal(t, float64(3), body["corpus_records"])
	})

	t.Run("readyz is unavailable before load", func(t *testing.T) {
		store := dataset.NewStore("/nonexistent/a.csv", "/nonexistent/b.csv", zerolog.Nop())
		svc := recommend.NewService(store, recommend.Options{}, zerolog.Nop(), nil)
		srv := NewServer(Config{RateLimitRPS: 100, RateLimitBurst: 100}, svc, store, zerolog.Nop())

		req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
		rec := httptest.NewRecorder()
		srv.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestRateLimit(t *testing.T) {
	srv := newTestServer(t)
	srv.limiter.SetLimit(0)
	srv.limiter.SetBurst(0)

	rec := postJSON(t, srv, "/api/v1/recommendations", map[string]interface{}{
		"abstract": testQuery,
	})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestCorrelationID(t *testing.T) {
	srv := newTestServer(t)

	t.Run("echoes a caller-supplied ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set("X-Correlation-ID", "abc-123")
		rec := httptest.NewRecorder()
		srv.router.ServeHTTP(rec, req)
		assert.Equal(t, "abc-123", rec.Header().Get("X-Correlation-ID"))
	})

	t.Run("generates one when absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := httptest.NewRecorder()
		srv.router.ServeHTTP(rec, req)
		assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))
	})
}
