package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/helixir/examiner-recommendation-service/internal/dataset"
	"github.com/helixir/examiner-recommendation-service/internal/domain"
	"github.com/helixir/examiner-recommendation-service/internal/observability"
)

// Options configures a Service.
type Options struct {
	// ScanWorkers bounds the corpus scan parallelism; 1 means sequential.
	ScanWorkers int
	// TopSize is the size of the top slice used for summary statistics.
	TopSize int
}

// Service runs the recommendation pipeline end to end: corpus scan,
// identifier explosion, roster join, report assembly. It is stateless across
// queries; every run is independent and works on the dataset snapshot
// captured at its start.
type Service struct {
	store   *dataset.Store
	opts    Options
	logger  zerolog.Logger
	metrics *observability.Metrics
}

// NewService creates a Service. metrics may be nil when metrics collection
// is disabled.
func NewService(store *dataset.Store, opts Options, logger zerolog.Logger, metrics *observability.Metrics) *Service {
	if opts.ScanWorkers < 1 {
		opts.ScanWorkers = 1
	}
	if opts.TopSize < 1 {
		opts.TopSize = DefaultTopSize
	}
	return &Service{
		store:   store,
		opts:    opts,
		logger:  logger.With().Str("component", "recommend-service").Logger(),
		metrics: metrics,
	}
}

// Recommend scores the corpus against the query abstract and returns the raw
// score table, the ranked recommendation table, and summary statistics.
//
// A blank query is domain.ErrInvalidInput; a missing dataset snapshot is
// domain.ErrNoData. An empty join result is not an error: the result carries
// an empty table and a nil Summary.
func (s *Service) Recommend(ctx context.Context, query string) (*domain.RecommendationResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query abstract is blank", domain.ErrInvalidInput)
	}
	snap := s.store.Snapshot()
	if snap == nil {
		return nil, fmt.Errorf("%w: dataset not loaded", domain.ErrNoData)
	}

	runID := uuid.New()
	ctx = observability.WithRunID(ctx, runID.String())
	logger := observability.WithRunContext(s.logger, runID.String(), len(strings.Fields(query)))
	if reqID := observability.RequestIDFromContext(ctx); reqID != "" {
		logger = logger.With().Str("request_id", reqID).Logger()
	}
	start := time.Now()

	if s.metrics != nil {
		s.metrics.QueriesStarted.Inc()
	}

	scanner := NewScanner(s.opts.ScanWorkers)
	if s.metrics != nil {
		scanner.OnProgress(func(processed, total int) {
			s.metrics.RecordsScanned.Inc()
		})
	}

	rows, err := scanner.Scan(ctx, query, snap.Corpus)
	if err != nil {
		if s.metrics != nil {
			s.metrics.QueriesFailed.Inc()
		}
		return nil, fmt.Errorf("scan corpus: %w", err)
	}

	scores, explodeStats := Explode(rows)
	ranked := Join(scores, snap.Roster)

	result := &domain.RecommendationResult{
		RunID:     runID,
		ScoreRows: rows,
		Ranked:    ranked,
		Diagnostics: domain.Diagnostics{
			RecordsScanned:   len(rows),
			RowsWithoutScore: explodeStats.RowsWithoutScore,
			TokensExploded:   explodeStats.Tokens,
			TokensDropped:    explodeStats.Dropped,
			RowsJoined:       len(ranked),
		},
		Duration: time.Since(start),
	}
	for _, row := range rows {
		if !row.ScoreAbstract.Valid {
			result.Diagnostics.UndefinedAbstract++
		}
		if !row.ScoreAuthorKeywords.Valid {
			result.Diagnostics.UndefinedAuthorKeywords++
		}
		if !row.ScoreIndexKeywords.Valid {
			result.Diagnostics.UndefinedIndexKeywords++
		}
	}

	summary, err := Summarize(ranked, s.opts.TopSize)
	switch {
	case err == nil:
		result.Summary = &summary
	case errors.Is(err, domain.ErrNoData):
		// No matches is a valid outcome; the caller sees an empty table.
	default:
		if s.metrics != nil {
			s.metrics.QueriesFailed.Inc()
		}
		return nil, fmt.Errorf("summarize: %w", err)
	}

	s.recordRunMetrics(result)
	logger.Info().
		Int("records_scanned", result.Diagnostics.RecordsScanned).
		Int("tokens_exploded", result.Diagnostics.TokensExploded).
		Int("tokens_dropped", result.Diagnostics.TokensDropped).
		Int("rows_joined", result.Diagnostics.RowsJoined).
		Dur("duration", result.Duration).
		Msg("recommendation query completed")
	return result, nil
}

func (s *Service) recordRunMetrics(result *domain.RecommendationResult) {
	if s.metrics == nil {
		return
	}
	d := result.Diagnostics
	s.metrics.QueriesCompleted.Inc()
	s.metrics.QueryDuration.Observe(result.Duration.Seconds())
	s.metrics.UndefinedScores.WithLabelValues("abstract").Add(float64(d.UndefinedAbstract))
	s.metrics.UndefinedScores.WithLabelValues("author_keywords").Add(float64(d.UndefinedAuthorKeywords))
	s.metrics.UndefinedScores.WithLabelValues("index_keywords").Add(float64(d.UndefinedIndexKeywords))
	s.metrics.IdentifiersExploded.Add(float64(d.TokensExploded))
	s.metrics.IdentifiersDropped.Add(float64(d.TokensDropped))
	s.metrics.RowsJoined.Add(float64(d.RowsJoined))
	s.metrics.JoinedPerQuery.Observe(float64(d.RowsJoined))
}

// TopSize reports the configured summary top-slice size.
func (s *Service) TopSize() int {
	return s.opts.TopSize
}
