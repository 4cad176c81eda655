// Package recommend implements the examiner recommendation pipeline: corpus
// scanning, identifier explosion, roster joining, and report assembly.
package recommend

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/helixir/examiner-recommendation-service/internal/domain"
	"github.com/helixir/examiner-recommendation-service/internal/similarity"
)

// ProgressFunc observes scan progress. It is called once per processed
// record with a monotonically increasing processed count; it must be safe
// for concurrent use when the scanner runs with multiple workers.
type ProgressFunc func(processed, total int)

// Scanner scores every corpus record against a query abstract. Each record
// gets three independent similarity scores (abstract, author keywords, index
// keywords); a missing or degenerate field yields the undefined sentinel
// without affecting the other two.
type Scanner struct {
	workers  int
	progress ProgressFunc
}

// NewScanner creates a Scanner. workers bounds the scan parallelism; values
// below 2 give a sequential scan. Records are independent, so parallel
// execution changes neither the scores nor the output order.
func NewScanner(workers int) *Scanner {
	if workers < 1 {
		workers = 1
	}
	return &Scanner{workers: workers}
}

// OnProgress installs a progress observer. Progress is a side-effect hook
// only; scan results do not depend on it.
func (s *Scanner) OnProgress(fn ProgressFunc) {
	s.progress = fn
}

// Scan scores the full corpus against the query. The output has exactly one
// ScoreRow per input record, in input order. Scan only fails when ctx is
// cancelled between records; partial results are discarded, never returned.
func (s *Scanner) Scan(ctx context.Context, query string, corpus []domain.CorpusRecord) ([]domain.ScoreRow, error) {
	rows := make([]domain.ScoreRow, len(corpus))
	total := len(corpus)

	var processed atomic.Int64
	step := func(i int) {
		rows[i] = scoreRecord(query, corpus[i])
		if s.progress != nil {
			s.progress(int(processed.Add(1)), total)
		}
	}

	if s.workers < 2 {
		for i := range corpus {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			step(i)
		}
		return rows, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := range corpus {
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			step(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

// scoreRecord computes the three field scores for one record. The abstract is
// treated as present-but-possibly-blank; blank text degrades to the undefined
// sentinel inside the scorer.
func scoreRecord(query string, rec domain.CorpusRecord) domain.ScoreRow {
	abstract := rec.Abstract
	return domain.ScoreRow{
		AuthorNames:         rec.AuthorNames,
		AuthorIDsRaw:        rec.AuthorIDs,
		ScoreAbstract:       similarity.Score(query, &abstract),
		ScoreAuthorKeywords: similarity.Score(query, rec.AuthorKeywords),
		ScoreIndexKeywords:  similarity.Score(query, rec.IndexKeywords),
	}
}
