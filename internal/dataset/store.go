package dataset

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/helixir/examiner-recommendation-service/internal/domain"
	"github.com/helixir/examiner-recommendation-service/internal/observability"
)

// Snapshot is an immutable corpus + roster pair. A query run captures one
// snapshot at its start and works only with it, so a concurrent reload can
// never tear an in-flight run.
type Snapshot struct {
	Corpus   []domain.CorpusRecord
	Roster   []domain.RosterEntry
	LoadedAt time.Time
}

// Store owns the current dataset snapshot. Load replaces the snapshot
// atomically; readers always see either the old or the new snapshot, never a
// mix.
type Store struct {
	corpusPath string
	rosterPath string
	logger     zerolog.Logger

	mu   sync.RWMutex
	snap *Snapshot
}

// NewStore creates a Store reading from the given CSV paths. No data is
// loaded until Load is called.
func NewStore(corpusPath, rosterPath string, logger zerolog.Logger) *Store {
	return &Store{
		corpusPath: corpusPath,
		rosterPath: rosterPath,
		logger:     logger.With().Str("component", "dataset-store").Logger(),
	}
}

// Load reads both CSV files and swaps in a fresh snapshot. On error the
// previous snapshot, if any, stays in place.
func (s *Store) Load() error {
	corpusFile, err := os.Open(s.corpusPath)
	if err != nil {
		return fmt.Errorf("open corpus: %w", err)
	}
	defer corpusFile.Close()

	corpus, err := LoadCorpus(corpusFile)
	if err != nil {
		return fmt.Errorf("load corpus %s: %w", s.corpusPath, err)
	}

	rosterFile, err := os.Open(s.rosterPath)
	if err != nil {
		return fmt.Errorf("open roster: %w", err)
	}
	defer rosterFile.Close()

	roster, skipped, err := LoadRoster(rosterFile)
	if err != nil {
		return fmt.Errorf("load roster %s: %w", s.rosterPath, err)
	}

	snap := &Snapshot{Corpus: corpus, Roster: roster, LoadedAt: time.Now()}

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()

	logger := observability.WithDatasetContext(s.logger, len(corpus), len(roster))
	logger.Info().
		Int("roster_rows_skipped", skipped).
		Msg("dataset snapshot loaded")
	return nil
}

// Snapshot returns the current snapshot, or nil when nothing has been loaded
// yet. Callers must not mutate the returned data.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}
