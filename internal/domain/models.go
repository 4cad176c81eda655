// Package domain provides domain models and business logic for the Examiner
// Recommendation Service.
package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Score is a similarity value tagged with validity. An invalid Score means
// "no comparable text was available", which is distinct from a measured
// similarity of 0. Aggregations must skip invalid scores rather than treat
// them as zero.
type Score struct {
	Value float64
	Valid bool
}

// ScoreOf returns a defined Score carrying v.
func ScoreOf(v float64) Score {
	return Score{Value: v, Valid: true}
}

// UndefinedScore returns the "no signal" sentinel.
func UndefinedScore() Score {
	return Score{}
}

// Round3 rounds v to three decimal places, half away from zero.
// The convention is pinned by tests: 0.93456 rounds to 0.935.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// CorpusRecord is one row of the reference publication corpus. Optional
// fields are nil when the source cell was absent, which callers must keep
// distinct from an empty string. Records are read-only inside the pipeline.
type CorpusRecord struct {
	// AuthorNames is the free-text author list of the publication.
	AuthorNames string
	// AuthorIDs is the raw semicolon-delimited list of numeric author
	// identifiers, nil when the source cell was absent.
	AuthorIDs *string
	// Abstract is the publication abstract, possibly empty.
	Abstract string
	// AuthorKeywords holds the author-supplied keyword list, nil when absent.
	AuthorKeywords *string
	// IndexKeywords holds the indexing-service keyword list, nil when absent.
	IndexKeywords *string
}

// ScoreRow is the per-record output of the corpus scan: one similarity score
// per text field, each independently defined or undefined.
type ScoreRow struct {
	AuthorNames  string
	AuthorIDsRaw *string
	// ScoreAbstract is the abstract-vs-query similarity. It is the only
	// score used for ranking downstream.
	ScoreAbstract Score
	// ScoreAuthorKeywords and ScoreIndexKeywords are carried for
	// diagnostics and export only.
	ScoreAuthorKeywords Score
	ScoreIndexKeywords  Score
}

// IdentifiedScore is a single (author identifier, score) pair produced by
// exploding a ScoreRow's delimited identifier list. Score is the row's
// abstract similarity rounded to three decimals.
type IdentifiedScore struct {
	AuthorID int64
	Score    float64
}

// RosterEntry is one row of the authoritative examiner roster. The schema is
// fixed: collaborators loading the roster must map their source columns onto
// these fields rather than relying on column-name sniffing.
type RosterEntry struct {
	AuthorID   int64
	Name       string
	Department string
}

// RecommendationRow is the inner join of one IdentifiedScore with a matching
// RosterEntry. The same author can appear multiple times when the corpus
// holds several of their publications; deduplication is a consumer concern.
type RecommendationRow struct {
	AuthorID   int64
	Name       string
	Department string
	Score      float64
}

// Summary holds aggregate statistics over a ranked recommendation table.
type Summary struct {
	// Count is the total number of recommendation rows.
	Count int
	// MeanScore and MaxScore are computed over all rows.
	MeanScore float64
	MaxScore  float64
	// TopMeanScore is the mean over the first TopSize rows.
	TopMeanScore float64
	// TopSize is the size of the top slice TopMeanScore was computed over,
	// capped at Count.
	TopSize int
}

// Diagnostics captures per-run data-quality counters. None of these indicate
// failure; they exist so that silent drops remain observable.
type Diagnostics struct {
	// RecordsScanned is the number of corpus records processed.
	RecordsScanned int
	// UndefinedAbstract counts records whose abstract produced no score.
	UndefinedAbstract int
	// UndefinedAuthorKeywords and UndefinedIndexKeywords count the
	// keyword fields that produced no score.
	UndefinedAuthorKeywords int
	UndefinedIndexKeywords  int
	// RowsWithoutScore counts score rows skipped by the exploder because
	// their abstract score was undefined.
	RowsWithoutScore int
	// TokensExploded and TokensDropped count identifier tokens parsed and
	// discarded during explosion.
	TokensExploded int
	TokensDropped  int
	// RowsJoined is the number of recommendation rows surviving the inner
	// join; TokensExploded-RowsJoined is the join-miss count.
	RowsJoined int
}

// RecommendationResult is the full output of one query run.
type RecommendationResult struct {
	// RunID uniquely identifies this query run.
	RunID uuid.UUID
	// ScoreRows is the raw per-record score table, in corpus order.
	ScoreRows []ScoreRow
	// Ranked is the joined recommendation table sorted by descending score.
	Ranked []RecommendationRow
	// Summary is nil when the ranked table is empty.
	Summary *Summary
	// Diagnostics carries the run's data-quality counters.
	Diagnostics Diagnostics
	// Duration is the wall-clock time of the run.
	Duration time.Duration
}
