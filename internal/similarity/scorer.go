package similarity

import (
	"strings"

	"github.com/helixir/examiner-recommendation-service/internal/domain"
)

// Score computes the cosine similarity between a query and a candidate text
// using pairwise TF-IDF vectors.
//
// It is total: an absent or blank candidate, a blank query, or a degenerate
// vocabulary all yield the undefined sentinel, never an error. A batch over
// many candidates can therefore never be aborted by a single bad record.
func Score(query string, candidate *string) domain.Score {
	if candidate == nil || strings.TrimSpace(*candidate) == "" {
		return domain.UndefinedScore()
	}
	if strings.TrimSpace(query) == "" {
		return domain.UndefinedScore()
	}

	vc, vq, ok := VectorizePair(*candidate, query)
	if !ok {
		return domain.UndefinedScore()
	}
	return domain.ScoreOf(Cosine(vc, vq))
}
