package recommend

import (
	"github.com/helixir/examiner-recommendation-service/internal/domain"
)

// DefaultTopSize is the size of the top slice reported in summaries.
const DefaultTopSize = 20

// Summarize computes aggregate statistics over a ranked recommendation
// table: row count, mean and max score over all rows, and the mean over the
// first topSize rows. Returns domain.ErrNoData for an empty table; callers
// must check the error instead of receiving NaN numerics.
func Summarize(rows []domain.RecommendationRow, topSize int) (domain.Summary, error) {
	if len(rows) == 0 {
		return domain.Summary{}, domain.ErrNoData
	}
	if topSize < 1 {
		topSize = DefaultTopSize
	}
	if topSize > len(rows) {
		topSize = len(rows)
	}

	var sum, max, topSum float64
	for i, row := range rows {
		sum += row.Score
		if row.Score > max {
			max = row.Score
		}
		if i < topSize {
			topSum += row.Score
		}
	}

	return domain.Summary{
		Count:        len(rows),
		MeanScore:    sum / float64(len(rows)),
		MaxScore:     max,
		TopMeanScore: topSum / float64(topSize),
		TopSize:      topSize,
	}, nil
}

// TopN returns the first min(n, len(rows)) rows of an already ranked table.
// No re-sorting is performed.
func TopN(rows []domain.RecommendationRow, n int) []domain.RecommendationRow {
	if n < 0 {
		n = 0
	}
	if n > len(rows) {
		n = len(rows)
	}
	return rows[:n]
}
