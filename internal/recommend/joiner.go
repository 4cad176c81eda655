package recommend

import (
	"sort"

	"github.com/helixir/examiner-recommendation-service/internal/domain"
)

// Join performs an inner join of exploded scores against the roster, keyed by
// numeric author identifier, and returns the result sorted by descending
// score. The sort is stable: rows with equal scores keep their pre-sort
// relative order, which follows score input order.
//
// Identifiers present on only one side are silently dropped. A roster holding
// the same identifier more than once fans each matching score out across the
// duplicate entries. The result is not deduplicated by author: one author
// with several scored publications yields several rows.
func Join(scores []domain.IdentifiedScore, roster []domain.RosterEntry) []domain.RecommendationRow {
	if len(scores) == 0 || len(roster) == 0 {
		return nil
	}

	byID := make(map[int64][]domain.RosterEntry, len(roster))
	for _, entry := range roster {
		byID[entry.AuthorID] = append(byID[entry.AuthorID], entry)
	}

	var rows []domain.RecommendationRow
	for _, s := range scores {
		for _, entry := range byID[s.AuthorID] {
			rows = append(rows, domain.RecommendationRow{
				AuthorID:   entry.AuthorID,
				Name:       entry.Name,
				Department: entry.Department,
				Score:      s.Score,
			})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Score > rows[j].Score
	})
	return rows
}
