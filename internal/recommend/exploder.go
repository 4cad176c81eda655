package recommend

import (
	"strings"

	"github.com/helixir/examiner-recommendation-service/internal/domain"
)

// idDelimiter separates author identifiers inside a corpus record's raw
// identifier field.
const idDelimiter = ";"

// ExplodeStats counts what happened during identifier explosion. Dropped
// tokens are a data-quality signal, not an error.
type ExplodeStats struct {
	// Tokens is the number of identifier tokens successfully parsed.
	Tokens int
	// Dropped is the number of tokens discarded as unparseable.
	Dropped int
	// RowsWithoutScore is the number of rows skipped because their
	// abstract score was undefined.
	RowsWithoutScore int
}

// Explode splits each row's delimited identifier list into individual
// (identifier, score) pairs carrying the row's abstract score rounded to
// three decimals.
//
// Tokens that fail to parse as a numeric identifier are silently dropped;
// the remaining tokens of the same row are still processed. Rows with an
// absent or empty identifier field contribute nothing. Rows whose abstract
// score is undefined are skipped entirely: an unmeasured similarity must not
// enter the ranking as if it were a measured zero.
func Explode(rows []domain.ScoreRow) ([]domain.IdentifiedScore, ExplodeStats) {
	var out []domain.IdentifiedScore
	var stats ExplodeStats

	for _, row := range rows {
		if row.AuthorIDsRaw == nil || strings.TrimSpace(*row.AuthorIDsRaw) == "" {
			continue
		}
		if !row.ScoreAbstract.Valid {
			stats.RowsWithoutScore++
			continue
		}
		score := domain.Round3(row.ScoreAbstract.Value)
		for _, token := range strings.Split(*row.AuthorIDsRaw, idDelimiter) {
			id, ok := domain.ParseAuthorID(token)
			if !ok {
				stats.Dropped++
				continue
			}
			out = append(out, domain.IdentifiedScore{AuthorID: id, Score: score})
			stats.Tokens++
		}
	}
	return out, stats
}
