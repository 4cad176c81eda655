package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/helixir/examiner-recommendation-service/internal/domain"
)

// WriteRecommendationsCSV serializes a ranked recommendation table to CSV
// with a rank column, for download by callers.
func WriteRecommendationsCSV(w io.Writer, rows []domain.RecommendationRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Rank", "Name", "Department", "Score", colRosterID}); err != nil {
		return fmt.Errorf("write recommendations header: %w", err)
	}
	for i, row := range rows {
		record := []string{
			strconv.Itoa(i + 1),
			row.Name,
			row.Department,
			formatScore(row.Score),
			strconv.FormatInt(row.AuthorID, 10),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write recommendation row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteScoreRowsCSV serializes the raw per-record score table. Undefined
// scores become empty cells, keeping "unmeasured" distinct from 0.
func WriteScoreRowsCSV(w io.Writer, rows []domain.ScoreRow) error {
	cw := csv.NewWriter(w)
	header := []string{"Authors", "IDs", "Score_Abs", "Score_Author", "Score_Index"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write scores header: %w", err)
	}
	for i, row := range rows {
		ids := ""
		if row.AuthorIDsRaw != nil {
			ids = *row.AuthorIDsRaw
		}
		record := []string{
			row.AuthorNames,
			ids,
			formatOptScore(row.ScoreAbstract),
			formatOptScore(row.ScoreAuthorKeywords),
			formatOptScore(row.ScoreIndexKeywords),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write score row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func formatOptScore(s domain.Score) string {
	if !s.Valid {
		return ""
	}
	return strconv.FormatFloat(s.Value, 'f', -1, 64)
}
