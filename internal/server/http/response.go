package httpserver

import (
	"time"

	"github.com/helixir/examiner-recommendation-service/internal/domain"
)

// Response types for JSON serialization.

type recommendResponse struct {
	RunID           string                  `json:"run_id"`
	Summary         *summaryResponse        `json:"summary,omitempty"`
	Recommendations []recommendationRowJSON `json:"recommendations"`
	Scores          []scoreRowJSON          `json:"scores,omitempty"`
	Diagnostics     diagnosticsResponse     `json:"diagnostics"`
	Warning         string                  `json:"warning,omitempty"`
	Duration        string                  `json:"duration"`
}

type summaryResponse struct {
	TotalMatches int     `json:"total_matches"`
	MeanScore    float64 `json:"mean_score"`
	MaxScore     float64 `json:"max_score"`
	TopMeanScore float64 `json:"top_mean_score"`
	TopSize      int     `json:"top_size"`
}

type recommendationRowJSON struct {
	Rank       int     `json:"rank"`
	AuthorID   int64   `json:"author_id"`
	Name       string  `json:"name"`
	Department string  `json:"department,omitempty"`
	Score      float64 `json:"score"`
}

// scoreRowJSON carries per-field scores as nullable values so that an
// undefined score serializes as null, never as 0.
type scoreRowJSON struct {
	Authors             string   `json:"authors"`
	AuthorIDs           *string  `json:"author_ids,omitempty"`
	ScoreAbstract       *float64 `json:"score_abstract"`
	ScoreAuthorKeywords *float64 `json:"score_author_keywords"`
	ScoreIndexKeywords  *float64 `json:"score_index_keywords"`
}

type diagnosticsResponse struct {
	RecordsScanned          int `json:"records_scanned"`
	UndefinedAbstract       int `json:"undefined_abstract_scores"`
	UndefinedAuthorKeywords int `json:"undefined_author_keyword_scores"`
	UndefinedIndexKeywords  int `json:"undefined_index_keyword_scores"`
	RowsWithoutScore        int `json:"rows_without_score"`
	TokensExploded          int `json:"identifiers_exploded"`
	TokensDropped           int `json:"identifiers_dropped"`
	RowsJoined              int `json:"rows_joined"`
}

// Converter functions

func resultToResponse(result *domain.RecommendationResult, topN []domain.RecommendationRow, includeScores bool) recommendResponse {
	resp := recommendResponse{
		RunID:           result.RunID.String(),
		Recommendations: make([]recommendationRowJSON, len(topN)),
		Diagnostics:     diagnosticsToResponse(result.Diagnostics),
		Duration:        result.Duration.Round(time.Millisecond).String(),
	}
	for i, row := range topN {
		resp.Recommendations[i] = recommendationRowJSON{
			Rank:       i + 1,
			AuthorID:   row.AuthorID,
			Name:       row.Name,
			Department: row.Department,
			Score:      row.Score,
		}
	}
	if result.Summary != nil {
		resp.Summary = &summaryResponse{
			TotalMatches: result.Summary.Count,
			MeanScore:    result.Summary.MeanScore,
			MaxScore:     result.Summary.MaxScore,
			TopMeanScore: result.Summary.TopMeanScore,
			TopSize:      result.Summary.TopSize,
		}
	}
	if includeScores {
		resp.Scores = make([]scoreRowJSON, len(result.ScoreRows))
		for i, row := range result.ScoreRows {
			resp.Scores[i] = scoreRowToJSON(row)
		}
	}
	return resp
}

func scoreRowToJSON(row domain.ScoreRow) scoreRowJSON {
	return scoreRowJSON{
		Authors:             row.AuthorNames,
		AuthorIDs:           row.AuthorIDsRaw,
		ScoreAbstract:       optScore(row.ScoreAbstract),
		ScoreAuthorKeywords: optScore(row.ScoreAuthorKeywords),
		ScoreIndexKeywords:  optScore(row.ScoreIndexKeywords),
	}
}

func diagnosticsToResponse(d domain.Diagnostics) diagnosticsResponse {
	return diagnosticsResponse{
		RecordsScanned:          d.RecordsScanned,
		UndefinedAbstract:       d.UndefinedAbstract,
		UndefinedAuthorKeywords: d.UndefinedAuthorKeywords,
		UndefinedIndexKeywords:  d.UndefinedIndexKeywords,
		RowsWithoutScore:        d.RowsWithoutScore,
		TokensExploded:          d.TokensExploded,
		TokensDropped:           d.TokensDropped,
		RowsJoined:              d.RowsJoined,
	}
}

func optScore(s domain.Score) *float64 {
	if !s.Valid {
		return nil
	}
	v := s.Value
	return &v
}
