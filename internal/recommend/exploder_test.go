package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixir/examiner-recommendation-service/internal/domain"
)

func scoredRow(ids string, score float64) domain.ScoreRow {
	return domain.ScoreRow{
		AuthorIDsRaw:  &ids,
		ScoreAbstract: domain.ScoreOf(score),
	}
}

func TestExplode(t *testing.T) {
	t.Run("splits delimited identifiers and drops bad tokens", func(t *testing.T) {
		rows := []domain.ScoreRow{scoredRow("123; 456 ;abc", 0.8)}
		out, stats := Explode(rows)
		require.Len(t, out, 2)
		assert.Equal(t, int64(123), out[0].AuthorID)
		assert.Equal(t, int64(456), out[1].AuthorID)
		assert.Equal(t, 2, stats.Tokens)
		assert.Equal(t, 1, stats.Dropped)
	})

	t.Run("non-finite tokens are dropped", func(t *testing.T) {
		out, stats := Explode([]domain.ScoreRow{scoredRow("NaN;10;Inf", 0.5)})
		require.Len(t, out, 1)
		assert.Equal(t, int64(10), out[0].AuthorID)
		assert.Equal(t, 1, stats.Tokens)
		assert.Equal(t, 2, stats.Dropped)
	})

	t.Run("absent identifier field yields zero rows", func(t *testing.T) {
		rows := []domain.ScoreRow{
			{AuthorIDsRaw: nil, ScoreAbstract: domain.ScoreOf(0.5)},
			scoredRow("   ", 0.5),
		}
		out, stats := Explode(rows)
		assert.Empty(t, out)
		assert.Zero(t, stats.Tokens)
		assert.Zero(t, stats.Dropped)
	})

	t.Run("scores are rounded to three decimals", func(t *testing.T) {
		out, _ := Explode([]domain.ScoreRow{scoredRow("10", 0.93456)})
		require.Len(t, out, 1)
		assert.Equal(t, 0.935, out[0].Score)
	})

	t.Run("decimal-like identifiers parse to the integer identity", func(t *testing.T) {
		out, stats := Explode([]domain.ScoreRow{scoredRow("123.0;57190971709.0", 0.4)})
		require.Len(t, out, 2)
		assert.Equal(t, int64(123), out[0].AuthorID)
		assert.Equal(t, int64(57190971709), out[1].AuthorID)
		assert.Zero(t, stats.Dropped)
	})

	t.Run("rows with undefined abstract score are skipped", func(t *testing.T) {
		ids := "123;456"
		rows := []domain.ScoreRow{{AuthorIDsRaw: &ids, ScoreAbstract: domain.UndefinedScore()}}
		out, stats := Explode(rows)
		assert.Empty(t, out)
		assert.Equal(t, 1, stats.RowsWithoutScore)
	})

	t.Run("one bad token does not affect siblings or later rows", func(t *testing.T) {
		rows := []domain.ScoreRow{
			scoredRow("x;20", 0.3),
			scoredRow("30", 0.2),
		}
		out, stats := Explode(rows)
		require.Len(t, out, 2)
		assert.Equal(t, int64(20), out[0].AuthorID)
		assert.Equal(t, int64(30), out[1].AuthorID)
		assert.Equal(t, 1, stats.Dropped)
	})
}
