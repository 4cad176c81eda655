package recommend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixir/examiner-recommendation-service/internal/dataset"
	"github.com/helixir/examiner-recommendation-service/internal/domain"
)

const testCorpusCSV = `Author full names,Author(s) ID,Abstract,Author Keywords,Index Keywords
"Adams, A.",10,neural networks deep learning image classification,deep learning,
"Brown, B.",20,soil erosion hydrology watershed,,hydrology
"Clark, C.",10; 30,convolutional neural networks for image recognition,image recognition,computer vision
"Davis, D.",,orphan record without identifiers,,
`

const testRosterCSV = `Auth-ID,Name,Department
10,Dr. A,Computing
20,Dr. B,Hydrology
30,Dr. C,Computing
,,
not-a-number,Dr. X,Ghost
`

func newTestService(t *testing.T, opts Options) *Service {
	t.Helper()
	dir := t.TempDir()
	corpusPath := filepath.Join(dir, "scopus.csv")
	rosterPath := filepath.Join(dir, "authors.csv")
	require.NoError(t, os.WriteFile(corpusPath, []byte(testCorpusCSV), 0o600))
	require.NoError(t, os.WriteFile(rosterPath, []byte(testRosterCSV), 0o600))

	store := dataset.NewStore(corpusPath, rosterPath, zerolog.Nop())
	require.NoError(t, store.Load())
	return NewService(store, opts, zerolog.Nop(), nil)
}

func TestService_Recommend(t *testing.T) {
	query := "deep learning for image recognition using neural networks"

	t.Run("ranks the relevant examiner first", func(t *testing.T) {
		svc := newTestService(t, Options{})
		result, err := svc.Recommend(context.Background(), query)
		require.NoError(t, err)

		require.Len(t, result.ScoreRows, 4)
		require.True(t, result.ScoreRows[0].ScoreAbstract.Valid)
		require.True(t, result.ScoreRows[1].ScoreAbstract.Valid)
		assert.Greater(t,
			result.ScoreRows[0].ScoreAbstract.Value,
			result.ScoreRows[1].ScoreAbstract.Value,
			"Dr. A's abstract must score above Dr. B's")

		require.NotEmpty(t, result.Ranked)
		assert.Equal(t, "Dr. A", result.Ranked[0].Name)
		for _, row := range result.Ranked {
			if row.Name == "Dr. B" {
				assert.Less(t, row.Score, result.Ranked[0].Score)
			}
		}
	})

	t.Run("summary and diagnostics are populated", func(t *testing.T) {
		svc := newTestService(t, Options{TopSize: 3})
		result, err := svc.Recommend(context.Background(), query)
		require.NoError(t, err)

		require.NotNil(t, result.Summary)
		assert.Equal(t, len(result.Ranked), result.Summary.Count)
		assert.LessOrEqual(t, result.Summary.TopSize, 3)

		d := result.Diagnostics
		assert.Equal(t, 4, d.RecordsScanned)
		// "Clark, C." carries two identifiers, so four tokens total.
		assert.Equal(t, 4, d.TokensExploded)
		assert.Zero(t, d.TokensDropped)
		assert.Equal(t, d.RowsJoined, len(result.Ranked))
	})

	t.Run("blank query is invalid input", func(t *testing.T) {
		svc := newTestService(t, Options{})
		_, err := svc.Recommend(context.Background(), "   ")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("missing dataset is no data", func(t *testing.T) {
		store := dataset.NewStore("/nonexistent/corpus.csv", "/nonexistent/roster.csv", zerolog.Nop())
		svc := NewService(store, Options{}, zerolog.Nop(), nil)
		_, err := svc.Recommend(context.Background(), "anything at all")
		assert.ErrorIs(t, err, domain.ErrNoData)
	})

	t.Run("parallel scan gives identical results", func(t *testing.T) {
		seq := newTestService(t, Options{ScanWorkers: 1})
		par := newTestService(t, Options{ScanWorkers: 4})
		a, err := seq.Recommend(context.Background(), query)
		require.NoError(t, err)
		b, err := par.Recommend(context.Background(), query)
		require.NoError(t, err)
		assert.Equal(t, a.ScoreRows, b.ScoreRows)
		assert.Equal(t, a.Ranked, b.Ranked)
	})

	t.Run("cancelled context fails the run", func(t *testing.T) {
		svc := newTestService(t, Options{})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := svc.Recommend(ctx, query)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
