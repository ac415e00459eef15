package batchmanual

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adamaq01/Tachi/internal/domain"
	domainerrors "github.com/Adamaq01/Tachi/internal/errors"
	"github.com/Adamaq01/Tachi/internal/importing"
	"github.com/Adamaq01/Tachi/internal/search"
	"github.com/Adamaq01/Tachi/internal/store"
)

func setupImporter(t *testing.T) (*Importer, *store.Store, *search.ChartIndex) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "tachi-batchmanual-test-*")
	require.NoError(t, err)

	s, err := store.New(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	idx, err := search.NewChartIndex(search.Options{DataPath: tmpDir, Logger: log})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = idx.Close()
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	})

	return New(s, idx, log), s, idx
}

func seedChart(t *testing.T, s *store.Store, idx *search.ChartIndex, chart *domain.ChartDocument) {
	t.Helper()
	require.NoError(t, s.UpsertChart(context.Background(), chart))
	require.NoError(t, idx.IndexChart(chart))
}

func acquire(t *testing.T, imp *Importer, payload string) (*importing.Acquisition, error) {
	t.Helper()
	fn := imp.Acquire("user_1", domain.ImportTypeAPIBatchManual, []byte(payload))
	return fn(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func convertAll(acq *importing.Acquisition) []importing.ConversionOutcome {
	var outcomes []importing.ConversionOutcome
	for raw := range acq.Records {
		outcomes = append(outcomes, acq.Convert(raw, acq.Context))
	}
	return outcomes
}

func TestAcquire_MalformedJSON(t *testing.T) {
	imp, _, _ := setupImporter(t)

	_, err := acquire(t, imp, `{not json`)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestAcquire_MissingHeader(t *testing.T) {
	imp, _, _ := setupImporter(t)

	_, err := acquire(t, imp, `{"meta":{"game":"iidx"},"scores":[]}`)
	require.Error(t, err)
}

func TestConvert_ChartIDMatch(t *testing.T) {
	imp, s, idx := setupImporter(t)
	seedChart(t, s, idx, &domain.ChartDocument{
		ChartID: "chart_1", SongID: "song_1", SongTitle: "GAMBOL",
		Game: domain.GameIIDX, Playtype: domain.PlaytypeSP, Difficulty: "ANOTHER",
	})

	acq, err := acquire(t, imp, `{
		"meta": {"game": "iidx", "playtype": "SP", "service": "test-ir"},
		"scores": [
			{"score": 1234, "percent": 77.0, "lamp": "CLEAR", "matchType": "chartID", "identifier": "chart_1", "timeAchieved": 1700000000000}
		]
	}`)
	require.NoError(t, err)
	assert.Equal(t, domain.GameIIDX, acq.Game)

	outcomes := convertAll(acq)
	require.Len(t, outcomes, 1)

	conv, ok := outcomes[0].(importing.Converted)
	require.True(t, ok, "expected a converted outcome, got %#v", outcomes[0])
	assert.Equal(t, "chart_1", conv.Score.ChartID)
	assert.Equal(t, "song_1", conv.Score.SongID)
	assert.Equal(t, "user_1", conv.Score.UserID)
	assert.Equal(t, domain.LampClear, conv.Score.Lamp)
	assert.Equal(t, "test-ir", conv.Score.Service)
	assert.Equal(t, int64(1700000000000), conv.Score.TimeAchieved)
}

func TestConvert_SongTitleMatch(t *testing.T) {
	imp, s, idx := setupImporter(t)
	seedChart(t, s, idx, &domain.ChartDocument{
		ChartID: "chart_1", SongID: "song_1", SongTitle: "FREEDOM DiVE",
		Game: domain.GameIIDX, Playtype: domain.PlaytypeSP, Difficulty: "ANOTHER",
	})

	acq, err := acquire(t, imp, `{
		"meta": {"game": "iidx", "playtype": "SP", "service": "test-ir"},
		"scores": [
			{"score": 2000, "percent": 90.0, "lamp": "EX CLEAR", "matchType": "songTitle", "identifier": "freedom dive", "difficulty": "ANOTHER"}
		]
	}`)
	require.NoError(t, err)

	outcomes := convertAll(acq)
	require.Len(t, outcomes, 1)

	conv, ok := outcomes[0].(importing.Converted)
	require.True(t, ok)
	assert.Equal(t, "chart_1", conv.Score.ChartID)
}

func TestConvert_PerRecordFailures(t *testing.T) {
	imp, s, idx := setupImporter(t)
	seedChart(t, s, idx, &domain.ChartDocument{
		ChartID: "chart_1", SongID: "song_1", SongTitle: "GAMBOL",
		Game: domain.GameIIDX, Playtype: domain.PlaytypeSP, Difficulty: "ANOTHER",
	})

	acq, err := acquire(t, imp, `{
		"meta": {"game": "iidx", "playtype": "SP", "service": "test-ir"},
		"scores": [
			{"score": 100, "percent": 10.0, "lamp": "CLEAR", "matchType": "chartID", "identifier": "chart_1"},
			{"score": 100, "percent": 10.0, "lamp": "SPARKLY", "matchType": "chartID", "identifier": "chart_1"},
			{"score": 100, "percent": 10.0, "lamp": "CLEAR", "matchType": "chartID", "identifier": "chart_missing"},
			{"score": 100, "percent": 10.0, "lamp": "CLEAR", "matchType": "songTitle", "identifier": "unknown song"}
		]
	}`)
	require.NoError(t, err)

	outcomes := convertAll(acq)
	require.Len(t, outcomes, 4)

	_, ok := outcomes[0].(importing.Converted)
	assert.True(t, ok)

	failedKinds := []string{}
	for _, outcome := range outcomes[1:] {
		failed, ok := outcome.(importing.Failed)
		require.True(t, ok)
		failedKinds = append(failedKinds, failed.Kind)
	}
	assert.Equal(t, []string{
		domain.FailureKindInvalidScore,
		domain.FailureKindChartNotFound,
		domain.FailureKindSongNotFound,
	}, failedKinds)
}

func TestConvert_PlaytypeMismatch(t *testing.T) {
	imp, s, idx := setupImporter(t)
	seedChart(t, s, idx, &domain.ChartDocument{
		ChartID: "chart_dp", SongID: "song_1", SongTitle: "GAMBOL",
		Game: domain.GameIIDX, Playtype: domain.PlaytypeDP, Difficulty: "ANOTHER",
	})

	acq, err := acquire(t, imp, `{
		"meta": {"game": "iidx", "playtype": "SP", "service": "test-ir"},
		"scores": [
			{"score": 100, "percent": 10.0, "lamp": "CLEAR", "matchType": "chartID", "identifier": "chart_dp"}
		]
	}`)
	require.NoError(t, err)

	outcomes := convertAll(acq)
	require.Len(t, outcomes, 1)

	failed, ok := outcomes[0].(importing.Failed)
	require.True(t, ok)
	assert.Equal(t, domain.FailureKindChartNotFound, failed.Kind)
}
