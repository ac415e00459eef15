package importing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adamaq01/Tachi/internal/domain"
)

func converted(scoreID, chartID string, playtype domain.Playtype) ConversionOutcome {
	return Converted{Score: &domain.ScoreDocument{
		ScoreID:  scoreID,
		ChartID:  chartID,
		Game:     domain.GameIIDX,
		Playtype: playtype,
	}}
}

func TestPartition_CountConservation(t *testing.T) {
	outcomes := []ConversionOutcome{
		converted("score_a", "chart_1", domain.PlaytypeSP),
		Failed{Kind: domain.FailureKindInvalidScore, Message: "negative score"},
		converted("score_b", "chart_2", domain.PlaytypeSP),
		Failed{Kind: domain.FailureKindChartNotFound, Message: "no such chart"},
	}

	part := Partition(outcomes)
	assert.Equal(t, len(outcomes), len(part.ScoreIDs)+len(part.Failures))
	assert.Equal(t, []string{"score_a", "score_b"}, part.ScoreIDs)
	assert.Len(t, part.Failures, 2)
}

func TestPartition_ChartDeduplication(t *testing.T) {
	outcomes := []ConversionOutcome{
		converted("score_a", "chart_1", domain.PlaytypeSP),
		converted("score_b", "chart_1", domain.PlaytypeSP),
		converted("score_c", "chart_2", domain.PlaytypeSP),
		converted("score_d", "chart_1", domain.PlaytypeDP),
	}

	part := Partition(outcomes)
	assert.Equal(t, []string{"chart_1", "chart_2"}, part.ChartIDs)
}

func TestPartition_GroupOrderStability(t *testing.T) {
	// Subtypes A, A, B plus one failure: groups must preserve the
	// original input order of accepted scores within each playtype.
	outcomes := []ConversionOutcome{
		converted("score_1", "chart_1", domain.PlaytypeSP),
		Failed{Kind: domain.FailureKindInvalidScore, Message: "bad lamp"},
		converted("score_2", "chart_2", domain.PlaytypeSP),
		converted("score_3", "chart_3", domain.PlaytypeDP),
	}

	part := Partition(outcomes)
	require.Len(t, part.Failures, 1)
	require.Len(t, part.ScoreIDs, 3)

	assert.Equal(t, []domain.Playtype{domain.PlaytypeSP, domain.PlaytypeDP}, part.Groups.Playtypes())

	sp := part.Groups.Scores(domain.PlaytypeSP)
	require.Len(t, sp, 2)
	assert.Equal(t, "score_1", sp[0].ScoreID)
	assert.Equal(t, "score_2", sp[1].ScoreID)

	dp := part.Groups.Scores(domain.PlaytypeDP)
	require.Len(t, dp, 1)
	assert.Equal(t, "score_3", dp[0].ScoreID)
}

func TestPartition_Idempotent(t *testing.T) {
	outcomes := []ConversionOutcome{
		converted("score_a", "chart_1", domain.PlaytypeSP),
		Failed{Kind: domain.FailureKindSkipped, Message: "duplicate"},
		converted("score_b", "chart_2", domain.PlaytypeDP),
	}

	first := Partition(outcomes)
	second := Partition(outcomes)

	assert.Equal(t, first.ScoreIDs, second.ScoreIDs)
	assert.Equal(t, first.Failures, second.Failures)
	assert.Equal(t, first.ChartIDs, second.ChartIDs)
	assert.Equal(t, first.Groups.Playtypes(), second.Groups.Playtypes())
	for _, playtype := range first.Groups.Playtypes() {
		assert.Equal(t, first.Groups.Scores(playtype), second.Groups.Scores(playtype))
	}
}

func TestPartition_Empty(t *testing.T) {
	part := Partition(nil)
	assert.Empty(t, part.ScoreIDs)
	assert.Empty(t, part.Failures)
	assert.Empty(t, part.ChartIDs)
	assert.Zero(t, part.Groups.Len())
	// Empty collections must still be non-nil for serialization.
	assert.NotNil(t, part.ScoreIDs)
	assert.NotNil(t, part.Failures)
}

func TestPartition_AllFailures(t *testing.T) {
	outcomes := []ConversionOutcome{
		Failed{Kind: domain.FailureKindInvalidScore, Message: "a"},
		Failed{Kind: domain.FailureKindSongNotFound, Message: "b"},
	}

	part := Partition(outcomes)
	assert.Empty(t, part.ScoreIDs)
	assert.Empty(t, part.ChartIDs)
	assert.Len(t, part.Failures, 2)
	assert.Zero(t, part.Groups.Len())
}
