package batchmanual

import (
	"context"
	"errors"
	"fmt"

	"github.com/Adamaq01/Tachi/internal/domain"
	"github.com/Adamaq01/Tachi/internal/id"
	"github.com/Adamaq01/Tachi/internal/importing"
	"github.com/Adamaq01/Tachi/internal/search"
	"github.com/Adamaq01/Tachi/internal/store"
)

// converterContext carries everything the converter needs that is
// shared across all records of one batch. It is read-only during
// conversion.
type converterContext struct {
	ctx        context.Context
	userID     string
	importType domain.ImportType
	game       domain.Game
	playtype   domain.Playtype
	service    string
	store      *store.Store
	charts     *search.ChartIndex
}

// convertScore normalizes one raw batch-manual score. Per-record
// problems come back as Failed outcomes; only programming errors (a
// raw record of the wrong type) panic.
func convertScore(raw importing.RawRecord, convCtx any) importing.ConversionOutcome {
	score := raw.(*Score)
	cc := convCtx.(*converterContext)

	lamp := domain.Lamp(score.Lamp)
	if domain.LampIndex(lamp) < 0 {
		return importing.Failed{
			Kind:    domain.FailureKindInvalidScore,
			Message: fmt.Sprintf("unknown lamp %q", score.Lamp),
		}
	}

	chart, outcome := resolveChart(cc, score)
	if outcome != nil {
		return *outcome
	}

	scoreID, err := id.Generate(id.PrefixScore)
	if err != nil {
		return importing.Failed{
			Kind:    domain.FailureKindInternal,
			Message: fmt.Sprintf("generate score id: %v", err),
		}
	}

	return importing.Converted{Score: &domain.ScoreDocument{
		ScoreID:      scoreID,
		ChartID:      chart.chartID,
		SongID:       chart.songID,
		UserID:       cc.userID,
		Game:         cc.game,
		Playtype:     cc.playtype,
		Score:        score.Score,
		Percent:      score.Percent,
		Lamp:         lamp,
		TimeAchieved: score.TimeAchieved,
		Service:      cc.service,
		ImportType:   cc.importType,
	}}
}

type chartRef struct {
	chartID string
	songID  string
}

func resolveChart(cc *converterContext, score *Score) (chartRef, *importing.Failed) {
	switch score.MatchType {
	case MatchTypeChartID:
		chart, err := cc.store.GetChart(cc.ctx, cc.game, score.Identifier)
		if errors.Is(err, store.ErrChartNotFound) {
			return chartRef{}, &importing.Failed{
				Kind:    domain.FailureKindChartNotFound,
				Message: fmt.Sprintf("no chart %q for %s", score.Identifier, string(cc.game)),
			}
		}
		if err != nil {
			return chartRef{}, &importing.Failed{
				Kind:    domain.FailureKindInternal,
				Message: err.Error(),
			}
		}
		if chart.Playtype != cc.playtype {
			return chartRef{}, &importing.Failed{
				Kind:    domain.FailureKindChartNotFound,
				Message: fmt.Sprintf("chart %q is %s, batch is %s", score.Identifier, string(chart.Playtype), string(cc.playtype)),
			}
		}
		return chartRef{chartID: chart.ChartID, songID: chart.SongID}, nil

	case MatchTypeSongTitle:
		match, err := cc.charts.FindChart(cc.game, cc.playtype, score.Identifier, score.Difficulty)
		if errors.Is(err, search.ErrNoMatch) {
			return chartRef{}, &importing.Failed{
				Kind:    domain.FailureKindSongNotFound,
				Message: fmt.Sprintf("no song matching %q (%s)", score.Identifier, score.Difficulty),
			}
		}
		if err != nil {
			return chartRef{}, &importing.Failed{
				Kind:    domain.FailureKindInternal,
				Message: err.Error(),
			}
		}
		return chartRef{chartID: match.ChartID, songID: match.SongID}, nil

	default:
		return chartRef{}, &importing.Failed{
			Kind:    domain.FailureKindInvalidScore,
			Message: fmt.Sprintf("unknown match type %q", score.MatchType),
		}
	}
}
