package importing

import (
	"context"
	"log/slog"
	"time"

	"github.com/Adamaq01/Tachi/internal/domain"
)

type summaryInputs struct {
	ImportID      string
	ImportType    domain.ImportType
	UserID        string
	UserIntent    bool
	Game          domain.Game
	Part          *Partitioned
	Sessions      []domain.SessionInfoReturn
	ClassDeltas   []domain.ClassDelta
	GoalInfo      []domain.GoalImportInfo
	MilestoneInfo []domain.MilestoneImportInfo
	TimeStarted   time.Time
	TimeFinished  time.Time
}

// buildSummary assembles the immutable import document. Collection
// fields are always non-nil so an all-failure import serializes with
// empty arrays, not nulls.
func buildSummary(in summaryInputs) *domain.ImportDocument {
	idStrings := make([]string, 0, in.Part.Groups.Len())
	for _, playtype := range in.Part.Groups.Playtypes() {
		idStrings = append(idStrings, domain.FormatGPT(in.Game, playtype))
	}

	if in.Sessions == nil {
		in.Sessions = []domain.SessionInfoReturn{}
	}
	if in.ClassDeltas == nil {
		in.ClassDeltas = []domain.ClassDelta{}
	}
	if in.GoalInfo == nil {
		in.GoalInfo = []domain.GoalImportInfo{}
	}
	if in.MilestoneInfo == nil {
		in.MilestoneInfo = []domain.MilestoneImportInfo{}
	}

	return &domain.ImportDocument{
		ImportID:        in.ImportID,
		ImportType:      in.ImportType,
		UserID:          in.UserID,
		UserIntent:      in.UserIntent,
		IDStrings:       idStrings,
		ScoreIDs:        in.Part.ScoreIDs,
		Errors:          in.Part.Failures,
		CreatedSessions: in.Sessions,
		ClassDeltas:     in.ClassDeltas,
		GoalInfo:        in.GoalInfo,
		MilestoneInfo:   in.MilestoneInfo,
		TimeStarted:     in.TimeStarted.UnixMilli(),
		TimeFinished:    in.TimeFinished.UnixMilli(),
	}
}

// summaryLogLevel picks the level for a finished import's log line from
// its accepted score count. Large imports are unusual enough to warrant
// a warning, typical ones are informational, single-score imports are
// diagnostic noise.
func summaryLogLevel(accepted int) slog.Level {
	switch {
	case accepted > 500:
		return slog.LevelWarn
	case accepted >= 2:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

func (o *Orchestrator) logSummary(ctx context.Context, log *slog.Logger, doc *domain.ImportDocument) {
	log.Log(ctx, summaryLogLevel(len(doc.ScoreIDs)), "import finished",
		"scores", len(doc.ScoreIDs),
		"failures", len(doc.Errors),
		"sessions", len(doc.CreatedSessions),
		"took_ms", doc.TimeFinished-doc.TimeStarted,
	)
}

// writeTimingsDetached persists the timing record without awaiting it.
// The record is diagnostics only: a failed write is logged at debug
// level and never affects the caller-visible outcome.
func (o *Orchestrator) writeTimingsDetached(ctx context.Context, importID string, started time.Time, abs map[string]float64, recordCount int, log *slog.Logger) {
	total := float64(time.Since(started).Microseconds()) / 1000

	rel := make(map[string]float64, len(abs))
	if recordCount > 0 {
		for stage, ms := range abs {
			rel[stage] = ms / float64(recordCount)
		}
	}

	timings := &domain.ImportTimings{
		ImportID: importID,
		Total:    total,
		Abs:      abs,
		Rel:      rel,
	}

	go func(ctx context.Context) {
		if err := o.timings.WriteTimings(ctx, timings); err != nil {
			log.Debug("timing record write failed", "error", err)
		}
	}(context.WithoutCancel(ctx))
}
