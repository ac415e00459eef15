package importing

import (
	"context"
	"log/slog"
	"time"

	"github.com/Adamaq01/Tachi/internal/domain"
	"github.com/Adamaq01/Tachi/internal/id"
)

// Orchestrator drives the import pipeline. Stages run strictly in
// order; a failure in any stage aborts the import with no summary
// persisted. Per-record conversion failures are not stage failures and
// never abort an import.
type Orchestrator struct {
	sink       SummarySink
	timings    TimingSink
	sessions   SessionBuilder
	pbs        PBUpdater
	stats      StatsUpdater
	goals      GoalEvaluator
	milestones MilestoneEvaluator
	logger     *slog.Logger
}

// Deps bundles the orchestrator's collaborators.
type Deps struct {
	Sink       SummarySink
	Timings    TimingSink
	Sessions   SessionBuilder
	PBs        PBUpdater
	Stats      StatsUpdater
	Goals      GoalEvaluator
	Milestones MilestoneEvaluator
	Logger     *slog.Logger
}

// NewOrchestrator creates an import orchestrator.
func NewOrchestrator(deps Deps) *Orchestrator {
	return &Orchestrator{
		sink:       deps.Sink,
		timings:    deps.Timings,
		sessions:   deps.Sessions,
		pbs:        deps.PBs,
		stats:      deps.Stats,
		goals:      deps.Goals,
		milestones: deps.Milestones,
		logger:     deps.Logger,
	}
}

// Run executes one import end to end and returns the persisted summary.
// On failure the returned error is a *StageError naming the stage that
// aborted the import.
func (o *Orchestrator) Run(ctx context.Context, userID string, userIntent bool, importType domain.ImportType, acquire AcquireFunc) (*domain.ImportDocument, error) {
	timeStarted := time.Now()

	// Stage 1: allocate the import ID and bind the request-scoped logger.
	importID, err := id.Generate(id.PrefixImport)
	if err != nil {
		return nil, &StageError{Stage: StageInit, Err: err}
	}
	log := o.logger.With(
		"import_id", importID,
		"user_id", userID,
		"import_type", string(importType),
	)

	abs := make(map[string]float64)
	timeStage := func(stage string) func() {
		start := time.Now()
		return func() {
			abs[stage] = float64(time.Since(start).Microseconds()) / 1000
		}
	}

	// Stage 2: input acquisition.
	stop := timeStage(StageAcquire)
	acq, err := acquire(ctx, log)
	stop()
	if err != nil {
		return nil, &StageError{Stage: StageAcquire, Err: err}
	}
	log.Debug("acquired input records", "game", string(acq.Game))

	// Stage 3: batch conversion, in input order.
	stop = timeStage(StageConvert)
	var outcomes []ConversionOutcome
	for raw := range acq.Records {
		outcomes = append(outcomes, acq.Convert(raw, acq.Context))
	}
	stop()

	// Stage 4: outcome partitioning plus score persistence.
	stop = timeStage(StagePartition)
	part := Partition(outcomes)
	if len(part.Scores) > 0 {
		if err := o.sink.CreateScores(ctx, part.Scores); err != nil {
			stop()
			return nil, &StageError{Stage: StagePartition, Err: err}
		}
	}
	stop()
	log.Debug("partitioned outcomes",
		"accepted", len(part.ScoreIDs),
		"failed", len(part.Failures),
		"charts", len(part.ChartIDs),
	)

	// Stage 5: session materialization.
	stop = timeStage(StageSessions)
	sessions, err := o.sessions.BuildSessions(ctx, userID, importType, acq.Game, part.Groups, log)
	stop()
	if err != nil {
		return nil, &StageError{Stage: StageSessions, Err: err}
	}

	// Stage 6: personal best recomputation.
	stop = timeStage(StagePBs)
	err = o.pbs.UpdatePBs(ctx, userID, part.ChartIDs, log)
	stop()
	if err != nil {
		return nil, &StageError{Stage: StagePBs, Err: err}
	}

	// Stage 7: concurrent per-playtype stat updates, joined before
	// goal evaluation may begin.
	stop = timeStage(StageGameStats)
	classDeltas, err := o.updateAllGameStats(ctx, acq.Game, part.Groups.Playtypes(), userID, log)
	stop()
	if err != nil {
		return nil, &StageError{Stage: StageGameStats, Err: err}
	}

	// Stage 8: goal evaluation.
	stop = timeStage(StageGoals)
	goalInfo, err := o.goals.EvaluateGoals(ctx, acq.Game, userID, part.ChartIDs, log)
	stop()
	if err != nil {
		return nil, &StageError{Stage: StageGoals, Err: err}
	}

	// Stage 9: milestone evaluation, consuming goal deltas.
	stop = timeStage(StageMilestones)
	milestoneInfo, err := o.milestones.EvaluateMilestones(ctx, goalInfo, acq.Game, part.Groups.Playtypes(), userID, log)
	stop()
	if err != nil {
		return nil, &StageError{Stage: StageMilestones, Err: err}
	}

	// Stage 10: finalization.
	stop = timeStage(StageFinalize)
	doc := buildSummary(summaryInputs{
		ImportID:      importID,
		ImportType:    importType,
		UserID:        userID,
		UserIntent:    userIntent,
		Game:          acq.Game,
		Part:          part,
		Sessions:      sessions,
		ClassDeltas:   classDeltas,
		GoalInfo:      goalInfo,
		MilestoneInfo: milestoneInfo,
		TimeStarted:   timeStarted,
		TimeFinished:  time.Now(),
	})
	err = o.sink.CreateImport(ctx, doc)
	stop()
	if err != nil {
		return nil, &StageError{Stage: StageFinalize, Err: err}
	}

	o.logSummary(ctx, log, doc)
	o.writeTimingsDetached(ctx, importID, timeStarted, abs, len(outcomes), log)

	return doc, nil
}
