// Package importing implements the score import pipeline: acquisition,
// conversion, partitioning, session building, PB recomputation, stat
// updates, goal and milestone evaluation, and final summary assembly.
package importing

import (
	"context"
	"fmt"
	"iter"
	"log/slog"

	"github.com/Adamaq01/Tachi/internal/domain"
)

// RawRecord is an opaque, format-specific input record. Only the
// acquisition stage and its converter ever look inside one.
type RawRecord any

// ConversionOutcome is the result of converting one raw record. It is
// either a Converted score or a Failed record; handling both variants
// is enforced at compile time via the sealed interface.
type ConversionOutcome interface {
	outcome()
}

// Converted wraps a successfully normalized score.
type Converted struct {
	Score *domain.ScoreDocument
}

// Failed records a per-record conversion failure. Failures are data,
// not errors: they never abort the import.
type Failed struct {
	Kind    string
	Message string
}

func (Converted) outcome() {}
func (Failed) outcome()    {}

// ConverterFunc turns one raw record into an outcome. It must not
// mutate shared state and is invoked once per record in input order.
type ConverterFunc func(raw RawRecord, convCtx any) ConversionOutcome

// Acquisition is everything an input parser hands the pipeline: a lazy
// record sequence, the converter for that format, format-shared context
// and the game the records belong to.
type Acquisition struct {
	Records iter.Seq[RawRecord]
	Convert ConverterFunc
	Context any
	Game    domain.Game
}

// AcquireFunc obtains input records from some source (request body,
// dropped file, IR payload). A failure here aborts the import before
// any conversion work begins.
type AcquireFunc func(ctx context.Context, log *slog.Logger) (*Acquisition, error)

// Pipeline stage names, used in stage errors and timing records.
const (
	StageInit       = "init"
	StageAcquire    = "acquire"
	StageConvert    = "convert"
	StagePartition  = "partition"
	StageSessions   = "sessions"
	StagePBs        = "pbs"
	StageGameStats  = "game-stats"
	StageGoals      = "goals"
	StageMilestones = "milestones"
	StageFinalize   = "finalize"
)

// StageError identifies which pipeline stage aborted an import.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("import stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// SessionBuilder groups converted scores into play sessions.
type SessionBuilder interface {
	BuildSessions(ctx context.Context, userID string, importType domain.ImportType, game domain.Game, groups *PlaytypeGroups, log *slog.Logger) ([]domain.SessionInfoReturn, error)
}

// PBUpdater recomputes personal bests for the charts an import touched.
type PBUpdater interface {
	UpdatePBs(ctx context.Context, userID string, chartIDs []string, log *slog.Logger) error
}

// StatsUpdater recomputes a user's aggregate stats for one
// game:playtype and reports any class changes.
type StatsUpdater interface {
	UpdateGameStats(ctx context.Context, game domain.Game, playtype domain.Playtype, userID string, log *slog.Logger) ([]domain.ClassDelta, error)
}

// GoalEvaluator re-evaluates a user's goals against touched charts.
type GoalEvaluator interface {
	EvaluateGoals(ctx context.Context, game domain.Game, userID string, chartIDs []string, log *slog.Logger) ([]domain.GoalImportInfo, error)
}

// MilestoneEvaluator re-evaluates milestones, consuming goal deltas.
type MilestoneEvaluator interface {
	EvaluateMilestones(ctx context.Context, goalInfo []domain.GoalImportInfo, game domain.Game, playtypes []domain.Playtype, userID string, log *slog.Logger) ([]domain.MilestoneImportInfo, error)
}

// SummarySink persists converted scores and the final import document.
type SummarySink interface {
	CreateScores(ctx context.Context, scores []*domain.ScoreDocument) error
	CreateImport(ctx context.Context, doc *domain.ImportDocument) error
}

// TimingSink records per-stage import timings. Writes are best-effort
// telemetry with an independent lifecycle from the import itself.
type TimingSink interface {
	WriteTimings(ctx context.Context, timings *domain.ImportTimings) error
}
