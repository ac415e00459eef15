package importing

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adamaq01/Tachi/internal/domain"
)

type fakeSink struct {
	mu        sync.Mutex
	scores    []*domain.ScoreDocument
	imports   []*domain.ImportDocument
	importErr error
}

func (f *fakeSink) CreateScores(_ context.Context, scores []*domain.ScoreDocument) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scores = append(f.scores, scores...)
	return nil
}

func (f *fakeSink) CreateImport(_ context.Context, doc *domain.ImportDocument) error {
	if f.importErr != nil {
		return f.importErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.imports = append(f.imports, doc)
	return nil
}

type fakeTimings struct {
	written chan *domain.ImportTimings
	err     error
}

func (f *fakeTimings) WriteTimings(_ context.Context, timings *domain.ImportTimings) error {
	if f.err != nil {
		return f.err
	}
	f.written <- timings
	return nil
}

type fakeSessions struct {
	results []domain.SessionInfoReturn
	err     error
}

func (f *fakeSessions) BuildSessions(_ context.Context, _ string, _ domain.ImportType, _ domain.Game, _ *PlaytypeGroups, _ *slog.Logger) ([]domain.SessionInfoReturn, error) {
	return f.results, f.err
}

type fakePBs struct {
	chartIDs []string
	err      error
}

func (f *fakePBs) UpdatePBs(_ context.Context, _ string, chartIDs []string, _ *slog.Logger) error {
	f.chartIDs = chartIDs
	return f.err
}

type fakeStats struct {
	mu       sync.Mutex
	seen     []domain.Playtype
	failFor  domain.Playtype
	deltasBy map[domain.Playtype][]domain.ClassDelta
}

func (f *fakeStats) UpdateGameStats(_ context.Context, game domain.Game, playtype domain.Playtype, _ string, _ *slog.Logger) ([]domain.ClassDelta, error) {
	f.mu.Lock()
	f.seen = append(f.seen, playtype)
	f.mu.Unlock()

	if playtype == f.failFor {
		return nil, errors.New("stat recomputation blew up")
	}
	return f.deltasBy[playtype], nil
}

type fakeGoals struct {
	info []domain.GoalImportInfo
	err  error
}

func (f *fakeGoals) EvaluateGoals(_ context.Context, _ domain.Game, _ string, _ []string, _ *slog.Logger) ([]domain.GoalImportInfo, error) {
	return f.info, f.err
}

type fakeMilestones struct {
	gotGoalInfo []domain.GoalImportInfo
	info        []domain.MilestoneImportInfo
	err         error
}

func (f *fakeMilestones) EvaluateMilestones(_ context.Context, goalInfo []domain.GoalImportInfo, _ domain.Game, _ []domain.Playtype, _ string, _ *slog.Logger) ([]domain.MilestoneImportInfo, error) {
	f.gotGoalInfo = goalInfo
	return f.info, f.err
}

type testPipeline struct {
	sink       *fakeSink
	timings    *fakeTimings
	sessions   *fakeSessions
	pbs        *fakePBs
	stats      *fakeStats
	goals      *fakeGoals
	milestones *fakeMilestones
}

func newTestPipeline() (*Orchestrator, *testPipeline) {
	p := &testPipeline{
		sink:       &fakeSink{},
		timings:    &fakeTimings{written: make(chan *domain.ImportTimings, 1)},
		sessions:   &fakeSessions{},
		pbs:        &fakePBs{},
		stats:      &fakeStats{},
		goals:      &fakeGoals{},
		milestones: &fakeMilestones{},
	}

	o := NewOrchestrator(Deps{
		Sink:       p.sink,
		Timings:    p.timings,
		Sessions:   p.sessions,
		PBs:        p.pbs,
		Stats:      p.stats,
		Goals:      p.goals,
		Milestones: p.milestones,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return o, p
}

func staticAcquire(game domain.Game, outcomes []ConversionOutcome) AcquireFunc {
	return func(_ context.Context, _ *slog.Logger) (*Acquisition, error) {
		return &Acquisition{
			Records: func(yield func(RawRecord) bool) {
				for i := range outcomes {
					if !yield(i) {
						return
					}
				}
			},
			Convert: func(raw RawRecord, _ any) ConversionOutcome {
				return outcomes[raw.(int)]
			},
			Game: game,
		}, nil
	}
}

func TestRun_HappyPath(t *testing.T) {
	o, p := newTestPipeline()

	outcomes := []ConversionOutcome{
		converted("score_1", "chart_1", domain.PlaytypeSP),
		converted("score_2", "chart_1", domain.PlaytypeSP),
		converted("score_3", "chart_2", domain.PlaytypeDP),
		Failed{Kind: domain.FailureKindInvalidScore, Message: "garbage"},
	}
	p.sessions.results = []domain.SessionInfoReturn{{SessionID: "ses_1", Type: domain.SessionInfoCreated, ScoresAdded: 3}}
	p.goals.info = []domain.GoalImportInfo{{GoalID: "goal_1", NewProgress: 2}}

	doc, err := o.Run(context.Background(), "user_1", true, domain.ImportTypeAPIBatchManual, staticAcquire(domain.GameIIDX, outcomes))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(doc.ImportID, "imp-"))
	assert.Equal(t, []string{"score_1", "score_2", "score_3"}, doc.ScoreIDs)
	assert.Len(t, doc.Errors, 1)
	assert.Equal(t, []string{"iidx:SP", "iidx:DP"}, doc.IDStrings)
	assert.True(t, doc.UserIntent)
	assert.GreaterOrEqual(t, doc.TimeFinished, doc.TimeStarted)

	// Scores and exactly one summary persisted
	assert.Len(t, p.sink.scores, 3)
	require.Len(t, p.sink.imports, 1)
	assert.Equal(t, doc, p.sink.imports[0])

	// PB recomputation saw the deduplicated chart set
	assert.Equal(t, []string{"chart_1", "chart_2"}, p.pbs.chartIDs)

	// Goal deltas flowed into milestone evaluation
	assert.Equal(t, p.goals.info, p.milestones.gotGoalInfo)
}

func TestRun_AllRecordsFail(t *testing.T) {
	o, p := newTestPipeline()

	outcomes := []ConversionOutcome{
		Failed{Kind: domain.FailureKindChartNotFound, Message: "no chart"},
		Failed{Kind: domain.FailureKindInvalidScore, Message: "bad"},
	}

	doc, err := o.Run(context.Background(), "user_1", false, domain.ImportTypeFileBatchManual, staticAcquire(domain.GameSDVX, outcomes))
	require.NoError(t, err)

	// Summary is still persisted, with empty collections and the failures.
	require.Len(t, p.sink.imports, 1)
	assert.Empty(t, doc.ScoreIDs)
	assert.Empty(t, doc.IDStrings)
	assert.Empty(t, doc.CreatedSessions)
	assert.Len(t, doc.Errors, 2)
	assert.Empty(t, p.sink.scores)
	assert.Empty(t, p.pbs.chartIDs)
}

func TestRun_AcquisitionFailureAborts(t *testing.T) {
	o, p := newTestPipeline()

	acquire := func(_ context.Context, _ *slog.Logger) (*Acquisition, error) {
		return nil, errors.New("unreadable payload")
	}

	_, err := o.Run(context.Background(), "user_1", true, domain.ImportTypeAPIBatchManual, acquire)
	require.Error(t, err)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageAcquire, stageErr.Stage)
	assert.Empty(t, p.sink.imports)
}

func TestRun_StatFanOutFailureNamesPlaytype(t *testing.T) {
	o, p := newTestPipeline()
	p.stats.failFor = domain.PlaytypeDP

	outcomes := []ConversionOutcome{
		converted("score_1", "chart_1", domain.PlaytypeSP),
		converted("score_2", "chart_2", domain.PlaytypeDP),
		converted("score_3", "chart_3", domain.PlaytypeDouble),
	}

	_, err := o.Run(context.Background(), "user_1", true, domain.ImportTypeAPIBatchManual, staticAcquire(domain.GameIIDX, outcomes))
	require.Error(t, err)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageGameStats, stageErr.Stage)
	assert.Contains(t, err.Error(), "iidx:DP")

	// All-or-nothing: no summary persisted.
	assert.Empty(t, p.sink.imports)
}

func TestRun_SessionBuilderFailureAborts(t *testing.T) {
	o, p := newTestPipeline()
	p.sessions.err = errors.New("session store unavailable")

	outcomes := []ConversionOutcome{converted("score_1", "chart_1", domain.PlaytypeSP)}

	_, err := o.Run(context.Background(), "user_1", true, domain.ImportTypeAPIBatchManual, staticAcquire(domain.GameIIDX, outcomes))
	require.Error(t, err)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageSessions, stageErr.Stage)
	assert.Empty(t, p.sink.imports)
}

func TestRun_TimingRecordWritten(t *testing.T) {
	o, p := newTestPipeline()

	outcomes := []ConversionOutcome{
		converted("score_1", "chart_1", domain.PlaytypeSP),
		converted("score_2", "chart_2", domain.PlaytypeSP),
	}

	doc, err := o.Run(context.Background(), "user_1", true, domain.ImportTypeAPIBatchManual, staticAcquire(domain.GameIIDX, outcomes))
	require.NoError(t, err)

	select {
	case timings := <-p.timings.written:
		assert.Equal(t, doc.ImportID, timings.ImportID)
		assert.Greater(t, timings.Total, 0.0)
		for stage, ms := range timings.Abs {
			assert.GreaterOrEqual(t, ms, 0.0, "stage %s", stage)
		}
		assert.Contains(t, timings.Abs, StageConvert)
		assert.Contains(t, timings.Abs, StageFinalize)
		// Relative timings are absolute divided by record count.
		assert.InDelta(t, timings.Abs[StageConvert]/2, timings.Rel[StageConvert], 1e-9)
	case <-time.After(2 * time.Second):
		t.Fatal("timing record was never written")
	}
}

func TestRun_TimingWriteFailureIsSwallowed(t *testing.T) {
	o, p := newTestPipeline()
	p.timings.err = errors.New("telemetry sink down")

	outcomes := []ConversionOutcome{converted("score_1", "chart_1", domain.PlaytypeSP)}

	doc, err := o.Run(context.Background(), "user_1", true, domain.ImportTypeAPIBatchManual, staticAcquire(domain.GameIIDX, outcomes))
	require.NoError(t, err)
	assert.NotNil(t, doc)
	assert.Len(t, p.sink.imports, 1)
}

func TestRun_FinalizePersistFailureAborts(t *testing.T) {
	o, p := newTestPipeline()
	p.sink.importErr = errors.New("disk full")

	outcomes := []ConversionOutcome{converted("score_1", "chart_1", domain.PlaytypeSP)}

	_, err := o.Run(context.Background(), "user_1", true, domain.ImportTypeAPIBatchManual, staticAcquire(domain.GameIIDX, outcomes))
	require.Error(t, err)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageFinalize, stageErr.Stage)
	assert.Empty(t, p.sink.imports)
}

func TestSummaryLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, summaryLogLevel(600))
	assert.Equal(t, slog.LevelInfo, summaryLogLevel(500))
	assert.Equal(t, slog.LevelInfo, summaryLogLevel(50))
	assert.Equal(t, slog.LevelInfo, summaryLogLevel(2))
	assert.Equal(t, slog.LevelDebug, summaryLogLevel(1))
	assert.Equal(t, slog.LevelDebug, summaryLogLevel(0))
}
