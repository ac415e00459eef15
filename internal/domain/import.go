package domain

// ImportError is a per-record conversion failure. Failures are data,
// not errors: they are accumulated during conversion and surfaced in
// the final import document, but never abort an import.
type ImportError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Failure kinds used by converters.
const (
	FailureKindInvalidScore  = "InvalidScore"
	FailureKindChartNotFound = "ChartNotFound"
	FailureKindSongNotFound  = "SongNotFound"
	FailureKindSkipped       = "Skipped"
	FailureKindInternal      = "Internal"
)

// ImportDocument is the immutable summary of one import run. It is
// assembled once at the end of the pipeline, persisted exactly once,
// and never mutated afterward.
type ImportDocument struct {
	ImportID        string                `json:"import_id"`
	ImportType      ImportType            `json:"import_type"`
	UserID          string                `json:"user_id"`
	UserIntent      bool                  `json:"user_intent"`
	IDStrings       []string              `json:"id_strings"` // "game:playtype" pairs touched
	ScoreIDs        []string              `json:"score_ids"`
	Errors          []ImportError         `json:"errors"`
	CreatedSessions []SessionInfoReturn   `json:"created_sessions"`
	ClassDeltas     []ClassDelta          `json:"class_deltas"`
	GoalInfo        []GoalImportInfo      `json:"goal_info"`
	MilestoneInfo   []MilestoneImportInfo `json:"milestone_info"`
	TimeStarted     int64                 `json:"time_started"`  // epoch millis
	TimeFinished    int64                 `json:"time_finished"` // epoch millis, >= TimeStarted
}

// ImportTimings correlates an import with per-stage durations. It has
// an independent lifecycle from the ImportDocument: losing a timing
// record never affects import correctness.
type ImportTimings struct {
	ImportID string             `json:"import_id"`
	Total    float64            `json:"total"` // milliseconds
	Abs      map[string]float64 `json:"abs"`   // stage -> ms
	Rel      map[string]float64 `json:"rel"`   // stage -> ms per converted record
}
