package domain

// SessionDocument groups scores believed to belong to one continuous
// play sitting for a single game:playtype.
type SessionDocument struct {
	SessionID   string   `json:"session_id"`
	UserID      string   `json:"user_id"`
	Game        Game     `json:"game"`
	Playtype    Playtype `json:"playtype"`
	Name        string   `json:"name"`
	ScoreIDs    []string `json:"score_ids"`
	TimeStarted int64    `json:"time_started"` // epoch millis
	TimeEnded   int64    `json:"time_ended"`   // epoch millis
}

// Session info types reported in import summaries.
const (
	SessionInfoCreated  = "Created"
	SessionInfoAppended = "Appended"
)

// SessionInfoReturn describes what the session builder did with one
// group of imported scores.
type SessionInfoReturn struct {
	SessionID   string `json:"session_id"`
	Type        string `json:"type"` // Created or Appended
	ScoresAdded int    `json:"scores_added"`
}
