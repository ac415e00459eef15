package domain

// ImportType tags the source of an import. The prefix identifies the
// transport ("file", "api", "ir") and the suffix the wire format.
type ImportType string

// Supported import types.
const (
	ImportTypeFileBatchManual ImportType = "file/batch-manual"
	ImportTypeAPIBatchManual  ImportType = "api/batch-manual"
	ImportTypeIRDirectManual  ImportType = "ir/direct-manual"
)

// Lamp is a clear-type classification for a score (game-specific
// vocabulary, ordered worst to best by LampIndex).
type Lamp string

// Lamps shared by most supported games.
const (
	LampFailed    Lamp = "FAILED"
	LampClear     Lamp = "CLEAR"
	LampExClear   Lamp = "EX CLEAR"
	LampFullCombo Lamp = "FULL COMBO"
	LampPerfect   Lamp = "PERFECT"
)

var lampOrder = map[Lamp]int{
	LampFailed:    0,
	LampClear:     1,
	LampExClear:   2,
	LampFullCombo: 3,
	LampPerfect:   4,
}

// LampIndex returns the ordering rank of a lamp. Unknown lamps rank
// below FAILED so malformed data never beats a real clear.
func LampIndex(l Lamp) int {
	if idx, ok := lampOrder[l]; ok {
		return idx
	}
	return -1
}

// ScoreDocument is a normalized score record. It is created once during
// import conversion and read-only afterward; later pipeline stages hold
// references to it, never copies.
type ScoreDocument struct {
	ScoreID      string     `json:"score_id"`
	ChartID      string     `json:"chart_id"`
	SongID       string     `json:"song_id"`
	UserID       string     `json:"user_id"`
	Game         Game       `json:"game"`
	Playtype     Playtype   `json:"playtype"`
	Score        int64      `json:"score"`
	Percent      float64    `json:"percent"`
	Lamp         Lamp       `json:"lamp"`
	TimeAchieved int64      `json:"time_achieved"` // epoch millis, 0 if unknown
	Service      string     `json:"service"`
	ImportType   ImportType `json:"import_type"`
}
