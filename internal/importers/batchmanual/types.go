// Package batchmanual implements the batch-manual import format: a
// JSON document carrying a header identifying the game and service plus
// a list of raw scores matched to charts by ID or song title.
package batchmanual

import "github.com/Adamaq01/Tachi/internal/domain"

// Chart match strategies accepted in score entries.
const (
	MatchTypeChartID   = "chartID"
	MatchTypeSongTitle = "songTitle"
)

// Meta is the batch header describing every score in the body.
type Meta struct {
	Game     string `json:"game" validate:"required"`
	Playtype string `json:"playtype" validate:"required"`
	Service  string `json:"service" validate:"required,min=2,max=60"`
}

// Score is one raw score entry. Identifier is interpreted according to
// MatchType: a chart ID, or a song title to resolve via the chart
// index together with Difficulty.
type Score struct {
	Score        int64   `json:"score" validate:"gte=0"`
	Percent      float64 `json:"percent" validate:"gte=0,lte=100"`
	Lamp         string  `json:"lamp" validate:"required"`
	MatchType    string  `json:"matchType" validate:"required,oneof=chartID songTitle"`
	Identifier   string  `json:"identifier" validate:"required"`
	Difficulty   string  `json:"difficulty"`
	TimeAchieved int64   `json:"timeAchieved" validate:"gte=0"`
}

// Batch is a full batch-manual document.
type Batch struct {
	Meta   Meta    `json:"meta" validate:"required"`
	Scores []Score `json:"scores" validate:"required,dive"`
}

// Game returns the typed game identifier from the header.
func (b *Batch) Game() domain.Game {
	return domain.Game(b.Meta.Game)
}

// Playtype returns the typed playtype from the header.
func (b *Batch) Playtype() domain.Playtype {
	return domain.Playtype(b.Meta.Playtype)
}
