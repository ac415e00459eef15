package domain

// PBComposition records which scores a personal best was merged from.
// Score and lamp are merged independently, so the two IDs may differ.
type PBComposition struct {
	ScorePB string `json:"score_pb"` // score ID contributing the best score
	LampPB  string `json:"lamp_pb"`  // score ID contributing the best lamp
}

// PBDocument is the best-known result for a user+chart, merged across
// score and lamp independently.
type PBDocument struct {
	UserID       string        `json:"user_id"`
	ChartID      string        `json:"chart_id"`
	SongID       string        `json:"song_id"`
	Game         Game          `json:"game"`
	Playtype     Playtype      `json:"playtype"`
	Score        int64         `json:"score"`
	Percent      float64       `json:"percent"`
	Lamp         Lamp          `json:"lamp"`
	ComposedFrom PBComposition `json:"composed_from"`
}
