package domain

// UserGameStats holds a user's aggregate statistics for one
// game:playtype: an overall rating and a set of computed classes
// (e.g. dans, volforce tiers).
type UserGameStats struct {
	UserID   string         `json:"user_id"`
	Game     Game           `json:"game"`
	Playtype Playtype       `json:"playtype"`
	Rating   float64        `json:"rating"`
	Classes  map[string]int `json:"classes"` // class set -> index into that set
}

// ClassDelta is a change in a user's computed classification for one
// game:playtype. Old is -1 when the class was newly attained.
type ClassDelta struct {
	Game     Game     `json:"game"`
	Playtype Playtype `json:"playtype"`
	Set      string   `json:"set"`
	Old      int      `json:"old"`
	New      int      `json:"new"`
}
