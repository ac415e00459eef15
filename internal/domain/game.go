// Package domain defines the core types for the Tachi score tracker.
package domain

import "fmt"

// Game identifies a supported rhythm game (e.g. "iidx", "sdvx").
type Game string

// Playtype is a game-specific sub-mode under which scores and stats
// are grouped (e.g. "SP"/"DP" for iidx, "Single" for sdvx).
type Playtype string

// Known games. The set is open; importers may register charts for any
// game string, but these are the ones shipped with seed data.
const (
	GameIIDX     Game = "iidx"
	GameSDVX     Game = "sdvx"
	GameMuseca   Game = "museca"
	GameMaimai   Game = "maimai"
	GameBMS      Game = "bms"
	GamePopn     Game = "popn"
	GameUSC      Game = "usc"
	GameDDR      Game = "ddr"
	GameChunithm Game = "chunithm"
	GameGitadora Game = "gitadora"
)

// Common playtypes.
const (
	PlaytypeSP     Playtype = "SP"
	PlaytypeDP     Playtype = "DP"
	PlaytypeSingle Playtype = "Single"
	PlaytypeDouble Playtype = "Double"
)

// FormatGPT renders the canonical "game:playtype" identifier string
// used in import summaries and stat keys.
func FormatGPT(game Game, playtype Playtype) string {
	return fmt.Sprintf("%s:%s", game, playtype)
}

// ChartDocument is an addressable playable unit within a game:
// a specific song + difficulty + playtype.
type ChartDocument struct {
	ChartID    string   `json:"chart_id"`
	SongID     string   `json:"song_id"`
	SongTitle  string   `json:"song_title"`
	Game       Game     `json:"game"`
	Playtype   Playtype `json:"playtype"`
	Difficulty string   `json:"difficulty"`
	Level      string   `json:"level"`
}
