package search

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/Adamaq01/Tachi/internal/domain"
)

// ChartMatch is a resolved chart reference from a title lookup.
type ChartMatch struct {
	ChartID   string
	SongID    string
	SongTitle string
	Score     float64
}

// ErrNoMatch is returned when no indexed chart satisfies a lookup.
var ErrNoMatch = fmt.Errorf("no matching chart")

// FindChart resolves a song title to a chart within one game:playtype.
// An exact match on the normalized title is tried first; if nothing
// matches, a fuzzy full-text match on the raw title is used as a
// fallback so near-miss titles from sloppy services still resolve.
func (c *ChartIndex) FindChart(game domain.Game, playtype domain.Playtype, title, difficulty string) (*ChartMatch, error) {
	match, err := c.runQuery(c.exactQuery(game, playtype, title, difficulty))
	if err != nil {
		return nil, err
	}
	if match != nil {
		return match, nil
	}

	match, err = c.runQuery(c.fuzzyQuery(game, playtype, title, difficulty))
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, ErrNoMatch
	}
	return match, nil
}

func (c *ChartIndex) exactQuery(game domain.Game, playtype domain.Playtype, title, difficulty string) query.Query {
	titleQuery := bleve.NewTermQuery(NormalizeTitle(title))
	titleQuery.SetField("norm_title")
	return c.withFilters(titleQuery, game, playtype, difficulty)
}

func (c *ChartIndex) fuzzyQuery(game domain.Game, playtype domain.Playtype, title, difficulty string) query.Query {
	titleQuery := bleve.NewMatchQuery(title)
	titleQuery.SetField("song_title")
	titleQuery.SetFuzziness(1)
	return c.withFilters(titleQuery, game, playtype, difficulty)
}

func (c *ChartIndex) withFilters(titleQuery query.Query, game domain.Game, playtype domain.Playtype, difficulty string) query.Query {
	conjuncts := []query.Query{titleQuery}

	gameQuery := bleve.NewTermQuery(string(game))
	gameQuery.SetField("game")
	conjuncts = append(conjuncts, gameQuery)

	playtypeQuery := bleve.NewTermQuery(string(playtype))
	playtypeQuery.SetField("playtype")
	conjuncts = append(conjuncts, playtypeQuery)

	if difficulty != "" {
		difficultyQuery := bleve.NewTermQuery(difficulty)
		difficultyQuery.SetField("difficulty")
		conjuncts = append(conjuncts, difficultyQuery)
	}

	return bleve.NewConjunctionQuery(conjuncts...)
}

func (c *ChartIndex) runQuery(q query.Query) (*ChartMatch, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	req := bleve.NewSearchRequestOptions(q, 1, 0, false)
	req.Fields = []string{"chart_id", "song_id", "song_title"}

	result, err := c.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search charts: %w", err)
	}
	if len(result.Hits) == 0 {
		return nil, nil
	}

	hit := result.Hits[0]
	match := &ChartMatch{Score: hit.Score}
	if chartID, ok := hit.Fields["chart_id"].(string); ok {
		match.ChartID = chartID
	}
	if songID, ok := hit.Fields["song_id"].(string); ok {
		match.SongID = songID
	}
	if songTitle, ok := hit.Fields["song_title"].(string); ok {
		match.SongTitle = songTitle
	}

	return match, nil
}
