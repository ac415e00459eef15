package importing

import "github.com/Adamaq01/Tachi/internal/domain"

// PlaytypeGroups maps each playtype to its converted scores, preserving
// both the order playtypes were first seen and the input order of
// scores within each playtype. Session chronology depends on that
// ordering. Built once by Partition, read-only afterward.
type PlaytypeGroups struct {
	order  []domain.Playtype
	groups map[domain.Playtype][]*domain.ScoreDocument
}

// Playtypes returns the distinct playtypes in first-seen order.
func (g *PlaytypeGroups) Playtypes() []domain.Playtype {
	return g.order
}

// Scores returns the scores for a playtype in input order.
func (g *PlaytypeGroups) Scores(playtype domain.Playtype) []*domain.ScoreDocument {
	return g.groups[playtype]
}

// Len returns the number of distinct playtypes.
func (g *PlaytypeGroups) Len() int {
	return len(g.order)
}

func (g *PlaytypeGroups) add(score *domain.ScoreDocument) {
	if _, seen := g.groups[score.Playtype]; !seen {
		g.order = append(g.order, score.Playtype)
	}
	g.groups[score.Playtype] = append(g.groups[score.Playtype], score)
}

// Partitioned is the result of splitting conversion outcomes into their
// derived structures. Every outcome lands in exactly one of Scores or
// Failures, so len(ScoreIDs)+len(Failures) always equals the number of
// outcomes scanned.
type Partitioned struct {
	Scores   []*domain.ScoreDocument
	ScoreIDs []string
	Failures []domain.ImportError
	ChartIDs []string // deduplicated, first-seen order
	Groups   *PlaytypeGroups
}

// Partition scans the outcome sequence once, splitting successes from
// failures and deriving the chart set and playtype grouping. Failures
// are accumulated, never raised.
func Partition(outcomes []ConversionOutcome) *Partitioned {
	part := &Partitioned{
		Scores:   []*domain.ScoreDocument{},
		ScoreIDs: []string{},
		Failures: []domain.ImportError{},
		ChartIDs: []string{},
		Groups: &PlaytypeGroups{
			groups: make(map[domain.Playtype][]*domain.ScoreDocument),
		},
	}

	chartSeen := make(map[string]struct{})

	for _, outcome := range outcomes {
		switch o := outcome.(type) {
		case Converted:
			part.Scores = append(part.Scores, o.Score)
			part.ScoreIDs = append(part.ScoreIDs, o.Score.ScoreID)

			if _, dup := chartSeen[o.Score.ChartID]; !dup {
				chartSeen[o.Score.ChartID] = struct{}{}
				part.ChartIDs = append(part.ChartIDs, o.Score.ChartID)
			}

			part.Groups.add(o.Score)
		case Failed:
			part.Failures = append(part.Failures, domain.ImportError{
				Type:    o.Kind,
				Message: o.Message,
			})
		}
	}

	return part
}
