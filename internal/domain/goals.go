package domain

// Goal criteria modes.
const (
	GoalCriteriaScore = "score"
	GoalCriteriaLamp  = "lamp"
)

// Goal is a user-defined target condition over chart performance.
// A goal is met when every chart in ChartIDs has a PB satisfying the
// criteria (or OutOf charts when OutOf < len(ChartIDs)).
type Goal struct {
	GoalID    string   `json:"goal_id"`
	Game      Game     `json:"game"`
	Playtype  Playtype `json:"playtype"`
	Name      string   `json:"name"`
	ChartIDs  []string `json:"chart_ids"`
	Criteria  string   `json:"criteria"` // score or lamp
	ScoreGte  int64    `json:"score_gte,omitempty"`
	LampGte   Lamp     `json:"lamp_gte,omitempty"`
	OutOf     int      `json:"out_of"` // charts required; defaults to all
}

// GoalSubscription tracks a user's progress against a goal.
type GoalSubscription struct {
	UserID   string `json:"user_id"`
	GoalID   string `json:"goal_id"`
	Progress int    `json:"progress"` // charts currently satisfying the criteria
	OutOf    int    `json:"out_of"`
	Achieved bool   `json:"achieved"`
}

// GoalImportInfo is the delta an import produced for one subscribed goal.
type GoalImportInfo struct {
	GoalID      string `json:"goal_id"`
	OldProgress int    `json:"old_progress"`
	NewProgress int    `json:"new_progress"`
	OldAchieved bool   `json:"old_achieved"`
	NewAchieved bool   `json:"new_achieved"`
}

// Milestone is a higher-order achievement composed of multiple goals.
type Milestone struct {
	MilestoneID string   `json:"milestone_id"`
	Game        Game     `json:"game"`
	Playtype    Playtype `json:"playtype"`
	Name        string   `json:"name"`
	GoalIDs     []string `json:"goal_ids"`
	// Goals required for the milestone; defaults to all.
	Required int `json:"required"`
}

// MilestoneSubscription tracks a user's progress against a milestone.
type MilestoneSubscription struct {
	UserID      string `json:"user_id"`
	MilestoneID string `json:"milestone_id"`
	Progress    int    `json:"progress"` // achieved goals
	OutOf       int    `json:"out_of"`
	Achieved    bool   `json:"achieved"`
}

// MilestoneImportInfo is the delta an import produced for one
// subscribed milestone.
type MilestoneImportInfo struct {
	MilestoneID string `json:"milestone_id"`
	OldProgress int    `json:"old_progress"`
	NewProgress int    `json:"new_progress"`
	OldAchieved bool   `json:"old_achieved"`
	NewAchieved bool   `json:"new_achieved"`
}
