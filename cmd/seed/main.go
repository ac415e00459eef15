// Package main provides a tool to seed the database with chart and goal data.
//
// This loads a starter chart catalog for the supported games, rebuilds the
// chart search index, and optionally creates sample goals and milestones
// subscribed to every existing user.
//
// Usage:
//
//	DATA_PATH=~/tachi go run ./cmd/seed
//	DATA_PATH=~/tachi go run ./cmd/seed --with-goals  # Also create sample goals
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Adamaq01/Tachi/internal/domain"
	"github.com/Adamaq01/Tachi/internal/id"
	"github.com/Adamaq01/Tachi/internal/search"
	"github.com/Adamaq01/Tachi/internal/store"
)

var withGoals = flag.Bool("with-goals", false, "Create sample goals and milestones for existing users")

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/tachi")
	}

	dbPath := filepath.Join(dataPath, "db")
	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := store.New(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	idx, err := search.NewChartIndex(search.Options{DataPath: filepath.Join(dataPath, "search")})
	if err != nil {
		log.Fatalf("Failed to open chart index: %v", err)
	}
	defer idx.Close()

	ctx := context.Background()

	charts := starterCharts()
	for _, chart := range charts {
		if err := s.UpsertChart(ctx, chart); err != nil {
			log.Fatalf("Failed to store chart %s: %v", chart.ChartID, err)
		}
	}
	fmt.Printf("Stored %d charts\n", len(charts))

	// Rebuild rather than incremental index so repeated runs stay clean.
	all, err := s.ListAllCharts(ctx)
	if err != nil {
		log.Fatalf("Failed to list charts: %v", err)
	}
	if err := idx.Rebuild(all); err != nil {
		log.Fatalf("Failed to rebuild chart index: %v", err)
	}
	fmt.Printf("Indexed %d charts\n", len(all))

	if *withGoals {
		seedGoals(ctx, s, charts)
	}

	fmt.Println("\nDone!")
}

// starterCharts returns a small catalog covering each supported game.
func starterCharts() []*domain.ChartDocument {
	return []*domain.ChartDocument{
		{ChartID: "iidx-sp-gambol-h", SongID: "iidx-gambol", SongTitle: "GAMBOL", Game: domain.GameIIDX, Playtype: domain.PlaytypeSP, Difficulty: "HYPER", Level: "4"},
		{ChartID: "iidx-sp-aa-a", SongID: "iidx-aa", SongTitle: "AA", Game: domain.GameIIDX, Playtype: domain.PlaytypeSP, Difficulty: "ANOTHER", Level: "12"},
		{ChartID: "iidx-sp-v-a", SongID: "iidx-v", SongTitle: "V", Game: domain.GameIIDX, Playtype: domain.PlaytypeSP, Difficulty: "ANOTHER", Level: "12"},
		{ChartID: "iidx-dp-gambol-h", SongID: "iidx-gambol", SongTitle: "GAMBOL", Game: domain.GameIIDX, Playtype: domain.PlaytypeDP, Difficulty: "HYPER", Level: "4"},
		{ChartID: "sdvx-single-albida-exh", SongID: "sdvx-albida", SongTitle: "ALBIDA Powerless Mix", Game: domain.GameSDVX, Playtype: domain.PlaytypeSingle, Difficulty: "EXHAUST", Level: "15"},
		{ChartID: "sdvx-single-lachryma-mxm", SongID: "sdvx-lachryma", SongTitle: "Lachryma《Re:Queen'M》", Game: domain.GameSDVX, Playtype: domain.PlaytypeSingle, Difficulty: "MAXIMUM", Level: "20"},
		{ChartID: "museca-single-imprinting-red", SongID: "museca-imprinting", SongTitle: "Imprinting", Game: domain.GameMuseca, Playtype: domain.PlaytypeSingle, Difficulty: "RED", Level: "13"},
	}
}

// seedGoals creates one score goal, one lamp goal and a milestone
// combining them, then subscribes every existing user to all three.
func seedGoals(ctx context.Context, s *store.Store, charts []*domain.ChartDocument) {
	var iidxSP []string
	for _, chart := range charts {
		if chart.Game == domain.GameIIDX && chart.Playtype == domain.PlaytypeSP {
			iidxSP = append(iidxSP, chart.ChartID)
		}
	}

	scoreGoal := &domain.Goal{
		GoalID:   id.MustGenerate(id.PrefixGoal),
		Game:     domain.GameIIDX,
		Playtype: domain.PlaytypeSP,
		Name:     "Score 2000+ on any 2 SP charts",
		ChartIDs: iidxSP,
		Criteria: domain.GoalCriteriaScore,
		ScoreGte: 2000,
		OutOf:    2,
	}
	lampGoal := &domain.Goal{
		GoalID:   id.MustGenerate(id.PrefixGoal),
		Game:     domain.GameIIDX,
		Playtype: domain.PlaytypeSP,
		Name:     "Clear every SP chart",
		ChartIDs: iidxSP,
		Criteria: domain.GoalCriteriaLamp,
		LampGte:  domain.LampClear,
	}

	for _, goal := range []*domain.Goal{scoreGoal, lampGoal} {
		if err := s.CreateGoal(ctx, goal); err != nil {
			log.Fatalf("Failed to create goal %q: %v", goal.Name, err)
		}
		fmt.Printf("Created goal: %s (%s)\n", goal.Name, goal.GoalID)
	}

	milestone := &domain.Milestone{
		MilestoneID: id.MustGenerate(id.PrefixMilestone),
		Game:        domain.GameIIDX,
		Playtype:    domain.PlaytypeSP,
		Name:        "SP Starter Pack",
		GoalIDs:     []string{scoreGoal.GoalID, lampGoal.GoalID},
	}
	if err := s.CreateMilestone(ctx, milestone); err != nil {
		log.Fatalf("Failed to create milestone: %v", err)
	}
	fmt.Printf("Created milestone: %s (%s)\n", milestone.Name, milestone.MilestoneID)

	users, err := s.ListUsers(ctx)
	if err != nil {
		log.Fatalf("Failed to list users: %v", err)
	}
	if len(users) == 0 {
		fmt.Println("No users in database, skipping subscriptions")
		return
	}

	for _, user := range users {
		for _, goal := range []*domain.Goal{scoreGoal, lampGoal} {
			outOf := goal.OutOf
			if outOf == 0 {
				outOf = len(goal.ChartIDs)
			}
			sub := &domain.GoalSubscription{
				UserID: user.ID,
				GoalID: goal.GoalID,
				OutOf:  outOf,
			}
			if err := s.UpsertGoalSubscription(ctx, sub); err != nil {
				log.Fatalf("Failed to subscribe user %s to goal: %v", user.ID, err)
			}
		}
		msSub := &domain.MilestoneSubscription{
			UserID:      user.ID,
			MilestoneID: milestone.MilestoneID,
			OutOf:       len(milestone.GoalIDs),
		}
		if err := s.UpsertMilestoneSubscription(ctx, msSub); err != nil {
			log.Fatalf("Failed to subscribe user %s to milestone: %v", user.ID, err)
		}
		fmt.Printf("Subscribed user: %s\n", user.Username)
	}
}
