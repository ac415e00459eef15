package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/Adamaq01/Tachi/internal/domain"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getUserGameStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{userID}/game-stats",
		Summary:     "User game stats",
		Description: "Returns the user's rating and classes for every game:playtype they have played",
		Tags:        []string{"Users"},
	}, s.handleGetUserGameStats)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUserPBs",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{userID}/pbs",
		Summary:     "User personal bests",
		Description: "Returns the user's personal best per chart",
		Tags:        []string{"Users"},
	}, s.handleGetUserPBs)
}

// === DTOs ===

// UserPathInput identifies one user by path parameter.
type UserPathInput struct {
	UserID string `path:"userID" doc:"User ID"`
}

// GameStatsOutput wraps a user's per-game stats for Huma.
type GameStatsOutput struct {
	Body []*domain.UserGameStats
}

// PBListOutput wraps a user's personal bests for Huma.
type PBListOutput struct {
	Body []*domain.PBDocument
}

// === Handlers ===

func (s *Server) handleGetUserGameStats(ctx context.Context, input *UserPathInput) (*GameStatsOutput, error) {
	if _, err := s.store.GetUser(ctx, input.UserID); err != nil {
		return nil, err
	}

	stats, err := s.store.GetGameStatsForUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	return &GameStatsOutput{Body: stats}, nil
}

func (s *Server) handleGetUserPBs(ctx context.Context, input *UserPathInput) (*PBListOutput, error) {
	if _, err := s.store.GetUser(ctx, input.UserID); err != nil {
		return nil, err
	}

	pbs, err := s.store.GetPBsForUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	return &PBListOutput{Body: pbs}, nil
}
