package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/Adamaq01/Tachi/internal/domain"
	"github.com/Adamaq01/Tachi/internal/search"
)

func (s *Server) registerChartRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "upsertChart",
		Method:      http.MethodPost,
		Path:        "/api/v1/games/{game}/charts",
		Summary:     "Upsert chart",
		Description: "Creates or updates a chart and indexes it for title search. Admin only.",
		Tags:        []string{"Charts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpsertChart)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchCharts",
		Method:      http.MethodGet,
		Path:        "/api/v1/games/{game}/charts/search",
		Summary:     "Search charts",
		Description: "Finds the best-matching chart by song title, optionally filtered by playtype and difficulty",
		Tags:        []string{"Charts"},
	}, s.handleSearchCharts)
}

// === DTOs ===

// ChartRequest is the request body for chart upserts.
type ChartRequest struct {
	ChartID    string `json:"chart_id" validate:"required" doc:"Chart ID, unique within the game"`
	SongID     string `json:"song_id" validate:"required" doc:"Parent song ID"`
	SongTitle  string `json:"song_title" validate:"required" doc:"Song title"`
	Playtype   string `json:"playtype" validate:"required" doc:"Playtype (SP, DP, Single...)"`
	Difficulty string `json:"difficulty" validate:"required" doc:"Difficulty name"`
	Level      string `json:"level,omitempty" doc:"In-game level marker"`
}

// UpsertChartInput wraps the chart upsert for Huma.
type UpsertChartInput struct {
	Game string `path:"game" doc:"Game identifier (iidx, sdvx...)"`
	Body ChartRequest
}

// ChartOutput wraps one chart for Huma.
type ChartOutput struct {
	Body *domain.ChartDocument
}

// SearchChartsInput carries chart search parameters.
type SearchChartsInput struct {
	Game       string `path:"game" doc:"Game identifier"`
	Title      string `query:"title" required:"true" doc:"Song title to match"`
	Playtype   string `query:"playtype" doc:"Optional playtype filter"`
	Difficulty string `query:"difficulty" doc:"Optional difficulty filter"`
}

// ChartMatchOutput wraps a search hit for Huma.
type ChartMatchOutput struct {
	Body *search.ChartMatch
}

// === Handlers ===

func (s *Server) handleUpsertChart(ctx context.Context, input *UpsertChartInput) (*ChartOutput, error) {
	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	chart := &domain.ChartDocument{
		ChartID:    input.Body.ChartID,
		SongID:     input.Body.SongID,
		SongTitle:  input.Body.SongTitle,
		Game:       domain.Game(input.Game),
		Playtype:   domain.Playtype(input.Body.Playtype),
		Difficulty: input.Body.Difficulty,
		Level:      input.Body.Level,
	}

	if err := s.store.UpsertChart(ctx, chart); err != nil {
		return nil, err
	}
	if err := s.charts.IndexChart(chart); err != nil {
		s.logger.Error("index chart", "chart_id", chart.ChartID, "error", err)
		return nil, err
	}

	return &ChartOutput{Body: chart}, nil
}

func (s *Server) handleSearchCharts(_ context.Context, input *SearchChartsInput) (*ChartMatchOutput, error) {
	match, err := s.charts.FindChart(
		domain.Game(input.Game),
		domain.Playtype(input.Playtype),
		input.Title,
		input.Difficulty,
	)
	if err != nil {
		if errors.Is(err, search.ErrNoMatch) {
			return nil, huma.Error404NotFound("No chart matches that title")
		}
		return nil, err
	}

	return &ChartMatchOutput{Body: match}, nil
}
