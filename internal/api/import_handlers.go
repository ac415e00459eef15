package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/Adamaq01/Tachi/internal/domain"
	domainerrors "github.com/Adamaq01/Tachi/internal/errors"
)

func (s *Server) registerImportRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "submitImport",
		Method:      http.MethodPost,
		Path:        "/api/v1/import",
		Summary:     "Submit batch-manual import",
		Description: "Runs the full import pipeline for a batch-manual payload and returns the import summary. Rate-limited per user.",
		Tags:        []string{"Imports"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSubmitImport)

	huma.Register(s.api, huma.Operation{
		OperationID: "getImport",
		Method:      http.MethodGet,
		Path:        "/api/v1/imports/{id}",
		Summary:     "Get import",
		Description: "Returns the immutable summary of a finished import",
		Tags:        []string{"Imports"},
	}, s.handleGetImport)

	huma.Register(s.api, huma.Operation{
		OperationID: "listUserImports",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{userID}/imports",
		Summary:     "List user imports",
		Description: "Returns a user's imports, most recent first",
		Tags:        []string{"Imports"},
	}, s.handleListUserImports)
}

// === DTOs ===

// SubmitImportInput carries the raw batch-manual payload. The importer
// owns parsing and validation, so the body is passed through untouched.
type SubmitImportInput struct {
	RawBody []byte
}

// ImportOutput wraps one import summary for Huma.
type ImportOutput struct {
	Body *domain.ImportDocument
}

// ImportListOutput wraps a list of import summaries for Huma.
type ImportListOutput struct {
	Body []*domain.ImportDocument
}

// GetImportInput identifies one import.
type GetImportInput struct {
	ID string `path:"id" doc:"Import ID"`
}

// ListUserImportsInput identifies one user.
type ListUserImportsInput struct {
	UserID string `path:"userID" doc:"User ID"`
}

// === Handlers ===

func (s *Server) handleSubmitImport(ctx context.Context, input *SubmitImportInput) (*ImportOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if !s.importLimiter.Allow(userID) {
		return nil, domainerrors.RateLimited("import rate limit exceeded, try again later")
	}

	acquire := s.importer.Acquire(userID, domain.ImportTypeAPIBatchManual, input.RawBody)
	doc, err := s.orchestrator.Run(ctx, userID, true, domain.ImportTypeAPIBatchManual, acquire)
	if err != nil {
		// Acquisition failures carry a domain error cause (bad payload,
		// unknown game). Anything else is a pipeline fault.
		var domainErr *domainerrors.Error
		if domainerrors.As(err, &domainErr) {
			return nil, domainErr
		}
		s.logger.Error("import pipeline failed", "user_id", userID, "error", err)
		return nil, domainerrors.ImportFailed("import could not be completed")
	}

	return &ImportOutput{Body: doc}, nil
}

func (s *Server) handleGetImport(ctx context.Context, input *GetImportInput) (*ImportOutput, error) {
	doc, err := s.store.GetImport(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &ImportOutput{Body: doc}, nil
}

func (s *Server) handleListUserImports(ctx context.Context, input *ListUserImportsInput) (*ImportListOutput, error) {
	if _, err := s.store.GetUser(ctx, input.UserID); err != nil {
		return nil, err
	}

	imports, err := s.store.ListImportsForUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	return &ImportListOutput{Body: imports}, nil
}
