// Package di provides dependency injection configuration for the Tachi server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/Adamaq01/Tachi/internal/auth"
	"github.com/Adamaq01/Tachi/internal/config"
	"github.com/Adamaq01/Tachi/internal/di/providers"
	"github.com/Adamaq01/Tachi/internal/importers/batchmanual"
	"github.com/Adamaq01/Tachi/internal/importing"
	"github.com/Adamaq01/Tachi/internal/logger"
	"github.com/Adamaq01/Tachi/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideChartIndex)
	do.Provide(injector, providers.ProvideTelemetry)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)
	do.Provide(injector, providers.ProvideAuthService)

	// Pipeline collaborators
	do.Provide(injector, providers.ProvideSessionService)
	do.Provide(injector, providers.ProvidePBService)
	do.Provide(injector, providers.ProvideGameStatsService)
	do.Provide(injector, providers.ProvideGoalService)
	do.Provide(injector, providers.ProvideMilestoneService)
	do.Provide(injector, providers.ProvideOrchestrator)
	do.Provide(injector, providers.ProvideBatchManualImporter)

	// Workers
	do.Provide(injector, providers.ProvideDropWatcher)
	do.Provide(injector, providers.ProvideDropProcessor)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*providers.TelemetryHandle](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)
	_ = do.MustInvoke[*service.AuthService](injector)

	// Pipeline collaborators
	_ = do.MustInvoke[*service.SessionService](injector)
	_ = do.MustInvoke[*service.PBService](injector)
	_ = do.MustInvoke[*service.GameStatsService](injector)
	_ = do.MustInvoke[*service.GoalService](injector)
	_ = do.MustInvoke[*service.MilestoneService](injector)
	_ = do.MustInvoke[*importing.Orchestrator](injector)
	_ = do.MustInvoke[*batchmanual.Importer](injector)

	// Workers
	_ = do.MustInvoke[*providers.DropWatcherHandle](injector)
	_ = do.MustInvoke[*providers.DropProcessorHandle](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
