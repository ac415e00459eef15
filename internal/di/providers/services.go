package providers

import (
	"github.com/samber/do/v2"

	"github.com/Adamaq01/Tachi/internal/config"
	"github.com/Adamaq01/Tachi/internal/importers/batchmanual"
	"github.com/Adamaq01/Tachi/internal/importing"
	"github.com/Adamaq01/Tachi/internal/logger"
	"github.com/Adamaq01/Tachi/internal/service"
)

// ProvideSessionService provides the session builder.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSessionService(storeHandle.Store, cfg.Import.SessionGap, log.Logger), nil
}

// ProvidePBService provides the personal-best recomputer.
func ProvidePBService(i do.Injector) (*service.PBService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPBService(storeHandle.Store, log.Logger), nil
}

// ProvideGameStatsService provides the game-stats recomputer.
func ProvideGameStatsService(i do.Injector) (*service.GameStatsService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewGameStatsService(storeHandle.Store, log.Logger), nil
}

// ProvideGoalService provides the goal evaluator.
func ProvideGoalService(i do.Injector) (*service.GoalService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewGoalService(storeHandle.Store, log.Logger), nil
}

// ProvideMilestoneService provides the milestone evaluator.
func ProvideMilestoneService(i do.Injector) (*service.MilestoneService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewMilestoneService(storeHandle.Store, log.Logger), nil
}

// ProvideOrchestrator provides the import pipeline orchestrator.
func ProvideOrchestrator(i do.Injector) (*importing.Orchestrator, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	telemetryHandle := do.MustInvoke[*TelemetryHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return importing.NewOrchestrator(importing.Deps{
		Sink:       storeHandle.Store,
		Timings:    telemetryHandle.Sink,
		Sessions:   do.MustInvoke[*service.SessionService](i),
		PBs:        do.MustInvoke[*service.PBService](i),
		Stats:      do.MustInvoke[*service.GameStatsService](i),
		Goals:      do.MustInvoke[*service.GoalService](i),
		Milestones: do.MustInvoke[*service.MilestoneService](i),
		Logger:     log.Logger,
	}), nil
}

// ProvideBatchManualImporter provides the batch-manual format importer.
func ProvideBatchManualImporter(i do.Injector) (*batchmanual.Importer, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	searchHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return batchmanual.New(storeHandle.Store, searchHandle.ChartIndex, log.Logger), nil
}
