package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/Adamaq01/Tachi/internal/api"
	"github.com/Adamaq01/Tachi/internal/config"
	"github.com/Adamaq01/Tachi/internal/importers/batchmanual"
	"github.com/Adamaq01/Tachi/internal/importing"
	"github.com/Adamaq01/Tachi/internal/logger"
	"github.com/Adamaq01/Tachi/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server and starts listening.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	searchHandle := do.MustInvoke[*SearchIndexHandle](i)
	authService := do.MustInvoke[*service.AuthService](i)
	importer := do.MustInvoke[*batchmanual.Importer](i)
	orchestrator := do.MustInvoke[*importing.Orchestrator](i)
	log := do.MustInvoke[*logger.Logger](i)

	handler := api.NewServer(
		api.Config{
			ImportRPS:   cfg.Import.RateLimitRPS,
			ImportBurst: cfg.Import.RateLimitBurst,
		},
		storeHandle.Store,
		searchHandle.ChartIndex,
		authService,
		importer,
		orchestrator,
		log.Logger,
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: server}, nil
}
