// filepath: internal/cli/server.go
package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"photovault/internal/api"
	"photovault/internal/api/handlers"
	"photovault/internal/audit"
	"photovault/internal/initconfig"
	"photovault/internal/jobs"
	"photovault/internal/logging"
	"photovault/internal/watcher"
)

// runServer contains the logic to start the HTTP server with graceful shutdown.
func runServer() error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if initConfig != "" {
		logging.Log.Infof("Found init_config, running initialization from: %s", initConfig)
		initconfig.Run(a.vaults, initConfig)
	}

	scheduler := jobs.NewScheduler(jobs.Dependencies{Vaults: a.vaults, Syncer: a.sync}, a.manager, cfg.SyncInterval)
	scheduler.Start()
	// No defer stop here, we stop explicitly during graceful shutdown

	var fsWatcher *watcher.Watcher
	if cfg.Sync.Watch {
		fsWatcher, err = startWatcher(a, scheduler)
		if err != nil {
			logging.Log.Warnf("Filesystem watching disabled: %v", err)
		}
	}

	h := handlers.NewHandlers(a.info, a.vaults, a.folders, a.images, a.trash, a.jobs, cfg)
	r := api.SetupRouter(h, audit.NewRequestAuditor(cfg.Logging.AuditEnabled), cfg.Thumbnails.Dir)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              serverAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// --- Graceful Shutdown Setup ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logging.Log.Infof("Server starting on %s (sync interval: %v, watch: %t)", serverAddr, cfg.SyncInterval, cfg.Sync.Watch)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-stop
	logging.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if fsWatcher != nil {
		if err := fsWatcher.Stop(); err != nil {
			logging.Log.Warnf("Failed to stop watcher: %v", err)
		}
	}
	scheduler.Stop()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Log.Errorf("Server forced to shutdown: %v", err)
		return err
	}

	logging.Log.Info("Server exiting")
	return nil
}

// startWatcher watches the roots of every visible vault and nudges the
// scheduler when their folder structure changes.
func startWatcher(a *app, scheduler *jobs.Scheduler) (*watcher.Watcher, error) {
	vaults, err := a.vaults.ListVaults()
	if err != nil {
		return nil, err
	}
	roots := make([]string, 0, len(vaults))
	for _, v := range vaults {
		if v.Visible {
			roots = append(roots, v.RootPath)
		}
	}

	w, err := watcher.New(scheduler, cfg.WatchDebounce)
	if err != nil {
		return nil, err
	}
	if err := w.Start(roots); err != nil {
		return nil, err
	}
	logging.Log.Infof("Watching %d vault root(s) for changes.", len(roots))
	return w, nil
}
