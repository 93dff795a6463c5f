// filepath: internal/api/router.go
package api

import (
	"photovault/internal/api/handlers"
	"photovault/internal/audit"
	"photovault/internal/web"

	"github.com/gorilla/mux"
)

// SetupRouter configures the main router and its sub-routers.
func SetupRouter(h *handlers.Handlers, auditor *audit.RequestAuditor, thumbnailDir string) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", handlers.HealthCheck).Methods("GET")

	apiRouter := r.PathPrefix("/api").Subrouter()
	if auditor != nil {
		apiRouter.Use(auditor.Middleware)
	}
	apiRouter.HandleFunc("/info", h.GetInfo).Methods("GET")

	addVaultRoutes(apiRouter, h)
	addFolderRoutes(apiRouter, h)
	addImageRoutes(apiRouter, h)
	addJobRoutes(apiRouter, h)

	if thumbnailDir != "" {
		web.AddRoutes(r, thumbnailDir)
	}
	return r
}

// addVaultRoutes configures routes related to vault management.
func addVaultRoutes(r *mux.Router, h *handlers.Handlers) {
	r.HandleFunc("/vaults", h.ListVaults).Methods("GET")
	r.HandleFunc("/vaults", h.CreateVault).Methods("POST")
	r.HandleFunc("/vaults/reorder", h.ReorderVaults).Methods("POST")
	r.HandleFunc("/vaults/{id:[0-9]+}", h.UpdateVault).Methods("PATCH")
	r.HandleFunc("/vaults/{id:[0-9]+}", h.DeleteVault).Methods("DELETE")
	r.HandleFunc("/vaults/{id:[0-9]+}/default", h.SetDefaultVault).Methods("POST")
	r.HandleFunc("/vaults/{id:[0-9]+}/sync", h.SyncVault).Methods("POST")
	r.HandleFunc("/vaults/{id:[0-9]+}/activity", h.GetVaultActivity).Methods("GET")
}

// addFolderRoutes configures album listing and the structural folder operations.
func addFolderRoutes(r *mux.Router, h *handlers.Handlers) {
	r.HandleFunc("/albums", h.ListAlbums).Methods("GET")
	r.HandleFunc("/folders", h.CreateFolder).Methods("POST")
	r.HandleFunc("/folders/{id:[0-9]+}", h.RenameFolder).Methods("PATCH")
	r.HandleFunc("/folders/{id:[0-9]+}", h.DeleteFolder).Methods("DELETE")
	r.HandleFunc("/folders/{id:[0-9]+}/move", h.MoveFolder).Methods("POST")
}

// addImageRoutes configures image moves, dispositions and the trash.
func addImageRoutes(r *mux.Router, h *handlers.Handlers) {
	r.HandleFunc("/images/batch/move", h.BatchMoveImages).Methods("POST")
	r.HandleFunc("/images/batch/trash", h.BatchTrashImages).Methods("POST")
	r.HandleFunc("/images/{id:[0-9]+}/move", h.MoveImage).Methods("POST")
	r.HandleFunc("/images/{id:[0-9]+}/trash", h.TrashImage).Methods("POST")
	r.HandleFunc("/images/{id:[0-9]+}/sort-later", h.SortLaterImage).Methods("POST")
	r.HandleFunc("/images/{id:[0-9]+}/assign", h.AssignImage).Methods("POST")
	r.HandleFunc("/images/{id:[0-9]+}/mark", h.MarkImage).Methods("POST")

	r.HandleFunc("/trash", h.GetTrash).Methods("GET")
	r.HandleFunc("/trash", h.EmptyTrash).Methods("DELETE")
}

// addJobRoutes configures the long-running job endpoints.
func addJobRoutes(r *mux.Router, h *handlers.Handlers) {
	r.HandleFunc("/jobs/{kind}", h.StartJob).Methods("POST")
	r.HandleFunc("/jobs/{kind}", h.GetJob).Methods("GET")
	r.HandleFunc("/jobs/{kind}/cancel", h.CancelJob).Methods("POST")
	r.HandleFunc("/thumbnails/regenerate", h.RegenerateThumbnails).Methods("POST")
}
