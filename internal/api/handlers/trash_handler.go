// filepath: internal/api/handlers/trash_handler.go
package handlers

import (
	"net/http"

	"photovault/internal/logging"
)

// GetTrash reports file count and size of every trash directory.
func (h *Handlers) GetTrash(w http.ResponseWriter, r *http.Request) {
	info, err := h.Trash.GetTrashInfo()
	if err != nil {
		respondWithServiceError(w, err, "inspect trash")
		return
	}
	respondWithJSON(w, http.StatusOK, info)
}

// EmptyTrash permanently removes the contents of every trash directory.
func (h *Handlers) EmptyTrash(w http.ResponseWriter, r *http.Request) {
	report, err := h.Trash.EmptyTrash()
	if err != nil {
		respondWithServiceError(w, err, "empty trash")
		return
	}
	logging.Log.Info(report.Message)
	respondWithJSON(w, http.StatusOK, report)
}
