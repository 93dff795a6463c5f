// filepath: internal/api/handlers/info_handler.go
package handlers

import (
	"net/http"
)

// GetInfo returns the service name, version and start time.
func (h *Handlers) GetInfo(w http.ResponseWriter, r *http.Request) {
	info := h.Info.GetInfo()
	respondWithJSON(w, http.StatusOK, info)
}
