// filepath: internal/api/handlers/vault_handler.go
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"photovault/internal/logging"
	"photovault/internal/models"
)

// defaultActivityLimit caps activity rows when the client does not ask.
const defaultActivityLimit = 100

// ListVaults returns every registered vault in display order.
func (h *Handlers) ListVaults(w http.ResponseWriter, r *http.Request) {
	vaults, err := h.Vaults.ListVaults()
	if err != nil {
		respondWithServiceError(w, err, "retrieve vaults")
		return
	}
	if vaults == nil {
		vaults = []models.Vault{}
	}
	respondWithJSON(w, http.StatusOK, vaults)
}

// CreateVault registers an existing directory as a vault.
func (h *Handlers) CreateVault(w http.ResponseWriter, r *http.Request) {
	var payload models.VaultCreatePayload
	if err := decodeJSON(r, &payload, false); err != nil {
		logging.Log.Warnf("Failed to decode request body: %v", err)
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if strings.TrimSpace(payload.Path) == "" {
		respondWithError(w, http.StatusBadRequest, "Missing required field: path")
		return
	}

	vault, err := h.Vaults.AddVault(payload.Path, payload.DisplayName)
	if err != nil {
		respondWithServiceError(w, err, "register vault")
		return
	}
	logging.Log.Infof("Vault registered: %s (%s)", vault.DisplayName, vault.RootPath)
	respondWithJSON(w, http.StatusCreated, vault)
}

// UpdateVault changes display name, visibility or order of a vault.
func (h *Handlers) UpdateVault(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	var payload models.VaultUpdatePayload
	if err := decodeJSON(r, &payload, false); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	vault, err := h.Vaults.UpdateVault(id, payload)
	if err != nil {
		respondWithServiceError(w, err, "update vault")
		return
	}
	respondWithJSON(w, http.StatusOK, vault)
}

// ReorderVaults assigns sort orders following the given id list.
func (h *Handlers) ReorderVaults(w http.ResponseWriter, r *http.Request) {
	var payload models.VaultReorderPayload
	if err := decodeJSON(r, &payload, false); err != nil || len(payload.IDs) == 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: ids required")
		return
	}
	if err := h.Vaults.ReorderVaults(payload.IDs); err != nil {
		respondWithServiceError(w, err, "reorder vaults")
		return
	}
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Vaults reordered."})
}

// DeleteVault unregisters a vault. Files on disk stay untouched.
func (h *Handlers) DeleteVault(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Vaults.RemoveVault(id); err != nil {
		respondWithServiceError(w, err, "remove vault")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetDefaultVault makes a vault the target of folders created without one.
func (h *Handlers) SetDefaultVault(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Vaults.SetDefaultVault(id); err != nil {
		respondWithServiceError(w, err, "set default vault")
		return
	}
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Default vault updated."})
}

// SyncVault starts a sync job for one vault.
func (h *Handlers) SyncVault(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	job, err := h.Jobs.StartSync(&id)
	if err != nil {
		respondWithServiceError(w, err, "start sync")
		return
	}
	respondWithJSON(w, http.StatusAccepted, job.Status())
}

// GetVaultActivity returns the most recent activity rows of a vault.
func (h *Handlers) GetVaultActivity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit := defaultActivityLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
	}

	entries, err := h.Vaults.ReadActivity(id, limit)
	if err != nil {
		respondWithServiceError(w, err, "read activity log")
		return
	}
	if entries == nil {
		entries = []models.ActivityEntry{}
	}
	respondWithJSON(w, http.StatusOK, entries)
}
