// filepath: internal/api/handlers/folder_handler.go
package handlers

import (
	"net/http"
	"strconv"

	"photovault/internal/logging"
	"photovault/internal/models"
)

// ListAlbums returns the albums of one vault, or of all vaults when vault_id
// is omitted.
func (h *Handlers) ListAlbums(w http.ResponseWriter, r *http.Request) {
	vaultID, err := queryInt64(r, "vault_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	albums, err := h.Folders.ListAlbums(vaultID)
	if err != nil {
		respondWithServiceError(w, err, "retrieve albums")
		return
	}
	if albums == nil {
		albums = []models.Album{}
	}
	respondWithJSON(w, http.StatusOK, albums)
}

// CreateFolder creates a directory and its album.
func (h *Handlers) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var payload models.FolderCreatePayload
	if err := decodeJSON(r, &payload, false); err != nil {
		logging.Log.Warnf("Failed to decode request body: %v", err)
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	album, err := h.Folders.CreateFolder(payload.Name, payload.ParentID, payload.VaultID)
	if err != nil {
		respondWithServiceError(w, err, "create folder")
		return
	}
	respondWithJSON(w, http.StatusCreated, album)
}

// RenameFolder renames the directory of an album.
func (h *Handlers) RenameFolder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	var payload models.FolderRenamePayload
	if err := decodeJSON(r, &payload, false); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	album, err := h.Folders.RenameFolder(id, payload.Name)
	if err != nil {
		respondWithServiceError(w, err, "rename folder")
		return
	}
	respondWithJSON(w, http.StatusOK, album)
}

// MoveFolder moves an album below another parent, possibly in another vault.
func (h *Handlers) MoveFolder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	var payload models.FolderMovePayload
	if err := decodeJSON(r, &payload, true); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	album, err := h.Folders.MoveFolder(id, payload.ParentID, payload.VaultID)
	if err != nil {
		respondWithServiceError(w, err, "move folder")
		return
	}
	respondWithJSON(w, http.StatusOK, album)
}

// DeleteFolder removes an album directory. Without delete_contents=true a
// folder that still holds visible entries is refused.
func (h *Handlers) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	deleteContents := false
	if raw := r.URL.Query().Get("delete_contents"); raw != "" {
		deleteContents, err = strconv.ParseBool(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid delete_contents parameter")
			return
		}
	}
	if err := h.Folders.DeleteFolder(id, deleteContents); err != nil {
		respondWithServiceError(w, err, "delete folder")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
