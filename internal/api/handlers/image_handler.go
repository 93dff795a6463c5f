// filepath: internal/api/handlers/image_handler.go
package handlers

import (
	"net/http"

	"photovault/internal/models"
)

func (h *Handlers) MoveImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	var payload models.ImageMovePayload
	if err := decodeJSON(r, &payload, false); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	img, err := h.Images.MoveImageToAlbum(id, payload.AlbumID)
	if err != nil {
		respondWithServiceError(w, err, "move image")
		return
	}
	if img == nil {
		respondWithJSON(w, http.StatusOK, MessageResponse{Message: "No album given, nothing moved."})
		return
	}
	respondWithJSON(w, http.StatusOK, img)
}

func (h *Handlers) TrashImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Images.MoveImageToTrash(id); err != nil {
		respondWithServiceError(w, err, "trash image")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) SortLaterImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	img, err := h.Images.MoveImageToSortLater(id)
	if err != nil {
		respondWithServiceError(w, err, "move image to sort later")
		return
	}
	respondWithJSON(w, http.StatusOK, img)
}

// AssignImage records the target album of an image without moving the file.
func (h *Handlers) AssignImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	var payload models.ImageMovePayload
	if err := decodeJSON(r, &payload, false); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	img, err := h.Images.AssignImage(id, payload.AlbumID)
	if err != nil {
		respondWithServiceError(w, err, "assign image")
		return
	}
	respondWithJSON(w, http.StatusOK, img)
}

// MarkImage sets the disposition status picked up by the next organize job.
func (h *Handlers) MarkImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	var payload models.ImageMarkPayload
	if err := decodeJSON(r, &payload, false); err != nil || payload.Status == "" {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: status required")
		return
	}
	img, err := h.Images.MarkImage(id, payload.Status)
	if err != nil {
		respondWithServiceError(w, err, "mark image")
		return
	}
	respondWithJSON(w, http.StatusOK, img)
}

// BatchMoveImages moves several images. Per-item failures are reported in
// the result list, the request itself succeeds.
func (h *Handlers) BatchMoveImages(w http.ResponseWriter, r *http.Request) {
	var payload models.BatchImagesPayload
	if err := decodeJSON(r, &payload, false); err != nil || len(payload.IDs) == 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: ids required")
		return
	}
	respondWithJSON(w, http.StatusOK, h.Images.BatchMoveImages(payload.IDs, payload.AlbumID))
}

func (h *Handlers) BatchTrashImages(w http.ResponseWriter, r *http.Request) {
	var payload models.BatchImagesPayload
	if err := decodeJSON(r, &payload, false); err != nil || len(payload.IDs) == 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: ids required")
		return
	}
	respondWithJSON(w, http.StatusOK, h.Images.BatchTrashImages(payload.IDs))
}
