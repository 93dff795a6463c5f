// filepath: internal/api/handlers/job_handler.go
package handlers

import (
	"net/http"

	"photovault/internal/jobs"
	"photovault/internal/models"

	"github.com/gorilla/mux"
)

func jobKind(r *http.Request) (models.JobKind, bool) {
	kind := models.JobKind(mux.Vars(r)["kind"])
	switch kind {
	case models.JobKindScan, models.JobKindSync, models.JobKindOrganize, models.JobKindThumbnails:
		return kind, true
	}
	return kind, false
}

// StartJob launches a job of the given kind. The optional body carries the
// kind-specific request.
func (h *Handlers) StartJob(w http.ResponseWriter, r *http.Request) {
	kind, ok := jobKind(r)
	if !ok {
		respondWithError(w, http.StatusNotFound, "Unknown job kind: "+string(kind))
		return
	}

	var job *jobs.Job
	var err error
	switch kind {
	case models.JobKindScan:
		var req models.ScanRequest
		if err := decodeJSON(r, &req, true); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}
		job, err = h.Jobs.StartScan(req)
	case models.JobKindSync:
		var req models.SyncJobPayload
		if err := decodeJSON(r, &req, true); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}
		job, err = h.Jobs.StartSync(req.VaultID)
	case models.JobKindOrganize:
		var req models.OrganizeRequest
		if err := decodeJSON(r, &req, true); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}
		job, err = h.Jobs.StartOrganize(req)
	case models.JobKindThumbnails:
		var req models.ThumbnailJobPayload
		if err := decodeJSON(r, &req, true); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}
		job, err = h.Jobs.StartThumbnails(req.Scope)
	}
	if err != nil {
		respondWithServiceError(w, err, "start "+string(kind)+" job")
		return
	}
	respondWithJSON(w, http.StatusAccepted, job.Status())
}

// GetJob returns the latest job status of a kind, idle when none ran yet.
func (h *Handlers) GetJob(w http.ResponseWriter, r *http.Request) {
	kind, ok := jobKind(r)
	if !ok {
		respondWithError(w, http.StatusNotFound, "Unknown job kind: "+string(kind))
		return
	}
	respondWithJSON(w, http.StatusOK, h.Jobs.Status(kind))
}

// CancelJob asks the running job of a kind to stop after its current item.
func (h *Handlers) CancelJob(w http.ResponseWriter, r *http.Request) {
	kind, ok := jobKind(r)
	if !ok {
		respondWithError(w, http.StatusNotFound, "Unknown job kind: "+string(kind))
		return
	}
	if !h.Jobs.Cancel(kind) {
		respondWithError(w, http.StatusConflict, "No "+string(kind)+" job is running.")
		return
	}
	respondWithJSON(w, http.StatusAccepted, h.Jobs.Status(kind))
}

// RegenerateThumbnails starts a thumbnail job for the scope query parameter.
func (h *Handlers) RegenerateThumbnails(w http.ResponseWriter, r *http.Request) {
	job, err := h.Jobs.StartThumbnails(r.URL.Query().Get("scope"))
	if err != nil {
		respondWithServiceError(w, err, "start thumbnail job")
		return
	}
	respondWithJSON(w, http.StatusAccepted, job.Status())
}
