// filepath: internal/models/models.go
// Package models contains the core data structures for the application.
package models

import (
	"time"
)

// Info represents general information about the service.
type Info struct {
	ServiceName string    `json:"service_name"`
	Version     string    `json:"version"`
	UptimeSince time.Time `json:"uptime_since"`
}

// Vault is a registered filesystem root tracked by the catalog.
type Vault struct {
	ID          int64  `json:"id"`
	RootPath    string `json:"root_path"`
	DisplayName string `json:"display_name"`
	Visible     bool   `json:"visible"`
	SortOrder   int    `json:"sort_order"`
}

// VaultUpdatePayload carries the optional fields of a vault update.
type VaultUpdatePayload struct {
	DisplayName *string `json:"display_name,omitempty"`
	Visible     *bool   `json:"visible,omitempty"`
	SortOrder   *int    `json:"sort_order,omitempty"`
}

// Album mirrors a directory inside a vault. Its path is never stored,
// it is derived from the parent chain.
type Album struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ParentID  *int64 `json:"parent_id"`
	VaultID   int64  `json:"vault_id"`
	SortOrder int    `json:"sort_order"`
}

// ImageStatus is the disposition marker of an image.
type ImageStatus string

const (
	ImageStatusNormal  ImageStatus = "normal"
	ImageStatusTrash   ImageStatus = "trash"
	ImageStatusNotSure ImageStatus = "not-sure"
)

// Image is a single file known to the catalog.
type Image struct {
	ID           int64       `json:"id"`
	AbsolutePath string      `json:"absolute_path"`
	Filename     string      `json:"filename"`
	Size         int64       `json:"size"`
	Width        *int        `json:"width,omitempty"`
	Height       *int        `json:"height,omitempty"`
	ModifiedAt   time.Time   `json:"modified_at"`
	ThumbnailRef *string     `json:"thumbnail_ref,omitempty"`
	Supported    bool        `json:"supported"`
	Format       string      `json:"format"`
	AlbumID      *int64      `json:"album_id"`
	VaultID      *int64      `json:"vault_id"`
	Status       ImageStatus `json:"status"`
}

// FolderNode is one directory found by the scanner.
type FolderNode struct {
	RelativePath       string `json:"relative_path"`
	Name               string `json:"name"`
	ParentRelativePath string `json:"parent_relative_path"`
	Order              int    `json:"order"`
	Unreadable         bool   `json:"unreadable,omitempty"` // contents could not be listed

}

// SyncReport summarises one reconciliation pass over a vault.
type SyncReport struct {
	VaultID         int64         `json:"vault_id"`
	AlbumsCreated   int           `json:"albums_created"`
	AlbumsRelinked  int           `json:"albums_relinked"`
	AlbumsDeleted   int           `json:"albums_deleted"`
	ImagesAdded     int           `json:"images_added"`
	ImagesUpdated   int           `json:"images_updated"`
	ImagesRemoved   int           `json:"images_removed"`
	OrphansAttached int           `json:"orphans_attached"`
	Duration        time.Duration `json:"duration"`
}

// Mutations returns the number of catalog writes the pass performed.
func (r *SyncReport) Mutations() int {
	return r.AlbumsCreated + r.AlbumsRelinked + r.AlbumsDeleted +
		r.ImagesAdded + r.ImagesUpdated + r.ImagesRemoved + r.OrphansAttached
}

// BatchResult is the outcome of one item of a batch operation.
type BatchResult struct {
	ID      int64  `json:"id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// TrashLocation describes one trash directory.
type TrashLocation struct {
	Path       string `json:"path"`
	VaultID    *int64 `json:"vault_id,omitempty"`
	Count      int    `json:"count"`
	TotalBytes int64  `json:"total_bytes"`
}

// TrashInfo aggregates every trash directory.
type TrashInfo struct {
	Count      int             `json:"count"`
	TotalBytes int64           `json:"total_bytes"`
	Locations  []TrashLocation `json:"locations"`
}

// EmptyTrashReport is returned after emptying the trash.
type EmptyTrashReport struct {
	Removed    int    `json:"removed"`
	Failed     int    `json:"failed"`
	FreedBytes int64  `json:"freed_bytes"`
	Message    string `json:"message"`
}

// ThumbnailReport is returned by a regeneration run.
type ThumbnailReport struct {
	Scope     string `json:"scope"`
	Generated int    `json:"generated"`
	Failed    int    `json:"failed"`
	Skipped   int    `json:"skipped"`
}

// ActivityEntry is one row of a vault's activity log.
type ActivityEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail"`
}

// JobState is the lifecycle state of a long-running job.
type JobState string

const (
	JobStateIdle      JobState = "idle"
	JobStateRunning   JobState = "running"
	JobStateCompleted JobState = "completed"
	JobStateCancelled JobState = "cancelled"
	JobStateFailed    JobState = "failed"
)

// JobKind names a type of long-running job. At most one job per kind runs at a time.
type JobKind string

const (
	JobKindScan       JobKind = "scan"
	JobKindSync       JobKind = "sync"
	JobKindOrganize   JobKind = "organize"
	JobKindThumbnails JobKind = "thumbnails"
)

// JobItemError records a per-item failure inside a job.
type JobItemError struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// JobStatus is a point-in-time snapshot of a job, served to pollers.
type JobStatus struct {
	ID          string         `json:"id,omitempty"`
	Kind        JobKind        `json:"kind"`
	State       JobState       `json:"state"`
	Total       int            `json:"total"`
	Completed   int            `json:"completed"`
	CurrentItem string         `json:"current_item,omitempty"`
	Errors      []JobItemError `json:"errors"`
	Fatal       string         `json:"fatal,omitempty"`
	StartedAt   *time.Time     `json:"started_at,omitempty"`
	FinishedAt  *time.Time     `json:"finished_at,omitempty"`
}

// ScanRequest selects what a scan job walks. Empty means every registered vault.
type ScanRequest struct {
	VaultID *int64 `json:"vault_id,omitempty"`
	Path    string `json:"path,omitempty"`
}

// OrganizeRequest configures an organize job.
// A nil DeleteOriginals uses the configured default.
type OrganizeRequest struct {
	DeleteOriginals *bool `json:"delete_originals,omitempty"`
}

// RepairReport lists the invariant repairs performed.
type RepairReport struct {
	ImagesRealigned int `json:"images_realigned"`
	AlbumsDetached  int `json:"albums_detached"`
	CyclesBroken    int `json:"cycles_broken"`
}
