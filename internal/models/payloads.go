// filepath: internal/models/payloads.go
package models

// VaultCreatePayload is the body of a vault registration request.
type VaultCreatePayload struct {
	Path        string `json:"path"`
	DisplayName string `json:"display_name"`
}

// VaultReorderPayload lists vault ids in their new order.
type VaultReorderPayload struct {
	IDs []int64 `json:"ids"`
}

// FolderCreatePayload is the body of a folder creation request.
type FolderCreatePayload struct {
	Name     string `json:"name"`
	ParentID *int64 `json:"parent_id,omitempty"`
	VaultID  *int64 `json:"vault_id,omitempty"`
}

// FolderRenamePayload is the body of a folder rename request.
type FolderRenamePayload struct {
	Name string `json:"name"`
}

// FolderMovePayload is the body of a folder move request. A nil parent moves
// the folder to the vault root.
type FolderMovePayload struct {
	ParentID *int64 `json:"parent_id,omitempty"`
	VaultID  *int64 `json:"vault_id,omitempty"`
}

// ImageMovePayload names the target album of an image move.
type ImageMovePayload struct {
	AlbumID *int64 `json:"album_id"`
}

// ImageMarkPayload sets the disposition status of an image.
type ImageMarkPayload struct {
	Status ImageStatus `json:"status"`
}

// BatchImagesPayload is the body of the batch image endpoints.
type BatchImagesPayload struct {
	IDs     []int64 `json:"ids"`
	AlbumID *int64  `json:"album_id,omitempty"`
}

// SyncJobPayload optionally restricts a sync job to one vault.
type SyncJobPayload struct {
	VaultID *int64 `json:"vault_id,omitempty"`
}

// ThumbnailJobPayload selects the images a thumbnail job regenerates.
type ThumbnailJobPayload struct {
	Scope string `json:"scope,omitempty"`
}
