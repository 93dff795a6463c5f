// filepath: internal/api/handlers/image_handler_test.go
package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"photovault/internal/models"
	"photovault/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestMoveImage(t *testing.T) {
	t.Run("Moved", func(t *testing.T) {
		th := newTestHandlers()
		th.images.On("MoveImageToAlbum", int64(1), int64Ptr(2)).
			Return(&models.Image{ID: 1, AbsolutePath: "/v/Travel/a.jpg", AlbumID: int64Ptr(2)}, nil)
		rr := httptest.NewRecorder()
		th.MoveImage(rr, newRequest(t, "POST", "/api/images/1/move", models.ImageMovePayload{AlbumID: int64Ptr(2)}, map[string]string{"id": "1"}))
		assert.Equal(t, http.StatusOK, rr.Code)
		var got models.Image
		decodeBody(t, rr, &got)
		assert.Equal(t, "/v/Travel/a.jpg", got.AbsolutePath)
	})

	t.Run("No album is a no-op", func(t *testing.T) {
		th := newTestHandlers()
		th.images.On("MoveImageToAlbum", int64(1), (*int64)(nil)).Return(nil, nil)
		rr := httptest.NewRecorder()
		th.MoveImage(rr, newRequest(t, "POST", "/api/images/1/move", models.ImageMovePayload{}, map[string]string{"id": "1"}))
		assert.Equal(t, http.StatusOK, rr.Code)
		var msg MessageResponse
		decodeBody(t, rr, &msg)
		assert.NotEmpty(t, msg.Message)
		th.assertExpectations(t)
	})

	t.Run("Missing source file", func(t *testing.T) {
		th := newTestHandlers()
		th.images.On("MoveImageToAlbum", int64(1), int64Ptr(2)).
			Return(nil, fmt.Errorf("%w: source file is missing", services.ErrIOFailure))
		rr := httptest.NewRecorder()
		th.MoveImage(rr, newRequest(t, "POST", "/api/images/1/move", models.ImageMovePayload{AlbumID: int64Ptr(2)}, map[string]string{"id": "1"}))
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestTrashAndSortLater(t *testing.T) {
	th := newTestHandlers()
	th.images.On("MoveImageToTrash", int64(1)).Return(nil)
	th.images.On("MoveImageToTrash", int64(2)).Return(fmt.Errorf("%w: image 2", services.ErrNotFound))
	th.images.On("MoveImageToSortLater", int64(3)).Return(&models.Image{ID: 3, Status: models.ImageStatusNotSure}, nil)

	rr := httptest.NewRecorder()
	th.TrashImage(rr, newRequest(t, "POST", "/api/images/1/trash", nil, map[string]string{"id": "1"}))
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = httptest.NewRecorder()
	th.TrashImage(rr, newRequest(t, "POST", "/api/images/2/trash", nil, map[string]string{"id": "2"}))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	th.SortLaterImage(rr, newRequest(t, "POST", "/api/images/3/sort-later", nil, map[string]string{"id": "3"}))
	assert.Equal(t, http.StatusOK, rr.Code)
	th.assertExpectations(t)
}

func TestAssignAndMarkImage(t *testing.T) {
	th := newTestHandlers()
	th.images.On("AssignImage", int64(1), int64Ptr(4)).Return(&models.Image{ID: 1, AlbumID: int64Ptr(4)}, nil)
	th.images.On("MarkImage", int64(1), models.ImageStatus("later")).
		Return(nil, fmt.Errorf("%w: unknown status 'later'", services.ErrInvalidInput))

	rr := httptest.NewRecorder()
	th.AssignImage(rr, newRequest(t, "POST", "/api/images/1/assign", models.ImageMovePayload{AlbumID: int64Ptr(4)}, map[string]string{"id": "1"}))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	th.MarkImage(rr, newRequest(t, "POST", "/api/images/1/mark", models.ImageMarkPayload{Status: "later"}, map[string]string{"id": "1"}))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	th.MarkImage(rr, newRequest(t, "POST", "/api/images/1/mark", models.ImageMarkPayload{}, map[string]string{"id": "1"}))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	th.assertExpectations(t)
}

func TestBatchImages(t *testing.T) {
	th := newTestHandlers()
	results := []models.BatchResult{
		{ID: 1, Success: true},
		{ID: 2, Success: false, Error: "image 2: not found"},
	}
	th.images.On("BatchMoveImages", []int64{1, 2}, int64Ptr(9)).Return(results)
	th.images.On("BatchTrashImages", []int64{1, 2}).Return(results)

	rr := httptest.NewRecorder()
	th.BatchMoveImages(rr, newRequest(t, "POST", "/api/images/batch/move", models.BatchImagesPayload{IDs: []int64{1, 2}, AlbumID: int64Ptr(9)}, nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	var got []models.BatchResult
	decodeBody(t, rr, &got)
	assert.Equal(t, results, got)

	rr = httptest.NewRecorder()
	th.BatchTrashImages(rr, newRequest(t, "POST", "/api/images/batch/trash", models.BatchImagesPayload{IDs: []int64{1, 2}}, nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	th.BatchTrashImages(rr, newRequest(t, "POST", "/api/images/batch/trash", models.BatchImagesPayload{}, nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	th.assertExpectations(t)
}
