// filepath: internal/api/handlers/trash_handler_test.go
package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"photovault/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestTrashHandlers(t *testing.T) {
	th := newTestHandlers()
	info := &models.TrashInfo{Count: 3, TotalBytes: 175, Locations: []models.TrashLocation{{Path: "/v/_Trash", Count: 3, TotalBytes: 175}}}
	th.trash.On("GetTrashInfo").Return(info, nil)
	th.trash.On("EmptyTrash").Return(&models.EmptyTrashReport{Removed: 3, FreedBytes: 175, Message: "Removed 3 files, freed 175 B"}, nil)

	rr := httptest.NewRecorder()
	th.GetTrash(rr, newRequest(t, "GET", "/api/trash", nil, nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	var got models.TrashInfo
	decodeBody(t, rr, &got)
	assert.Equal(t, *info, got)

	rr = httptest.NewRecorder()
	th.EmptyTrash(rr, newRequest(t, "DELETE", "/api/trash", nil, nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	var report models.EmptyTrashReport
	decodeBody(t, rr, &report)
	assert.Equal(t, 3, report.Removed)
	th.assertExpectations(t)
}

func TestTrashHandlers_Failure(t *testing.T) {
	th := newTestHandlers()
	th.trash.On("GetTrashInfo").Return(nil, errors.New("list vaults: disk I/O error"))

	rr := httptest.NewRecorder()
	th.GetTrash(rr, newRequest(t, "GET", "/api/trash", nil, nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
