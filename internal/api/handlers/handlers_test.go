// filepath: internal/api/handlers/handlers_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"photovault/internal/services/mocks"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

type testHandlers struct {
	*Handlers
	vaults  *mocks.MockVaultService
	folders *mocks.MockFolderService
	images  *mocks.MockImageService
	trash   *mocks.MockTrashService
	jobs    *mocks.MockJobService
}

func newTestHandlers() *testHandlers {
	th := &testHandlers{
		vaults:  new(mocks.MockVaultService),
		folders: new(mocks.MockFolderService),
		images:  new(mocks.MockImageService),
		trash:   new(mocks.MockTrashService),
		jobs:    new(mocks.MockJobService),
	}
	th.Handlers = NewHandlers(new(mocks.MockInfoService), th.vaults, th.folders, th.images, th.trash, th.jobs, nil)
	return th
}

func (th *testHandlers) assertExpectations(t *testing.T) {
	th.vaults.AssertExpectations(t)
	th.folders.AssertExpectations(t)
	th.images.AssertExpectations(t)
	th.trash.AssertExpectations(t)
	th.jobs.AssertExpectations(t)
}

// newRequest builds a request with an optional JSON body and route variables.
func newRequest(t *testing.T, method, target string, body interface{}, vars map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	return req
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), dst))
}

func int64Ptr(v int64) *int64 { return &v }
