// filepath: internal/web/web_test.go
package web

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThumbnailRoutes(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "12.jpg"), []byte("jpegdata"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	r := mux.NewRouter()
	AddRoutes(r, dir)

	tests := []struct {
		name     string
		target   string
		expected int
	}{
		{"Existing thumbnail", "/thumbnails/12.jpg", http.StatusOK},
		{"Unknown thumbnail", "/thumbnails/13.jpg", http.StatusNotFound},
		{"Directory", "/thumbnails/sub", http.StatusNotFound},
		{"Nested path", "/thumbnails/sub/12.jpg", http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest("GET", tc.target, nil))
			assert.Equal(t, tc.expected, rr.Code)
			if tc.expected == http.StatusOK {
				assert.Equal(t, "jpegdata", rr.Body.String())
			}
		})
	}
}
