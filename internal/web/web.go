// internal/web/web.go
// Package web serves generated thumbnails from the thumbnail cache directory.
package web

import (
	"bytes"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"

	"photovault/internal/logging"

	"github.com/gorilla/mux"
)

// ThumbnailPrefix is the URL prefix thumbnails are served under.
const ThumbnailPrefix = "/thumbnails/"

// fileHandler serves flat files from a filesystem. Unknown names are a 404,
// nested paths are refused.
type fileHandler struct {
	contentFS fs.FS
}

// ServeHTTP handles serving one thumbnail.
func (h fileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := path.Clean(strings.TrimPrefix(r.URL.Path, ThumbnailPrefix))
	if name == "." || name == "" || strings.Contains(name, "/") || !fs.ValidPath(name) {
		http.NotFound(w, r)
		return
	}

	file, err := h.contentFS.Open(name)
	if err != nil {
		if os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		logging.Log.Errorf("thumbnail handler: error opening file %s: %v", name, err)
		return
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil || fileInfo.IsDir() {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Cache-Control", "private, max-age=3600")
	seeker, ok := file.(io.ReadSeeker)
	if !ok {
		fileBytes, err := io.ReadAll(file)
		if err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			logging.Log.Errorf("thumbnail handler: error reading file %s: %v", name, err)
			return
		}
		http.ServeContent(w, r, name, fileInfo.ModTime(), bytes.NewReader(fileBytes))
		return
	}
	http.ServeContent(w, r, name, fileInfo.ModTime(), seeker)
}

// AddRoutes mounts the thumbnail handler on the router, serving files from dir.
func AddRoutes(router *mux.Router, dir string) {
	router.PathPrefix(ThumbnailPrefix).Handler(fileHandler{contentFS: os.DirFS(dir)}).Methods("GET", "HEAD")
}
