// Package web serves the single-page frontend bundle. Paths that match no
// asset fall back to index.html so client-side routes survive a reload.
package web

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ayush/flight-tracker/internal/logging"
	"github.com/ayush/flight-tracker/internal/store"
)

const indexFile = "index.html"

// ObjectSource is satisfied by *store.MinioStore.
type ObjectSource interface {
	Download(ctx context.Context, key string) ([]byte, string, error)
}

// DirHandler serves the bundle from a directory on disk.
func DirHandler(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := cleanKey(r.URL.Path)
		if name == "" {
			files.ServeHTTP(w, r)
			return
		}
		info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(name)))
		if err != nil || info.IsDir() {
			http.ServeFile(w, r, filepath.Join(dir, indexFile))
			return
		}
		files.ServeHTTP(w, r)
	})
}

// BucketHandler serves the bundle from object storage.
func BucketHandler(src ObjectSource) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := cleanKey(r.URL.Path)
		if key == "" {
			key = indexFile
		}

		data, contentType, err := src.Download(r.Context(), key)
		if errors.Is(err, store.ErrNotFound) && key != indexFile {
			key = indexFile
			data, contentType, err = src.Download(r.Context(), key)
		}
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			logging.Error().Err(err).Str("key", key).Msg("static asset download failed")
			http.Error(w, "failed to load asset", http.StatusInternalServerError)
			return
		}

		if contentType == "" || contentType == "application/octet-stream" {
			if byExt := mime.TypeByExtension(path.Ext(key)); byExt != "" {
				contentType = byExt
			}
		}
		w.Header().Set("Content-Type", contentType)
		w.Write(data)
	})
}

// cleanKey turns a URL path into a slash-separated key with no leading
// slash and no way to climb above the root.
func cleanKey(urlPath string) string {
	return strings.TrimPrefix(path.Clean("/"+urlPath), "/")
}
