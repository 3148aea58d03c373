package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"net/http"
	"strings"
)

// AssetsWithCache serves static assets from an fs.FS (embedded at build time)
// with Cache-Control, Vary, and ETag handling.
func AssetsWithCache(fsys fs.FS) http.Handler {
	// precompute ETags for every file in the tree
	etags := map[string]string{}
	_ = fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d == nil || d.IsDir() {
			return nil
		}
		if b, err := fs.ReadFile(fsys, path); err == nil {
			sum := sha256.Sum256(b)
			etags["/"+path] = `W/"` + hex.EncodeToString(sum[:]) + `"`
		}
		return nil
	})
	server := http.FileServer(http.FS(fsys))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Accept-Encoding")
		w.Header().Set("Cache-Control", "public, max-age=604800, stale-while-revalidate=86400")
		path := r.URL.Path
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		if et := etags[path]; et != "" {
			w.Header().Set("ETag", et)
			if inm := r.Header.Get("If-None-Match"); inm != "" && inm == et {
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
		server.ServeHTTP(w, r)
	})
}
