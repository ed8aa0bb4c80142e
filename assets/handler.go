// Package assets serves the guest page and its files from a local
// directory under a stable virtual origin.
package assets

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"net"
	"net/http"
	"path"
	"strings"
)

// Prefix is the URL path the asset tree is mounted at.
const Prefix = "/assets/"

// DefaultHost is the virtual host the guest page is loaded from.
const DefaultHost = "appassets.localhost"

// Handler serves root under Prefix for requests addressed to virtualHost
// or to loopback. Responses are never cached, and directories only serve
// their index.html.
func Handler(root fs.FS, virtualHost string) http.Handler {
	return &handler{root: root, host: strings.ToLower(virtualHost)}
}

type handler struct {
	root fs.FS
	host string
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.allowedHost(r.Host) {
		http.Error(w, "unknown host", http.StatusMisdirectedRequest)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	name, ok := assetName(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	info, err := fs.Stat(h.root, name)
	if err == nil && info.IsDir() {
		name = path.Join(name, "index.html")
		info, err = fs.Stat(h.root, name)
	}
	if err != nil || info.IsDir() {
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			http.Error(w, "read failed", http.StatusInternalServerError)
			return
		}
		http.NotFound(w, r)
		return
	}

	header := w.Header()
	header.Set("Cache-Control", "no-store")
	// Cross-origin isolation lets the core use SharedArrayBuffer
	header.Set("Cross-Origin-Opener-Policy", "same-origin")
	header.Set("Cross-Origin-Embedder-Policy", "require-corp")
	header.Set("X-Content-Type-Options", "nosniff")

	f, err := h.root.Open(name)
	if err != nil {
		http.Error(w, "read failed", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	content, ok := f.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(f)
		if err != nil {
			http.Error(w, "read failed", http.StatusInternalServerError)
			return
		}
		content = bytes.NewReader(data)
	}
	http.ServeContent(w, r, path.Base(name), info.ModTime(), content)
}

// assetName maps a request path to a name in the asset tree.
func assetName(urlPath string) (string, bool) {
	clean := path.Clean("/" + urlPath)
	switch {
	case clean == strings.TrimSuffix(Prefix, "/"):
		return ".", true
	case strings.HasPrefix(clean, Prefix):
		name := strings.TrimPrefix(clean, Prefix)
		return name, fs.ValidPath(name)
	}
	return "", false
}

func (h *handler) allowedHost(hostport string) bool {
	host := hostport
	if hh, _, err := net.SplitHostPort(hostport); err == nil {
		host = hh
	}
	host = strings.ToLower(strings.Trim(host, "[]"))

	if host == h.host || host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
