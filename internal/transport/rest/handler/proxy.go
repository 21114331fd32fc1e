package handler

import (
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
)

// hop-by-hop and re-framing headers never forwarded from upstream
var strippedHeaders = map[string]bool{
	"content-encoding":  true,
	"content-length":    true,
	"transfer-encoding": true,
	"connection":        true,
}

// ProxyHandler forwards /api/proxy/* requests to the upstream API base,
// so browser clients avoid cross-origin calls to the backing service.
type ProxyHandler struct {
	upstreamBase string
	client       *http.Client
}

// NewProxyHandler creates a proxy against the given upstream base URL
func NewProxyHandler(upstreamBase string) *ProxyHandler {
	return &ProxyHandler{
		upstreamBase: strings.TrimRight(upstreamBase, "/"),
		client:       &http.Client{Timeout: 60 * time.Second},
	}
}

// Forward handles any method on /api/proxy/{path:.*}
func (h *ProxyHandler) Forward(w http.ResponseWriter, r *http.Request) {
	path := mux.Vars(r)["path"]

	target := h.upstreamBase + "/" + path
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, target, r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid proxy target")
		return
	}
	if ct := r.Header.Get("Content-Type"); ct != "" {
		req.Header.Set("Content-Type", ct)
	}
	if auth := r.Header.Get("Authorization"); auth != "" {
		req.Header.Set("Authorization", auth)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		log.Printf("Proxy request to %s failed: %v", target, err)
		writeError(w, http.StatusBadGateway, "upstream request failed")
		return
	}
	defer resp.Body.Close()

	for name, values := range resp.Header {
		if strippedHeaders[strings.ToLower(name)] {
			continue
		}
		for _, v := range values {
			w.Header().Add(name, v)
		}
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		log.Printf("Proxy response copy failed: %v", err)
	}
}
