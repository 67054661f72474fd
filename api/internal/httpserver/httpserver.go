package httpserver

import (
	"log"
	"net/http"

	"nid-extract/api/internal/handle"
)

func StartHTTP(addr string, h *handle.Handle) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/v1/extract", h.Extract)
	log.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}
