package handle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"nid-extract/api/internal/nid"
	"nid-extract/api/internal/ocr"
	"nid-extract/api/internal/util"
)

type ExtractRequest struct {
	LLMName string `json:"llm_name,omitempty"`
	Image   string `json:"image"`          // base64 or data:URI
	Mime    string `json:"mime,omitempty"` // defaults to image/jpeg
}

type ExtractResponse struct {
	NationalID string `json:"national_id"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// Extract handles POST /v1/extract.
func (h *Handle) Extract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad json: " + err.Error(), Kind: "bad_request"})
		return
	}

	deadline := 180 * time.Second
	if ts := r.Header.Get("X-Request-Timeout"); ts != "" {
		if v, _ := strconv.Atoi(ts); v > 0 {
			deadline = time.Duration(v) * time.Second
		}
	} else if ts := r.URL.Query().Get("timeoutSec"); ts != "" {
		if v, _ := strconv.Atoi(ts); v > 0 {
			deadline = time.Duration(v) * time.Second
		}
	}
	ctx, cancel := context.WithTimeout(r.Context(), deadline)
	defer cancel()

	engine := h.engs.Get(req.LLMName)
	if engine == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown llm_name: " + req.LLMName, Kind: "bad_request"})
		return
	}

	img, hintMime, err := util.DecodeBase64MaybeDataURL(req.Image)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad image: " + err.Error(), Kind: "bad_request"})
		return
	}
	mime := req.Mime
	if mime == "" {
		mime = hintMime
	}
	if mime == "" {
		mime = nid.MimeJPEG
	}

	x := &nid.Extractor{Engine: engine, Cache: h.cache}
	id, err := x.Extract(ctx, img, mime)
	if err != nil {
		code, kind := classify(err)
		writeJSON(w, code, errorResponse{Error: err.Error(), Kind: kind})
		return
	}
	writeJSON(w, http.StatusOK, ExtractResponse{NationalID: id})
}

// classify maps pipeline error kinds onto transport codes.
func classify(err error) (int, string) {
	var se *ocr.StatusError
	switch {
	case errors.Is(err, nid.ErrValidation):
		return http.StatusUnprocessableEntity, "validation"
	case errors.Is(err, ocr.ErrNoContent):
		return http.StatusBadGateway, "no_content"
	case errors.Is(err, ocr.ErrExhausted):
		return http.StatusBadGateway, "retries_exhausted"
	case errors.As(err, &se):
		return http.StatusBadGateway, "remote_error"
	default:
		return http.StatusBadGateway, "transport_error"
	}
}
