package handle

import (
	"encoding/json"
	"net/http"

	"nid-extract/api/internal/nid"
	"nid-extract/api/internal/ocr"
)

// Engines maps the llm_name request field to a configured engine.
type Engines struct {
	HTTP ocr.Engine
	SDK  ocr.Engine
}

func (e *Engines) Get(name string) ocr.Engine {
	switch name {
	case "", "gemini", "http":
		return e.HTTP
	case "genai", "sdk":
		return e.SDK
	default:
		return nil
	}
}

type Handle struct {
	engs  *Engines
	cache nid.Cache // may be nil
}

func New(engs *Engines, cache nid.Cache) *Handle {
	return &Handle{
		engs:  engs,
		cache: cache,
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
