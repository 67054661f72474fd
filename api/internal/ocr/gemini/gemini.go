package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"nid-extract/api/internal/ocr"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// Engine talks to the generateContent endpoint directly over HTTP.
type Engine struct {
	APIKey string
	Model  string

	// BaseURL is overridable for tests; empty means the Google host.
	BaseURL string
	Retry   ocr.RetryPolicy

	httpc *http.Client
}

func New(key, model string) *Engine {
	return &Engine{
		APIKey: strings.TrimSpace(key),
		Model:  strings.TrimSpace(model),
		Retry:  ocr.DefaultRetryPolicy(),
		httpc:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (e *Engine) Name() string     { return "gemini" }
func (e *Engine) GetModel() string { return e.Model }

type generateRequest struct {
	Contents          []content          `json:"contents"`
	SystemInstruction *systemInstruction `json:"systemInstruction,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type systemInstruction struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

func buildRequest(image []byte, mime string) generateRequest {
	b64 := base64.StdEncoding.EncodeToString(image)
	return generateRequest{
		Contents: []content{{
			Role: "user",
			Parts: []part{
				{Text: ocr.UserQuery},
				{InlineData: &inlineData{MimeType: mime, Data: b64}},
			},
		}},
		SystemInstruction: &systemInstruction{
			Parts: []part{{Text: ocr.SystemInstruction}},
		},
	}
}

// Recognize posts the image, retrying transient statuses per the policy,
// and returns the first generated text span.
func (e *Engine) Recognize(ctx context.Context, image []byte, mime string) (string, error) {
	if e.APIKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY is empty")
	}
	payload, err := json.Marshal(buildRequest(image, mime))
	if err != nil {
		return "", err
	}
	base := e.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", base, e.Model, e.APIKey)

	for attempt := 0; attempt < e.Retry.MaxAttempts; attempt++ {
		log.Printf("gemini: attempt %d/%d", attempt+1, e.Retry.MaxAttempts)

		text, status, err := e.call(ctx, url, payload)
		if err == nil {
			log.Printf("gemini: extraction call succeeded")
			return text, nil
		}
		if status == 0 || !e.Retry.Retryable(status) {
			// Transport errors, malformed bodies and permanent HTTP
			// statuses are not retried.
			log.Printf("gemini: %v", err)
			return "", err
		}
		if attempt == e.Retry.MaxAttempts-1 {
			break
		}
		d := e.Retry.Backoff(attempt)
		log.Printf("gemini: status %d, retrying in %s", status, d)
		e.Retry.Sleep(d)
	}
	log.Printf("gemini: %v", ocr.ErrExhausted)
	return "", ocr.ErrExhausted
}

// call performs one POST. A non-zero status is returned only when the
// transport delivered an HTTP response.
func (e *Engine) call(ctx context.Context, url string, payload []byte) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpc.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		x, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", resp.StatusCode, &ocr.StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(x))}
	}

	var out struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", 0, err
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", 0, ocr.ErrNoContent
	}
	return strings.TrimSpace(out.Candidates[0].Content.Parts[0].Text), 0, nil
}
