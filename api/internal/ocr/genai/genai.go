package genai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	gen "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"nid-extract/api/internal/ocr"
)

// Engine is the SDK-backed alternative to the raw HTTP client. It keeps
// the same retry policy, classifying googleapi error codes the way the
// HTTP client classifies statuses.
type Engine struct {
	APIKey string
	Model  string
	Retry  ocr.RetryPolicy
}

func New(apiKey, model string) *Engine {
	return &Engine{
		APIKey: strings.TrimSpace(apiKey),
		Model:  strings.TrimSpace(model),
		Retry:  ocr.DefaultRetryPolicy(),
	}
}

func (e *Engine) Name() string     { return "genai" }
func (e *Engine) GetModel() string { return e.Model }

func (e *Engine) Recognize(ctx context.Context, image []byte, mime string) (string, error) {
	if e.APIKey == "" {
		return "", errors.New("GEMINI_API_KEY is empty")
	}
	cl, err := gen.NewClient(ctx, option.WithAPIKey(e.APIKey))
	if err != nil {
		return "", err
	}
	defer cl.Close()

	m := cl.GenerativeModel(e.Model)
	if m == nil {
		return "", fmt.Errorf("genai: model is nil")
	}
	m.GenerationConfig = gen.GenerationConfig{Temperature: ptrFloat32(0)}
	m.SystemInstruction = &gen.Content{
		Parts: []gen.Part{gen.Text(ocr.SystemInstruction)},
	}

	parts := []gen.Part{
		gen.Text(ocr.UserQuery),
		&gen.Blob{MIMEType: mime, Data: image},
	}

	for attempt := 0; attempt < e.Retry.MaxAttempts; attempt++ {
		log.Printf("genai: attempt %d/%d", attempt+1, e.Retry.MaxAttempts)

		resp, err := m.GenerateContent(ctx, parts...)
		if err != nil {
			var gerr *googleapi.Error
			if !errors.As(err, &gerr) || !e.Retry.Retryable(gerr.Code) {
				log.Printf("genai: %v", err)
				return "", err
			}
			if attempt == e.Retry.MaxAttempts-1 {
				log.Printf("genai: %v", ocr.ErrExhausted)
				return "", ocr.ErrExhausted
			}
			d := e.Retry.Backoff(attempt)
			log.Printf("genai: status %d, retrying in %s", gerr.Code, d)
			e.Retry.Sleep(d)
			continue
		}
		txt := firstText(resp)
		if txt == "" {
			return "", ocr.ErrNoContent
		}
		log.Printf("genai: extraction call succeeded")
		return strings.TrimSpace(txt), nil
	}
	return "", ocr.ErrExhausted
}

func firstText(resp *gen.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(gen.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
