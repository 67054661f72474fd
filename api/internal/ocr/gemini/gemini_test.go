package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nid-extract/api/internal/ocr"
)

// newTestEngine points an engine at a test server and records sleeps
// instead of performing them.
func newTestEngine(t *testing.T, handler http.HandlerFunc) (*Engine, *[]time.Duration) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	var sleeps []time.Duration
	e := New("test-key", "test-model")
	e.BaseURL = srv.URL
	e.Retry.Sleep = func(d time.Duration) { sleeps = append(sleeps, d) }
	return e, &sleeps
}

func candidateBody(text string) map[string]any {
	return map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"parts": []any{map[string]any{"text": text}},
				},
			},
		},
	}
}

func TestRecognize_Success(t *testing.T) {
	var gotPath string
	var gotBody generateRequest
	e, _ := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(candidateBody("29801011234567\n"))
	})

	text, err := e.Recognize(context.Background(), []byte{0xFF, 0xD8}, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "29801011234567", text)
	assert.Equal(t, "/v1beta/models/test-model:generateContent", gotPath)

	// Wire contract: user text + inline image, plus the system instruction.
	require.Len(t, gotBody.Contents, 1)
	assert.Equal(t, "user", gotBody.Contents[0].Role)
	require.Len(t, gotBody.Contents[0].Parts, 2)
	assert.Equal(t, ocr.UserQuery, gotBody.Contents[0].Parts[0].Text)
	require.NotNil(t, gotBody.Contents[0].Parts[1].InlineData)
	assert.Equal(t, "image/jpeg", gotBody.Contents[0].Parts[1].InlineData.MimeType)
	assert.Equal(t, "/9g=", gotBody.Contents[0].Parts[1].InlineData.Data)
	require.NotNil(t, gotBody.SystemInstruction)
	require.Len(t, gotBody.SystemInstruction.Parts, 1)
	assert.Equal(t, ocr.SystemInstruction, gotBody.SystemInstruction.Parts[0].Text)
}

func TestRecognize_RetryBoundOn503(t *testing.T) {
	attempts := 0
	e, sleeps := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	})

	_, err := e.Recognize(context.Background(), []byte("img"), "image/jpeg")
	assert.ErrorIs(t, err, ocr.ErrExhausted)
	assert.Equal(t, 5, attempts, "exactly 5 attempts, never a 6th")
	assert.Equal(t, []time.Duration{
		1 * time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second,
	}, *sleeps)
}

func TestRecognize_NoRetryOn400(t *testing.T) {
	attempts := 0
	e, sleeps := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "bad request", http.StatusBadRequest)
	})

	_, err := e.Recognize(context.Background(), []byte("img"), "image/jpeg")
	require.Error(t, err)
	var se *ocr.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Status)
	assert.Equal(t, 1, attempts)
	assert.Empty(t, *sleeps)
}

func TestRecognize_RecoversAfterTransientErrors(t *testing.T) {
	attempts := 0
	e, sleeps := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(candidateBody("12345678901234"))
	})

	text, err := e.Recognize(context.Background(), []byte("img"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "12345678901234", text)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, *sleeps)
}

func TestRecognize_NoCandidates(t *testing.T) {
	attempts := 0
	e, _ := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		_ = json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	})

	_, err := e.Recognize(context.Background(), []byte("img"), "image/jpeg")
	assert.ErrorIs(t, err, ocr.ErrNoContent)
	assert.Equal(t, 1, attempts, "empty responses are not retried")
}

func TestRecognize_MalformedJSON(t *testing.T) {
	attempts := 0
	e, sleeps := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		_, _ = w.Write([]byte("not json"))
	})

	_, err := e.Recognize(context.Background(), []byte("img"), "image/jpeg")
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.Empty(t, *sleeps)
}

func TestRecognize_EmptyKey(t *testing.T) {
	e := New("", "test-model")
	_, err := e.Recognize(context.Background(), []byte("img"), "image/jpeg")
	assert.Error(t, err)
}
