package handle

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEngine struct {
	text string
	err  error
	mime string
}

func (s *stubEngine) Name() string     { return "stub" }
func (s *stubEngine) GetModel() string { return "stub-model" }

func (s *stubEngine) Recognize(ctx context.Context, image []byte, mime string) (string, error) {
	s.mime = mime
	return s.text, s.err
}

func postExtract(t *testing.T, h *Handle, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/extract", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Extract(rec, req)
	return rec
}

func TestExtract_OK(t *testing.T) {
	eng := &stubEngine{text: "29801011234567"}
	h := New(&Engines{HTTP: eng}, nil)

	img := base64.StdEncoding.EncodeToString([]byte("card"))
	rec := postExtract(t, h, `{"image":"`+img+`"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var out ExtractResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "29801011234567", out.NationalID)
	assert.Equal(t, "image/jpeg", eng.mime)
}

func TestExtract_DataURLMime(t *testing.T) {
	eng := &stubEngine{text: "29801011234567"}
	h := New(&Engines{HTTP: eng}, nil)

	img := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("card"))
	rec := postExtract(t, h, `{"image":"`+img+`"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", eng.mime)
}

func TestExtract_ValidationFailure(t *testing.T) {
	eng := &stubEngine{text: "nothing readable here"}
	h := New(&Engines{HTTP: eng}, nil)

	img := base64.StdEncoding.EncodeToString([]byte("card"))
	rec := postExtract(t, h, `{"image":"`+img+`"}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var out struct {
		Kind string `json:"kind"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "validation", out.Kind)
}

func TestExtract_BadJSON(t *testing.T) {
	h := New(&Engines{HTTP: &stubEngine{}}, nil)
	rec := postExtract(t, h, `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExtract_BadBase64(t *testing.T) {
	h := New(&Engines{HTTP: &stubEngine{}}, nil)
	rec := postExtract(t, h, `{"image":"@@not-base64@@"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExtract_UnknownEngine(t *testing.T) {
	h := New(&Engines{HTTP: &stubEngine{}}, nil)
	img := base64.StdEncoding.EncodeToString([]byte("card"))
	rec := postExtract(t, h, `{"image":"`+img+`","llm_name":"gpt"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExtract_MethodNotAllowed(t *testing.T) {
	h := New(&Engines{HTTP: &stubEngine{}}, nil)
	req := httptest.NewRequest(http.MethodGet, "/v1/extract", nil)
	rec := httptest.NewRecorder()
	h.Extract(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
