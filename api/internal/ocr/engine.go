package ocr

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrNoContent means the service answered but returned no candidates.
	ErrNoContent = errors.New("response contained no candidates")
	// ErrExhausted means every retry attempt failed with a transient status.
	ErrExhausted = errors.New("failed after multiple retries")
)

// SystemInstruction is sent with every recognition request. The model is
// told to do the transliteration itself; the fallback in package nid
// covers the cases where it does not.
const SystemInstruction = "You are an OCR and data extraction expert focused on identifying Egyptian National " +
	"ID numbers (14 digits) from images. The number is typically written in Eastern " +
	"Arabic numerals. You MUST find the 14-digit sequence, convert it to Western Arabic " +
	"numerals (0-9), and return *only* the 14-digit string. Do not include spaces, " +
	"explanations, or any surrounding text. The required length is exactly 14 characters."

// UserQuery is the user-role instruction paired with the inline image.
const UserQuery = "Extract the 14-digit National ID from the image."

// StatusError is a non-2xx answer from the inference service.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gemini %d: %s", e.Status, e.Body)
}

// Engine recognizes the raw ID text on a card photo. The returned string
// is whatever the model produced; validation happens in package nid.
type Engine interface {
	Name() string
	GetModel() string
	Recognize(ctx context.Context, image []byte, mime string) (string, error)
}

// Manager holds the per-chat engine selection with a default fallback.
type Manager struct {
	def Engine
	m   sync.Map // chatID -> Engine
}

func NewManager(defaultEngine Engine) *Manager {
	return &Manager{def: defaultEngine}
}

func (m *Manager) Get(chatID int64) Engine {
	if v, ok := m.m.Load(chatID); ok {
		return v.(Engine)
	}
	return m.def
}

func (m *Manager) Set(chatID int64, e Engine) {
	m.m.Store(chatID, e)
}
