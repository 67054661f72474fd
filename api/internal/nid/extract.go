package nid

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"nid-extract/api/internal/ocr"
	"nid-extract/api/internal/util"
)

var (
	ErrImageNotFound = errors.New("image file not found")
	ErrImageRead     = errors.New("image file could not be read")
	// ErrValidation means the model answered but its text did not reduce
	// to a 14-digit sequence even after the transliteration fallback.
	ErrValidation = errors.New("extracted text did not contain a 14-digit ID")
)

// MimeJPEG is used for every file-path extraction. The card photos this
// pipeline sees are JPEGs and the model ignores a wrong tag anyway, so
// no format sniffing is done.
const MimeJPEG = "image/jpeg"

// Cache stores successful extractions keyed by image hash. ErrCacheMiss
// from FindByHash means "not cached"; any other error is logged and
// treated the same.
type Cache interface {
	FindByHash(ctx context.Context, imageHash, engine, model string) (string, error)
	Save(ctx context.Context, imageHash, engine, model, nationalID string) error
}

var ErrCacheMiss = errors.New("no cached extraction")

// Extractor runs the whole pipeline: image -> inference -> normalized ID.
type Extractor struct {
	Engine ocr.Engine
	Cache  Cache // optional
}

func NewExtractor(engine ocr.Engine) *Extractor {
	return &Extractor{Engine: engine}
}

// ExtractFile reads the image at path and extracts the National ID.
// No network call is made when the file cannot be read.
func (x *Extractor) ExtractFile(ctx context.Context, path string) (string, error) {
	log.Printf("loading image from: %s", path)
	img, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrImageNotFound, path)
		}
		return "", fmt.Errorf("%w: %v", ErrImageRead, err)
	}
	return x.Extract(ctx, img, MimeJPEG)
}

// Extract sends the image to the inference engine and normalizes the
// answer to exactly IDLength digits.
func (x *Extractor) Extract(ctx context.Context, image []byte, mime string) (string, error) {
	var hash string
	if x.Cache != nil {
		hash = util.SHA256Hex(image)
		if id, err := x.Cache.FindByHash(ctx, hash, x.Engine.Name(), x.Engine.GetModel()); err == nil {
			log.Printf("cache hit for %s", hash[:12])
			return id, nil
		} else if !errors.Is(err, ErrCacheMiss) {
			log.Printf("cache lookup: %v", err)
		}
	}

	text, err := x.Engine.Recognize(ctx, image, mime)
	if err != nil {
		return "", err
	}

	id, err := resolveID(text)
	if err != nil {
		return "", err
	}

	if x.Cache != nil {
		if err := x.Cache.Save(ctx, hash, x.Engine.Name(), x.Engine.GetModel(), id); err != nil {
			log.Printf("cache save: %v", err)
		}
	}
	return id, nil
}

// resolveID applies the direct check first: the raw text filtered to
// ASCII digits must be exactly IDLength long. Note the direct path does
// not transliterate; it trusts the model to have emitted Western digits.
// Anything else goes through the Normalize fallback, which does.
func resolveID(text string) (string, error) {
	if direct := FilterDigits(text); len(direct) == IDLength {
		return direct, nil
	}
	log.Printf("extracted string not %d digits, using manual conversion fallback", IDLength)
	if id, ok := Normalize(text); ok {
		return id, nil
	}
	return "", fmt.Errorf("%w: %q", ErrValidation, text)
}
