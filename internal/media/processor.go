// Package media validates, normalizes and stores uploaded files.
//
// Images are flattened, capped at 2000px on the long side and re-encoded
// as JPEG; videos are stored as-is. Stored names are always freshly
// generated random tokens, never derived from the client filename.
package media

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	// Decoders for the allowed image formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"telepost/internal/config"
	"telepost/internal/domain"
)

var (
	imageExtensions = map[string]bool{"png": true, "jpg": true, "jpeg": true, "gif": true, "webp": true}
	videoExtensions = map[string]bool{"mp4": true, "webm": true, "ogg": true}
)

// Upload is the result of processing one uploaded file.
type Upload struct {
	URL  string `json:"url"`
	Type string `json:"type,omitempty"` // "video" for raw video uploads
}

// Processor turns uploaded files into publicly servable assets.
type Processor struct {
	store  Store
	logger *slog.Logger
}

// NewProcessor creates a new media processor backed by the given store.
func NewProcessor(store Store, logger *slog.Logger) *Processor {
	return &Processor{
		store:  store,
		logger: logger,
	}
}

// Process routes an upload by its declared extension. Unknown extensions
// fail with domain.ErrUnsupportedFormat and no side effect.
func (p *Processor) Process(file io.Reader, filename string) (*Upload, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))

	switch {
	case imageExtensions[ext]:
		return p.processImage(file, filename)
	case videoExtensions[ext]:
		return p.storeVideo(file, ext)
	default:
		return nil, fmt.Errorf("%s: %w", filename, domain.ErrUnsupportedFormat)
	}
}

// processImage decodes, normalizes and re-encodes an image upload.
func (p *Processor) processImage(file io.Reader, filename string) (*Upload, error) {
	img, format, err := image.Decode(file)
	if err != nil {
		return nil, &domain.ProcessingError{Filename: filename, Cause: err}
	}

	bounds := img.Bounds()
	normalized := flattenOntoWhite(img)

	if bounds.Dx() > config.MaxImageDimension || bounds.Dy() > config.MaxImageDimension {
		normalized = imaging.Fit(normalized, config.MaxImageDimension, config.MaxImageDimension, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, normalized, imaging.JPEG, imaging.JPEGQuality(config.JPEGQuality)); err != nil {
		return nil, &domain.ProcessingError{Filename: filename, Cause: err}
	}

	name := uuid.NewString() + ".jpg"
	if err := p.store.Save(name, &buf); err != nil {
		return nil, &domain.ProcessingError{Filename: filename, Cause: err}
	}

	p.logger.Debug("image processed",
		"stored_as", name,
		"source_format", format,
		"width", bounds.Dx(),
		"height", bounds.Dy(),
	)

	return &Upload{URL: "/static/uploads/" + name}, nil
}

// flattenOntoWhite composites an image onto an opaque white background.
// JPEG has no alpha channel; without this, transparent and palette images
// would come out blended with black.
func flattenOntoWhite(img image.Image) image.Image {
	bounds := img.Bounds()
	background := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	return imaging.Overlay(background, img, image.Point{}, 1.0)
}

// storeVideo stores raw video bytes unchanged under a random name.
func (p *Processor) storeVideo(file io.Reader, ext string) (*Upload, error) {
	name := uuid.NewString() + "." + ext

	if err := p.store.Save(name, file); err != nil {
		return nil, &domain.ProcessingError{Filename: name, Cause: err}
	}

	p.logger.Debug("video stored", "stored_as", name)

	return &Upload{URL: "/static/uploads/" + name, Type: "video"}, nil
}
