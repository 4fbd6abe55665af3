package imagemeta

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"moments/apperr"
)

const (
	// MaxBytes is the largest accepted image upload.
	MaxBytes = 2 * 1024 * 1024
	// MaxDimension is the largest accepted width or height in pixels.
	MaxDimension = 4096
)

// Validate checks an uploaded image against the size and dimension limits.
// Failures come back as a validation error on the given field, naming the
// constraint that was broken.
func Validate(field string, data []byte) error {
	if len(data) > MaxBytes {
		return apperr.FieldError(field, "Image size larger than 2MB!")
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return apperr.FieldError(field, "Upload a valid image")
	}

	if cfg.Width > MaxDimension {
		return apperr.FieldError(field, fmt.Sprintf("Image width larger than %dpx", MaxDimension))
	}
	if cfg.Height > MaxDimension {
		return apperr.FieldError(field, fmt.Sprintf("Image height larger than %dpx", MaxDimension))
	}

	return nil
}
