package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"moments/apperr"
	"moments/imagemeta"
	"moments/media"
)

// multipartMemory is the in-memory buffer hint for multipart parsing.
const multipartMemory = 4 << 20

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// imageUpload reads the optional "image" file from an already-parsed
// multipart form, validates it against the size and dimension limits, and
// stores it. Returns nil when no file was sent.
func imageUpload(r *http.Request, store *media.Store) (*string, error) {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.FieldError("image", "invalid image upload")
	}
	defer file.Close()

	// One extra byte so an oversized upload is detected rather than truncated.
	data, err := io.ReadAll(io.LimitReader(file, imagemeta.MaxBytes+1))
	if err != nil {
		return nil, apperr.FieldError("image", "failed to read image upload")
	}

	if err := imagemeta.Validate("image", data); err != nil {
		return nil, err
	}

	url, err := store.Save(header.Filename, data)
	if err != nil {
		return nil, err
	}

	return &url, nil
}
