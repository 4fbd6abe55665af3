package imagemeta

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"

	"moments/apperr"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func fieldMessage(t *testing.T, err error, field string) string {
	t.Helper()
	var ve *apperr.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	messages := ve.Fields[field]
	if len(messages) == 0 {
		t.Fatalf("expected error on field %q, got %v", field, ve.Fields)
	}
	return messages[0]
}

func TestValidateAcceptsSmallImage(t *testing.T) {
	if err := Validate("image", encodePNG(t, 100, 80)); err != nil {
		t.Fatalf("small image should pass, got %v", err)
	}
}

func TestValidateRejectsOversizedBytes(t *testing.T) {
	err := Validate("image", make([]byte, MaxBytes+1))
	if msg := fieldMessage(t, err, "image"); !strings.Contains(msg, "2MB") {
		t.Errorf("size failure should name the size constraint, got %q", msg)
	}
}

func TestValidateRejectsTooWide(t *testing.T) {
	err := Validate("image", encodePNG(t, 5000, 1))
	if msg := fieldMessage(t, err, "image"); !strings.Contains(msg, "width") {
		t.Errorf("width failure should name the width constraint, got %q", msg)
	}
}

func TestValidateRejectsTooTall(t *testing.T) {
	err := Validate("image", encodePNG(t, 1, 4097))
	if msg := fieldMessage(t, err, "image"); !strings.Contains(msg, "height") {
		t.Errorf("height failure should name the height constraint, got %q", msg)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	err := Validate("image", []byte("not an image at all"))
	if err == nil {
		t.Fatal("garbage bytes should be rejected")
	}
	fieldMessage(t, err, "image")
}
