// Package imaging validates uploaded images and converts them to the
// single-frame RGB JPEG form sent to vision models.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"io"
	"mime/multipart"
	"slices"
	"strings"

	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Allowed content types for image uploads.
var AllowedTypes = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
	"image/bmp",
}

const octetStream = "application/octet-stream"

var (
	ErrEmpty           = errors.New("file is empty")
	ErrUnsupportedType = errors.New("unsupported file type: an image is required (JPEG, PNG, WebP or BMP)")
	ErrDecode          = errors.New("invalid or corrupt image")
)

// Upload is a validated image file received from a multipart form.
type Upload struct {
	Data        []byte
	Filename    string
	ContentType string
}

// FromMultipart reads a multipart file and validates its content type.
// The declared type is trusted when present; otherwise it is sniffed from the bytes.
func FromMultipart(file multipart.File, header *multipart.FileHeader) (*Upload, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	var declared, filename string
	if header != nil {
		declared = header.Header.Get("Content-Type")
		filename = header.Filename
	}

	return Validate(data, filename, declared)
}

// Validate checks that data is non-empty and carries an allowed image content type.
func Validate(data []byte, filename, declared string) (*Upload, error) {
	if ct := mediaType(declared); ct != "" && ct != octetStream && !Allowed(ct) {
		return nil, fmt.Errorf("%w: received %s", ErrUnsupportedType, ct)
	}

	if len(data) == 0 {
		return nil, ErrEmpty
	}

	contentType := ContentType(declared, data)
	if !Allowed(contentType) {
		return nil, fmt.Errorf("%w: received %s", ErrUnsupportedType, contentType)
	}

	return &Upload{
		Data:        data,
		Filename:    filename,
		ContentType: contentType,
	}, nil
}

// ContentType returns the media type of an upload without parameters.
// A declared type other than application/octet-stream wins over sniffing.
func ContentType(declared string, data []byte) string {
	ct := mediaType(declared)
	if ct != "" && ct != octetStream {
		return ct
	}
	return mediaType(mimetype.Detect(data).String())
}

// Allowed reports whether contentType is one of AllowedTypes.
func Allowed(contentType string) bool {
	return slices.Contains(AllowedTypes, contentType)
}

// Decode decodes data and converts it to an RGB(A) image with an opaque canvas.
func Decode(data []byte) (*image.RGBA, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return ToRGB(src), nil
}

// ToRGB copies img onto a new RGBA canvas anchored at the origin.
func ToRGB(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.Opaque, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

// EncodeJPEG encodes img as a baseline JPEG at the given quality (1-100).
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeBase64 returns the standard base64 encoding of data.
func EncodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

func mediaType(v string) string {
	v, _, _ = strings.Cut(v, ";")
	return strings.ToLower(strings.TrimSpace(v))
}
