package autograph

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

// ErrUnsupportedFormat is returned when encoding to an unknown file extension.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// ExportKind identifies an exported artifact.
type ExportKind int

const (
	RasterPNG ExportKind = iota
	StaticSVG
	AnimatedSVG
	VectorPDF
)

func (k ExportKind) String() string {
	switch k {
	case RasterPNG:
		return "png"
	case StaticSVG:
		return "svg"
	case AnimatedSVG:
		return "animated svg"
	case VectorPDF:
		return "pdf"
	}
	return "unknown"
}

// Ext returns the file extension used when the artifact is saved.
func (k ExportKind) Ext() string {
	switch k {
	case RasterPNG:
		return ".png"
	case StaticSVG:
		return ".svg"
	case AnimatedSVG:
		return ".animated.svg"
	case VectorPDF:
		return ".pdf"
	}
	return ""
}

const pngDataURIPrefix = "data:image/png;base64,"

// EncodePNGDataURI encodes the image as a base64 PNG data URI.
func EncodePNGDataURI(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return pngDataURIPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodePNGDataURI decodes a data URI produced by EncodePNGDataURI.
func DecodePNGDataURI(uri string) (image.Image, error) {
	if !strings.HasPrefix(uri, pngDataURIPrefix) {
		return nil, ErrUnsupportedFormat
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, pngDataURIPrefix))
	if err != nil {
		return nil, err
	}
	return png.Decode(bytes.NewReader(data))
}

// EncodeImage encodes the image to w. Files are encoded according to their
// extension, any other writer receives a PNG.
func EncodeImage(w io.Writer, img image.Image) error {
	switch w := w.(type) {
	case *os.File:
		return EncodeImageExt(w, img, filepath.Ext(w.Name()))
	default:
		return png.Encode(w, img)
	}
}

// EncodeImageExt encodes the image in the format matching the file extension.
func EncodeImageExt(w io.Writer, img image.Image, ext string) error {
	switch strings.ToLower(ext) {
	case "", ".png":
		return png.Encode(w, img)
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 100})
	case ".bmp":
		return bmp.Encode(w, img)
	default:
		return ErrUnsupportedFormat
	}
}
