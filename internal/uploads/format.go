// Package uploads classifies already-stored upload files for serving.
// It owns no ingestion: files are classified by content and extension,
// never created or named here.
package uploads

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format is a recognized upload file format.
type Format int

const (
	// FormatUnknown is returned when detection fails.
	FormatUnknown Format = iota
	// FormatJPEG is a JPEG image.
	FormatJPEG
	// FormatPNG is a PNG image.
	FormatPNG
	// FormatGIF is a GIF image.
	FormatGIF
	// FormatWebP is a WebP image.
	FormatWebP
	// FormatSVG is an SVG document.
	FormatSVG
)

// ErrUnknownFormat marks content that matches no registered magic bytes.
var ErrUnknownFormat = errors.New("uploads: unknown format")

var (
	jpegMagic   = []byte{0xFF, 0xD8, 0xFF}
	pngMagic    = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	gifMagic    = []byte("GIF")
	riffMagic   = []byte("RIFF")
	webpTag     = []byte("WEBP")
	svgMagic    = []byte("<svg")
	svgXMLMagic = []byte("<?xml")
)

// Detect identifies a format from the leading bytes of file content.
func Detect(data []byte) (Format, error) {
	if len(data) < 8 {
		return FormatUnknown, ErrUnknownFormat
	}
	switch {
	case bytes.HasPrefix(data, jpegMagic):
		return FormatJPEG, nil
	case bytes.HasPrefix(data, pngMagic):
		return FormatPNG, nil
	case bytes.HasPrefix(data, gifMagic):
		return FormatGIF, nil
	case bytes.HasPrefix(data, riffMagic) && len(data) > 12 && bytes.Equal(data[8:12], webpTag):
		return FormatWebP, nil
	case bytes.HasPrefix(data, svgMagic) || bytes.HasPrefix(data, svgXMLMagic):
		return FormatSVG, nil
	default:
		return FormatUnknown, ErrUnknownFormat
	}
}

// sniffLen bounds how much of a file Detect needs to see. The longest
// registered signature is RIFF+WEBP at 12 bytes; the rest is headroom
// for leading XML prolog text before an <svg> tag.
const sniffLen = 512

// DetectFile identifies a format from the leading bytes of the file at
// path. Short files under the minimum signature length report
// ErrUnknownFormat, like Detect.
func DetectFile(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, err
	}
	defer f.Close()

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return FormatUnknown, err
	}
	return Detect(buf[:n])
}

// Extension returns the canonical file extension without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatJPEG:
		return "jpg"
	case FormatPNG:
		return "png"
	case FormatGIF:
		return "gif"
	case FormatWebP:
		return "webp"
	case FormatSVG:
		return "svg"
	default:
		return "bin"
	}
}

// MIMEType returns the content type to serve the format with.
func (f Format) MIMEType() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	case FormatPNG:
		return "image/png"
	case FormatGIF:
		return "image/gif"
	case FormatWebP:
		return "image/webp"
	case FormatSVG:
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}

// MIMETypeForPath maps a file extension to a content type, falling back
// to a generic binary type for anything unrecognized.
func MIMETypeForPath(path string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "jpg", "jpeg":
		return FormatJPEG.MIMEType()
	case "png":
		return FormatPNG.MIMEType()
	case "gif":
		return FormatGIF.MIMEType()
	case "webp":
		return FormatWebP.MIMEType()
	case "svg":
		return FormatSVG.MIMEType()
	default:
		return "application/octet-stream"
	}
}
