// Package sniff classifies uploaded bytes by their content signature.
//
// Classification never consults client-declared metadata: the stored
// extension is always derived from the sniffed type, so a renamed
// executable is rejected no matter what the client calls it.
package sniff

import (
	"errors"
	"net/http"
	"strings"
)

// Type is a logical file type on the allow-list.
type Type int

const (
	PNG Type = iota
	JPEG
	GIF
	WEBP
	WEBM
	MP3
	MP4
)

// ErrUndetermined is returned when the bytes carry no recognizable signature.
var ErrUndetermined = errors.New("file type could not be determined")

// UnsupportedTypeError is returned when the sniffed type is recognizable
// but outside the allow-list.
type UnsupportedTypeError struct {
	MIME string
}

func (e *UnsupportedTypeError) Error() string {
	return "unsupported file type: " + e.MIME
}

// allowed maps sniffed MIME types to their logical type.
var allowed = map[string]Type{
	"image/png":  PNG,
	"image/jpeg": JPEG,
	"image/gif":  GIF,
	"image/webp": WEBP,
	"video/webm": WEBM,
	"audio/mpeg": MP3,
	"video/mp4":  MP4,
}

var extensions = map[Type]string{
	PNG:  "png",
	JPEG: "jpeg",
	GIF:  "gif",
	WEBP: "webp",
	WEBM: "webm",
	MP3:  "mp3",
	MP4:  "mp4",
}

var byExtension = map[string]Type{
	"png":  PNG,
	"jpeg": JPEG,
	"gif":  GIF,
	"webp": WEBP,
	"webm": WEBM,
	"mp3":  MP3,
	"mp4":  MP4,
}

// Ext returns the extension objects of this type are stored under.
func (t Type) Ext() string {
	return extensions[t]
}

// MIME returns the canonical MIME type.
func (t Type) MIME() string {
	for m, typ := range allowed {
		if typ == t {
			return m
		}
	}
	return "application/octet-stream"
}

// Classify sniffs data's leading signature and maps it to an allow-listed
// type. It returns ErrUndetermined when no signature is recognized and an
// *UnsupportedTypeError when the signature resolves to an off-list type.
func Classify(data []byte) (Type, error) {
	if len(data) == 0 {
		return 0, ErrUndetermined
	}

	detected := http.DetectContentType(data)
	mime, _, _ := strings.Cut(detected, ";")
	mime = strings.TrimSpace(mime)

	// DetectContentType falls back to octet-stream for unrecognized binary
	// content; treat that as "no signature" rather than an off-list type.
	if mime == "application/octet-stream" {
		return 0, ErrUndetermined
	}

	t, ok := allowed[mime]
	if !ok {
		return 0, &UnsupportedTypeError{MIME: mime}
	}
	return t, nil
}

// ContentTypeForExt maps a stored extension (without dot) back to the MIME
// type served on download. Unknown extensions fall back to octet-stream.
func ContentTypeForExt(ext string) string {
	if t, ok := byExtension[strings.ToLower(ext)]; ok {
		return t.MIME()
	}
	return "application/octet-stream"
}
