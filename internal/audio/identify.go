// Package audio sniffs staged media files: container type for upload
// content types and WAV duration for the empty-input check.
package audio

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
)

func contentTypeFromFileType(ft tag.FileType) string {
	switch ft {
	case tag.FLAC:
		return "audio/flac"
	case tag.MP3:
		return "audio/mpeg"
	case tag.OGG:
		return "audio/ogg"
	case tag.M4A, tag.M4B, tag.M4P, tag.ALAC:
		return "audio/mp4"
	default:
		return ""
	}
}

// Identify detects the content type from the stream. Returns "" when
// the container is not recognized.
func Identify(r io.ReadSeeker) string {
	_, fileType, err := tag.Identify(r)
	if err != nil || fileType == tag.UnknownFileType {
		return ""
	}
	return contentTypeFromFileType(fileType)
}

// ContentTypeFromExtension maps the accepted extensions to MIME types.
func ContentTypeFromExtension(path string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "mp3":
		return "audio/mpeg"
	case "wav":
		return "audio/wav"
	case "ogg":
		return "audio/ogg"
	case "flac":
		return "audio/flac"
	case "m4a":
		return "audio/mp4"
	case "aac":
		return "audio/aac"
	case "mp4":
		return "video/mp4"
	case "webm":
		return "audio/webm"
	default:
		return "application/octet-stream"
	}
}

// ContentType identifies the file at path, falling back to its extension.
func ContentType(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ContentTypeFromExtension(path)
	}
	defer f.Close()

	if ct := Identify(f); ct != "" {
		return ct
	}
	return ContentTypeFromExtension(path)
}
