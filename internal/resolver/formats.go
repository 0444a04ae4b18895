package resolver

import (
	"path/filepath"
	"strings"
)

// AcceptedExtensions lists the upload formats, lower case with the dot.
var AcceptedExtensions = []string{".mp3", ".mp4", ".wav", ".m4a", ".ogg", ".flac", ".aac", ".webm"}

// IsSupported reports whether name carries an accepted extension (case-insensitive).
func IsSupported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range AcceptedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
