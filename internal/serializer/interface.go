package serializer

import "github.com/nguyentantai21042004/whisper-subtitler/internal/transcript"

// Serializer converts a transcription result into output file content.
type Serializer interface {
	// Serialize returns the deterministic output file name for title and
	// the encoded content.
	Serialize(result transcript.Result, kind transcript.OutputKind, title string) (string, []byte, error)
}
