package serializer

import (
	"fmt"

	"github.com/nguyentantai21042004/whisper-subtitler/internal/textutil"
	"github.com/nguyentantai21042004/whisper-subtitler/internal/transcript"
)

// Filename derives the output file name from the artifact title.
func Filename(title string, kind transcript.OutputKind) string {
	stem := textutil.SanitizeFileName(title)
	switch kind {
	case transcript.OutputSubtitle:
		return stem + "_subtitles.srt"
	case transcript.OutputDocument:
		return stem + "_transcription.docx"
	default:
		return stem + "_transcription.txt"
	}
}

func (s *implSerializer) Serialize(result transcript.Result, kind transcript.OutputKind, title string) (string, []byte, error) {
	name := Filename(title, kind)

	switch kind {
	case transcript.OutputText:
		// The engine's full text, verbatim.
		return name, []byte(result.Text), nil
	case transcript.OutputSubtitle:
		data, err := SRT(result.Segments)
		if err != nil {
			return "", nil, err
		}
		return name, data, nil
	case transcript.OutputDocument:
		data, err := s.docx(title, result.Segments)
		if err != nil {
			return "", nil, fmt.Errorf("render docx: %w", err)
		}
		return name, data, nil
	}

	return "", nil, fmt.Errorf("%w: output kind %q", transcript.ErrInvalidConfig, kind)
}
