package serializer

import (
	"fmt"
	"os"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/nguyentantai21042004/whisper-subtitler/internal/transcript"
)

const (
	fontName = "Times New Roman"
	fontSize = 13
)

// docx renders a transcript document: a bold title, then one paragraph per
// segment led by its start timestamp.
func (s *implSerializer) docx(title string, segments []transcript.Segment) ([]byte, error) {
	doc, err := godocx.NewDocument()
	if err != nil {
		return nil, err
	}

	addStyledRun(doc.AddParagraph(""), title, true, 16)
	doc.AddParagraph("")

	for i, seg := range segments {
		if err := seg.Validate(); err != nil {
			return nil, fmt.Errorf("%w: segment %d: %v", transcript.ErrInferenceFailure, i+1, err)
		}
		p := doc.AddParagraph("")
		stamp := FormatTimestamp(seg.Start)
		addStyledRun(p, "["+stamp[:8]+"] ", true, fontSize)
		addStyledRun(p, strings.TrimSpace(seg.Text), false, fontSize)
	}

	// godocx only saves to a path; round-trip through a scratch file.
	tmp, err := os.CreateTemp(s.tempDir, "transcript-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create scratch file: %w", err)
	}
	tmpName := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpName)

	if err := doc.SaveTo(tmpName); err != nil {
		return nil, fmt.Errorf("save docx: %w", err)
	}
	return os.ReadFile(tmpName)
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}
