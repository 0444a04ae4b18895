package transcript

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// ModelSize names a recognition model tier.
type ModelSize string

const (
	ModelTiny   ModelSize = "tiny"
	ModelBase   ModelSize = "base"
	ModelSmall  ModelSize = "small"
	ModelMedium ModelSize = "medium"
	ModelLarge  ModelSize = "large"
)

// ModelSizes lists the accepted model tiers, smallest first.
var ModelSizes = []ModelSize{ModelTiny, ModelBase, ModelSmall, ModelMedium, ModelLarge}

// OutputKind selects the serialized transcript format.
type OutputKind string

const (
	OutputText     OutputKind = "txt"
	OutputSubtitle OutputKind = "srt"
	OutputDocument OutputKind = "docx"
)

// AutoDetect is the language sentinel asking the engine to infer the language.
const AutoDetect = "auto"

// Options is a fully validated transcription configuration. The zero value
// is not usable; build one with NewOptions. Fields are read-only once built.
type Options struct {
	model    ModelSize
	language string
	prompt   string
	output   OutputKind
}

// NewOptions validates every field and returns an immutable Options value.
// An empty language or "auto" selects auto-detection; a whitespace-only
// prompt means no prompt.
func NewOptions(model, lang, prompt, output string) (Options, error) {
	var o Options

	size, err := ParseModelSize(model)
	if err != nil {
		return o, err
	}

	code, err := parseLanguage(lang)
	if err != nil {
		return o, err
	}

	kind, err := ParseOutputKind(output)
	if err != nil {
		return o, err
	}

	o.model = size
	o.language = code
	o.prompt = strings.TrimSpace(prompt)
	o.output = kind
	return o, nil
}

// ParseModelSize accepts one of tiny, base, small, medium, large.
func ParseModelSize(s string) (ModelSize, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, m := range ModelSizes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: model size %q (want tiny, base, small, medium or large)", ErrInvalidConfig, s)
}

// ParseOutputKind accepts txt, srt or docx.
func ParseOutputKind(s string) (OutputKind, error) {
	switch OutputKind(strings.ToLower(strings.TrimSpace(s))) {
	case OutputText:
		return OutputText, nil
	case OutputSubtitle:
		return OutputSubtitle, nil
	case OutputDocument:
		return OutputDocument, nil
	}
	return "", fmt.Errorf("%w: output kind %q (want txt, srt or docx)", ErrInvalidConfig, s)
}

func parseLanguage(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, AutoDetect) || strings.EqualFold(s, "auto-detect") {
		return "", nil
	}
	base, err := language.ParseBase(strings.ToLower(s))
	if err != nil {
		return "", fmt.Errorf("%w: language %q: %v", ErrInvalidConfig, s, err)
	}
	return base.String(), nil
}

// Model returns the model tier.
func (o Options) Model() ModelSize { return o.model }

// Language returns the ISO 639 code, or "" for auto-detection.
func (o Options) Language() string { return o.language }

// AutoDetect reports whether the engine should infer the language.
func (o Options) AutoDetect() bool { return o.language == "" }

// Prompt returns the priming text, or "" when none was given.
func (o Options) Prompt() string { return o.prompt }

// Output returns the requested output kind.
func (o Options) Output() OutputKind { return o.output }

// Valid reports whether o was produced by NewOptions.
func (o Options) Valid() bool { return o.model != "" && o.output != "" }

// String renders the options for logs.
func (o Options) String() string {
	lang := o.language
	if lang == "" {
		lang = AutoDetect
	}
	return fmt.Sprintf("model=%s language=%s output=%s prompt=%t", o.model, lang, o.output, o.prompt != "")
}
