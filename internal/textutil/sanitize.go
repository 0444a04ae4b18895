package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
	"\x00", "",
)

// SanitizeFileName makes a title safe to use as a file name stem. The
// result is NFC-normalized so visually identical titles map to the same
// name. Returns "untitled" when nothing usable is left.
func SanitizeFileName(name string) string {
	name = norm.NFC.String(strings.TrimSpace(name))
	name = strings.TrimSpace(fileNameReplacer.Replace(name))
	name = strings.Trim(name, ".")
	if name == "" {
		return "untitled"
	}
	return name
}
