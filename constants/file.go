package constants

import "strings"

const (
	PDF  = "PDF"
	TEXT = "TXT"
)

// FileTypes holds the allowed values for the format column in analysis.
var FileTypes = []string{PDF, TEXT}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat returns the format for a normalized extension, or "" when unsupported.
func MapExtToFormat(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "txt":
		return TEXT
	default:
		return ""
	}
}
