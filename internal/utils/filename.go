package utils

import (
	"regexp"
	"strings"
)

var (
	// Characters invalid in filenames on most filesystems
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*,]`)
	whitespaceChars      = regexp.MustCompile(`[\r\n\t]`)
	multipleSpaces       = regexp.MustCompile(`\s+`)
)

// SanitizeFilename makes a display string safe to offer as a download name.
func SanitizeFilename(filename string) string {
	filename = invalidFilenameChars.ReplaceAllString(filename, "")
	filename = whitespaceChars.ReplaceAllString(filename, " ")
	filename = multipleSpaces.ReplaceAllString(filename, " ")
	filename = strings.TrimSpace(filename)

	// Limit length (most filesystems support 255, but leave room for extension)
	if len(filename) > 200 {
		filename = strings.TrimSpace(filename[:200])
	}

	if filename == "" {
		filename = "recording"
	}

	return filename
}

var audioExtensions = map[string]string{
	"audio/webm":  ".webm",
	"audio/ogg":   ".ogg",
	"audio/mp4":   ".m4a",
	"audio/mpeg":  ".mp3",
	"audio/wav":   ".wav",
	"audio/x-wav": ".wav",
	"audio/aac":   ".aac",
}

// AudioFilename builds "<sanitized title><ext>" for a recording's MIME type.
func AudioFilename(title, mimeType string) string {
	ext, ok := audioExtensions[mimeType]
	if !ok {
		ext = ".bin"
	}
	return SanitizeFilename(title) + ext
}
