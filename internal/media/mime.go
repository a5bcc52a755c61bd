package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrMediaUnsupported  = errors.New("media unsupported")
	ErrMediaAccessDenied = errors.New("media access denied")
	ErrInvalidDataURL    = errors.New("invalid data url")
)

var audioTypes = map[string]bool{
	"audio/webm":  true,
	"audio/ogg":   true,
	"audio/mp4":   true,
	"audio/mpeg":  true,
	"audio/wav":   true,
	"audio/x-wav": true,
	"audio/aac":   true,
}

// DetectImage sniffs data and returns its MIME type if it is an image.
func DetectImage(data []byte) (string, error) {
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("%w: %s is not an image", ErrMediaUnsupported, mt.String())
	}
	return mt.String(), nil
}

// ValidateAudioMIME returns the base media type for a recording. An empty
// declared type falls back to sniffing data. Codec parameters are dropped.
func ValidateAudioMIME(declared string, data []byte) (string, error) {
	if declared == "" {
		declared = mimetype.Detect(data).String()
	}

	base, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrMediaUnsupported, declared, err)
	}
	// webm audio sniffs as video/webm.
	if base == "video/webm" {
		base = "audio/webm"
	}
	if !audioTypes[base] {
		return "", fmt.Errorf("%w: audio type %s", ErrMediaUnsupported, base)
	}
	return base, nil
}

// DataURL encodes data as a base64 data URL.
func DataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ParseDataURL decodes a base64 data URL produced by DataURL.
func ParseDataURL(s string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, ErrInvalidDataURL
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrInvalidDataURL
	}
	mimeType, ok := strings.CutSuffix(header, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("%w: only base64 payloads are supported", ErrInvalidDataURL)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	return mimeType, data, nil
}
