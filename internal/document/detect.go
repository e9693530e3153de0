package document

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	MediaTypePDF  = "application/pdf"
	MediaTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MediaTypePNG  = "image/png"
	MediaTypeJPEG = "image/jpeg"
	MediaTypeJPG  = "image/jpg"
	MediaTypeWEBP = "image/webp"
	MediaTypeGIF  = "image/gif"
)

// SupportedMediaTypes lists every declared media type the parser accepts
var SupportedMediaTypes = []string{
	MediaTypePDF,
	MediaTypeDOCX,
	MediaTypePNG,
	MediaTypeJPEG,
	MediaTypeJPG,
	MediaTypeWEBP,
	MediaTypeGIF,
}

const supportedTypesLabel = "PDF, DOCX, PNG, JPEG, WEBP, GIF"

type route int

const (
	routeUnsupported route = iota
	routePDF
	routeDOCX
	routeImage
)

// NormalizeMediaType lowercases a media type and drops any parameters
func NormalizeMediaType(mediaType string) string {
	base, _, _ := strings.Cut(mediaType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}

func routeFor(mediaType string) route {
	switch NormalizeMediaType(mediaType) {
	case MediaTypePDF:
		return routePDF
	case MediaTypeDOCX:
		return routeDOCX
	case MediaTypePNG, MediaTypeJPEG, MediaTypeJPG, MediaTypeWEBP, MediaTypeGIF:
		return routeImage
	default:
		return routeUnsupported
	}
}

// IsSupported reports whether the parser routes mediaType to an extractor
func IsSupported(mediaType string) bool {
	return routeFor(mediaType) != routeUnsupported
}

// SniffMediaType guesses a media type from content. It is used only when the
// caller declared none; the parser itself always trusts the declared type.
func SniffMediaType(data []byte) string {
	return NormalizeMediaType(mimetype.Detect(data).String())
}
