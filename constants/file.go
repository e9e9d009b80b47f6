package constants

import "strings"

// Format identifies which extraction strategy handles a file.
type Format string

const (
	PDF   Format = "PDF"
	IMAGE Format = "IMAGE"
	WORD  Format = "WORD"
	HTML  Format = "HTML"
	TEXT  Format = "TEXT"
)

// extToFormat maps normalized file extensions to formats.
var extToFormat = map[string]Format{
	"pdf":  PDF,
	"png":  IMAGE,
	"jpg":  IMAGE,
	"jpeg": IMAGE,
	"gif":  IMAGE,
	"bmp":  IMAGE,
	"tiff": IMAGE,
	"doc":  WORD,
	"docx": WORD,
	"html": HTML,
	"htm":  HTML,
	"txt":  TEXT,
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat returns the format for a file extension, or ""
// when the extension is not recognized.
func MapExtToFormat(ext string) Format {
	return extToFormat[NormalizeExt(ext)]
}

// MapMediaTypeToFormat resolves a declared media type when the file
// extension is absent or unrecognized.
func MapMediaTypeToFormat(mediaType string) Format {
	mt := strings.ToLower(strings.TrimSpace(mediaType))
	switch {
	case mt == "":
		return ""
	case mt == "application/pdf":
		return PDF
	case strings.HasPrefix(mt, "image/"):
		return IMAGE
	case strings.Contains(mt, "word"):
		return WORD
	case strings.HasPrefix(mt, "text/html"):
		return HTML
	case strings.HasPrefix(mt, "text/plain"):
		return TEXT
	default:
		return ""
	}
}
