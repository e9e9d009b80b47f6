package extract

import (
	"fmt"
	"path/filepath"

	"github.com/jjones1stptllc/titlegrab-desktop/constants"
	"github.com/jjones1stptllc/titlegrab-desktop/internal/common"
)

// DetectFormat picks an extraction strategy for a file. The extension
// wins; the declared media type is the fallback when the extension is
// absent or unrecognized. No side effects on failure.
func DetectFormat(path, mediaType string) (constants.Format, error) {
	if f := constants.MapExtToFormat(filepath.Ext(path)); f != "" {
		return f, nil
	}
	if f := constants.MapMediaTypeToFormat(mediaType); f != "" {
		return f, nil
	}
	return "", common.NewAppError("FORMAT",
		fmt.Sprintf("unsupported file type: ext=%q media_type=%q", filepath.Ext(path), mediaType),
		common.ErrUnsupportedFormat)
}
