package extract

import (
	"os"
	"regexp"
	"strings"

	"github.com/jjones1stptllc/titlegrab-desktop/internal/common"
)

var (
	reScript = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	reStyle  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	reTag    = regexp.MustCompile(`<[^>]+>`)
	reSpace  = regexp.MustCompile(`\s+`)
)

// extractHTML produces a best-effort plain-text approximation of an
// HTML file. Not a DOM renderer; downstream AI extraction tolerates the
// noise.
func (e *Extractor) extractHTML(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", common.NewAppError("READ", "read "+path, common.ErrReadFailure)
	}

	text := string(b)
	text = reScript.ReplaceAllString(text, "")
	text = reStyle.ReplaceAllString(text, "")
	text = reTag.ReplaceAllString(text, " ")
	text = strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
	).Replace(text)
	text = reSpace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text), nil
}
