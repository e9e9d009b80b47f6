package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/jjones1stptllc/titlegrab-desktop/internal/common"
)

// reJSONSpan grabs the first-to-last brace span from model output,
// tolerating leading/trailing prose around the JSON body.
var reJSONSpan = regexp.MustCompile(`(?s)\{.*\}`)

// ParseModelJSON extracts the balanced-looking JSON span from free-form
// model text, decodes it, and applies field defaulting. It is the single
// place the brittle boundary heuristic lives; callers get either a fully
// defaulted document or ErrAIParseFailure.
func ParseModelJSON(text string) (*ExtractedDocument, error) {
	span := reJSONSpan.FindString(text)
	if span == "" {
		return nil, common.NewAppError("AI_PARSE", "no JSON object in model output", common.ErrAIParseFailure)
	}

	var doc ExtractedDocument
	if err := json.Unmarshal([]byte(span), &doc); err != nil {
		return nil, common.NewAppError("AI_PARSE", "model output is not valid JSON: "+err.Error(), common.ErrAIParseFailure)
	}

	ApplyDefaults(&doc)
	return &doc, nil
}

// ApplyDefaults enforces the fixed-schema invariant: collections are
// never nil, statuses default to "Open", names are deduplicated, and
// confidence falls back to "low" when the model omitted or mangled it.
func ApplyDefaults(doc *ExtractedDocument) {
	if doc.Deeds == nil {
		doc.Deeds = []Deed{}
	}
	if doc.DeedsOfTrust == nil {
		doc.DeedsOfTrust = []DeedOfTrust{}
	}
	if doc.Judgments == nil {
		doc.Judgments = []Judgment{}
	}
	if doc.Liens == nil {
		doc.Liens = []Lien{}
	}

	for i := range doc.DeedsOfTrust {
		if strings.TrimSpace(doc.DeedsOfTrust[i].Status) == "" {
			doc.DeedsOfTrust[i].Status = "Open"
		}
	}
	for i := range doc.Liens {
		if strings.TrimSpace(doc.Liens[i].Status) == "" {
			doc.Liens[i].Status = "Open"
		}
	}

	doc.NamesSearched = dedupeNames(doc.NamesSearched)

	switch strings.ToLower(strings.TrimSpace(doc.Confidence)) {
	case ConfidenceHigh:
		doc.Confidence = ConfidenceHigh
	case ConfidenceMedium:
		doc.Confidence = ConfidenceMedium
	default:
		doc.Confidence = ConfidenceLow
	}
}

func dedupeNames(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		key := strings.ToLower(n)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, n)
	}
	return out
}
