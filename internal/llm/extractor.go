package llm

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Config holds structuring-stage behavior.
type Config struct {
	FastModel     string
	AccurateModel string
	MaxChars      int // input truncation budget, default 180000
}

// Extractor converts raw document text into an ExtractedDocument via a
// completion model, escalating to the accurate tier once when the fast
// tier self-reports low confidence.
type Extractor struct {
	cfg       Config
	completer Completer
	logger    *slog.Logger
}

func NewExtractor(cfg Config, completer Completer, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = 180000
	}
	if cfg.FastModel == "" {
		cfg.FastModel = "gpt-4o-mini"
	}
	if cfg.AccurateModel == "" {
		cfg.AccurateModel = "gpt-4o"
	}
	return &Extractor{cfg: cfg, completer: completer, logger: logger}
}

// ExtractDocument implements DocumentExtractor. The attempt plan is an
// explicit slice so escalation is capped at exactly one extra call.
func (e *Extractor) ExtractDocument(ctx context.Context, req ExtractRequest) (*ExtractedDocument, error) {
	rid := uuid.New().String()
	text := req.Text
	if len(text) > e.cfg.MaxChars {
		// back the cut off to a rune boundary so the tail is never a
		// split multi-byte character
		cut := e.cfg.MaxChars
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		e.logger.Info("llm.extract.truncated",
			"req_id", rid, "job_id", req.JobID,
			"original_chars", len(text), "max_chars", e.cfg.MaxChars)
		text = text[:cut]
	}

	attempts := []Tier{TierFast, TierAccurate}
	if req.Tier == TierAccurate {
		attempts = []Tier{TierAccurate}
	}

	var doc *ExtractedDocument
	for i, tier := range attempts {
		var err error
		doc, err = e.attempt(ctx, rid, req.JobID, tier, text)
		if err != nil {
			return nil, err
		}
		if doc.Confidence != ConfidenceLow {
			break
		}
		if i < len(attempts)-1 {
			e.logger.Warn("llm.extract.escalating",
				"req_id", rid, "job_id", req.JobID,
				"from_model", e.model(tier), "to_model", e.model(attempts[i+1]))
		}
	}
	return doc, nil
}

func (e *Extractor) attempt(ctx context.Context, rid, jobID string, tier Tier, text string) (*ExtractedDocument, error) {
	model := e.model(tier)
	start := time.Now()
	e.logger.Info("llm.extract.start",
		"req_id", rid, "job_id", jobID, "model", model, "text_chars", len(text))

	reply, err := e.completer.Complete(ctx, model, systemPrompt, userPrompt(text))
	if err != nil {
		e.logger.Error("llm.extract.request_failed",
			"req_id", rid, "job_id", jobID, "model", model,
			"elapsed_ms", time.Since(start).Milliseconds(), "error", err)
		return nil, err
	}

	doc, err := ParseModelJSON(reply)
	if err != nil {
		e.logger.Error("llm.extract.parse_failed",
			"req_id", rid, "job_id", jobID, "model", model,
			"reply_chars", len(reply), "error", err)
		return nil, err
	}

	// Defaults ran in ParseModelJSON, so a schema miss here means the
	// model produced a structurally wrong record, not a cosmetic gap.
	normalized, merr := json.Marshal(doc)
	if merr == nil {
		if verr := ValidateJSONAgainstSchema(BuildTitleDocumentJSONSchema(), normalized); verr != nil {
			e.logger.Warn("llm.extract.schema_mismatch",
				"req_id", rid, "job_id", jobID, "model", model, "error", verr)
		}
	}

	e.logger.Info("llm.extract.ok",
		"req_id", rid, "job_id", jobID, "model", model,
		"deeds", len(doc.Deeds), "deeds_of_trust", len(doc.DeedsOfTrust),
		"judgments", len(doc.Judgments), "liens", len(doc.Liens),
		"confidence", doc.Confidence,
		"elapsed_ms", time.Since(start).Milliseconds())
	return doc, nil
}

func (e *Extractor) model(tier Tier) string {
	if tier == TierAccurate {
		return e.cfg.AccurateModel
	}
	return e.cfg.FastModel
}
