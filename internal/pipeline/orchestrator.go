// Package pipeline drives a file through classification, text
// extraction, and AI structuring, reporting progress along the way.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jjones1stptllc/titlegrab-desktop/constants"
	"github.com/jjones1stptllc/titlegrab-desktop/internal/extract"
	"github.com/jjones1stptllc/titlegrab-desktop/internal/jobs"
	"github.com/jjones1stptllc/titlegrab-desktop/internal/llm"
	"github.com/jjones1stptllc/titlegrab-desktop/internal/progress"
)

// Request is one submit-for-extraction call.
type Request struct {
	JobID     string // optional; callers pre-subscribe to progress with it
	Path      string
	Filename  string
	MediaType string
	Tier      llm.Tier       // zero value: fast with confidence escalation
	Metadata  map[string]any // opaque passthrough, not interpreted
}

// Orchestrator owns the extraction state machine. All collaborators
// are interfaces so tests can run the full pipeline with fakes.
type Orchestrator struct {
	registry  *jobs.Registry
	broadcast *progress.Broadcaster
	text      extract.TextExtractor
	ai        llm.DocumentExtractor
	logger    *slog.Logger
}

func NewOrchestrator(
	registry *jobs.Registry,
	broadcast *progress.Broadcaster,
	text extract.TextExtractor,
	ai llm.DocumentExtractor,
	logger *slog.Logger,
) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		registry:  registry,
		broadcast: broadcast,
		text:      text,
		ai:        ai,
		logger:    logger,
	}
}

// Process runs the whole pipeline for one file and returns the
// structured result. The call blocks until completion or failure;
// progress is observed separately through the broadcaster. Any stage
// failure marks the job failed, emits a single error event at 0%, and
// returns the error.
func (o *Orchestrator) Process(ctx context.Context, req Request) (*llm.ExtractedDocument, error) {
	jobID := req.JobID
	if jobID == "" {
		jobID = uuid.New().String()
	}
	sink := o.broadcast.Sink(jobID)

	if _, err := o.registry.Create(jobID, req.Filename); err != nil {
		return nil, err
	}

	o.logger.Info("pipeline.start", "job_id", jobID, "filename", req.Filename, "media_type", req.MediaType)
	sink(constants.StageUpload, 10, "File received, starting processing...",
		map[string]any{"filename": req.Filename})
	sink(constants.StageProcessing, 15, "Analyzing document type...", nil)

	text, err := o.text.Extract(ctx, req.Path, req.MediaType, sink)
	if err != nil {
		return nil, o.fail(jobID, sink, err)
	}
	o.logger.Info("pipeline.extract.ok", "job_id", jobID, "chars", len(text))

	sink(constants.StageAI, 80, "Analyzing document with AI...", map[string]any{"chars": len(text)})
	doc, err := o.ai.ExtractDocument(ctx, llm.ExtractRequest{Text: text, Tier: req.Tier, JobID: jobID})
	if err != nil {
		return nil, o.fail(jobID, sink, err)
	}
	sink(constants.StageAI, 95, "Parsing results...", nil)

	if err := o.registry.SetResult(jobID, doc); err != nil {
		return nil, o.fail(jobID, sink, err)
	}

	sink(constants.StageComplete, 100, "Processing complete!", map[string]any{
		"deeds":        len(doc.Deeds),
		"deedsOfTrust": len(doc.DeedsOfTrust),
		"judgments":    len(doc.Judgments),
		"liens":        len(doc.Liens),
	})
	o.logger.Info("pipeline.complete",
		"job_id", jobID, "records", doc.RecordCount(), "confidence", doc.Confidence)
	return doc, nil
}

// fail transitions the job to its terminal error state. The stored
// message is what callers retrieve through the job query interface.
func (o *Orchestrator) fail(jobID string, sink progress.Sink, cause error) error {
	o.logger.Error("pipeline.failed", "job_id", jobID, "error", cause)
	if err := o.registry.SetError(jobID, cause.Error()); err != nil {
		o.logger.Error("pipeline.record_failure_failed", "job_id", jobID, "error", err)
	}
	sink(constants.StageError, 0, "Error: "+cause.Error(), nil)
	return cause
}
