package constants

// Stage names the pipeline phase a progress event belongs to.
type Stage string

const (
	StageConnected  Stage = "connected"
	StageUpload     Stage = "upload"
	StageProcessing Stage = "processing"
	StagePDF        Stage = "pdf"
	StageOCR        Stage = "ocr"
	StageAI         Stage = "ai"
	StageComplete   Stage = "complete"
	StageError      Stage = "error"
)
