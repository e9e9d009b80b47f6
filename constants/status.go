package constants

// JobStatus is the lifecycle state of an extraction job.
type JobStatus string

// Stable values (returned over the API as-is).
const (
	JobStatusProcessing JobStatus = "processing"
	JobStatusComplete   JobStatus = "complete"
	JobStatusFailed     JobStatus = "failed"
)

// IsTerminal reports whether a status can no longer change.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusComplete || s == JobStatusFailed
}
