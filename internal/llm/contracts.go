package llm

import "context"

// Tier selects the completion model accuracy/cost trade-off.
type Tier string

const (
	TierFast     Tier = "fast"
	TierAccurate Tier = "accurate"
)

// Confidence values the model self-reports on a document.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Deed is one recorded property transfer.
type Deed struct {
	Grantor       string `json:"grantor"`
	Grantee       string `json:"grantee"`
	Consideration string `json:"consideration"`
	NoteDate      string `json:"noteDate"`
	FileNumber    string `json:"fileNumber"`
	RecordingDate string `json:"recordingDate"`
	BookPage      string `json:"bookPage"`
}

// DeedOfTrust is one recorded mortgage/security instrument.
type DeedOfTrust struct {
	Grantor       string `json:"grantor"`
	Amount        string `json:"amount"`
	Lender        string `json:"lender"`
	Status        string `json:"status"`
	Trustee       string `json:"trustee"`
	MaturityDate  string `json:"maturityDate"`
	NoteDate      string `json:"noteDate"`
	FileNumber    string `json:"fileNumber"`
	RecordingDate string `json:"recordingDate"`
	BookPages     string `json:"bookPages"`
}

// Judgment is one recorded court judgment.
type Judgment struct {
	Plaintiff     string `json:"plaintiff"`
	Defendant     string `json:"defendant"`
	Amount        string `json:"amount"`
	JudgmentDate  string `json:"judgmentDate"`
	FileNumber    string `json:"fileNumber"`
	RecordingDate string `json:"recordingDate"`
	BookPage      string `json:"bookPage"`
}

// Lien is one recorded lien.
type Lien struct {
	Type          string `json:"type"`
	Creditor      string `json:"creditor"`
	Amount        string `json:"amount"`
	Status        string `json:"status"`
	FileNumber    string `json:"fileNumber"`
	RecordingDate string `json:"recordingDate"`
}

// PropertyInfo identifies the property the records concern.
type PropertyInfo struct {
	Address          string `json:"address"`
	ParcelNumber     string `json:"parcelNumber"`
	LegalDescription string `json:"legalDescription"`
}

// ExtractedDocument is the structured title-search result. Every field
// is always present; missing values are empty strings, never null.
type ExtractedDocument struct {
	Deeds         []Deed        `json:"deeds"`
	DeedsOfTrust  []DeedOfTrust `json:"deedsOfTrust"`
	Judgments     []Judgment    `json:"judgments"`
	Liens         []Lien        `json:"liens"`
	NamesSearched []string      `json:"namesSearched"`
	PropertyInfo  PropertyInfo  `json:"propertyInfo"`
	Confidence    string        `json:"confidence"`
}

// RecordCount sums records across all four categories.
func (d *ExtractedDocument) RecordCount() int {
	return len(d.Deeds) + len(d.DeedsOfTrust) + len(d.Judgments) + len(d.Liens)
}

// ExtractRequest is the input to the structuring stage.
type ExtractRequest struct {
	Text  string
	Tier  Tier   // zero value means TierFast
	JobID string // progress correlation only
}

// DocumentExtractor is the interface the pipeline depends on.
type DocumentExtractor interface {
	ExtractDocument(ctx context.Context, req ExtractRequest) (*ExtractedDocument, error)
}

// Completer sends one prompt to a completion model and returns the raw
// text of its reply.
type Completer interface {
	Complete(ctx context.Context, model, system, user string) (string, error)
}
