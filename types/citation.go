package types

// CitationType classifies a legal citation.
type CitationType string

const (
	CitationCase       CitationType = "case"
	CitationStatute    CitationType = "statute"
	CitationRegulation CitationType = "regulation"
)

// Citation is an extracted legal reference with a verification flag.
// Citations are produced transiently during research-response formatting
// and embedded in message metadata; they are not a persisted entity.
type Citation struct {
	Citation string       `json:"citation"`
	Type     CitationType `json:"type"`
	Verified bool         `json:"verified"`
}
