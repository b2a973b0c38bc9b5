package domain

// CandidateQuery is the raw pipeline input: a trimmed display name plus the
// names the caller already holds, used for duplicate suppression. Ephemeral,
// one per request.
type CandidateQuery struct {
	Name       string
	KnownNames []string
}

// EvidenceRecord is the Evidence Fetcher's output. When Exists is false only
// Reason carries information; every other field stays at its zero value.
type EvidenceRecord struct {
	Exists        bool     `json:"exists"`
	ResolvedTitle string   `json:"resolvedTitle,omitempty"`
	Summary       string   `json:"summary"`
	Categories    []string `json:"categories"`
	ThumbnailURL  string   `json:"thumbnailUrl,omitempty"`
	Reason        string   `json:"reason,omitempty"`
}

// Classification gate identifiers, reported on rejection.
const (
	GateExclusion  = "not_person"
	GateInclusion  = "not_person_or_character"
	GateNotability = "not_notable"
	GateNotFound   = "not_found"
)

// ClassificationResult is a pure derivation of an EvidenceRecord: same input,
// same output, always.
type ClassificationResult struct {
	Exists              bool
	IsPersonOrCharacter bool
	IsNotable           bool
	Gate                string
	Reason              string
}

// Accepted reports whether every gate passed.
func (r ClassificationResult) Accepted() bool {
	return r.Exists && r.IsPersonOrCharacter && r.IsNotable
}
