package models

// Listing represents one scraped job posting from the marketplace.
// Field names mirror the columns of the CSV export surface.
type Listing struct {
	Title                string `json:"title"`
	ClientSpent          string `json:"clientSpent"`
	EstimatedBudget      string `json:"estimatedBudget"`
	PaymentVerified      string `json:"paymentVerified"`
	TechStack            string `json:"techStack"`
	Link                 string `json:"link"`
	Description          string `json:"jobDescription"`
	Keyword              string `json:"keyword"`
	MatchesInDescription string `json:"matchesInDescription"`
	CaptureDate          string `json:"date"`
	Proposal             string `json:"proposal"`

	// UserID is the opaque caller identifier supplied by the auth
	// collaborator; it scopes persisted records and never appears in
	// the CSV export.
	UserID string `json:"user_id,omitempty"`
}

// Identity returns the composite identity of a listing. Two records with
// the same title, link and capture date are the same posting even when
// the rest of their content differs.
func (l *Listing) Identity() string {
	return l.Title + "|" + l.Link + "|" + l.CaptureDate
}

// HasProposal reports whether a proposal has already been generated and
// attached to this listing.
func (l *Listing) HasProposal() bool {
	return l.Proposal != ""
}
