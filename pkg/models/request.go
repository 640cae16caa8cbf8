package models

// ScrapeRequest represents one scrape run: which keywords to search for
// and how many result pages to walk per keyword.
type ScrapeRequest struct {
	Keywords []string `json:"keywords" validate:"required,min=1,max=3,dive,required,max=40"`
	Pages    int      `json:"pages" validate:"required,min=1,max=10"`
}

// ProposalRequest carries the full listing payload for which a proposal
// should be returned from cache or generated.
type ProposalRequest struct {
	Title       string `json:"title" validate:"required"`
	Link        string `json:"link" validate:"required"`
	CaptureDate string `json:"date" validate:"required"`

	ClientSpent     string `json:"clientSpent,omitempty"`
	EstimatedBudget string `json:"estimatedBudget,omitempty"`
	Description     string `json:"jobDescription,omitempty"`
}

// Listing converts the request payload into a listing value for key
// derivation and as the generator input.
func (r *ProposalRequest) Listing() Listing {
	return Listing{
		Title:           r.Title,
		Link:            r.Link,
		CaptureDate:     r.CaptureDate,
		ClientSpent:     r.ClientSpent,
		EstimatedBudget: r.EstimatedBudget,
		Description:     r.Description,
	}
}
