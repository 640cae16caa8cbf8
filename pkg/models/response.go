package models

import "time"

// ScrapeRunResponse summarizes a completed scrape run. Page and record
// level failures are reflected only in lower counts, never as errors.
// ProcessingTime carries a human-readable duration ("12.4s"), not raw
// nanoseconds.
type ScrapeRunResponse struct {
	Success        bool   `json:"success"`
	Scraped        int    `json:"scraped"`
	Inserted       int    `json:"inserted"`
	Duplicates     int    `json:"duplicates"`
	ProcessingTime string `json:"processing_time"`
	RequestID      string `json:"request_id"`
}

// JobListResponse returns the caller's stored listings.
type JobListResponse struct {
	Jobs      []Listing `json:"jobs"`
	Count     int       `json:"count"`
	RequestID string    `json:"request_id"`
}

// ProposalResponse returns generated (or cached) proposal text.
type ProposalResponse struct {
	Proposal  string `json:"proposal"`
	Cached    bool   `json:"cached"`
	RequestID string `json:"request_id"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}
