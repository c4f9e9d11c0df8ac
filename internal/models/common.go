package models

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// MutationResult is the outcome shape returned by account mutation entry
// points. Status carries the HTTP status for failures and is not serialized.
type MutationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Status  int    `json:"-"`
}
