package models

// Page is a slice of a paginated listing. Total is nil when the backend did not
// report one.
type Page[T any] struct {
	Items []T    `json:"items"`
	Total *int64 `json:"total,omitempty"`
}

// ListQuery holds the common list/search parameters sent to the backend.
type ListQuery struct {
	Page     int
	PageSize int
	Query    string
	Filter   string
}
