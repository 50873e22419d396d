package api

import (
	"fmt"
)

// Fallback messages used when the server returns no error text
const (
	msgFetchItems     = "Failed to fetch donation items"
	msgFetchStatuses  = "Failed to fetch statuses"
	msgFetchLocations = "Failed to fetch locations"
	msgFetchThemes    = "Failed to fetch themes"
	msgCreateItem     = "Failed to create donation item"
	msgResetData      = "Failed to reset donation data"
)

// FetchError is returned when a read operation fails
type FetchError struct {
	Resource   string // "items", "statuses", "locations" or "themes"
	StatusCode int    // 0 when the request never got a response
	Message    string
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	}
	return e.Message
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// CreateError is returned when a write operation (create or reset) fails
type CreateError struct {
	Operation  string // "create" or "reset"
	StatusCode int
	Message    string // Server-provided error text or a fallback
	Err        error
}

func (e *CreateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CreateError) Unwrap() error {
	return e.Err
}
