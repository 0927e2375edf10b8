package models

import "time"

// Link maps a short code to its destination URL. Codes are caller-chosen and
// unique across the whole store; OwnerEmail is empty in single-user mode.
type Link struct {
	Code        string    `json:"code"`
	Destination string    `json:"destination"`
	OwnerEmail  string    `json:"user_email,omitempty"`
	Clicks      uint64    `json:"clicks"`
	CreatedAt   time.Time `json:"created_at"`
}
