package model

import "github.com/google/uuid"

// Claim represents an atomic factual assertion extracted from submitted content.
// Claims are immutable once extracted and belong to a single analysis request.
type Claim struct {
	ID         string  `json:"id"`
	Text       string  `json:"text"`            // The claim text itself
	Who        string  `json:"who,omitempty"`   // Actor, if the claim names one
	What       string  `json:"what"`            // The asserted fact
	Where      string  `json:"where,omitempty"` // Location, if stated
	When       string  `json:"when,omitempty"`  // Time reference, if stated
	Confidence float64 `json:"confidence"`      // Extraction confidence (0-1)
}

// NewClaimID generates a unique claim identifier.
func NewClaimID() string {
	return uuid.NewString()
}
