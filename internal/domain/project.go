package domain

import "time"

// Project groups videos under an organization.
type Project struct {
	ID          string    `json:"id"`
	OrgID       string    `json:"orgId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Template is a reusable generation preset owned by an organization.
type Template struct {
	ID          string  `json:"id"`
	OrgID       string  `json:"orgId"`
	Name        string  `json:"name"`
	Prompt      string  `json:"prompt"`
	StylePreset string  `json:"stylePreset,omitempty"`
	DurationSec float64 `json:"durationSec"`
	AspectRatio string  `json:"aspectRatio"`
}
