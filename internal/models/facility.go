package models

import "time"

// Facility models a campus facility rated by students.
type Facility struct {
	ID          int64        `json:"id"`
	Code        string       `json:"code"`
	Name        string       `json:"name"`
	Category    string       `json:"category"`
	Capacity    int          `json:"capacity"`
	Location    string       `json:"location"`
	Description string       `json:"description"`
	Amenities   []string     `json:"amenities"`
	Icon        string       `json:"icon,omitempty"`
	PhotoURL    string       `json:"photo_url,omitempty"`
	Status      EntityStatus `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
