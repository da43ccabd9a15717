package models

import "time"

// Lecturer models a teaching staff member rated by students.
type Lecturer struct {
	ID        int64        `json:"id"`
	NIP       string       `json:"nip"`
	FullName  string       `json:"full_name"`
	Courses   []string     `json:"courses"`
	Email     string       `json:"email"`
	Bio       string       `json:"bio"`
	PhotoURL  string       `json:"photo_url,omitempty"`
	Status    EntityStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Course is an entry of the static course catalog lecturers teach.
type Course struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// CatalogStats summarises activation counts for an entity catalog.
type CatalogStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}
