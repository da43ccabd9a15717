package models

import "time"

// UserRole distinguishes the student and admin experiences.
type UserRole string

const (
	RoleStudent UserRole = "STUDENT"
	RoleAdmin   UserRole = "ADMIN"
)

// User is an account that can sign in. Students are evaluation respondents.
type User struct {
	ID             int64     `json:"id"`
	NIM            string    `json:"nim"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email"`
	StudyProgram   string    `json:"study_program,omitempty"`
	CohortYear     string    `json:"cohort_year,omitempty"`
	Semester       int       `json:"semester,omitempty"`
	GPA            float64   `json:"gpa,omitempty"`
	AcademicStatus string    `json:"academic_status,omitempty"`
	Role           UserRole  `json:"role"`
	PasswordHash   string    `json:"password_hash,omitempty"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Sanitized returns a copy safe to expose over the API.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}
