package models

// EntityStatus is the activation state shared by rated catalog entries.
type EntityStatus string

const (
	StatusActive   EntityStatus = "active"
	StatusInactive EntityStatus = "inactive"
)

// Toggle flips between active and inactive.
func (s EntityStatus) Toggle() EntityStatus {
	if s == StatusActive {
		return StatusInactive
	}
	return StatusActive
}

// Pagination describes list slicing metadata.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
