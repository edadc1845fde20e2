package entity

import "time"

// User mirrors the user service's record of a practitioner.
type User struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Specialty     string `json:"specialty"`
	InstitutionID string `json:"institutionId"`
	AvatarURL     string `json:"avatarUrl"`
}

// Institution mirrors the institute service's record.
type Institution struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Location string `json:"location"`
}

// Job is one listing from the job service.
type Job struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	InstitutionID string    `json:"institutionId"`
	Location      string    `json:"location"`
	PostedAt      time.Time `json:"postedAt"`
}

// Notification is one entry from the content service's notification feed.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}
