// Package model contains the JSON documents of the contacts REST API for use by Go clients.
package model

// Contact is the data structure for a person that we know, as returned by the API.
// Birthday is formatted as YYYY-MM-DD.
type Contact struct {
	ID             int64   `json:"id"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Email          string  `json:"email"`
	PhoneNumber    string  `json:"phone_number"`
	Birthday       *string `json:"birthday"`
	AdditionalInfo *string `json:"additional_info"`
}

// ContactPage is the response of the listing endpoints.
type ContactPage struct {
	TotalCount int       `json:"total_count"`
	Skip       int       `json:"skip"`
	Limit      int       `json:"limit"`
	Contacts   []Contact `json:"contacts"`
}

// NewContact is the request body for creating a contact.
type NewContact struct {
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Email          string  `json:"email"`
	PhoneNumber    string  `json:"phone_number"`
	Birthday       *string `json:"birthday,omitempty"`
	AdditionalInfo *string `json:"additional_info,omitempty"`
}

// ContactUpdate is the request body for a partial update. Only non-nil fields are sent.
// Clearing a value requires sending JSON null, which this type cannot express.
type ContactUpdate struct {
	FirstName      *string `json:"first_name,omitempty"`
	LastName       *string `json:"last_name,omitempty"`
	Email          *string `json:"email,omitempty"`
	PhoneNumber    *string `json:"phone_number,omitempty"`
	Birthday       *string `json:"birthday,omitempty"`
	AdditionalInfo *string `json:"additional_info,omitempty"`
}

// User is the response of /users/me.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// Error is the body of every error response.
type Error struct {
	Detail string `json:"detail"`
}
