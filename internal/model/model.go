package model

// Contact is the data structure for a person that we know. Every contact belongs to exactly one
// user, its owner, and is only ever visible to that user.
type Contact struct {
	ID             int64   `json:"id"              db:"id"`
	OwnerID        int64   `json:"-"               db:"owner_id"`
	FirstName      string  `json:"first_name"      db:"first_name"`
	LastName       string  `json:"last_name"       db:"last_name"`
	Email          string  `json:"email"           db:"email"`
	PhoneNumber    string  `json:"phone_number"    db:"phone_number"`
	Birthday       *Date   `json:"birthday"        db:"birthday"`
	AdditionalInfo *string `json:"additional_info" db:"additional_info"`
}

// User is the authenticated principal on whose behalf a request is executed. Users are managed
// by the authentication subsystem; this service only reads their identity.
type User struct {
	ID    int64  `json:"id"    db:"id"`
	Email string `json:"email" db:"email"`
}

// ContactFilter narrows a contact listing. Empty values do not filter. Non-empty values are
// matched as case-insensitive substrings and combined with AND.
type ContactFilter struct {
	FirstName string
	LastName  string
	Email     string
}

// Ordering names the column a listing is sorted by. The zero value sorts by id, ascending.
type Ordering struct {
	Column     string
	Descending bool
}

// ListParams describes one page of a filtered contact listing.
type ListParams struct {
	Skip   int
	Limit  int
	Filter ContactFilter
	Order  Ordering
}

// ContactPage is one page of contacts together with the number of all matching contacts,
// regardless of pagination.
type ContactPage struct {
	TotalCount int       `json:"total_count"`
	Skip       int       `json:"skip"`
	Limit      int       `json:"limit"`
	Contacts   []Contact `json:"contacts"`
}
