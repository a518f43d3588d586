package model

// ContactCreate holds the fields of a new contact as submitted by the client.
type ContactCreate struct {
	FirstName      string  `json:"first_name"      validate:"required,max=50"`
	LastName       string  `json:"last_name"       validate:"required,max=50"`
	Email          string  `json:"email"           validate:"required,email,max=100"`
	PhoneNumber    string  `json:"phone_number"    validate:"required,max=20"`
	Birthday       *Date   `json:"birthday"`
	AdditionalInfo *string `json:"additional_info" validate:"omitempty,max=255"`
}

// Validate checks the field constraints of a new contact.
func (in ContactCreate) Validate() error {
	return validateStruct(in)
}

// Contact returns the contact described by the input, owned by owner. The id is assigned when
// the contact is stored.
func (in ContactCreate) Contact(owner int64) Contact {
	return Contact{
		OwnerID:        owner,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          in.Email,
		PhoneNumber:    in.PhoneNumber,
		Birthday:       in.Birthday,
		AdditionalInfo: in.AdditionalInfo,
	}
}

// ContactPatch is a partial update of a contact. Only fields that are set are changed. Setting
// Birthday or AdditionalInfo to null clears them; the other fields cannot be cleared.
type ContactPatch struct {
	FirstName      Field[string] `json:"first_name,omitzero"`
	LastName       Field[string] `json:"last_name,omitzero"`
	Email          Field[string] `json:"email,omitzero"`
	PhoneNumber    Field[string] `json:"phone_number,omitzero"`
	Birthday       Field[Date]   `json:"birthday,omitzero"`
	AdditionalInfo Field[string] `json:"additional_info,omitzero"`
}

// IsEmpty reports whether the patch does not change anything.
func (p ContactPatch) IsEmpty() bool {
	return !p.FirstName.IsSet() && !p.LastName.IsSet() && !p.Email.IsSet() &&
		!p.PhoneNumber.IsSet() && !p.Birthday.IsSet() && !p.AdditionalInfo.IsSet()
}

// Validate checks the constraints of all fields that are set. The constraints are the same as
// for a new contact.
func (p ContactPatch) Validate() error {
	var problems []string
	problems = appendProblem(problems, checkField("first_name", p.FirstName, "required,max=50", false))
	problems = appendProblem(problems, checkField("last_name", p.LastName, "required,max=50", false))
	problems = appendProblem(problems, checkField("email", p.Email, "required,email,max=100", false))
	problems = appendProblem(problems, checkField("phone_number", p.PhoneNumber, "required,max=20", false))
	problems = appendProblem(problems, checkField("birthday", p.Birthday, "", true))
	problems = appendProblem(problems, checkField("additional_info", p.AdditionalInfo, "max=255", true))
	return validationError(problems)
}

// Apply copies all set fields of the patch onto c.
func (p ContactPatch) Apply(c *Contact) {
	if v, ok := p.FirstName.Get(); ok {
		c.FirstName = v
	}
	if v, ok := p.LastName.Get(); ok {
		c.LastName = v
	}
	if v, ok := p.Email.Get(); ok {
		c.Email = v
	}
	if v, ok := p.PhoneNumber.Get(); ok {
		c.PhoneNumber = v
	}
	if p.Birthday.IsSet() {
		c.Birthday = nil
		if v, ok := p.Birthday.Get(); ok {
			c.Birthday = &v
		}
	}
	if p.AdditionalInfo.IsSet() {
		c.AdditionalInfo = nil
		if v, ok := p.AdditionalInfo.Get(); ok {
			c.AdditionalInfo = &v
		}
	}
}
