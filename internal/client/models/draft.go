package models

// SignupDraft holds a partially filled signup form. It is stored without
// encryption, so it never carries a password.
type SignupDraft struct {
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
}

func (d SignupDraft) IsEmpty() bool {
	return d == SignupDraft{}
}
