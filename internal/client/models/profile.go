package models

import "fmt"

// Profile is the password-free view of a Credential handed to callers.
type Profile struct {
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
}

// DisplayName is "First Last", falling back to the email.
func (p Profile) DisplayName() string {
	switch {
	case p.FirstName != "" && p.LastName != "":
		return p.FirstName + " " + p.LastName
	case p.FirstName != "":
		return p.FirstName
	default:
		return p.Email
	}
}

type profileWire struct {
	Email       *string `json:"email"`
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	PhoneNumber *string `json:"phoneNumber"`
}

func DecodeProfile(data []byte) (Profile, error) {
	var w profileWire
	if err := decodeStrict(data, &w); err != nil {
		return Profile{}, err
	}
	switch {
	case w.Email == nil:
		return Profile{}, missing("email")
	case w.FirstName == nil:
		return Profile{}, missing("firstName")
	case w.LastName == nil:
		return Profile{}, missing("lastName")
	case w.PhoneNumber == nil:
		return Profile{}, missing("phoneNumber")
	}
	if NormalizeEmail(*w.Email) == "" {
		return Profile{}, fmt.Errorf("%w: empty email", ErrDecode)
	}
	return Profile{
		Email:       *w.Email,
		FirstName:   *w.FirstName,
		LastName:    *w.LastName,
		PhoneNumber: *w.PhoneNumber,
	}, nil
}
