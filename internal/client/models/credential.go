package models

import "fmt"

// Credential is one registered account. Password is kept exactly as
// submitted unless a hashing password storage mode is configured.
type Credential struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
}

// Profile strips the password.
func (c Credential) Profile() Profile {
	return Profile{
		Email:       c.Email,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		PhoneNumber: c.PhoneNumber,
	}
}

type credentialWire struct {
	Email       *string `json:"email"`
	Password    *string `json:"password"`
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	PhoneNumber *string `json:"phoneNumber"`
}

func (w credentialWire) credential() (Credential, error) {
	switch {
	case w.Email == nil:
		return Credential{}, missing("email")
	case w.Password == nil:
		return Credential{}, missing("password")
	case w.FirstName == nil:
		return Credential{}, missing("firstName")
	case w.LastName == nil:
		return Credential{}, missing("lastName")
	case w.PhoneNumber == nil:
		return Credential{}, missing("phoneNumber")
	}
	if NormalizeEmail(*w.Email) == "" {
		return Credential{}, fmt.Errorf("%w: empty email", ErrDecode)
	}
	return Credential{
		Email:       *w.Email,
		Password:    *w.Password,
		FirstName:   *w.FirstName,
		LastName:    *w.LastName,
		PhoneNumber: *w.PhoneNumber,
	}, nil
}

// DecodeCredentialList parses a JSON array of credentials. Any element that
// fails validation rejects the whole list.
func DecodeCredentialList(data []byte) ([]Credential, error) {
	var wire []credentialWire
	if err := decodeStrict(data, &wire); err != nil {
		return nil, err
	}
	if wire == nil {
		return nil, fmt.Errorf("%w: not a list", ErrDecode)
	}

	list := make([]Credential, 0, len(wire))
	for i, w := range wire {
		c, err := w.credential()
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		list = append(list, c)
	}
	return list, nil
}
