package models

import (
	"fmt"
	"time"
)

// Session is the single active login. Timestamp is the creation time in
// milliseconds since the Unix epoch and never changes while the session lives.
type Session struct {
	ID        string `json:"id,omitempty"`
	Email     string `json:"email"`
	Timestamp int64  `json:"timestamp"`
}

// CreatedAt converts Timestamp to a time.Time.
func (s Session) CreatedAt() time.Time {
	return time.UnixMilli(s.Timestamp)
}

type sessionWire struct {
	ID        *string `json:"id"`
	Email     *string `json:"email"`
	Timestamp *int64  `json:"timestamp"`
}

func DecodeSession(data []byte) (Session, error) {
	var w sessionWire
	if err := decodeStrict(data, &w); err != nil {
		return Session{}, err
	}
	switch {
	case w.Email == nil:
		return Session{}, missing("email")
	case w.Timestamp == nil:
		return Session{}, missing("timestamp")
	}
	if NormalizeEmail(*w.Email) == "" {
		return Session{}, fmt.Errorf("%w: empty email", ErrDecode)
	}
	if *w.Timestamp <= 0 {
		return Session{}, fmt.Errorf("%w: non-positive timestamp", ErrDecode)
	}

	s := Session{Email: *w.Email, Timestamp: *w.Timestamp}
	if w.ID != nil {
		s.ID = *w.ID
	}
	return s, nil
}
