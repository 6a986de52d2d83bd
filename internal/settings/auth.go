package settings

import (
	"crypto/subtle"
	"encoding/base64"
	"strings"
)

// The stored password is a salted base64 token carried over from
// earlier exports, so existing settings documents keep working. It
// gates the screens of a single-operator desk application and is not
// a security boundary.

const (
	// DefaultPassword is the factory password.
	DefaultPassword = "0000"

	passwordPrefix = "church_"
	passwordSuffix = "_finance_2024"
)

// EncodePassword produces the stored token for a plain password.
func EncodePassword(plain string) string {
	return base64.StdEncoding.EncodeToString([]byte(passwordPrefix + plain + passwordSuffix))
}

// VerifyPassword reports whether the plain password matches the
// stored token.
func (s *Store) VerifyPassword(plain string) bool {
	s.mu.Lock()
	stored := s.doc.Password
	s.mu.Unlock()
	candidate := EncodePassword(plain)
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}

// SetPassword replaces the password after checking the current one.
func (s *Store) SetPassword(current, next string) error {
	if !s.VerifyPassword(current) {
		return ErrWrongPassword
	}
	if strings.TrimSpace(next) == "" {
		return ErrEmptyPassword
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.doc.Password
	s.doc.Password = EncodePassword(next)
	if err := s.persistLocked(); err != nil {
		s.doc.Password = prev
		return err
	}
	return nil
}
