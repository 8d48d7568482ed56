// Package models defines the records persisted by the credential store and
// session manager, and the strict decoders that read them back.
package models

import "strings"

// NormalizeEmail is the canonical form used for every email compare and store.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
