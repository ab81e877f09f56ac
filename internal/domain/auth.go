package domain

import "time"

// Token represents issued authentication token metadata.
type Token struct {
	Value     string
	SubjectID string
	Kind      UserKind
	IssuedAt  time.Time
	ExpiresAt time.Time
}
