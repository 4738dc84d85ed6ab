package domain

import "time"

// Holder is the owner of one or more accounts. Credentials and sessions are
// handled outside the ledger core; the holder record carries identity only.
type Holder struct {
	ID        string
	FullName  string
	Email     string
	Phone     string
	CreatedAt time.Time
}
