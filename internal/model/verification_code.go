package model

import "time"

// VerificationCode is a numeric login credential bound to a phone number.
// Several rows may exist per phone; lookups take the newest one.
type VerificationCode struct {
	ID        int64     `json:"id"`
	UserID    *int64    `json:"user_id"`
	Phone     string    `json:"phone"`
	Code      string    `json:"code"`
	Used      bool      `json:"used"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Usable reports whether the code can still be consumed at now.
func (c *VerificationCode) Usable(now time.Time) bool {
	return !c.Used && c.ExpiresAt.After(now)
}

type CodeFilter struct {
	Phone string
	Pagination
}

// CodeUpsertResult is returned by the admin override.
type CodeUpsertResult struct {
	Phone     string    `json:"phone"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
	Created   bool      `json:"-"`
}
