package model

import "time"

const (
	AdminStatusDisabled = 0
	AdminStatusActive   = 1
)

// AdminUser is a back-office account.
type AdminUser struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Password  string     `json:"-"`
	Status    int        `json:"status"`
	LoginAt   *time.Time `json:"login_at,omitempty"`
	LoginNum  int        `json:"login_num"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CreateAdminRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
