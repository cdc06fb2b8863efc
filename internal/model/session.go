package model

import "time"

// UserSession is the payload stored in the user_session cookie.
// UserID is the borrower id, or a synthesized id when the phone has no
// borrower record.
type UserSession struct {
	UserID    string    `json:"user_id"`
	Phone     string    `json:"phone"`
	Name      string    `json:"name"`
	LoginTime time.Time `json:"login_time"`
}

// AdminSession is the payload stored in the admin_session cookie.
type AdminSession struct {
	AdminID   int64     `json:"admin_id"`
	Username  string    `json:"username"`
	LoginTime time.Time `json:"login_time"`
}
