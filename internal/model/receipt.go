package model

import "time"

// Receipt is a repayment voucher image uploaded by a borrower.
type Receipt struct {
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}
