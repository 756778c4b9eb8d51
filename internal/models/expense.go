package models

import "time"

// Expense represents a single expense record in a user's ledger.
// Every expense is owned by exactly one user; the owner is set at
// creation and never changes.
type Expense struct {
	Base
	UserID   string    `gorm:"type:uuid;not null;index:idx_expenses_user_date" json:"user_id"`
	Title    string    `gorm:"not null" json:"title"`
	Amount   float64   `gorm:"type:numeric;not null;check:amount >= 0" json:"amount"`
	Category Category  `gorm:"type:text;not null;default:Other" json:"category"`
	Date     time.Time `gorm:"not null;index:idx_expenses_user_date" json:"date"`
	Notes    string    `json:"notes,omitempty"`
}
