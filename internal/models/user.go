package models

import "time"

// User represents the user model in the database
type User struct {
	Base
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	Password  string `gorm:"not null" json:"-"`
	FirstName string `gorm:"not null" json:"first_name"`
	LastName  string `gorm:"not null" json:"last_name"`
	IsActive  bool   `gorm:"default:true" json:"is_active"`

	// Password-reset state. The code is a short-lived one-time numeric
	// code delivered by email; ResetCodeVerified gates the actual reset.
	ResetCode         string     `json:"-"`
	ResetCodeExpires  *time.Time `json:"-"`
	ResetCodeVerified bool       `gorm:"default:false" json:"-"`

	Expenses []Expense `gorm:"foreignKey:UserID" json:"expenses,omitempty"`
}
