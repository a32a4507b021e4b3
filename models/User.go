package models

import "gorm.io/gorm"

// User is a bartender account. Guests browse the menu anonymously; everything
// behind the admin surface requires an authenticated bartender session.
type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Name         string
}
