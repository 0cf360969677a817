package models

import (
	"time"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null"     json:"email"`
	FirstName    string    `gorm:"not null"                 json:"firstName"`
	LastName     string    `gorm:"not null"                 json:"lastName"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Terms        bool      `gorm:"not null"                 json:"terms"`
	Role         string    `gorm:"not null"                 json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Contact struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"not null"                 json:"name"`
	Email     string    `gorm:"not null"                 json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Photo     string    `json:"photo"`
	UserID    uint      `gorm:"index;not null"           json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
