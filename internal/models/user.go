// Package models contains the persisted entities and the error taxonomy shared by every layer.
package models

import "time"

// User is an account identified by its unique name.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:64;not null;uniqueIndex:idx_users_name" json:"name"`
	CreatedAt time.Time `json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserSummary is the {id, name} pair embedded in profile and timeline views.
type UserSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Summary returns the public {id, name} projection of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name}
}
