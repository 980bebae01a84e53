package database

import "chirp/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Follow{},
		&models.Tweet{},
		&models.Like{},
		&models.Media{},
	}
}
