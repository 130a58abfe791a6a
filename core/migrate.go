package core

import (
	"fmt"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the tables for the given models after the
// directory tables they reference.
func AutoMigrate(db *gorm.DB, models ...interface{}) error {
	all := append([]interface{}{&Department{}, &Employee{}}, models...)
	if err := db.AutoMigrate(all...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
