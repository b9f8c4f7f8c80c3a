package database

import (
	"log"

	"labflow/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate the entities this app owns; orders and ledgers live in
	// the remote sheets and never touch this database.
	err = db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Event{},
		&model.Pendiente{},
		&model.AuditLog{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
