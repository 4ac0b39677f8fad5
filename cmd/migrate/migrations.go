package main

import (
	"gorm.io/gorm"

	"github.com/collabhub/hub/internal/models"
)

// registerModels returns all models that need migration
func registerModels() []interface{} {
	return []interface{}{
		// Accounts
		&models.User{},
		&models.UserProfile{},

		// Projects & membership
		&models.Project{},
		&models.ProjectMembership{},

		// Work items
		&models.Tag{},
		&models.Task{},
		&models.TaskAssignment{},

		// Conversations
		&models.Thread{},
		&models.Message{},

		// Audit & integrations
		&models.AuditEvent{},
		&models.Webhook{},
	}
}

// runMigrations executes all database migrations
func runMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(registerModels()...); err != nil {
		return err
	}
	return runCustomMigrations(db)
}

// runCustomMigrations handles schema changes AutoMigrate can't handle
func runCustomMigrations(db *gorm.DB) error {
	migrations := []func(*gorm.DB) error{
		addAuditEventIndexes,
	}
	for _, migration := range migrations {
		if err := migration(db); err != nil {
			return err
		}
	}
	return nil
}

// addAuditEventIndexes speeds up newest-first listings filtered by verb.
func addAuditEventIndexes(db *gorm.DB) error {
	return db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_audit_events_verb_created
		ON audit_events(verb, created_at DESC)
	`).Error
}
