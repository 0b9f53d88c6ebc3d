package migrations

import (
	"fmt"
	"time"

	"github.com/pushp314/devconnect-chat/pkg/logger"
	"gorm.io/gorm"
)

// Migration is one versioned schema change applied after AutoMigrate.
// Up runs inside a transaction together with the row that records it.
type Migration struct {
	ID        string
	Name      string
	Up        func(tx *gorm.DB) error
	Down      func(tx *gorm.DB) error
	DependsOn []string
}

// schemaMigration is a row of schema_migrations.
type schemaMigration struct {
	ID        string    `gorm:"primaryKey;type:text"`
	Name      string    `gorm:"type:text"`
	AppliedAt time.Time `gorm:"autoCreateTime:nano"`
}

func (schemaMigration) TableName() string {
	return "schema_migrations"
}

type Migrator struct {
	db         *gorm.DB
	migrations []Migration
}

func NewMigrator(db *gorm.DB) *Migrator {
	return &Migrator{db: db, migrations: GetMigrations()}
}

// Run applies every registered migration that has not been recorded yet.
func Run(db *gorm.DB) error {
	return NewMigrator(db).Run()
}

// Applied lists recorded migration IDs in apply order.
func (m *Migrator) Applied() ([]string, error) {
	if err := m.db.AutoMigrate(&schemaMigration{}); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}
	var ids []string
	if err := m.db.Model(&schemaMigration{}).Order("applied_at, id").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	return ids, nil
}

// Run applies pending migrations in registration order. A migration may depend on
// one recorded earlier or on one applied earlier in the same run.
func (m *Migrator) Run() error {
	ids, err := m.Applied()
	if err != nil {
		return err
	}
	done := make(map[string]bool, len(ids))
	for _, id := range ids {
		done[id] = true
	}

	for _, mig := range m.migrations {
		if done[mig.ID] {
			continue
		}
		for _, dep := range mig.DependsOn {
			if !done[dep] {
				return fmt.Errorf("migration %s depends on %s which is not applied", mig.ID, dep)
			}
		}
		if err := m.apply(mig); err != nil {
			return err
		}
		done[mig.ID] = true
	}
	return nil
}

func (m *Migrator) apply(mig Migration) error {
	log := logger.Component("migrations")
	log.Info().Str("migration", mig.ID).Str("name", mig.Name).Msg("Applying migration")

	start := time.Now()
	err := m.db.Transaction(func(tx *gorm.DB) error {
		if err := mig.Up(tx); err != nil {
			return err
		}
		return tx.Create(&schemaMigration{ID: mig.ID, Name: mig.Name}).Error
	})
	if err != nil {
		log.Error().Err(err).Str("migration", mig.ID).Msg("Migration failed")
		return fmt.Errorf("migration %s: %w", mig.ID, err)
	}

	log.Info().Str("migration", mig.ID).Dur("took", time.Since(start)).Msg("Migration applied")
	return nil
}

// GetMigrations returns all registered migrations in order.
func GetMigrations() []Migration {
	return []Migration{
		Migration001MessageParentCheck(),
		Migration002ChatIndexes(),
	}
}
