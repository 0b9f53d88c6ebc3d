package migrations

import (
	"gorm.io/gorm"
)

// Migration001MessageParentCheck enforces that a message belongs to exactly one
// conversation or group chat. SQLite cannot add a CHECK to an existing table, so
// it relies on Message.BeforeCreate there.
func Migration001MessageParentCheck() Migration {
	return Migration{
		ID:   "001_message_parent_check",
		Name: "Require exactly one parent on messages",
		Up: func(db *gorm.DB) error {
			if db.Dialector.Name() != "postgres" {
				return nil
			}
			return db.Exec(`
				DO $$
				BEGIN
					IF NOT EXISTS (
						SELECT 1 FROM pg_constraint WHERE conname = 'chk_messages_single_parent'
					) THEN
						ALTER TABLE messages ADD CONSTRAINT chk_messages_single_parent
						CHECK ((conversation_id IS NULL) <> (group_chat_id IS NULL));
					END IF;
				END $$;
			`).Error
		},
		Down: func(db *gorm.DB) error {
			if db.Dialector.Name() != "postgres" {
				return nil
			}
			return db.Exec(`ALTER TABLE messages DROP CONSTRAINT IF EXISTS chk_messages_single_parent`).Error
		},
	}
}
