package migrations

import (
	"gorm.io/gorm"
)

// Migration002ChatIndexes adds indexes for the history, unread and membership queries.
// Plain CREATE INDEX IF NOT EXISTS: the migrator runs Up inside a transaction,
// which rules out CONCURRENTLY.
func Migration002ChatIndexes() Migration {
	indexes := []struct{ name, table, columns string }{
		// WHERE conversation_id = ? AND id > ? ORDER BY id
		{"idx_messages_conversation_id_id", "messages", "conversation_id, id"},
		{"idx_messages_group_chat_id_id", "messages", "group_chat_id, id"},
		// Admin count for the last-admin guard
		{"idx_group_chat_members_group_role", "group_chat_members", "group_chat_id, role"},
		// Conversation listing by member
		{"idx_conversation_members_user", "conversation_members", "user_id"},
		{"idx_group_chat_members_user", "group_chat_members", "user_id"},
	}

	return Migration{
		ID:        "002_chat_indexes",
		Name:      "Add indexes for chat hot paths",
		DependsOn: []string{"001_message_parent_check"},
		Up: func(db *gorm.DB) error {
			for _, idx := range indexes {
				sql := "CREATE INDEX IF NOT EXISTS " + idx.name + " ON " + idx.table + " (" + idx.columns + ")"
				if err := db.Exec(sql).Error; err != nil {
					return err
				}
			}
			return nil
		},
		Down: func(db *gorm.DB) error {
			for _, idx := range indexes {
				if err := db.Exec("DROP INDEX IF EXISTS " + idx.name).Error; err != nil {
					return err
				}
			}
			return nil
		},
	}
}
