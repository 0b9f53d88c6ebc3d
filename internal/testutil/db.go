// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/pushp314/devconnect-chat/internal/database"
	"github.com/pushp314/devconnect-chat/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens a private in-memory SQLite database, migrates every model and
// installs it as database.DB for handlers that use the global.
func SetupTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	// One connection keeps the shared in-memory database alive and serialises writers.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	database.DB = db
	return db
}

func CreateUser(t testing.TB, db *gorm.DB, username string) models.User {
	t.Helper()
	u := models.User{Username: username, Nickname: strings.ToUpper(username[:1]) + username[1:]}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func MakeFriends(t testing.TB, db *gorm.DB, a, b uint) {
	t.Helper()
	rows := []models.Friend{{UserID: a, FriendID: b}, {UserID: b, FriendID: a}}
	if err := db.Create(&rows).Error; err != nil {
		t.Fatalf("make friends: %v", err)
	}
}

func CreateConversation(t testing.TB, db *gorm.DB, userIDs ...uint) models.Conversation {
	t.Helper()
	conv := models.Conversation{}
	for _, id := range userIDs {
		conv.Members = append(conv.Members, models.ConversationMember{UserID: id})
	}
	if err := db.Create(&conv).Error; err != nil {
		t.Fatalf("create conversation: %v", err)
	}
	return conv
}

// CreateGroup creates a group whose first admins entries are admins.
func CreateGroup(t testing.TB, db *gorm.DB, name string, admins []uint, members ...uint) models.GroupChat {
	t.Helper()
	g := models.GroupChat{Name: name}
	if len(admins) > 0 {
		g.CreatedByID = admins[0]
	}
	for _, id := range admins {
		g.Members = append(g.Members, models.GroupChatMember{UserID: id, Role: models.GroupRoleAdmin})
	}
	for _, id := range members {
		g.Members = append(g.Members, models.GroupChatMember{UserID: id, Role: models.GroupRoleMember})
	}
	if err := db.Create(&g).Error; err != nil {
		t.Fatalf("create group: %v", err)
	}
	return g
}

func CreateMessage(t testing.TB, db *gorm.DB, parent models.Parent, senderID uint, content string) models.Message {
	t.Helper()
	msg := models.NewMessage(parent, senderID, content)
	if err := db.Create(&msg).Error; err != nil {
		t.Fatalf("create message: %v", err)
	}
	return msg
}
