package handlers

import (
	"net/http"
	"testing"

	"github.com/pushp314/devconnect-chat/internal/models"
	"github.com/pushp314/devconnect-chat/internal/services"
	"github.com/pushp314/devconnect-chat/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationHandlers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	created, err := services.CreateNotifications(db, []services.NotificationInput{
		{UserID: alice.ID, Type: models.NotificationTypeSystem, Title: "one"},
		{UserID: alice.ID, Type: models.NotificationTypeSystem, Title: "two"},
	})
	require.NoError(t, err)

	c, w := newTestContext("GET", "/", nil, alice.ID)
	GetUnreadCount(c)
	assert.JSONEq(t, `{"count":2}`, w.Body.String())

	// Another user cannot touch Alice's notification.
	c, w = newTestContext("PATCH", "/", nil, bob.ID, "id", id(created[0].ID))
	UpdateNotification(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	c, w = newTestContext("PATCH", "/", nil, alice.ID, "id", id(created[0].ID))
	UpdateNotification(c)
	require.Equal(t, http.StatusOK, w.Code)

	c, w = newTestContext("GET", "/", nil, alice.ID)
	GetUnreadCount(c)
	assert.JSONEq(t, `{"count":1}`, w.Body.String())

	c, w = newTestContext("PUT", "/", nil, alice.ID)
	MarkAllNotificationsRead(c)
	require.Equal(t, http.StatusOK, w.Code)

	c, w = newTestContext("DELETE", "/", nil, alice.ID, "id", id(created[1].ID))
	DeleteNotification(c)
	require.Equal(t, http.StatusOK, w.Code)

	c, w = newTestContext("GET", "/", nil, alice.ID)
	GetNotifications(c)
	var resp struct {
		Notifications []models.Notification `json:"notifications"`
	}
	decodeBody(t, w, &resp)
	require.Len(t, resp.Notifications, 1)
	assert.True(t, resp.Notifications[0].Read)
}
