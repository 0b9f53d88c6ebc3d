package handlers

import (
	"net/http"
	"testing"

	"github.com/pushp314/devconnect-chat/internal/events"
	"github.com/pushp314/devconnect-chat/internal/models"
	"github.com/pushp314/devconnect-chat/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFriendRequestLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	bus := useBus(t)

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	bobSub := bus.Subscribe(bob.ID)

	c, w := newTestContext("POST", "/", map[string]uint{"userId": bob.ID}, alice.ID)
	SendFriendRequest(c)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var req models.FriendRequest
	decodeBody(t, w, &req)

	evs := pending(bobSub)
	require.Len(t, evs, 1)
	assert.Equal(t, events.TypeNotification, evs[0].Type)

	// A second request in either direction is refused while one is pending.
	c, w = newTestContext("POST", "/", map[string]uint{"userId": alice.ID}, bob.ID)
	SendFriendRequest(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Only the receiver can accept.
	c, w = newTestContext("POST", "/", nil, alice.ID, "id", id(req.ID))
	AcceptFriendRequest(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	c, w = newTestContext("POST", "/", nil, bob.ID, "id", id(req.ID))
	AcceptFriendRequest(c)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var rows int64
	db.Model(&models.Friend{}).Count(&rows)
	assert.Equal(t, int64(2), rows)

	c, w = newTestContext("GET", "/", nil, alice.ID)
	ListFriends(c)
	require.Equal(t, http.StatusOK, w.Code)
	var friends []friendView
	decodeBody(t, w, &friends)
	require.Len(t, friends, 1)
	assert.Equal(t, bob.ID, friends[0].ID)
	assert.True(t, friends[0].IsOnline)
}

func TestRemoveFriend(t *testing.T) {
	db := testutil.SetupTestDB(t)
	bus := useBus(t)

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	testutil.MakeFriends(t, db, alice.ID, bob.ID)
	bobSub := bus.Subscribe(bob.ID)

	c, w := newTestContext("DELETE", "/?friendId="+id(bob.ID), nil, alice.ID)
	RemoveFriend(c)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var rows int64
	db.Model(&models.Friend{}).Count(&rows)
	assert.Zero(t, rows)

	evs := pending(bobSub)
	require.Len(t, evs, 1)
	assert.Equal(t, events.TypeFriendRemoved, evs[0].Type)
	assert.Equal(t, alice.ID, evs[0].Data.(events.FriendRemovedPayload).RemovedBy)
}
