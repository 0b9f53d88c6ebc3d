package handlers

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/pushp314/devconnect-chat/internal/events"
	"github.com/pushp314/devconnect-chat/internal/models"
	"github.com/pushp314/devconnect-chat/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddReaction_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	bus := useBus(t)

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	conv := testutil.CreateConversation(t, db, alice.ID, bob.ID)
	msg := testutil.CreateMessage(t, db, models.Direct(conv.ID), bob.ID, "hi")

	aliceSub := bus.Subscribe(alice.ID)
	bobSub := bus.Subscribe(bob.ID)

	for i := 0; i < 2; i++ {
		c, w := newTestContext("POST", "/api/messages/"+id(msg.ID)+"/reactions", map[string]string{"emoji": "👍"}, alice.ID, "id", id(msg.ID))
		AddReaction(c)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	var count int64
	db.Model(&models.Reaction{}).Where("message_id = ?", msg.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	// Every member, including the reactor, is told about the reaction.
	for _, sub := range []*events.Subscription{aliceSub, bobSub} {
		evs := pending(sub)
		require.NotEmpty(t, evs)
		assert.Equal(t, events.TypeReaction, evs[0].Type)
		payload := evs[0].Data.(events.ReactionPayload)
		assert.Equal(t, events.ReactionAdded, payload.Action)
		assert.Equal(t, "👍", payload.Reaction.Emoji)
	}
}

func TestAddReaction_NonMemberRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	bus := useBus(t)

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	eve := testutil.CreateUser(t, db, "eve")
	conv := testutil.CreateConversation(t, db, alice.ID, bob.ID)
	msg := testutil.CreateMessage(t, db, models.Direct(conv.ID), bob.ID, "hi")

	bobSub := bus.Subscribe(bob.ID)

	c, w := newTestContext("POST", "/api/messages/"+id(msg.ID)+"/reactions", map[string]string{"emoji": "🔥"}, eve.ID, "id", id(msg.ID))
	AddReaction(c)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var count int64
	db.Model(&models.Reaction{}).Count(&count)
	assert.Zero(t, count)
	assert.Empty(t, pending(bobSub))
}

func TestRemoveReaction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	useBus(t)

	alice := testutil.CreateUser(t, db, "alice")
	group := testutil.CreateGroup(t, db, "devs", []uint{alice.ID})
	msg := testutil.CreateMessage(t, db, models.Group(group.ID), alice.ID, "ship it")
	require.NoError(t, db.Create(&models.Reaction{MessageID: msg.ID, UserID: alice.ID, Emoji: "🚀"}).Error)

	c, w := newTestContext("DELETE", "/api/messages/"+id(msg.ID)+"/reactions?emoji="+url.QueryEscape("🚀"), nil, alice.ID, "id", id(msg.ID))
	RemoveReaction(c)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	c, w = newTestContext("DELETE", "/api/messages/"+id(msg.ID)+"/reactions?emoji="+url.QueryEscape("🚀"), nil, alice.ID, "id", id(msg.ID))
	RemoveReaction(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddReaction_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	alice := testutil.CreateUser(t, db, "alice")

	c, w := newTestContext("POST", "/api/messages/1/reactions", map[string]string{"emoji": "  "}, alice.ID, "id", "1")
	AddReaction(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newTestContext("POST", "/api/messages/999/reactions", map[string]string{"emoji": "👍"}, alice.ID, "id", "999")
	AddReaction(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
