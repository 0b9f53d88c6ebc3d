package handlers

import (
	"net/http"
	"testing"

	"github.com/pushp314/devconnect-chat/internal/events"
	"github.com/pushp314/devconnect-chat/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTyping(t *testing.T) {
	db := testutil.SetupTestDB(t)
	bus := useBus(t)

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	eve := testutil.CreateUser(t, db, "eve")
	conv := testutil.CreateConversation(t, db, alice.ID, bob.ID)

	aliceSub := bus.Subscribe(alice.ID)
	bobSub := bus.Subscribe(bob.ID)

	c, w := newTestContext("POST", "/", map[string]interface{}{"conversationId": conv.ID, "isTyping": true}, alice.ID)
	Typing(c)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Empty(t, pending(aliceSub))
	evs := pending(bobSub)
	require.Len(t, evs, 1)
	assert.Equal(t, events.TypeTyping, evs[0].Type)
	payload := evs[0].Data.(events.TypingPayload)
	assert.True(t, payload.IsTyping)
	assert.Equal(t, alice.ID, payload.UserID)

	c, w = newTestContext("POST", "/", map[string]interface{}{"conversationId": conv.ID, "isTyping": true}, eve.ID)
	Typing(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, pending(bobSub))
}
