package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/devconnect-chat/internal/events"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestContext builds a context as AuthMiddleware would leave it.
func newTestContext(method, path string, body interface{}, userID uint, params ...string) (*gin.Context, *httptest.ResponseRecorder) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(method, path, &buf)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("userId", userID)
	for i := 0; i+1 < len(params); i += 2 {
		c.Params = append(c.Params, gin.Param{Key: params[i], Value: params[i+1]})
	}
	return c, w
}

func id(v uint) string { return strconv.FormatUint(uint64(v), 10) }

// useBus installs a fresh bus for the duration of the test.
func useBus(t *testing.T) *events.Bus {
	t.Helper()
	bus := events.NewBus(events.Options{BufferSize: 16})
	Bus = bus
	t.Cleanup(func() {
		Bus = nil
		bus.Close()
	})
	return bus
}

// pending drains whatever is buffered on sub without blocking.
func pending(sub *events.Subscription) []events.Event {
	var out []events.Event
	for {
		select {
		case ev := <-sub.C():
			out = append(out, ev)
		case <-time.After(20 * time.Millisecond):
			return out
		}
	}
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}
