package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/devconnect-chat/internal/config"
	"github.com/pushp314/devconnect-chat/internal/events"
	"github.com/pushp314/devconnect-chat/internal/handlers"
	"github.com/pushp314/devconnect-chat/internal/models"
	"github.com/pushp314/devconnect-chat/internal/routes"
	"github.com/pushp314/devconnect-chat/internal/testutil"
	"github.com/pushp314/devconnect-chat/pkg/utils"
	"gorm.io/gorm"
)

type testEnv struct {
	db     *gorm.DB
	bus    *events.Bus
	router *gin.Engine
}

// setupEnv wires the full router against a private SQLite database and a local bus.
func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	config.AppConfig = &config.Config{
		JWTSecret:   "test_secret_key_12345",
		FrontendURL: "http://localhost:3000",
	}
	db := testutil.SetupTestDB(t)

	bus := events.NewBus(events.Options{BufferSize: 16})
	handlers.Bus = bus
	t.Cleanup(func() {
		handlers.Bus = nil
		bus.Close()
	})

	return &testEnv{db: db, bus: bus, router: routes.NewRouter(routes.Options{Bus: bus})}
}

func createTestUser(t *testing.T, db *gorm.DB, username string) (models.User, string) {
	t.Helper()
	user := testutil.CreateUser(t, db, username)
	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	return user, token
}

func performRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

// nextEvent waits briefly for the next event on sub.
func nextEvent(t *testing.T, sub *events.Subscription) events.Event {
	t.Helper()
	select {
	case ev := <-sub.C():
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return events.Event{}
	}
}
