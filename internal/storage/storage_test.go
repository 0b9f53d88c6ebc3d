package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pushp314/devconnect-chat/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKey(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	key := NewKey("Holiday.PNG", now)
	assert.True(t, strings.HasPrefix(key, "messages/1700000000123-"), key)
	assert.True(t, strings.HasSuffix(key, ".png"), key)
	assert.NotEqual(t, key, NewKey("Holiday.PNG", now))
}

func TestLocalStoreSave(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir, "/uploads/")

	url, err := store.Save(context.Background(), "messages/1-a.txt", "text/plain", strings.NewReader("hello"), 5)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/messages/1-a.txt", url)

	data, err := os.ReadFile(filepath.Join(dir, "messages", "1-a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	_, err = store.Save(context.Background(), "messages/1-a.txt", "text/plain", strings.NewReader("again"), 5)
	assert.Error(t, err, "existing files are never overwritten")

	_, err = store.Save(context.Background(), "../escape.txt", "text/plain", strings.NewReader("x"), 1)
	assert.Error(t, err)
}

func TestNewStoreSelectsDriver(t *testing.T) {
	s, err := New(context.Background(), &config.Config{UploadDriver: "local", UploadDir: t.TempDir(), UploadPublicPath: "/uploads"})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, s)

	_, err = New(context.Background(), &config.Config{UploadDriver: "r2"})
	assert.Error(t, err)

	_, err = New(context.Background(), &config.Config{UploadDriver: "ftp"})
	assert.Error(t, err)
}
