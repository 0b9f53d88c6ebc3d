package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/devconnect-chat/internal/config"
	"github.com/pushp314/devconnect-chat/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStore struct {
	keys []string
}

func (s *recordingStore) Save(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	s.keys = append(s.keys, key)
	return "https://cdn.example.com/" + key, nil
}

var _ storage.Store = (*recordingStore)(nil)

type uploadPart struct {
	name, contentType string
	size              int
}

func newUploadContext(t *testing.T, parts ...uploadPart) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename="%s"`, p.name))
		h.Set("Content-Type", p.contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(bytes.Repeat([]byte{0xAB}, p.size))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("POST", "/api/upload", &buf)
	c.Request.Header.Set("Content-Type", mw.FormDataContentType())
	c.Set("userId", uint(1))
	return c, w
}

func useUploads(t *testing.T, maxBytes int64) *recordingStore {
	t.Helper()
	store := &recordingStore{}
	Uploads = store
	prev := config.AppConfig
	config.AppConfig = &config.Config{UploadMaxBytes: maxBytes}
	t.Cleanup(func() {
		Uploads = nil
		config.AppConfig = prev
	})
	return store
}

func TestUploadFiles(t *testing.T) {
	store := useUploads(t, 1024)

	c, w := newUploadContext(t,
		uploadPart{"Cat.PNG", "image/png", 100},
		uploadPart{"clip.mp4", "video/mp4", 200},
	)
	UploadFiles(c)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Files []struct {
			URL  string `json:"url"`
			Type string `json:"type"`
			Name string `json:"name"`
			Size int64  `json:"size"`
		} `json:"files"`
	}
	decodeBody(t, w, &resp)
	require.Len(t, resp.Files, 2)
	assert.Equal(t, "image/png", resp.Files[0].Type)
	assert.Equal(t, int64(100), resp.Files[0].Size)
	assert.Regexp(t, `^https://cdn\.example\.com/messages/\d+-[0-9a-f-]{36}\.png$`, resp.Files[0].URL)
	assert.Len(t, store.keys, 2)
}

func TestUploadFiles_RejectsBatchBeforeSaving(t *testing.T) {
	cases := []struct {
		name  string
		parts []uploadPart
	}{
		{"bad type", []uploadPart{{"ok.png", "image/png", 10}, {"evil.exe", "application/octet-stream", 10}}},
		{"too large", []uploadPart{{"ok.png", "image/png", 10}, {"big.gif", "image/gif", 2048}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := useUploads(t, 1024)
			c, w := newUploadContext(t, tc.parts...)
			UploadFiles(c)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, store.keys)
		})
	}
}

func TestUploadFiles_NoFiles(t *testing.T) {
	useUploads(t, 1024)
	c, w := newUploadContext(t)
	UploadFiles(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
