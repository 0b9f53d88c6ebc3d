// Package storage persists uploaded message attachments.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pushp314/devconnect-chat/internal/config"
)

// Store saves an object under key and returns the URL clients should use to fetch it.
type Store interface {
	Save(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

const keyPrefix = "messages"

// NewKey builds "messages/<unixMillis>-<uuid><ext>" from the client's file name.
func NewKey(filename string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s/%d-%s%s", keyPrefix, now.UnixMilli(), uuid.NewString(), ext)
}

// New picks the store named by UPLOAD_DRIVER.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.UploadDriver {
	case "", "local":
		return NewLocalStore(cfg.UploadDir, cfg.UploadPublicPath), nil
	case "r2", "s3":
		return NewR2Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown upload driver %q", cfg.UploadDriver)
	}
}
