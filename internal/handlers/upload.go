package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/devconnect-chat/internal/config"
	"github.com/pushp314/devconnect-chat/internal/models"
	"github.com/pushp314/devconnect-chat/internal/storage"
	"github.com/pushp314/devconnect-chat/pkg/errors"
)

const defaultMaxUploadBytes = 10 << 20

var allowedUploadTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"video/mp4":  true,
	"video/webm": true,
	"video/ogg":  true,
}

func maxUploadBytes() int64 {
	if config.AppConfig != nil && config.AppConfig.UploadMaxBytes > 0 {
		return config.AppConfig.UploadMaxBytes
	}
	return defaultMaxUploadBytes
}

func validateUpload(header *multipart.FileHeader, limit int64) error {
	contentType := header.Header.Get("Content-Type")
	if !allowedUploadTypes[contentType] {
		return errors.BadRequest(fmt.Sprintf("Invalid file type: %s. Only images and videos are allowed.", contentType))
	}
	if header.Size > limit {
		return errors.BadRequest(fmt.Sprintf("File size exceeds %dMB limit", limit>>20))
	}
	return nil
}

// UploadFiles POST /api/upload
// Every file is validated before any of them is written.
func UploadFiles(c *gin.Context) {
	if Uploads == nil {
		respondError(c, errors.Internal("Uploads are not configured"))
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, errors.BadRequest("No files provided"))
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		respondError(c, errors.BadRequest("No files provided"))
		return
	}

	limit := maxUploadBytes()
	for _, header := range files {
		if err := validateUpload(header, limit); err != nil {
			respondError(c, err)
			return
		}
	}

	uploaded := make([]models.Attachment, 0, len(files))
	for _, header := range files {
		att, err := saveUpload(c, header)
		if err != nil {
			respondError(c, err)
			return
		}
		uploaded = append(uploaded, att)
	}

	c.JSON(http.StatusOK, gin.H{"files": uploaded})
}

func saveUpload(c *gin.Context, header *multipart.FileHeader) (models.Attachment, error) {
	f, err := header.Open()
	if err != nil {
		return models.Attachment{}, fmt.Errorf("open upload %s: %w", header.Filename, err)
	}
	defer f.Close()

	contentType := header.Header.Get("Content-Type")
	key := storage.NewKey(header.Filename, time.Now())
	url, err := Uploads.Save(c.Request.Context(), key, contentType, f, header.Size)
	if err != nil {
		return models.Attachment{}, err
	}
	return models.Attachment{URL: url, Type: contentType, Name: header.Filename, Size: header.Size}, nil
}
