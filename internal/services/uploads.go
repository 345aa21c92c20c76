package services

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/ifradhos55/Markain/internal/utils"

	"github.com/gin-gonic/gin"
)

// uploadsDir is where post images, attachments and group photos land.
// Served under /uploads by the router.
func uploadsDir() string {
	if dir := os.Getenv("UPLOADS_DIR"); dir != "" {
		return dir
	}
	return "./web/uploads"
}

// SaveUpload stores a multipart file under a random name and returns the
// public URL plus the original metadata.
func SaveUpload(c *gin.Context, fh *multipart.FileHeader) (*Attachment, error) {
	dir := uploadsDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}

	name := utils.RandString(16) + filepath.Ext(fh.Filename)
	if err := c.SaveUploadedFile(fh, filepath.Join(dir, name)); err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}

	return &Attachment{
		URL:          "/uploads/" + name,
		OriginalName: fh.Filename,
		ContentType:  fh.Header.Get("Content-Type"),
		Size:         fh.Size,
	}, nil
}
