// Package photostore stores customer photos. It defines the PhotoStore
// interface, a filesystem implementation for production, an in-memory
// implementation for testing, and an Echo handler that serves stored photos.
package photostore

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

var (
	ErrPhotoNotFound      = errors.New("photo not found")
	ErrFileTooLarge       = errors.New("file exceeds maximum allowed size")
	ErrInvalidContentType = errors.New("content type is not allowed")
)

// MaxFileSize is the maximum allowed photo size in bytes (10 MB).
const MaxFileSize = 10 * 1024 * 1024

// AllowedContentTypes lists accepted image MIME types.
var AllowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Photo describes a stored photo.
type Photo struct {
	Path        string    `json:"path"`
	URL         string    `json:"url"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	Hash        string    `json:"hash"`
	CreatedAt   time.Time `json:"created_at"`
}

// PhotoStore defines the contract for photo storage backends.
type PhotoStore interface {
	// Save stores a photo for the given customer and returns its metadata,
	// including the public URL to record on the customer.
	Save(ctx context.Context, customerID string, contentType string, content io.Reader) (*Photo, error)
	// Open returns the photo content and metadata for a stored path.
	Open(ctx context.Context, path string) (io.ReadCloser, *Photo, error)
	// Delete removes a stored photo. Deleting a missing photo returns
	// ErrPhotoNotFound.
	Delete(ctx context.Context, path string) error
}

// objectPath builds the storage path for a customer photo. Photos are keyed
// by customer and upload time so a re-upload never overwrites the previous
// file mid-request.
func objectPath(customerID, ext string, now time.Time) string {
	return fmt.Sprintf("customers/%s/%d%s", customerID, now.UnixNano(), ext)
}

// readAll reads the photo content enforcing MaxFileSize and returns the data
// with its SHA-256 hash.
func readAll(content io.Reader) ([]byte, string, error) {
	data, err := io.ReadAll(io.LimitReader(content, MaxFileSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("reading content: %w", err)
	}
	if int64(len(data)) > MaxFileSize {
		return nil, "", ErrFileTooLarge
	}
	h := sha256.Sum256(data)
	return data, fmt.Sprintf("%x", h), nil
}

// extFor returns the file extension for an allowed content type.
func extFor(contentType string) (string, error) {
	ext, ok := AllowedContentTypes[strings.ToLower(contentType)]
	if !ok {
		return "", ErrInvalidContentType
	}
	return ext, nil
}

// publicURL joins the base URL and storage path.
func publicURL(baseURL, path string) string {
	return strings.TrimRight(baseURL, "/") + "/" + path
}
