package photostore

import (
	"context"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FSPhotoStore stores photos on the local filesystem under a root directory.
// The public URL for each photo is the configured base URL plus the storage
// path, so the same paths work when the directory is mounted behind a CDN or
// reverse proxy.
type FSPhotoStore struct {
	root    string
	baseURL string
}

func NewFSPhotoStore(root, baseURL string) (*FSPhotoStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &FSPhotoStore{root: root, baseURL: baseURL}, nil
}

func (s *FSPhotoStore) Save(_ context.Context, customerID string, contentType string, content io.Reader) (*Photo, error) {
	ext, err := extFor(contentType)
	if err != nil {
		return nil, err
	}

	data, hash, err := readAll(content)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	path := objectPath(customerID, ext, now)

	full := filepath.Join(s.root, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return nil, err
	}

	return &Photo{
		Path:        path,
		URL:         publicURL(s.baseURL, path),
		ContentType: contentType,
		Size:        int64(len(data)),
		Hash:        hash,
		CreatedAt:   now,
	}, nil
}

func (s *FSPhotoStore) Open(_ context.Context, path string) (io.ReadCloser, *Photo, error) {
	clean, ok := s.cleanPath(path)
	if !ok {
		return nil, nil, ErrPhotoNotFound
	}

	f, err := os.Open(clean)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, ErrPhotoNotFound
		}
		return nil, nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}

	return f, &Photo{
		Path:        path,
		URL:         publicURL(s.baseURL, path),
		ContentType: mime.TypeByExtension(filepath.Ext(clean)),
		Size:        info.Size(),
		CreatedAt:   info.ModTime().UTC(),
	}, nil
}

func (s *FSPhotoStore) Delete(_ context.Context, path string) error {
	clean, ok := s.cleanPath(path)
	if !ok {
		return ErrPhotoNotFound
	}
	if err := os.Remove(clean); err != nil {
		if os.IsNotExist(err) {
			return ErrPhotoNotFound
		}
		return err
	}
	return nil
}

// cleanPath resolves a storage path under the root, rejecting traversal
// outside it.
func (s *FSPhotoStore) cleanPath(path string) (string, bool) {
	full := filepath.Join(s.root, filepath.FromSlash(path))
	rootAbs, err := filepath.Abs(s.root)
	if err != nil {
		return "", false
	}
	fullAbs, err := filepath.Abs(full)
	if err != nil {
		return "", false
	}
	if fullAbs != rootAbs && !strings.HasPrefix(fullAbs, rootAbs+string(filepath.Separator)) {
		return "", false
	}
	return fullAbs, true
}
