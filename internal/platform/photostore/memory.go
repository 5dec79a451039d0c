package photostore

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"
)

type storedPhoto struct {
	photo   Photo
	content []byte
}

// InMemoryPhotoStore is a thread-safe, in-memory PhotoStore for testing and
// development.
type InMemoryPhotoStore struct {
	mu      sync.RWMutex
	photos  map[string]*storedPhoto
	baseURL string
}

func NewInMemoryPhotoStore(baseURL string) *InMemoryPhotoStore {
	return &InMemoryPhotoStore{
		photos:  make(map[string]*storedPhoto),
		baseURL: baseURL,
	}
}

func (s *InMemoryPhotoStore) Save(_ context.Context, customerID string, contentType string, content io.Reader) (*Photo, error) {
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

	photo := Photo{
		Path:        path,
		URL:         publicURL(s.baseURL, path),
		ContentType: contentType,
		Size:        int64(len(data)),
		Hash:        hash,
		CreatedAt:   now,
	}

	s.mu.Lock()
	s.photos[path] = &storedPhoto{photo: photo, content: data}
	s.mu.Unlock()

	out := photo
	return &out, nil
}

func (s *InMemoryPhotoStore) Open(_ context.Context, path string) (io.ReadCloser, *Photo, error) {
	s.mu.RLock()
	p, ok := s.photos[path]
	s.mu.RUnlock()
	if !ok {
		return nil, nil, ErrPhotoNotFound
	}
	photo := p.photo
	return io.NopCloser(bytes.NewReader(p.content)), &photo, nil
}

func (s *InMemoryPhotoStore) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.photos[path]; !ok {
		return ErrPhotoNotFound
	}
	delete(s.photos, path)
	return nil
}
