package service

import (
	"alcyxob/coach-dashboard/internal/storage"
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrMediaKeyRequired  = errors.New("media key is required")
	ErrStorageNotEnabled = errors.New("media storage is not configured")
)

// MediaService turns the media references stored in plans and templates
// into URLs a browser can load.
type MediaService interface {
	ResolveURL(ctx context.Context, key string) (string, error)
}

type mediaService struct {
	fileStorage storage.FileStorage
	expiry      time.Duration
}

// NewMediaService creates a MediaService. fileStorage may be nil, in which
// case only absolute URLs resolve.
func NewMediaService(fileStorage storage.FileStorage, expiry time.Duration) MediaService {
	if expiry <= 0 {
		expiry = storage.DefaultPresignedURLExpiry
	}
	return &mediaService{fileStorage: fileStorage, expiry: expiry}
}

// ResolveURL returns absolute URLs untouched and presigns storage keys.
func (s *mediaService) ResolveURL(ctx context.Context, key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrMediaKeyRequired
	}
	if isAbsoluteURL(key) {
		return key, nil
	}
	if s.fileStorage == nil {
		return "", ErrStorageNotEnabled
	}
	return s.fileStorage.GeneratePresignedDownloadURL(ctx, strings.TrimPrefix(key, "/"), s.expiry)
}

func isAbsoluteURL(v string) bool {
	lower := strings.ToLower(v)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
