package storage

import (
	"context"
	"errors"
	"time"

	financeapp "github.com/bizsuite/backend/internal/application/finance"
)

// StubReceiptStorage is a placeholder implementation of ReceiptStorageService.
// Use this for development until a real storage backend is configured.
type StubReceiptStorage struct {
	// BaseURL is the base URL for generating upload/download URLs
	BaseURL string
}

// NewStubReceiptStorage creates a new StubReceiptStorage
func NewStubReceiptStorage() *StubReceiptStorage {
	return &StubReceiptStorage{
		BaseURL: "https://storage.example.com",
	}
}

// Ensure StubReceiptStorage implements ReceiptStorageService
var _ financeapp.ReceiptStorageService = (*StubReceiptStorage)(nil)

// GenerateUploadURL generates a stub presigned URL for uploading a receipt
func (s *StubReceiptStorage) GenerateUploadURL(
	_ context.Context,
	storageKey, _ string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	expiresAt := time.Now().Add(expiresIn)
	url := s.BaseURL + "/upload/" + storageKey + "?expires=" + expiresAt.Format(time.RFC3339)

	return url, expiresAt, nil
}

// GenerateDownloadURL generates a stub presigned URL for downloading a receipt
func (s *StubReceiptStorage) GenerateDownloadURL(
	_ context.Context,
	storageKey string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	expiresAt := time.Now().Add(expiresIn)
	url := s.BaseURL + "/download/" + storageKey + "?expires=" + expiresAt.Format(time.RFC3339)

	return url, expiresAt, nil
}

// DeleteObject is a no-op stub that always succeeds
func (s *StubReceiptStorage) DeleteObject(_ context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}
	return nil
}

// ObjectExists always returns true in stub mode.
// This keeps the receipt confirmation flow working during development.
func (s *StubReceiptStorage) ObjectExists(_ context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}
	return true, nil
}
