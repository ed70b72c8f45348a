package finance

import (
	"context"
	"time"
)

// ReceiptStorageService abstracts the object store holding expense
// receipt files. Clients upload and download receipts directly via
// presigned URLs; the API never proxies file bytes.
type ReceiptStorageService interface {
	// GenerateUploadURL returns a presigned PUT URL for a receipt upload
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL returns a presigned GET URL for a stored receipt
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject removes a stored receipt
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists reports whether a receipt has actually been uploaded
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}
