package models

import "time"

// Document describes metadata for a generated legal document. The
// AEAD-encrypted content itself lives in object storage under StorageKey.
type Document struct {
	ID        string
	CompanyID string
	Title     string
	// StorageKey is the object-storage key (path) of the ciphertext blob.
	StorageKey string
	// UploadStatus tracks server-side upload state ("pending", "completed").
	UploadStatus string
	CreatedAt    time.Time
}

// DocumentUploadTask instructs the client to upload a document using a
// presigned URL.
type DocumentUploadTask struct {
	DocumentID string
	// URL is a temporary presigned HTTP URL for the client to PUT the
	// ciphertext.
	URL string
}
