package model

import "time"

// FileRecord represents one uploaded file awaiting expiry.
// This is a pure domain model with no persistence-specific dependencies.
// PasswordDigest must never be serialized into client-facing responses;
// handlers build their own response DTOs from display-safe fields.
type FileRecord struct {
	ID             string    `json:"id"`
	StoredName     string    `json:"stored_name"`
	OriginalName   string    `json:"original_name"`
	StoragePath    string    `json:"storage_path"`
	Size           int64     `json:"size"`
	ContentType    string    `json:"content_type"`
	PasswordDigest string    `json:"password_digest,omitempty"`
	UploadedAt     time.Time `json:"uploaded_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// Expired reports whether the record's TTL has passed at the given instant.
// ExpiresAt is immutable after creation; there is no renewal operation.
func (r *FileRecord) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// PasswordProtected reports whether a download requires a shared password.
// An empty digest is the "no password" sentinel.
func (r *FileRecord) PasswordProtected() bool {
	return r.PasswordDigest != ""
}
