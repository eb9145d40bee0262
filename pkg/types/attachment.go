package types

import "time"

// Attachment is a durable blob-store reference plus display metadata cached
// at upload time so listing documents never requires a round trip to the
// attachment store.
type Attachment struct {
	ID            string    `db:"id"`
	UserID        string    `db:"user_id"`
	FileName      string    `db:"file_name"`
	FileSizeBytes int64     `db:"file_size_bytes"`
	ContentType   string    `db:"content_type"`
	StorageKey    string    `db:"storage_key"`
	UploadedAt    time.Time `db:"uploaded_at"`
}
