package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"worklane/internal/identification"
	"worklane/internal/store"
	"worklane/internal/utils"
	"worklane/pkg/types"
)

// AttachmentStore implements identification.AttachmentStore. Store uploads
// the blob under a per-user key and caches the display metadata row; there is
// no compensating blob delete if a later step of the submission fails.
type AttachmentStore struct {
	s3          *S3Storage
	attachments *store.AttachmentRepository
}

func NewAttachmentStore(s3 *S3Storage, attachments *store.AttachmentRepository) *AttachmentStore {
	return &AttachmentStore{s3: s3, attachments: attachments}
}

func (s *AttachmentStore) Store(ctx context.Context, userID string, file identification.File) (types.Attachment, error) {
	id := utils.NanoID()
	key := fmt.Sprintf("identification/%s/%s%s", userID, id, safeExt(file.Name))

	if err := s.s3.Upload(ctx, key, file.ContentType, file.Size, file.Content); err != nil {
		return types.Attachment{}, err
	}

	attachment := types.Attachment{
		ID:            id,
		UserID:        userID,
		FileName:      file.Name,
		FileSizeBytes: file.Size,
		ContentType:   file.ContentType,
		StorageKey:    key,
		UploadedAt:    time.Now(),
	}

	if err := s.attachments.Create(ctx, &attachment); err != nil {
		return types.Attachment{}, err
	}

	return attachment, nil
}

// DocumentURL resolves an attachment to a short-lived display URL.
func (s *AttachmentStore) DocumentURL(ctx context.Context, attachment types.Attachment) (string, error) {
	return s.s3.PresignedURL(ctx, attachment.StorageKey, 15*time.Minute)
}

// safeExt keeps the original file extension on the storage key, nothing else
// of the user-supplied name.
func safeExt(name string) string {
	ext := strings.ToLower(path.Ext(name))
	if len(ext) > 10 || strings.ContainsAny(ext, "/\\ ") {
		return ""
	}
	return ext
}
