// Package identification implements the account identification workflow: the
// document-slot rules per account variant, attachment reconciliation, and the
// status transition that queues an account for review after a submission.
package identification

import (
	"context"
	"io"
	"time"

	"worklane/pkg/types"

	"github.com/sirupsen/logrus"
)

// File is a raw upload payload handed to the workflow by the route layer.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Content     io.Reader
}

// AttachmentStore persists raw file bytes and returns a durable reference
// with display metadata filled in.
type AttachmentStore interface {
	Store(ctx context.Context, userID string, file File) (types.Attachment, error)
}

// RecordRepository loads and saves identification records. Record returns
// (nil, nil) when the account has no record yet; Save upserts.
type RecordRepository interface {
	Record(ctx context.Context, userID string) (*types.IdentificationRecord, error)
	Save(ctx context.Context, record *types.IdentificationRecord) error
}

// AccountRepository exposes the account status reads and writes the workflow
// needs. All other account mutations are out of its hands.
type AccountRepository interface {
	Status(ctx context.Context, userID string) (types.AccountStatus, error)
	SetStatus(ctx context.Context, userID string, status types.AccountStatus) error
}

type Workflow struct {
	logger   *logrus.Logger
	store    AttachmentStore
	records  RecordRepository
	accounts AccountRepository
}

func NewWorkflow(logger *logrus.Logger, store AttachmentStore, records RecordRepository, accounts AccountRepository) *Workflow {
	return &Workflow{
		logger:   logger,
		store:    store,
		records:  records,
		accounts: accounts,
	}
}

// Record returns the account's identification record, or nil if the account
// has never submitted.
func (w *Workflow) Record(ctx context.Context, userID string) (*types.IdentificationRecord, error) {
	record, err := w.records.Record(ctx, userID)
	if err != nil {
		return nil, newError(KindPersistence, err, "failed to load identification record")
	}
	return record, nil
}

// Submit applies one identification submission for an account: refs listed in
// deleteIDs are dropped from their slots, new files are stored and slotted
// (replacing same-named attachments in place), the record is upserted, and
// the account status moves to pending.
//
// Persisted state is all-or-nothing up to the record write: a validation,
// storage, or persistence failure leaves record and status untouched. A
// status-transition failure is reported after the record write succeeded; the
// record is kept (re-submitting retries just the transition) and is returned
// alongside the error.
//
// Two concurrent submissions for the same account are not coordinated; the
// record write is last-write-wins. Files stored before a mid-submission
// failure are left orphaned in the attachment store.
func (w *Workflow) Submit(ctx context.Context, userID string, variant types.AccountVariant, newFiles map[types.SlotName][]File, deleteIDs map[string]bool) (*types.IdentificationRecord, error) {
	for slot := range newFiles {
		if !slotAllowed(variant, slot) {
			return nil, newError(KindValidation, nil, "documents under %q are not accepted for this account type", slot)
		}
	}

	status, err := w.accounts.Status(ctx, userID)
	if err != nil {
		return nil, newError(KindPersistence, err, "failed to load account status")
	}
	if status == types.AccountStatusPublished {
		return nil, newError(KindValidation, nil, "account is already verified and published")
	}
	// Deactivation and reactivation belong to settings; a deactivated account
	// must not re-enter the review queue through a document submission.
	if status == types.AccountStatusDeactivated {
		return nil, newError(KindValidation, nil, "account is deactivated; reactivate it before submitting documents")
	}

	record, err := w.records.Record(ctx, userID)
	if err != nil {
		return nil, newError(KindPersistence, err, "failed to load identification record")
	}
	if record == nil {
		record = &types.IdentificationRecord{
			UserID: userID,
			Slots:  map[types.SlotName][]types.Attachment{},
		}
	}

	next := map[types.SlotName][]types.Attachment{}
	for _, slot := range RequiredSlots(variant) {
		added := make([]types.Attachment, 0, len(newFiles[slot]))
		for _, file := range newFiles[slot] {
			att, err := w.store.Store(ctx, userID, file)
			if err != nil {
				return nil, newError(KindStorage, err, "failed to store %q", file.Name)
			}
			added = append(added, att)
		}
		next[slot] = reconcileSlot(record.Slots[slot], deleteIDs, added)
	}

	record.Slots = next
	record.UpdatedAt = time.Now()

	if err := w.records.Save(ctx, record); err != nil {
		return nil, newError(KindPersistence, err, "failed to save identification record")
	}

	if err := w.accounts.SetStatus(ctx, userID, types.AccountStatusPending); err != nil {
		// The record write is the durable source of truth; a stuck status is
		// recoverable by resubmitting, lost documents are not.
		w.logger.WithError(err).WithField("user_id", userID).Warn("identification saved but status transition failed")
		return record, newError(KindStatusTransition, err, "documents saved but account could not be queued for review")
	}

	return record, nil
}
