package identification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"worklane/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAttachmentStore struct {
	seq      int
	stored   []string
	failName string
}

func (s *fakeAttachmentStore) Store(_ context.Context, userID string, file File) (types.Attachment, error) {
	if file.Name == s.failName {
		return types.Attachment{}, errors.New("blob store rejected file")
	}
	s.seq++
	s.stored = append(s.stored, file.Name)
	return types.Attachment{
		ID:          fmt.Sprintf("att-%d", s.seq),
		UserID:      userID,
		FileName:    file.Name,
		ContentType: file.ContentType,
		StorageKey:  fmt.Sprintf("%s/%d-%s", userID, s.seq, file.Name),
	}, nil
}

type fakeRecordRepo struct {
	records map[string]*types.IdentificationRecord
	saves   int
	saveErr error
	loadErr error
}

func newFakeRecordRepo() *fakeRecordRepo {
	return &fakeRecordRepo{records: map[string]*types.IdentificationRecord{}}
}

func (r *fakeRecordRepo) Record(_ context.Context, userID string) (*types.IdentificationRecord, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	rec, ok := r.records[userID]
	if !ok {
		return nil, nil
	}
	clone := *rec
	clone.Slots = map[types.SlotName][]types.Attachment{}
	for slot, atts := range rec.Slots {
		clone.Slots[slot] = append([]types.Attachment(nil), atts...)
	}
	return &clone, nil
}

func (r *fakeRecordRepo) Save(_ context.Context, record *types.IdentificationRecord) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.records[record.UserID] = record
	return nil
}

type fakeAccountRepo struct {
	statuses  map[string]types.AccountStatus
	setErr    error
	statusErr error
}

func (a *fakeAccountRepo) Status(_ context.Context, userID string) (types.AccountStatus, error) {
	if a.statusErr != nil {
		return "", a.statusErr
	}
	return a.statuses[userID], nil
}

func (a *fakeAccountRepo) SetStatus(_ context.Context, userID string, status types.AccountStatus) error {
	if a.setErr != nil {
		return a.setErr
	}
	a.statuses[userID] = status
	return nil
}

var (
	freelancer = types.AccountVariant{Type: types.AccountTypeFreelancer}
	individual = types.AccountVariant{Type: types.AccountTypeEmployer, EmployerType: types.EmployerAccountTypeIndividual}
	company    = types.AccountVariant{Type: types.AccountTypeEmployer, EmployerType: types.EmployerAccountTypeCompany}
)

func file(name string) File {
	return File{Name: name, ContentType: "application/pdf", Size: 4, Content: strings.NewReader("%PDF")}
}

func names(atts []types.Attachment) []string {
	out := make([]string, 0, len(atts))
	for _, a := range atts {
		out = append(out, a.FileName)
	}
	return out
}

func TestSubmitFirstSubmission(t *testing.T) {
	store := &fakeAttachmentStore{}
	records := newFakeRecordRepo()
	accounts := &fakeAccountRepo{statuses: map[string]types.AccountStatus{"u1": types.AccountStatusDraft}}
	w := NewWorkflow(testLogger(), store, records, accounts)

	record, err := w.Submit(context.Background(), "u1", freelancer, map[types.SlotName][]File{
		types.SlotIdentification: {file("passport.pdf")},
		types.SlotTradeLicense:   {file("license.pdf")},
	}, nil)

	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, []string{"passport.pdf"}, names(record.Slot(types.SlotIdentification)))
	assert.Equal(t, []string{"license.pdf"}, names(record.Slot(types.SlotTradeLicense)))
	assert.Equal(t, types.AccountStatusPending, accounts.statuses["u1"])
	assert.Equal(t, 1, records.saves)
}

func TestSubmitPartialUpdateKeepsOtherSlots(t *testing.T) {
	store := &fakeAttachmentStore{}
	records := newFakeRecordRepo()
	records.records["u1"] = &types.IdentificationRecord{
		UserID: "u1",
		Slots: map[types.SlotName][]types.Attachment{
			types.SlotIdentification: {att("a1", "id1.pdf")},
		},
	}
	accounts := &fakeAccountRepo{statuses: map[string]types.AccountStatus{"u1": types.AccountStatusDraft}}
	w := NewWorkflow(testLogger(), store, records, accounts)

	record, err := w.Submit(context.Background(), "u1", company, map[types.SlotName][]File{
		types.SlotTradeLicense:    {file("tl1.pdf")},
		types.SlotBoardResolution: {file("br1.pdf")},
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"id1.pdf"}, names(record.Slot(types.SlotIdentification)))
	assert.Equal(t, []string{"tl1.pdf"}, names(record.Slot(types.SlotTradeLicense)))
	assert.Equal(t, []string{"br1.pdf"}, names(record.Slot(types.SlotBoardResolution)))
}

func TestSubmitRejectsSlotOutsideVariant(t *testing.T) {
	store := &fakeAttachmentStore{}
	records := newFakeRecordRepo()
	accounts := &fakeAccountRepo{statuses: map[string]types.AccountStatus{"u1": types.AccountStatusDraft}}
	w := NewWorkflow(testLogger(), store, records, accounts)

	_, err := w.Submit(context.Background(), "u1", individual, map[types.SlotName][]File{
		types.SlotBoardResolution: {file("br1.pdf")},
	}, nil)

	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Empty(t, store.stored)
	assert.Zero(t, records.saves)
	assert.Equal(t, types.AccountStatusDraft, accounts.statuses["u1"])
}

func TestSubmitDeleteAndReplace(t *testing.T) {
	store := &fakeAttachmentStore{}
	records := newFakeRecordRepo()
	records.records["u1"] = &types.IdentificationRecord{
		UserID: "u1",
		Slots: map[types.SlotName][]types.Attachment{
			types.SlotIdentification: {att("a1", "a.pdf"), att("a2", "b.pdf")},
		},
	}
	accounts := &fakeAccountRepo{statuses: map[string]types.AccountStatus{"u1": types.AccountStatusRejected}}
	w := NewWorkflow(testLogger(), store, records, accounts)

	record, err := w.Submit(context.Background(), "u1", freelancer, map[types.SlotName][]File{
		types.SlotIdentification: {file("c.pdf")},
	}, map[string]bool{"a1": true})

	require.NoError(t, err)
	assert.Equal(t, []string{"b.pdf", "c.pdf"}, names(record.Slot(types.SlotIdentification)))
	assert.Equal(t, types.AccountStatusPending, accounts.statuses["u1"])
}

func TestSubmitStorageFailureIsAllOrNothing(t *testing.T) {
	store := &fakeAttachmentStore{failName: "license.pdf"}
	records := newFakeRecordRepo()
	records.records["u1"] = &types.IdentificationRecord{
		UserID: "u1",
		Slots: map[types.SlotName][]types.Attachment{
			types.SlotIdentification: {att("a1", "old.pdf")},
		},
	}
	accounts := &fakeAccountRepo{statuses: map[string]types.AccountStatus{"u1": types.AccountStatusDraft}}
	w := NewWorkflow(testLogger(), store, records, accounts)

	_, err := w.Submit(context.Background(), "u1", freelancer, map[types.SlotName][]File{
		types.SlotIdentification: {file("passport.pdf")},
		types.SlotTradeLicense:   {file("license.pdf")},
	}, nil)

	require.Error(t, err)
	assert.True(t, IsStorage(err))
	assert.Zero(t, records.saves)
	assert.Equal(t, types.AccountStatusDraft, accounts.statuses["u1"])
	assert.Equal(t, []string{"old.pdf"}, names(records.records["u1"].Slot(types.SlotIdentification)))
}

func TestSubmitNoChangesOnPendingAccount(t *testing.T) {
	store := &fakeAttachmentStore{}
	records := newFakeRecordRepo()
	records.records["u1"] = &types.IdentificationRecord{
		UserID: "u1",
		Slots: map[types.SlotName][]types.Attachment{
			types.SlotIdentification: {att("a1", "passport.pdf")},
			types.SlotTradeLicense:   {att("a2", "license.pdf")},
		},
	}
	accounts := &fakeAccountRepo{statuses: map[string]types.AccountStatus{"u1": types.AccountStatusPending}}
	w := NewWorkflow(testLogger(), store, records, accounts)

	record, err := w.Submit(context.Background(), "u1", freelancer, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"passport.pdf"}, names(record.Slot(types.SlotIdentification)))
	assert.Equal(t, []string{"license.pdf"}, names(record.Slot(types.SlotTradeLicense)))
	assert.Equal(t, types.AccountStatusPending, accounts.statuses["u1"])
}

func TestSubmitRejectsPublishedAccount(t *testing.T) {
	store := &fakeAttachmentStore{}
	records := newFakeRecordRepo()
	accounts := &fakeAccountRepo{statuses: map[string]types.AccountStatus{"u1": types.AccountStatusPublished}}
	w := NewWorkflow(testLogger(), store, records, accounts)

	_, err := w.Submit(context.Background(), "u1", freelancer, map[types.SlotName][]File{
		types.SlotIdentification: {file("passport.pdf")},
	}, nil)

	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Empty(t, store.stored)
	assert.Zero(t, records.saves)
}

func TestSubmitRejectsDeactivatedAccount(t *testing.T) {
	store := &fakeAttachmentStore{}
	records := newFakeRecordRepo()
	accounts := &fakeAccountRepo{statuses: map[string]types.AccountStatus{"u1": types.AccountStatusDeactivated}}
	w := NewWorkflow(testLogger(), store, records, accounts)

	_, err := w.Submit(context.Background(), "u1", freelancer, map[types.SlotName][]File{
		types.SlotIdentification: {file("passport.pdf")},
	}, nil)

	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Empty(t, store.stored)
	assert.Zero(t, records.saves)
	// Reactivation is a settings operation; the submission must not move the
	// account anywhere.
	assert.Equal(t, types.AccountStatusDeactivated, accounts.statuses["u1"])
}

func TestSubmitPersistenceFailureSkipsStatusTransition(t *testing.T) {
	store := &fakeAttachmentStore{}
	records := newFakeRecordRepo()
	records.saveErr = errors.New("connection reset")
	accounts := &fakeAccountRepo{statuses: map[string]types.AccountStatus{"u1": types.AccountStatusDraft}}
	w := NewWorkflow(testLogger(), store, records, accounts)

	_, err := w.Submit(context.Background(), "u1", freelancer, map[types.SlotName][]File{
		types.SlotIdentification: {file("passport.pdf")},
	}, nil)

	require.Error(t, err)
	assert.True(t, IsPersistence(err))
	assert.Equal(t, types.AccountStatusDraft, accounts.statuses["u1"])
}

func TestSubmitStatusTransitionFailureKeepsRecord(t *testing.T) {
	store := &fakeAttachmentStore{}
	records := newFakeRecordRepo()
	accounts := &fakeAccountRepo{
		statuses: map[string]types.AccountStatus{"u1": types.AccountStatusDraft},
		setErr:   errors.New("connection reset"),
	}
	w := NewWorkflow(testLogger(), store, records, accounts)

	record, err := w.Submit(context.Background(), "u1", freelancer, map[types.SlotName][]File{
		types.SlotIdentification: {file("passport.pdf")},
	}, nil)

	require.Error(t, err)
	assert.True(t, IsStatusTransition(err))
	// The record write is kept and returned so the caller can still render it.
	require.NotNil(t, record)
	assert.Equal(t, 1, records.saves)
	assert.Equal(t, types.AccountStatusDraft, accounts.statuses["u1"])
}

func TestRecordPassesThroughRepository(t *testing.T) {
	records := newFakeRecordRepo()
	w := NewWorkflow(testLogger(), &fakeAttachmentStore{}, records, &fakeAccountRepo{statuses: map[string]types.AccountStatus{}})

	record, err := w.Record(context.Background(), "u1")
	require.NoError(t, err)
	assert.Nil(t, record)

	records.loadErr = errors.New("connection reset")
	_, err = w.Record(context.Background(), "u1")
	require.Error(t, err)
	assert.True(t, IsPersistence(err))
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(&strings.Builder{})
	return logger
}
